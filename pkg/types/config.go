package types

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Supported store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Built-in connection defaults. Every field is independently overridable.
const (
	DefaultHost     = "localhost"
	DefaultPort     = "3306"
	DefaultUser     = "root"
	DefaultPassword = "reels"
	DefaultName     = "christmas_movies"
)

// Config holds store selection and connection parameters.
type Config struct {
	Driver   string `json:"driver" yaml:"driver" mapstructure:"driver"`
	Host     string `json:"host" yaml:"host" mapstructure:"host"`
	Port     string `json:"port" yaml:"port" mapstructure:"port"`
	User     string `json:"user" yaml:"user" mapstructure:"user"`
	Password string `json:"-" yaml:"password" mapstructure:"password"`
	Name     string `json:"name" yaml:"name" mapstructure:"name"`

	// DataDir holds the SQLite database file. Ignored by mysql.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// Config validation errors.
var (
	ErrInvalidConfig = errors.New("invalid store config")
	ErrDriverUnknown = fmt.Errorf("%w: unknown driver", ErrInvalidConfig)
	ErrNameEmpty     = fmt.Errorf("%w: database name must not be empty", ErrInvalidConfig)
	ErrNameInvalid   = fmt.Errorf("%w: database name must be a plain identifier", ErrInvalidConfig)
	ErrHostEmpty     = fmt.Errorf("%w: host must not be empty", ErrInvalidConfig)
	ErrUserEmpty     = fmt.Errorf("%w: user must not be empty", ErrInvalidConfig)
)

var knownDrivers = map[string]bool{
	DriverSQLite: true,
	DriverMySQL:  true,
}

var plainName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// DefaultConfig returns a local development config for the SQLite driver.
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		Host:            DefaultHost,
		Port:            DefaultPort,
		User:            DefaultUser,
		Password:        DefaultPassword,
		Name:            DefaultName,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Validate checks that the Config is well-formed. It returns an error
// wrapping ErrInvalidConfig on failure.
func (c Config) Validate() error {
	if !knownDrivers[c.Driver] {
		return fmt.Errorf("%w %q", ErrDriverUnknown, c.Driver)
	}
	if c.Name == "" {
		return ErrNameEmpty
	}
	if !plainName.MatchString(c.Name) {
		return ErrNameInvalid
	}
	if c.Driver == DriverMySQL {
		if c.Host == "" {
			return ErrHostEmpty
		}
		if c.User == "" {
			return ErrUserEmpty
		}
	}
	return nil
}

// SQLitePath returns the database file used by the sqlite driver.
func (c Config) SQLitePath() string {
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, c.Name+".db")
}

// DSN renders the driver-specific data source name.
func (c Config) DSN() string {
	switch c.Driver {
	case DriverMySQL:
		port := c.Port
		if port == "" {
			port = DefaultPort
		}
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, port)
		mc.DBName = c.Name
		// parseTime stays off so DATE columns come back as text, matching sqlite.
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN()
	default:
		q := url.Values{}
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_pragma", "busy_timeout(5000)")
		// Writers take the RESERVED lock at BEGIN, so a read-then-write
		// transaction waits on busy_timeout instead of failing with SQLITE_BUSY.
		q.Set("_txlock", "immediate")
		return "file:" + filepath.ToSlash(c.SQLitePath()) + "?" + q.Encode()
	}
}

// Redacted returns a copy of the config safe to log.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "****"
	}
	return c
}

// Package config loads reels settings from flags, the environment, an
// optional .env file, and config.yaml in the configuration directory.
// Precedence is flag > environment > config.yaml > default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/reels/internal/logging"
	"github.com/mesh-intelligence/reels/internal/paths"
	"github.com/mesh-intelligence/reels/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	// FileName is the config file inside the configuration directory.
	FileName    = "config.yaml"
	envFileName = ".env"
)

// Config keys.
const (
	KeyDriver          = "db.driver"
	KeyHost            = "db.host"
	KeyPort            = "db.port"
	KeyUser            = "db.user"
	KeyPassword        = "db.password"
	KeyName            = "db.name"
	KeyMaxOpenConns    = "db.max_open_conns"
	KeyMaxIdleConns    = "db.max_idle_conns"
	KeyConnMaxLifetime = "db.conn_max_lifetime"
	KeyDataDir         = "data_dir"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyHTTPAddr        = "http.addr"
)

// DefaultHTTPAddr is the JSON API listen address.
const DefaultHTTPAddr = ":3000"

// envBindings maps each key to its environment variable.
var envBindings = map[string]string{
	KeyDriver:          "DB_DRIVER",
	KeyHost:            "DB_HOST",
	KeyPort:            "DB_PORT",
	KeyUser:            "DB_USER",
	KeyPassword:        "DB_PASSWORD",
	KeyName:            "DB_NAME",
	KeyMaxOpenConns:    "DB_MAX_OPEN_CONNS",
	KeyMaxIdleConns:    "DB_MAX_IDLE_CONNS",
	KeyConnMaxLifetime: "DB_CONN_MAX_LIFETIME",
	KeyDataDir:         paths.EnvDataDir,
	KeyLogLevel:        "LOG_LEVEL",
	KeyLogFormat:       "LOG_FORMAT",
	KeyHTTPAddr:        "HTTP_ADDR",
}

// flagBindings maps command-line flag names to keys. Flags missing from the
// flag set are skipped.
var flagBindings = map[string]string{
	"data-dir":   KeyDataDir,
	"driver":     KeyDriver,
	"log-level":  KeyLogLevel,
	"log-format": KeyLogFormat,
	"addr":       KeyHTTPAddr,
}

// Settings is the fully resolved runtime configuration.
type Settings struct {
	ConfigDir string
	// ConfigFile is the config.yaml that was read, empty when none existed.
	ConfigFile string
	DB         types.Config
	LogLevel   string
	LogFormat  string
	HTTPAddr   string
}

// Logging returns the logging configuration for s.
func (s Settings) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = s.LogLevel
	cfg.Format = s.LogFormat
	return cfg
}

func setDefaults(v *viper.Viper) {
	def := types.DefaultConfig()
	v.SetDefault(KeyDriver, def.Driver)
	v.SetDefault(KeyHost, def.Host)
	v.SetDefault(KeyPort, def.Port)
	v.SetDefault(KeyUser, def.User)
	v.SetDefault(KeyPassword, def.Password)
	v.SetDefault(KeyName, def.Name)
	v.SetDefault(KeyMaxOpenConns, def.MaxOpenConns)
	v.SetDefault(KeyMaxIdleConns, def.MaxIdleConns)
	v.SetDefault(KeyConnMaxLifetime, def.ConnMaxLifetime)
	v.SetDefault(KeyLogLevel, logging.DefaultConfig().Level)
	v.SetDefault(KeyLogFormat, logging.DefaultConfig().Format)
	v.SetDefault(KeyHTTPAddr, DefaultHTTPAddr)
}

// Load resolves settings for configDir. fs may be nil. A missing config.yaml
// or .env file is not an error; the returned store config is validated.
func Load(configDir string, fs *pflag.FlagSet) (*Settings, error) {
	loadEnvFiles(configDir)

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	if fs != nil {
		for name, key := range flagBindings {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind --%s: %w", name, err)
				}
			}
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	s := &Settings{
		ConfigDir:  configDir,
		ConfigFile: v.ConfigFileUsed(),
		DB: types.Config{
			Driver:          v.GetString(KeyDriver),
			Host:            v.GetString(KeyHost),
			Port:            v.GetString(KeyPort),
			User:            v.GetString(KeyUser),
			Password:        v.GetString(KeyPassword),
			Name:            v.GetString(KeyName),
			DataDir:         v.GetString(KeyDataDir),
			MaxOpenConns:    v.GetInt(KeyMaxOpenConns),
			MaxIdleConns:    v.GetInt(KeyMaxIdleConns),
			ConnMaxLifetime: v.GetDuration(KeyConnMaxLifetime),
		},
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		HTTPAddr:  v.GetString(KeyHTTPAddr),
	}

	if s.DB.DataDir == "" {
		dir, err := paths.DefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		s.DB.DataDir = dir
	}
	if !filepath.IsAbs(s.DB.DataDir) {
		abs, err := filepath.Abs(s.DB.DataDir)
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		s.DB.DataDir = abs
	}

	if err := s.DB.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadEnvFiles exports variables from .env in the working directory and in
// configDir. Variables already set in the environment are kept.
func loadEnvFiles(configDir string) {
	for _, path := range []string{envFileName, filepath.Join(configDir, envFileName)} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("ignoring unreadable env file")
		}
	}
}

// fileConfig is the layout of config.yaml. The password is never written;
// supply it through DB_PASSWORD.
type fileConfig struct {
	DB struct {
		Driver string `yaml:"driver"`
		Host   string `yaml:"host,omitempty"`
		Port   string `yaml:"port,omitempty"`
		User   string `yaml:"user,omitempty"`
		Name   string `yaml:"name"`
	} `yaml:"db"`
	DataDir string `yaml:"data_dir,omitempty"`
	Log     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
}

// WriteIfMissing writes s as config.yaml in configDir unless the file
// already exists. It reports whether a file was written.
func WriteIfMissing(configDir string, s Settings) (bool, error) {
	path := filepath.Join(configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}

	var fc fileConfig
	fc.DB.Driver = s.DB.Driver
	fc.DB.Name = s.DB.Name
	if s.DB.Driver == types.DriverMySQL {
		fc.DB.Host = s.DB.Host
		fc.DB.Port = s.DB.Port
		fc.DB.User = s.DB.User
	}
	fc.DataDir = s.DB.DataDir
	fc.Log.Level = s.LogLevel
	fc.Log.Format = s.LogFormat
	fc.HTTP.Addr = s.HTTPAddr

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

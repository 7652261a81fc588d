package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/reels/pkg/types"
)

// clearEnv blanks every bound variable so the host environment cannot leak
// into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	dataDir := t.TempDir()
	t.Setenv("REELS_DATA_DIR", dataDir)

	s, err := Load(dir, nil)
	require.NoError(t, err)

	assert.Empty(t, s.ConfigFile)
	assert.Equal(t, types.DriverSQLite, s.DB.Driver)
	assert.Equal(t, "localhost", s.DB.Host)
	assert.Equal(t, "3306", s.DB.Port)
	assert.Equal(t, "root", s.DB.User)
	assert.Equal(t, "reels", s.DB.Password)
	assert.Equal(t, "christmas_movies", s.DB.Name)
	assert.Equal(t, dataDir, s.DB.DataDir)
	assert.Equal(t, 10, s.DB.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, s.DB.ConnMaxLifetime)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.Equal(t, ":3000", s.HTTPAddr)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
db:
  driver: mysql
  host: db.internal
  name: from_file
log:
  level: warn
http:
  addr: ":8080"
`)

	t.Run("config file over defaults", func(t *testing.T) {
		s, err := Load(dir, nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, FileName), s.ConfigFile)
		assert.Equal(t, types.DriverMySQL, s.DB.Driver)
		assert.Equal(t, "db.internal", s.DB.Host)
		assert.Equal(t, "from_file", s.DB.Name)
		assert.Equal(t, "root", s.DB.User)
		assert.Equal(t, "warn", s.LogLevel)
		assert.Equal(t, ":8080", s.HTTPAddr)
	})

	t.Run("environment over config file", func(t *testing.T) {
		t.Setenv("DB_NAME", "from_env")
		t.Setenv("DB_HOST", "10.0.0.5")
		t.Setenv("DB_MAX_OPEN_CONNS", "25")
		s, err := Load(dir, nil)
		require.NoError(t, err)
		assert.Equal(t, "from_env", s.DB.Name)
		assert.Equal(t, "10.0.0.5", s.DB.Host)
		assert.Equal(t, 25, s.DB.MaxOpenConns)
	})

	t.Run("flag over environment", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "error")
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.String("log-level", "info", "")
		fs.String("driver", "", "")
		require.NoError(t, fs.Parse([]string{"--log-level", "debug"}))

		s, err := Load(dir, fs)
		require.NoError(t, err)
		assert.Equal(t, "debug", s.LogLevel)
		// Unchanged flags do not shadow the config file.
		assert.Equal(t, types.DriverMySQL, s.DB.Driver)
	})
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, envFileName, "DB_NAME=from_dotenv\nDB_PASSWORD=s3cret\n")
	t.Cleanup(func() {
		os.Unsetenv("DB_NAME")
		os.Unsetenv("DB_PASSWORD")
	})

	s, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", s.DB.Name)
	assert.Equal(t, "s3cret", s.DB.Password)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	t.Setenv("DB_DRIVER", "postgres")
	_, err := Load(dir, nil)
	assert.ErrorIs(t, err, types.ErrDriverUnknown)
}

func TestLoadMalformedConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, FileName, "db: [unclosed\n")

	_, err := Load(dir, nil)
	assert.Error(t, err)
}

func TestWriteIfMissing(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "nested")
	dataDir := t.TempDir()

	s := Settings{
		DB:        types.DefaultConfig(),
		LogLevel:  "debug",
		LogFormat: "json",
		HTTPAddr:  ":9000",
	}
	s.DB.DataDir = dataDir

	written, err := WriteIfMissing(dir, s)
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")

	loaded, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, dataDir, loaded.DB.DataDir)
	assert.Equal(t, "debug", loaded.LogLevel)
	assert.Equal(t, "json", loaded.LogFormat)
	assert.Equal(t, ":9000", loaded.HTTPAddr)

	written, err = WriteIfMissing(dir, Settings{})
	require.NoError(t, err)
	assert.False(t, written)
}

func TestSettingsLogging(t *testing.T) {
	cfg := Settings{LogLevel: "warn", LogFormat: "json"}.Logging()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.NotNil(t, cfg.Output)
}

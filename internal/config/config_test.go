package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(Sources{LookupEnv: envMap(nil)})
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, 5*time.Second, cfg.Registry.WatchInterval)
}

func TestTOMLFile(t *testing.T) {
	path := writeFile(t, "academy.toml", `
log_level = "debug"

[server]
port = 9090
shutdown_timeout = "5s"

[storage]
type = "sqlite"
sqlite_path = "/tmp/academy.db"

[registry]
watch_interval = "2s"
`)

	cfg, err := Load(Sources{File: path, LookupEnv: envMap(nil)})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StorageSQLite, cfg.Storage.Type)
	assert.Equal(t, "/tmp/academy.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 2*time.Second, cfg.Registry.WatchInterval)
	// Untouched sections keep their defaults
	assert.Equal(t, 30*time.Second, cfg.Judge.Timeout)
}

func TestMissingTOMLFileFails(t *testing.T) {
	_, err := Load(Sources{File: filepath.Join(t.TempDir(), "absent.toml"), LookupEnv: envMap(nil)})
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "academy.toml", "[server]\nport = 9090\n")

	cfg, err := Load(Sources{File: path, LookupEnv: envMap(map[string]string{
		"ACADEMY_PORT":           "7070",
		"STORAGE_TYPE":           "Redis",
		"REDIS_URL":              "redis://cache:6379",
		"GEMINI_API_KEY":         "key-from-env-0123",
		"ACADEMY_WATCH_INTERVAL": "1s",
	})})
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, "redis://cache:6379", cfg.Storage.RedisURL)
	assert.Equal(t, "key-from-env-0123", cfg.Judge.APIKey)
	assert.Equal(t, time.Second, cfg.Registry.WatchInterval)
}

func TestAcademyKeyTakesPrecedence(t *testing.T) {
	cfg, err := Load(Sources{LookupEnv: envMap(map[string]string{
		"API_KEY":         "generic-key-0123",
		"ACADEMY_API_KEY": "academy-key-0123",
	})})
	require.NoError(t, err)
	assert.Equal(t, "academy-key-0123", cfg.Judge.APIKey)
}

func TestDotEnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "API_KEY=dotenv-key-0123\nACADEMY_ADMIN_SECRET=9999\n")

	cfg, err := Load(Sources{EnvFile: envFile, LookupEnv: envMap(map[string]string{
		"ACADEMY_ADMIN_SECRET": "1234",
	})})
	require.NoError(t, err)

	assert.Equal(t, "dotenv-key-0123", cfg.Judge.APIKey)
	// The real environment wins over the dotenv file
	assert.Equal(t, "1234", cfg.Admin.Secret)
}

func TestMissingDotEnvIsSkipped(t *testing.T) {
	_, err := Load(Sources{EnvFile: filepath.Join(t.TempDir(), ".env"), LookupEnv: envMap(nil)})
	assert.NoError(t, err)
}

func TestInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown storage", map[string]string{"STORAGE_TYPE": "mongo"}},
		{"redis without url", map[string]string{"STORAGE_TYPE": "redis"}},
		{"postgres without dsn", map[string]string{"STORAGE_TYPE": "postgres"}},
		{"bad port", map[string]string{"ACADEMY_PORT": "eighty"}},
		{"port out of range", map[string]string{"ACADEMY_PORT": "70000"}},
		{"bad duration", map[string]string{"ACADEMY_JUDGE_TIMEOUT": "soon"}},
		{"bad log level", map[string]string{"ACADEMY_LOG_LEVEL": "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Sources{LookupEnv: envMap(tt.env)})
			assert.Error(t, err)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

// Package config loads server settings from defaults, an optional TOML file,
// an optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config is the complete server configuration
type Config struct {
	LogLevel      string         `toml:"log_level"`
	ProfanityFile string         `toml:"profanity_file"`
	Server        ServerConfig   `toml:"server"`
	Storage       StorageConfig  `toml:"storage"`
	Judge         JudgeConfig    `toml:"judge"`
	Admin         AdminConfig    `toml:"admin"`
	Registry      RegistryConfig `toml:"registry"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// StorageConfig selects and configures the durable store
type StorageConfig struct {
	Type        string `toml:"type"`
	RedisURL    string `toml:"redis_url"`
	RedisPrefix string `toml:"redis_prefix"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn"`
}

// JudgeConfig configures the judgement collaborator
type JudgeConfig struct {
	APIKey  string        `toml:"api_key"`
	Model   string        `toml:"model"`
	Timeout time.Duration `toml:"timeout"`
}

// AdminConfig holds the administrative secret
type AdminConfig struct {
	Secret     string `toml:"secret"`
	SecretHash string `toml:"secret_hash"`
}

// RegistryConfig configures the cross-process change watcher
type RegistryConfig struct {
	WatchInterval time.Duration `toml:"watch_interval"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type:        StorageMemory,
			RedisPrefix: "academy",
			SQLitePath:  "data/academy.db",
		},
		Judge: JudgeConfig{
			Model:   "gemini-3-flash-preview",
			Timeout: 30 * time.Second,
		},
		Admin: AdminConfig{
			Secret: "4545",
		},
		Registry: RegistryConfig{
			WatchInterval: 5 * time.Second,
		},
	}
}

// Sources names where Load reads from
type Sources struct {
	// File is a TOML file; empty skips it
	File string
	// EnvFile is a dotenv file; a missing file is skipped
	EnvFile string
	// LookupEnv reads the process environment; nil means os.LookupEnv
	LookupEnv func(key string) (string, bool)
}

// DefaultSources reads ACADEMY_CONFIG and ./.env
func DefaultSources() Sources {
	return Sources{
		File:      os.Getenv("ACADEMY_CONFIG"),
		EnvFile:   ".env",
		LookupEnv: os.LookupEnv,
	}
}

// Load builds a Config from src and validates it
func Load(src Sources) (Config, error) {
	cfg := Default()

	if src.File != "" {
		if _, err := toml.DecodeFile(src.File, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", src.File, err)
		}
	}

	dotenv := map[string]string{}
	if src.EnvFile != "" {
		m, err := godotenv.Read(src.EnvFile)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read env file %s: %w", src.EnvFile, err)
		}
	}

	lookup := src.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	// The real environment wins over the dotenv file
	env := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v, true
			}
		}
		for _, k := range keys {
			if v, ok := dotenv[k]; ok && v != "" {
				return v, true
			}
		}
		return "", false
	}

	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}
	cfg.Storage.Type = strings.ToLower(strings.TrimSpace(cfg.Storage.Type))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(env func(keys ...string) (string, bool)) error {
	str := func(dst *string, keys ...string) {
		if v, ok := env(keys...); ok {
			*dst = v
		}
	}
	dur := func(dst *time.Duration, key string) error {
		v, ok := env(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str(&c.LogLevel, "ACADEMY_LOG_LEVEL")
	str(&c.ProfanityFile, "ACADEMY_PROFANITY_FILE")
	str(&c.Server.Host, "ACADEMY_HOST")
	if v, ok := env("ACADEMY_PORT", "PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ACADEMY_PORT: %w", err)
		}
		c.Server.Port = port
	}
	str(&c.Storage.Type, "ACADEMY_STORAGE", "STORAGE_TYPE")
	str(&c.Storage.RedisURL, "ACADEMY_REDIS_URL", "REDIS_URL")
	str(&c.Storage.RedisPrefix, "ACADEMY_REDIS_PREFIX")
	str(&c.Storage.SQLitePath, "ACADEMY_SQLITE_PATH")
	str(&c.Storage.PostgresDSN, "ACADEMY_POSTGRES_DSN", "DATABASE_URL")
	str(&c.Judge.APIKey, "ACADEMY_API_KEY", "GEMINI_API_KEY", "API_KEY")
	str(&c.Judge.Model, "ACADEMY_JUDGE_MODEL")
	str(&c.Admin.Secret, "ACADEMY_ADMIN_SECRET")
	str(&c.Admin.SecretHash, "ACADEMY_ADMIN_SECRET_HASH")

	for key, dst := range map[string]*time.Duration{
		"ACADEMY_JUDGE_TIMEOUT":    &c.Judge.Timeout,
		"ACADEMY_WATCH_INTERVAL":   &c.Registry.WatchInterval,
		"ACADEMY_READ_TIMEOUT":     &c.Server.ReadTimeout,
		"ACADEMY_SHUTDOWN_TIMEOUT": &c.Server.ShutdownTimeout,
	} {
		if err := dur(dst, key); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects settings the server cannot start with
func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("redis storage requires a redis URL")
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("sqlite storage requires a database path")
		}
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("postgres storage requires a DSN")
		}
	default:
		return fmt.Errorf("invalid storage type %q: must be memory, redis, sqlite or postgres", c.Storage.Type)
	}
	return nil
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// Package config loads blogsite settings from defaults, an optional YAML file,
// an optional .env file and BLOG_* environment variables.
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

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSecret is the development signing secret. Validate rejects it in production.
const DefaultSecret = "change-me-in-production"

// Config holds application configuration.
type Config struct {
	Env     string  `yaml:"env"`
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Auth    Auth    `yaml:"auth"`
	Log     Log     `yaml:"log"`
}

type Server struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Storage struct {
	Driver      string `yaml:"driver"`
	BadgerPath  string `yaml:"badger_path"`
	InMemory    bool   `yaml:"in_memory"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

type Auth struct {
	Secret     string        `yaml:"secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	CookieName string        `yaml:"cookie_name"`
	LoginURL   string        `yaml:"login_url"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		Env: "development",
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Storage: Storage{
			Driver:     "badger",
			BadgerPath: "data/badger",
		},
		Auth: Auth{
			Secret:     DefaultSecret,
			TokenTTL:   12 * time.Hour,
			CookieName: "session",
			LoginURL:   "/login/",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config. A missing file at path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Env, "BLOG_ENV")
	setString(&c.Server.Addr, "BLOG_ADDR")
	setString(&c.Storage.Driver, "BLOG_STORAGE_DRIVER")
	setString(&c.Storage.BadgerPath, "BLOG_BADGER_PATH")
	setString(&c.Storage.PostgresDSN, "BLOG_POSTGRES_DSN")
	setString(&c.Auth.Secret, "BLOG_SECRET")
	setString(&c.Auth.CookieName, "BLOG_COOKIE_NAME")
	setString(&c.Auth.LoginURL, "BLOG_LOGIN_URL")
	setString(&c.Log.Level, "BLOG_LOG_LEVEL")
	setString(&c.Log.Format, "BLOG_LOG_FORMAT")

	if v, ok := os.LookupEnv("BLOG_IN_MEMORY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BLOG_IN_MEMORY: %w", err)
		}
		c.Storage.InMemory = b
	}
	if v, ok := os.LookupEnv("BLOG_TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("BLOG_TOKEN_TTL: %w", err)
		}
		c.Auth.TokenTTL = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// IsProduction reports whether Env names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures required values are present and production settings are safe.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}

	switch c.Storage.Driver {
	case "badger":
		if c.Storage.BadgerPath == "" && !c.Storage.InMemory {
			return errors.New("storage.badger_path is required for the badger driver")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Auth.Secret == "" {
		return errors.New("auth.secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Auth.CookieName == "" {
		return errors.New("auth.cookie_name is required")
	}
	if !strings.HasPrefix(c.Auth.LoginURL, "/") {
		return errors.New("auth.login_url must be an absolute path")
	}
	if c.IsProduction() {
		if c.Auth.Secret == DefaultSecret {
			return errors.New("auth.secret must be changed from the default value in production")
		}
		if len(c.Auth.Secret) < 32 {
			return errors.New("auth.secret must be at least 32 characters in production")
		}
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level into a slog.Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

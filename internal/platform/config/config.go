// Package config loads process settings from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ProductionEnvironment is the APP_ENV value that switches on production behaviour.
const ProductionEnvironment = "production"

// Config is the full process configuration.
type Config struct {
	Env                     string        `mapstructure:"APP_ENV"`
	HTTPPort                string        `mapstructure:"HTTP_PORT"`
	GracefulShutdownTimeout time.Duration `mapstructure:"GRACEFUL_SHUTDOWN_TIMEOUT"`
	CORSAllowedOrigins      []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`

	Log      LogConfig      `mapstructure:",squash"`
	JWT      JWTConfig      `mapstructure:",squash"`
	Database DatabaseConfig `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Stream   StreamConfig   `mapstructure:",squash"`
	Admin    AdminConfig    `mapstructure:",squash"`

	CatalogCacheTTL time.Duration `mapstructure:"CATALOG_CACHE_TTL"`
}

type LogConfig struct {
	Level      string `mapstructure:"LOG_LEVEL"`
	ShowCaller bool   `mapstructure:"LOG_SHOW_CALLER"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"JWT_SECRET"`
	AccessTTL  time.Duration `mapstructure:"JWT_ACCESS_TTL"`
	RefreshTTL time.Duration `mapstructure:"JWT_REFRESH_TTL"`

	// SessionSweepInterval is how often expired refresh sessions are purged.
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`
}

type DatabaseConfig struct {
	Host           string        `mapstructure:"DB_HOST"`
	Port           string        `mapstructure:"DB_PORT"`
	User           string        `mapstructure:"DB_USER"`
	Password       string        `mapstructure:"DB_PASSWORD"`
	Name           string        `mapstructure:"DB_NAME"`
	SSLMode        string        `mapstructure:"DB_SSLMODE"`
	ConnectTimeout time.Duration `mapstructure:"DB_CONNECT_TIMEOUT"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
}

// StreamConfig tunes the price stream.
type StreamConfig struct {
	TickInterval   time.Duration `mapstructure:"STREAM_TICK_INTERVAL"`
	OutboundBuffer int           `mapstructure:"STREAM_OUTBOUND_BUFFER"`
	InboundRate    float64       `mapstructure:"STREAM_INBOUND_RATE"`
}

// AdminConfig is the account created by the seed command.
type AdminConfig struct {
	Email    string `mapstructure:"DEFAULT_ADMIN_EMAIL"`
	Password string `mapstructure:"DEFAULT_ADMIN_PASSWORD"`
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == ProductionEnvironment
}

var defaults = map[string]any{
	"APP_ENV":                   "development",
	"HTTP_PORT":                 "8080",
	"GRACEFUL_SHUTDOWN_TIMEOUT": 10 * time.Second,
	"CORS_ALLOWED_ORIGINS":      []string{},
	"LOG_LEVEL":                 "info",
	"LOG_SHOW_CALLER":           false,
	"JWT_SECRET":                "",
	"JWT_ACCESS_TTL":            15 * time.Minute,
	"JWT_REFRESH_TTL":           7 * 24 * time.Hour,
	"SESSION_SWEEP_INTERVAL":    time.Hour,
	"DB_HOST":                   "localhost",
	"DB_PORT":                   "5432",
	"DB_USER":                   "postgres",
	"DB_PASSWORD":               "",
	"DB_NAME":                   "prices",
	"DB_SSLMODE":                "disable",
	"DB_CONNECT_TIMEOUT":        30 * time.Second,
	"REDIS_HOST":                "",
	"REDIS_PORT":                "6379",
	"REDIS_PASSWORD":            "",
	"CATALOG_CACHE_TTL":         time.Duration(0),
	"STREAM_TICK_INTERVAL":      time.Second,
	"STREAM_OUTBOUND_BUFFER":    64,
	"STREAM_INBOUND_RATE":       20.0,
	"DEFAULT_ADMIN_EMAIL":       "admin@example.com",
	"DEFAULT_ADMIN_PASSWORD":    "admin123",
}

// Load reads configuration. Precedence: environment, then .env, then the YAML
// file at path, then defaults. Without a path, ./config.yml is optional.
func Load(path string) (*Config, error) {
	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	path = strings.TrimSpace(path)
	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yml")
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.JWT.SessionSweepInterval <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.Stream.TickInterval <= 0 {
		return errors.New("STREAM_TICK_INTERVAL must be positive")
	}
	if c.Stream.OutboundBuffer <= 0 {
		return errors.New("STREAM_OUTBOUND_BUFFER must be positive")
	}
	if c.Stream.InboundRate <= 0 {
		return errors.New("STREAM_INBOUND_RATE must be positive")
	}
	return nil
}

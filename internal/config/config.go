// Package config loads application configuration from built-in defaults, an
// optional YAML overlay, and finally the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration surface of the service.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// AppConfig identifies the running application.
type AppConfig struct {
	Name    string `yaml:"name" env:"APP_NAME"`
	Version string `yaml:"version" env:"APP_VERSION"`
	Debug   bool   `yaml:"debug" env:"APP_DEBUG"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST"`
	Port int    `yaml:"port" env:"SERVER_PORT"`
}

// DatabaseConfig controls the PostgreSQL connection. An empty URL selects
// the in-memory store, which is intended for tests and local development.
type DatabaseConfig struct {
	URL          string `yaml:"url" env:"DATABASE_URL"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS"`
}

// AuthConfig controls credential hashing and token minting.
type AuthConfig struct {
	Secret          string `yaml:"secret" env:"JWT_SECRET"`
	Algorithm       string `yaml:"algorithm" env:"JWT_ALGORITHM"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes" env:"TOKEN_TTL_MINUTES"`
	BcryptCost      int    `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

// TokenTTL returns the token lifetime as a duration.
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// LoggingConfig controls log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
	Output string `yaml:"output" env:"LOG_OUTPUT"`
}

// HTTPConfig controls cross-cutting HTTP behaviour.
type HTTPConfig struct {
	CORSOrigins       []string `yaml:"cors_origins" env:"CORS_ALLOWED_ORIGINS"`
	RateLimitPerSec   int      `yaml:"rate_limit_per_sec" env:"RATE_LIMIT_PER_SEC"`
	RateLimitBurst    int      `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`
	RequestTimeoutSec int      `yaml:"request_timeout_sec" env:"REQUEST_TIMEOUT_SEC"`
}

// defaultConfig returns the baseline configuration. Defaults live here rather
// than in envdecode tags so that a YAML overlay survives an unset environment.
func defaultConfig() Config {
	return Config{
		App: AppConfig{
			Name:    "calc-service",
			Version: "1.0.0",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Auth: AuthConfig{
			Secret:          "change-me-in-production",
			Algorithm:       "HS256",
			TokenTTLMinutes: 30,
			BcryptCost:      10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		HTTP: HTTPConfig{
			CORSOrigins:       []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimitPerSec:   20,
			RateLimitBurst:    40,
			RequestTimeoutSec: 30,
		},
	}
}

// Load reads configuration: .env file (if present), then defaults, then
// config.yaml (if present), then environment variables, with the environment
// winning.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromPath("config.yaml")
}

// LoadFromPath loads like Load but with an explicit YAML overlay path.
func LoadFromPath(path string) (*Config, error) {
	cfg := defaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// An entirely unset environment is fine: defaults and YAML already apply.
	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Auth.Algorithm != "HS256" {
		return fmt.Errorf("unsupported signing algorithm %q", c.Auth.Algorithm)
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}
	return nil
}

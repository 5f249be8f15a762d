// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

const devJWTSecret = "dev-jwt-secret-change-in-production"

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8000).
	HTTPAddr string `mapstructure:"CP_HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN for the control-plane database.
	DatabaseURL string `mapstructure:"CP_DATABASE_URL"`
	// JWTSecret is the HMAC secret used to sign access tokens.
	JWTSecret string `mapstructure:"CP_JWT_SECRET"`
	// JWTIssuer is the iss claim set on issued tokens.
	JWTIssuer string `mapstructure:"CP_JWT_ISSUER"`
	// JWTAccessTTL is the access token lifetime (e.g. "900s").
	JWTAccessTTL string `mapstructure:"CP_JWT_ACCESS_TTL"`
	// Argon2MemoryKB is the argon2id memory parameter in KiB; default 65536.
	Argon2MemoryKB int `mapstructure:"CP_ARGON2_MEMORY_KB"`
	// Argon2Time is the argon2id time (iterations) parameter; default 1.
	Argon2Time int `mapstructure:"CP_ARGON2_TIME"`
	// Argon2Parallelism is the argon2id parallelism parameter; default 4.
	Argon2Parallelism int `mapstructure:"CP_ARGON2_PARALLELISM"`
	// LogFormat selects the slog handler: "json" or "text".
	LogFormat string `mapstructure:"CP_LOG_FORMAT"`
	// LogLevel is the minimum slog level: debug, info, warn, error.
	LogLevel string `mapstructure:"CP_LOG_LEVEL"`
	// OTLPEndpoint is the OTLP trace collector endpoint (e.g. http://localhost:4318). Empty disables tracing.
	OTLPEndpoint string `mapstructure:"CP_OTLP_ENDPOINT"`
	// Env is the application environment (e.g. "development", "production"). The dev JWT secret is refused in production.
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("CP_HTTP_ADDR", ":8000")
	v.SetDefault("CP_DATABASE_URL", "")
	v.SetDefault("CP_JWT_SECRET", devJWTSecret)
	v.SetDefault("CP_JWT_ISSUER", "control-plane")
	v.SetDefault("CP_JWT_ACCESS_TTL", "900s")
	v.SetDefault("CP_ARGON2_MEMORY_KB", 64*1024)
	v.SetDefault("CP_ARGON2_TIME", 1)
	v.SetDefault("CP_ARGON2_PARALLELISM", 4)
	v.SetDefault("CP_LOG_FORMAT", "text")
	v.SetDefault("CP_LOG_LEVEL", "info")
	v.SetDefault("CP_OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: CP_HTTP_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: CP_JWT_SECRET must be set")
	}
	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		return nil, errors.New("config: CP_JWT_SECRET must not be the dev default when APP_ENV=production")
	}
	if cfg.Argon2MemoryKB < 8*1024 {
		return nil, errors.New("config: CP_ARGON2_MEMORY_KB must be at least 8192")
	}
	if cfg.Argon2Time < 1 {
		return nil, errors.New("config: CP_ARGON2_TIME must be at least 1")
	}
	if cfg.Argon2Parallelism < 1 || cfg.Argon2Parallelism > 255 {
		return nil, errors.New("config: CP_ARGON2_PARALLELISM must be between 1 and 255")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 900s if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 900 * time.Second
	}
	return d
}

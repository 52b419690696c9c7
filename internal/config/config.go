package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	MongoURI      string
	MongoDatabase string
	DatabaseDSN   string // Postgres, audit log only
	RedisAddr     string // empty disables the autocomplete cache
	JWTSecret     string
	CORSOrigins   string
	LogLevel      string
	LogFormat     string

	AutoCompleteCacheTTL time.Duration

	warnings []string
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=trucking port=5432 sslmode=disable"

func Load() *Config {
	// .env is optional; real deployments pass the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "trucking"),
		DatabaseDSN:   getEnv("DATABASE_DSN", defaultDSN),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),

	}
	cfg.AutoCompleteCacheTTL = cfg.getEnvDuration("AUTOCOMPLETE_CACHE_TTL", 10*time.Minute)

	if cfg.DatabaseDSN == defaultDSN {
		cfg.warn("DATABASE_DSN is not set, using the local development default")
	}
	if cfg.RedisAddr == "" {
		cfg.warn("REDIS_ADDR is not set, autocomplete caching is disabled")
	}

	return cfg
}

// Warnings are the fallbacks Load applied. Load runs before the logger
// exists, so the caller logs them.
func (c *Config) Warnings() []string {
	return c.warnings
}

func (c *Config) warn(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %q", c.HTTPPort))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGODB_URI is required"))
	}
	if c.MongoDatabase == "" {
		errs = append(errs, errors.New("MONGODB_DATABASE is required"))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", c.LogFormat))
	}
	if c.AutoCompleteCacheTTL <= 0 {
		errs = append(errs, errors.New("AUTOCOMPLETE_CACHE_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		c.warn("invalid duration %s=%q, using default %s", key, v, def)
		return def
	}
	return d
}

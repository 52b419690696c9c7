package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		HTTPPort:             "8080",
		MongoURI:             "mongodb://localhost:27017",
		MongoDatabase:        "trucking",
		JWTSecret:            strings.Repeat("s", 32),
		LogFormat:            "json",
		AutoCompleteCacheTTL: time.Minute,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: "at least 32"},
		{name: "bad port", mutate: func(c *Config) { c.HTTPPort = "http" }, wantErr: "HTTP_PORT"},
		{name: "port out of range", mutate: func(c *Config) { c.HTTPPort = "70000" }, wantErr: "HTTP_PORT"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "LOG_FORMAT"},
		{name: "no database", mutate: func(c *Config) { c.MongoDatabase = "" }, wantErr: "MONGODB_DATABASE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MONGODB_DATABASE", "fleet")
	t.Setenv("AUTOCOMPLETE_CACHE_TTL", "30s")

	cfg := Load()
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.MongoDatabase != "fleet" {
		t.Errorf("MongoDatabase = %q", cfg.MongoDatabase)
	}
	if cfg.AutoCompleteCacheTTL != 30*time.Second {
		t.Errorf("AutoCompleteCacheTTL = %s", cfg.AutoCompleteCacheTTL)
	}
}

func TestLoadFallsBackOnBadDuration(t *testing.T) {
	t.Setenv("AUTOCOMPLETE_CACHE_TTL", "soon")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("DATABASE_DSN", "host=db")

	var logged bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logged, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := Load()
	if cfg.AutoCompleteCacheTTL != 10*time.Minute {
		t.Fatalf("AutoCompleteCacheTTL = %s, want default", cfg.AutoCompleteCacheTTL)
	}
	if w := cfg.Warnings(); len(w) != 1 || !strings.Contains(w[0], "AUTOCOMPLETE_CACHE_TTL") {
		t.Fatalf("warnings = %q", w)
	}
	if logged.Len() != 0 {
		t.Fatalf("Load logged before the logger was configured: %s", logged.String())
	}
}

func TestLoadWarnsAboutDisabledCache(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("DATABASE_DSN", "host=db")

	w := Load().Warnings()
	if len(w) != 1 || !strings.Contains(w[0], "REDIS_ADDR") {
		t.Fatalf("warnings = %q", w)
	}
}

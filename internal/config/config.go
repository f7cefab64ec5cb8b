// Package config reads the server's settings from environment variables,
// with defaults suited to local development.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	// HTTPAddr is the listen address (HTTP_ADDR, default :8080).
	HTTPAddr string
	// DataDir is the directory holding the table files (DATA_DIR, default data).
	DataDir string
	// LogLevel is debug, info, warn or error (LOG_LEVEL, default info).
	LogLevel string
	// LogFormat is json or text (LOG_FORMAT, default json).
	LogFormat string
	// ShutdownTimeout bounds graceful HTTP shutdown (SHUTDOWN_TIMEOUT, default 10s).
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:  env("HTTP_ADDR", ":8080"),
		DataDir:   env("DATA_DIR", "data"),
		LogLevel:  env("LOG_LEVEL", "info"),
		LogFormat: env("LOG_FORMAT", "json"),
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	timeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = timeout
	return cfg, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

// Package database connects to the bookshop database.
package database

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/marshallshelly/pebble-bookshop/internal/models"
	"github.com/marshallshelly/pebble-bookshop/pkg/runtime"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvUser     = "DB_USER"
	EnvPassword = "DB_PASSWORD"
	EnvName     = "DB_NAME"
	EnvHost     = "DB_HOST"
	EnvPort     = "DB_PORT"
	EnvSSLMode  = "DB_SSLMODE"
)

// ConfigFromEnv builds a connection config from DB_* variables, falling back
// to postgres:postgres@localhost:5432/test_db.
func ConfigFromEnv() (*runtime.Config, error) {
	cfg := runtime.DefaultConfig()
	cfg.Host = getenv(EnvHost, cfg.Host)
	cfg.Database = getenv(EnvName, "test_db")
	cfg.User = getenv(EnvUser, cfg.User)
	cfg.Password = getenv(EnvPassword, "postgres")
	cfg.SSLMode = getenv(EnvSSLMode, cfg.SSLMode)

	if raw, ok := os.LookupEnv(EnvPort); ok && raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid %s %q", EnvPort, raw)
		}
		cfg.Port = port
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Open registers the models and connects using cfg.
// The caller owns the returned DB and must Close it.
func Open(ctx context.Context, cfg *runtime.Config) (*runtime.DB, error) {
	if err := models.RegisterAll(); err != nil {
		return nil, fmt.Errorf("failed to register models: %w", err)
	}

	db, err := runtime.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// OpenURL is Open for a full connection URL.
func OpenURL(ctx context.Context, url string) (*runtime.DB, error) {
	if err := models.RegisterAll(); err != nil {
		return nil, fmt.Errorf("failed to register models: %w", err)
	}

	db, err := runtime.ConnectWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseURL   = "./dev.db"
	defaultPort          = "8080"
	defaultEnv           = "development"
	defaultLogLevel      = "info"
	defaultMetricsPrefix = "costworks"
	defaultMigrationsDir = "./migrations"
)

// Dialect identifies the SQL backend selected by DATABASE_URL.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	Port          string
	DatabaseURL   string
	MigrationsDir string
	LogLevel      string
	MetricsPrefix string
	SeedDemoData  bool
}

// Load reads environment variables and returns a populated Config. The given dotenv files
// (.env in the working directory when none are given) are loaded first; a missing file is
// ignored and variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env files.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:           getenv("APP_ENV", defaultEnv),
		Port:          getenv("PORT", defaultPort),
		DatabaseURL:   getenv("DATABASE_URL", defaultDatabaseURL),
		MigrationsDir: getenv("MIGRATIONS_DIR", defaultMigrationsDir),
		LogLevel:      strings.ToLower(getenv("LOG_LEVEL", defaultLogLevel)),
		MetricsPrefix: getenv("METRICS_PREFIX", defaultMetricsPrefix),
	}

	if raw := os.Getenv("SEED_DEMO_DATA"); raw != "" {
		seed, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SEED_DEMO_DATA %q: %w", raw, err)
		}
		cfg.SeedDemoData = seed
	}

	return cfg, nil
}

// IsDev reports whether the application runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// Dialect derives the SQL backend from the database URL. Anything that is not a
// postgres URL is treated as a SQLite file path.
func (c Config) Dialect() Dialect {
	return DialectFor(c.DatabaseURL)
}

// DialectFor derives the SQL backend from a database URL.
func DialectFor(databaseURL string) Dialect {
	lower := strings.ToLower(databaseURL)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

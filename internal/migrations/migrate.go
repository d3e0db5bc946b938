package migrations

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"

	"github.com/Simplici0/costworks/internal/config"
)

// Up runs all pending SQL migrations for the dialect. Migrations live in one
// subdirectory of migrationsDir per dialect.
func Up(db *sql.DB, dialect config.Dialect, migrationsDir string) error {
	gooseDialect, err := gooseDialectFor(dialect)
	if err != nil {
		return err
	}

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, Dir(dialect, migrationsDir)); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}

// Dir is the directory holding the dialect's migrations.
func Dir(dialect config.Dialect, migrationsDir string) string {
	return filepath.Join(migrationsDir, string(dialect))
}

func gooseDialectFor(dialect config.Dialect) (string, error) {
	switch dialect {
	case config.DialectSQLite:
		return "sqlite3", nil
	case config.DialectPostgres:
		return "postgres", nil
	}
	return "", fmt.Errorf("unsupported database dialect %q", dialect)
}

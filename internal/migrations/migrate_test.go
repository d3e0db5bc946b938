package migrations

import (
	"path/filepath"
	"testing"

	"github.com/Simplici0/costworks/internal/config"
	"github.com/Simplici0/costworks/internal/db"
)

func TestUpCreatesSchema(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "migrate-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := Up(database, config.DialectSQLite, "../../migrations"); err != nil {
			t.Fatalf("run migrations (iteration=%d): %v", i, err)
		}
	}

	for _, table := range []string{"purchase_orders", "inventory_items", "stock_additions", "products", "product_materials", "product_tasks", "global_costs"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestUpRejectsUnknownDialect(t *testing.T) {
	if err := Up(nil, config.Dialect("mysql"), "../../migrations"); err == nil {
		t.Fatalf("expected error for unsupported dialect")
	}
}

func TestDir(t *testing.T) {
	if got, want := Dir(config.DialectPostgres, "migrations"), filepath.Join("migrations", "postgres"); got != want {
		t.Fatalf("Dir=%q, want %q", got, want)
	}
}

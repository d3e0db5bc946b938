package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/costworks/internal/config"
	"github.com/Simplici0/costworks/internal/db"
	"github.com/Simplici0/costworks/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, config.DialectSQLite, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{Dialect: config.DialectSQLite}

	for i := 0; i < 10; i++ {
		stats, err := Run(context.Background(), database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 18 {
				t.Fatalf("expected 18 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM employees`, nil, 2)
	assertCount(t, database, `SELECT COUNT(*) FROM global_salaries`, nil, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM global_costs WHERE id = 1`, nil, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM standard_tasks WHERE kind = ?`, "shipping", 1)
	assertCount(t, database, `SELECT COUNT(*) FROM purchase_orders`, nil, 2)
	assertCount(t, database, `SELECT COUNT(*) FROM stock_additions WHERE supplier_lot_number LIKE ?`, "DEMO-OIL-%", 2)
	assertCount(t, database, `SELECT COUNT(*) FROM products WHERE product_name = ?`, DemoProductName, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM product_materials`, nil, 2)
	assertCount(t, database, `SELECT COUNT(*) FROM product_tasks WHERE employee_id IS NOT NULL`, nil, 2)

	var remaining string
	if err := database.QueryRow(`SELECT quantity_remaining_grams FROM stock_additions WHERE supplier_lot_number = ?`, "DEMO-OIL-001").Scan(&remaining); err != nil {
		t.Fatalf("query lot remaining: %v", err)
	}
	if remaining != "400" {
		t.Fatalf("expected remaining %q stored exactly, got %q", "400", remaining)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}

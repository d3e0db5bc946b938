package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/costworks/internal/config"
	"github.com/Simplici0/costworks/internal/costing"
	"github.com/Simplici0/costworks/internal/db"
	"github.com/Simplici0/costworks/internal/migrations"
	"github.com/Simplici0/costworks/internal/seed"
)

type countingTracker struct {
	ops []string
}

func (c *countingTracker) TrackDBOperation(op string) func(time.Time) {
	return func(time.Time) { c.ops = append(c.ops, op) }
}

func newSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database, config.DialectSQLite, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := seed.Run(context.Background(), database, seed.Config{Dialect: config.DialectSQLite}); err != nil {
		t.Fatalf("seed demo data: %v", err)
	}
	return database
}

func demoProductID(t *testing.T, database *sql.DB) int64 {
	t.Helper()
	var id int64
	if err := database.QueryRow(`SELECT id FROM products WHERE product_name = ?`, seed.DemoProductName).Scan(&id); err != nil {
		t.Fatalf("query demo product id: %v", err)
	}
	return id
}

func mustExec(t *testing.T, database *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := database.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func TestLoadSnapshot_DemoProduct(t *testing.T) {
	database := newSeededDB(t)
	tracker := &countingTracker{}
	s := New(database, config.DialectSQLite, tracker)

	snapshot, err := s.LoadSnapshot(context.Background(), demoProductID(t, database))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if snapshot.Product.Name != seed.DemoProductName {
		t.Fatalf("product name=%q, want %q", snapshot.Product.Name, seed.DemoProductName)
	}
	if len(snapshot.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(snapshot.Materials))
	}

	oil := snapshot.Materials[0]
	if oil.Item == nil || oil.Item.Name != "Olive Oil" {
		t.Fatalf("unexpected first material: %+v", oil)
	}
	if len(oil.Lots) != 2 {
		t.Fatalf("expected 2 oil lots, got %d", len(oil.Lots))
	}
	if oil.Lots[0].OrderLineCount != 1 || oil.Lots[1].OrderLineCount != 2 {
		t.Fatalf("unexpected order line counts: %d, %d", oil.Lots[0].OrderLineCount, oil.Lots[1].OrderLineCount)
	}
	if !oil.Lots[0].QuantityRemainingGrams.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("remaining=%s, want 400", oil.Lots[0].QuantityRemainingGrams)
	}

	if len(snapshot.Tasks) != 2 || snapshot.Tasks[0].Kind != costing.TaskKindProduction || snapshot.Tasks[1].Kind != costing.TaskKindShipping {
		t.Fatalf("unexpected tasks: %+v", snapshot.Tasks)
	}
	if snapshot.AllocationSalary == nil || snapshot.GlobalCosts == nil {
		t.Fatalf("expected overheads to be loaded")
	}
	if snapshot.Product.Pricing.SalaryAllocationEmployeeID == nil {
		t.Fatalf("expected salary allocation employee")
	}

	if len(tracker.ops) != 1 || tracker.ops[0] != "load_snapshot" {
		t.Fatalf("tracked operations=%v", tracker.ops)
	}

	b, err := costing.Calculate(snapshot)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !b.Complete() {
		t.Fatalf("expected complete breakdown, warnings: %v", b.Warnings())
	}
	// Oil 1.1333 + Lavender 0.45 + labor 1.9 + packaging 0.15 + overheads 3
	if got := b.Totals.TotalProductionCost.Round(4).String(); got != "6.6333" {
		t.Fatalf("total production cost=%s, want 6.6333", got)
	}
}

func TestLoadSnapshot_NotFound(t *testing.T) {
	s := New(newSeededDB(t), config.DialectSQLite, nil)

	_, err := s.LoadSnapshot(context.Background(), 9999)
	if !errors.Is(err, costing.ErrProductNotFound) {
		t.Fatalf("err=%v, want %v", err, costing.ErrProductNotFound)
	}
}

func TestLoadSnapshot_DanglingReferences(t *testing.T) {
	database := newSeededDB(t)
	productID := demoProductID(t, database)

	mustExec(t, database, `UPDATE product_tasks SET employee_id = NULL WHERE standard_task_id = (SELECT id FROM standard_tasks WHERE task_name = 'Packing')`)
	mustExec(t, database, `INSERT INTO product_tasks (product_id, standard_task_id, employee_id, time_minutes) VALUES (?, 999, NULL, '10')`, productID)

	s := New(database, config.DialectSQLite, nil)
	snapshot, err := s.LoadSnapshot(context.Background(), productID)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	b, err := costing.Calculate(snapshot)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(b.Labor.Skipped) != 2 {
		t.Fatalf("skipped=%v, want 2 entries", b.Labor.Skipped)
	}
	if len(b.Labor.Shipping.Lines) != 0 {
		t.Fatalf("expected no costed shipping tasks, got %+v", b.Labor.Shipping.Lines)
	}

	mustExec(t, database, `INSERT INTO product_materials (product_id, inventory_item_id, quantity_grams) VALUES (?, 4242, '3')`, productID)
	snapshot, err = s.LoadSnapshot(context.Background(), productID)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if _, err := costing.Calculate(snapshot); !errors.Is(err, costing.ErrInvalidReference) {
		t.Fatalf("err=%v, want %v", err, costing.ErrInvalidReference)
	}
}

func TestLoadSnapshot_WithoutOverheads(t *testing.T) {
	database := newSeededDB(t)
	productID := demoProductID(t, database)
	mustExec(t, database, `DELETE FROM global_costs`)
	mustExec(t, database, `DELETE FROM global_salaries`)

	snapshot, err := New(database, config.DialectSQLite, nil).LoadSnapshot(context.Background(), productID)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snapshot.AllocationSalary != nil || snapshot.GlobalCosts != nil {
		t.Fatalf("expected no overheads, got salary=%v costs=%v", snapshot.AllocationSalary, snapshot.GlobalCosts)
	}
}

func TestListItemStock(t *testing.T) {
	database := newSeededDB(t)
	mustExec(t, database, `INSERT INTO inventory_items (name, provider) VALUES ('Beeswax', 'Hive Co')`)

	items, err := New(database, config.DialectSQLite, nil).ListItemStock(context.Background())
	if err != nil {
		t.Fatalf("ListItemStock: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	byName := make(map[string]costing.ItemStock, len(items))
	for _, item := range items {
		byName[item.Item.Name] = item
	}

	if lots := byName["Beeswax"].Lots; len(lots) != 0 {
		t.Fatalf("expected no Beeswax lots, got %d", len(lots))
	}
	oil := byName["Olive Oil"]
	if len(oil.Lots) != 2 || oil.Item.ReorderThresholdGrams == nil {
		t.Fatalf("unexpected oil stock: %+v", oil)
	}

	level, err := costing.SummarizeStock(oil)
	if err != nil {
		t.Fatalf("SummarizeStock: %v", err)
	}
	if !level.OnHandGrams.Equal(decimal.NewFromInt(900)) || level.LowStock {
		t.Fatalf("unexpected oil level: %+v", level)
	}
}

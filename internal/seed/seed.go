package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/costworks/internal/config"
	"github.com/Simplici0/costworks/internal/costing"
	"github.com/Simplici0/costworks/internal/db"
)

// DemoProductName is the product created by the demo dataset.
const DemoProductName = "Lavender Soap"

const (
	demoSupplier = "Olivia Oils"
	oilName      = "Olive Oil"
	lavenderName = "Lavender Essential Oil"
	mixingTask   = "Mixing"
	packingTask  = "Packing"
)

// Config contains the values required by the demo seed.
type Config struct {
	Dialect config.Dialect
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

type lotLine struct {
	item      string
	lotNumber string
	added     string
	remaining string
	cost      string
}

type seeder struct {
	tx      *sql.Tx
	dialect config.Dialect
	stats   Stats
}

// Run loads the demo dataset in an idempotent way: rows that already exist are left untouched.
func Run(ctx context.Context, database *sql.DB, cfg Config) (Stats, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	s := &seeder{tx: tx, dialect: cfg.Dialect}
	if err := s.run(ctx); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return s.stats, nil
}

func (s *seeder) run(ctx context.Context) error {
	ana, err := s.ensureEmployee(ctx, "Ana", "18.00")
	if err != nil {
		return err
	}
	luis, err := s.ensureEmployee(ctx, "Luis", "12.00")
	if err != nil {
		return err
	}
	if err := s.ensureGlobalSalary(ctx, ana, "2000.00"); err != nil {
		return err
	}
	if err := s.ensureGlobalCosts(ctx); err != nil {
		return err
	}

	mixing, err := s.ensureStandardTask(ctx, costing.TaskKindProduction, mixingTask)
	if err != nil {
		return err
	}
	packing, err := s.ensureStandardTask(ctx, costing.TaskKindShipping, packingTask)
	if err != nil {
		return err
	}

	threshold := decimal.RequireFromString("500")
	oil, err := s.ensureInventoryItem(ctx, oilName, "1000", &threshold)
	if err != nil {
		return err
	}
	lavender, err := s.ensureInventoryItem(ctx, lavenderName, "100", nil)
	if err != nil {
		return err
	}
	items := map[string]int64{oilName: oil, lavenderName: lavender}

	if err := s.ensurePurchase(ctx, "2.00", items, []lotLine{
		{item: oilName, lotNumber: "DEMO-OIL-001", added: "1000", remaining: "400", cost: "10.00"},
	}); err != nil {
		return err
	}
	if err := s.ensurePurchase(ctx, "2.00", items, []lotLine{
		{item: oilName, lotNumber: "DEMO-OIL-002", added: "500", remaining: "500", cost: "4.00"},
		{item: lavenderName, lotNumber: "DEMO-LAV-001", added: "100", remaining: "50", cost: "8.00"},
	}); err != nil {
		return err
	}

	productID, created, err := s.ensureProduct(ctx, ana)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if err := s.insertMaterial(ctx, productID, oil, "100"); err != nil {
		return err
	}
	if err := s.insertMaterial(ctx, productID, lavender, "5"); err != nil {
		return err
	}
	if err := s.insertTask(ctx, productID, mixing, ana, "30", 10); err != nil {
		return err
	}
	return s.insertTask(ctx, productID, packing, luis, "5", 1)
}

func (s *seeder) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.tx.ExecContext(ctx, db.Rebind(s.dialect, query), args...)
	return err
}

func (s *seeder) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.tx.QueryRowContext(ctx, db.Rebind(s.dialect, query), args...)
}

// lookupID returns the id selected by query, or 0 when there is no such row.
func (s *seeder) lookupID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := s.queryRow(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

func (s *seeder) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := s.queryRow(ctx, query+` RETURNING id`, args...).Scan(&id); err != nil {
		return 0, err
	}
	s.stats.Inserts++
	return id, nil
}

func (s *seeder) ensureEmployee(ctx context.Context, name, hourlyRate string) (int64, error) {
	id, err := s.lookupID(ctx, `SELECT id FROM employees WHERE name = ?`, name)
	if err != nil {
		return 0, fmt.Errorf("check employee %q existence: %w", name, err)
	}
	if id != 0 {
		return id, nil
	}

	id, err = s.insertReturningID(ctx, `INSERT INTO employees (name, hourly_rate) VALUES (?, ?)`,
		name, decimal.RequireFromString(hourlyRate))
	if err != nil {
		return 0, fmt.Errorf("insert employee %q: %w", name, err)
	}
	return id, nil
}

func (s *seeder) ensureGlobalSalary(ctx context.Context, employeeID int64, monthly string) error {
	var exists bool
	if err := s.queryRow(ctx, `SELECT EXISTS(SELECT 1 FROM global_salaries WHERE employee_id = ?)`, employeeID).Scan(&exists); err != nil {
		return fmt.Errorf("check global salary existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.exec(ctx, `INSERT INTO global_salaries (employee_id, monthly_amount) VALUES (?, ?)`,
		employeeID, decimal.RequireFromString(monthly)); err != nil {
		return fmt.Errorf("insert global salary: %w", err)
	}
	s.stats.Inserts++
	return nil
}

func (s *seeder) ensureGlobalCosts(ctx context.Context) error {
	var exists bool
	if err := s.queryRow(ctx, `SELECT EXISTS(SELECT 1 FROM global_costs WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check global costs existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.exec(ctx, `
		INSERT INTO global_costs (id, monthly_rent, monthly_utilities)
		VALUES (1, ?, ?)
	`, decimal.RequireFromString("1200.00"), decimal.RequireFromString("300.00")); err != nil {
		return fmt.Errorf("insert global costs singleton: %w", err)
	}
	s.stats.Inserts++
	return nil
}

func (s *seeder) ensureStandardTask(ctx context.Context, kind costing.TaskKind, name string) (int64, error) {
	id, err := s.lookupID(ctx, `SELECT id FROM standard_tasks WHERE kind = ? AND task_name = ?`, string(kind), name)
	if err != nil {
		return 0, fmt.Errorf("check standard task %q existence: %w", name, err)
	}
	if id != 0 {
		return id, nil
	}

	id, err = s.insertReturningID(ctx, `INSERT INTO standard_tasks (kind, task_name) VALUES (?, ?)`, string(kind), name)
	if err != nil {
		return 0, fmt.Errorf("insert standard task %q: %w", name, err)
	}
	return id, nil
}

func (s *seeder) ensureInventoryItem(ctx context.Context, name, unitGrams string, threshold *decimal.Decimal) (int64, error) {
	id, err := s.lookupID(ctx, `SELECT id FROM inventory_items WHERE name = ? AND provider = ?`, name, demoSupplier)
	if err != nil {
		return 0, fmt.Errorf("check inventory item %q existence: %w", name, err)
	}
	if id != 0 {
		return id, nil
	}

	id, err = s.insertReturningID(ctx, `
		INSERT INTO inventory_items (name, provider, unit_grams, reorder_threshold_grams)
		VALUES (?, ?, ?, ?)
	`, name, demoSupplier, decimal.RequireFromString(unitGrams), decimal.NullDecimal{Decimal: derefOrZero(threshold), Valid: threshold != nil})
	if err != nil {
		return 0, fmt.Errorf("insert inventory item %q: %w", name, err)
	}
	return id, nil
}

// ensurePurchase records a purchase order with its stock additions. The order is
// identified by the lot number of its first line.
func (s *seeder) ensurePurchase(ctx context.Context, shipping string, items map[string]int64, lines []lotLine) error {
	var exists bool
	if err := s.queryRow(ctx, `SELECT EXISTS(SELECT 1 FROM stock_additions WHERE supplier_lot_number = ?)`, lines[0].lotNumber).Scan(&exists); err != nil {
		return fmt.Errorf("check purchase %s existence: %w", lines[0].lotNumber, err)
	}
	if exists {
		return nil
	}

	orderID, err := s.insertReturningID(ctx, `
		INSERT INTO purchase_orders (supplier_name, shipping_cost, notes)
		VALUES (?, ?, ?)
	`, demoSupplier, decimal.RequireFromString(shipping), "demo data")
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}

	for _, line := range lines {
		if err := s.exec(ctx, `
			INSERT INTO stock_additions (
				purchase_order_id,
				inventory_item_id,
				quantity_added_grams,
				quantity_remaining_grams,
				item_cost,
				supplier_lot_number
			)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			orderID,
			items[line.item],
			decimal.RequireFromString(line.added),
			decimal.RequireFromString(line.remaining),
			decimal.RequireFromString(line.cost),
			line.lotNumber,
		); err != nil {
			return fmt.Errorf("insert stock addition %s: %w", line.lotNumber, err)
		}
		s.stats.Inserts++
	}
	return nil
}

// ensureProduct creates the demo product and reports whether it was created by this run.
func (s *seeder) ensureProduct(ctx context.Context, salaryEmployeeID int64) (int64, bool, error) {
	id, err := s.lookupID(ctx, `SELECT id FROM products WHERE product_name = ?`, DemoProductName)
	if err != nil {
		return 0, false, fmt.Errorf("check product existence: %w", err)
	}
	if id != 0 {
		return id, false, nil
	}

	d := decimal.RequireFromString
	id, err = s.insertReturningID(ctx, `
		INSERT INTO products (
			product_name,
			packaging_label_cost,
			packaging_material_cost,
			salary_allocation_employee_id,
			salary_allocation_items_per_month,
			rent_utilities_allocation_items_per_month,
			retail_price,
			retail_avg_order_value,
			retail_cc_fee_percent,
			retail_platform_fee_percent,
			retail_shipping_cost_paid_by_seller,
			wholesale_price,
			wholesale_avg_order_value,
			wholesale_commission_percent,
			wholesale_processing_fee_percent,
			wholesale_flat_fee_per_order,
			buffer_percentage,
			distribution_wholesale_percentage
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		DemoProductName,
		d("0.05"), d("0.10"),
		salaryEmployeeID, int64(1000),
		int64(1500),
		d("10.00"), d("30.00"), d("0.03"), d("0.05"), d("5.00"),
		d("5.00"), d("200.00"), d("0.15"), d("0.02"), d("0.25"),
		d("0.10"),
		d("0.5"),
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert product: %w", err)
	}
	return id, true, nil
}

func (s *seeder) insertMaterial(ctx context.Context, productID, itemID int64, grams string) error {
	if err := s.exec(ctx, `
		INSERT INTO product_materials (product_id, inventory_item_id, quantity_grams)
		VALUES (?, ?, ?)
	`, productID, itemID, decimal.RequireFromString(grams)); err != nil {
		return fmt.Errorf("insert product material: %w", err)
	}
	s.stats.Inserts++
	return nil
}

func (s *seeder) insertTask(ctx context.Context, productID, taskID, employeeID int64, minutes string, items int64) error {
	if err := s.exec(ctx, `
		INSERT INTO product_tasks (product_id, standard_task_id, employee_id, time_minutes, items_processed_in_task)
		VALUES (?, ?, ?, ?, ?)
	`, productID, taskID, employeeID, decimal.RequireFromString(minutes), items); err != nil {
		return fmt.Errorf("insert product task: %w", err)
	}
	s.stats.Inserts++
	return nil
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

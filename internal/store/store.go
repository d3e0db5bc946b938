package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/costworks/internal/config"
	"github.com/Simplici0/costworks/internal/costing"
	"github.com/Simplici0/costworks/internal/db"
)

// Tracker records the duration of a database operation.
type Tracker interface {
	TrackDBOperation(operationType string) func(startTime time.Time)
}

type nopTracker struct{}

func (nopTracker) TrackDBOperation(string) func(time.Time) { return func(time.Time) {} }

// Store reads costing snapshots from a SQL database. It implements costing.Repository.
type Store struct {
	db      *sql.DB
	dialect config.Dialect
	tracker Tracker
}

// New returns a Store over database. tracker may be nil.
func New(database *sql.DB, dialect config.Dialect, tracker Tracker) *Store {
	if tracker == nil {
		tracker = nopTracker{}
	}
	return &Store{db: database, dialect: dialect, tracker: tracker}
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, db.Rebind(s.dialect, query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, db.Rebind(s.dialect, query), args...)
}

// LoadSnapshot reads the product, its recipe with every lot of each ingredient, its task
// assignments and the overheads it is allocated.
func (s *Store) LoadSnapshot(ctx context.Context, productID int64) (costing.Snapshot, error) {
	defer s.tracker.TrackDBOperation("load_snapshot")(time.Now())

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return costing.Snapshot{}, err
	}

	materials, err := s.loadMaterials(ctx, productID)
	if err != nil {
		return costing.Snapshot{}, err
	}

	tasks, err := s.loadTasks(ctx, productID)
	if err != nil {
		return costing.Snapshot{}, err
	}

	snapshot := costing.Snapshot{Product: product, Materials: materials, Tasks: tasks}

	if id := product.Pricing.SalaryAllocationEmployeeID; id != nil {
		snapshot.AllocationSalary, err = s.loadSalary(ctx, *id)
		if err != nil {
			return costing.Snapshot{}, err
		}
	}

	snapshot.GlobalCosts, err = s.loadGlobalCosts(ctx)
	if err != nil {
		return costing.Snapshot{}, err
	}

	return snapshot, nil
}

func (s *Store) loadProduct(ctx context.Context, productID int64) (costing.Product, error) {
	var (
		p          costing.Product
		employeeID sql.NullInt64
	)
	cfg := &p.Pricing

	err := s.queryRow(ctx, `
		SELECT
			id,
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
		FROM products
		WHERE id = ?
	`, productID).Scan(
		&p.ID,
		&p.Name,
		&cfg.PackagingLabelCost,
		&cfg.PackagingMaterialCost,
		&employeeID,
		&cfg.SalaryAllocationItemsPerMonth,
		&cfg.RentUtilitiesAllocationItemsPerMonth,
		&cfg.Retail.Price,
		&cfg.Retail.AverageOrderValue,
		&cfg.Retail.CCFeePercent,
		&cfg.Retail.PlatformFeePercent,
		&cfg.Retail.ShippingPaidBySeller,
		&cfg.Wholesale.Price,
		&cfg.Wholesale.AverageOrderValue,
		&cfg.Wholesale.CommissionPercent,
		&cfg.Wholesale.ProcessingFeePercent,
		&cfg.Wholesale.FlatFeePerOrder,
		&cfg.BufferPercentage,
		&cfg.DistributionWholesalePercentage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return costing.Product{}, fmt.Errorf("product %d: %w", productID, costing.ErrProductNotFound)
	}
	if err != nil {
		return costing.Product{}, fmt.Errorf("query product: %w", err)
	}

	if employeeID.Valid {
		id := employeeID.Int64
		cfg.SalaryAllocationEmployeeID = &id
	}
	return p, nil
}

// loadMaterials returns the recipe in insertion order. A line whose ingredient no longer
// exists is returned with a nil Item.
func (s *Store) loadMaterials(ctx context.Context, productID int64) ([]costing.Material, error) {
	rows, err := s.query(ctx, `
		SELECT
			pm.product_id,
			pm.inventory_item_id,
			pm.quantity_grams,
			i.id,
			i.name,
			i.provider,
			i.unit_grams,
			i.reorder_threshold_grams
		FROM product_materials pm
		LEFT JOIN inventory_items i ON i.id = pm.inventory_item_id
		WHERE pm.product_id = ?
		ORDER BY pm.id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("query product materials: %w", err)
	}
	defer rows.Close()

	materials := make([]costing.Material, 0)
	for rows.Next() {
		var (
			m         costing.Material
			itemID    sql.NullInt64
			name      sql.NullString
			provider  sql.NullString
			unitGrams decimal.NullDecimal
			threshold decimal.NullDecimal
		)
		if err := rows.Scan(
			&m.Line.ProductID,
			&m.Line.InventoryItemID,
			&m.Line.QuantityGrams,
			&itemID,
			&name,
			&provider,
			&unitGrams,
			&threshold,
		); err != nil {
			return nil, fmt.Errorf("scan product material: %w", err)
		}

		if itemID.Valid {
			m.Item = &costing.InventoryItem{
				ID:        itemID.Int64,
				Name:      name.String,
				Provider:  provider.String,
				UnitGrams: unitGrams.Decimal,
			}
			if threshold.Valid {
				t := threshold.Decimal
				m.Item.ReorderThresholdGrams = &t
			}
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product materials: %w", err)
	}
	rows.Close()

	lots, err := s.loadLots(ctx, `
		WHERE sa.inventory_item_id IN (
			SELECT inventory_item_id FROM product_materials WHERE product_id = ?
		)
	`, productID)
	if err != nil {
		return nil, err
	}
	for i := range materials {
		if materials[i].Item != nil {
			materials[i].Lots = lots[materials[i].Item.ID]
		}
	}

	return materials, nil
}

// loadLots returns the lots matching where, grouped by inventory item, each carrying its
// order's shipping cost and line count.
func (s *Store) loadLots(ctx context.Context, where string, args ...any) (map[int64][]costing.PurchaseLot, error) {
	rows, err := s.query(ctx, `
		SELECT
			sa.id,
			sa.inventory_item_id,
			sa.purchase_order_id,
			sa.supplier_lot_number,
			sa.quantity_added_grams,
			sa.quantity_remaining_grams,
			sa.item_cost,
			po.shipping_cost,
			(SELECT COUNT(*) FROM stock_additions sibling WHERE sibling.purchase_order_id = sa.purchase_order_id)
		FROM stock_additions sa
		JOIN purchase_orders po ON po.id = sa.purchase_order_id
	`+where+`
		ORDER BY sa.id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock additions: %w", err)
	}
	defer rows.Close()

	lots := make(map[int64][]costing.PurchaseLot)
	for rows.Next() {
		var lot costing.PurchaseLot
		if err := rows.Scan(
			&lot.ID,
			&lot.InventoryItemID,
			&lot.PurchaseOrderID,
			&lot.SupplierLotNumber,
			&lot.QuantityAddedGrams,
			&lot.QuantityRemainingGrams,
			&lot.ItemCost,
			&lot.OrderShippingCost,
			&lot.OrderLineCount,
		); err != nil {
			return nil, fmt.Errorf("scan stock addition: %w", err)
		}
		lots[lot.InventoryItemID] = append(lots[lot.InventoryItemID], lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock additions: %w", err)
	}

	return lots, nil
}

// loadTasks returns production tasks before shipping tasks. Assignments whose standard task
// or employee no longer exists come back with an empty TaskName or a nil Employee.
func (s *Store) loadTasks(ctx context.Context, productID int64) ([]costing.TaskAssignment, error) {
	rows, err := s.query(ctx, `
		SELECT
			pt.id,
			pt.standard_task_id,
			st.kind,
			st.task_name,
			e.id,
			e.name,
			e.hourly_rate,
			pt.time_minutes,
			pt.items_processed_in_task
		FROM product_tasks pt
		LEFT JOIN standard_tasks st ON st.id = pt.standard_task_id
		LEFT JOIN employees e ON e.id = pt.employee_id
		WHERE pt.product_id = ?
		ORDER BY CASE WHEN st.kind = 'shipping' THEN 1 ELSE 0 END, pt.id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("query product tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]costing.TaskAssignment, 0)
	for rows.Next() {
		var (
			t          costing.TaskAssignment
			kind       sql.NullString
			taskName   sql.NullString
			employeeID sql.NullInt64
			empName    sql.NullString
			hourlyRate decimal.NullDecimal
		)
		if err := rows.Scan(
			&t.ID,
			&t.StandardTaskID,
			&kind,
			&taskName,
			&employeeID,
			&empName,
			&hourlyRate,
			&t.TimeMinutes,
			&t.ItemsProcessed,
		); err != nil {
			return nil, fmt.Errorf("scan product task: %w", err)
		}

		t.Kind = costing.TaskKind(kind.String)
		t.TaskName = taskName.String
		if employeeID.Valid {
			t.Employee = &costing.Employee{
				ID:         employeeID.Int64,
				Name:       empName.String,
				HourlyRate: hourlyRate.Decimal,
			}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product tasks: %w", err)
	}

	return tasks, nil
}

func (s *Store) loadSalary(ctx context.Context, employeeID int64) (*costing.GlobalSalary, error) {
	salary := costing.GlobalSalary{EmployeeID: employeeID}
	err := s.queryRow(ctx, `SELECT monthly_amount FROM global_salaries WHERE employee_id = ?`, employeeID).
		Scan(&salary.MonthlyAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query global salary: %w", err)
	}
	return &salary, nil
}

func (s *Store) loadGlobalCosts(ctx context.Context) (*costing.GlobalCosts, error) {
	var costs costing.GlobalCosts
	err := s.queryRow(ctx, `SELECT monthly_rent, monthly_utilities FROM global_costs WHERE id = 1`).
		Scan(&costs.MonthlyRent, &costs.MonthlyUtilities)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query global costs: %w", err)
	}
	return &costs, nil
}

// ListItemStock returns every inventory item, ordered by name, with all of its lots.
func (s *Store) ListItemStock(ctx context.Context) ([]costing.ItemStock, error) {
	defer s.tracker.TrackDBOperation("list_item_stock")(time.Now())

	rows, err := s.query(ctx, `
		SELECT id, name, provider, unit_grams, reorder_threshold_grams
		FROM inventory_items
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query inventory items: %w", err)
	}
	defer rows.Close()

	items := make([]costing.ItemStock, 0)
	for rows.Next() {
		var (
			item      costing.InventoryItem
			threshold decimal.NullDecimal
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Provider, &item.UnitGrams, &threshold); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		if threshold.Valid {
			t := threshold.Decimal
			item.ReorderThresholdGrams = &t
		}
		items = append(items, costing.ItemStock{Item: item})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory items: %w", err)
	}
	rows.Close()

	lots, err := s.loadLots(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Lots = lots[items[i].Item.ID]
	}

	return items, nil
}

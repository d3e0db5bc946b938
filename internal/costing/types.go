package costing

import "github.com/shopspring/decimal"

// TaskKind distinguishes production work from shipping/fulfilment work.
type TaskKind string

const (
	TaskKindProduction TaskKind = "production"
	TaskKindShipping   TaskKind = "shipping"
)

// InventoryItem is a raw material that can be purchased in lots and used in recipes.
type InventoryItem struct {
	ID       int64
	Name     string
	Provider string
	// UnitGrams is the number of grams in one bulk purchasing unit (1000 for a kilogram).
	UnitGrams             decimal.Decimal
	ReorderThresholdGrams *decimal.Decimal
}

// PurchaseLot is one stock addition made on a purchase order.
type PurchaseLot struct {
	ID                     int64
	InventoryItemID        int64
	PurchaseOrderID        int64
	SupplierLotNumber      string
	QuantityAddedGrams     decimal.Decimal
	QuantityRemainingGrams decimal.Decimal
	// ItemCost excludes shipping.
	ItemCost          decimal.Decimal
	OrderShippingCost decimal.Decimal
	// OrderLineCount is the number of lots on the parent purchase order, this one included.
	OrderLineCount int64
}

// RecipeLine is the quantity of one ingredient needed for a single finished item.
type RecipeLine struct {
	ProductID       int64
	InventoryItemID int64
	QuantityGrams   decimal.Decimal
}

// Employee is a person whose time is costed into products.
type Employee struct {
	ID         int64
	Name       string
	HourlyRate decimal.Decimal
}

// GlobalSalary is the fixed monthly salary paid to an employee.
type GlobalSalary struct {
	EmployeeID    int64
	MonthlyAmount decimal.Decimal
}

// TaskAssignment is a timed task performed for a product. Employee is nil when nobody is
// assigned and TaskName is empty when the standard task no longer resolves.
type TaskAssignment struct {
	ID             int64
	Kind           TaskKind
	StandardTaskID int64
	TaskName       string
	Employee       *Employee
	TimeMinutes    decimal.Decimal
	ItemsProcessed int64
}

// GlobalCosts holds the business-wide fixed monthly overheads.
type GlobalCosts struct {
	MonthlyRent      decimal.Decimal
	MonthlyUtilities decimal.Decimal
}

// RetailConfig is the retail channel's price and fee schedule.
type RetailConfig struct {
	Price                decimal.Decimal `validate:"dgte=0"`
	AverageOrderValue    decimal.Decimal `validate:"dgte=0"`
	CCFeePercent         decimal.Decimal `validate:"dgte=0,dlte=1"`
	PlatformFeePercent   decimal.Decimal `validate:"dgte=0,dlte=1"`
	ShippingPaidBySeller decimal.Decimal `validate:"dgte=0"`
}

// WholesaleConfig is the wholesale channel's price and fee schedule.
type WholesaleConfig struct {
	Price                decimal.Decimal `validate:"dgte=0"`
	AverageOrderValue    decimal.Decimal `validate:"dgte=0"`
	CommissionPercent    decimal.Decimal `validate:"dgte=0,dlte=1"`
	ProcessingFeePercent decimal.Decimal `validate:"dgte=0,dlte=1"`
	FlatFeePerOrder      decimal.Decimal `validate:"dgte=0"`
}

// PricingConfig is the per-product pricing and allocation configuration.
// Percentages are fractions (0.03 is 3%).
type PricingConfig struct {
	PackagingLabelCost    decimal.Decimal `validate:"dgte=0"`
	PackagingMaterialCost decimal.Decimal `validate:"dgte=0"`

	SalaryAllocationEmployeeID    *int64
	SalaryAllocationItemsPerMonth int64 `validate:"gte=0"`

	RentUtilitiesAllocationItemsPerMonth int64 `validate:"gte=0"`

	Retail    RetailConfig
	Wholesale WholesaleConfig

	BufferPercentage                decimal.Decimal `validate:"dgte=0"`
	DistributionWholesalePercentage decimal.Decimal `validate:"dgte=0,dlte=1"`
}

// Product is the costed product and its configuration.
type Product struct {
	ID      int64
	Name    string
	Pricing PricingConfig
}

// Material is a recipe line joined with its ingredient and the ingredient's purchase history.
type Material struct {
	Line RecipeLine
	Item *InventoryItem
	Lots []PurchaseLot
}

// Snapshot is everything the engine reads for one product. It is assembled by the
// data-access layer and never mutated by the engine.
type Snapshot struct {
	Product   Product
	Materials []Material
	Tasks     []TaskAssignment
	// AllocationSalary is the designated employee's salary, nil when none is configured.
	AllocationSalary *GlobalSalary
	// GlobalCosts is nil when the business has not recorded any.
	GlobalCosts *GlobalCosts
}

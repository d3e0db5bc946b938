package costing

import (
	"testing"

	"github.com/shopspring/decimal"
)

var tolerance = decimal.RequireFromString("0.000000000001")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func equalDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func roundedEqual(t *testing.T, name string, got decimal.Decimal, places int32, want string) {
	t.Helper()
	if !got.Round(places).Equal(dec(want)) {
		t.Fatalf("%s = %s (rounded %s), want %s", name, got, got.Round(places), want)
	}
}

func nearlyEqual(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if got.Sub(want).Abs().GreaterThan(tolerance) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func oilLots() []PurchaseLot {
	return []PurchaseLot{
		{ID: 1, InventoryItemID: 1, PurchaseOrderID: 10, QuantityAddedGrams: dec("1000"), QuantityRemainingGrams: dec("400"), ItemCost: dec("10.00"), OrderShippingCost: dec("2.00"), OrderLineCount: 1},
		{ID: 2, InventoryItemID: 1, PurchaseOrderID: 11, QuantityAddedGrams: dec("500"), QuantityRemainingGrams: dec("500"), ItemCost: dec("4.00"), OrderShippingCost: dec("2.00"), OrderLineCount: 2},
	}
}

func retailExampleConfig() RetailConfig {
	return RetailConfig{
		Price:                dec("10.00"),
		AverageOrderValue:    dec("30.00"),
		CCFeePercent:         dec("0.03"),
		PlatformFeePercent:   dec("0.05"),
		ShippingPaidBySeller: dec("5.00"),
	}
}

func wholesaleExampleConfig() WholesaleConfig {
	return WholesaleConfig{
		Price:                dec("5.00"),
		AverageOrderValue:    dec("200.00"),
		CommissionPercent:    dec("0.15"),
		ProcessingFeePercent: dec("0.02"),
		FlatFeePerOrder:      dec("0.25"),
	}
}

// exampleSnapshot is a product needing 100g of Oil, one production and one shipping task,
// a salaried employee and rent/utilities.
func exampleSnapshot() Snapshot {
	employeeID := int64(7)
	baker := &Employee{ID: employeeID, Name: "Ana", HourlyRate: dec("18.00")}
	packer := &Employee{ID: 8, Name: "Luis", HourlyRate: dec("12.00")}

	return Snapshot{
		Product: Product{
			ID:   42,
			Name: "Lavender Soap",
			Pricing: PricingConfig{
				PackagingLabelCost:                   dec("0.05"),
				PackagingMaterialCost:                dec("0.10"),
				SalaryAllocationEmployeeID:           &employeeID,
				SalaryAllocationItemsPerMonth:        1000,
				RentUtilitiesAllocationItemsPerMonth: 1500,
				Retail:                               retailExampleConfig(),
				Wholesale:                            wholesaleExampleConfig(),
				BufferPercentage:                     dec("0.10"),
				DistributionWholesalePercentage:      dec("0.5"),
			},
		},
		Materials: []Material{
			{
				Line: RecipeLine{ProductID: 42, InventoryItemID: 1, QuantityGrams: dec("100")},
				Item: &InventoryItem{ID: 1, Name: "Oil", Provider: "Olivia", UnitGrams: dec("1000")},
				Lots: oilLots(),
			},
		},
		Tasks: []TaskAssignment{
			{ID: 1, Kind: TaskKindProduction, StandardTaskID: 1, TaskName: "Mixing", Employee: baker, TimeMinutes: dec("30"), ItemsProcessed: 10},
			{ID: 2, Kind: TaskKindShipping, StandardTaskID: 2, TaskName: "Packing", Employee: packer, TimeMinutes: dec("5"), ItemsProcessed: 1},
		},
		AllocationSalary: &GlobalSalary{EmployeeID: employeeID, MonthlyAmount: dec("2000.00")},
		GlobalCosts:      &GlobalCosts{MonthlyRent: dec("1200.00"), MonthlyUtilities: dec("300.00")},
	}
}

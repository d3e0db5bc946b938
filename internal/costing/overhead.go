package costing

import "github.com/shopspring/decimal"

// Overheads is the fixed monthly cost allocated to one item.
type Overheads struct {
	SalaryPerItem           decimal.Decimal `json:"allocated_salary_cost_per_item"`
	SalaryConfigured        bool            `json:"salary_allocation_configured"`
	RentUtilitiesPerItem    decimal.Decimal `json:"allocated_rent_utilities_cost_per_item"`
	RentUtilitiesConfigured bool            `json:"rent_utilities_allocation_configured"`
	Total                   decimal.Decimal `json:"total_allocated_overheads_per_item"`
}

// AllocatePerItem spreads a fixed monthly amount across the monthly item volume.
// A volume below one means the allocation is not configured and contributes zero.
func AllocatePerItem(monthlyAmount decimal.Decimal, itemsPerMonth int64) (decimal.Decimal, bool) {
	if itemsPerMonth <= 0 {
		return decimal.Zero, false
	}
	return monthlyAmount.Div(decimal.NewFromInt(itemsPerMonth)), true
}

// AllocateOverheads computes the salary and rent/utilities share of one item.
// salary and global may be nil when nothing is recorded.
func AllocateOverheads(cfg PricingConfig, salary *GlobalSalary, global *GlobalCosts) Overheads {
	out := Overheads{SalaryPerItem: decimal.Zero, RentUtilitiesPerItem: decimal.Zero}

	if cfg.SalaryAllocationEmployeeID != nil && salary != nil {
		out.SalaryPerItem, out.SalaryConfigured = AllocatePerItem(salary.MonthlyAmount, cfg.SalaryAllocationItemsPerMonth)
	}

	if global != nil {
		monthly := global.MonthlyRent.Add(global.MonthlyUtilities)
		out.RentUtilitiesPerItem, out.RentUtilitiesConfigured = AllocatePerItem(monthly, cfg.RentUtilitiesAllocationItemsPerMonth)
	}

	out.Total = out.SalaryPerItem.Add(out.RentUtilitiesPerItem)
	return out
}

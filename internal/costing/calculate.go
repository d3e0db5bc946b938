package costing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Packaging is the per-item packaging cost.
type Packaging struct {
	LabelCost    decimal.Decimal `json:"packaging_label_cost_per_item"`
	MaterialCost decimal.Decimal `json:"packaging_material_cost_per_item"`
	Total        decimal.Decimal `json:"total_packaging_cost_per_item"`
}

// Totals contains the roll-up values of the breakdown.
type Totals struct {
	LaborCostPerItem    decimal.Decimal `json:"total_labor_cost_per_item"`
	DirectCOGSPerItem   decimal.Decimal `json:"direct_cogs_per_item"`
	TotalProductionCost decimal.Decimal `json:"total_production_cost_per_item"`
	CostPlusBuffer      decimal.Decimal `json:"cost_plus_buffer"`
	BufferPercentage    decimal.Decimal `json:"buffer_percentage"`
}

// Breakdown is the full cost and profitability picture of one product.
type Breakdown struct {
	ProductID   int64          `json:"product_id"`
	ProductName string         `json:"product_name"`
	Materials   MaterialCosts  `json:"materials"`
	Labor       LaborSummary   `json:"labor"`
	Packaging   Packaging      `json:"packaging"`
	Overheads   Overheads      `json:"overheads"`
	Totals      Totals         `json:"totals"`
	Retail      ChannelMetrics `json:"retail"`
	Wholesale   ChannelMetrics `json:"wholesale"`
	Blended     BlendedMetrics `json:"blended"`
	// MissingIngredientCosts repeats Materials.Missing for callers that only render warnings.
	MissingIngredientCosts []string `json:"missing_ingredient_costs"`
}

// Complete reports whether the breakdown was computed from complete data.
func (b Breakdown) Complete() bool {
	return len(b.MissingIngredientCosts) == 0 && len(b.Labor.Skipped) == 0
}

// Warnings lists human readable notes about data that degraded the breakdown.
func (b Breakdown) Warnings() []string {
	warnings := make([]string, 0, len(b.MissingIngredientCosts)+len(b.Labor.Skipped)+2)
	for _, name := range b.MissingIngredientCosts {
		warnings = append(warnings, fmt.Sprintf("no purchase recorded for ingredient %s", name))
	}
	warnings = append(warnings, b.Labor.Skipped...)
	if !b.Overheads.SalaryConfigured {
		warnings = append(warnings, "salary allocation is not configured")
	}
	if !b.Overheads.RentUtilitiesConfigured {
		warnings = append(warnings, "rent and utilities allocation is not configured")
	}
	return warnings
}

// Calculate computes the breakdown for a snapshot. Missing purchase history, unassigned
// tasks and unconfigured allocations degrade the result; a structurally invalid snapshot
// is rejected.
func Calculate(s Snapshot) (Breakdown, error) {
	if err := s.Validate(); err != nil {
		return Breakdown{}, err
	}
	cfg := s.Product.Pricing

	materials := AggregateMaterials(s.Materials)
	labor := AggregateLabor(s.Tasks)

	packaging := Packaging{
		LabelCost:    cfg.PackagingLabelCost,
		MaterialCost: cfg.PackagingMaterialCost,
		Total:        cfg.PackagingLabelCost.Add(cfg.PackagingMaterialCost),
	}

	overheads := AllocateOverheads(cfg, s.AllocationSalary, s.GlobalCosts)

	laborTotal := labor.Total()
	directCOGS := materials.Total.Add(laborTotal).Add(packaging.Total)
	totalProduction := directCOGS.Add(overheads.Total)

	retail := cfg.Retail.Channel().Evaluate(totalProduction)
	wholesale := cfg.Wholesale.Channel().Evaluate(totalProduction)

	return Breakdown{
		ProductID:   s.Product.ID,
		ProductName: s.Product.Name,
		Materials:   materials,
		Labor:       labor,
		Packaging:   packaging,
		Overheads:   overheads,
		Totals: Totals{
			LaborCostPerItem:    laborTotal,
			DirectCOGSPerItem:   directCOGS,
			TotalProductionCost: totalProduction,
			CostPlusBuffer:      CostPlusBuffer(totalProduction, cfg.BufferPercentage),
			BufferPercentage:    cfg.BufferPercentage,
		},
		Retail:                 retail,
		Wholesale:              wholesale,
		Blended:                Blend(retail, wholesale, cfg.DistributionWholesalePercentage),
		MissingIngredientCosts: materials.Missing,
	}, nil
}

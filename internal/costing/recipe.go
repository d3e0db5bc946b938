package costing

import "github.com/shopspring/decimal"

// MaterialLine is one row of the per-ingredient cost table.
type MaterialLine struct {
	Ingredient         string          `json:"ingredient"`
	Provider           string          `json:"provider,omitempty"`
	QuantityGrams      decimal.Decimal `json:"quantity_grams"`
	AvgCostPerGram     decimal.Decimal `json:"avg_cost_per_gram"`
	AvgCostPerBulkUnit decimal.Decimal `json:"avg_cost_per_bulk_unit"`
	Cost               decimal.Decimal `json:"cost"`
}

// MaterialCosts is the material cost of one finished item.
type MaterialCosts struct {
	Lines []MaterialLine  `json:"lines"`
	Total decimal.Decimal `json:"total_material_cost_per_item"`
	// Missing names ingredients with no purchase history; they are excluded from Total.
	Missing []string `json:"missing_ingredient_costs"`
}

// Complete reports whether every recipe line could be costed.
func (m MaterialCosts) Complete() bool {
	return len(m.Missing) == 0
}

// AggregateMaterials sums quantity × average cost per gram over the recipe. Materials
// must already be validated (every Item non-nil).
func AggregateMaterials(materials []Material) MaterialCosts {
	out := MaterialCosts{
		Lines:   make([]MaterialLine, 0, len(materials)),
		Total:   decimal.Zero,
		Missing: make([]string, 0),
	}

	for _, m := range materials {
		lotCost, ok := ResolveLotCost(m.Lots)
		if !ok {
			out.Missing = append(out.Missing, m.Item.Name)
			continue
		}

		cost := m.Line.QuantityGrams.Mul(lotCost.AvgCostPerGram)
		out.Total = out.Total.Add(cost)
		out.Lines = append(out.Lines, MaterialLine{
			Ingredient:         m.Item.Name,
			Provider:           m.Item.Provider,
			QuantityGrams:      m.Line.QuantityGrams,
			AvgCostPerGram:     lotCost.AvgCostPerGram,
			AvgCostPerBulkUnit: lotCost.AvgCostPerGram.Mul(unitGrams(m.Item)),
			Cost:               cost,
		})
	}

	return out
}

func unitGrams(item *InventoryItem) decimal.Decimal {
	if item.UnitGrams.IsPositive() {
		return item.UnitGrams
	}
	return decimal.NewFromInt(1000)
}

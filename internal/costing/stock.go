package costing

import "github.com/shopspring/decimal"

// ItemStock is an inventory item with every lot ever purchased for it.
type ItemStock struct {
	Item InventoryItem
	Lots []PurchaseLot
}

// StockLevel is the on-hand quantity and valuation of one inventory item. Remaining stock
// is valued at the same historical average used for product costing.
type StockLevel struct {
	ItemID         int64           `json:"item_id"`
	Name           string          `json:"name"`
	Provider       string          `json:"provider,omitempty"`
	LotCount       int             `json:"lot_count"`
	PurchasedGrams decimal.Decimal `json:"purchased_grams"`
	OnHandGrams    decimal.Decimal `json:"on_hand_grams"`
	HasCost        bool            `json:"has_cost"`
	AvgCostPerGram decimal.Decimal `json:"avg_cost_per_gram"`
	StockValue     decimal.Decimal `json:"stock_value"`
	LowStock       bool            `json:"low_stock"`
}

// SummarizeStock values an item's remaining stock.
func SummarizeStock(s ItemStock) (StockLevel, error) {
	level := StockLevel{
		ItemID:      s.Item.ID,
		Name:        s.Item.Name,
		Provider:    s.Item.Provider,
		OnHandGrams: decimal.Zero,
		StockValue:  decimal.Zero,
	}

	for _, lot := range s.Lots {
		if err := lot.Validate(); err != nil {
			return StockLevel{}, err
		}
		level.OnHandGrams = level.OnHandGrams.Add(lot.QuantityRemainingGrams)
	}

	cost, ok := ResolveLotCost(s.Lots)
	level.LotCount = cost.LotCount
	level.PurchasedGrams = cost.TotalGrams
	level.HasCost = ok
	level.AvgCostPerGram = cost.AvgCostPerGram
	if ok {
		level.StockValue = level.OnHandGrams.Mul(cost.AvgCostPerGram)
	}

	if t := s.Item.ReorderThresholdGrams; t != nil {
		level.LowStock = level.OnHandGrams.LessThanOrEqual(*t)
	}
	return level, nil
}

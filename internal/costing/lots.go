package costing

import "github.com/shopspring/decimal"

// LotCost is the historical weighted-average cost of an inventory item.
type LotCost struct {
	LotCount       int
	TotalCost      decimal.Decimal
	TotalGrams     decimal.Decimal
	AvgCostPerGram decimal.Decimal
}

// ShippingShare is the part of the order's shipping cost carried by one lot.
// Shipping is split evenly across the order's lines, not by value or weight.
func (l PurchaseLot) ShippingShare() decimal.Decimal {
	lines := l.OrderLineCount
	if lines < 1 {
		lines = 1
	}
	return l.OrderShippingCost.Div(decimal.NewFromInt(lines))
}

// TrueCost is the lot's item cost plus its shipping share.
func (l PurchaseLot) TrueCost() decimal.Decimal {
	return l.ItemCost.Add(l.ShippingShare())
}

// ResolveLotCost computes the weighted-average true cost per gram over every lot ever
// purchased for an item, including fully consumed ones. ok is false when there is no
// purchase history to derive a cost from.
func ResolveLotCost(lots []PurchaseLot) (cost LotCost, ok bool) {
	cost = LotCost{TotalCost: decimal.Zero, TotalGrams: decimal.Zero, AvgCostPerGram: decimal.Zero}
	for _, lot := range lots {
		cost.TotalCost = cost.TotalCost.Add(lot.TrueCost())
		cost.TotalGrams = cost.TotalGrams.Add(lot.QuantityAddedGrams)
		cost.LotCount++
	}
	if !cost.TotalGrams.IsPositive() {
		return cost, false
	}
	cost.AvgCostPerGram = cost.TotalCost.Div(cost.TotalGrams)
	return cost, true
}

package costing

import "github.com/shopspring/decimal"

// BlendedMetrics is the distribution-weighted average of the retail and wholesale channels.
type BlendedMetrics struct {
	WholesaleShare decimal.Decimal `json:"wholesale_share"`
	RetailShare    decimal.Decimal `json:"retail_share"`
	Price          decimal.Decimal `json:"blended_avg_price"`
	TotalCost      decimal.Decimal `json:"blended_avg_total_cost"`
	Profit         decimal.Decimal `json:"blended_avg_profit"`
	MarginPercent  decimal.Decimal `json:"blended_avg_margin_percent"`
}

// Blend weights wholesale by wholesaleShare and retail by the remainder.
func Blend(retail, wholesale ChannelMetrics, wholesaleShare decimal.Decimal) BlendedMetrics {
	retailShare := decimal.NewFromInt(1).Sub(wholesaleShare)

	price := retail.Price.Mul(retailShare).Add(wholesale.Price.Mul(wholesaleShare))
	totalCost := retail.TotalCostItem.Mul(retailShare).Add(wholesale.TotalCostItem.Mul(wholesaleShare))
	profit := price.Sub(totalCost)

	return BlendedMetrics{
		WholesaleShare: wholesaleShare,
		RetailShare:    retailShare,
		Price:          price,
		TotalCost:      totalCost,
		Profit:         profit,
		MarginPercent:  marginPercent(profit, price),
	}
}

// CostPlusBuffer is the suggested floor price: production cost marked up by the buffer.
func CostPlusBuffer(totalProductionCost, buffer decimal.Decimal) decimal.Decimal {
	return totalProductionCost.Mul(decimal.NewFromInt(1).Add(buffer))
}

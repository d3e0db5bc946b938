package costing

import "github.com/shopspring/decimal"

// PercentFee is a fee charged as a fraction of the selling price.
type PercentFee struct {
	Name string
	Rate decimal.Decimal
}

// OrderFee is a flat amount charged once per order and amortized over its items.
type OrderFee struct {
	Name   string
	Amount decimal.Decimal
}

// Channel is a sales route with its own price and fee schedule.
type Channel struct {
	Name              string
	Price             decimal.Decimal
	AverageOrderValue decimal.Decimal
	PercentFees       []PercentFee
	OrderFees         []OrderFee
}

// FeeLine is one fee expressed per item.
type FeeLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount_per_item"`
}

// ChannelMetrics is the per-item profitability of one channel.
type ChannelMetrics struct {
	Channel           string          `json:"channel"`
	Price             decimal.Decimal `json:"price"`
	ItemsPerOrder     decimal.Decimal `json:"items_per_order"`
	Fees              []FeeLine       `json:"fees"`
	TotalChannelCosts decimal.Decimal `json:"total_channel_costs"`
	TotalCostItem     decimal.Decimal `json:"total_cost_item"`
	Profit            decimal.Decimal `json:"profit"`
	MarginPercent     decimal.Decimal `json:"margin_percent"`
}

// ItemsPerOrder estimates how many items make up an average order. It falls back to one
// when either value is not positive and never goes below one.
func (c Channel) ItemsPerOrder() decimal.Decimal {
	one := decimal.NewFromInt(1)
	if !c.AverageOrderValue.IsPositive() || !c.Price.IsPositive() {
		return one
	}
	return decimal.Max(one, c.AverageOrderValue.Div(c.Price))
}

// Evaluate applies the channel's fees on top of the production cost of one item.
func (c Channel) Evaluate(totalProductionCost decimal.Decimal) ChannelMetrics {
	m := ChannelMetrics{
		Channel:           c.Name,
		Price:             c.Price,
		ItemsPerOrder:     c.ItemsPerOrder(),
		Fees:              make([]FeeLine, 0, len(c.PercentFees)+len(c.OrderFees)),
		TotalChannelCosts: decimal.Zero,
	}

	for _, f := range c.PercentFees {
		amount := c.Price.Mul(f.Rate)
		m.Fees = append(m.Fees, FeeLine{Name: f.Name, Amount: amount})
		m.TotalChannelCosts = m.TotalChannelCosts.Add(amount)
	}
	for _, f := range c.OrderFees {
		amount := f.Amount.Div(m.ItemsPerOrder)
		m.Fees = append(m.Fees, FeeLine{Name: f.Name, Amount: amount})
		m.TotalChannelCosts = m.TotalChannelCosts.Add(amount)
	}

	m.TotalCostItem = totalProductionCost.Add(m.TotalChannelCosts)
	m.Profit = c.Price.Sub(m.TotalCostItem)
	m.MarginPercent = marginPercent(m.Profit, c.Price)
	return m
}

// marginPercent is 100 × profit / price, or zero when price is not positive.
func marginPercent(profit, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return profit.Mul(hundred).Div(price)
}

// Channel builds the retail channel: card and platform fees on price, seller-paid shipping per order.
func (r RetailConfig) Channel() Channel {
	return Channel{
		Name:              "retail",
		Price:             r.Price,
		AverageOrderValue: r.AverageOrderValue,
		PercentFees: []PercentFee{
			{Name: "cc_fee", Rate: r.CCFeePercent},
			{Name: "platform_fee", Rate: r.PlatformFeePercent},
		},
		OrderFees: []OrderFee{
			{Name: "shipping_paid_by_seller", Amount: r.ShippingPaidBySeller},
		},
	}
}

// Channel builds the wholesale channel: commission and processing fees on price, a flat fee per order.
func (w WholesaleConfig) Channel() Channel {
	return Channel{
		Name:              "wholesale",
		Price:             w.Price,
		AverageOrderValue: w.AverageOrderValue,
		PercentFees: []PercentFee{
			{Name: "commission", Rate: w.CommissionPercent},
			{Name: "processing_fee", Rate: w.ProcessingFeePercent},
		},
		OrderFees: []OrderFee{
			{Name: "flat_fee_per_order", Amount: w.FlatFeePerOrder},
		},
	}
}

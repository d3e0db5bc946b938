package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/costworks/internal/costing"
)

// money renders d with thousands separators and two decimals.
func money(d decimal.Decimal) string {
	rounded := d.Round(2)
	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Abs().StringFixed(2)[1:]

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + humanize.Comma(whole.Abs().IntPart()) + cents
}

func unitCost(d decimal.Decimal) string {
	return d.StringFixed(4)
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// writeReport renders a breakdown as an aligned plain-text report with warnings inline.
func writeReport(out io.Writer, b costing.Breakdown) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s (product %d)\n", b.ProductName, b.ProductID)
	for _, warning := range b.Warnings() {
		fmt.Fprintf(w, "WARNING: %s\n", warning)
	}

	fmt.Fprintln(w, "\nMATERIALS")
	fmt.Fprintln(w, "Ingredient\tProvider\tGrams\tCost/g\tCost/bulk unit\tCost")
	for _, line := range b.Materials.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			line.Ingredient, line.Provider, line.QuantityGrams, unitCost(line.AvgCostPerGram),
			money(line.AvgCostPerBulkUnit), money(line.Cost))
	}
	for _, name := range b.Materials.Missing {
		fmt.Fprintf(w, "%s\t\t\t\t\tno purchase recorded\n", name)
	}
	fmt.Fprintf(w, "Total materials\t\t\t\t\t%s\n", money(b.Materials.Total))

	for _, section := range []struct {
		title string
		costs costing.LaborCosts
	}{
		{"PRODUCTION LABOR", b.Labor.Production},
		{"SHIPPING LABOR", b.Labor.Shipping},
	} {
		fmt.Fprintf(w, "\n%s\n", section.title)
		fmt.Fprintln(w, "Task\tEmployee\tMinutes\tItems per run\tCost per item")
		for _, line := range section.costs.Lines {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				line.Task, line.Employee, line.TimeMinutes, line.ItemsProcessed, money(line.CostPerItem))
		}
		fmt.Fprintf(w, "Total\t\t\t\t%s\n", money(section.costs.Total))
	}

	fmt.Fprintln(w, "\nCOST PER ITEM")
	fmt.Fprintf(w, "Materials\t%s\n", money(b.Materials.Total))
	fmt.Fprintf(w, "Labor\t%s\n", money(b.Totals.LaborCostPerItem))
	fmt.Fprintf(w, "Packaging\t%s\n", money(b.Packaging.Total))
	fmt.Fprintf(w, "Direct COGS\t%s\n", money(b.Totals.DirectCOGSPerItem))
	fmt.Fprintf(w, "Allocated salary\t%s\n", money(b.Overheads.SalaryPerItem))
	fmt.Fprintf(w, "Allocated rent and utilities\t%s\n", money(b.Overheads.RentUtilitiesPerItem))
	fmt.Fprintf(w, "Total production cost\t%s\n", money(b.Totals.TotalProductionCost))
	fmt.Fprintf(w, "Cost plus %s buffer\t%s\n", percent(b.Totals.BufferPercentage.Mul(decimal.NewFromInt(100))), money(b.Totals.CostPlusBuffer))

	fmt.Fprintln(w, "\nCHANNELS")
	fmt.Fprintln(w, "Channel\tPrice\tItems per order\tChannel costs\tTotal cost\tProfit\tMargin")
	for _, m := range []costing.ChannelMetrics{b.Retail, b.Wholesale} {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Channel, money(m.Price), m.ItemsPerOrder.StringFixed(2), money(m.TotalChannelCosts),
			money(m.TotalCostItem), money(m.Profit), percent(m.MarginPercent))
	}
	fmt.Fprintf(w, "blended (%s wholesale)\t%s\t\t\t%s\t%s\t%s\n",
		percent(b.Blended.WholesaleShare.Mul(decimal.NewFromInt(100))), money(b.Blended.Price),
		money(b.Blended.TotalCost), money(b.Blended.Profit), percent(b.Blended.MarginPercent))

	return w.Flush()
}

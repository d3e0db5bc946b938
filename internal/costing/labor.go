package costing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	sixty   = decimal.NewFromInt(60)
	hundred = decimal.NewFromInt(100)
)

// LaborLine is one row of the per-task cost table.
type LaborLine struct {
	Task           string          `json:"task"`
	Employee       string          `json:"employee"`
	TimeMinutes    decimal.Decimal `json:"time_minutes"`
	ItemsProcessed int64           `json:"items_processed"`
	CostPerItem    decimal.Decimal `json:"cost_per_item"`
}

// LaborCosts is the labor cost of one finished item for a single task kind.
type LaborCosts struct {
	Lines []LaborLine     `json:"lines"`
	Total decimal.Decimal `json:"total_cost_per_item"`
}

// LaborSummary splits labor into production and shipping work.
type LaborSummary struct {
	Production LaborCosts `json:"production"`
	Shipping   LaborCosts `json:"shipping"`
	// Skipped describes assignments left out for lack of an employee or task.
	Skipped []string `json:"skipped_tasks"`
}

// Total is the direct labor cost per item.
func (l LaborSummary) Total() decimal.Decimal {
	return l.Production.Total.Add(l.Shipping.Total)
}

// TaskCostPerItem is (minutes / 60 × hourly rate) spread over the items processed in one
// run of the task. A batch size below one counts as one.
func TaskCostPerItem(minutes, hourlyRate decimal.Decimal, itemsProcessed int64) decimal.Decimal {
	if itemsProcessed < 1 {
		itemsProcessed = 1
	}
	return minutes.Mul(hourlyRate).Div(sixty.Mul(decimal.NewFromInt(itemsProcessed)))
}

// AggregateLabor costs every task assignment. Assignments without an employee or a
// resolvable standard task are skipped and reported.
func AggregateLabor(tasks []TaskAssignment) LaborSummary {
	out := LaborSummary{
		Production: LaborCosts{Lines: make([]LaborLine, 0), Total: decimal.Zero},
		Shipping:   LaborCosts{Lines: make([]LaborLine, 0), Total: decimal.Zero},
		Skipped:    make([]string, 0),
	}

	for _, t := range tasks {
		if t.Employee == nil || t.TaskName == "" {
			out.Skipped = append(out.Skipped, describeSkipped(t))
			continue
		}

		items := t.ItemsProcessed
		if items < 1 {
			items = 1
		}
		line := LaborLine{
			Task:           t.TaskName,
			Employee:       t.Employee.Name,
			TimeMinutes:    t.TimeMinutes,
			ItemsProcessed: items,
			CostPerItem:    TaskCostPerItem(t.TimeMinutes, t.Employee.HourlyRate, items),
		}

		costs := &out.Production
		if t.Kind == TaskKindShipping {
			costs = &out.Shipping
		}
		costs.Lines = append(costs.Lines, line)
		costs.Total = costs.Total.Add(line.CostPerItem)
	}

	return out
}

func describeSkipped(t TaskAssignment) string {
	name := t.TaskName
	if name == "" {
		name = fmt.Sprintf("standard task %d", t.StandardTaskID)
	}
	kind := string(t.Kind)
	if kind == "" {
		kind = "task"
	}
	if t.Employee == nil {
		return fmt.Sprintf("%s %q has no employee assigned", kind, name)
	}
	return fmt.Sprintf("%s %s no longer exists", kind, name)
}

package costing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Breakdown outcomes reported to the Observer.
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Repository is the read-only data access the engine needs.
type Repository interface {
	// LoadSnapshot returns ErrProductNotFound when the product does not exist.
	LoadSnapshot(ctx context.Context, productID int64) (Snapshot, error)
	ListItemStock(ctx context.Context) ([]ItemStock, error)
}

// Observer receives one notification per breakdown request and per stock check.
type Observer interface {
	ObserveBreakdown(outcome string, elapsed time.Duration, missingIngredients, skippedTasks int)
	ObserveStockLevels(lowStock int)
}

type nopObserver struct{}

func (nopObserver) ObserveBreakdown(string, time.Duration, int, int) {}
func (nopObserver) ObserveStockLevels(int) {}

// Engine computes product breakdowns from the current persisted state. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	repo     Repository
	log      *zap.Logger
	observer Observer
}

// NewEngine builds an engine. log and observer may be nil.
func NewEngine(repo Repository, log *zap.Logger, observer Observer) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Engine{repo: repo, log: log, observer: observer}
}

// ComputeBreakdown loads the product's snapshot and calculates its breakdown.
func (e *Engine) ComputeBreakdown(ctx context.Context, productID int64) (Breakdown, error) {
	start := time.Now()
	log := e.log.With(zap.Int64("product_id", productID))

	snapshot, err := e.repo.LoadSnapshot(ctx, productID)
	if err != nil {
		outcome := OutcomeError
		switch {
		case errors.Is(err, ErrProductNotFound):
			outcome = OutcomeNotFound
		case errors.Is(err, ErrInvalidReference):
			outcome = OutcomeInvalid
		}
		e.observer.ObserveBreakdown(outcome, time.Since(start), 0, 0)
		return Breakdown{}, fmt.Errorf("load snapshot for product %d: %w", productID, err)
	}

	breakdown, err := Calculate(snapshot)
	if err != nil {
		e.observer.ObserveBreakdown(OutcomeInvalid, time.Since(start), 0, 0)
		log.Error("product snapshot rejected", zap.Error(err))
		return Breakdown{}, fmt.Errorf("calculate breakdown for product %d: %w", productID, err)
	}

	outcome := OutcomeComplete
	if !breakdown.Complete() {
		outcome = OutcomePartial
		log.Warn("breakdown computed from incomplete data",
			zap.Strings("missing_ingredient_costs", breakdown.MissingIngredientCosts),
			zap.Strings("skipped_tasks", breakdown.Labor.Skipped),
		)
	}
	e.observer.ObserveBreakdown(outcome, time.Since(start), len(breakdown.MissingIngredientCosts), len(breakdown.Labor.Skipped))
	log.Debug("breakdown computed",
		zap.String("total_production_cost", breakdown.Totals.TotalProductionCost.String()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return breakdown, nil
}

// StockLevels values the remaining stock of every inventory item.
func (e *Engine) StockLevels(ctx context.Context) ([]StockLevel, error) {
	items, err := e.repo.ListItemStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list item stock: %w", err)
	}

	levels := make([]StockLevel, 0, len(items))
	low := 0
	for _, item := range items {
		level, err := SummarizeStock(item)
		if err != nil {
			return nil, fmt.Errorf("summarize stock for item %d: %w", item.Item.ID, err)
		}
		if level.LowStock {
			low++
			e.log.Info("inventory item below reorder threshold",
				zap.Int64("item_id", level.ItemID),
				zap.String("name", level.Name),
				zap.String("on_hand_grams", level.OnHandGrams.String()),
			)
		}
		levels = append(levels, level)
	}
	e.observer.ObserveStockLevels(low)
	return levels, nil
}

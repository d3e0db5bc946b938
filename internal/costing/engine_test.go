package costing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRepository struct {
	snapshots map[int64]Snapshot
	stock     []ItemStock
	err       error
}

func (r *fakeRepository) LoadSnapshot(_ context.Context, productID int64) (Snapshot, error) {
	if r.err != nil {
		return Snapshot{}, r.err
	}
	s, ok := r.snapshots[productID]
	if !ok {
		return Snapshot{}, ErrProductNotFound
	}
	return s, nil
}

func (r *fakeRepository) ListItemStock(context.Context) ([]ItemStock, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.stock, nil
}

type observation struct {
	outcome string
	missing int
	skipped int
}

type recordingObserver struct {
	mu       sync.Mutex
	got      []observation
	lowStock []int
}

func (o *recordingObserver) ObserveStockLevels(lowStock int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lowStock = append(o.lowStock, lowStock)
}

func (o *recordingObserver) ObserveBreakdown(outcome string, _ time.Duration, missing, skipped int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, observation{outcome: outcome, missing: missing, skipped: skipped})
}

func (o *recordingObserver) last(t *testing.T) observation {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.got) == 0 {
		t.Fatalf("observer was not notified")
	}
	return o.got[len(o.got)-1]
}

func TestEngineComputeBreakdown(t *testing.T) {
	obs := &recordingObserver{}
	repo := &fakeRepository{snapshots: map[int64]Snapshot{42: exampleSnapshot()}}
	engine := NewEngine(repo, nil, obs)

	b, err := engine.ComputeBreakdown(context.Background(), 42)
	if err != nil {
		t.Fatalf("ComputeBreakdown returned error: %v", err)
	}
	roundedEqual(t, "total production cost", b.Totals.TotalProductionCost, 4, "6.1833")
	if got := obs.last(t); got.outcome != OutcomeComplete {
		t.Fatalf("outcome = %q, want %q", got.outcome, OutcomeComplete)
	}
}

func TestEngineComputeBreakdown_NotFound(t *testing.T) {
	obs := &recordingObserver{}
	engine := NewEngine(&fakeRepository{}, nil, obs)

	_, err := engine.ComputeBreakdown(context.Background(), 7)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want %v", err, ErrProductNotFound)
	}
	if got := obs.last(t); got.outcome != OutcomeNotFound {
		t.Fatalf("outcome = %q, want %q", got.outcome, OutcomeNotFound)
	}
}

func TestEngineComputeBreakdown_InvalidConfig(t *testing.T) {
	s := exampleSnapshot()
	s.Product.Pricing.DistributionWholesalePercentage = dec("1.5")
	obs := &recordingObserver{}
	engine := NewEngine(&fakeRepository{snapshots: map[int64]Snapshot{42: s}}, nil, obs)

	_, err := engine.ComputeBreakdown(context.Background(), 42)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want %v", err, ErrInvalidConfig)
	}
	if got := obs.last(t); got.outcome != OutcomeInvalid {
		t.Fatalf("outcome = %q, want %q", got.outcome, OutcomeInvalid)
	}
}

func TestEngineComputeBreakdown_RepositoryFailure(t *testing.T) {
	obs := &recordingObserver{}
	engine := NewEngine(&fakeRepository{err: errors.New("database is locked")}, nil, obs)

	if _, err := engine.ComputeBreakdown(context.Background(), 1); err == nil {
		t.Fatalf("expected error")
	}
	if got := obs.last(t); got.outcome != OutcomeError {
		t.Fatalf("outcome = %q, want %q", got.outcome, OutcomeError)
	}
}

func TestEngineComputeBreakdown_PartialDataIsLogged(t *testing.T) {
	s := exampleSnapshot()
	s.Materials = append(s.Materials, Material{
		Line: RecipeLine{ProductID: 42, InventoryItemID: 2, QuantityGrams: dec("15")},
		Item: &InventoryItem{ID: 2, Name: "Lye"},
	})
	s.Tasks = append(s.Tasks, TaskAssignment{Kind: TaskKindProduction, StandardTaskID: 3, TaskName: "Curing", TimeMinutes: dec("10"), ItemsProcessed: 1})

	core, logs := observer.New(zap.WarnLevel)
	obs := &recordingObserver{}
	engine := NewEngine(&fakeRepository{snapshots: map[int64]Snapshot{42: s}}, zap.New(core), obs)

	if _, err := engine.ComputeBreakdown(context.Background(), 42); err != nil {
		t.Fatalf("ComputeBreakdown returned error: %v", err)
	}

	got := obs.last(t)
	if got.outcome != OutcomePartial || got.missing != 1 || got.skipped != 1 {
		t.Fatalf("observation = %+v", got)
	}
	if logs.FilterMessage("breakdown computed from incomplete data").Len() != 1 {
		t.Fatalf("expected one partial-data warning, got %v", logs.All())
	}
}

func TestEngineStockLevels(t *testing.T) {
	threshold := dec("100")
	repo := &fakeRepository{stock: []ItemStock{
		{Item: InventoryItem{ID: 1, Name: "Oil", ReorderThresholdGrams: &threshold}, Lots: oilLots()},
		{Item: InventoryItem{ID: 2, Name: "Lye"}},
	}}
	obs := &recordingObserver{}
	engine := NewEngine(repo, nil, obs)

	levels, err := engine.StockLevels(context.Background())
	if err != nil {
		t.Fatalf("StockLevels returned error: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].LowStock {
		t.Fatalf("Oil should not be low at %s grams", levels[0].OnHandGrams)
	}
	if levels[1].HasCost {
		t.Fatalf("Lye has no purchases")
	}
	if len(obs.lowStock) != 1 || obs.lowStock[0] != 0 {
		t.Fatalf("lowStock observations = %v, want [0]", obs.lowStock)
	}
}

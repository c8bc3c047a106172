package predictor

import (
	"context"
	"errors"
	"testing"

	"predictive-trader/internal/types"
)

func TestPredictNotReadyWithoutPrices(t *testing.T) {
	p := NewLocal(60, 240)

	_, err := p.Predict(context.Background(), "BTCUSDT", nil)
	if !errors.Is(err, types.ErrModelNotReady) {
		t.Fatalf("expected ErrModelNotReady, got %v", err)
	}
}

func TestPredictPadsShortSequences(t *testing.T) {
	p := NewLocal(60, 240)

	// A two-point flat sequence pads to a flat window: forecast stays put.
	got, err := p.Predict(context.Background(), "BTCUSDT", []float64{100, 100})
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Errorf("expected flat forecast 100, got %f", got)
	}
}

func TestPredictFollowsTrend(t *testing.T) {
	p := NewLocal(10, 40)

	rising := make([]float64, 10)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}

	got, err := p.Predict(context.Background(), "BTCUSDT", rising)
	if err != nil {
		t.Fatal(err)
	}
	last := rising[len(rising)-1]
	if got <= last {
		t.Errorf("expected forecast above last price %f for rising sequence, got %f", last, got)
	}
}

func TestPredictNeverNonPositive(t *testing.T) {
	p := NewLocal(5, 20)

	// Steep fall would extrapolate below zero without the clamp.
	falling := []float64{100, 60, 30, 10, 1}
	got, err := p.Predict(context.Background(), "BTCUSDT", falling)
	if err != nil {
		t.Fatal(err)
	}
	if got <= 0 {
		t.Errorf("expected positive forecast, got %f", got)
	}
}

func TestPredictFallsBackToTrainedHistory(t *testing.T) {
	p := NewLocal(10, 40)
	ctx := context.Background()

	if err := p.Train(ctx, "ETHUSDT", []float64{2000, 2010, 2020, 2030}); err != nil {
		t.Fatal(err)
	}

	got, err := p.Predict(ctx, "ETHUSDT", nil)
	if err != nil {
		t.Fatalf("expected history fallback to produce a forecast, got %v", err)
	}
	if got <= 0 {
		t.Errorf("expected positive forecast from history, got %f", got)
	}
}

func TestTrainNoOpsWhileBusy(t *testing.T) {
	p := NewLocal(10, 40)
	ctx := context.Background()

	p.training.Lock()
	if err := p.Train(ctx, "BTCUSDT", []float64{100, 101, 102}); err != nil {
		t.Fatalf("busy train should no-op, got %v", err)
	}
	p.training.Unlock()

	p.mu.RLock()
	_, trained := p.history["BTCUSDT"]
	p.mu.RUnlock()
	if trained {
		t.Error("expected no history written while training slot was held")
	}
}

func TestTrainBoundsDamping(t *testing.T) {
	p := NewLocal(10, 40)
	ctx := context.Background()

	noisy := []float64{100, 150, 90, 160, 80, 170, 70, 180, 60, 190}
	if err := p.Train(ctx, "BTCUSDT", noisy); err != nil {
		t.Fatal(err)
	}

	p.mu.RLock()
	damping := p.damping["BTCUSDT"]
	p.mu.RUnlock()
	if damping < 0.1 || damping > 0.9 {
		t.Errorf("damping %f outside [0.1, 0.9]", damping)
	}
}

func TestRingKeepsMostRecent(t *testing.T) {
	r := newRing(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		r.push(v)
	}

	got := r.slice()
	want := []float64{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slice[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestRingPartialFill(t *testing.T) {
	r := newRing(5)
	r.push(7)
	r.push(8)

	if r.size() != 2 {
		t.Errorf("expected size 2, got %d", r.size())
	}
	got := r.slice()
	if len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Errorf("unexpected slice %v", got)
	}
}

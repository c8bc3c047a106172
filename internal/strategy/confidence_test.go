package strategy

import (
	"testing"

	"predictive-trader/internal/types"
)

func TestScoreStaysWithinBounds(t *testing.T) {
	snaps := []types.MarketSnapshot{
		{Symbol: "BTCUSDT", Price: 100},
		{Symbol: "BTCUSDT", Price: 100, High24h: 105, Low24h: 95},
		{Symbol: "BTCUSDT", Price: 100, High24h: 200, Low24h: 10},
		{Symbol: "BTCUSDT", Price: 100, High24h: 101, Low24h: 99, Change24h: 0.5},
		{Symbol: "BTCUSDT", Price: 100, High24h: 90, Low24h: 110}, // inverted range clamps to zero
		{Symbol: "BTCUSDT", Price: 0.0001, High24h: 0.001, Low24h: 0.00001},
		{Symbol: "BTCUSDT", Price: 100, Change24h: -0.08},
	}

	for _, snap := range snaps {
		got := Score(snap, snap.Price*1.01)
		if got < 0.05 || got > 0.95 {
			t.Errorf("Score(%+v) = %f, want within [0.05, 0.95]", snap, got)
		}
	}
}

func TestScoreDefaultsWhenStatsAbsent(t *testing.T) {
	snap := types.MarketSnapshot{Symbol: "ETHUSDT", Price: 2000}

	got := Score(snap, 2050)
	// zero volatility and weak trend: 1.0 * 0.6
	if got != 0.6 {
		t.Errorf("expected 0.6 for snapshot without 24h stats, got %f", got)
	}
}

func TestScoreStrongTrendRaisesConfidence(t *testing.T) {
	calm := types.MarketSnapshot{Symbol: "BTCUSDT", Price: 100, High24h: 101, Low24h: 99}
	trending := calm
	trending.Change24h = 0.05

	weak := Score(calm, 103)
	strong := Score(trending, 103)

	if strong <= weak {
		t.Errorf("expected strong trend to raise confidence: weak=%f strong=%f", weak, strong)
	}
}

func TestScoreVolatilityLowersConfidence(t *testing.T) {
	calm := types.MarketSnapshot{Symbol: "BTCUSDT", Price: 100, High24h: 101, Low24h: 99}
	volatile := types.MarketSnapshot{Symbol: "BTCUSDT", Price: 100, High24h: 130, Low24h: 70}

	if Score(volatile, 103) >= Score(calm, 103) {
		t.Error("expected volatile snapshot to score below calm snapshot")
	}
}

func TestScoreFloorsExtremeVolatility(t *testing.T) {
	snap := types.MarketSnapshot{Symbol: "BTCUSDT", Price: 10, High24h: 500, Low24h: 1}

	got := Score(snap, 10)
	// base floors at 0.1, weak trend: 0.1 * 0.6
	if got != 0.06 {
		t.Errorf("expected floor 0.06 under extreme volatility, got %f", got)
	}
}

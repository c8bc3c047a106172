package strategy

import (
	"strings"
	"testing"

	"predictive-trader/internal/config"
	"predictive-trader/internal/types"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Agent.RiskTolerance = 0.1
	cfg.Agent.MaxPositionSize = 0.05
	cfg.Agent.MinConfidence = 0.5
	return cfg
}

func TestDecideBuysOnPredictedRise(t *testing.T) {
	snap := types.MarketSnapshot{Symbol: "BTCUSDT", Price: 100}

	d := Decide(snap, 103, 0.8, testConfig())

	if d.Action != types.ActionBuy {
		t.Fatalf("expected BUY for 3%% predicted rise, got %s (%s)", d.Action, d.Reason)
	}
	if d.Confidence != 0.8 {
		t.Errorf("expected confidence carried through, got %f", d.Confidence)
	}
	if d.Symbol != "BTCUSDT" {
		t.Errorf("expected symbol carried through, got %s", d.Symbol)
	}
}

func TestDecideHoldsOnSmallMove(t *testing.T) {
	snap := types.MarketSnapshot{Symbol: "BTCUSDT", Price: 100}

	d := Decide(snap, 98.5, 0.9, testConfig())

	if d.Action != types.ActionHold {
		t.Fatalf("expected HOLD for -1.5%% predicted move, got %s", d.Action)
	}
	if !strings.Contains(d.Reason, "below actionable magnitude") {
		t.Errorf("expected magnitude reason, got %q", d.Reason)
	}
}

func TestDecideConfidenceGateFiresFirst(t *testing.T) {
	snap := types.MarketSnapshot{Symbol: "BTCUSDT", Price: 100}

	// 5% predicted rise would be a clear BUY, but confidence is below gate.
	d := Decide(snap, 105, 0.3, testConfig())

	if d.Action != types.ActionHold {
		t.Fatalf("expected HOLD when confidence below minimum, got %s", d.Action)
	}
	if !strings.Contains(d.Reason, "below minimum") {
		t.Errorf("expected confidence deficit in reason, got %q", d.Reason)
	}
}

func TestDecideSellsOnPredictedDrop(t *testing.T) {
	snap := types.MarketSnapshot{Symbol: "ETHUSDT", Price: 2000}

	d := Decide(snap, 1900, 0.7, testConfig())

	if d.Action != types.ActionSell {
		t.Fatalf("expected SELL for -5%% predicted move, got %s", d.Action)
	}
}

func TestDecideBelowMinConfidenceAlwaysHolds(t *testing.T) {
	cfg := testConfig()
	snap := types.MarketSnapshot{Symbol: "BTCUSDT", Price: 100}

	for _, conf := range []float64{0.0, 0.1, 0.25, 0.49, 0.499} {
		for _, predicted := range []float64{50, 95, 100, 105, 200} {
			d := Decide(snap, predicted, conf, cfg)
			if d.Action != types.ActionHold {
				t.Errorf("confidence=%f predicted=%f: expected HOLD, got %s", conf, predicted, d.Action)
			}
		}
	}
}

func TestDecideIsIdempotent(t *testing.T) {
	snap := types.MarketSnapshot{Symbol: "BTCUSDT", Price: 100, High24h: 102, Low24h: 98}
	cfg := testConfig()

	a := Decide(snap, 103, 0.8, cfg)
	b := Decide(snap, 103, 0.8, cfg)

	// Identical inputs must yield identical decisions, audit fields aside.
	if a.Action != b.Action || a.Reason != b.Reason || a.Confidence != b.Confidence {
		t.Errorf("decide not idempotent: %+v vs %+v", a, b)
	}
}

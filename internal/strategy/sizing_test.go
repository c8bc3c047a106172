package strategy

import (
	"errors"
	"testing"

	"predictive-trader/internal/types"
)

func TestSizeConfidenceScaledAndCapped(t *testing.T) {
	cfg := testConfig() // risk 0.1, max position 0.05

	// maxRisk = 100, confidence-adjusted = 80, cap = 50
	amount, err := Size(1000, 0.8, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if amount != 50 {
		t.Errorf("expected cap of 50, got %f", amount)
	}

	// below the cap the confidence scaling applies directly
	amount, err = Size(1000, 0.3, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if amount != 30 {
		t.Errorf("expected 30, got %f", amount)
	}
}

func TestSizeNeverExceedsPositionCap(t *testing.T) {
	cfg := testConfig()

	for _, balance := range []float64{0, 1, 100, 1000, 1e9} {
		for _, conf := range []float64{0, 0.05, 0.5, 0.95, 1} {
			amount, err := Size(balance, conf, cfg)
			if err != nil {
				t.Fatal(err)
			}
			cap := balance * cfg.Agent.MaxPositionSize
			if amount < 0 || amount > cap {
				t.Errorf("balance=%f conf=%f: amount %f outside [0, %f]", balance, conf, amount, cap)
			}
		}
	}
}

func TestSizeMonotonicInConfidence(t *testing.T) {
	cfg := testConfig()
	cfg.Agent.MaxPositionSize = 1 // remove the cap so scaling is visible

	prev := -1.0
	for _, conf := range []float64{0, 0.2, 0.4, 0.6, 0.8, 1} {
		amount, err := Size(1000, conf, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if amount < prev {
			t.Errorf("amount decreased with confidence: %f < %f at conf=%f", amount, prev, conf)
		}
		prev = amount
	}
}

func TestSizeRejectsInvalidInputs(t *testing.T) {
	cfg := testConfig()

	if _, err := Size(-1, 0.5, cfg); err == nil {
		t.Error("expected error for negative balance")
	}

	bad := testConfig()
	bad.Agent.RiskTolerance = 1.5
	_, err := Size(1000, 0.5, bad)
	var ce *types.ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("expected *types.ConfigError for out-of-range risk tolerance, got %v", err)
	}

	bad = testConfig()
	bad.Agent.MaxPositionSize = -0.1
	if _, err := Size(1000, 0.5, bad); err == nil {
		t.Error("expected error for negative max position size")
	}
}

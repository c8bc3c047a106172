package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"predictive-trader/internal/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeConfig(t, `
mode: DRY_RUN
symbols: [BTCUSDT, ETHUSDT]
agent:
  risk_tolerance: 0.1
  max_position_size: 0.05
  min_confidence: 0.5
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.Agent.TickIntervalSeconds != 30 {
		t.Errorf("expected default tick interval 30s, got %d", cfg.Agent.TickIntervalSeconds)
	}
	if cfg.TickInterval() != 30*time.Second {
		t.Errorf("expected TickInterval 30s, got %v", cfg.TickInterval())
	}
	if cfg.DataSource != "STATIC" {
		t.Errorf("expected default data_source STATIC, got %s", cfg.DataSource)
	}
	if cfg.Predictor.Window != 60 {
		t.Errorf("expected default predictor window 60, got %d", cfg.Predictor.Window)
	}
	if cfg.Predictor.History != 240 {
		t.Errorf("expected default predictor history 240, got %d", cfg.Predictor.History)
	}
	if cfg.Backoff.InitialMultiplier != 2 || cfg.Backoff.MaxMultiplier != 10 {
		t.Errorf("unexpected backoff defaults: %+v", cfg.Backoff)
	}
	if cfg.Agent.Name != "predictive-trader" {
		t.Errorf("expected default agent name, got %s", cfg.Agent.Name)
	}
}

func TestValidateRejectsOutOfRangeFractions(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{
			name: "risk tolerance above one",
			body: `
mode: DRY_RUN
symbols: [BTCUSDT]
agent:
  risk_tolerance: 1.5
  max_position_size: 0.05
  min_confidence: 0.5
`,
			field: "agent.risk_tolerance",
		},
		{
			name: "negative max position size",
			body: `
mode: DRY_RUN
symbols: [BTCUSDT]
agent:
  risk_tolerance: 0.1
  max_position_size: -0.1
  min_confidence: 0.5
`,
			field: "agent.max_position_size",
		},
		{
			name: "min confidence above one",
			body: `
mode: DRY_RUN
symbols: [BTCUSDT]
agent:
  risk_tolerance: 0.1
  max_position_size: 0.05
  min_confidence: 2
`,
			field: "agent.min_confidence",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ce *types.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *types.ConfigError, got %T: %v", err, err)
			}
			if ce.Field != tc.field {
				t.Errorf("expected field %s, got %s", tc.field, ce.Field)
			}
		})
	}
}

func TestValidateRejectsBadMode(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
mode: YOLO
symbols: [BTCUSDT]
agent:
  risk_tolerance: 0.1
  max_position_size: 0.05
  min_confidence: 0.5
`))
	var ce *types.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *types.ConfigError, got %v", err)
	}
}

func TestValidateRejectsEmptySymbols(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
mode: DRY_RUN
symbols: []
agent:
  risk_tolerance: 0.1
  max_position_size: 0.05
  min_confidence: 0.5
`))
	if err == nil {
		t.Fatal("expected error for empty symbols")
	}
}

package strategy

import (
	"fmt"
	"math"

	"predictive-trader/internal/config"
	"predictive-trader/internal/types"
)

// Size bounds the order amount: risk budget scaled by confidence, capped
// by the max position fraction of the balance. The result is always in
// [0, balance*maxPositionSize] and grows monotonically with confidence.
func Size(balance, confidence float64, cfg *config.Config) (float64, error) {
	if cfg.Agent.RiskTolerance < 0 || cfg.Agent.RiskTolerance > 1 {
		return 0, &types.ConfigError{Field: "agent.risk_tolerance", Reason: "must be within [0,1]"}
	}
	if cfg.Agent.MaxPositionSize < 0 || cfg.Agent.MaxPositionSize > 1 {
		return 0, &types.ConfigError{Field: "agent.max_position_size", Reason: "must be within [0,1]"}
	}
	if balance < 0 {
		return 0, &types.ConfigError{Field: "balance", Reason: fmt.Sprintf("cannot be negative, got %.2f", balance)}
	}

	maxRisk := balance * cfg.Agent.RiskTolerance
	confidenceAdjusted := maxRisk * confidence
	return math.Min(confidenceAdjusted, balance*cfg.Agent.MaxPositionSize), nil
}

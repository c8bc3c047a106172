package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"predictive-trader/internal/config"
	"predictive-trader/internal/types"
)

// Thresholds for acting on a prediction. The 2% band filters prediction
// noise; the confidence gate fires before magnitude is even considered.
const (
	actionThreshold    = 0.02
	magnitudeThreshold = 0.01
)

// Decide maps (snapshot, prediction, confidence) to a discrete trading
// decision. It is pure: identical inputs yield identical decisions apart
// from the audit ID and timestamp.
func Decide(snap types.MarketSnapshot, predicted, confidence float64, cfg *config.Config) types.TradingDecision {
	d := types.TradingDecision{
		ID:             uuid.NewString(),
		Symbol:         snap.Symbol,
		Confidence:     confidence,
		Price:          snap.Price,
		PredictedPrice: predicted,
		Ts:             time.Now().Unix(),
	}

	if confidence < cfg.Agent.MinConfidence {
		d.Action = types.ActionHold
		d.Reason = fmt.Sprintf("confidence %.2f below minimum %.2f", confidence, cfg.Agent.MinConfidence)
		return d
	}

	priceChange := (predicted - snap.Price) / snap.Price

	switch {
	case priceChange > actionThreshold && math.Abs(priceChange) > magnitudeThreshold:
		d.Action = types.ActionBuy
		d.Reason = fmt.Sprintf("predicted %.2f%% rise exceeds %.0f%% threshold", priceChange*100, actionThreshold*100)
	case priceChange < -actionThreshold && math.Abs(priceChange) > magnitudeThreshold:
		d.Action = types.ActionSell
		d.Reason = fmt.Sprintf("predicted %.2f%% drop exceeds %.0f%% threshold", priceChange*100, actionThreshold*100)
	default:
		d.Action = types.ActionHold
		d.Reason = fmt.Sprintf("predicted %.2f%% move below actionable magnitude", priceChange*100)
	}
	return d
}

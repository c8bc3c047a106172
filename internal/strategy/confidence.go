package strategy

import (
	"math"

	"predictive-trader/internal/types"
)

// Confidence bounds. Volatile markets shrink the base term, a strong 24h
// trend raises the trend term, and the product is capped below certainty.
const (
	baseFloor      = 0.1
	trendWeak      = 0.6
	trendStrong    = 0.8
	trendThreshold = 0.02
	confidenceCap  = 0.95
)

// Score turns a market snapshot and a predicted price into a confidence
// value in [0.05, 0.95]. Missing 24h stats contribute zero volatility and
// a weak trend; the function never fails.
func Score(snap types.MarketSnapshot, predicted float64) float64 {
	volatility := 0.0
	if snap.Price > 0 {
		volatility = (snap.High24h - snap.Low24h) / snap.Price
	}
	if volatility < 0 {
		volatility = 0
	}

	base := math.Max(baseFloor, 1-volatility)

	trend := trendWeak
	if math.Abs(snap.Change24h) > trendThreshold {
		trend = trendStrong
	}

	return math.Min(confidenceCap, base*trend)
}

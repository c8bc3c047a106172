package types

type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// MarketSnapshot is the per-symbol view of the market at one instant.
// High24h/Low24h/Change24h may be zero when the source carries no 24h
// stats; downstream treats that as a zero volatility contribution, never
// as an error.
type MarketSnapshot struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
	Ts        int64   `json:"ts"`
	High24h   float64 `json:"high_24h,omitempty"`
	Low24h    float64 `json:"low_24h,omitempty"`
	Change24h float64 `json:"change_24h,omitempty"`
}

// TradingDecision is the immutable audit record of one decision cycle.
// Amount is set only for BUY/SELL and is quoted in the balance currency.
type TradingDecision struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Action         Action  `json:"action"`
	Confidence     float64 `json:"confidence"`
	Amount         float64 `json:"amount,omitempty"`
	Reason         string  `json:"reason"`
	Price          float64 `json:"price"`
	PredictedPrice float64 `json:"predicted_price,omitempty"`
	Ts             int64   `json:"ts"`
}

type Position struct {
	Amount float64 `json:"amount"`
	Value  float64 `json:"value"`
}

// PortfolioState is read for sizing and mutated only by the execution layer.
type PortfolioState struct {
	Balance   float64             `json:"balance"`
	Positions map[string]Position `json:"positions"`
}

// TickResult summarizes one symbol's pass within a tick.
type TickResult struct {
	Symbol   string          `json:"symbol"`
	Decision TradingDecision `json:"decision"`
	Executed bool            `json:"executed"`
	Skipped  bool            `json:"skipped,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

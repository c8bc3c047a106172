package interfaces

import (
	"context"

	"predictive-trader/internal/types"
)

// MarketDataSource supplies per-symbol market state. Snapshot and
// RecentPrices return types.ErrDataUnavailable (wrapped) when no recent
// data exists; implementations are expected to bound their own timeouts.
type MarketDataSource interface {
	Snapshot(ctx context.Context, symbol string) (types.MarketSnapshot, error)
	RecentPrices(ctx context.Context, symbol string, n int) ([]float64, error)
	Start(ctx context.Context, symbols []string) error
	Stop(ctx context.Context)
}

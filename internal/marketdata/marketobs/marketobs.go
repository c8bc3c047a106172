package marketobs

import (
	"context"

	"predictive-trader/internal/interfaces"
	"predictive-trader/internal/logger"
	"predictive-trader/internal/trace"
	"predictive-trader/internal/types"
)

// observableSource wraps a MarketDataSource with observability (logging & tracing)
type observableSource struct {
	source interfaces.MarketDataSource
}

var _ interfaces.MarketDataSource = (*observableSource)(nil)

// Wrap wraps a market data source with observability middleware
func Wrap(source interfaces.MarketDataSource) interfaces.MarketDataSource {
	return &observableSource{source: source}
}

func (os *observableSource) Snapshot(ctx context.Context, symbol string) (types.MarketSnapshot, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.Snapshot")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching market snapshot", "symbol", symbol)

	snap, err := os.source.Snapshot(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch market snapshot", err, "symbol", symbol)
		return types.MarketSnapshot{}, err
	}

	logger.DebugSkip(ctx, 1, "Market snapshot fetched", "symbol", symbol, "price", snap.Price)
	return snap, nil
}

func (os *observableSource) RecentPrices(ctx context.Context, symbol string, n int) ([]float64, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.RecentPrices")
	defer span.End()

	prices, err := os.source.RecentPrices(ctx, symbol, n)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch recent prices", err, "symbol", symbol, "count", n)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Recent prices fetched", "symbol", symbol, "count", len(prices))
	return prices, nil
}

func (os *observableSource) Start(ctx context.Context, symbols []string) error {
	ctx, span := trace.StartSpan(ctx, "marketdata.Start")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting market data source", "symbols", symbols)

	if err := os.source.Start(ctx, symbols); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to start market data source", err, "symbols", symbols)
		return err
	}

	logger.InfoSkip(ctx, 1, "Market data source started", "symbols", symbols)
	return nil
}

func (os *observableSource) Stop(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "marketdata.Stop")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Stopping market data source")
	os.source.Stop(ctx)
}

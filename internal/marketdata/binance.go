package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"

	"predictive-trader/internal/logger"
	"predictive-trader/internal/types"
)

// Binance serves live snapshots from the exchange REST API. All calls are
// bounded by a request timeout; data errors surface as ErrDataUnavailable
// so the runtime can skip the symbol for the tick.
type Binance struct {
	api     *binance.Client
	timeout time.Duration
}

type BinanceParams struct {
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

func NewBinance(p BinanceParams) *Binance {
	if p.Timeout == 0 {
		p.Timeout = 10 * time.Second
	}
	return &Binance{
		api:     binance.NewClient(p.APIKey, p.APISecret),
		timeout: p.Timeout,
	}
}

func (b *Binance) Start(ctx context.Context, symbols []string) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.api.NewPingService().Do(ctx); err != nil {
		return fmt.Errorf("binance ping failed: %w", err)
	}
	logger.Info(ctx, "Market data source connected", "source", "binance", "symbols", symbols)
	return nil
}

func (b *Binance) Stop(ctx context.Context) {
	logger.Info(ctx, "Market data source stopped", "source", "binance")
}

func (b *Binance) Snapshot(ctx context.Context, symbol string) (types.MarketSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	stats, err := b.api.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return types.MarketSnapshot{}, fmt.Errorf("%w: %s: %v", types.ErrDataUnavailable, symbol, err)
	}
	if len(stats) == 0 {
		return types.MarketSnapshot{}, fmt.Errorf("%w: no 24h stats for %s", types.ErrDataUnavailable, symbol)
	}
	s := stats[0]

	price, err := strconv.ParseFloat(s.LastPrice, 64)
	if err != nil || price <= 0 {
		return types.MarketSnapshot{}, fmt.Errorf("%w: bad last price %q for %s", types.ErrDataUnavailable, s.LastPrice, symbol)
	}

	snap := types.MarketSnapshot{
		Symbol: symbol,
		Price:  price,
		Ts:     time.Now().Unix(),
	}
	// 24h stats are best effort; absent or unparsable values simply leave
	// the volatility contribution at zero.
	if v, err := strconv.ParseFloat(s.Volume, 64); err == nil {
		snap.Volume = v
	}
	if v, err := strconv.ParseFloat(s.HighPrice, 64); err == nil {
		snap.High24h = v
	}
	if v, err := strconv.ParseFloat(s.LowPrice, 64); err == nil {
		snap.Low24h = v
	}
	if v, err := strconv.ParseFloat(s.PriceChangePercent, 64); err == nil {
		snap.Change24h = v / 100
	}
	return snap, nil
}

func (b *Binance) RecentPrices(ctx context.Context, symbol string, n int) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	klines, err := b.api.NewKlinesService().
		Symbol(symbol).
		Interval("1m").
		Limit(n).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: klines for %s: %v", types.ErrDataUnavailable, symbol, err)
	}
	if len(klines) == 0 {
		return nil, fmt.Errorf("%w: no klines for %s", types.ErrDataUnavailable, symbol)
	}

	prices := make([]float64, 0, len(klines))
	for _, k := range klines {
		p, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			continue
		}
		prices = append(prices, p)
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: unparsable klines for %s", types.ErrDataUnavailable, symbol)
	}
	return prices, nil
}

package marketdata

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"predictive-trader/internal/logger"
	"predictive-trader/internal/types"
)

// Static is a deterministic synthetic source for DRY_RUN mode and tests.
// Each symbol walks a repeatable sine-plus-drift path seeded from its name,
// advancing one step per Snapshot call.
type Static struct {
	mu    sync.Mutex
	steps map[string]int
}

func NewStatic() *Static {
	return &Static{steps: make(map[string]int)}
}

func (s *Static) Start(ctx context.Context, symbols []string) error {
	logger.Info(ctx, "Market data source connected", "source", "static", "symbols", symbols)
	return nil
}

func (s *Static) Stop(ctx context.Context) {
	logger.Info(ctx, "Market data source stopped", "source", "static")
}

func (s *Static) Snapshot(ctx context.Context, symbol string) (types.MarketSnapshot, error) {
	s.mu.Lock()
	step := s.steps[symbol]
	s.steps[symbol] = step + 1
	s.mu.Unlock()

	price := s.priceAt(symbol, step)
	high := price * 1.02
	low := price * 0.98

	return types.MarketSnapshot{
		Symbol:    symbol,
		Price:     price,
		Volume:    1000 + 50*float64(step%20),
		Ts:        time.Now().Unix(),
		High24h:   high,
		Low24h:    low,
		Change24h: (price - s.priceAt(symbol, step-24)) / s.priceAt(symbol, step-24),
	}, nil
}

func (s *Static) RecentPrices(ctx context.Context, symbol string, n int) ([]float64, error) {
	s.mu.Lock()
	step := s.steps[symbol]
	s.mu.Unlock()

	prices := make([]float64, n)
	for i := 0; i < n; i++ {
		prices[i] = s.priceAt(symbol, step-n+i)
	}
	return prices, nil
}

func (s *Static) priceAt(symbol string, step int) float64 {
	base := basePrice(symbol)
	drift := 1 + 0.0005*float64(step)
	cycle := 1 + 0.015*math.Sin(float64(step)/7)
	return base * drift * cycle
}

func basePrice(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	// spread symbols over a 100..10100 price range
	return 100 + float64(h.Sum32()%10000)
}

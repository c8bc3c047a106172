package predictor

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/stat"

	"predictive-trader/internal/logger"
	"predictive-trader/internal/types"
)

// Local is an in-process price predictor. It fits a least-squares trend
// over a fixed window of recent prices and extrapolates one step ahead.
// Each symbol keeps a bounded ring of observed prices used both as a
// fallback sequence and as the incremental-training corpus.
type Local struct {
	window   int
	capacity int

	mu      sync.RWMutex
	history map[string]*ring
	damping map[string]float64

	// training holds the single-slot guard: a concurrent Train call
	// while one is in flight must no-op rather than race.
	training sync.Mutex
}

const defaultDamping = 0.5

func NewLocal(window, capacity int) *Local {
	if capacity < window {
		capacity = window
	}
	return &Local{
		window:   window,
		capacity: capacity,
		history:  make(map[string]*ring),
		damping:  make(map[string]float64),
	}
}

// Predict forecasts the next price for symbol from the given sequence,
// oldest first. Sequences shorter than the window are padded by repeating
// the earliest known value. Returns types.ErrModelNotReady when neither
// the caller nor the internal history can supply any prices.
func (l *Local) Predict(ctx context.Context, symbol string, prices []float64) (float64, error) {
	seq := prices
	if len(seq) == 0 {
		l.mu.RLock()
		if r, ok := l.history[symbol]; ok {
			seq = r.slice()
		}
		l.mu.RUnlock()
	}
	if len(seq) == 0 {
		return 0, fmt.Errorf("%w: no prices observed for %s", types.ErrModelNotReady, symbol)
	}

	window := l.pad(seq)

	xs := make([]float64, len(window))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, window, nil, false)

	last := window[len(window)-1]
	raw := alpha + beta*float64(len(window))

	l.mu.RLock()
	damping, ok := l.damping[symbol]
	l.mu.RUnlock()
	if !ok {
		damping = defaultDamping
	}

	// Temper the extrapolation toward the last price; full trend
	// projection overshoots badly on noisy sequences.
	predicted := last + (raw-last)*damping
	if predicted <= 0 {
		predicted = last
	}

	logger.Debug(ctx, "Price forecast produced",
		"symbol", symbol,
		"last", last,
		"raw", raw,
		"damping", damping,
		"predicted", predicted,
	)
	return predicted, nil
}

// Train folds new observations into the per-symbol history and refits the
// damping coefficient from recent one-step forecast errors. While a pass
// is running, concurrent calls return immediately without touching state.
func (l *Local) Train(ctx context.Context, symbol string, prices []float64) error {
	if !l.training.TryLock() {
		logger.Debug(ctx, "Training already in progress, skipping", "symbol", symbol)
		return nil
	}
	defer l.training.Unlock()

	l.mu.Lock()
	r, ok := l.history[symbol]
	if !ok {
		r = newRing(l.capacity)
		l.history[symbol] = r
	}
	for _, p := range prices {
		r.push(p)
	}
	seq := r.slice()
	l.mu.Unlock()

	if len(seq) < 3 {
		return nil
	}

	// Walk the history comparing the trend projection at each step with
	// the realized price; shrink damping when projections overshoot.
	var projErr, naiveErr float64
	for i := 2; i < len(seq); i++ {
		xs := make([]float64, i)
		for j := range xs {
			xs[j] = float64(j)
		}
		alpha, beta := stat.LinearRegression(xs, seq[:i], nil, false)
		proj := alpha + beta*float64(i)
		projErr += abs(proj - seq[i])
		naiveErr += abs(seq[i-1] - seq[i])
	}

	damping := defaultDamping
	if projErr > 0 {
		damping = naiveErr / (naiveErr + projErr)
	}
	if damping < 0.1 {
		damping = 0.1
	}
	if damping > 0.9 {
		damping = 0.9
	}

	l.mu.Lock()
	l.damping[symbol] = damping
	l.mu.Unlock()

	logger.Debug(ctx, "Predictor trained",
		"symbol", symbol,
		"samples", len(seq),
		"damping", damping,
	)
	return nil
}

// pad repeats the earliest known value until the sequence fills the window.
func (l *Local) pad(seq []float64) []float64 {
	if len(seq) >= l.window {
		return seq[len(seq)-l.window:]
	}
	out := make([]float64, l.window)
	fill := l.window - len(seq)
	for i := 0; i < fill; i++ {
		out[i] = seq[0]
	}
	copy(out[fill:], seq)
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

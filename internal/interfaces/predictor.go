package interfaces

import "context"

// Predictor produces a price forecast from the most recent prices, oldest
// first. Implementations pad short sequences by repeating the earliest
// known value and return types.ErrModelNotReady before warmup.
type Predictor interface {
	Predict(ctx context.Context, symbol string, prices []float64) (float64, error)
	// Train folds new observations into the model. Concurrent calls while
	// a training pass is in flight must no-op, not race.
	Train(ctx context.Context, symbol string, prices []float64) error
}

package predictorobs

import (
	"context"

	"predictive-trader/internal/interfaces"
	"predictive-trader/internal/logger"
	"predictive-trader/internal/trace"
)

// observablePredictor wraps a Predictor with observability (logging & tracing)
type observablePredictor struct {
	predictor interfaces.Predictor
}

var _ interfaces.Predictor = (*observablePredictor)(nil)

// Wrap wraps a predictor with observability middleware
func Wrap(p interfaces.Predictor) interfaces.Predictor {
	return &observablePredictor{predictor: p}
}

func (op *observablePredictor) Predict(ctx context.Context, symbol string, prices []float64) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "predictor.Predict")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting price forecast", "symbol", symbol, "sequence_len", len(prices))

	predicted, err := op.predictor.Predict(ctx, symbol, prices)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Price forecast failed", err, "symbol", symbol)
		return 0, err
	}

	logger.DebugSkip(ctx, 1, "Price forecast produced", "symbol", symbol, "predicted", predicted)
	return predicted, nil
}

func (op *observablePredictor) Train(ctx context.Context, symbol string, prices []float64) error {
	ctx, span := trace.StartSpan(ctx, "predictor.Train")
	defer span.End()

	err := op.predictor.Train(ctx, symbol, prices)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Predictor training failed", err, "symbol", symbol)
		return err
	}
	return nil
}

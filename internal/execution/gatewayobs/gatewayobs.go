package gatewayobs

import (
	"context"

	"predictive-trader/internal/interfaces"
	"predictive-trader/internal/logger"
	"predictive-trader/internal/trace"
	"predictive-trader/internal/types"
)

// observableGateway wraps an ExecutionGateway with observability (logging & tracing)
type observableGateway struct {
	gateway interfaces.ExecutionGateway
}

var _ interfaces.ExecutionGateway = (*observableGateway)(nil)

// Wrap wraps a gateway with observability middleware
func Wrap(gateway interfaces.ExecutionGateway) interfaces.ExecutionGateway {
	return &observableGateway{gateway: gateway}
}

func (og *observableGateway) ExecuteTrade(ctx context.Context, d types.TradingDecision) (bool, error) {
	ctx, span := trace.StartSpan(ctx, "gateway.ExecuteTrade")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Submitting trade",
		"symbol", d.Symbol,
		"action", d.Action,
		"amount", d.Amount,
		"decision_id", d.ID,
	)

	ok, err := og.gateway.ExecuteTrade(ctx, d)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Trade submission failed", err,
			"symbol", d.Symbol,
			"action", d.Action,
			"decision_id", d.ID,
		)
		return false, err
	}

	if !ok {
		logger.InfoSkip(ctx, 1, "Trade not filled",
			"symbol", d.Symbol,
			"action", d.Action,
			"decision_id", d.ID,
		)
	}
	return ok, nil
}

func (og *observableGateway) Portfolio(ctx context.Context) (types.PortfolioState, error) {
	ctx, span := trace.StartSpan(ctx, "gateway.Portfolio")
	defer span.End()

	state, err := og.gateway.Portfolio(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to read portfolio", err)
		return types.PortfolioState{}, err
	}

	logger.DebugSkip(ctx, 1, "Portfolio read", "balance", state.Balance, "positions", len(state.Positions))
	return state, nil
}

func (og *observableGateway) Ping(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "gateway.Ping")
	defer span.End()

	if err := og.gateway.Ping(ctx); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Gateway ping failed", err)
		return err
	}
	return nil
}

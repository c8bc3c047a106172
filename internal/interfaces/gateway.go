package interfaces

import (
	"context"

	"predictive-trader/internal/types"
)

// ExecutionGateway settles BUY/SELL decisions. ExecuteTrade returns
// (false, nil) for handled execution failures; errors are reserved for
// connectivity loss. The gateway owns all PortfolioState mutation.
type ExecutionGateway interface {
	ExecuteTrade(ctx context.Context, decision types.TradingDecision) (bool, error)
	Portfolio(ctx context.Context) (types.PortfolioState, error)
	Ping(ctx context.Context) error
}

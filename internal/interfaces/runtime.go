package interfaces

import (
	"context"

	"predictive-trader/internal/types"
)

// Runtime is the agent lifecycle: Created -> Initialized -> Running ->
// Stopped. Stop drains the in-flight tick and is idempotent.
type Runtime interface {
	Initialize(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context)
	Step(ctx context.Context, symbol string, portfolio types.PortfolioState) (*types.TickResult, error)
}

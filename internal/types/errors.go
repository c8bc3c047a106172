package types

import (
	"errors"
	"fmt"
)

// Recoverable failure classes. The runtime matches these with errors.Is and
// degrades instead of terminating.
var (
	// ErrDataUnavailable means the market data source has no recent data
	// for a symbol; the symbol is skipped for the current tick only.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrModelNotReady means the predictor has not warmed up yet; the
	// cycle degrades to a low-confidence HOLD.
	ErrModelNotReady = errors.New("prediction model not ready")

	// ErrGatewayUnreachable means the execution gateway could not be
	// reached at all, as opposed to a handled execution failure.
	ErrGatewayUnreachable = errors.New("execution gateway unreachable")
)

// ConfigError reports an invalid agent configuration. It is fatal at
// construction; the agent must not start.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Reason)
}

// InitError reports an unreachable collaborator during initialization.
// It is fatal for startup and is not retried automatically.
type InitError struct {
	Collaborator string
	Err          error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Collaborator, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

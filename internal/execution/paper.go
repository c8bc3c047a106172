package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"predictive-trader/internal/logger"
	"predictive-trader/internal/types"
)

// Paper simulates settlement for DRY_RUN mode. It owns the portfolio state
// and mutates it under a lock, so a tick reading Portfolio always sees a
// consistent snapshot.
type Paper struct {
	mu         sync.Mutex
	balance    float64
	positions  map[string]types.Position
	mevProtect bool
}

func NewPaper(startingBalance float64, mevProtect bool) *Paper {
	return &Paper{
		balance:    startingBalance,
		positions:  make(map[string]types.Position),
		mevProtect: mevProtect,
	}
}

func (p *Paper) Ping(ctx context.Context) error { return nil }

func (p *Paper) Portfolio(ctx context.Context) (types.PortfolioState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	positions := make(map[string]types.Position, len(p.positions))
	for sym, pos := range p.positions {
		positions[sym] = pos
	}
	return types.PortfolioState{Balance: p.balance, Positions: positions}, nil
}

func (p *Paper) ExecuteTrade(ctx context.Context, d types.TradingDecision) (bool, error) {
	if d.Action != types.ActionBuy && d.Action != types.ActionSell {
		return false, fmt.Errorf("unsupported action %q", d.Action)
	}
	if d.Price <= 0 || d.Amount <= 0 {
		return false, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	orderID := uuid.NewString()

	switch d.Action {
	case types.ActionBuy:
		if d.Amount > p.balance {
			logger.Risk(ctx, d.Symbol, "INSUFFICIENT_BALANCE",
				"amount", d.Amount,
				"balance", p.balance,
			)
			return false, nil
		}
		p.balance -= d.Amount
		pos := p.positions[d.Symbol]
		pos.Amount += d.Amount / d.Price
		pos.Value += d.Amount
		p.positions[d.Symbol] = pos

	case types.ActionSell:
		pos, ok := p.positions[d.Symbol]
		if !ok || pos.Value <= 0 {
			logger.Risk(ctx, d.Symbol, "NO_POSITION_TO_SELL", "amount", d.Amount)
			return false, nil
		}
		sellValue := d.Amount
		if sellValue > pos.Value {
			sellValue = pos.Value
		}
		fraction := sellValue / pos.Value
		pos.Amount -= pos.Amount * fraction
		pos.Value -= sellValue
		p.balance += sellValue
		if pos.Value <= 0 {
			delete(p.positions, d.Symbol)
		} else {
			p.positions[d.Symbol] = pos
		}
	}

	logger.Trade(ctx, d.Symbol, string(d.Action), d.Amount, d.Price, orderID,
		"mode", "paper",
		"mev_protect", p.mevProtect,
	)
	return true, nil
}

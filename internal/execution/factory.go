package execution

import (
	"os"

	"predictive-trader/internal/config"
	"predictive-trader/internal/interfaces"
)

// New builds the execution gateway selected by the config. DRY_RUN settles
// against the in-process paper portfolio.
func New(cfg *config.Config) interfaces.ExecutionGateway {
	if cfg.Mode == "LIVE" {
		return NewBinance(BinanceParams{
			APIKey:     os.Getenv("BINANCE_API_KEY"),
			APISecret:  os.Getenv("BINANCE_API_SECRET"),
			MEVProtect: cfg.Execution.MEVProtect,
		})
	}
	return NewPaper(cfg.Paper.StartingBalance, cfg.Execution.MEVProtect)
}

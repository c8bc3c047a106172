package marketdata

import (
	"os"

	"predictive-trader/internal/config"
	"predictive-trader/internal/interfaces"
)

// New builds the market data source selected by the config.
func New(cfg *config.Config) interfaces.MarketDataSource {
	if cfg.DataSource == "LIVE" {
		return NewBinance(BinanceParams{
			APIKey:    os.Getenv("BINANCE_API_KEY"),
			APISecret: os.Getenv("BINANCE_API_SECRET"),
		})
	}
	return NewStatic()
}

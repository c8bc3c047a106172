package execution

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"

	"predictive-trader/internal/logger"
	"predictive-trader/internal/types"
)

// Binance settles trades as market orders quoted in the balance currency.
// Exchange rejections (lot size, insufficient funds) are handled failures;
// transport errors surface as ErrGatewayUnreachable.
type Binance struct {
	api        *binance.Client
	quoteAsset string
	mevProtect bool
	timeout    time.Duration
}

type BinanceParams struct {
	APIKey     string
	APISecret  string
	QuoteAsset string
	MEVProtect bool
	Timeout    time.Duration
}

func NewBinance(p BinanceParams) *Binance {
	if p.QuoteAsset == "" {
		p.QuoteAsset = "USDT"
	}
	if p.Timeout == 0 {
		p.Timeout = 15 * time.Second
	}
	return &Binance{
		api:        binance.NewClient(p.APIKey, p.APISecret),
		quoteAsset: p.QuoteAsset,
		mevProtect: p.MEVProtect,
		timeout:    p.Timeout,
	}
}

func (b *Binance) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.api.NewPingService().Do(ctx); err != nil {
		return fmt.Errorf("%w: %v", types.ErrGatewayUnreachable, err)
	}
	return nil
}

func (b *Binance) ExecuteTrade(ctx context.Context, d types.TradingDecision) (bool, error) {
	if d.Action != types.ActionBuy && d.Action != types.ActionSell {
		return false, fmt.Errorf("unsupported action %q", d.Action)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	side := binance.SideTypeBuy
	if d.Action == types.ActionSell {
		side = binance.SideTypeSell
	}

	// The MEV flag rides along in the client order id for the settlement
	// layer to pick up; this core does not analyze it.
	orderID := d.ID
	if b.mevProtect {
		orderID = "mev-" + d.ID
	}

	resp, err := b.api.NewCreateOrderService().
		Symbol(d.Symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		QuoteOrderQty(strconv.FormatFloat(d.Amount, 'f', 2, 64)).
		NewClientOrderID(orderID).
		Do(ctx)
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) {
			// exchange accepted the request and rejected the order
			logger.ErrorWithErr(ctx, "Order rejected by exchange", err,
				"symbol", d.Symbol,
				"side", side,
				"amount", d.Amount,
			)
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", types.ErrGatewayUnreachable, err)
	}

	logger.Trade(ctx, d.Symbol, string(d.Action), d.Amount, d.Price, resp.ClientOrderID,
		"mode", "live",
		"status", string(resp.Status),
		"mev_protect", b.mevProtect,
	)
	return true, nil
}

func (b *Binance) Portfolio(ctx context.Context) (types.PortfolioState, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	account, err := b.api.NewGetAccountService().Do(ctx)
	if err != nil {
		return types.PortfolioState{}, fmt.Errorf("%w: account: %v", types.ErrGatewayUnreachable, err)
	}

	prices, err := b.api.NewListPricesService().Do(ctx)
	if err != nil {
		return types.PortfolioState{}, fmt.Errorf("%w: prices: %v", types.ErrGatewayUnreachable, err)
	}
	priceBySymbol := make(map[string]float64, len(prices))
	for _, p := range prices {
		if v, err := strconv.ParseFloat(p.Price, 64); err == nil {
			priceBySymbol[p.Symbol] = v
		}
	}

	state := types.PortfolioState{Positions: make(map[string]types.Position)}
	for _, bal := range account.Balances {
		free, err := strconv.ParseFloat(bal.Free, 64)
		if err != nil || free == 0 {
			continue
		}
		if strings.EqualFold(bal.Asset, b.quoteAsset) {
			state.Balance = free
			continue
		}
		symbol := bal.Asset + b.quoteAsset
		state.Positions[symbol] = types.Position{
			Amount: free,
			Value:  free * priceBySymbol[symbol],
		}
	}
	return state, nil
}

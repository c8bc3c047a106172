package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"predictive-trader/internal/config"
	"predictive-trader/internal/interfaces"
	"predictive-trader/internal/logger"
	"predictive-trader/internal/metrics"
	"predictive-trader/internal/news"
	"predictive-trader/internal/strategy"
	"predictive-trader/internal/trace"
	"predictive-trader/internal/tradelog"
	"predictive-trader/internal/types"
)

// degradedConfidence is attached to the HOLD produced when the predictor
// fails, so the audit trail never shows a confident no-signal decision.
const degradedConfidence = 0.1

// Runtime drives the per-symbol decision loop. One tick is a sequential
// pass over the configured symbols in config order; a symbol's failure is
// logged and never aborts its siblings.
type Runtime struct {
	cfg       *config.Config
	market    interfaces.MarketDataSource
	predictor interfaces.Predictor
	gateway   interfaces.ExecutionGateway
	sentiment *news.Service
	metrics   *metrics.Prometheus

	mu       sync.Mutex
	state    State
	stopOnce sync.Once
	stopc    chan struct{}
	donec    chan struct{}
}

type Params struct {
	Config    *config.Config
	Market    interfaces.MarketDataSource
	Predictor interfaces.Predictor
	Gateway   interfaces.ExecutionGateway
	Sentiment *news.Service       // optional
	Metrics   *metrics.Prometheus // optional
}

func New(p Params) *Runtime {
	return &Runtime{
		cfg:       p.Config,
		market:    p.Market,
		predictor: p.Predictor,
		gateway:   p.Gateway,
		sentiment: p.Sentiment,
		metrics:   p.Metrics,
		state:     StateCreated,
	}
}

// State returns the current lifecycle state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Initialize validates the configuration and establishes connections to
// the collaborators. Idempotent; fails with *types.InitError when a
// collaborator is unreachable.
func (r *Runtime) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateInitialized, StateRunning:
		return nil
	case StateStopped:
		return errors.New("runtime is stopped")
	}

	if err := r.cfg.Validate(); err != nil {
		return err
	}

	if err := r.connect(ctx, "market data source", func() error {
		return r.market.Start(ctx, r.cfg.Symbols)
	}); err != nil {
		return err
	}
	if err := r.connect(ctx, "execution gateway", func() error {
		return r.gateway.Ping(ctx)
	}); err != nil {
		r.market.Stop(ctx)
		return err
	}

	r.warmupPredictor(ctx)

	r.state = StateInitialized
	logger.Info(ctx, "Agent initialized",
		"agent", r.cfg.Agent.Name,
		"symbols", r.cfg.Symbols,
		"tick_interval", r.cfg.TickInterval().String(),
	)
	return nil
}

// connect retries a collaborator connection briefly before giving up.
func (r *Runtime) connect(ctx context.Context, name string, dial func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(dial, backoff.WithContext(bo, ctx)); err != nil {
		return &types.InitError{Collaborator: name, Err: err}
	}
	return nil
}

// warmupPredictor seeds the model with recent history. Best effort: a
// cold predictor degrades to HOLD decisions, it does not block startup.
func (r *Runtime) warmupPredictor(ctx context.Context) {
	for _, symbol := range r.cfg.Symbols {
		prices, err := r.market.RecentPrices(ctx, symbol, r.cfg.Predictor.Window)
		if err != nil {
			logger.Warn(ctx, "Predictor warmup skipped", "symbol", symbol, "error", err)
			continue
		}
		if err := r.predictor.Train(ctx, symbol, prices); err != nil {
			logger.Warn(ctx, "Predictor warmup training failed", "symbol", symbol, "error", err)
		}
	}
}

// Start begins the tick loop. Requires Initialized; calling Start on a
// running agent is a no-op.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateRunning:
		return nil
	case StateInitialized:
	default:
		return fmt.Errorf("cannot start agent in state %s", r.state)
	}

	r.stopc = make(chan struct{})
	r.donec = make(chan struct{})
	r.state = StateRunning

	go r.run(ctx)

	logger.Info(ctx, "Agent started", "agent", r.cfg.Agent.Name)
	return nil
}

// Stop requests shutdown and waits for the in-flight tick to drain. The
// current symbol's execution call is allowed to complete; no new tick
// starts afterwards. Idempotent.
func (r *Runtime) Stop(ctx context.Context) {
	r.mu.Lock()
	if r.state != StateRunning {
		if r.state != StateStopped {
			r.state = StateStopped
		}
		r.mu.Unlock()
		return
	}
	stopc, donec := r.stopc, r.donec
	r.mu.Unlock()

	r.stopOnce.Do(func() { close(stopc) })
	<-donec

	r.mu.Lock()
	r.state = StateStopped
	r.mu.Unlock()

	r.market.Stop(ctx)
	logger.Info(ctx, "Agent stopped", "agent", r.cfg.Agent.Name)
}

func (r *Runtime) run(ctx context.Context) {
	defer close(r.donec)

	tick := r.cfg.TickInterval()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Duration(r.cfg.Backoff.InitialMultiplier * float64(tick))
	bo.MaxInterval = time.Duration(r.cfg.Backoff.MaxMultiplier * float64(tick))
	bo.MaxElapsedTime = 0
	bo.Reset()

	for {
		systemic := r.runTick(ctx)

		delay := tick
		if systemic {
			delay = bo.NextBackOff()
			if r.metrics != nil {
				r.metrics.Backoffs.Inc()
			}
			logger.Warn(ctx, "All symbols failed to fetch data, backing off",
				"agent", r.cfg.Agent.Name,
				"delay", delay.String(),
			)
		} else {
			bo.Reset()
		}

		timer := time.NewTimer(delay)
		select {
		case <-r.stopc:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// runTick processes every configured symbol once. Returns true when every
// symbol failed with DataUnavailable, the systemic-outage signal.
func (r *Runtime) runTick(ctx context.Context) bool {
	ctx, span := trace.StartSpan(ctx, "agent.Tick")
	defer span.End()

	portfolio, err := r.gateway.Portfolio(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Portfolio read failed, skipping tick", err)
		return false
	}
	if r.metrics != nil {
		r.metrics.Balance.Set(portfolio.Balance)
	}

	dataFailures := 0
	for _, symbol := range r.cfg.Symbols {
		select {
		case <-r.stopc:
			return false
		case <-ctx.Done():
			return false
		default:
		}

		if r.stepIsolated(ctx, symbol, portfolio) {
			dataFailures++
		}
	}

	return len(r.cfg.Symbols) > 0 && dataFailures == len(r.cfg.Symbols)
}

// stepIsolated runs one symbol's cycle, containing both errors and panics
// so sibling symbols always get their turn. Returns true on a data miss.
func (r *Runtime) stepIsolated(ctx context.Context, symbol string, portfolio types.PortfolioState) (dataMiss bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx, "Panic in symbol processing", "symbol", symbol, "panic", fmt.Sprint(rec))
			if r.metrics != nil {
				r.metrics.TickErrors.WithLabelValues(symbol, "panic").Inc()
			}
		}
	}()

	_, err := r.Step(ctx, symbol, portfolio)
	if err != nil {
		if errors.Is(err, types.ErrDataUnavailable) {
			logger.Warn(ctx, "Symbol skipped, no market data", "symbol", symbol, "error", err)
			if r.metrics != nil {
				r.metrics.TickErrors.WithLabelValues(symbol, "data_unavailable").Inc()
			}
			return true
		}
		logger.ErrorWithErr(ctx, "Symbol processing failed", err, "symbol", symbol)
		if r.metrics != nil {
			r.metrics.TickErrors.WithLabelValues(symbol, "error").Inc()
		}
	}
	return false
}

// Step runs one full decision cycle for a symbol against the tick's
// portfolio snapshot.
func (r *Runtime) Step(ctx context.Context, symbol string, portfolio types.PortfolioState) (*types.TickResult, error) {
	ctx, span := trace.StartSpan(ctx, "agent.Step")
	defer span.End()

	snap, err := r.market.Snapshot(ctx, symbol)
	if err != nil {
		return nil, err
	}

	prices, err := r.market.RecentPrices(ctx, symbol, r.cfg.Predictor.Window)
	if err != nil {
		// the predictor can still fall back to its own history
		logger.Debug(ctx, "Recent prices unavailable", "symbol", symbol, "error", err)
		prices = nil
	}

	var decision types.TradingDecision
	predicted, err := r.predictor.Predict(ctx, symbol, prices)
	if err != nil {
		decision = r.degradedHold(snap, err)
	} else {
		confidence := strategy.Score(snap, predicted)
		decision = strategy.Decide(snap, predicted, confidence, r.cfg)
		decision = r.applySentiment(ctx, decision)
	}

	result := &types.TickResult{Symbol: symbol, Reason: decision.Reason}

	if decision.Action != types.ActionHold {
		amount, err := strategy.Size(portfolio.Balance, decision.Confidence, r.cfg)
		if err != nil {
			return nil, err
		}
		decision.Amount = amount
	}

	logger.Decision(ctx, symbol, string(decision.Action), decision.Confidence, decision.Reason,
		"price", decision.Price,
		"predicted_price", decision.PredictedPrice,
		"amount", decision.Amount,
	)
	if r.metrics != nil {
		r.metrics.Decisions.WithLabelValues(symbol, string(decision.Action)).Inc()
	}

	if decision.Action != types.ActionHold && decision.Amount > 0 {
		executed, execErr := r.gateway.ExecuteTrade(ctx, decision)
		result.Executed = executed
		if execErr != nil {
			// no retry within the tick; the next tick re-evaluates fresh
			logger.ErrorWithErr(ctx, "Trade execution failed", execErr,
				"symbol", symbol,
				"decision_id", decision.ID,
			)
			result.Reason += " | execution error: " + execErr.Error()
		}
		outcome := "rejected"
		if executed {
			outcome = "filled"
		} else if execErr != nil {
			outcome = "error"
		}
		if r.metrics != nil {
			r.metrics.Trades.WithLabelValues(symbol, string(decision.Action), outcome).Inc()
		}
		_ = tradelog.Append(tradelog.Entry{
			Symbol:     symbol,
			Side:       string(decision.Action),
			Amount:     decision.Amount,
			Price:      decision.Price,
			Confidence: decision.Confidence,
			DecisionID: decision.ID,
			Executed:   executed,
			Reason:     decision.Reason,
		})
	}

	_ = tradelog.AppendDecision(tradelog.DecisionEntry{
		Symbol:         symbol,
		Action:         string(decision.Action),
		Confidence:     decision.Confidence,
		Price:          decision.Price,
		PredictedPrice: decision.PredictedPrice,
		Amount:         decision.Amount,
		Reason:         decision.Reason,
		DecisionID:     decision.ID,
	})

	// fold this tick's price into the model; a busy training slot no-ops
	if trainErr := r.predictor.Train(ctx, symbol, []float64{snap.Price}); trainErr != nil {
		logger.Warn(ctx, "Incremental training failed", "symbol", symbol, "error", trainErr)
	}

	result.Decision = decision
	return result, nil
}

// degradedHold is the decision recorded when no forecast is available.
func (r *Runtime) degradedHold(snap types.MarketSnapshot, cause error) types.TradingDecision {
	return types.TradingDecision{
		ID:         uuid.NewString(),
		Symbol:     snap.Symbol,
		Action:     types.ActionHold,
		Confidence: degradedConfidence,
		Reason:     "prediction unavailable: " + cause.Error(),
		Price:      snap.Price,
		Ts:         time.Now().Unix(),
	}
}

// applySentiment downgrades a BUY to HOLD when news sentiment for the
// symbol is strongly negative. Advisory only; SELLs pass through.
func (r *Runtime) applySentiment(ctx context.Context, d types.TradingDecision) types.TradingDecision {
	if r.sentiment == nil || d.Action != types.ActionBuy {
		return d
	}

	s, err := r.sentiment.GetSentiment(ctx, d.Symbol)
	if err != nil || s.Score >= -0.5 {
		return d
	}

	logger.Risk(ctx, d.Symbol, "BUY_BLOCKED_NEGATIVE_NEWS",
		"sentiment_score", s.Score,
		"articles", s.ArticleCount,
	)
	d.Action = types.ActionHold
	d.Amount = 0
	d.Reason = fmt.Sprintf("buy blocked by negative news sentiment (%.2f): %s", s.Score, d.Reason)
	return d
}

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"predictive-trader/internal/logger"
)

// Prometheus holds the agent's trading counters.
type Prometheus struct {
	registry   *prometheus.Registry
	Decisions  *prometheus.CounterVec
	Trades     *prometheus.CounterVec
	TickErrors *prometheus.CounterVec
	Backoffs   prometheus.Counter
	Balance    prometheus.Gauge
}

func NewPrometheusMetrics() *Prometheus {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trader",
			Name:      "decisions_total",
			Help:      "Trading decisions by symbol and action.",
		}, []string{"symbol", "action"}),
		Trades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trader",
			Name:      "trades_total",
			Help:      "Executed trades by symbol, side and outcome.",
		}, []string{"symbol", "side", "outcome"}),
		TickErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trader",
			Name:      "tick_errors_total",
			Help:      "Per-symbol tick failures by kind.",
		}, []string{"symbol", "kind"}),
		Backoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trader",
			Name:      "systemic_backoffs_total",
			Help:      "Ticks delayed because all symbols failed to fetch data.",
		}),
		Balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trader",
			Name:      "balance",
			Help:      "Portfolio balance in quote currency.",
		}),
	}
	m.registry.MustRegister(m.Decisions, m.Trades, m.TickErrors, m.Backoffs, m.Balance)
	return m
}

// Serve exposes /metrics on the given port in the background.
func (m *Prometheus) Serve(ctx context.Context, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorWithErr(ctx, "Metrics server stopped", err, "port", port)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Metrics server listening", "port", port)
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"predictive-trader/internal/config"
	"predictive-trader/internal/execution"
	"predictive-trader/internal/execution/gatewayobs"
	"predictive-trader/internal/interfaces"
	"predictive-trader/internal/logger"
	"predictive-trader/internal/marketdata"
	"predictive-trader/internal/marketdata/marketobs"
	"predictive-trader/internal/metrics"
	"predictive-trader/internal/news"
	"predictive-trader/internal/predictor"
	"predictive-trader/internal/predictor/predictorobs"
	"predictive-trader/internal/trace"
	"predictive-trader/internal/tradelog"

	"github.com/joho/godotenv"
)

// initializeSystem initializes the logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old tradelog files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeMarketData initializes the market data source with observability
func initializeMarketData(ctx context.Context, cfg *config.Config) interfaces.MarketDataSource {
	src := marketdata.New(cfg)

	if cfg.DataSource == "LIVE" {
		logger.Info(ctx, "Using LIVE market data from Binance")
	} else {
		logger.Info(ctx, "Using STATIC deterministic market data for testing")
	}

	// Wrap with observability middleware
	return marketobs.Wrap(src)
}

// initializePredictor initializes the local price predictor with observability
func initializePredictor(cfg *config.Config) interfaces.Predictor {
	p := predictor.NewLocal(cfg.Predictor.Window, cfg.Predictor.History)

	// Wrap with observability middleware
	return predictorobs.Wrap(p)
}

// initializeGateway initializes the execution gateway with observability
func initializeGateway(ctx context.Context, cfg *config.Config) interfaces.ExecutionGateway {
	gw := execution.New(cfg)

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders settle against the paper portfolio")
	}
	if cfg.Execution.MEVProtect {
		logger.Info(ctx, "MEV protection enabled for order routing")
	}

	// Wrap with observability middleware
	return gatewayobs.Wrap(gw)
}

// initializeNews initializes the news sentiment service when enabled
func initializeNews(ctx context.Context, cfg *config.Config) *news.Service {
	if !cfg.News.Enabled {
		logger.Info(ctx, "News sentiment analysis disabled in config")
		return nil
	}

	logger.Info(ctx, "News sentiment analysis enabled",
		"max_articles", cfg.News.MaxArticles,
		"cache_minutes", cfg.News.CacheMinutes,
	)
	return news.NewService(&news.ServiceConfig{
		Enabled:        true,
		MaxArticles:    cfg.News.MaxArticles,
		CacheDuration:  time.Duration(cfg.News.CacheMinutes) * time.Minute,
		ScraperTimeout: 15 * time.Second,
	})
}

// initializeMetrics starts the Prometheus endpoint when enabled
func initializeMetrics(ctx context.Context, cfg *config.Config) *metrics.Prometheus {
	if !cfg.Metrics.Enabled {
		return nil
	}

	m := metrics.NewPrometheusMetrics()
	m.Serve(ctx, cfg.Metrics.Port)
	return m
}

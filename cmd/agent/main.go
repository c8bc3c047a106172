package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"predictive-trader/internal/agent"
	"predictive-trader/internal/logger"
	"predictive-trader/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx, *configPath)
	must(err)

	compressOldLogs(ctx)

	market := initializeMarketData(ctx, cfg)
	gateway := initializeGateway(ctx, cfg)
	sentiment := initializeNews(ctx, cfg)
	prom := initializeMetrics(ctx, cfg)

	runtime := agent.New(agent.Params{
		Config:    cfg,
		Market:    market,
		Predictor: initializePredictor(cfg),
		Gateway:   gateway,
		Sentiment: sentiment,
		Metrics:   prom,
	})

	must(runtime.Initialize(ctx))
	must(runtime.Start(ctx))

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	logger.Info(ctx, "Shutdown signal received, draining current tick")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	runtime.Stop(stopCtx)

	_ = trace.Shutdown(stopCtx)
}

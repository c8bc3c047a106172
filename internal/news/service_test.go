package news

import (
	"context"
	"testing"
	"time"
)

func TestSentimentCache(t *testing.T) {
	cache := newSentimentCache(100 * time.Millisecond)

	symbol := "BTCUSDT"
	sentiment := Sentiment{
		Symbol:    symbol,
		Overall:   "POSITIVE",
		Score:     0.8,
		Timestamp: time.Now().Unix(),
	}

	cache.set(symbol, sentiment)

	retrieved, found := cache.get(symbol)
	if !found {
		t.Fatal("Expected to find cached sentiment")
	}
	if retrieved.Symbol != symbol {
		t.Errorf("Expected symbol %s, got %s", symbol, retrieved.Symbol)
	}
	if retrieved.Score != 0.8 {
		t.Errorf("Expected score 0.8, got %f", retrieved.Score)
	}

	time.Sleep(200 * time.Millisecond)
	if _, found = cache.get(symbol); found {
		t.Error("Expected cache entry to be expired")
	}
}

func TestCacheCleanup(t *testing.T) {
	cache := newSentimentCache(50 * time.Millisecond)

	for _, sym := range []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"} {
		cache.set(sym, Sentiment{Symbol: sym, Timestamp: time.Now().Unix()})
	}

	time.Sleep(100 * time.Millisecond)
	cache.cleanup()

	cache.mu.RLock()
	count := len(cache.data)
	cache.mu.RUnlock()
	if count != 0 {
		t.Errorf("Expected 0 cache entries after cleanup, got %d", count)
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(&ServiceConfig{Enabled: false})

	sentiment, err := svc.GetSentiment(context.Background(), "BTCUSDT")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if sentiment.Overall != "NEUTRAL" {
		t.Errorf("Expected NEUTRAL sentiment when disabled, got %s", sentiment.Overall)
	}
}

func TestAnalyzerScoresHeadlines(t *testing.T) {
	a := NewAnalyzer()
	ctx := context.Background()

	positive := a.Analyze(ctx, "BTCUSDT", []Article{
		{Title: "Bitcoin surge continues as institutional inflow hits record"},
		{Title: "BTC rally extends after ETF approval"},
	})
	if positive.Overall != "POSITIVE" {
		t.Errorf("Expected POSITIVE, got %s (score %f)", positive.Overall, positive.Score)
	}

	negative := a.Analyze(ctx, "BTCUSDT", []Article{
		{Title: "Exchange hack triggers crash and mass liquidation"},
		{Title: "Bitcoin plunge deepens amid sell-off"},
	})
	if negative.Overall != "NEGATIVE" {
		t.Errorf("Expected NEGATIVE, got %s (score %f)", negative.Overall, negative.Score)
	}
}

func TestAnalyzerNeutralWithoutArticles(t *testing.T) {
	a := NewAnalyzer()

	s := a.Analyze(context.Background(), "BTCUSDT", nil)
	if s.Overall != "NEUTRAL" || s.Score != 0 {
		t.Errorf("Expected neutral empty sentiment, got %+v", s)
	}
}

func TestAnalyzerScoreBounded(t *testing.T) {
	a := NewAnalyzer()

	spam := Article{Title: "crash crash crash crash crash crash crash crash crash crash"}
	s := a.Analyze(context.Background(), "BTCUSDT", []Article{spam})
	if s.Score < -1 || s.Score > 1 {
		t.Errorf("Expected score within [-1,1], got %f", s.Score)
	}
}

func TestGetCachedSymbols(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	for _, sym := range []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"} {
		svc.cache.set(sym, Sentiment{Symbol: sym, Timestamp: time.Now().Unix()})
	}

	if got := len(svc.GetCachedSymbols()); got != 3 {
		t.Errorf("Expected 3 cached symbols, got %d", got)
	}

	svc.ClearCache()
	if got := len(svc.GetCachedSymbols()); got != 0 {
		t.Errorf("Expected 0 cached symbols after clear, got %d", got)
	}
}

func TestBaseAssetStripsQuote(t *testing.T) {
	cases := map[string]string{
		"BTCUSDT": "BTC",
		"ETHUSDC": "ETH",
		"SOLUSD":  "SOL",
		"DOGE":    "DOGE",
		"USDT":    "USDT", // nothing left after stripping, keep as-is
	}
	for in, want := range cases {
		if got := baseAsset(in); got != want {
			t.Errorf("baseAsset(%s) = %s, want %s", in, got, want)
		}
	}
}

package news

import (
	"context"
	"sync"
	"time"

	"predictive-trader/internal/logger"
)

// ServiceConfig controls the news sentiment service.
type ServiceConfig struct {
	Enabled        bool
	MaxArticles    int
	CacheDuration  time.Duration
	ScraperTimeout time.Duration
}

func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Enabled:        true,
		MaxArticles:    10,
		CacheDuration:  1 * time.Hour,
		ScraperTimeout: 15 * time.Second,
	}
}

// Service scrapes, scores and caches news sentiment per symbol.
type Service struct {
	scraper  *Scraper
	analyzer *Analyzer
	cache    *sentimentCache
	cfg      *ServiceConfig
}

func NewService(cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	return &Service{
		scraper:  NewScraper(cfg.ScraperTimeout),
		analyzer: NewAnalyzer(),
		cache:    newSentimentCache(cfg.CacheDuration),
		cfg:      cfg,
	}
}

// GetSentiment returns cached or freshly scraped sentiment. Scrape errors
// degrade to neutral rather than failing the caller's tick.
func (s *Service) GetSentiment(ctx context.Context, symbol string) (Sentiment, error) {
	if !s.cfg.Enabled {
		return Sentiment{
			Symbol:    symbol,
			Overall:   "NEUTRAL",
			Summary:   "sentiment analysis disabled",
			Timestamp: time.Now().Unix(),
		}, nil
	}

	if cached, ok := s.cache.get(symbol); ok {
		logger.Debug(ctx, "Using cached sentiment", "symbol", symbol,
			"age_minutes", time.Since(time.Unix(cached.Timestamp, 0)).Minutes())
		return cached, nil
	}

	articles, err := s.scraper.Scrape(ctx, symbol, s.cfg.MaxArticles)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to scrape news", err, "symbol", symbol)
		return Sentiment{
			Symbol:    symbol,
			Overall:   "NEUTRAL",
			Summary:   "scrape failed: " + err.Error(),
			Timestamp: time.Now().Unix(),
		}, nil
	}

	sentiment := s.analyzer.Analyze(ctx, symbol, articles)
	s.cache.set(symbol, sentiment)
	return sentiment, nil
}

// ClearCache removes all cached sentiment data
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}

// GetCachedSymbols returns the symbols with cached sentiment
func (s *Service) GetCachedSymbols() []string {
	s.cache.mu.RLock()
	defer s.cache.mu.RUnlock()

	symbols := make([]string, 0, len(s.cache.data))
	for symbol := range s.cache.data {
		symbols = append(symbols, symbol)
	}
	return symbols
}

type cacheEntry struct {
	sentiment Sentiment
	expires   time.Time
}

type sentimentCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]*cacheEntry
}

func newSentimentCache(ttl time.Duration) *sentimentCache {
	return &sentimentCache{
		ttl:  ttl,
		data: make(map[string]*cacheEntry),
	}
}

func (c *sentimentCache) get(symbol string) (Sentiment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[symbol]
	if !ok || time.Now().After(e.expires) {
		return Sentiment{}, false
	}
	return e.sentiment, true
}

func (c *sentimentCache) set(symbol string, s Sentiment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[symbol] = &cacheEntry{sentiment: s, expires: time.Now().Add(c.ttl)}
}

func (c *sentimentCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for symbol, e := range c.data {
		if now.After(e.expires) {
			delete(c.data, symbol)
		}
	}
}

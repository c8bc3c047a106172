package news

import (
	"context"
	"strconv"
	"strings"
	"time"

	"predictive-trader/internal/logger"
)

// Sentiment is the aggregate sentiment for one symbol.
type Sentiment struct {
	Symbol       string
	Overall      string // POSITIVE, NEGATIVE or NEUTRAL
	Score        float64 // [-1, 1]
	ArticleCount int
	Summary      string
	Timestamp    int64
}

// Analyzer scores articles with a keyword lexicon. It deliberately avoids
// any model call: headlines move fast and the lexicon is cheap enough to
// run on every tick.
type Analyzer struct {
	positive []string
	negative []string
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positive: []string{
			"surge", "rally", "soar", "bullish", "adoption", "breakout",
			"all-time high", "upgrade", "approval", "inflow", "partnership",
			"record", "gain", "institutional",
		},
		negative: []string{
			"crash", "plunge", "bearish", "hack", "exploit", "ban",
			"lawsuit", "sell-off", "selloff", "outflow", "liquidation",
			"fraud", "collapse", "downgrade", "delisting",
		},
	}
}

// Analyze aggregates keyword scores across articles.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, articles []Article) Sentiment {
	if len(articles) == 0 {
		return Sentiment{
			Symbol:    symbol,
			Overall:   "NEUTRAL",
			Summary:   "no articles found",
			Timestamp: time.Now().Unix(),
		}
	}

	var total float64
	for _, article := range articles {
		total += a.scoreArticle(article)
	}
	score := total / float64(len(articles))

	overall := "NEUTRAL"
	switch {
	case score > 0.2:
		overall = "POSITIVE"
	case score < -0.2:
		overall = "NEGATIVE"
	}

	logger.Debug(ctx, "News sentiment aggregated",
		"symbol", symbol,
		"articles", len(articles),
		"score", score,
		"overall", overall,
	)

	return Sentiment{
		Symbol:       symbol,
		Overall:      overall,
		Score:        score,
		ArticleCount: len(articles),
		Summary:      overall + " across " + strconv.Itoa(len(articles)) + " articles",
		Timestamp:    time.Now().Unix(),
	}
}

// scoreArticle returns a per-article score in [-1, 1]. Title hits weigh
// double: headline wording is the stronger signal.
func (a *Analyzer) scoreArticle(article Article) float64 {
	title := strings.ToLower(article.Title)
	body := strings.ToLower(article.Content)

	var score float64
	for _, w := range a.positive {
		score += 2 * float64(strings.Count(title, w))
		score += float64(strings.Count(body, w))
	}
	for _, w := range a.negative {
		score -= 2 * float64(strings.Count(title, w))
		score -= float64(strings.Count(body, w))
	}

	if score > 5 {
		score = 5
	}
	if score < -5 {
		score = -5
	}
	return score / 5
}

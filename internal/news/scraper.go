package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"predictive-trader/internal/logger"
)

// Article is one scraped headline with optional body text.
type Article struct {
	Title       string
	URL         string
	Content     string
	Source      string
	PublishedAt string
	Symbol      string
}

// Scraper pulls headlines from crypto news sources.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

// Source defines a news source configuration
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // e.g. "/search?q={symbol}"
	Selectors  Selectors
	RateLimit  time.Duration
}

// Selectors defines CSS selectors for extracting article data
type Selectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Content          string
	PublishedAt      string
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "CoinDesk",
			BaseURL:    "https://www.coindesk.com",
			SearchPath: "/search?s={symbol}",
			Selectors: Selectors{
				ArticleContainer: "div.article-card",
				Title:            "h2 a, h3 a",
				URL:              "h2 a, h3 a",
				Content:          "p",
				PublishedAt:      "time",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "CoinTelegraph",
			BaseURL:    "https://cointelegraph.com",
			SearchPath: "/search?query={symbol}",
			Selectors: Selectors{
				ArticleContainer: "article",
				Title:            "a span",
				URL:              "a",
				Content:          "p",
				PublishedAt:      "time",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Scrape fetches articles for a symbol from all configured sources. Base
// asset only: "BTCUSDT" searches for "BTC".
func (s *Scraper) Scrape(ctx context.Context, symbol string, maxArticles int) ([]Article, error) {
	query := baseAsset(symbol)
	logger.Debug(ctx, "Starting news scrape", "symbol", symbol, "query", query, "sources", len(s.sources))

	perSource := maxArticles / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	all := []Article{}
	for _, source := range s.sources {
		articles, err := s.scrapeSource(ctx, source, symbol, query, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "symbol", symbol)
			continue
		}
		all = append(all, articles...)
		time.Sleep(source.RateLimit)
	}

	logger.Debug(ctx, "News scrape completed", "symbol", symbol, "articles", len(all))
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source Source, symbol, query string, maxArticles int) ([]Article, error) {
	articles := []Article{}

	c := colly.NewCollector(
		colly.AllowedDomains(domainOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}
		articleURL := e.ChildAttr(source.Selectors.URL, "href")
		if articleURL == "" {
			return
		}
		if !strings.HasPrefix(articleURL, "http") {
			articleURL = source.BaseURL + articleURL
		}

		articles = append(articles, Article{
			Title:       title,
			URL:         articleURL,
			Content:     strings.TrimSpace(e.ChildText(source.Selectors.Content)),
			Source:      source.Name,
			PublishedAt: strings.TrimSpace(e.ChildText(source.Selectors.PublishedAt)),
			Symbol:      symbol,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", strings.ToLower(query))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	return s.enrich(ctx, articles), nil
}

// enrich fetches full body text for articles where the listing page only
// yielded a summary.
func (s *Scraper) enrich(ctx context.Context, articles []Article) []Article {
	for i := range articles {
		if len(articles[i].Content) >= 100 {
			continue
		}
		if body := s.fetchArticleContent(ctx, articles[i].URL); body != "" {
			articles[i].Content = body
		}
	}
	return articles
}

func (s *Scraper) fetchArticleContent(ctx context.Context, articleURL string) string {
	client := &http.Client{Timeout: s.timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	var sb strings.Builder
	doc.Find("article p, div.article-body p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		sb.WriteString(strings.TrimSpace(sel.Text()))
		sb.WriteString(" ")
		return sb.Len() < 2000
	})
	return strings.TrimSpace(sb.String())
}

func domainOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// baseAsset strips a known quote suffix from a trading pair.
func baseAsset(symbol string) string {
	for _, quote := range []string{"USDT", "USDC", "BUSD", "USD"} {
		if strings.HasSuffix(symbol, quote) && len(symbol) > len(quote) {
			return strings.TrimSuffix(symbol, quote)
		}
	}
	return symbol
}

package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/dailyworker-news/DWnews-sub003/internal/cache"
	"github.com/dailyworker-news/DWnews-sub003/internal/logging"
	"github.com/dailyworker-news/DWnews-sub003/internal/model"
	"github.com/dailyworker-news/DWnews-sub003/internal/util"
	"github.com/dailyworker-news/DWnews-sub003/internal/worker"
)

// Fetcher retrieves source pages so the cross-reference stage has
// full text to extract claims from, not just search snippets.
// It respects robots.txt and the shared per-host rate limiter.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
	log        *log.Logger
}

// NewFetcher creates a fetcher from HTTP configuration.
func NewFetcher(cfg model.HTTPConfig, limiter *worker.Limiter, c cache.Cache, cacheTTL time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter:   limiter,
		cache:     c,
		cacheTTL:  cacheTTL,
		log:       logging.WithPrefix("fetch"),
	}
}

// FetchText retrieves a page and returns its visible text.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	if f.cache != nil {
		if body, found := f.cache.Get(cache.Key("page", rawURL)); found {
			return string(body), nil
		}
	}

	allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return "", fmt.Errorf("robots.txt disallows %s", rawURL)
	}

	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	text := extractVisibleText(string(body))

	if f.cache != nil {
		_ = f.cache.Set(cache.Key("page", rawURL), []byte(text), f.cacheTTL)
	}

	return text, nil
}

// Enrich fetches body text for up to max of the given sources,
// highest-ranked first. Fetch failures degrade to snippet-only
// sources; they never fail the topic.
func (f *Fetcher) Enrich(ctx context.Context, sources []model.Source, max int) []model.Source {
	enriched := make([]model.Source, len(sources))
	copy(enriched, sources)

	fetched := 0
	for i := range enriched {
		if fetched >= max || ctx.Err() != nil {
			break
		}
		text, err := f.FetchText(ctx, enriched[i].URL)
		if err != nil {
			f.log.Debug("enrich skipped", "url", enriched[i].URL, "err", err)
			continue
		}
		enriched[i].Text = text
		fetched++
	}

	return enriched
}

// extractVisibleText extracts text nodes from HTML, skipping
// scripts and styles. Unparseable input is returned as-is.
func extractVisibleText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return buf.String()
}

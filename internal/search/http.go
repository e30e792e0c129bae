package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/worker"
)

// HTTPProvider queries a JSON search endpoint. The endpoint contract
// is GET ?q=&from=&to=&limit= returning {"results": [...]} with url,
// title, snippet, publisher and published (RFC 3339) per item.
type HTTPProvider struct {
	name     string
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *worker.Limiter
}

// NewHTTPProvider creates a provider for one configured endpoint.
func NewHTTPProvider(name, endpoint, apiKey string, timeout time.Duration, limiter *worker.Limiter) *HTTPProvider {
	return &HTTPProvider{
		name:     name,
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		limiter:  limiter,
	}
}

// Name returns the provider name.
func (p *HTTPProvider) Name() string { return p.name }

type httpResponse struct {
	Results []struct {
		URL       string `json:"url"`
		Title     string `json:"title"`
		Snippet   string `json:"snippet"`
		Publisher string `json:"publisher"`
		Published string `json:"published"`
	} `json:"results"`
}

// Search executes one query against the endpoint.
func (p *HTTPProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, p.endpoint); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	params := u.Query()
	params.Set("q", q.Terms)
	if !q.From.IsZero() {
		params.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		params.Set("to", q.To.UTC().Format(time.RFC3339))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", p.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %s: unexpected status %d", p.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4_000_000))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed httpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.URL == "" {
			continue
		}
		res := Result{
			URL:       r.URL,
			Title:     r.Title,
			Snippet:   r.Snippet,
			Publisher: r.Publisher,
			Provider:  p.name,
		}
		if r.Published != "" {
			if t, err := time.Parse(time.RFC3339, r.Published); err == nil {
				res.Published = t
			}
		}
		results = append(results, res)
	}

	return results, nil
}

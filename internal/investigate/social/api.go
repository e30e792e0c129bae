package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// HTTPPlatform queries a social platform search gateway. The contract
// mirrors the web search providers: GET ?q=&from=&to=&limit= returning
// {"posts": [...]} with author and account metadata per item.
type HTTPPlatform struct {
	platform string
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPPlatform creates a searcher for one configured platform
// gateway.
func NewHTTPPlatform(platform, endpoint, apiKey string, timeout time.Duration) *HTTPPlatform {
	return &HTTPPlatform{
		platform: platform,
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// Platform returns the platform name.
func (p *HTTPPlatform) Platform() string { return p.platform }

type platformResponse struct {
	Posts []struct {
		Author          string `json:"author"`
		Content         string `json:"content"`
		URL             string `json:"url"`
		PostedAt        string `json:"posted_at"`
		Engagement      int    `json:"engagement"`
		AccountVerified bool   `json:"account_verified"`
		AccountAgeDays  int    `json:"account_age_days"`
		Followers       int    `json:"followers"`
		ProfileComplete bool   `json:"profile_complete"`
		IsRepost        bool   `json:"is_repost"`
	} `json:"posts"`
}

// Search executes one date-bounded query against the gateway.
func (p *HTTPPlatform) Search(ctx context.Context, query string, from, to time.Time, limit int) ([]model.SocialSource, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	params := u.Query()
	params.Set("q", query)
	if !from.IsZero() {
		params.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		params.Set("to", to.UTC().Format(time.RFC3339))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
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
		return nil, fmt.Errorf("search %s: %w", p.platform, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %s: unexpected status %d", p.platform, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4_000_000))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed platformResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	posts := make([]model.SocialSource, 0, len(parsed.Posts))
	for _, raw := range parsed.Posts {
		post := model.SocialSource{
			Platform:        p.platform,
			Author:          raw.Author,
			Content:         raw.Content,
			URL:             raw.URL,
			Engagement:      raw.Engagement,
			AccountVerified: raw.AccountVerified,
			AccountAgeDays:  raw.AccountAgeDays,
			Followers:       raw.Followers,
			ProfileComplete: raw.ProfileComplete,
			IsRepost:        raw.IsRepost,
		}
		if raw.PostedAt != "" {
			if t, err := time.Parse(time.RFC3339, raw.PostedAt); err == nil {
				post.PostedAt = t
			}
		}
		posts = append(posts, post)
	}

	return posts, nil
}

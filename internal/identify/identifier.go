// Package identify finds candidate primary and secondary sources for
// a topic through a bounded number of templated search queries.
package identify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dailyworker-news/DWnews-sub003/internal/logging"
	"github.com/dailyworker-news/DWnews-sub003/internal/model"
	"github.com/dailyworker-news/DWnews-sub003/internal/search"
)

// Identifier issues templated queries oriented at government/official,
// academic, and news-wire material.
type Identifier struct {
	searcher *search.MultiSearcher
	budget   int
	limit    int
	log      *log.Logger
}

// New creates a source identifier. budget is the maximum number of
// queries per topic (clamped to 4-5 by default config).
func New(searcher *search.MultiSearcher, budget, resultLimit int) *Identifier {
	if budget <= 0 {
		budget = 5
	}
	return &Identifier{
		searcher: searcher,
		budget:   budget,
		limit:    resultLimit,
		log:      logging.WithPrefix("identify"),
	}
}

// Identify returns a deduplicated list of candidate sources for the
// topic. A failing query does not abort the step: partial results are
// returned and the evidence gap is absorbed by the threshold check
// downstream. Only a total search wipeout is an error.
func (i *Identifier) Identify(ctx context.Context, topic model.Topic) ([]model.Source, error) {
	queries := i.BuildQueries(topic)

	var (
		sources  []model.Source
		seen     = make(map[string]bool)
		failures int
	)

	for _, q := range queries {
		if ctx.Err() != nil {
			return sources, ctx.Err()
		}

		hits, err := i.searcher.Search(ctx, q)
		if err != nil {
			failures++
			i.log.Warn("query failed", "topic", topic.ID, "terms", q.Terms, "err", err)
			continue
		}

		for _, h := range hits {
			key := canonicalURL(h.URL)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			sources = append(sources, model.Source{
				URL:       h.URL,
				Publisher: h.Publisher,
				Title:     h.Title,
				Snippet:   h.Snippet,
				Published: h.Published,
				FoundBy:   h.Provider,
			})
		}
	}

	if failures == len(queries) {
		return nil, fmt.Errorf("identify topic %s: every search query failed", topic.ID)
	}

	i.log.Debug("identified sources", "topic", topic.ID, "queries", len(queries), "sources", len(sources))
	return sources, nil
}

// BuildQueries expands the topic title into at most budget queries.
// Template order puts the most authoritative material first so a
// reduced budget still reaches government and academic indexes.
func (i *Identifier) BuildQueries(topic model.Topic) []search.Query {
	title := strings.TrimSpace(topic.Title)

	terms := []string{
		fmt.Sprintf("%q official statement OR government filing", title),
		fmt.Sprintf("%q study OR peer-reviewed OR journal", title),
		fmt.Sprintf("%q wire report", title),
		title,
	}
	if topic.Regional && topic.Region != "" {
		terms = append(terms, fmt.Sprintf("%q %s local news", title, topic.Region))
	}

	if len(terms) > i.budget {
		terms = terms[:i.budget]
	}

	queries := make([]search.Query, 0, len(terms))
	for _, t := range terms {
		queries = append(queries, search.Query{Terms: t, Limit: i.limit})
	}
	return queries
}

// canonicalURL normalizes a URL for deduplication: lowercase host,
// no fragment, no trailing slash.
func canonicalURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	parsed.Fragment = ""
	parsed.Host = strings.ToLower(parsed.Host)
	s := parsed.String()
	return strings.TrimSuffix(s, "/")
}

// Package search models external web/social search providers as an
// explicit capability: query in, results out, bounded timeout, partial
// failure absorbed by the caller. Tests substitute deterministic fakes
// instead of mocking the network.
package search

import (
	"context"
	"time"
)

// Query is a single search request.
type Query struct {
	Terms string
	From  time.Time // zero = unbounded
	To    time.Time // zero = now
	Limit int
}

// Result is one search hit.
type Result struct {
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	Snippet   string    `json:"snippet,omitempty"`
	Publisher string    `json:"publisher,omitempty"`
	Published time.Time `json:"published,omitempty"`
	Provider  string    `json:"provider,omitempty"`
}

// Provider is a stateless search backend.
type Provider interface {
	// Name identifies the backend ("gov-index", "newswire", ...).
	Name() string

	// Search executes one query. Implementations must honor ctx
	// cancellation and return promptly on deadline.
	Search(ctx context.Context, q Query) ([]Result, error)
}

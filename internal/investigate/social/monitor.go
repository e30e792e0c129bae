// Package social implements the social media investigation
// sub-pipeline used only during escalation: platform monitors,
// account credibility scoring, eyewitness detection, and timeline
// construction. Apart from the monitors' own searches, everything
// here is read-only analysis over already-fetched evidence.
package social

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// PlatformSearcher is a social platform's search capability.
type PlatformSearcher interface {
	// Platform names the backend ("twitter", "reddit").
	Platform() string

	// Search returns posts matching the query within the date window.
	Search(ctx context.Context, query string, from, to time.Time, limit int) ([]model.SocialSource, error)
}

// Monitor performs an extended, date-bounded search on one platform
// and filters the haul down to original, attributable content.
type Monitor struct {
	api      PlatformSearcher
	maxPosts int
}

// NewTwitterMonitor creates a monitor for a Twitter-shaped backend.
func NewTwitterMonitor(api PlatformSearcher, maxPosts int) *Monitor {
	return &Monitor{api: api, maxPosts: maxPosts}
}

// NewRedditMonitor creates a monitor for a Reddit-shaped backend.
func NewRedditMonitor(api PlatformSearcher, maxPosts int) *Monitor {
	return &Monitor{api: api, maxPosts: maxPosts}
}

// Platform returns the underlying platform name.
func (m *Monitor) Platform() string { return m.api.Platform() }

// Investigate searches the window and returns original posts only:
// retweets and reposts are dropped so the same words don't count
// twice, and verified or high-credibility accounts sort first.
func (m *Monitor) Investigate(ctx context.Context, query string, from, to time.Time) ([]model.SocialSource, error) {
	posts, err := m.api.Search(ctx, query, from, to, m.maxPosts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	filtered := posts[:0]
	for _, p := range posts {
		if p.IsRepost || isRepostContent(p.Content) {
			continue
		}
		key := p.Author + "\x1f" + strings.TrimSpace(p.Content)
		if seen[key] {
			continue
		}
		seen[key] = true
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(a, b int) bool {
		if filtered[a].AccountVerified != filtered[b].AccountVerified {
			return filtered[a].AccountVerified
		}
		if filtered[a].Followers != filtered[b].Followers {
			return filtered[a].Followers > filtered[b].Followers
		}
		return filtered[a].PostedAt.Before(filtered[b].PostedAt)
	})

	return filtered, nil
}

// isRepostContent catches reposts the platform metadata missed.
func isRepostContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	lower := strings.ToLower(trimmed)
	return strings.HasPrefix(trimmed, "RT @") ||
		strings.HasPrefix(lower, "repost:") ||
		strings.HasPrefix(lower, "x-post") ||
		strings.HasPrefix(lower, "crosspost")
}

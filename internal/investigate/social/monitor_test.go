package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

type fakePlatform struct {
	platform string
	posts    []model.SocialSource
	err      error
}

func (f *fakePlatform) Platform() string { return f.platform }

func (f *fakePlatform) Search(ctx context.Context, query string, from, to time.Time, limit int) ([]model.SocialSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

func TestMonitor_Investigate_FiltersRepostsAndDuplicates(t *testing.T) {
	posted := time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)
	api := &fakePlatform{platform: "twitter", posts: []model.SocialSource{
		{Author: "worker_a", Content: "We walked out at 9am, whole shift", PostedAt: posted},
		{Author: "worker_a", Content: "We walked out at 9am, whole shift", PostedAt: posted.Add(time.Minute)},
		{Author: "reposter", Content: "RT @worker_a: We walked out at 9am, whole shift", PostedAt: posted},
		{Author: "flagged", Content: "original words here", IsRepost: true, PostedAt: posted},
		{Author: "worker_b", Content: "Saw the picket line form outside", PostedAt: posted},
	}}

	m := NewTwitterMonitor(api, 50)

	posts, err := m.Investigate(context.Background(), "walkout", posted.Add(-time.Hour), posted.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 original posts after filtering, got %d", len(posts))
	}
	for _, p := range posts {
		if p.IsRepost || p.Author == "reposter" || p.Author == "flagged" {
			t.Errorf("repost survived filtering: %+v", p)
		}
	}
}

func TestMonitor_Investigate_VerifiedAccountsFirst(t *testing.T) {
	posted := time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)
	api := &fakePlatform{platform: "twitter", posts: []model.SocialSource{
		{Author: "big_unverified", Content: "saw it happen", Followers: 90_000, PostedAt: posted},
		{Author: "verified_small", Content: "we are striking today", AccountVerified: true, Followers: 800, PostedAt: posted},
	}}

	m := NewTwitterMonitor(api, 50)

	posts, err := m.Investigate(context.Background(), "strike", posted.Add(-time.Hour), posted.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if posts[0].Author != "verified_small" {
		t.Errorf("verified account should sort first, got %s", posts[0].Author)
	}
}

func TestInvestigator_Investigate_PlatformFailureDegrades(t *testing.T) {
	posted := time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)
	healthy := &fakePlatform{platform: "twitter", posts: []model.SocialSource{
		{Author: "worker_a", Content: "I was there, we walked out together", PostedAt: posted, AccountVerified: true, Followers: 2000, AccountAgeDays: 700, ProfileComplete: true},
	}}
	broken := &fakePlatform{platform: "reddit", err: errors.New("gateway down")}

	inv := NewInvestigator([]*Monitor{
		NewTwitterMonitor(healthy, 50),
		NewRedditMonitor(broken, 50),
	}, model.SocialConfig{MaxPosts: 50, ClusterWindow: 30 * time.Minute, KeyMomentThreshold: 70})

	findings := inv.Investigate(context.Background(), "walkout", posted.Add(-time.Hour), posted.Add(time.Hour), nil)

	if len(findings.Posts) != 1 {
		t.Fatalf("healthy platform's posts should survive a broken one, got %d", len(findings.Posts))
	}

	post := findings.Posts[0]
	if post.AuthorScore == 0 {
		t.Error("posts should carry an account credibility score")
	}
	if !post.Eyewitness || post.EyewitnessScore != 0.85 {
		t.Errorf("firsthand post = (%v, %.2f), want eyewitness at 0.85", post.Eyewitness, post.EyewitnessScore)
	}
	if findings.Eyewitness != 1 {
		t.Errorf("eyewitness count = %d, want 1", findings.Eyewitness)
	}
	if len(findings.Timeline) != 1 {
		t.Errorf("timeline should contain the dated post, got %d entries", len(findings.Timeline))
	}
}

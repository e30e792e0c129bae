package investigate

import (
	"testing"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 12, 0, 0, 0, time.UTC)
}

func TestTraceOrigin_EarliestCredibleMention(t *testing.T) {
	sources := []model.Source{
		{URL: "https://someone.substack.com/p/first", Publisher: "A Blog", Published: day(1), Tier: model.TierUnverified},
		{URL: "https://apnews.com/article/2", Publisher: "AP", Published: day(3), Tier: model.TierProfessional},
		{URL: "https://reuters.com/article/3", Publisher: "Reuters", Published: day(5), Tier: model.TierProfessional},
	}

	origin := TraceOrigin(sources)
	if origin == nil {
		t.Fatal("expected an origin")
	}
	// The blog is earlier, but the earliest credible mention wins.
	if origin.URL != "https://apnews.com/article/2" {
		t.Errorf("origin = %s, want the earliest credible source", origin.URL)
	}
}

func TestTraceOrigin_FallsBackToEarliestDated(t *testing.T) {
	sources := []model.Source{
		{URL: "https://b.example/2", Published: day(4), Tier: model.TierUnverified},
		{URL: "https://a.example/1", Published: day(2), Tier: model.TierUnverified},
	}

	origin := TraceOrigin(sources)
	if origin == nil || origin.URL != "https://a.example/1" {
		t.Errorf("with nothing credible, the earliest dated source is the origin, got %+v", origin)
	}
}

func TestTraceOrigin_NoDatedSources(t *testing.T) {
	if origin := TraceOrigin([]model.Source{{URL: "https://a.example/1"}}); origin != nil {
		t.Errorf("no dated sources means no origin, got %+v", origin)
	}
}

func TestTraceOrigin_FollowsAttributionChain(t *testing.T) {
	sources := []model.Source{
		{
			URL:       "https://apnews.com/article/2",
			Publisher: "AP",
			Published: day(3),
			Tier:      model.TierProfessional,
			Text:      "The layoffs were first reported by the Dayton Courier, which cited internal memos.",
		},
		{
			URL:       "https://daytoncourier.example/news/1",
			Publisher: "Dayton Courier",
			Published: day(2),
			Tier:      model.TierDocumentary,
		},
	}

	origin := TraceOrigin(sources)
	if origin == nil {
		t.Fatal("expected an origin")
	}
	if origin.URL != "https://daytoncourier.example/news/1" {
		t.Errorf("origin = %s, want the credited outlet one hop back", origin.URL)
	}
	if origin.CredibilityTier != model.TierDocumentary {
		t.Errorf("origin tier = %d, want the credited outlet's own tier", origin.CredibilityTier)
	}
}

func TestCitedPublisher(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"The story was first reported by Reuters.", "Reuters"},
		{"according to the Dayton Courier, talks stalled", "Dayton Courier"},
		{"No attribution language here.", ""},
	}
	for _, tt := range tests {
		if got := citedPublisher(tt.text); got != tt.want {
			t.Errorf("citedPublisher(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

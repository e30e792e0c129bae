package social

import (
	"testing"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

func at(min int) time.Time {
	return time.Date(2026, 8, 14, 9, min, 0, 0, time.UTC)
}

func TestTimelineConstructor_Construct_OrdersAndDropsUndated(t *testing.T) {
	c := NewTimelineConstructor(30*time.Minute, 70)

	events := []model.TimelineEvent{
		{At: at(45), Description: "third"},
		{Description: "undated"},
		{At: at(0), Description: "first"},
		{At: at(20), Description: "second"},
	}

	timeline := c.Construct(events)
	if len(timeline) != 3 {
		t.Fatalf("undated events must be dropped, got %d entries", len(timeline))
	}
	for i, want := range []string{"first", "second", "third"} {
		if timeline[i].Description != want {
			t.Errorf("position %d = %s, want %s", i, timeline[i].Description, want)
		}
	}
}

func TestTimelineConstructor_Construct_ClusterCorroboration(t *testing.T) {
	c := NewTimelineConstructor(30*time.Minute, 70)

	// Three events inside one window, one far away.
	timeline := c.Construct([]model.TimelineEvent{
		{At: at(0)},
		{At: at(10)},
		{At: at(20)},
		{At: at(0).Add(6 * time.Hour)},
	})

	if timeline[1].Corroboration != 2 {
		t.Errorf("middle event corroboration = %d, want 2", timeline[1].Corroboration)
	}
	if timeline[3].Corroboration != 0 {
		t.Errorf("isolated event corroboration = %d, want 0", timeline[3].Corroboration)
	}
}

func TestTimelineConstructor_Construct_KeyMoments(t *testing.T) {
	c := NewTimelineConstructor(30*time.Minute, 70)

	// High engagement and heavy clustering push significance past the
	// threshold; a quiet isolated event stays below it.
	timeline := c.Construct([]model.TimelineEvent{
		{At: at(0), Engagement: 800},
		{At: at(5), Engagement: 700},
		{At: at(10), Engagement: 900},
		{At: at(12), Engagement: 650},
		{At: at(15), Engagement: 750},
		{At: at(0).Add(8 * time.Hour), Engagement: 3},
	})

	for i := 0; i < 5; i++ {
		if !timeline[i].KeyMoment {
			t.Errorf("clustered high-engagement event %d should be a key moment (significance %.1f)",
				i, timeline[i].Significance)
		}
	}
	last := timeline[5]
	if last.KeyMoment {
		t.Errorf("quiet isolated event should not be a key moment (significance %.1f)", last.Significance)
	}
}

func TestSignificance_Bounds(t *testing.T) {
	max := significance(model.TimelineEvent{Engagement: 10_000, Corroboration: 50})
	if max != 100 {
		t.Errorf("saturated significance = %f, want 100", max)
	}
	min := significance(model.TimelineEvent{})
	if min != 0 {
		t.Errorf("zero significance = %f, want 0", min)
	}
}

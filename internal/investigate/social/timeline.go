package social

import (
	"sort"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// TimelineConstructor chronologically orders all evidence (social and
// web), clusters events within a time window, and flags key moments
// whose significance exceeds the configured threshold.
type TimelineConstructor struct {
	clusterWindow time.Duration
	keyThreshold  float64
}

// NewTimelineConstructor creates a constructor.
func NewTimelineConstructor(clusterWindow time.Duration, keyThreshold float64) *TimelineConstructor {
	if clusterWindow <= 0 {
		clusterWindow = 30 * time.Minute
	}
	if keyThreshold <= 0 {
		keyThreshold = 70
	}
	return &TimelineConstructor{clusterWindow: clusterWindow, keyThreshold: keyThreshold}
}

// Construct builds the timeline. Undated evidence is dropped: an
// event that can't be placed can't corroborate a sequence.
func (c *TimelineConstructor) Construct(events []model.TimelineEvent) []model.TimelineEvent {
	dated := make([]model.TimelineEvent, 0, len(events))
	for _, e := range events {
		if !e.At.IsZero() {
			dated = append(dated, e)
		}
	}

	sort.SliceStable(dated, func(a, b int) bool {
		return dated[a].At.Before(dated[b].At)
	})

	// Cluster neighbors inside the window; corroboration is the number
	// of other events in the same cluster.
	clusterStart := 0
	for i := range dated {
		for clusterStart < i && dated[i].At.Sub(dated[clusterStart].At) > c.clusterWindow {
			clusterStart++
		}
		clusterSize := 0
		for j := clusterStart; j < len(dated); j++ {
			if dated[j].At.Sub(dated[i].At) > c.clusterWindow {
				break
			}
			if j != i {
				clusterSize++
			}
		}
		dated[i].Corroboration = clusterSize
	}

	for i := range dated {
		dated[i].Significance = significance(dated[i])
		dated[i].KeyMoment = dated[i].Significance > c.keyThreshold
	}

	return dated
}

// significance blends engagement and corroboration into a 0-100
// score: 50 points for engagement saturating at 500, 50 points for
// corroboration saturating at 4 co-occurring events.
func significance(e model.TimelineEvent) float64 {
	engagement := float64(e.Engagement) / 500.0
	if engagement > 1 {
		engagement = 1
	}
	corroboration := float64(e.Corroboration) / 4.0
	if corroboration > 1 {
		corroboration = 1
	}
	return engagement*50 + corroboration*50
}

package social

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dailyworker-news/DWnews-sub003/internal/logging"
	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// Findings is everything the social sub-pipeline learned about one
// topic.
type Findings struct {
	Posts      []model.SocialSource
	Timeline   []model.TimelineEvent
	KeyMoments int
	Eyewitness int
}

// Investigator runs the full sub-pipeline: monitors gather evidence,
// then credibility scoring, eyewitness detection, and timeline
// construction analyze it without issuing further calls.
type Investigator struct {
	monitors []*Monitor
	detector *EyewitnessDetector
	timeline *TimelineConstructor
	log      *log.Logger
}

// NewInvestigator wires the sub-pipeline from configuration.
func NewInvestigator(monitors []*Monitor, cfg model.SocialConfig) *Investigator {
	return &Investigator{
		monitors: monitors,
		detector: NewEyewitnessDetector(),
		timeline: NewTimelineConstructor(cfg.ClusterWindow, cfg.KeyMomentThreshold),
		log:      logging.WithPrefix("social"),
	}
}

// Investigate gathers and analyzes social evidence for the query
// within the date window. A failing platform degrades to the others.
func (i *Investigator) Investigate(ctx context.Context, query string, from, to time.Time, webEvents []model.TimelineEvent) Findings {
	var posts []model.SocialSource

	for _, m := range i.monitors {
		if ctx.Err() != nil {
			break
		}
		found, err := m.Investigate(ctx, query, from, to)
		if err != nil {
			i.log.Warn("platform search failed", "platform", m.Platform(), "err", err)
			continue
		}
		posts = append(posts, found...)
	}

	eyewitnesses := 0
	for idx := range posts {
		posts[idx].AuthorScore = ScoreAccount(
			posts[idx].AccountVerified,
			posts[idx].AccountAgeDays,
			posts[idx].Followers,
			posts[idx].ProfileComplete,
		)
		if ok, conf, _ := i.detector.Detect(posts[idx].Content); ok {
			posts[idx].Eyewitness = true
			posts[idx].EyewitnessScore = conf
			eyewitnesses++
		}
	}

	events := make([]model.TimelineEvent, 0, len(posts)+len(webEvents))
	events = append(events, webEvents...)
	for _, p := range posts {
		events = append(events, model.TimelineEvent{
			At:          p.PostedAt,
			Description: truncate(p.Content, 140),
			URL:         p.URL,
			Origin:      p.Platform,
			Engagement:  p.Engagement,
		})
	}

	timeline := i.timeline.Construct(events)
	keyMoments := 0
	for _, e := range timeline {
		if e.KeyMoment {
			keyMoments++
		}
	}

	return Findings{
		Posts:      posts,
		Timeline:   timeline,
		KeyMoments: keyMoments,
		Eyewitness: eyewitnesses,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

package investigate

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// Attribution chains in body text ("according to the Detroit Free
// Press", "first reported by Reuters"). The capture is the cited
// outlet name, cut at the first sentence boundary.
var attributionChain = regexp.MustCompile(
	`(?i)(?:first reported by|originally reported by|according to(?: a report (?:in|by|from))?|as reported by|citing)\s+(?:the\s+)?([A-Z][\w&.' -]{2,60}?)(?:[,.;]|\s+(?:reported|said|that)\b|$)`)

// TraceOrigin finds the earliest credible mention of the event and
// follows attribution chains one hop: when the earliest dated source
// itself credits another outlet present in the set, the credited
// outlet is the origin. Returns nil when no dated source exists.
func TraceOrigin(ranked []model.Source) *model.SourceRef {
	dated := make([]model.Source, 0, len(ranked))
	for _, s := range ranked {
		if !s.Published.IsZero() {
			dated = append(dated, s)
		}
	}
	if len(dated) == 0 {
		return nil
	}

	sort.SliceStable(dated, func(a, b int) bool {
		return dated[a].Published.Before(dated[b].Published)
	})

	// Prefer the earliest credible source; fall back to the earliest
	// dated one when nothing credible exists.
	earliest := dated[0]
	for _, s := range dated {
		if s.Tier.Credible() {
			earliest = s
			break
		}
	}

	// Follow one attribution hop. The credited outlet must be in the
	// evidence set and published no later than the citing source, or
	// the chain is treated as unresolvable hearsay.
	if cited := citedPublisher(earliest.BodyText()); cited != "" {
		if origin := matchPublisher(dated, cited, earliest.Published); origin != nil {
			ref := origin.Ref()
			return &ref
		}
	}

	ref := earliest.Ref()
	return &ref
}

func citedPublisher(text string) string {
	m := attributionChain.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func matchPublisher(sources []model.Source, name string, before time.Time) *model.Source {
	needle := strings.ToLower(name)
	for i := range sources {
		if sources[i].Published.After(before) {
			continue
		}
		pub := strings.ToLower(sources[i].Publisher)
		if pub == "" {
			continue
		}
		if strings.Contains(pub, needle) || strings.Contains(needle, pub) {
			return &sources[i]
		}
	}
	return nil
}

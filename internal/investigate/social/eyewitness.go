package social

import "strings"

// patternCategory is one family of firsthand-language markers.
type patternCategory struct {
	name     string
	patterns []string
}

// EyewitnessDetector flags posts whose language reads like a
// firsthand account. Confidence depends on how many independent
// pattern categories match, not how many individual phrases.
type EyewitnessDetector struct {
	categories []patternCategory
}

// NewEyewitnessDetector creates the detector with built-in patterns.
func NewEyewitnessDetector() *EyewitnessDetector {
	return &EyewitnessDetector{
		categories: []patternCategory{
			{
				name: "presence",
				patterns: []string{
					"i was there", "i am here", "i'm here", "i'm at",
					"we were at", "standing outside", "on the scene",
				},
			},
			{
				name: "perception",
				patterns: []string{
					"i saw", "i watched", "i heard", "saw it happen",
					"in front of me", "with my own eyes",
				},
			},
			{
				name: "immediacy",
				patterns: []string{
					"happening now", "right now", "just happened",
					"live from", "as we speak", "breaking:",
				},
			},
			{
				name: "participation",
				patterns: []string{
					"we marched", "i joined", "we walked out",
					"i took part", "we are striking", "on the picket line",
					"my coworkers and i",
				},
			},
		},
	}
}

// Detect reports whether content looks like an eyewitness account,
// the confidence (0.95/0.85/0.70 for 3+/2/1 matched categories), and
// the names of the categories that matched.
func (d *EyewitnessDetector) Detect(content string) (bool, float64, []string) {
	lower := strings.ToLower(content)

	var matched []string
	for _, cat := range d.categories {
		for _, p := range cat.patterns {
			if strings.Contains(lower, p) {
				matched = append(matched, cat.name)
				break
			}
		}
	}

	switch {
	case len(matched) >= 3:
		return true, 0.95, matched
	case len(matched) == 2:
		return true, 0.85, matched
	case len(matched) == 1:
		return true, 0.70, matched
	}
	return false, 0, nil
}

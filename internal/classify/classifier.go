// Package classify labels claims as observed, claimed, or interpreted.
//
// Classification is orthogonal to verification: it describes the
// nature of an assertion, never whether other sources agree with it.
package classify

import (
	"strings"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// Classifier is the fact-type capability. The heuristic implementation
// below can be swapped for a learned model without touching the
// orchestrator.
type Classifier interface {
	Classify(claim model.Claim, source model.Source) model.FactType
}

// Heuristic classifies claims by linguistic markers and source type.
type Heuristic struct {
	attributionMarkers []string
	analysisMarkers    []string
	observationMarkers []string
}

// NewHeuristic creates the keyword-based classifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{
		attributionMarkers: []string{
			"according to", " said ", " says ", " told ", " stated ",
			"reported that", "claims that", "claimed that", "alleged",
			"a spokesperson", "sources say",
		},
		analysisMarkers: []string{
			"analysts", "is likely", "is expected to", "could ", "may ",
			"might ", "suggests that", "predicts", "forecast", "in my view",
			"opinion", "appears to", "seems to", "would mean",
		},
		observationMarkers: []string{
			"court ruled", "the ruling", "official count", "vote count",
			"census", "filed in", "the filing", "video shows",
			"footage shows", "photographs show", "documents show",
			"records show", "the data show", "measured",
		},
	}
}

// Classify labels a single claim. Explicit attribution wins over
// analysis markers; observation markers and primary-document sources
// mark firsthand material; everything else is secondhand reporting.
func (h *Heuristic) Classify(claim model.Claim, source model.Source) model.FactType {
	text := " " + strings.ToLower(claim.Text) + " "

	if containsAny(text, h.attributionMarkers) {
		return model.FactClaimed
	}
	if containsAny(text, h.analysisMarkers) {
		return model.FactInterpreted
	}
	if containsAny(text, h.observationMarkers) {
		return model.FactObserved
	}

	// Primary documents speak for themselves; a bare assertion from a
	// government filing, academic paper, or public record is firsthand.
	switch source.Kind {
	case model.KindGovernment, model.KindAcademic, model.KindPublicRecord:
		return model.FactObserved
	}

	return model.FactClaimed
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

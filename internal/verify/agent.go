// Package verify runs the primary verification pass: identify sources,
// rank them, cross-reference claims, classify fact types, and gate the
// topic on the minimum-evidence threshold.
package verify

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dailyworker-news/DWnews-sub003/internal/classify"
	"github.com/dailyworker-news/DWnews-sub003/internal/crossref"
	"github.com/dailyworker-news/DWnews-sub003/internal/identify"
	"github.com/dailyworker-news/DWnews-sub003/internal/logging"
	"github.com/dailyworker-news/DWnews-sub003/internal/model"
	"github.com/dailyworker-news/DWnews-sub003/internal/rank"
)

// SourceEnricher fetches body text for top-ranked sources. The page
// fetcher implements it; tests use a no-op.
type SourceEnricher interface {
	Enrich(ctx context.Context, sources []model.Source, max int) []model.Source
}

// Agent is the verification orchestrator. It never mutates persisted
// state itself: every outcome is returned as a TopicUpdate command and
// applied by the store's single writer.
type Agent struct {
	identifier *identify.Identifier
	ranker     *rank.Ranker
	crossref   *crossref.Verifier
	classifier classify.Classifier
	enricher   SourceEnricher
	cfg        model.VerificationConfig
	log        *log.Logger
}

// New creates the verification agent. enricher may be nil to run on
// search snippets alone.
func New(identifier *identify.Identifier, ranker *rank.Ranker, cr *crossref.Verifier,
	classifier classify.Classifier, enricher SourceEnricher, cfg model.VerificationConfig) *Agent {
	return &Agent{
		identifier: identifier,
		ranker:     ranker,
		crossref:   cr,
		classifier: classifier,
		enricher:   enricher,
		cfg:        cfg,
		log:        logging.WithPrefix("verify"),
	}
}

// VerifyTopic runs the full primary pass for one approved topic.
//
// The returned update carries the outcome status:
// verified/partial/insufficient_sources on a completed pass, failed on
// a technical error (the error is also returned; failed is retryable).
// The ranked source list is returned for reuse by escalation.
func (a *Agent) VerifyTopic(ctx context.Context, topic model.Topic) (model.TopicUpdate, []model.Source, error) {
	sources, err := a.identifier.Identify(ctx, topic)
	if err != nil {
		return model.TopicUpdate{
			TopicID:            topic.ID,
			VerificationStatus: model.VerificationFailed,
		}, nil, fmt.Errorf("verify topic %s: %w", topic.ID, err)
	}

	ranked := a.ranker.Rank(sources)

	if a.enricher != nil && a.cfg.FetchTopSources > 0 {
		ranked = a.enricher.Enrich(ctx, ranked, a.cfg.FetchTopSources)
	}

	outcome := a.crossref.Verify(ranked)
	for i := range outcome.Claims {
		outcome.Claims[i].Type = a.classifier.Classify(outcome.Claims[i], claimOrigin(outcome.Claims[i], ranked))
	}

	credible, academic := Tally(ranked)
	status := a.decide(credible, academic, outcome)

	facts := &model.VerifiedFacts{
		Facts: outcome.Claims,
		SourceSummary: model.SourceSummary{
			TotalSources:         len(ranked),
			CredibleSources:      credible,
			AcademicCitations:    academic,
			MeetsThreshold:       status.Publishable(),
			SourceAgreementScore: outcome.AgreementScore,
		},
	}

	a.log.Info("primary pass complete",
		"topic", topic.ID,
		"status", status,
		"sources", len(ranked),
		"credible", credible,
		"academic", academic,
		"agreement", fmt.Sprintf("%.2f", outcome.AgreementScore),
		"contradictions", outcome.Contradictions,
	)

	return model.TopicUpdate{
		TopicID:               topic.ID,
		VerificationStatus:    status,
		SourceCount:           model.IntPtr(credible),
		AcademicCitationCount: model.IntPtr(academic),
		VerifiedFacts:         facts,
		SourcePlan:            BuildPlan(ranked, outcome),
	}, ranked, nil
}

// decide applies the single threshold gate: verified iff enough
// credible sources or enough academic citations. No later stage may
// bypass this check. A threshold-meeting topic whose claims are mostly
// in dispute is admitted only as partial.
func (a *Agent) decide(credible, academic int, outcome crossref.Outcome) model.VerificationStatus {
	meets := credible >= a.cfg.MinCredibleSources || academic >= a.cfg.MinAcademicCitations
	if !meets {
		return model.VerificationInsufficient
	}
	if outcome.Contradictions > 0 && outcome.AgreementScore < 0.5 {
		return model.VerificationPartial
	}
	return model.VerificationVerified
}

// Tally counts credible sources (Tier 1/2) and academic citations.
func Tally(sources []model.Source) (credible, academic int) {
	for _, s := range sources {
		if s.Tier.Credible() {
			credible++
		}
		if s.Academic() {
			academic++
		}
	}
	return credible, academic
}

// BuildPlan produces the attribution plan read by drafting: primary
// sources first, supporting sources after, plus a strategy string
// derived from the tier mix.
func BuildPlan(ranked []model.Source, outcome crossref.Outcome) *model.SourcePlan {
	plan := &model.SourcePlan{}

	for _, s := range ranked {
		switch {
		case s.Tier == model.TierPrimary:
			plan.PrimarySources = append(plan.PrimarySources, s.Ref())
		case s.Tier == model.TierProfessional || s.Tier == model.TierDocumentary:
			plan.SupportingSources = append(plan.SupportingSources, s.Ref())
		}
	}

	switch {
	case len(plan.PrimarySources) > 0:
		plan.AttributionStrategy = "Lead with primary documents; attribute analysis and characterization to the named outlets."
	case len(plan.SupportingSources) > 0:
		plan.AttributionStrategy = "Attribute all facts to the reporting organizations; seek primary confirmation before publication."
	default:
		plan.AttributionStrategy = "Attribute every claim inline and treat the story as unconfirmed pending stronger sourcing."
	}

	if outcome.Contradictions > 0 {
		plan.VerificationNotes = fmt.Sprintf(
			"%d claim(s) carry conflicting figures across sources; flag for editorial attention.",
			outcome.Contradictions)
	}

	return plan
}

// claimOrigin picks the highest-ranked source backing a claim, which
// anchors source-type classification heuristics.
func claimOrigin(claim model.Claim, ranked []model.Source) model.Source {
	byURL := make(map[string]model.Source, len(ranked))
	for _, s := range ranked {
		byURL[s.URL] = s
	}
	var best model.Source
	for _, u := range claim.Sources {
		s, ok := byURL[u]
		if !ok {
			continue
		}
		if best.URL == "" || s.Score > best.Score {
			best = s
		}
	}
	return best
}

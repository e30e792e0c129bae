// Package investigate implements the deep-investigation fallback:
// broader multi-engine search, origin tracing, cross-reference
// re-validation, and the social media sub-pipeline, synthesized into
// an InvestigationResult with a recommended verification level.
package investigate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dailyworker-news/DWnews-sub003/internal/classify"
	"github.com/dailyworker-news/DWnews-sub003/internal/crossref"
	"github.com/dailyworker-news/DWnews-sub003/internal/investigate/social"
	"github.com/dailyworker-news/DWnews-sub003/internal/logging"
	"github.com/dailyworker-news/DWnews-sub003/internal/model"
	"github.com/dailyworker-news/DWnews-sub003/internal/rank"
	"github.com/dailyworker-news/DWnews-sub003/internal/search"
	"github.com/dailyworker-news/DWnews-sub003/internal/verify"
)

// Eligibility errors. Callers distinguish "not now" from "never".
var (
	ErrNotApproved         = errors.New("investigate: topic not approved")
	ErrNotEscalatable      = errors.New("investigate: verification status not escalatable")
	ErrEnoughSources       = errors.New("investigate: topic already has enough sources")
	ErrNotImportantEnough  = errors.New("investigate: newsworthiness below importance floor")
	ErrAlreadyInvestigated = errors.New("investigate: topic already investigated")
	ErrCooldownActive      = errors.New("investigate: re-investigation cooldown active")
)

// Agent is the investigatory journalist: it runs only on topics the
// primary pass left under-evidenced, and it only ever upgrades them.
type Agent struct {
	searcher   *search.MultiSearcher
	ranker     *rank.Ranker
	crossref   *crossref.Verifier
	classifier classify.Classifier
	social     *social.Investigator // nil when social investigation is disabled
	cfg        model.EscalationConfig
	thresholds model.VerificationConfig
	log        *log.Logger
	now        func() time.Time
}

// New creates the escalation agent. social may be nil.
func New(searcher *search.MultiSearcher, ranker *rank.Ranker, cr *crossref.Verifier,
	classifier classify.Classifier, soc *social.Investigator,
	cfg model.EscalationConfig, thresholds model.VerificationConfig) *Agent {
	return &Agent{
		searcher:   searcher,
		ranker:     ranker,
		crossref:   cr,
		classifier: classifier,
		social:     soc,
		cfg:        cfg,
		thresholds: thresholds,
		log:        logging.WithPrefix("investigate"),
		now:        time.Now,
	}
}

// Eligible checks the escalation trigger predicate. All conditions
// must hold; the returned error names the first one that doesn't.
// lastInvestigated is the zero time when no prior attempt exists.
func (a *Agent) Eligible(topic model.Topic, lastInvestigated time.Time) error {
	if topic.Status != model.StatusApproved {
		return fmt.Errorf("%w (topic %s)", ErrNotApproved, topic.ID)
	}
	if !topic.VerificationStatus.Escalatable() {
		return fmt.Errorf("%w: %s (topic %s)", ErrNotEscalatable, topic.VerificationStatus, topic.ID)
	}
	if topic.SourceCount >= a.thresholds.MinCredibleSources {
		return fmt.Errorf("%w (topic %s)", ErrEnoughSources, topic.ID)
	}
	if topic.NewsworthinessScore < a.cfg.ImportanceFloor {
		return fmt.Errorf("%w: %d < %d (topic %s)",
			ErrNotImportantEnough, topic.NewsworthinessScore, a.cfg.ImportanceFloor, topic.ID)
	}
	if topic.Investigated {
		if !a.cfg.Reinvestigate || a.cfg.Cooldown <= 0 {
			return fmt.Errorf("%w (topic %s)", ErrAlreadyInvestigated, topic.ID)
		}
		if lastInvestigated.IsZero() || a.now().Sub(lastInvestigated) < a.cfg.Cooldown {
			return fmt.Errorf("%w (topic %s)", ErrCooldownActive, topic.ID)
		}
	}
	return nil
}

// MinSources returns the credible-source threshold the agent gates on.
func (a *Agent) MinSources() int { return a.thresholds.MinCredibleSources }

// Investigate runs the escalation procedure for one eligible topic.
// existing is the primary pass's ranked source list, reused so the
// re-validation sees the whole evidence set. The returned update only
// ever upgrades the topic; a fruitless investigation marks it
// investigated and leaves the status in place for human review.
func (a *Agent) Investigate(ctx context.Context, topic model.Topic, existing []model.Source) (model.InvestigationResult, model.TopicUpdate, error) {
	started := a.now()
	deadline := started.Add(a.cfg.TimeBudget)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	// Stage 1: multi-engine search with the look-back window.
	from := topic.DiscoveredAt.AddDate(0, 0, -a.cfg.LookbackDays)
	found, err := a.broadSearch(ctx, topic, from)
	if err != nil {
		return model.InvestigationResult{}, model.TopicUpdate{}, fmt.Errorf("investigate topic %s: %w", topic.ID, err)
	}

	merged := mergeSources(existing, found)
	ranked := a.ranker.Rank(merged)

	// Stage 2: origin tracing over the enlarged set.
	origin := TraceOrigin(ranked)

	// Stage 3: cross-reference re-validation, same algorithm as the
	// primary pass.
	outcome := a.crossref.Verify(ranked)
	for i := range outcome.Claims {
		outcome.Claims[i].Type = a.classifier.Classify(outcome.Claims[i], model.Source{})
	}

	// Stage 4: social investigation, discretionary. Skipped when
	// disabled or when the wall-clock budget is already spent.
	var findings social.Findings
	socialRan := false
	if a.social != nil && a.now().Before(deadline.Add(-15*time.Second)) {
		findings = a.social.Investigate(ctx, topic.Title, from, a.now(), webEvents(ranked))
		socialRan = true
	} else if a.social != nil {
		a.log.Warn("time budget exhausted, skipping social investigation", "topic", topic.ID)
	}

	// Stage 5: synthesis.
	res := a.synthesize(topic, ranked, origin, outcome, findings, socialRan)

	update := a.buildUpdate(topic, ranked, outcome, res)

	a.log.Info("investigation complete",
		"topic", topic.ID,
		"recommended", res.Recommended,
		"confidence", fmt.Sprintf("%.2f", res.Confidence),
		"sources", len(ranked),
		"human_review", res.NeedsHumanReview,
		"elapsed", a.now().Sub(started).Round(time.Second),
	)

	return res, update, nil
}

// broadSearch runs the escalation query set. Like the primary pass,
// individual query failures degrade to fewer results.
func (a *Agent) broadSearch(ctx context.Context, topic model.Topic, from time.Time) ([]model.Source, error) {
	title := strings.TrimSpace(topic.Title)
	terms := []string{
		title,
		fmt.Sprintf("%q first reported", title),
		fmt.Sprintf("%q original source OR statement", title),
		fmt.Sprintf("%q court OR filing OR record", title),
	}
	if len(terms) > a.cfg.QueryBudget {
		terms = terms[:a.cfg.QueryBudget]
	}

	var (
		sources  []model.Source
		seen     = make(map[string]bool)
		failures int
	)
	for _, t := range terms {
		if ctx.Err() != nil {
			break
		}
		hits, err := a.searcher.Search(ctx, search.Query{Terms: t, From: from, Limit: 25})
		if err != nil {
			failures++
			a.log.Warn("escalation query failed", "topic", topic.ID, "terms", t, "err", err)
			continue
		}
		for _, h := range hits {
			if h.URL == "" || seen[h.URL] {
				continue
			}
			seen[h.URL] = true
			sources = append(sources, model.Source{
				URL:       h.URL,
				Publisher: h.Publisher,
				Title:     h.Title,
				Snippet:   h.Snippet,
				Published: h.Published,
				FoundBy:   h.Provider,
			})
		}
	}

	if failures == len(terms) {
		return nil, search.ErrAllProvidersFailed
	}
	return sources, nil
}

// synthesize combines the stage outputs into an InvestigationResult.
func (a *Agent) synthesize(topic model.Topic, ranked []model.Source, origin *model.SourceRef,
	outcome crossref.Outcome, findings social.Findings, socialRan bool) model.InvestigationResult {

	credible, academic := verify.Tally(ranked)

	recommended := model.VerificationInsufficient
	switch {
	case credible >= a.cfg.CertifiedSources:
		recommended = model.VerificationCertified
	case credible >= a.thresholds.MinCredibleSources || academic >= a.thresholds.MinAcademicCitations:
		recommended = model.VerificationVerified
	}

	credibility := credibilityScore(ranked)
	consistency := outcome.AgreementScore

	// Context defaults to a neutral prior when social investigation
	// didn't run; corroborated key moments raise it otherwise.
	context := 0.5
	if socialRan {
		context = float64(findings.KeyMoments) / 3.0
		if context > 1 {
			context = 1
		}
	}

	confidence := 0.45*credibility + 0.35*consistency + 0.20*context

	var verified, disputed []model.Claim
	for _, c := range outcome.Claims {
		if c.ConflictingInfo != "" {
			disputed = append(disputed, c)
		} else if c.Corroborated() {
			verified = append(verified, c)
		}
	}

	res := model.InvestigationResult{
		ID:                uuid.NewString(),
		TopicID:           topic.ID,
		InvestigatedAt:    a.now().UTC(),
		AdditionalSources: refs(ranked),
		SocialEvidence:    findings.Posts,
		OriginatingSource: origin,
		Timeline:          findings.Timeline,
		CredibilityScore:  credibility,
		ConsistencyScore:  consistency,
		ContextScore:      context,
		VerifiedClaims:    verified,
		DisputedClaims:    disputed,
		Recommended:       recommended,
		Confidence:        confidence,
	}

	res.NeedsHumanReview, res.ReviewReason = a.reviewFlags(topic, ranked, outcome)
	res.Notes = a.notes(topic, ranked, origin, outcome, findings, socialRan, credible, academic)

	return res
}

// buildUpdate turns the synthesis into an upgrade-only command.
func (a *Agent) buildUpdate(topic model.Topic, ranked []model.Source, outcome crossref.Outcome, res model.InvestigationResult) model.TopicUpdate {
	credible, academic := verify.Tally(ranked)

	update := model.TopicUpdate{
		TopicID:                 topic.ID,
		Investigated:            model.BoolPtr(true),
		InvestigationConfidence: model.FloatPtr(res.Confidence),
		SourceCount:             model.IntPtr(credible),
		AcademicCitationCount:   model.IntPtr(academic),
	}

	// Upgrade only: the status is set just on a strict upgrade over
	// the topic's current level. A forced re-investigation of a
	// certified topic whose fresh evidence supports less never
	// proposes a downgrade.
	if res.Recommended.Publishable() && statusRank(res.Recommended) > statusRank(topic.VerificationStatus) {
		update.VerificationStatus = res.Recommended
		update.VerifiedFacts = &model.VerifiedFacts{
			Facts: outcome.Claims,
			SourceSummary: model.SourceSummary{
				TotalSources:         len(ranked),
				CredibleSources:      credible,
				AcademicCitations:    academic,
				MeetsThreshold:       true,
				SourceAgreementScore: outcome.AgreementScore,
			},
		}
		update.SourcePlan = verify.BuildPlan(ranked, outcome)
	}

	return update
}

// reviewFlags raises the human-review flag per the escalation policy.
func (a *Agent) reviewFlags(topic model.Topic, ranked []model.Source, outcome crossref.Outcome) (bool, string) {
	text := strings.ToLower(topic.Title + " " + topic.Description)
	for _, term := range a.cfg.SeriousAllegationTerms {
		if strings.Contains(text, strings.ToLower(term)) {
			return true, fmt.Sprintf("serious allegation (%q) requires editorial review", term)
		}
	}

	if outcome.Contradictions > 0 {
		return true, "sources directly contradict each other on a material fact"
	}

	if len(ranked) > 0 {
		onlyTier4 := true
		for _, s := range ranked {
			if s.Tier != model.TierUnverified {
				onlyTier4 = false
				break
			}
		}
		if onlyTier4 {
			return true, "only unverified (Tier 4) sources could be found"
		}
	}

	corroborated := false
	for _, c := range outcome.Claims {
		if c.Corroborated() {
			corroborated = true
			break
		}
	}
	if !corroborated {
		return true, "the event could not be corroborated by any independent source pair"
	}

	return false, ""
}

// notes renders the investigation narrative attached for editors.
func (a *Agent) notes(topic model.Topic, ranked []model.Source, origin *model.SourceRef,
	outcome crossref.Outcome, findings social.Findings, socialRan bool, credible, academic int) string {

	var b strings.Builder
	fmt.Fprintf(&b, "Escalated investigation of %q: %d sources (%d credible, %d academic), agreement %.2f.",
		topic.Title, len(ranked), credible, academic, outcome.AgreementScore)
	if origin != nil {
		fmt.Fprintf(&b, " Earliest credible mention: %s (%s, tier %d).", origin.Name, origin.URL, origin.CredibilityTier)
	} else {
		b.WriteString(" No originating source could be established.")
	}
	if outcome.Contradictions > 0 {
		fmt.Fprintf(&b, " %d claim(s) carry conflicting figures.", outcome.Contradictions)
	}
	if socialRan {
		fmt.Fprintf(&b, " Social evidence: %d original posts, %d likely eyewitness, %d key moments.",
			len(findings.Posts), findings.Eyewitness, findings.KeyMoments)
	} else {
		b.WriteString(" Social investigation skipped.")
	}
	return b.String()
}

// statusRank orders verification levels for the upgrade-only check.
func statusRank(s model.VerificationStatus) int {
	switch s {
	case model.VerificationCertified:
		return 2
	case model.VerificationVerified:
		return 1
	default:
		return 0
	}
}

// credibilityScore is the tier-weighted average of the source set,
// in [0,1]: tier 1 = 1.0, tier 2 = 0.8, tier 3 = 0.5, tier 4 = 0.2.
func credibilityScore(sources []model.Source) float64 {
	if len(sources) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range sources {
		switch s.Tier {
		case model.TierPrimary:
			total += 1.0
		case model.TierProfessional:
			total += 0.8
		case model.TierDocumentary:
			total += 0.5
		default:
			total += 0.2
		}
	}
	return total / float64(len(sources))
}

func mergeSources(a, b []model.Source) []model.Source {
	seen := make(map[string]bool, len(a)+len(b))
	merged := make([]model.Source, 0, len(a)+len(b))
	for _, s := range append(append([]model.Source{}, a...), b...) {
		if s.URL == "" || seen[s.URL] {
			continue
		}
		seen[s.URL] = true
		merged = append(merged, s)
	}
	return merged
}

func refs(sources []model.Source) []model.SourceRef {
	out := make([]model.SourceRef, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Ref())
	}
	return out
}

func webEvents(sources []model.Source) []model.TimelineEvent {
	var events []model.TimelineEvent
	for _, s := range sources {
		if s.Published.IsZero() {
			continue
		}
		events = append(events, model.TimelineEvent{
			At:          s.Published,
			Description: s.Title,
			URL:         s.URL,
			Origin:      s.FoundBy,
		})
	}
	return events
}

package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/classify"
	"github.com/dailyworker-news/DWnews-sub003/internal/crossref"
	"github.com/dailyworker-news/DWnews-sub003/internal/identify"
	"github.com/dailyworker-news/DWnews-sub003/internal/model"
	"github.com/dailyworker-news/DWnews-sub003/internal/rank"
	"github.com/dailyworker-news/DWnews-sub003/internal/search"
)

type fakeProvider struct {
	results []search.Result
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(ctx context.Context, q search.Query) ([]search.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func newAgent(p search.Provider) *Agent {
	cfg := model.VerificationConfig{
		QueryBudget:          5,
		MinCredibleSources:   3,
		MinAcademicCitations: 2,
		FetchTopSources:      0, // snippets only, no fetching in tests
	}
	searcher := search.NewMultiSearcher([]search.Provider{p}, time.Second)
	return New(identify.New(searcher, cfg.QueryBudget, 20), rank.New(),
		crossref.New(), classify.NewHeuristic(), nil, cfg)
}

func TestAgent_VerifyTopic_EnoughCredibleSources(t *testing.T) {
	sentence := "The company laid off 500 workers at the Dayton assembly plant. "
	p := &fakeProvider{results: []search.Result{
		{URL: "https://www.dol.gov/newsroom/filing-1", Snippet: sentence, Publisher: "Department of Labor"},
		{URL: "https://apnews.com/article/2", Snippet: sentence, Publisher: "AP"},
		{URL: "https://reuters.com/article/3", Snippet: sentence, Publisher: "Reuters"},
	}}

	update, ranked, err := newAgent(p).VerifyTopic(context.Background(), model.Topic{ID: "t1", Title: "dayton layoffs"})
	if err != nil {
		t.Fatal(err)
	}

	if update.VerificationStatus != model.VerificationVerified {
		t.Errorf("status = %s, want verified", update.VerificationStatus)
	}
	if update.SourceCount == nil || *update.SourceCount != 3 {
		t.Errorf("source count = %v, want 3", update.SourceCount)
	}
	if update.VerifiedFacts == nil {
		t.Fatal("expected verified facts on the update")
	}
	if !update.VerifiedFacts.SourceSummary.MeetsThreshold {
		t.Error("source summary should meet the threshold")
	}
	if len(ranked) != 3 {
		t.Errorf("expected 3 ranked sources, got %d", len(ranked))
	}
	// Government source leads the ranking and the attribution plan.
	if ranked[0].Kind != model.KindGovernment {
		t.Errorf("top-ranked source = %s, want government", ranked[0].Kind)
	}
	if update.SourcePlan == nil || len(update.SourcePlan.PrimarySources) != 1 {
		t.Errorf("expected 1 primary source in the plan, got %+v", update.SourcePlan)
	}
}

func TestAgent_VerifyTopic_AcademicThresholdAlone(t *testing.T) {
	sentence := "Warehouse injury rates doubled across the logistics sector researchers found. "
	p := &fakeProvider{results: []search.Result{
		{URL: "https://ilr.cornell.edu/study-1", Snippet: sentence},
		{URL: "https://doi.org/10.1000/abc", Snippet: sentence},
	}}

	update, _, err := newAgent(p).VerifyTopic(context.Background(), model.Topic{ID: "t2", Title: "warehouse injuries"})
	if err != nil {
		t.Fatal(err)
	}

	// Two academic citations satisfy the alternate threshold even with
	// fewer than three credible sources.
	if update.VerificationStatus != model.VerificationVerified {
		t.Errorf("status = %s, want verified", update.VerificationStatus)
	}
	if update.AcademicCitationCount == nil || *update.AcademicCitationCount != 2 {
		t.Errorf("academic citations = %v, want 2", update.AcademicCitationCount)
	}
}

func TestAgent_VerifyTopic_InsufficientSources(t *testing.T) {
	p := &fakeProvider{results: []search.Result{
		{URL: "https://someone.substack.com/p/rumor", Snippet: "Something big happened at the plant today everyone. "},
	}}

	update, _, err := newAgent(p).VerifyTopic(context.Background(), model.Topic{ID: "t3", Title: "plant rumor"})
	if err != nil {
		t.Fatal(err)
	}

	if update.VerificationStatus != model.VerificationInsufficient {
		t.Errorf("status = %s, want insufficient_sources", update.VerificationStatus)
	}
	if update.VerifiedFacts == nil || update.VerifiedFacts.SourceSummary.MeetsThreshold {
		t.Error("summary must record that the threshold was not met")
	}
}

// Threshold met but the claims are in dispute: the topic is admitted
// only as partial.
func TestAgent_VerifyTopic_ContradictedClaimsArePartial(t *testing.T) {
	p := &fakeProvider{results: []search.Result{
		{URL: "https://www.dol.gov/filing-1", Snippet: "The company laid off 500 workers at the Dayton assembly plant. "},
		{URL: "https://apnews.com/article/2", Snippet: "The company laid off 500 workers at the Dayton assembly plant. "},
		{URL: "https://reuters.com/article/3", Snippet: "The company laid off 620 workers at the Dayton assembly plant. "},
	}}

	update, _, err := newAgent(p).VerifyTopic(context.Background(), model.Topic{ID: "t4", Title: "dayton layoffs"})
	if err != nil {
		t.Fatal(err)
	}

	if update.VerificationStatus != model.VerificationPartial {
		t.Errorf("status = %s, want partial", update.VerificationStatus)
	}
	if update.SourcePlan == nil || update.SourcePlan.VerificationNotes == "" {
		t.Error("the plan should flag the contradiction for editorial attention")
	}
}

// Re-running verification over an unchanged evidence set settles on
// the same outcome.
func TestAgent_VerifyTopic_RepeatRunsAgree(t *testing.T) {
	sentence := "The company laid off 500 workers at the Dayton assembly plant. "
	p := &fakeProvider{results: []search.Result{
		{URL: "https://www.dol.gov/filing-1", Snippet: sentence},
		{URL: "https://apnews.com/article/2", Snippet: sentence},
		{URL: "https://reuters.com/article/3", Snippet: sentence},
	}}
	a := newAgent(p)
	topic := model.Topic{ID: "t6", Title: "dayton layoffs"}

	first, _, err := a.VerifyTopic(context.Background(), topic)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := a.VerifyTopic(context.Background(), topic)
	if err != nil {
		t.Fatal(err)
	}

	if first.VerificationStatus != second.VerificationStatus {
		t.Errorf("status changed between runs: %s then %s",
			first.VerificationStatus, second.VerificationStatus)
	}
	if *first.SourceCount != *second.SourceCount {
		t.Errorf("source count changed between runs: %d then %d",
			*first.SourceCount, *second.SourceCount)
	}
	if *first.AcademicCitationCount != *second.AcademicCitationCount {
		t.Errorf("academic count changed between runs: %d then %d",
			*first.AcademicCitationCount, *second.AcademicCitationCount)
	}
	if first.VerifiedFacts.SourceSummary != second.VerifiedFacts.SourceSummary {
		t.Errorf("source summary changed between runs:\n%+v\n%+v",
			first.VerifiedFacts.SourceSummary, second.VerifiedFacts.SourceSummary)
	}
	if len(first.VerifiedFacts.Facts) != len(second.VerifiedFacts.Facts) {
		t.Errorf("claim count changed between runs: %d then %d",
			len(first.VerifiedFacts.Facts), len(second.VerifiedFacts.Facts))
	}
}

func TestAgent_VerifyTopic_SearchWipeoutIsFailed(t *testing.T) {
	p := &fakeProvider{err: errors.New("all engines down")}

	update, _, err := newAgent(p).VerifyTopic(context.Background(), model.Topic{ID: "t5", Title: "anything"})
	if err == nil {
		t.Fatal("expected an error on total search failure")
	}
	if update.VerificationStatus != model.VerificationFailed {
		t.Errorf("status = %s, want failed (retryable)", update.VerificationStatus)
	}
}

func TestTally(t *testing.T) {
	sources := []model.Source{
		{Tier: model.TierPrimary, Kind: model.KindAcademic},
		{Tier: model.TierPrimary, Kind: model.KindGovernment},
		{Tier: model.TierProfessional, Kind: model.KindWireService},
		{Tier: model.TierDocumentary, Kind: model.KindRegionalOutlet},
		{Tier: model.TierUnverified, Kind: model.KindBlog},
	}

	credible, academic := Tally(sources)
	if credible != 3 {
		t.Errorf("credible = %d, want 3 (tiers 1 and 2 only)", credible)
	}
	if academic != 1 {
		t.Errorf("academic = %d, want 1", academic)
	}
}

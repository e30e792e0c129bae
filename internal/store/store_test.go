package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func approvedTopic(id string) model.Topic {
	return model.Topic{
		ID:                  id,
		Title:               "warehouse walkout",
		Status:              model.StatusApproved,
		VerificationStatus:  model.VerificationPending,
		NewsworthinessScore: 70,
		DiscoveredAt:        time.Now().Add(-2 * time.Hour),
	}
}

func TestStore_SaveAndGetTopic_Roundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	topic := approvedTopic("t1")
	topic.VerifiedFacts = &model.VerifiedFacts{
		Facts: []model.Claim{{
			Text:       "The company laid off 500 workers",
			Type:       model.FactClaimed,
			Sources:    []string{"https://apnews.com/1", "https://reuters.com/2"},
			Confidence: model.ConfidenceHigh,
		}},
		SourceSummary: model.SourceSummary{TotalSources: 2, CredibleSources: 2, MeetsThreshold: false, SourceAgreementScore: 1},
	}
	topic.SourcePlan = &model.SourcePlan{
		PrimarySources:      []model.SourceRef{{Name: "DOL", URL: "https://dol.gov/x", CredibilityTier: model.TierPrimary}},
		AttributionStrategy: "Lead with primary documents.",
	}

	if err := s.SaveTopic(ctx, topic); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTopic(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != topic.Title || got.Status != topic.Status || got.VerificationStatus != model.VerificationPending {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if got.VerifiedFacts == nil || len(got.VerifiedFacts.Facts) != 1 {
		t.Fatalf("verified facts lost in roundtrip: %+v", got.VerifiedFacts)
	}
	if got.VerifiedFacts.Facts[0].Confidence != model.ConfidenceHigh {
		t.Errorf("claim confidence lost: %+v", got.VerifiedFacts.Facts[0])
	}
	if got.SourcePlan == nil || len(got.SourcePlan.PrimarySources) != 1 {
		t.Errorf("source plan lost in roundtrip: %+v", got.SourcePlan)
	}
}

func TestStore_GetTopic_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetTopic(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ApplyUpdate_ForwardOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveTopic(ctx, approvedTopic("t1")); err != nil {
		t.Fatal(err)
	}

	steps := []model.VerificationStatus{
		model.VerificationInProgress,
		model.VerificationVerified,
	}
	for _, status := range steps {
		if err := s.ApplyUpdate(ctx, model.TopicUpdate{TopicID: "t1", VerificationStatus: status}); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	// Downgrading a verified topic must be rejected.
	err := s.ApplyUpdate(ctx, model.TopicUpdate{TopicID: "t1", VerificationStatus: model.VerificationInsufficient})
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition on downgrade, got %v", err)
	}

	got, err := s.GetTopic(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.VerificationStatus != model.VerificationVerified {
		t.Errorf("rejected update must not change state, got %s", got.VerificationStatus)
	}
}

func TestStore_ApplyUpdate_MergesPointerFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveTopic(ctx, approvedTopic("t1")); err != nil {
		t.Fatal(err)
	}

	update := model.TopicUpdate{
		TopicID:                 "t1",
		SourceCount:             model.IntPtr(4),
		Investigated:            model.BoolPtr(true),
		InvestigationConfidence: model.FloatPtr(0.82),
	}
	if err := s.ApplyUpdate(ctx, update); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTopic(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.SourceCount != 4 || !got.Investigated || got.InvestigationConfidence != 0.82 {
		t.Errorf("pointer fields not merged: %+v", got)
	}
	// Status was not part of the update and must be untouched.
	if got.VerificationStatus != model.VerificationPending {
		t.Errorf("status changed without being set: %s", got.VerificationStatus)
	}
}

func TestStore_PendingApproved_OrderedByNewsworthiness(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := approvedTopic("low")
	a.NewsworthinessScore = 40
	b := approvedTopic("high")
	b.NewsworthinessScore = 90
	c := approvedTopic("suggested")
	c.Status = model.StatusSuggested
	d := approvedTopic("done")
	d.VerificationStatus = model.VerificationVerified

	for _, topic := range []model.Topic{a, b, c, d} {
		if err := s.SaveTopic(ctx, topic); err != nil {
			t.Fatal(err)
		}
	}

	topics, err := s.PendingApproved(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 pending approved topics, got %d", len(topics))
	}
	if topics[0].ID != "high" || topics[1].ID != "low" {
		t.Errorf("expected newsworthiness ordering, got %s then %s", topics[0].ID, topics[1].ID)
	}
}

func TestStore_EligibleForEscalation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	policy := EscalationPolicy{ImportanceFloor: 50, MinSources: 3}

	eligible := approvedTopic("eligible")
	eligible.VerificationStatus = model.VerificationInsufficient
	eligible.SourceCount = 1

	unimportant := approvedTopic("unimportant")
	unimportant.VerificationStatus = model.VerificationInsufficient
	unimportant.NewsworthinessScore = 30

	sourced := approvedTopic("sourced")
	sourced.VerificationStatus = model.VerificationInsufficient
	sourced.SourceCount = 3

	investigated := approvedTopic("investigated")
	investigated.VerificationStatus = model.VerificationUnverified
	investigated.Investigated = true

	for _, topic := range []model.Topic{eligible, unimportant, sourced, investigated} {
		if err := s.SaveTopic(ctx, topic); err != nil {
			t.Fatal(err)
		}
	}

	topics, err := s.EligibleForEscalation(ctx, policy)
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 1 || topics[0].ID != "eligible" {
		t.Errorf("expected only the eligible topic, got %+v", topics)
	}
}

func TestStore_EligibleForEscalation_ReinvestigateAfterCooldown(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	topic := approvedTopic("t1")
	topic.VerificationStatus = model.VerificationInsufficient
	topic.Investigated = true
	if err := s.SaveTopic(ctx, topic); err != nil {
		t.Fatal(err)
	}

	old := model.InvestigationResult{
		ID:             "inv1",
		TopicID:        "t1",
		InvestigatedAt: time.Now().Add(-72 * time.Hour),
		Recommended:    model.VerificationInsufficient,
	}
	if err := s.SaveInvestigation(ctx, old); err != nil {
		t.Fatal(err)
	}

	off := EscalationPolicy{ImportanceFloor: 50, MinSources: 3}
	topics, err := s.EligibleForEscalation(ctx, off)
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 0 {
		t.Errorf("re-investigation disabled: expected no topics, got %d", len(topics))
	}

	on := EscalationPolicy{ImportanceFloor: 50, MinSources: 3, Reinvestigate: true, Cooldown: 24 * time.Hour}
	topics, err = s.EligibleForEscalation(ctx, on)
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 1 {
		t.Errorf("cooldown elapsed: expected the topic back, got %d", len(topics))
	}
}

func TestStore_Investigations_LatestWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveTopic(ctx, approvedTopic("t1")); err != nil {
		t.Fatal(err)
	}

	first := model.InvestigationResult{
		ID: "inv1", TopicID: "t1",
		InvestigatedAt: time.Now().Add(-time.Hour),
		Recommended:    model.VerificationInsufficient,
		Confidence:     0.3,
	}
	second := model.InvestigationResult{
		ID: "inv2", TopicID: "t1",
		InvestigatedAt: time.Now(),
		Recommended:    model.VerificationVerified,
		Confidence:     0.8,
	}
	for _, res := range []model.InvestigationResult{first, second} {
		if err := s.SaveInvestigation(ctx, res); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.LatestInvestigation(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "inv2" || got.Recommended != model.VerificationVerified {
		t.Errorf("expected the latest investigation, got %+v", got)
	}

	if _, err := s.LatestInvestigation(ctx, "other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown topic, got %v", err)
	}
}

// Package pipeline orchestrates verification end to end: it drains the
// approved-topic queue through the primary pass and escalates the
// under-evidenced leftovers to the investigation agent.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dailyworker-news/DWnews-sub003/internal/investigate"
	"github.com/dailyworker-news/DWnews-sub003/internal/logging"
	"github.com/dailyworker-news/DWnews-sub003/internal/model"
	"github.com/dailyworker-news/DWnews-sub003/internal/store"
	"github.com/dailyworker-news/DWnews-sub003/internal/verify"
)

// Summary reports what one pipeline run did.
type Summary struct {
	Processed    int
	Verified     int
	Partial      int
	Insufficient int
	Failed       int
	Escalated    int
	Certified    int
}

// Runner drives topics through verification one at a time. Topics are
// independent, so a failure on one only marks that topic failed and
// the run continues.
type Runner struct {
	store        *store.Store
	verifier     *verify.Agent
	investigator *investigate.Agent // nil when escalation is disabled
	escalation   model.EscalationConfig
	log          *log.Logger
}

// NewRunner wires the pipeline. investigator may be nil.
func NewRunner(st *store.Store, verifier *verify.Agent, investigator *investigate.Agent, escalation model.EscalationConfig) *Runner {
	return &Runner{
		store:        st,
		verifier:     verifier,
		investigator: investigator,
		escalation:   escalation,
		log:          logging.WithPrefix("pipeline"),
	}
}

// Run processes every approved topic awaiting verification, most
// newsworthy first, escalating eligible leftovers in the same pass.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	topics, err := r.store.PendingApproved(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("pipeline run: %w", err)
	}

	var sum Summary
	for _, t := range topics {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		status, escalated, err := r.processTopic(ctx, t)
		if err != nil {
			r.log.Error("topic failed", "topic", t.ID, "err", err)
			sum.Failed++
			sum.Processed++
			continue
		}
		sum.Processed++
		if escalated {
			sum.Escalated++
		}
		switch status {
		case model.VerificationVerified:
			sum.Verified++
		case model.VerificationCertified:
			sum.Certified++
		case model.VerificationPartial:
			sum.Partial++
		case model.VerificationInsufficient, model.VerificationUnverified:
			sum.Insufficient++
		}
	}

	r.log.Info("run complete",
		"processed", sum.Processed,
		"verified", sum.Verified,
		"certified", sum.Certified,
		"partial", sum.Partial,
		"insufficient", sum.Insufficient,
		"failed", sum.Failed,
		"escalated", sum.Escalated,
	)
	return sum, nil
}

// RunTopic verifies a single topic by id, escalating if eligible.
func (r *Runner) RunTopic(ctx context.Context, id string) (model.Topic, error) {
	t, err := r.store.GetTopic(ctx, id)
	if err != nil {
		return model.Topic{}, err
	}
	if t.Status != model.StatusApproved {
		return model.Topic{}, fmt.Errorf("topic %s is %s, only approved topics are verified", id, t.Status)
	}
	if _, _, err := r.processTopic(ctx, t); err != nil {
		return model.Topic{}, err
	}
	return r.store.GetTopic(ctx, id)
}

// processTopic runs the primary pass for one topic and escalates when
// the trigger predicate holds. Returns the final status.
func (r *Runner) processTopic(ctx context.Context, t model.Topic) (model.VerificationStatus, bool, error) {
	if err := r.store.ApplyUpdate(ctx, model.TopicUpdate{
		TopicID:            t.ID,
		VerificationStatus: model.VerificationInProgress,
	}); err != nil {
		return "", false, fmt.Errorf("mark in progress: %w", err)
	}

	update, ranked, verr := r.verifier.VerifyTopic(ctx, t)
	if err := r.store.ApplyUpdate(ctx, update); err != nil {
		return "", false, fmt.Errorf("apply verification result: %w", err)
	}
	if verr != nil {
		return update.VerificationStatus, false, verr
	}

	current, err := r.store.GetTopic(ctx, t.ID)
	if err != nil {
		return update.VerificationStatus, false, err
	}

	if r.investigator == nil || !r.escalation.Enabled {
		return current.VerificationStatus, false, nil
	}
	var last time.Time
	if current.Investigated {
		if prev, err := r.store.LatestInvestigation(ctx, t.ID); err == nil {
			last = prev.InvestigatedAt
		}
	}
	if err := r.investigator.Eligible(current, last); err != nil {
		r.log.Debug("not escalating", "topic", t.ID, "reason", err)
		return current.VerificationStatus, false, nil
	}

	final, err := r.escalate(ctx, current, ranked)
	if err != nil {
		// An escalation failure doesn't undo the primary result.
		r.log.Error("escalation failed", "topic", t.ID, "err", err)
		return current.VerificationStatus, false, nil
	}
	return final, true, nil
}

// RunEscalations sweeps stored topics matching the trigger predicate,
// independent of a verification run. Used for retries after transient
// search failures and for re-investigation when enabled.
func (r *Runner) RunEscalations(ctx context.Context) (Summary, error) {
	if r.investigator == nil || !r.escalation.Enabled {
		return Summary{}, errors.New("pipeline: escalation is disabled")
	}

	topics, err := r.store.EligibleForEscalation(ctx, store.EscalationPolicy{
		ImportanceFloor: r.escalation.ImportanceFloor,
		MinSources:      r.investigator.MinSources(),
		Reinvestigate:   r.escalation.Reinvestigate,
		Cooldown:        r.escalation.Cooldown,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("escalation sweep: %w", err)
	}

	var sum Summary
	for _, t := range topics {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		status, err := r.escalate(ctx, t, nil)
		if err != nil {
			r.log.Error("escalation failed", "topic", t.ID, "err", err)
			sum.Failed++
			continue
		}
		sum.Escalated++
		switch status {
		case model.VerificationVerified:
			sum.Verified++
		case model.VerificationCertified:
			sum.Certified++
		}
	}
	return sum, nil
}

// InvestigateTopic escalates one topic by id. force bypasses the
// eligibility predicate but never the approved-status requirement.
func (r *Runner) InvestigateTopic(ctx context.Context, id string, force bool) (model.InvestigationResult, error) {
	if r.investigator == nil {
		return model.InvestigationResult{}, errors.New("pipeline: escalation is disabled")
	}

	t, err := r.store.GetTopic(ctx, id)
	if err != nil {
		return model.InvestigationResult{}, err
	}
	if t.Status != model.StatusApproved {
		return model.InvestigationResult{}, fmt.Errorf("topic %s is %s, only approved topics are investigated", id, t.Status)
	}

	if !force {
		var last time.Time
		if prev, err := r.store.LatestInvestigation(ctx, id); err == nil {
			last = prev.InvestigatedAt
		}
		if err := r.investigator.Eligible(t, last); err != nil {
			return model.InvestigationResult{}, err
		}
	}

	res, update, err := r.investigator.Investigate(ctx, t, nil)
	if err != nil {
		return model.InvestigationResult{}, err
	}

	if err := r.store.SaveInvestigation(ctx, res); err != nil {
		return model.InvestigationResult{}, err
	}
	if err := r.store.ApplyUpdate(ctx, update); err != nil {
		return model.InvestigationResult{}, err
	}
	return res, nil
}

// escalate runs the investigation agent and persists both the record
// and the upgrade, in that order: the investigation record survives
// even if the status write is rejected.
func (r *Runner) escalate(ctx context.Context, t model.Topic, ranked []model.Source) (model.VerificationStatus, error) {
	res, update, err := r.investigator.Investigate(ctx, t, ranked)
	if err != nil {
		return t.VerificationStatus, err
	}

	if err := r.store.SaveInvestigation(ctx, res); err != nil {
		return t.VerificationStatus, err
	}
	if err := r.store.ApplyUpdate(ctx, update); err != nil {
		return t.VerificationStatus, err
	}

	if update.VerificationStatus != "" {
		return update.VerificationStatus, nil
	}
	return t.VerificationStatus, nil
}

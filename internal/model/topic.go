package model

import "time"

// TopicStatus is the upstream editorial workflow state. Discovery and
// evaluation set it; this subsystem only reads it as a guard.
type TopicStatus string

const (
	StatusSuggested TopicStatus = "suggested"
	StatusApproved  TopicStatus = "approved"
	StatusRejected  TopicStatus = "rejected"
	StatusDrafting  TopicStatus = "drafting"
)

// VerificationStatus describes the evidentiary sufficiency of a topic.
type VerificationStatus string

const (
	VerificationPending      VerificationStatus = "pending"
	VerificationInProgress   VerificationStatus = "in_progress"
	VerificationVerified     VerificationStatus = "verified"
	VerificationCertified    VerificationStatus = "certified"
	VerificationPartial      VerificationStatus = "partial"
	VerificationInsufficient VerificationStatus = "insufficient_sources"
	VerificationUnverified   VerificationStatus = "unverified"
	VerificationFailed       VerificationStatus = "failed"
)

// Settled reports whether the status is a primary-pass outcome rather
// than an intermediate state.
func (s VerificationStatus) Settled() bool {
	switch s {
	case VerificationPending, VerificationInProgress:
		return false
	}
	return true
}

// Publishable reports whether downstream drafting may proceed.
func (s VerificationStatus) Publishable() bool {
	return s == VerificationVerified || s == VerificationCertified
}

// Escalatable reports whether the status is one the investigation
// agent may pick up.
func (s VerificationStatus) Escalatable() bool {
	return s == VerificationInsufficient || s == VerificationUnverified
}

// CanTransition reports whether moving from s to next is a legal
// forward transition. Verification state only moves forward:
// pending -> in_progress -> outcome. A failed topic may be retried,
// and an under-evidenced topic may be upgraded by investigation, but
// a verified or certified topic is never downgraded.
func (s VerificationStatus) CanTransition(next VerificationStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case VerificationPending:
		return next == VerificationInProgress
	case VerificationInProgress:
		switch next {
		case VerificationVerified, VerificationPartial, VerificationInsufficient,
			VerificationUnverified, VerificationFailed, VerificationCertified:
			return true
		}
	case VerificationFailed:
		return next == VerificationInProgress
	case VerificationInsufficient, VerificationUnverified, VerificationPartial:
		switch next {
		case VerificationVerified, VerificationCertified, VerificationInProgress,
			VerificationInsufficient, VerificationUnverified:
			return true
		}
	case VerificationVerified:
		return next == VerificationCertified
	}
	return false
}

// Topic is a candidate news event under evaluation. Created upstream
// by discovery; mutated here only through TopicUpdate commands.
type Topic struct {
	ID                      string             `json:"id"`
	Title                   string             `json:"title"`
	Description             string             `json:"description,omitempty"`
	Category                string             `json:"category,omitempty"`
	Region                  string             `json:"region,omitempty"`
	Regional                bool               `json:"regional"`
	NewsworthinessScore     int                `json:"newsworthiness_score"` // 0-100, set by evaluation
	Status                  TopicStatus        `json:"status"`
	VerificationStatus      VerificationStatus `json:"verification_status"`
	SourceCount             int                `json:"source_count"`
	AcademicCitationCount   int                `json:"academic_citation_count"`
	VerifiedFacts           *VerifiedFacts     `json:"verified_facts,omitempty"`
	SourcePlan              *SourcePlan        `json:"source_plan,omitempty"`
	Investigated            bool               `json:"investigated"`
	InvestigationConfidence float64            `json:"investigation_confidence,omitempty"`
	DiscoveredAt            time.Time          `json:"discovered_at"`
	CreatedAt               time.Time          `json:"created_at"`
	UpdatedAt               time.Time          `json:"updated_at"`
}

// TopicUpdate is a state transition expressed as a value. Agents
// return these; the store is the single writer that applies them.
// Nil pointer fields are left untouched.
type TopicUpdate struct {
	TopicID                 string
	VerificationStatus      VerificationStatus
	SourceCount             *int
	AcademicCitationCount   *int
	VerifiedFacts           *VerifiedFacts
	SourcePlan              *SourcePlan
	Investigated            *bool
	InvestigationConfidence *float64
}

// IntPtr and BoolPtr are small helpers for building TopicUpdate values.
func IntPtr(v int) *int           { return &v }
func BoolPtr(v bool) *bool        { return &v }
func FloatPtr(v float64) *float64 { return &v }

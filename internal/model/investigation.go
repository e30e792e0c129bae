package model

import "time"

// SocialSource is an evidence item from a social platform, used only
// by the escalation path.
type SocialSource struct {
	Platform        string    `json:"platform"` // "twitter", "reddit"
	Author          string    `json:"author"`
	AuthorScore     int       `json:"author_score"` // 0-100 account credibility
	PostedAt        time.Time `json:"posted_at"`
	Content         string    `json:"content"`
	URL             string    `json:"url,omitempty"`
	Engagement      int       `json:"engagement"` // likes+shares or upvotes
	AccountVerified bool      `json:"account_verified"`
	AccountAgeDays  int       `json:"account_age_days,omitempty"`
	Followers       int       `json:"followers,omitempty"` // followers or karma
	ProfileComplete bool      `json:"profile_complete,omitempty"`
	IsRepost        bool      `json:"is_repost,omitempty"`
	Eyewitness      bool      `json:"eyewitness,omitempty"`
	EyewitnessScore float64   `json:"eyewitness_score,omitempty"`
}

// TimelineEvent is a chronologically placed piece of evidence.
type TimelineEvent struct {
	At            time.Time `json:"at"`
	Description   string    `json:"description"`
	URL           string    `json:"url,omitempty"`
	Origin        string    `json:"origin"` // provider or platform name
	Engagement    int       `json:"engagement,omitempty"`
	Corroboration int       `json:"corroboration,omitempty"` // independent sources in the same cluster
	Significance  float64   `json:"significance"`            // 0-100
	KeyMoment     bool      `json:"key_moment"`
}

// InvestigationResult is the output of one escalation attempt.
type InvestigationResult struct {
	ID                string             `json:"id"`
	TopicID           string             `json:"topic_id"`
	InvestigatedAt    time.Time          `json:"investigated_at"`
	AdditionalSources []SourceRef        `json:"additional_sources"`
	SocialEvidence    []SocialSource     `json:"social_evidence,omitempty"`
	OriginatingSource *SourceRef         `json:"originating_source,omitempty"`
	Timeline          []TimelineEvent    `json:"timeline,omitempty"`
	CredibilityScore  float64            `json:"credibility_score"` // 0-1
	ConsistencyScore  float64            `json:"consistency_score"` // 0-1
	ContextScore      float64            `json:"context_score"`     // 0-1
	VerifiedClaims    []Claim            `json:"verified_claims"`
	DisputedClaims    []Claim            `json:"disputed_claims"`
	Recommended       VerificationStatus `json:"recommended_verification"`
	Confidence        float64            `json:"confidence"` // weighted blend, 0-1
	NeedsHumanReview  bool               `json:"needs_human_review"`
	ReviewReason      string             `json:"review_reason,omitempty"`
	Notes             string             `json:"notes,omitempty"`
}

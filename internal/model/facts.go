package model

// VerifiedFacts is the structured verification output read by article
// drafting. It is serialized to JSON only at the storage boundary;
// everything in between operates on the typed form.
type VerifiedFacts struct {
	Facts         []Claim       `json:"facts"`
	SourceSummary SourceSummary `json:"source_summary"`
}

// SourceSummary aggregates the evidence behind a verification outcome.
type SourceSummary struct {
	TotalSources         int     `json:"total_sources"`
	CredibleSources      int     `json:"credible_sources"`
	AcademicCitations    int     `json:"academic_citations"`
	MeetsThreshold       bool    `json:"meets_threshold"`
	SourceAgreementScore float64 `json:"source_agreement_score"` // corroborated claims / total claims
}

// SourceRef is a ranked source reference inside an attribution plan.
type SourceRef struct {
	Name             string          `json:"name"`
	URL              string          `json:"url"`
	Type             SourceKind      `json:"type"`
	CredibilityTier  CredibilityTier `json:"credibility_tier"`
	CredibilityScore int             `json:"credibility_score"`
}

// SourcePlan tells drafting how to attribute the story.
type SourcePlan struct {
	PrimarySources      []SourceRef `json:"primary_sources"`
	SupportingSources   []SourceRef `json:"supporting_sources"`
	AttributionStrategy string      `json:"attribution_strategy"`
	VerificationNotes   string      `json:"verification_notes,omitempty"`
}

package model

import "time"

// SourceKind classifies what a source is, independent of its content.
type SourceKind string

const (
	KindGovernment     SourceKind = "government"      // government or court document
	KindAcademic       SourceKind = "academic"        // peer-reviewed paper
	KindOfficialOrg    SourceKind = "official_org"    // direct organizational statement
	KindWireService    SourceKind = "wire_service"    // AP, Reuters, AFP and peers
	KindInvestigative  SourceKind = "investigative"   // investigative outlet
	KindMajorNewspaper SourceKind = "major_newspaper" // national papers of record
	KindLaborPress     SourceKind = "labor_press"     // specialist labor reporting
	KindPublicRecord   SourceKind = "public_record"   // registries, filings portals
	KindVerifiedSocial SourceKind = "verified_social" // verified official account
	KindRegionalOutlet SourceKind = "regional_outlet" // local and regional press
	KindSocialPost     SourceKind = "social_post"     // unverified social post
	KindBlog           SourceKind = "blog"            // blogs, personal sites
	KindAnonymous      SourceKind = "anonymous"       // unnamed or unclassifiable
)

// CredibilityTier is the 1-4 credibility classification of a source.
// Tier is derived purely from the source's kind and verifiable
// attributes, never from whether its content agrees with the topic.
type CredibilityTier int

const (
	TierPrimary      CredibilityTier = 1 // named primary sources (90-100)
	TierProfessional CredibilityTier = 2 // professional editorial organizations (70-89)
	TierDocumentary  CredibilityTier = 3 // documentary evidence, regional press (50-69)
	TierUnverified   CredibilityTier = 4 // anonymous or unverified (0-49)
	TierUnclassified CredibilityTier = 0
)

func (t CredibilityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierProfessional:
		return "professional"
	case TierDocumentary:
		return "documentary"
	case TierUnverified:
		return "unverified"
	default:
		return "unclassified"
	}
}

// Credible reports whether the tier counts toward the minimum-evidence
// threshold. Only Tier 1 and Tier 2 sources are credible.
func (t CredibilityTier) Credible() bool {
	return t == TierPrimary || t == TierProfessional
}

// ScoreBand returns the inclusive credibility score range for the tier.
func (t CredibilityTier) ScoreBand() (low, high int) {
	switch t {
	case TierPrimary:
		return 90, 100
	case TierProfessional:
		return 70, 89
	case TierDocumentary:
		return 50, 69
	default:
		return 0, 49
	}
}

// Source is a discovered reference: a document, article, or post.
type Source struct {
	URL       string          `json:"url"`
	Publisher string          `json:"publisher,omitempty"`
	Title     string          `json:"title,omitempty"`
	Snippet   string          `json:"snippet,omitempty"`
	Text      string          `json:"text,omitempty"` // fetched body text, when available
	Published time.Time       `json:"published,omitempty"`
	FoundBy   string          `json:"found_by,omitempty"` // search provider name
	Kind      SourceKind      `json:"kind,omitempty"`
	Tier      CredibilityTier `json:"credibility_tier,omitempty"`
	Score     int             `json:"credibility_score,omitempty"`

	// Social attributes, populated only for social evidence.
	SocialVerified bool `json:"social_verified,omitempty"`
}

// Academic reports whether the source counts as an academic citation.
func (s Source) Academic() bool {
	return s.Kind == KindAcademic
}

// BodyText returns the best available text for claim extraction.
func (s Source) BodyText() string {
	if s.Text != "" {
		return s.Text
	}
	if s.Snippet != "" {
		return s.Snippet
	}
	return s.Title
}

// Ref converts a ranked source into the attribution-plan reference form.
func (s Source) Ref() SourceRef {
	name := s.Publisher
	if name == "" {
		name = s.Title
	}
	return SourceRef{
		Name:             name,
		URL:              s.URL,
		Type:             s.Kind,
		CredibilityTier:  s.Tier,
		CredibilityScore: s.Score,
	}
}

package model

// FactType labels the nature of a claim, orthogonal to whether it is
// corroborated. Classification never depends on agreement with other
// claims.
type FactType string

const (
	FactObserved    FactType = "observed"    // firsthand documentation: counts, rulings, footage
	FactClaimed     FactType = "claimed"     // secondhand attributed reporting
	FactInterpreted FactType = "interpreted" // analysis, prediction, opinion
)

// Confidence is the corroboration confidence of a claim.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Claim is an atomic factual assertion extracted from source text:
// a number, date, name, quoted statement, or characterization.
type Claim struct {
	Text            string     `json:"claim"`
	Type            FactType   `json:"type,omitempty"`
	Sources         []string   `json:"sources"` // URLs of supporting sources
	Confidence      Confidence `json:"confidence"`
	ConflictingInfo string     `json:"conflicting_info,omitempty"`
	Heuristic       string     `json:"heuristic,omitempty"` // which extraction rule matched
}

// Corroborated reports whether at least two independent sources back
// the claim. A single-source claim can never be corroborated.
func (c Claim) Corroborated() bool {
	return len(c.Sources) >= 2 && c.ConflictingInfo == ""
}

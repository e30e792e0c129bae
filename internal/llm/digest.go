// Package llm produces the optional editor-facing digest of an
// investigation. The digest is prose for humans; it never feeds back
// into any verification verdict, and it may only cite URLs from the
// evidence the investigation actually gathered.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// Digester generates investigation digests.
type Digester interface {
	Name() string
	Digest(ctx context.Context, req DigestRequest) (*DigestResponse, error)
}

// DigestRequest carries one investigation and its citation allowlist.
type DigestRequest struct {
	Topic  model.Topic
	Result model.InvestigationResult

	// EvidenceURLs is the strict allowlist. A response citing any URL
	// outside it is rejected rather than repaired.
	EvidenceURLs []string
}

// DigestResponse is the generated digest.
type DigestResponse struct {
	Text       string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

const systemPrompt = "You are a newsroom research assistant. You describe evidence quality, never truth, and you only cite URLs you were explicitly given."

// buildPrompt renders the default digest prompt. The model is told
// about support quality, not truth, and is boxed into the allowlist.
func buildPrompt(topic model.Topic, res model.InvestigationResult, evidenceURLs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Write a 3-4 sentence digest of this verification investigation for an editor.

RULES:
1. Cite ONLY URLs from this list:
%s
2. Describe evidence quality, never truth. Say "supported by N sources", not "this is true".
3. If the evidence is thin or contradictory, say so explicitly.

Topic: %s
Recommended level: %s (confidence %.2f)
Sources gathered: %d
Claims corroborated: %d, disputed: %d
`,
		listURLs(evidenceURLs), topic.Title, res.Recommended, res.Confidence,
		len(res.AdditionalSources), len(res.VerifiedClaims), len(res.DisputedClaims))

	if res.OriginatingSource != nil {
		fmt.Fprintf(&b, "Earliest credible mention: %s (tier %d)\n",
			res.OriginatingSource.Name, res.OriginatingSource.CredibilityTier)
	}
	if res.NeedsHumanReview {
		fmt.Fprintf(&b, "Flagged for human review: %s\n", res.ReviewReason)
	}
	if len(res.SocialEvidence) > 0 {
		fmt.Fprintf(&b, "Social evidence: %d original posts\n", len(res.SocialEvidence))
	}

	return b.String()
}

func listURLs(urls []string) string {
	if len(urls) == 0 {
		return "(no evidence URLs available)"
	}
	var b strings.Builder
	for i, u := range urls {
		if i >= 20 {
			fmt.Fprintf(&b, "\n... and %d more", len(urls)-20)
			break
		}
		fmt.Fprintf(&b, "\n- %s", u)
	}
	return b.String()
}

var urlPattern = regexp.MustCompile(`https?://[^\s)]+`)

func extractURLs(text string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique
}

// checkCitations rejects any cited URL outside the allowlist.
func checkCitations(cited, allowed []string) error {
	ok := make(map[string]bool, len(allowed))
	for _, u := range allowed {
		ok[u] = true
	}
	for _, u := range cited {
		if !ok[u] {
			return fmt.Errorf("digest cited disallowed URL: %s", u)
		}
	}
	return nil
}

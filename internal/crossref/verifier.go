// Package crossref extracts atomic claims from ranked sources and
// checks how many independent sources corroborate each one.
//
// Contradictions between sources on the same discrete fact are
// recorded on the claim, never resolved by majority vote.
package crossref

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

var (
	numberPattern = regexp.MustCompile(`\d[\d,.]*`)
	datePattern   = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}\b|\b(19|20)\d{2}\b`)
	quotePattern  = regexp.MustCompile(`["\x{201c}][^"\x{201c}\x{201d}]{10,}["\x{201d}]`)
	entityPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true,
	"have": true, "in": true, "is": true, "it": true, "its": true,
	"of": true, "on": true, "or": true, "that": true, "the": true,
	"to": true, "was": true, "were": true, "will": true, "with": true,
	"this": true, "their": true, "they": true, "after": true, "over": true,
}

// Verifier extracts and cross-references claims.
type Verifier struct {
	minSentence int
	maxSentence int
}

// New creates a cross-reference verifier.
func New() *Verifier {
	return &Verifier{minSentence: 25, maxSentence: 400}
}

// Outcome is the result of cross-referencing one topic's sources.
type Outcome struct {
	Claims         []model.Claim
	AgreementScore float64 // corroborated claims / total claims, in [0,1]
	Contradictions int
}

// claimGroup accumulates the same assertion seen across sources.
type claimGroup struct {
	text      string
	heuristic string
	sources   []model.Source
	seen      map[string]bool   // URL dedupe
	figures   map[string]string // canonical number -> source URL
}

// Verify extracts claims from every source and counts independent
// corroboration per claim. No single source may be the sole basis for
// a high-confidence claim.
func (v *Verifier) Verify(sources []model.Source) Outcome {
	groups := make(map[string]*claimGroup)
	var order []string

	for _, src := range sources {
		for _, sentence := range v.splitSentences(src.BodyText()) {
			heuristic, ok := matchClaim(sentence)
			if !ok {
				continue
			}
			key := fingerprint(sentence)
			if key == "" {
				continue
			}

			g, exists := groups[key]
			if !exists {
				g = &claimGroup{
					text:      strings.TrimSpace(sentence),
					heuristic: heuristic,
					seen:      make(map[string]bool),
					figures:   make(map[string]string),
				}
				groups[key] = g
				order = append(order, key)
			}
			if !g.seen[src.URL] {
				g.seen[src.URL] = true
				g.sources = append(g.sources, src)
			}
			for _, fig := range canonicalFigures(sentence) {
				if _, dup := g.figures[fig]; !dup {
					g.figures[fig] = src.URL
				}
			}
		}
	}

	var (
		claims        []model.Claim
		corroborated  int
		contradicted  int
	)

	for _, key := range order {
		g := groups[key]
		claim := model.Claim{
			Text:      g.text,
			Heuristic: g.heuristic,
			Sources:   sourceURLs(g.sources),
		}

		if conflict := detectConflict(g); conflict != "" {
			claim.ConflictingInfo = conflict
			contradicted++
		}

		claim.Confidence = confidenceFor(g, claim.ConflictingInfo != "")
		if claim.Corroborated() && independentCount(g.sources) >= 2 {
			corroborated++
		}

		claims = append(claims, claim)
	}

	score := 0.0
	if len(claims) > 0 {
		score = float64(corroborated) / float64(len(claims))
	}

	return Outcome{
		Claims:         claims,
		AgreementScore: score,
		Contradictions: contradicted,
	}
}

// confidenceFor applies the corroboration rule: high only with at
// least two independent Tier-1/2 sources and no contradiction.
func confidenceFor(g *claimGroup, conflict bool) model.Confidence {
	credible := 0
	credibleDomains := make(map[string]bool)
	for _, s := range g.sources {
		if s.Tier.Credible() {
			d := registrableDomain(s.URL)
			if !credibleDomains[d] {
				credibleDomains[d] = true
				credible++
			}
		}
	}

	if conflict {
		if credible >= 2 {
			return model.ConfidenceMedium
		}
		return model.ConfidenceLow
	}
	if credible >= 2 {
		return model.ConfidenceHigh
	}
	if credible == 1 || independentCount(g.sources) >= 2 {
		return model.ConfidenceMedium
	}
	return model.ConfidenceLow
}

// detectConflict reports when two sources give diverging figures for
// the same discrete fact.
func detectConflict(g *claimGroup) string {
	if len(g.figures) < 2 {
		return ""
	}

	type figure struct {
		value  string
		source string
	}
	var figures []figure
	for v, src := range g.figures {
		figures = append(figures, figure{v, src})
	}
	sort.Slice(figures, func(a, b int) bool { return figures[a].value < figures[b].value })

	// Figures from the same source are elaboration, not contradiction.
	bySource := make(map[string][]string)
	for _, f := range figures {
		bySource[f.source] = append(bySource[f.source], f.value)
	}
	if len(bySource) < 2 {
		return ""
	}

	var values []string
	for _, f := range figures {
		values = append(values, f.value)
	}
	return fmt.Sprintf("sources disagree on figures: %s", strings.Join(values, " vs "))
}

// matchClaim decides whether a sentence is an atomic factual
// assertion worth tracking, and names the rule that matched.
func matchClaim(sentence string) (string, bool) {
	switch {
	case quotePattern.MatchString(sentence):
		return "quote", true
	case numberPattern.MatchString(sentence):
		return "number", true
	case datePattern.MatchString(sentence):
		return "date", true
	case strings.Contains(strings.ToLower(sentence), "according to"):
		return "attribution", true
	case entityPattern.MatchString(sentence):
		return "entity", true
	}
	return "", false
}

// fingerprint normalizes a sentence into a stable key so the same
// assertion from different sources lands in one group. Numbers are
// excluded from the key so diverging figures still collide and get
// flagged as contradictions.
func fingerprint(sentence string) string {
	cleaned := numberPattern.ReplaceAllString(strings.ToLower(sentence), " ")
	fields := strings.FieldsFunc(cleaned, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})

	tokens := make([]string, 0, len(fields))
	seen := make(map[string]bool)
	for _, f := range fields {
		if len(f) < 3 || stopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	if len(tokens) < 3 {
		return ""
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// canonicalFigures extracts normalized numeric figures from a
// sentence. Years are skipped: a shared date is agreement, not a
// countable fact in dispute.
func canonicalFigures(sentence string) []string {
	var out []string
	for _, m := range numberPattern.FindAllString(sentence, -1) {
		v := strings.ReplaceAll(m, ",", "")
		v = strings.TrimSuffix(v, ".")
		if len(v) == 4 && (strings.HasPrefix(v, "19") || strings.HasPrefix(v, "20")) {
			continue
		}
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// independentCount counts distinct registrable domains, the unit of
// source independence.
func independentCount(sources []model.Source) int {
	domains := make(map[string]bool)
	for _, s := range sources {
		domains[registrableDomain(s.URL)] = true
	}
	return len(domains)
}

// registrableDomain reduces a URL to its registrable domain so that
// syndicated copies on subdomains don't count as independent.
func registrableDomain(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}
	host := strings.ToLower(parsed.Host)
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

func sourceURLs(sources []model.Source) []string {
	urls := make([]string, 0, len(sources))
	for _, s := range sources {
		urls = append(urls, s.URL)
	}
	return urls
}

// splitSentences splits text into sentences (simple heuristic).
func (v *Verifier) splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= v.minSentence && len(sentence) <= v.maxSentence {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on abbreviations
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				flush()
			}
		}
	}
	if current.Len() > 0 {
		flush()
	}

	return sentences
}

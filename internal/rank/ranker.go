// Package rank classifies discovered sources into credibility tiers.
//
// Ranking is a pure function of source metadata (URL, publisher,
// verifiable account attributes). It never looks at whether the
// source's content agrees with the topic, and ranking the same set in
// any input order yields identical tiers.
package rank

import (
	"net/url"
	"sort"
	"strings"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
)

// Ranker maps each source to a kind, a credibility tier (1-4) and a
// numeric score (0-100) using a fixed decision table.
type Ranker struct {
	wireHosts          map[string]bool
	investigativeHosts map[string]bool
	majorPaperHosts    map[string]bool
	laborHosts         map[string]bool
	blogHosts          map[string]bool
	socialHosts        map[string]bool
}

// New creates a ranker with the built-in host tables.
func New() *Ranker {
	return &Ranker{
		wireHosts: hostSet(
			"apnews.com", "reuters.com", "afp.com", "upi.com", "bloomberg.com",
		),
		investigativeHosts: hostSet(
			"propublica.org", "icij.org", "theintercept.com", "revealnews.org",
			"bellingcat.com",
		),
		majorPaperHosts: hostSet(
			"nytimes.com", "washingtonpost.com", "wsj.com", "theguardian.com",
			"latimes.com", "ft.com",
		),
		laborHosts: hostSet(
			"labornotes.org", "inthesetimes.com", "peoplesworld.org",
			"payday-report.com",
		),
		blogHosts: hostSet(
			"medium.com", "substack.com", "blogspot.com", "wordpress.com",
			"tumblr.com",
		),
		socialHosts: hostSet(
			"twitter.com", "x.com", "reddit.com", "facebook.com", "t.me",
			"bsky.app", "mastodon.social", "tiktok.com",
		),
	}
}

// Rank classifies every source and returns a new slice with kind,
// tier and score populated, ordered by descending score with URL as a
// stable tie-break.
func (r *Ranker) Rank(sources []model.Source) []model.Source {
	ranked := make([]model.Source, len(sources))
	for i, s := range sources {
		ranked[i] = r.RankOne(s)
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].Score != ranked[b].Score {
			return ranked[a].Score > ranked[b].Score
		}
		return ranked[a].URL < ranked[b].URL
	})
	return ranked
}

// RankOne classifies a single source.
func (r *Ranker) RankOne(s model.Source) model.Source {
	s.Kind = r.Classify(s)
	s.Tier = tierFor(s.Kind)
	s.Score = scoreFor(s.Kind)
	return s
}

// Classify determines the source kind from its metadata. Detectors run
// in authority order: a source matching both a distribution channel
// and a more authoritative underlying kind (a wire service hosting a
// court filing) ranks by the underlying kind.
func (r *Ranker) Classify(s model.Source) model.SourceKind {
	host, path := splitURL(s.URL)
	if host == "" {
		return model.KindAnonymous
	}
	name := strings.ToLower(s.Publisher + " " + s.Title)

	switch {
	case isGovernment(host, path, name):
		return model.KindGovernment
	case isAcademic(host, name):
		return model.KindAcademic
	case isOfficialOrg(host, path, name):
		return model.KindOfficialOrg
	case r.matches(r.wireHosts, host):
		return model.KindWireService
	case r.matches(r.investigativeHosts, host):
		return model.KindInvestigative
	case r.matches(r.majorPaperHosts, host):
		return model.KindMajorNewspaper
	case r.matches(r.laborHosts, host) || strings.Contains(name, "union") && strings.Contains(name, "press"):
		return model.KindLaborPress
	case isPublicRecord(host, path):
		return model.KindPublicRecord
	case r.matches(r.socialHosts, host):
		if s.SocialVerified {
			return model.KindVerifiedSocial
		}
		return model.KindSocialPost
	case r.matches(r.blogHosts, host):
		return model.KindBlog
	case looksRegional(name):
		return model.KindRegionalOutlet
	}

	return model.KindAnonymous
}

// tierFor is the fixed tier decision table.
func tierFor(kind model.SourceKind) model.CredibilityTier {
	switch kind {
	case model.KindGovernment, model.KindAcademic, model.KindOfficialOrg:
		return model.TierPrimary
	case model.KindWireService, model.KindInvestigative, model.KindMajorNewspaper, model.KindLaborPress:
		return model.TierProfessional
	case model.KindPublicRecord, model.KindVerifiedSocial, model.KindRegionalOutlet:
		return model.TierDocumentary
	default:
		return model.TierUnverified
	}
}

// scoreFor places each kind at a fixed point inside its tier's band.
func scoreFor(kind model.SourceKind) int {
	switch kind {
	case model.KindGovernment:
		return 98
	case model.KindAcademic:
		return 95
	case model.KindOfficialOrg:
		return 91
	case model.KindWireService:
		return 88
	case model.KindInvestigative:
		return 84
	case model.KindMajorNewspaper:
		return 80
	case model.KindLaborPress:
		return 76
	case model.KindPublicRecord:
		return 66
	case model.KindVerifiedSocial:
		return 60
	case model.KindRegionalOutlet:
		return 55
	case model.KindSocialPost:
		return 30
	case model.KindBlog:
		return 25
	default:
		return 10
	}
}

func (r *Ranker) matches(set map[string]bool, host string) bool {
	if set[host] {
		return true
	}
	for domain := range set {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func isGovernment(host, path, name string) bool {
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".mil") ||
		strings.Contains(host, ".gov.") || strings.HasSuffix(host, ".gouv.fr") {
		return true
	}
	if strings.Contains(host, "courts.") || strings.Contains(host, "courtlistener.com") {
		return true
	}
	for _, marker := range []string{"/docket", "/filing", "/ruling", "/opinions"} {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return strings.Contains(name, "court ruling") || strings.Contains(name, "federal register")
}

func isAcademic(host, name string) bool {
	if strings.HasSuffix(host, ".edu") || strings.Contains(host, ".ac.") ||
		strings.HasSuffix(host, ".ac.uk") {
		return true
	}
	for _, h := range []string{"doi.org", "arxiv.org", "jstor.org", "nature.com", "sciencedirect.com", "pubmed.ncbi.nlm.nih.gov"} {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return strings.Contains(name, "peer-reviewed") || strings.Contains(name, "journal of")
}

func isOfficialOrg(host, path, name string) bool {
	if strings.HasPrefix(host, "press.") || strings.HasPrefix(host, "newsroom.") {
		return true
	}
	for _, marker := range []string{"/press-release", "/press_release", "/newsroom/", "/statements/"} {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return strings.Contains(name, "press release") || strings.Contains(name, "official statement")
}

func isPublicRecord(host, path string) bool {
	for _, h := range []string{"sec.report", "opencorporates.com", "archive.org", "documentcloud.org"} {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return strings.Contains(path, "/records/") || strings.Contains(path, "/registry/")
}

// looksRegional is the weakest detector: local-press naming patterns
// on hosts nothing else matched.
func looksRegional(name string) bool {
	for _, marker := range []string{"gazette", "herald", "tribune", "courier", "observer", "chronicle", "dispatch", "local news"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func splitURL(raw string) (host, path string) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", ""
	}
	host = strings.ToLower(parsed.Host)
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")
	return host, strings.ToLower(parsed.Path)
}

func hostSet(hosts ...string) map[string]bool {
	m := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		m[h] = true
	}
	return m
}

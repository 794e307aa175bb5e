package search

import (
	"net/url"
	"strings"

	"github.com/ppiankov/groundcheck/internal/model"
)

// SourceTier is a coarse authority label for a result's host
type SourceTier int

const (
	TierUnknown   SourceTier = 0
	TierPrimary   SourceTier = 1 // Official bodies, governments, academic identifiers
	TierSecondary SourceTier = 2 // Encyclopedias, wire services, major publishers
	TierTertiary  SourceTier = 3 // Everything else
)

func (t SourceTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// AuthorityClassifier labels result links by source tier
type AuthorityClassifier struct {
	domainMap map[string]SourceTier
	primary   []string
	secondary []string
}

// NewAuthorityClassifier creates a classifier from configured domain lists
func NewAuthorityClassifier(cfg model.AuthorityConfig) *AuthorityClassifier {
	a := &AuthorityClassifier{
		domainMap: make(map[string]SourceTier, len(cfg.DomainMap)),
		primary:   normalizeDomains(cfg.PrimaryDomains),
		secondary: normalizeDomains(cfg.SecondaryDomains),
	}
	for host, tier := range cfg.DomainMap {
		a.domainMap[strings.ToLower(host)] = parseTier(tier)
	}
	return a
}

// Classify returns the tier of a result URL
func (a *AuthorityClassifier) Classify(rawURL string) SourceTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return TierUnknown
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")

	if tier, ok := a.domainMap[host]; ok {
		return tier
	}
	if matchesDomain(host, a.primary) {
		return TierPrimary
	}
	if matchesDomain(host, a.secondary) {
		return TierSecondary
	}

	// Government and academic TLDs
	for _, suffix := range []string{".gov", ".gov.in", ".gov.uk", ".edu", ".ac.uk", ".ac.in"} {
		if strings.HasSuffix(host, suffix) {
			return TierPrimary
		}
	}

	return TierTertiary
}

func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

func parseTier(tier string) SourceTier {
	switch strings.ToLower(tier) {
	case "primary", "1":
		return TierPrimary
	case "secondary", "2":
		return TierSecondary
	default:
		return TierTertiary
	}
}

package linkcheck

import (
	"net/url"
	"strings"
)

// Policy is the allowlist and keyword threshold for one category.
type Policy struct {
	Category         Category
	Allowlist        []string
	MapsOnlyDomains  []string
	PositiveKeywords []string
	MinKeywordHits   int
}

// PolicySet is the immutable collection of policies plus the shared negative
// keywords. Build it once at start-up and inject it.
type PolicySet struct {
	policies map[Category]Policy
	negative []string
}

// NewPolicySet copies the given policies so later mutation of the inputs has
// no effect.
func NewPolicySet(policies []Policy, negative []string) PolicySet {
	set := PolicySet{
		policies: make(map[Category]Policy, len(policies)),
		negative: normalizeTerms(negative),
	}
	for _, p := range policies {
		p.Allowlist = normalizeDomains(p.Allowlist)
		p.MapsOnlyDomains = normalizeDomains(p.MapsOnlyDomains)
		p.PositiveKeywords = normalizeTerms(p.PositiveKeywords)
		if p.MinKeywordHits < 1 {
			p.MinKeywordHits = 1
		}
		set.policies[p.Category] = p
	}
	return set
}

// Lookup returns the policy for a category.
func (s PolicySet) Lookup(c Category) (Policy, bool) {
	p, ok := s.policies[c]
	if !ok {
		return Policy{}, false
	}
	return p.clone(), true
}

// Categories lists the configured categories.
func (s PolicySet) Categories() []Category {
	out := make([]Category, 0, len(s.policies))
	for c := range s.policies {
		out = append(out, c)
	}
	return out
}

// NegativeKeywords returns a copy of the veto terms.
func (s PolicySet) NegativeKeywords() []string {
	return append([]string(nil), s.negative...)
}

func (p Policy) clone() Policy {
	p.Allowlist = append([]string(nil), p.Allowlist...)
	p.MapsOnlyDomains = append([]string(nil), p.MapsOnlyDomains...)
	p.PositiveKeywords = append([]string(nil), p.PositiveKeywords...)
	return p
}

// Allows reports whether u's host is on the allowlist (exact or subdomain)
// and, for maps-only domains, whether u points at a map.
func (p Policy) Allows(u *url.URL) bool {
	if u == nil {
		return false
	}
	host := normalizeHost(u.Hostname())
	domain, ok := matchDomain(host, p.Allowlist)
	if !ok {
		return false
	}
	if _, mapsOnly := matchDomain(domain, p.MapsOnlyDomains); mapsOnly {
		return isMapURL(host, u.Path)
	}
	return true
}

// matchDomain returns the first domain that host equals or is a subdomain of.
func matchDomain(host string, domains []string) (string, bool) {
	if host == "" {
		return "", false
	}
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return d, true
		}
	}
	return "", false
}

func isMapURL(host, path string) bool {
	if strings.HasPrefix(host, "maps.") {
		return true
	}
	path = strings.ToLower(path)
	return path == "/maps" || strings.HasPrefix(path, "/maps/")
}

type redirectPath struct {
	domain string
	prefix string
}

// Hosts whose only purpose is to bounce the visitor elsewhere.
var redirectHosts = []string{
	"t.co",
	"bit.ly",
	"goo.gl",
	"tinyurl.com",
	"ow.ly",
	"buff.ly",
	"lnkd.in",
	"l.facebook.com",
	"lm.facebook.com",
	"l.instagram.com",
	"out.reddit.com",
	"r.search.yahoo.com",
	"click.redditmail.com",
}

// Search-engine and aggregator redirect wrappers.
var redirectPaths = []redirectPath{
	{domain: "google.com", prefix: "/url"},
	{domain: "google.co.in", prefix: "/url"},
	{domain: "google.com", prefix: "/aclk"},
	{domain: "news.google.com", prefix: "/rss/articles"},
	{domain: "news.google.com", prefix: "/articles"},
	{domain: "bing.com", prefix: "/ck/"},
	{domain: "duckduckgo.com", prefix: "/l/"},
}

// isTrackingURL reports whether u is a known redirect or tracking wrapper.
func isTrackingURL(u *url.URL) bool {
	host := normalizeHost(u.Hostname())
	if _, ok := matchDomain(host, redirectHosts); ok {
		return true
	}
	path := strings.ToLower(u.Path)
	for _, rule := range redirectPaths {
		if _, ok := matchDomain(host, []string{rule.domain}); ok && strings.HasPrefix(path, rule.prefix) {
			return true
		}
	}
	return false
}

func normalizeHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
}

func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	seen := make(map[string]struct{}, len(domains))
	for _, raw := range domains {
		d := normalizeHost(raw)
		d = strings.TrimPrefix(d, "*.")
		d = strings.TrimPrefix(d, ".")
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, raw := range terms {
		t := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

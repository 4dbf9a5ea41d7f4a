package linkcheck

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestPolicyAllowsSubdomains(t *testing.T) {
	news, ok := DefaultPolicies().Lookup(CategoryNews)
	require.True(t, ok)

	require.True(t, news.Allows(mustURL(t, "https://thehindu.com/news")))
	require.True(t, news.Allows(mustURL(t, "https://www.thehindu.com/news")))
	require.True(t, news.Allows(mustURL(t, "https://WWW.Reddit.com/r/india")))
	require.False(t, news.Allows(mustURL(t, "https://evil.example.com/pet-news")))
	require.False(t, news.Allows(mustURL(t, "https://notthehindu.com/news")))
	require.False(t, news.Allows(mustURL(t, "https://thehindu.com.evil.io/news")))
}

func TestCentresGoogleIsMapsOnly(t *testing.T) {
	centres, ok := DefaultPolicies().Lookup(CategoryCentres)
	require.True(t, ok)

	require.True(t, centres.Allows(mustURL(t, "https://www.google.com/maps/place/Happy+Paws")))
	require.True(t, centres.Allows(mustURL(t, "https://maps.google.com/?cid=123")))
	require.False(t, centres.Allows(mustURL(t, "https://www.google.com/search?q=vet")))
	require.True(t, centres.Allows(mustURL(t, "https://maps.app.goo.gl/abc123")))
	require.True(t, centres.Allows(mustURL(t, "https://www.justdial.com/Pune/Vets")))
}

func TestPolicySetIsImmutable(t *testing.T) {
	allow := []string{"example.org"}
	set := NewPolicySet([]Policy{{Category: CategoryNews, Allowlist: allow}}, nil)
	allow[0] = "evil.com"

	p, _ := set.Lookup(CategoryNews)
	require.Equal(t, []string{"example.org"}, p.Allowlist)
	require.Equal(t, 1, p.MinKeywordHits)

	p.Allowlist[0] = "mutated.com"
	again, _ := set.Lookup(CategoryNews)
	require.Equal(t, []string{"example.org"}, again.Allowlist)
}

func TestIsTrackingURL(t *testing.T) {
	cases := map[string]bool{
		"https://www.google.com/url?q=https://thehindu.com": true,
		"https://bit.ly/3xyz":                               true,
		"https://news.google.com/rss/articles/CBMi":         true,
		"https://www.bing.com/ck/a?u=abc":                   true,
		"https://maps.app.goo.gl/abc":                       true,
		"https://www.google.com/maps/place/x":               false,
		"https://www.thehindu.com/news/cities/stray-dogs":   false,
	}
	for raw, want := range cases {
		require.Equal(t, want, isTrackingURL(mustURL(t, raw)), raw)
	}
}

func TestCanonicalURL(t *testing.T) {
	u := mustURL(t, "HTTPS://WWW.TheHindu.com:443/news?utm_source=x&id=7&fbclid=abc#comments")
	require.Equal(t, "https://www.thehindu.com/news?id=7", canonicalURL(u))

	u = mustURL(t, "https://reddit.com")
	require.Equal(t, "https://reddit.com/", canonicalURL(u))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" News ")
	require.True(t, ok)
	require.Equal(t, CategoryNews, c)

	c, ok = ParseCategory("centers")
	require.True(t, ok)
	require.Equal(t, CategoryCentres, c)

	_, ok = ParseCategory("sports")
	require.False(t, ok)
}

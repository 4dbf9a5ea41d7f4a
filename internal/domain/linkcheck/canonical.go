package linkcheck

import (
	"net/url"
	"strings"
)

var trackingQueryParams = map[string]struct{}{
	"gclid":   {},
	"dclid":   {},
	"fbclid":  {},
	"msclkid": {},
	"igshid":  {},
	"ref_src": {},
}

// canonicalURL lower-cases scheme and host, drops the fragment, default
// ports and tracking query parameters (utm_*, fbclid, ...).
func canonicalURL(u *url.URL) string {
	out := *u
	out.Scheme = strings.ToLower(out.Scheme)
	host := strings.ToLower(out.Host)
	switch {
	case out.Scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case out.Scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	out.Host = host
	out.Fragment = ""
	out.RawFragment = ""
	if out.Path == "" {
		out.Path = "/"
	}

	if out.RawQuery != "" {
		query := out.Query()
		for key := range query {
			lower := strings.ToLower(key)
			if _, drop := trackingQueryParams[lower]; drop || strings.HasPrefix(lower, "utm_") {
				query.Del(key)
			}
		}
		out.RawQuery = query.Encode()
	}
	return out.String()
}

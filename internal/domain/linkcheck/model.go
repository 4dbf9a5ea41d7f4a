package linkcheck

import "strings"

// Category selects the allowlist and keyword policy applied to a URL.
type Category string

const (
	CategoryNews    Category = "news"
	CategoryCentres Category = "centres"
)

// ParseCategory maps user input onto a known category.
func ParseCategory(raw string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "news", "forum", "events":
		return CategoryNews, true
	case "centres", "centers", "centre", "center":
		return CategoryCentres, true
	default:
		return "", false
	}
}

// Request captures the payload accepted by the validate-links endpoint.
type Request struct {
	Category string   `json:"category"`
	URLs     []string `json:"urls"`
}

// Response is serialized back to API consumers.
type Response struct {
	ValidURLs []string `json:"validUrls"`
}

// Kind tags the decision reached for one URL.
type Kind int

const (
	Accepted Kind = iota
	RejectedPolicy
	RejectedStatus
	RejectedContent
	NetworkFailure
)

func (k Kind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case RejectedPolicy:
		return "rejected_policy"
	case RejectedStatus:
		return "rejected_status"
	case RejectedContent:
		return "rejected_content"
	default:
		return "network_failure"
	}
}

// Outcome is the result of running the pipeline over one URL. URL is only set
// when Kind is Accepted and holds the redirect-resolved canonical form.
type Outcome struct {
	Kind   Kind
	Input  string
	URL    string
	Reason string
}

// OK reports whether the URL was accepted.
func (o Outcome) OK() bool {
	return o.Kind == Accepted && o.URL != ""
}

// Config wires runtime limits for the link validation domain.
type Config struct {
	MaxURLs     int
	Concurrency int
}

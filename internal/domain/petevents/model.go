package petevents

import (
	"context"

	"github.com/yanqian/pawpulse/internal/domain/linkcheck"
)

// Event is a validated pet event or adoption drive.
type Event struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// SearchResult is one raw web search hit.
type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

// SearchClient runs web searches. Enabled is false without credentials.
type SearchClient interface {
	Enabled() bool
	Search(ctx context.Context, query string, num int) ([]SearchResult, error)
}

// LinkChecker validates candidate links in bounded batches.
type LinkChecker interface {
	CheckAll(ctx context.Context, urls []string, category linkcheck.Category, limit int) []linkcheck.Outcome
}

// Response is serialized back to API consumers.
type Response struct {
	City   string  `json:"city"`
	Events []Event `json:"events"`
}

// Config wires runtime limits for event discovery.
type Config struct {
	SearchResults int
	MaxEvents     int
	Concurrency   int
}

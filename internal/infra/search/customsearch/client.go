package customsearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/pawpulse/internal/domain/petevents"
	"github.com/yanqian/pawpulse/internal/infra/fetch"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	maxNum         = 10
)

// Client calls the Google Programmable Search JSON API.
type Client struct {
	baseURL  string
	apiKey   string
	engineID string
	fetcher  *fetch.Client
}

// NewClient builds an API client. Empty credentials disable searching.
func NewClient(baseURL, apiKey, engineID string, fetcher *fetch.Client) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimRight(base, "/"),
		apiKey:   strings.TrimSpace(apiKey),
		engineID: strings.TrimSpace(engineID),
		fetcher:  fetcher,
	}
}

// Enabled reports whether both credentials are configured.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.engineID != ""
}

// Search implements petevents.SearchClient.
func (c *Client) Search(ctx context.Context, query string, num int) ([]petevents.SearchResult, error) {
	if !c.Enabled() {
		return nil, errors.New("custom search credentials not configured")
	}
	if num <= 0 || num > maxNum {
		num = maxNum
	}
	params := url.Values{}
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))
	endpoint := fmt.Sprintf("%s/customsearch/v1?%s", c.baseURL, params.Encode())

	// The key stays out of the URL so error messages never carry it.
	header := http.Header{}
	header.Set("X-Goog-Api-Key", c.apiKey)

	var raw searchResponse
	if err := c.fetcher.GetJSON(ctx, "customsearch", endpoint, header, &raw); err != nil {
		return nil, fmt.Errorf("custom search request: %w", err)
	}
	results := make([]petevents.SearchResult, 0, len(raw.Items))
	for _, item := range raw.Items {
		if strings.TrimSpace(item.Link) == "" {
			continue
		}
		results = append(results, petevents.SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

type searchResponse struct {
	Items []item `json:"items"`
}

type item struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

var _ petevents.SearchClient = (*Client)(nil)

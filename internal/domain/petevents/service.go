package petevents

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/yanqian/pawpulse/internal/domain/linkcheck"
	apperrors "github.com/yanqian/pawpulse/pkg/errors"
)

const (
	defaultSearchResults = 10
	defaultMaxEvents     = 8
	defaultConcurrency   = 4
	queryPrefix          = "pet events adoption drive "
)

// Service discovers upcoming pet events for a city.
type Service interface {
	Discover(ctx context.Context, city string) ([]Event, error)
}

type service struct {
	cfg     Config
	search  SearchClient
	checker LinkChecker
	logger  *slog.Logger
}

// NewService wires up the pet events domain.
func NewService(cfg Config, search SearchClient, checker LinkChecker, logger *slog.Logger) Service {
	if cfg.SearchResults <= 0 {
		cfg.SearchResults = defaultSearchResults
	}
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = defaultMaxEvents
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &service{
		cfg:     cfg,
		search:  search,
		checker: checker,
		logger:  logger.With("component", "petevents.service"),
	}
}

// Discover searches the web and keeps only results whose links pass news
// validation. Without search credentials it returns no events.
func (s *service) Discover(ctx context.Context, city string) ([]Event, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "city is required", nil)
	}
	if s.search == nil || !s.search.Enabled() {
		return []Event{}, nil
	}

	results, err := s.search.Search(ctx, queryPrefix+city, s.cfg.SearchResults)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUpstream, "event search failed", err)
	}
	if len(results) > s.cfg.SearchResults {
		results = results[:s.cfg.SearchResults]
	}
	if len(results) == 0 {
		return []Event{}, nil
	}

	links := make([]string, len(results))
	for i, r := range results {
		links[i] = r.Link
	}
	outcomes := s.checker.CheckAll(ctx, links, linkcheck.CategoryNews, s.cfg.Concurrency)

	events := make([]Event, 0, s.cfg.MaxEvents)
	seen := make(map[string]struct{}, len(outcomes))
	for i, out := range outcomes {
		if !out.OK() {
			continue
		}
		if _, dup := seen[out.URL]; dup {
			continue
		}
		seen[out.URL] = struct{}{}
		events = append(events, Event{
			Title:   strings.TrimSpace(results[i].Title),
			Link:    out.URL,
			Snippet: strings.TrimSpace(results[i].Snippet),
			Source:  sourceOf(out.URL),
		})
		if len(events) == s.cfg.MaxEvents {
			break
		}
	}
	s.logger.Info("pet events discovered", "city", city, "results", len(results), "events", len(events))
	return events, nil
}

func sourceOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

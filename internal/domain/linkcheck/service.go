package linkcheck

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/pawpulse/pkg/errors"
)

const (
	defaultMaxURLs     = 40
	defaultConcurrency = 6
)

// Service exposes batch link validation.
type Service interface {
	ValidateLinks(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg       Config
	validator *Validator
	logger    *slog.Logger
}

// NewService wires up the link validation domain.
func NewService(cfg Config, validator *Validator, logger *slog.Logger) Service {
	if cfg.MaxURLs <= 0 {
		cfg.MaxURLs = defaultMaxURLs
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &service{
		cfg:       cfg,
		validator: validator,
		logger:    logger.With("component", "linkcheck.service"),
	}
}

func (s *service) ValidateLinks(ctx context.Context, req Request) (Response, error) {
	category, ok := ParseCategory(req.Category)
	if !ok {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "category must be one of news, centres", nil)
	}
	urls := normalizeURLs(req.URLs, s.cfg.MaxURLs)
	if len(urls) == 0 {
		return Response{ValidURLs: []string{}}, nil
	}

	outcomes := s.validator.CheckAll(ctx, urls, category, s.cfg.Concurrency)
	valid := AcceptedURLs(outcomes)
	s.logger.Info("links validated", "category", category, "candidates", len(urls), "accepted", len(valid))
	return Response{ValidURLs: valid}, nil
}

// AcceptedURLs returns the distinct accepted URLs in input order.
func AcceptedURLs(outcomes []Outcome) []string {
	out := make([]string, 0, len(outcomes))
	seen := make(map[string]struct{}, len(outcomes))
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		if _, dup := seen[o.URL]; dup {
			continue
		}
		seen[o.URL] = struct{}{}
		out = append(out, o.URL)
	}
	return out
}

// normalizeURLs trims, drops empty and duplicate entries, then truncates.
func normalizeURLs(raw []string, limit int) []string {
	out := make([]string, 0, min(len(raw), limit))
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		clean := strings.TrimSpace(item)
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
		if len(out) == limit {
			break
		}
	}
	return out
}

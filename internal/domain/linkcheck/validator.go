package linkcheck

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/yanqian/pawpulse/internal/infra/fetch"
	"github.com/yanqian/pawpulse/pkg/metrics"
	"github.com/yanqian/pawpulse/pkg/parallel"
)

// Prober issues the deadline bounded HEAD/GET probes.
type Prober interface {
	Do(ctx context.Context, req fetch.Request) (fetch.Response, error)
}

// Validator runs the accept/reject pipeline for candidate URLs.
type Validator struct {
	policies   PolicySet
	classifier *Classifier
	prober     Prober
	logger     *slog.Logger
}

// NewValidator wires the pipeline with injected policies.
func NewValidator(policies PolicySet, prober Prober, logger *slog.Logger) *Validator {
	return &Validator{
		policies:   policies,
		classifier: NewClassifier(policies),
		prober:     prober,
		logger:     logger.With("component", "linkcheck.validator"),
	}
}

// Check runs every step for one URL and never returns an error; failures
// surface as a non-accepted Outcome.
func (v *Validator) Check(ctx context.Context, rawURL string, category Category) Outcome {
	out := v.check(ctx, rawURL, category)
	metrics.ObserveLinkCheck(string(category), out.Kind.String())
	if !out.OK() {
		v.logger.Debug("link rejected", "url", rawURL, "category", category, "outcome", out.Kind.String(), "reason", out.Reason)
	}
	return out
}

// CheckAll validates urls with at most limit probes in flight. The result is
// aligned with urls.
func (v *Validator) CheckAll(ctx context.Context, urls []string, category Category, limit int) []Outcome {
	slots := parallel.Map(ctx, urls, limit, func(ctx context.Context, raw string) (Outcome, error) {
		return v.Check(ctx, raw, category), nil
	}, parallel.WithPool("linkcheck_"+string(category)))

	outcomes := make([]Outcome, len(urls))
	for i, slot := range slots {
		if slot == nil {
			outcomes[i] = Outcome{Kind: NetworkFailure, Input: urls[i], Reason: "not checked"}
			continue
		}
		outcomes[i] = *slot
	}
	return outcomes
}

func (v *Validator) check(ctx context.Context, rawURL string, category Category) Outcome {
	policy, ok := v.policies.Lookup(category)
	if !ok {
		return reject(RejectedPolicy, rawURL, "unknown category")
	}
	target, reason := screen(rawURL, policy)
	if reason != "" {
		return reject(RejectedPolicy, rawURL, reason)
	}

	resp, hasBody, failed := v.probe(ctx, target.String())
	if failed != nil {
		failed.Input = rawURL
		return *failed
	}

	final, err := url.Parse(resp.FinalURL)
	if err != nil || !policy.Allows(final) {
		return reject(RejectedPolicy, rawURL, "redirected outside allowlist")
	}
	// A HEAD without a content type says nothing; the GET decides.
	needBody := resp.IsHTML() || resp.ContentType() == ""
	if needBody && !hasBody {
		resp, err = v.prober.Do(ctx, fetch.Request{Method: http.MethodGet, URL: final.String(), Upstream: "linkcheck"})
		if err != nil {
			return failure(rawURL, err)
		}
		if final, err = url.Parse(resp.FinalURL); err != nil || !policy.Allows(final) {
			return reject(RejectedPolicy, rawURL, "redirected outside allowlist")
		}
	}
	if !resp.IsHTML() {
		return Outcome{Kind: Accepted, Input: rawURL, URL: canonicalURL(final)}
	}

	verdict := v.classifier.Evaluate(category, string(resp.Body), resp.FinalURL)
	if !verdict.Relevant {
		reason := "not enough topic keywords"
		if verdict.Veto != "" {
			reason = "off-topic keyword: " + verdict.Veto
		}
		return reject(RejectedContent, rawURL, reason)
	}
	return Outcome{Kind: Accepted, Input: rawURL, URL: canonicalURL(final)}
}

// probe issues HEAD and falls back to GET when the status is outside
// [200,400). hasBody reports whether resp came from the GET.
func (v *Validator) probe(ctx context.Context, target string) (resp fetch.Response, hasBody bool, failed *Outcome) {
	resp, err := v.prober.Do(ctx, fetch.Request{Method: http.MethodHead, URL: target, Upstream: "linkcheck"})
	if err == nil {
		return resp, false, nil
	}
	var statusErr *fetch.StatusError
	if !errors.As(err, &statusErr) {
		out := failure(target, err)
		return fetch.Response{}, false, &out
	}

	resp, err = v.prober.Do(ctx, fetch.Request{Method: http.MethodGet, URL: target, Upstream: "linkcheck"})
	if err != nil {
		out := failure(target, err)
		return fetch.Response{}, false, &out
	}
	return resp, true, nil
}

// screen parses the URL and applies the scheme, tracking and allowlist rules.
func screen(rawURL string, policy Policy) (*url.URL, string) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, "unparseable url"
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, "unsupported scheme"
	}
	if u.Hostname() == "" {
		return nil, "missing host"
	}
	allowed := policy.Allows(u)
	if isTrackingURL(u) && !allowed {
		return nil, "tracking or redirect wrapper"
	}
	if !allowed {
		return nil, "host not on allowlist"
	}
	return u, ""
}

func failure(rawURL string, err error) Outcome {
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		return reject(RejectedStatus, rawURL, statusErr.Error())
	}
	return reject(NetworkFailure, rawURL, err.Error())
}

func reject(kind Kind, rawURL, reason string) Outcome {
	return Outcome{Kind: kind, Input: rawURL, Reason: reason}
}

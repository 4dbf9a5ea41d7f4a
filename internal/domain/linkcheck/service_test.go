package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/pawpulse/pkg/errors"
)

func newTestService(prober Prober) Service {
	return NewService(Config{}, newTestValidator(prober), newTestLogger())
}

func TestValidateLinksRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(newStubProber())

	_, err := svc.ValidateLinks(context.Background(), Request{Category: "sports", URLs: []string{"https://www.ndtv.com"}})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestValidateLinksEmptyInput(t *testing.T) {
	prober := newStubProber()
	svc := newTestService(prober)

	resp, err := svc.ValidateLinks(context.Background(), Request{Category: "news", URLs: []string{" ", ""}})
	require.NoError(t, err)
	require.NotNil(t, resp.ValidURLs)
	require.Empty(t, resp.ValidURLs)
	require.Zero(t, prober.callCount())
}

func TestValidateLinksFiltersAndDedupes(t *testing.T) {
	const good = "https://www.thehindu.com/news/adoption-drive"
	prober := newStubProber().
		on(http.MethodHead, good, htmlHead(good)).
		on(http.MethodGet, good, htmlPage(good, petArticle))
	svc := newTestService(prober)

	resp, err := svc.ValidateLinks(context.Background(), Request{
		Category: "news",
		URLs:     []string{good, "https://evil.example.com/pets", " " + good + " ", good + "#top"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{good}, resp.ValidURLs)
}

func TestValidateLinksTruncatesAndLimitsConcurrency(t *testing.T) {
	prober := newStubProber()
	prober.delay = 5 * time.Millisecond
	urls := make([]string, 0, 45)
	for i := 0; i < 45; i++ {
		urls = append(urls, fmt.Sprintf("https://www.ndtv.com/story-%d", i))
	}
	svc := newTestService(prober)

	resp, err := svc.ValidateLinks(context.Background(), Request{Category: "news", URLs: urls})
	require.NoError(t, err)
	require.Empty(t, resp.ValidURLs)
	require.Equal(t, defaultMaxURLs, prober.callCount())
	require.LessOrEqual(t, int(prober.peak.Load()), defaultConcurrency)
}

func TestNormalizeURLs(t *testing.T) {
	got := normalizeURLs([]string{" a ", "b", "a", "", "c"}, 2)
	require.Equal(t, []string{"a", "b"}, got)
}

func TestAcceptedURLs(t *testing.T) {
	got := AcceptedURLs([]Outcome{
		{Kind: Accepted, URL: "https://x.in/1"},
		{Kind: RejectedContent, Input: "https://x.in/2"},
		{Kind: Accepted, URL: "https://x.in/1"},
		{Kind: Accepted, URL: "https://x.in/3"},
	})
	require.Equal(t, []string{"https://x.in/1", "https://x.in/3"}, got)
}

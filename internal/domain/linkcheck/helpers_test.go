package linkcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanqian/pawpulse/internal/infra/fetch"
)

type stubRoute struct {
	resp fetch.Response
	err  error
}

type stubProber struct {
	mu     sync.Mutex
	routes map[string]stubRoute
	calls  []string

	delay   time.Duration
	current atomic.Int32
	peak    atomic.Int32
}

func newStubProber() *stubProber {
	return &stubProber{routes: make(map[string]stubRoute)}
}

func (s *stubProber) on(method, url string, route stubRoute) *stubProber {
	s.routes[method+" "+url] = route
	return s
}

func (s *stubProber) Do(_ context.Context, req fetch.Request) (fetch.Response, error) {
	now := s.current.Add(1)
	defer s.current.Add(-1)
	for {
		seen := s.peak.Load()
		if now <= seen || s.peak.CompareAndSwap(seen, now) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	key := req.Method + " " + req.URL
	s.mu.Lock()
	s.calls = append(s.calls, key)
	route, ok := s.routes[key]
	s.mu.Unlock()
	if !ok {
		return fetch.Response{}, fmt.Errorf("%w: connection refused", fetch.ErrNetwork)
	}
	return route.resp, route.err
}

func (s *stubProber) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubProber) called(method, url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c == method+" "+url {
			return true
		}
	}
	return false
}

func htmlPage(finalURL, body string) stubRoute {
	header := http.Header{}
	header.Set("Content-Type", "text/html; charset=utf-8")
	return stubRoute{resp: fetch.Response{FinalURL: finalURL, StatusCode: http.StatusOK, Header: header, Body: []byte(body)}}
}

func htmlHead(finalURL string) stubRoute {
	return htmlPage(finalURL, "")
}

func binary(finalURL, contentType string) stubRoute {
	header := http.Header{}
	header.Set("Content-Type", contentType)
	return stubRoute{resp: fetch.Response{FinalURL: finalURL, StatusCode: http.StatusOK, Header: header}}
}

func untyped(finalURL, body string) stubRoute {
	return stubRoute{resp: fetch.Response{FinalURL: finalURL, StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte(body)}}
}

func statusFailure(url string, code int) stubRoute {
	return stubRoute{
		resp: fetch.Response{FinalURL: url, StatusCode: code, Header: http.Header{}},
		err:  &fetch.StatusError{StatusCode: code, URL: url},
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const petArticle = `<html><head><title>Stray dog adoption drive this weekend</title>
<meta name="description" content="Animal welfare volunteers host a pet adoption camp."></head>
<body><p>Dogs and cats rescued from the streets await new homes.</p></body></html>`

const cricketArticle = `<html><head><title>Cricket team unveils dog mascot</title></head>
<body><p>The IPL franchise introduced a puppy as its mascot; pet lovers cheered the dog.</p></body></html>`

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoReturnsBufferedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><title>Dogs</title></html>"))
	}))
	defer srv.Close()

	client := NewClient(Config{Timeout: time.Second})
	resp, err := client.Do(context.Background(), Request{URL: srv.URL + "/page"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/html", resp.ContentType())
	require.True(t, resp.IsHTML())
	require.Contains(t, string(resp.Body), "Dogs")
	require.Equal(t, srv.URL+"/page", resp.FinalURL)
}

func TestDoFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := NewClient(Config{}).Do(context.Background(), Request{Method: http.MethodHead, URL: srv.URL + "/old"})
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/new", resp.FinalURL)
	require.False(t, resp.IsHTML())
}

func TestIsHTMLRequiresDeclaredType(t *testing.T) {
	header := http.Header{}
	require.False(t, Response{Header: header}.IsHTML())
	header.Set("Content-Type", "application/xhtml+xml; charset=utf-8")
	require.True(t, Response{Header: header}.IsHTML())
	header.Set("Content-Type", "application/octet-stream")
	require.False(t, Response{Header: header}.IsHTML())
}

func TestDoTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(Config{Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := client.Do(context.Background(), Request{URL: srv.URL})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTimeout)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestDoNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	resp, err := NewClient(Config{}).Do(context.Background(), Request{Method: http.MethodHead, URL: srv.URL})
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusMethodNotAllowed, statusErr.StatusCode)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestDoNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	_, err := NewClient(Config{Timeout: time.Second}).Do(context.Background(), Request{URL: target})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNetwork)
	require.NotErrorIs(t, err, ErrTimeout)
}

func TestDoBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 4096))
	}))
	defer srv.Close()

	resp, err := NewClient(Config{MaxBodyBytes: 100}).Do(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, resp.Body, 100)
}

func TestGetJSONAndPostFormJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.Equal(t, "secret", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`{"value":42}`))
	})
	mux.HandleFunc("/post", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "query", r.PostForm.Get("data"))
		_, _ = w.Write([]byte(`{"value":7}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(Config{})
	var got struct {
		Value int `json:"value"`
	}
	header := http.Header{}
	header.Set("X-API-Key", "secret")
	require.NoError(t, client.GetJSON(context.Background(), "test", srv.URL+"/get", header, &got))
	require.Equal(t, 42, got.Value)

	require.NoError(t, client.PostFormJSON(context.Background(), "test", srv.URL+"/post", url.Values{"data": {"query"}}, &got))
	require.Equal(t, 7, got.Value)
}

func TestGetJSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewClient(Config{}).GetJSON(context.Background(), "test", srv.URL, nil, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode test response")
}

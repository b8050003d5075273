package xouistore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xoui/pkg/observability/xlog"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotUA atomic.Value
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("OUI/MA-L\n\nE0-43-DB   (hex)\t\tVendor\n"))
	})

	f, err := NewHTTPFetcher(srv.URL, WithUserAgent("test-agent/1.0"), WithFetcherLogger(xlog.Discard()))
	require.NoError(t, err)
	assert.Equal(t, srv.URL, f.URL())

	text, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "E0-43-DB")
	assert.Equal(t, "test-agent/1.0", gotUA.Load())
}

func TestHTTPFetcher_DefaultUserAgent(t *testing.T) {
	var gotUA atomic.Value
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("body"))
	})

	f, err := NewHTTPFetcher(srv.URL, WithFetcherLogger(xlog.Discard()))
	require.NoError(t, err)
	_, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA.Load())
}

func TestHTTPFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not_found", http.StatusNotFound, "missing"},
		{"server_error", http.StatusInternalServerError, "boom"},
		{"empty_body", http.StatusOK, "  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			f, err := NewHTTPFetcher(srv.URL, WithFetcherLogger(xlog.Discard()))
			require.NoError(t, err)

			text, err := f.Fetch(context.Background())
			assert.Empty(t, text)
			assert.ErrorIs(t, err, ErrFetchFailed)
		})
	}
}

func TestHTTPFetcher_Retry(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("registry"))
	})

	f, err := NewHTTPFetcher(srv.URL,
		WithAttempts(3),
		WithRetryDelay(time.Millisecond),
		WithFetcherLogger(xlog.Discard()))
	require.NoError(t, err)

	text, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "registry", text)
	assert.EqualValues(t, 3, calls.Load())
}

func TestHTTPFetcher_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	f, err := NewHTTPFetcher(srv.URL,
		WithAttempts(5),
		WithRetryDelay(time.Millisecond),
		WithFetcherLogger(xlog.Discard()))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.EqualValues(t, 1, calls.Load())
}

func TestHTTPFetcher_Breaker(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	f, err := NewHTTPFetcher(srv.URL,
		WithBreaker(2, time.Hour),
		WithFetcherLogger(xlog.Discard()))
	require.NoError(t, err)

	ctx := context.Background()
	for range 4 {
		_, err = f.Fetch(ctx)
		assert.ErrorIs(t, err, ErrFetchFailed)
	}
	// 两次失败后熔断，后续请求不再到达服务器
	assert.EqualValues(t, 2, calls.Load())
}

func TestHTTPFetcher_ContextCanceled(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	})
	f, err := NewHTTPFetcher(srv.URL, WithBreaker(0, 0), WithFetcherLogger(xlog.Discard()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Fetch(ctx)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewHTTPFetcher_URL(t *testing.T) {
	f, err := NewHTTPFetcher("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRegistryURL, f.URL())

	_, err = NewHTTPFetcher("ftp://example.com/oui.txt")
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestNew_NilFetcher(t *testing.T) {
	s := New(nil, NewMemoryCache("", time.Time{}))
	_, err := s.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
}

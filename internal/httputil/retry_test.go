// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

func TestDoWithRetry_ImmediateSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_RetriesOn429And503(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			n := atomic.AddInt32(&calls, 1)
			if n <= 2 {
				w.WriteHeader(code)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))

		req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
		require.NoError(t, err)

		resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
		ts.Close()
	}
}

func TestDoWithRetry_ExhaustsRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 2)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Initial attempt plus two retries, then the 429 is returned.
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_ReplaysPostBody(t *testing.T) {
	var calls int32
	var lastBody atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastBody.Store(string(body))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL, strings.NewReader(`{"k":"v"}`))
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 3)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"k":"v"}`, lastBody.Load())
}

func TestDoWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

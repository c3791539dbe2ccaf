// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the Gemini client.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// retryable responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 5 * time.Second

const defaultMaxRetries = 4

// retryable reports whether a status code is worth retrying: 429 (rate
// limit) and 503 (the API's transient overload answer).
func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request and retries on 429 and 503 with
// exponential backoff starting at RetryBaseDelay and doubling each
// attempt.
//
// When maxRetries is 0 the default (4) is used. On each retryable
// response the body is drained and closed before sleeping. If the
// context is cancelled during a backoff wait the function returns
// ctx.Err(). After exhausting retries the last response is returned
// as-is so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		clone := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			clone.Body = body
		}

		resp, err := client.Do(clone)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) {
			return resp, nil
		}

		// Exhausted retries — hand the response back unconsumed.
		if attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gemini is a typed HTTP client for the two Gemini API surfaces
// this pipeline needs: the File API (upload and status) and the Batch
// API (job creation). Responses are decoded into explicit success and
// error variants; an unrecognized body is an error, never an assumed
// success.
package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/paperbatch/pkg/types"
)

// Base URLs for the generativelanguage API. Declared as vars so tests
// can substitute httptest servers.
var (
	fileUploadBase = "https://generativelanguage.googleapis.com/upload/v1beta/files"
	fileBase       = "https://generativelanguage.googleapis.com/v1beta/files"
	batchBase      = "https://generativelanguage.googleapis.com/v1beta/batches"
)

// ErrUnexpectedResponse indicates the API answered with a body that is
// neither a recognized success shape nor a decodable error.
var ErrUnexpectedResponse = errors.New("unexpected response shape")

// Client calls the Gemini API with an API key. All methods are
// synchronous and issue exactly one logical API operation.
type Client struct {
	// HTTP is the underlying client; its timeout comes from HTTPConfig.
	HTTP *http.Client

	// APIKey authenticates every request (sent as the key query
	// parameter, matching the File API's curl examples).
	APIKey string

	// UserAgent is sent with every request.
	UserAgent string
}

// NewClient builds a Client from shared HTTP settings.
func NewClient(apiKey string, cfg types.HTTPConfig) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		APIKey:    apiKey,
		UserAgent: cfg.UserAgent,
	}
}

// APIError is the decoded error payload the API returns alongside a
// non-2xx status (or, for the Batch API, occasionally inside a 200).
type APIError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: %s (code %d, %s)", e.Message, e.Code, e.Status)
}

// errorEnvelope matches the standard {"error": {...}} wrapper.
type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// decodeAPIError extracts a typed *APIError from a response body, or
// wraps ErrUnexpectedResponse when the body is not the standard error
// envelope.
func decodeAPIError(statusCode int, body []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		return env.Error
	}
	return fmt.Errorf("%w: HTTP %d: %s", ErrUnexpectedResponse, statusCode, snippet(body))
}

// snippet truncates a response body for inclusion in error messages.
func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// readBody drains and closes a response body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

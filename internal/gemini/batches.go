// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/paperbatch/internal/httputil"
)

// BatchJob is the Batch API's record of one submitted job. Only the
// fields this pipeline reads are modeled.
type BatchJob struct {
	Name     string        `json:"name"`
	Metadata batchMetadata `json:"metadata"`
}

type batchMetadata struct {
	Model      string `json:"model,omitempty"`
	State      string `json:"state,omitempty"`
	CreateTime string `json:"createTime,omitempty"`
}

// State returns the job state reported at creation, if any.
func (j *BatchJob) State() string { return j.Metadata.State }

// batchCreateRequest references an uploaded JSONL manifest as the
// job's input source.
type batchCreateRequest struct {
	Model  string      `json:"model,omitempty"`
	Source batchSource `json:"source"`
}

type batchSource struct {
	FileURI string `json:"file_uri"`
}

// batchCreateResponse covers both outcomes of a create call: the Batch
// API sometimes reports failures inside a 200 body.
type batchCreateResponse struct {
	BatchJob
	Error *APIError `json:"error"`
}

// CreateBatch submits a batch job whose input is the File API URI of a
// previously uploaded JSONL manifest. A decoded error body is returned
// as *APIError; a body that is neither a job nor an error wraps
// ErrUnexpectedResponse.
func (c *Client) CreateBatch(ctx context.Context, model, inputFileURI string) (*BatchJob, error) {
	payload, err := json.Marshal(batchCreateRequest{
		Model:  model,
		Source: batchSource{FileURI: inputFileURI},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling batch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		batchBase+"?key="+c.APIKey, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating batch request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("batch create call: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("reading batch create response: %w", err)
	}

	var decoded batchCreateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: batch create body: %s", ErrUnexpectedResponse, snippet(body))
	}
	if decoded.Error != nil {
		return nil, decoded.Error
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrUnexpectedResponse, resp.StatusCode, snippet(body))
	}
	if decoded.Name == "" {
		return nil, fmt.Errorf("%w: batch create body: %s", ErrUnexpectedResponse, snippet(body))
	}
	return &decoded.BatchJob, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/paperbatch/internal/httputil"
	"github.com/pdiddy/paperbatch/pkg/types"
)

// File states reported by the File API. An uploaded file starts in
// PROCESSING and settles in ACTIVE or FAILED.
const (
	StateProcessing = "PROCESSING"
	StateActive     = "ACTIVE"
	StateFailed     = "FAILED"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 5 * time.Minute
)

// File is the remote handle for an uploaded object. The local process
// holds only this record, never the bytes, once the upload finishes.
type File struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
	SizeBytes   string `json:"sizeBytes,omitempty"`
	URI         string `json:"uri"`
	State       string `json:"state"`
}

// fileEnvelope wraps the File returned by the upload finalize step.
type fileEnvelope struct {
	File *File `json:"file"`
}

// StateError reports a file that left PROCESSING in a terminal state
// other than ACTIVE.
type StateError struct {
	Name  string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("file %s failed remote processing: %s", e.Name, e.State)
}

// PollTimeoutError reports a file still PROCESSING when the configured
// wait deadline expired. Distinct from StateError: the remote file may
// yet become ACTIVE.
type PollTimeoutError struct {
	Name   string
	Waited time.Duration
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("file %s still processing after %v", e.Name, e.Waited)
}

// Upload sends a local file to the File API using the resumable upload
// protocol: a metadata start request that yields a session URL, then a
// single upload-and-finalize request carrying the bytes. The returned
// File is usually still PROCESSING; callers wait with WaitActive.
func (c *Client) Upload(ctx context.Context, path, mimeType string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	meta, err := json.Marshal(map[string]any{
		"file": map[string]any{"display_name": filepath.Base(path)},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling upload metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fileUploadBase+"?key="+c.APIKey, bytes.NewReader(meta))
	if err != nil {
		return nil, fmt.Errorf("creating upload start request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Upload-Protocol", "resumable")
	req.Header.Set("X-Goog-Upload-Command", "start")
	req.Header.Set("X-Goog-Upload-Header-Content-Length", fmt.Sprintf("%d", info.Size()))
	req.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("upload start for %s: %w", path, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("reading upload start response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	sessionURL := resp.Header.Get("X-Goog-Upload-URL")
	if sessionURL == "" {
		return nil, fmt.Errorf("%w: upload start returned no session URL", ErrUnexpectedResponse)
	}

	return c.finalizeUpload(ctx, sessionURL, path, info.Size())
}

// finalizeUpload sends the file bytes to the session URL in one shot.
// Not retried: the body reader cannot be replayed.
func (c *Client) finalizeUpload(ctx context.Context, sessionURL, path string, size int64) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sessionURL, f)
	if err != nil {
		return nil, fmt.Errorf("creating upload finalize request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("X-Goog-Upload-Offset", "0")
	req.Header.Set("X-Goog-Upload-Command", "upload, finalize")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", path, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("reading upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	var env fileEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.File == nil || env.File.Name == "" {
		return nil, fmt.Errorf("%w: upload finalize body: %s", ErrUnexpectedResponse, snippet(body))
	}
	return env.File, nil
}

// GetFile fetches the current status of an uploaded file by resource
// name (e.g. "files/abc123").
func (c *Client) GetFile(ctx context.Context, name string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fileBase+"/"+filepath.Base(name)+"?key="+c.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating file status request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching status of %s: %w", name, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("reading file status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	var file File
	if err := json.Unmarshal(body, &file); err != nil || file.Name == "" {
		return nil, fmt.Errorf("%w: file status body: %s", ErrUnexpectedResponse, snippet(body))
	}
	return &file, nil
}

// WaitActive polls a file's status until it leaves PROCESSING, writing
// a progress dot to w per poll. ACTIVE returns the refreshed File; any
// other terminal state returns *StateError. The wait is bounded by
// cfg.PollTimeout and returns *PollTimeoutError when exceeded.
func (c *Client) WaitActive(ctx context.Context, file *File, cfg types.UploadConfig, w io.Writer) (*File, error) {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	deadline := time.Now().Add(timeout)

	for file.State == StateProcessing {
		if time.Now().After(deadline) {
			return nil, &PollTimeoutError{Name: file.Name, Waited: timeout}
		}

		fmt.Fprint(w, ".")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		refreshed, err := c.GetFile(ctx, file.Name)
		if err != nil {
			return nil, err
		}
		file = refreshed
	}

	if file.State != StateActive {
		return nil, &StateError{Name: file.Name, State: file.State}
	}
	return file, nil
}

// ActiveUploader bundles a Client with wait settings so callers that
// only need "upload and give me a usable handle" can take a single
// small interface.
type ActiveUploader struct {
	Client   *Client
	Wait     types.UploadConfig
	Progress io.Writer
}

// Upload sends the file and blocks until it is ACTIVE (or fails).
func (u *ActiveUploader) Upload(ctx context.Context, path, mimeType string) (*File, error) {
	file, err := u.Client.Upload(ctx, path, mimeType)
	if err != nil {
		return nil, err
	}
	progress := u.Progress
	if progress == nil {
		progress = io.Discard
	}
	return u.Client.WaitActive(ctx, file, u.Wait, progress)
}

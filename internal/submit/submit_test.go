// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperbatch/internal/gemini"
	"github.com/pdiddy/paperbatch/pkg/types"
)

type mockUploader struct {
	file  *gemini.File
	err   error
	calls int
	path  string
	mime  string
}

func (m *mockUploader) Upload(_ context.Context, path, mimeType string) (*gemini.File, error) {
	m.calls++
	m.path = path
	m.mime = mimeType
	if m.err != nil {
		return nil, m.err
	}
	return m.file, nil
}

type mockBatchService struct {
	job   *gemini.BatchJob
	err   error
	calls int
	model string
	uri   string
}

func (m *mockBatchService) CreateBatch(_ context.Context, model, inputFileURI string) (*gemini.BatchJob, error) {
	m.calls++
	m.model = model
	m.uri = inputFileURI
	if m.err != nil {
		return nil, m.err
	}
	return m.job, nil
}

func writeManifest(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch_requests.jsonl")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testCfg(manifestPath string) types.SubmitConfig {
	return types.SubmitConfig{
		Model:        "models/gemini-1.5-flash-002",
		ManifestPath: manifestPath,
	}
}

func TestCountRequests(t *testing.T) {
	path := writeManifest(t,
		`{"custom_id":"a.pdf"}`,
		``,
		`{"custom_id":"b.pdf"}`,
	)

	count, err := CountRequests(path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCountRequests_InvalidLine(t *testing.T) {
	path := writeManifest(t, `{"custom_id":"a.pdf"}`, `{broken`)

	_, err := CountRequests(path)
	assert.ErrorContains(t, err, "line 2")
}

func TestRun_SubmitsManifestURI(t *testing.T) {
	path := writeManifest(t, `{"custom_id":"a.pdf"}`, `{"custom_id":"b.pdf"}`)

	up := &mockUploader{file: &gemini.File{
		Name:  "files/manifest",
		URI:   "https://example.com/v1beta/files/manifest",
		State: gemini.StateActive,
	}}
	batches := &mockBatchService{job: &gemini.BatchJob{Name: "batches/xyz"}}

	var out bytes.Buffer
	result, err := Run(context.Background(), up, batches, testCfg(path), &out)
	require.NoError(t, err)

	// The manifest file itself is uploaded as JSON, and the job's input
	// source is the manifest's URI, not any document's.
	assert.Equal(t, path, up.path)
	assert.Equal(t, JSONLMIMEType, up.mime)
	assert.Equal(t, "https://example.com/v1beta/files/manifest", batches.uri)
	assert.Equal(t, "models/gemini-1.5-flash-002", batches.model)

	assert.Equal(t, "batches/xyz", result.Job.Name)
	assert.Equal(t, 2, result.RequestCount)
	assert.Contains(t, out.String(), "batches/xyz")
}

func TestRun_EmptyManifest(t *testing.T) {
	path := writeManifest(t)

	up := &mockUploader{}
	batches := &mockBatchService{}
	_, err := Run(context.Background(), up, batches, testCfg(path), &bytes.Buffer{})

	assert.ErrorContains(t, err, "no requests")
	assert.Zero(t, up.calls)
	assert.Zero(t, batches.calls)
}

func TestRun_UploadFailureAborts(t *testing.T) {
	path := writeManifest(t, `{"custom_id":"a.pdf"}`)

	up := &mockUploader{err: fmt.Errorf("connection reset")}
	batches := &mockBatchService{}
	result, err := Run(context.Background(), up, batches, testCfg(path), &bytes.Buffer{})

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "uploading manifest")
	assert.Zero(t, batches.calls)
}

func TestRun_BatchCreationFailure(t *testing.T) {
	path := writeManifest(t, `{"custom_id":"a.pdf"}`)

	apiErr := &gemini.APIError{Code: 400, Status: "INVALID_ARGUMENT", Message: "bad source"}
	up := &mockUploader{file: &gemini.File{Name: "files/m", URI: "u", State: gemini.StateActive}}
	batches := &mockBatchService{err: apiErr}

	result, err := Run(context.Background(), up, batches, testCfg(path), &bytes.Buffer{})

	// The typed API error survives wrapping so callers can branch on it,
	// and the partial result still carries the uploaded handle.
	var decoded *gemini.APIError
	require.ErrorAs(t, err, &decoded)
	assert.Equal(t, 400, decoded.Code)
	require.NotNil(t, result)
	assert.Nil(t, result.Job)
	assert.Equal(t, "files/m", result.File.Name)
}

func TestRun_MissingManifest(t *testing.T) {
	cfg := testCfg(filepath.Join(t.TempDir(), "missing.jsonl"))
	_, err := Run(context.Background(), &mockUploader{}, &mockBatchService{}, cfg, &bytes.Buffer{})
	assert.Error(t, err)
}

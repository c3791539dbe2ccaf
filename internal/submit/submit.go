// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package submit hands a completed request manifest to the Gemini
// Batch API: upload the JSONL file, then create a job referencing the
// uploaded file's URI as its input source.
package submit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/paperbatch/internal/gemini"
	"github.com/pdiddy/paperbatch/pkg/types"
)

// JSONLMIMEType is the content type sent with the manifest upload.
const JSONLMIMEType = "application/json"

// Uploader sends a local file to the File API and returns a usable
// handle. Satisfied by gemini.ActiveUploader; tests supply mocks.
type Uploader interface {
	Upload(ctx context.Context, path, mimeType string) (*gemini.File, error)
}

// BatchService creates batch jobs. Satisfied by *gemini.Client.
type BatchService interface {
	CreateBatch(ctx context.Context, model, inputFileURI string) (*gemini.BatchJob, error)
}

// Result holds the outcome of a submission run.
type Result struct {
	// File is the uploaded manifest's remote handle.
	File *gemini.File

	// Job is the created batch job, nil if creation failed.
	Job *gemini.BatchJob

	// RequestCount is the number of request records in the manifest.
	RequestCount int
}

// CountRequests counts the request records in a JSONL manifest,
// checking that every non-empty line is independently parseable JSON.
func CountRequests(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening manifest %s: %w", path, err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !json.Valid([]byte(line)) {
			return 0, fmt.Errorf("manifest %s: line %d is not valid JSON", path, count+1)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return count, nil
}

// Run uploads the manifest and creates the batch job. An upload
// failure aborts the run; a job-creation failure returns the partial
// Result alongside the error so the caller can inspect the uploaded
// handle and branch on the error type.
func Run(ctx context.Context, up Uploader, batches BatchService, cfg types.SubmitConfig, w io.Writer) (*Result, error) {
	count, err := CountRequests(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("manifest %s contains no requests", cfg.ManifestPath)
	}

	fmt.Fprintf(w, "uploading manifest %s (%d requests)\n", cfg.ManifestPath, count)

	file, err := up.Upload(ctx, cfg.ManifestPath, JSONLMIMEType)
	if err != nil {
		return nil, fmt.Errorf("uploading manifest: %w", err)
	}
	fmt.Fprintf(w, "manifest ready: %s\n", file.URI)

	result := &Result{File: file, RequestCount: count}

	job, err := batches.CreateBatch(ctx, cfg.Model, file.URI)
	if err != nil {
		return result, fmt.Errorf("creating batch job: %w", err)
	}
	result.Job = job

	fmt.Fprintf(w, "batch job created: %s\n", job.Name)
	if state := job.State(); state != "" {
		fmt.Fprintf(w, "state: %s\n", state)
	}
	return result, nil
}

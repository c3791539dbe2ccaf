// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Submission is the local record of one batch job handed to the Gemini
// Batch API. The remote service owns the job; this record exists so a
// follow-on status or download step can find it again.
type Submission struct {
	// ID is a locally generated identifier for this submission record.
	ID string `json:"id" yaml:"id"`

	// JobName is the resource name returned by the Batch API
	// (e.g. "batches/abc123").
	JobName string `json:"job_name" yaml:"job_name"`

	// Model is the model identifier the job was submitted against.
	Model string `json:"model" yaml:"model"`

	// InputFileURI is the File API URI of the uploaded manifest.
	InputFileURI string `json:"input_file_uri" yaml:"input_file_uri"`

	// ManifestPath is the local path of the manifest that was uploaded.
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`

	// RequestCount is the number of request records in the manifest.
	RequestCount int `json:"request_count" yaml:"request_count"`

	// State is the job state reported at submission time.
	State string `json:"state" yaml:"state"`

	// CreatedAt is when the submission was recorded locally.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

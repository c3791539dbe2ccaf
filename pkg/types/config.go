package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that call the
// Gemini API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperbatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// UploadConfig holds settings for File API uploads and the wait for an
// uploaded file to finish remote processing.
type UploadConfig struct {
	HTTPConfig `yaml:",inline"`

	// PollInterval is the delay between file status checks while the
	// remote file is still PROCESSING (default 2s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// PollTimeout bounds the total time spent waiting for a single file
	// to leave PROCESSING (default 5m). Zero means the default, not
	// unbounded.
	PollTimeout time.Duration `json:"poll_timeout" yaml:"poll_timeout"`
}

// PrepareConfig holds settings for the manifest preparation stage.
type PrepareConfig struct {
	Upload UploadConfig `json:"upload" yaml:"upload"`

	// PDFDir is the directory scanned for *.pdf source documents.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`

	// ManifestPath is where the JSONL request manifest is written.
	// An existing file at this path is overwritten.
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`

	// ReportPath is where the YAML skip report is written. Empty
	// disables the report.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// SubmitConfig holds settings for the batch submission stage.
type SubmitConfig struct {
	Upload UploadConfig `json:"upload" yaml:"upload"`

	// Model is the Gemini model identifier the batch job runs against
	// (e.g. "models/gemini-1.5-flash-002").
	Model string `json:"model" yaml:"model"`

	// ManifestPath is the JSONL manifest produced by the prepare stage.
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`
}

// JobStoreConfig holds settings for the local submission record store.
type JobStoreConfig struct {
	// JobsDir is the directory holding the submissions database.
	JobsDir string `json:"jobs_dir" yaml:"jobs_dir"`
}

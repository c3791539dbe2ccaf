// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest turns a directory of exam PDFs into a JSONL request
// manifest for the Gemini Batch API. Each line is one independently
// parseable structured-extraction request carrying the schema for the
// document's kind.
package manifest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperbatch/internal/gemini"
)

// PDFMIMEType is the content type sent with document uploads.
const PDFMIMEType = "application/pdf"

// Document is a local PDF discovered for inclusion in the manifest.
type Document struct {
	// Path is the local filesystem path.
	Path string `json:"path" yaml:"path"`

	// Filename is the base name, used verbatim as the request's
	// custom_id so results map back to source files.
	Filename string `json:"filename" yaml:"filename"`
}

// Kind returns the document's classification.
func (d Document) Kind() Kind { return Classify(d.Filename) }

// Discover lists *.pdf files in dir, sorted by filename so manifest
// order is deterministic across platforms. A missing or empty
// directory yields an empty slice, not an error.
func Discover(dir string) ([]Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		docs = append(docs, Document{Path: p, Filename: filepath.Base(p)})
	}
	return docs, nil
}

// Record is one manifest line: a request the batch service executes
// independently, keyed by custom_id for mapping results back.
type Record struct {
	CustomID string  `json:"custom_id"`
	Request  Request `json:"request"`
}

// Request is the generateContent payload embedded in a manifest line.
type Request struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generation_config"`
}

// Content is one conversation turn.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is either a text part or a file reference, never both.
type Part struct {
	Text     string    `json:"text,omitempty"`
	FileData *FileData `json:"file_data,omitempty"`
}

// FileData references a file previously uploaded to the File API.
type FileData struct {
	MIMEType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

// GenerationConfig constrains the model's output to JSON matching the
// document kind's schema.
type GenerationConfig struct {
	ResponseMIMEType string         `json:"response_mime_type"`
	ResponseSchema   *gemini.Schema `json:"response_schema"`
}

// NewRecord builds the request record for one uploaded document. The
// custom_id is the filename exactly, with no transformation.
func NewRecord(doc Document, fileURI string) Record {
	kind := doc.Kind()
	return Record{
		CustomID: doc.Filename,
		Request: Request{
			Contents: []Content{{
				Role: "user",
				Parts: []Part{
					{Text: PromptFor(kind)},
					{FileData: &FileData{MIMEType: PDFMIMEType, FileURI: fileURI}},
				},
			}},
			GenerationConfig: GenerationConfig{
				ResponseMIMEType: "application/json",
				ResponseSchema:   SchemaFor(kind),
			},
		},
	}
}

// Uploader sends a local file to remote storage and returns a usable
// handle. The gemini.ActiveUploader satisfies this; tests supply mocks.
type Uploader interface {
	Upload(ctx context.Context, path, mimeType string) (*gemini.File, error)
}

// DroppedDocument pairs a skipped document with the reason it was
// excluded from the manifest.
type DroppedDocument struct {
	Document `yaml:",inline"`

	// Reason is the failure message for this document.
	Reason string `json:"reason" yaml:"reason"`
}

// BuildResult holds the outcome of a manifest build run.
type BuildResult struct {
	// Records are the manifest entries for documents whose upload
	// succeeded, in discovery order.
	Records []Record

	// Dropped lists documents excluded from the manifest, with reasons.
	Dropped []DroppedDocument
}

// Total returns the number of documents processed.
func (r BuildResult) Total() int { return len(r.Records) + len(r.Dropped) }

// HasFailures reports whether any document was dropped.
func (r BuildResult) HasFailures() bool { return len(r.Dropped) > 0 }

// Build uploads each document in order and accumulates one record per
// success. A failed validation or upload drops the document entirely
// (no record, no placeholder) and the run continues; the dropped list
// makes the skips observable to callers.
func Build(ctx context.Context, up Uploader, docs []Document, w io.Writer) BuildResult {
	var result BuildResult

	for i, doc := range docs {
		fmt.Fprintf(w, "uploading %d/%d: %s\n", i+1, len(docs), doc.Filename)

		if err := validatePDF(doc.Path); err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", doc.Filename, err)
			result.Dropped = append(result.Dropped, DroppedDocument{Document: doc, Reason: err.Error()})
			continue
		}

		file, err := up.Upload(ctx, doc.Path, PDFMIMEType)
		if err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", doc.Filename, err)
			result.Dropped = append(result.Dropped, DroppedDocument{Document: doc, Reason: err.Error()})
			continue
		}

		fmt.Fprintf(w, "ready %s (%s)\n", doc.Filename, file.URI)
		result.Records = append(result.Records, NewRecord(doc, file.URI))
	}

	return result
}

// validatePDF rejects unreadable or empty PDFs before spending an
// upload on them. Declared as a var so tests can substitute it.
var validatePDF = func(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	pages, err := api.PageCount(f, nil)
	if err != nil {
		return fmt.Errorf("reading pdf: %w", err)
	}
	if pages == 0 {
		return fmt.Errorf("pdf has no pages")
	}
	return nil
}

// Write serializes records to path as line-delimited JSON, one record
// per line, replacing any previous manifest at that path.
func Write(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating manifest %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling record %s: %w", rec.CustomID, err)
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// Report is the YAML sidecar summarizing a build run, including which
// documents were dropped and why.
type Report struct {
	Uploaded int               `yaml:"uploaded"`
	Dropped  []DroppedDocument `yaml:"dropped,omitempty"`
}

// WriteReport writes the build summary next to the manifest.
func WriteReport(result BuildResult, path string) error {
	data, err := yaml.Marshal(Report{
		Uploaded: len(result.Records),
		Dropped:  result.Dropped,
	})
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

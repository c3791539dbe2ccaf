package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperbatch/internal/gemini"
	"github.com/pdiddy/paperbatch/internal/manifest"
	"github.com/pdiddy/paperbatch/pkg/types"
)

const (
	defaultTimeout      = 120 * time.Second
	defaultUserAgent    = "paperbatch/0.1"
	defaultPDFDir       = "pdfs"
	defaultManifestPath = "batch_requests.jsonl"
	defaultReportPath   = "batch_report.yaml"
	defaultModel        = "models/gemini-1.5-flash-002"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Upload PDFs and build the batch request manifest",
	Long: `Prepare scans the PDF directory, uploads each document to the Gemini
File API, classifies it as a question paper or marking memo by filename
(MEMO/MG means memo), and writes one schema-constrained extraction
request per uploaded document to the JSONL manifest.

Documents whose upload fails are dropped from the manifest; the run
continues and the skip report lists every dropped document with its
reason.`,
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().String("pdf-dir", defaultPDFDir, "directory scanned for *.pdf documents")
	prepareCmd.Flags().String("manifest", defaultManifestPath, "output path for the JSONL manifest")
	prepareCmd.Flags().String("report", defaultReportPath, "output path for the YAML skip report (empty disables)")
	prepareCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	prepareCmd.Flags().Duration("poll-interval", 0, "delay between file status checks (default 2s)")
	prepareCmd.Flags().Duration("poll-timeout", 0, "max wait for one file to finish processing (default 5m)")

	rootCmd.AddCommand(prepareCmd)
}

// uploadConfigFromFlags builds the shared upload settings used by both
// prepare and submit.
func uploadConfigFromFlags(cmd *cobra.Command) types.UploadConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	interval, _ := cmd.Flags().GetDuration("poll-interval")
	pollTimeout, _ := cmd.Flags().GetDuration("poll-timeout")

	return types.UploadConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		PollInterval: interval,
		PollTimeout:  pollTimeout,
	}
}

func runPrepare(cmd *cobra.Command, args []string) error {
	key, err := apiKey()
	if err != nil {
		return err
	}

	pdfDir, _ := cmd.Flags().GetString("pdf-dir")
	manifestPath, _ := cmd.Flags().GetString("manifest")
	reportPath, _ := cmd.Flags().GetString("report")

	cfg := types.PrepareConfig{
		Upload:       uploadConfigFromFlags(cmd),
		PDFDir:       pdfDir,
		ManifestPath: manifestPath,
		ReportPath:   reportPath,
	}

	docs, err := manifest.Discover(cfg.PDFDir)
	if err != nil {
		return err
	}
	fmt.Printf("found %d PDFs in %s\n", len(docs), cfg.PDFDir)

	client := gemini.NewClient(key, cfg.Upload.HTTPConfig)
	uploader := &gemini.ActiveUploader{
		Client:   client,
		Wait:     cfg.Upload,
		Progress: os.Stdout,
	}

	result := manifest.Build(context.Background(), uploader, docs, os.Stdout)

	if err := manifest.Write(result.Records, cfg.ManifestPath); err != nil {
		return err
	}
	if cfg.ReportPath != "" {
		if err := manifest.WriteReport(result, cfg.ReportPath); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %s with %d records (%d dropped)\n",
		cfg.ManifestPath, len(result.Records), len(result.Dropped))

	// Per-document failures are non-fatal: the manifest covers the
	// successful subset and the report carries the rest.
	return nil
}

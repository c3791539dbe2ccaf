package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperbatch/internal/gemini"
	"github.com/pdiddy/paperbatch/internal/jobstore"
	"github.com/pdiddy/paperbatch/internal/submit"
	"github.com/pdiddy/paperbatch/pkg/types"
)

const defaultJobsDir = "jobs"

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Upload the manifest and create the batch job",
	Long: `Submit uploads the JSONL manifest produced by prepare to the Gemini
File API, then creates a batch job whose input source is the uploaded
manifest's URI. The created job is recorded in the local jobs database
for later status checks.`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().String("manifest", defaultManifestPath, "JSONL manifest to submit")
	submitCmd.Flags().String("model", defaultModel, "Gemini model identifier for the batch job")
	submitCmd.Flags().String("jobs-dir", defaultJobsDir, "directory for the local submissions database")
	submitCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	submitCmd.Flags().Duration("poll-interval", 0, "delay between file status checks (default 2s)")
	submitCmd.Flags().Duration("poll-timeout", 0, "max wait for the manifest to finish processing (default 5m)")

	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	key, err := apiKey()
	if err != nil {
		return err
	}

	manifestPath, _ := cmd.Flags().GetString("manifest")
	model, _ := cmd.Flags().GetString("model")
	jobsDir, _ := cmd.Flags().GetString("jobs-dir")

	cfg := types.SubmitConfig{
		Upload:       uploadConfigFromFlags(cmd),
		Model:        model,
		ManifestPath: manifestPath,
	}

	client := gemini.NewClient(key, cfg.Upload.HTTPConfig)
	uploader := &gemini.ActiveUploader{
		Client:   client,
		Wait:     cfg.Upload,
		Progress: os.Stdout,
	}

	result, err := submit.Run(context.Background(), uploader, client, cfg, os.Stdout)
	if err != nil {
		// A decoded API rejection is reported, not propagated; the
		// manifest and uploaded file are intact for a manual retry.
		var apiErr *gemini.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "batch creation failed: %v\n", apiErr)
			return nil
		}
		return err
	}

	store, err := jobstore.NewStore(types.JobStoreConfig{JobsDir: jobsDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open job store: %v\n", err)
		return nil
	}
	defer store.Close()

	sub := types.Submission{
		JobName:      result.Job.Name,
		Model:        cfg.Model,
		InputFileURI: result.File.URI,
		ManifestPath: cfg.ManifestPath,
		RequestCount: result.RequestCount,
		State:        result.Job.State(),
	}
	if err := store.Record(context.Background(), &sub); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record submission: %v\n", err)
		return nil
	}

	fmt.Printf("recorded submission %s\n", sub.ID)
	return nil
}

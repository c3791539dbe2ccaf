// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperbatch/internal/jobstore"
	"github.com/pdiddy/paperbatch/pkg/types"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List locally recorded batch submissions",
	Long: `Jobs lists every batch submission recorded by submit, newest first,
with the remote job name needed for status checks against the Batch
API.`,
	RunE: runJobs,
}

func init() {
	jobsCmd.Flags().String("jobs-dir", defaultJobsDir, "directory for the local submissions database")
	jobsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	jobsDir, _ := cmd.Flags().GetString("jobs-dir")

	store, err := jobstore.NewStore(types.JobStoreConfig{JobsDir: jobsDir})
	if err != nil {
		return err
	}
	defer store.Close()

	subs, err := store.List(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(subs)
	}

	if len(subs) == 0 {
		fmt.Println("no recorded submissions")
		return nil
	}
	for _, sub := range subs {
		fmt.Printf("%s  %s  %s  %d requests  %s\n",
			sub.CreatedAt.Format(time.RFC3339), sub.JobName, sub.Model,
			sub.RequestCount, sub.State)
	}
	return nil
}

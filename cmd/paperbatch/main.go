// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperbatch CLI, which
// prepares and submits exam-paper extraction workloads to the Gemini
// Batch API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperbatch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// apiKey resolves the Gemini credential: the GEMINI_API_KEY
// environment variable first, then the .secrets/gemini-api-key file.
func apiKey() (string, error) {
	key := secrets.Resolve(loadedSecrets, "GEMINI_API_KEY", "gemini-api-key")
	if key == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set (or .secrets/gemini-api-key missing)")
	}
	return key, nil
}

// rootCmd is the base command for the paperbatch CLI.
var rootCmd = &cobra.Command{
	Use:   "paperbatch",
	Short: "Bulk exam-paper extraction via the Gemini Batch API",
	Long: `paperbatch turns a directory of exam PDFs (question papers and marking
memoranda) into an asynchronous Gemini batch extraction job.

Each phase is a subcommand: prepare uploads the PDFs and writes a JSONL
request manifest with a per-document response schema; submit uploads the
manifest and creates the batch job; jobs lists locally recorded
submissions for later status checks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperbatch.yaml or ~/.config/paperbatch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperbatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperbatch"))
		}
	}

	viper.SetEnvPrefix("PAPERBATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

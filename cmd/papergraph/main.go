// Package main provides the papergraph CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configFile is the papergraph.yml path, relative to the working directory.
var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "papergraph",
	Short: "Citation-network extraction for a local paper corpus",
	Long: `papergraph builds a citation graph from a directory of research papers.

It extracts per-page text from PDFs, splits papers into sections, parses
reference lists, and resolves each reference against the corpus itself to
produce a directed citation graph. The graph lives in git-versionable JSONL
with an ephemeral SQLite database for fast queries. All commands output
JSON by default for easy integration with agents and other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env if present (for OLLAMA_HOST, PAPERGRAPH_ROOT overrides)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultFile, "Config file path")
	rootCmd.Version = Version
}

// loadConfig loads the run configuration or exits with a config error.
func loadConfig() config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

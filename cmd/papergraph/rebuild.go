package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/storage"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query cache from source data",
	Long: `Rebuild the SQLite query database from papers.jsonl and edges.jsonl.

Use this after pulling changes from git or if the database becomes corrupted.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string `json:"status"`
	Papers int    `json:"papers"`
	Edges  int    `json:"edges"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	papers, err := storage.ReadPapers(cfg.PapersFile())
	if err != nil {
		exitWithError(ExitDataError, "reading papers: %v", err)
	}
	if len(papers) == 0 {
		exitWithError(ExitConfigError, "no papers in %s (run corpus first)", cfg.PapersFile())
	}
	edges, err := storage.ReadEdges(cfg.EdgesFile())
	if err != nil {
		exitWithError(ExitDataError, "reading edges: %v", err)
	}

	if err := os.MkdirAll(cfg.CacheDir(), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(cfg.CacheDB())
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	count, err := db.Rebuild(papers, edges)
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query database with %d papers and %d edges\n", count, len(edges))
		return nil
	}
	return outputJSON(RebuildResult{Status: "rebuilt", Papers: count, Edges: len(edges)})
}

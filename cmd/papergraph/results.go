package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/ideas"
	"github.com/jahody/papers2/internal/results"
)

var resultsOut string

func init() {
	resultsCmd.Flags().StringVar(&resultsOut, "out", "", "Report file path (default <root>/paper_results.txt)")
	rootCmd.AddCommand(resultsCmd)
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Extract experimental-result tables from paper sections",
	Long: `Send each paper's result-bearing sections to a local Ollama endpoint
and collect its experimental-result tables, formatted as Markdown, into a
report file. Sections are read in result-priority order (results and
experiments first) under a fixed character budget; papers where the model
finds no results are omitted from the report.

Requires a running Ollama server. Configure via the ideas section of
papergraph.yml or the OLLAMA_HOST / OLLAMA_MODEL environment variables.`,
	RunE: runResults,
}

// ResultEntry is the per-paper entry in the results response.
type ResultEntry struct {
	PaperID string `json:"paper_id"`
	Tables  string `json:"tables,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ResultsResult is the response for the results command.
type ResultsResult struct {
	Status  string        `json:"status"`
	Model   string        `json:"model"`
	Results []ResultEntry `json:"results"`
	Path    string        `json:"path"`
}

func runResults(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := cmd.Context()

	var opts []ideas.Option
	if cfg.Ideas.Host != "" {
		opts = append(opts, ideas.WithBaseURL(cfg.Ideas.Host))
	}
	if cfg.Ideas.Model != "" {
		opts = append(opts, ideas.WithModel(cfg.Ideas.Model))
	}
	client := ideas.NewClient(opts...)

	if err := client.IsAvailable(ctx); err != nil {
		exitWithError(ExitDataError, "ollama not available: %v", err)
	}

	paperDirs, err := listPaperDirs(cfg.SectionsDir(), sectionDirSuffix)
	if err != nil {
		exitWithError(ExitConfigError, "%v (run sections first)", err)
	}
	if len(paperDirs) == 0 {
		exitWithError(ExitConfigError, "no section directories in %s", cfg.SectionsDir())
	}

	extracted, err := results.Extract(ctx, client, paperDirs)
	if err != nil {
		exitWithError(ExitError, "extracting results: %v", err)
	}

	out := resultsOut
	if out == "" {
		out = filepath.Join(cfg.Root, "paper_results.txt")
	}
	if err := results.WriteReport(out, extracted); err != nil {
		exitWithError(ExitError, "writing report: %v", err)
	}

	if humanOutput {
		for _, r := range extracted {
			switch {
			case r.Err != nil:
				outputHuman("%-50s ERROR: %v\n", truncateString(r.PaperID, 50), r.Err)
			case r.Tables == results.NoResultsMarker:
				outputHuman("%-50s no results found\n", truncateString(r.PaperID, 50))
			default:
				outputHuman("%-50s %d chars of tables\n", truncateString(r.PaperID, 50), len(r.Tables))
			}
		}
		fmt.Printf("Wrote report for %d papers to %s\n", len(extracted), out)
		return nil
	}

	entries := make([]ResultEntry, 0, len(extracted))
	for _, r := range extracted {
		e := ResultEntry{PaperID: r.PaperID, Tables: r.Tables}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		entries = append(entries, e)
	}
	return outputJSON(ResultsResult{Status: "extracted", Model: client.ModelName(), Results: entries, Path: out})
}

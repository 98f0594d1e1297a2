package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/citation"
	"github.com/jahody/papers2/internal/corpus"
)

func init() {
	rootCmd.AddCommand(referencesCmd)
}

var referencesCmd = &cobra.Command{
	Use:   "references",
	Short: "Isolate reference lists into one-reference-per-line files",
	Long: `Find each paper's reference section, split it into individual
references, and write a cleaned one-reference-per-line file. Useful for
inspecting what the graph command will feed the resolver.`,
	RunE: runReferences,
}

// ReferencedPaper is the per-paper entry in the references response.
type ReferencedPaper struct {
	ID         string `json:"id"`
	References int    `json:"references"`
}

// ReferencesResult is the response for the references command.
type ReferencesResult struct {
	Status  string            `json:"status"`
	Papers  []ReferencedPaper `json:"papers"`
	Skipped []string          `json:"skipped,omitempty"`
}

func runReferences(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	paperDirs, err := listPaperDirs(cfg.SectionsDir(), sectionDirSuffix)
	if err != nil {
		exitWithError(ExitConfigError, "%v (run sections first)", err)
	}
	if len(paperDirs) == 0 {
		exitWithError(ExitConfigError, "no section directories in %s", cfg.SectionsDir())
	}

	if err := os.MkdirAll(cfg.ReferencesDir(), 0755); err != nil {
		exitWithError(ExitError, "creating references directory: %v", err)
	}

	var results []ReferencedPaper
	var skipped []string
	for _, dir := range paperDirs {
		id := strings.TrimSuffix(filepath.Base(dir), sectionDirSuffix)

		refFile, err := corpus.ReferenceFile(dir)
		if err != nil {
			exitWithError(ExitDataError, "locating references for %s: %v", id, err)
		}
		if refFile == "" {
			skipped = append(skipped, id)
			continue
		}
		block, err := os.ReadFile(refFile)
		if err != nil {
			exitWithError(ExitDataError, "reading references for %s: %v", id, err)
		}

		refs := citation.SplitBlock(string(block))
		out := filepath.Join(cfg.ReferencesDir(), id+"_references.txt")
		if err := os.WriteFile(out, []byte(strings.Join(refs, "\n")+"\n"), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", out, err)
		}
		results = append(results, ReferencedPaper{ID: id, References: len(refs)})

		if humanOutput {
			outputHuman("%-50s %d references\n", truncateString(id, 50), len(refs))
		}
	}

	if humanOutput {
		for _, id := range skipped {
			outputHuman("%-50s no reference section\n", truncateString(id, 50))
		}
		fmt.Printf("\nWrote %d reference files to %s\n", len(results), cfg.ReferencesDir())
		return nil
	}
	return outputJSON(ReferencesResult{Status: "split", Papers: results, Skipped: skipped})
}

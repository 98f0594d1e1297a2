package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/corpus"
	"github.com/jahody/papers2/internal/storage"
)

func init() {
	rootCmd.AddCommand(corpusCmd)
}

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Derive papers.jsonl from the section directories",
	Long: `Build the canonical paper records from the section directory names:
the arXiv-id prefix yields the publication year, the folded directory name
the title. Writes papers.jsonl at the corpus root.`,
	RunE: runCorpus,
}

// CorpusResult is the response for the corpus command.
type CorpusResult struct {
	Status string `json:"status"`
	Papers int    `json:"papers"`
	Path   string `json:"path"`
}

func runCorpus(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	papers, err := corpus.DerivePapers(cfg.SectionsDir())
	if err != nil {
		exitWithError(ExitConfigError, "%v (run sections first)", err)
	}
	if len(papers) == 0 {
		exitWithError(ExitConfigError, "no section directories in %s", cfg.SectionsDir())
	}

	if err := storage.WritePapers(cfg.PapersFile(), papers); err != nil {
		exitWithError(ExitError, "writing papers: %v", err)
	}

	if humanOutput {
		fmt.Printf("Wrote %d papers to %s\n", len(papers), cfg.PapersFile())
		return nil
	}
	return outputJSON(CorpusResult{Status: "written", Papers: len(papers), Path: cfg.PapersFile()})
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/export"
	"github.com/jahody/papers2/internal/paper"
	"github.com/jahody/papers2/internal/storage"
)

var (
	exportKeys   string
	exportAppend string
)

func init() {
	exportCmd.Flags().StringVar(&exportKeys, "keys", "", "Export only specified paper IDs (comma-separated)")
	exportCmd.Flags().StringVar(&exportAppend, "append", "", "Append to a .bib file, skipping entries already present")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export corpus papers to BibTeX",
	Long: `Export paper records from the corpus to BibTeX format.

Examples:
  papergraph export > corpus.bib
  papergraph export --keys 1706.03762_attention,1810.04805_bert
  papergraph export --append refs.bib`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	papers, err := storage.ReadPapers(cfg.PapersFile())
	if err != nil {
		exitWithError(ExitDataError, "reading papers: %v", err)
	}
	if len(papers) == 0 {
		exitWithError(ExitConfigError, "no papers in %s (run corpus first)", cfg.PapersFile())
	}

	if exportKeys != "" {
		selected := make([]paper.Paper, 0)
		for _, key := range strings.Split(exportKeys, ",") {
			key = strings.TrimSpace(key)
			i, ok := storage.FindPaperByID(papers, key)
			if !ok {
				exitWithError(ExitError, "unknown paper ID: %s", key)
			}
			selected = append(selected, papers[i])
		}
		papers = selected
	}

	if exportAppend != "" {
		return appendBib(exportAppend, papers)
	}

	// BibTeX is always text output, never JSON.
	fmt.Print(export.ToBibTeXList(papers))
	return nil
}

// appendBib appends only the papers not already present in the target
// .bib file, matching by DOI first and paper ID second.
func appendBib(path string, papers []paper.Paper) error {
	idx, err := export.LoadBibIndex(path)
	if err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", path, err)
	}

	var added int
	var b strings.Builder
	for _, p := range papers {
		if idx.Contains(p) {
			continue
		}
		b.WriteString(export.ToBibTeX(p))
		b.WriteString("\n")
		added++
	}

	if added > 0 {
		if err := export.AppendEntries(path, b.String()); err != nil {
			exitWithError(ExitError, "appending to %s: %v", path, err)
		}
	}

	if humanOutput {
		fmt.Printf("Appended %d entries to %s (%d already present)\n", added, path, len(papers)-added)
		return nil
	}
	return outputJSON(StatusResponse{Status: "appended", Path: path, Count: added})
}

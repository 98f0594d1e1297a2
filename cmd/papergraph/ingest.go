package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/pdftext"
)

func init() {
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <pdf-dir>",
	Short: "Extract per-page text from paper PDFs",
	Long: `Extract plain text from every PDF in a directory, one text file per
page, into the configured pages directory. The file stem (without .pdf)
becomes the paper ID used by all later stages.

Examples:
  papergraph ingest ./pdfs`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

// IngestedPaper is the per-PDF entry in the ingest response.
type IngestedPaper struct {
	ID    string `json:"id"`
	Pages int    `json:"pages"`
	DOI   string `json:"doi,omitempty"`
	Error string `json:"error,omitempty"`
}

// IngestResult is the response for the ingest command.
type IngestResult struct {
	Status string          `json:"status"`
	Papers []IngestedPaper `json:"papers"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	pdfDir := args[0]

	entries, err := os.ReadDir(pdfDir)
	if err != nil {
		exitWithError(ExitConfigError, "reading pdf directory: %v", err)
	}

	var pdfs []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			pdfs = append(pdfs, e.Name())
		}
	}
	sort.Strings(pdfs)
	if len(pdfs) == 0 {
		exitWithError(ExitConfigError, "no PDF files in %s", pdfDir)
	}

	var results []IngestedPaper
	for _, name := range pdfs {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		entry := IngestedPaper{ID: stem}

		pages, err := pdftext.ExtractPages(filepath.Join(pdfDir, name))
		if err != nil {
			// A single unreadable PDF should not abort the whole run.
			entry.Error = err.Error()
			results = append(results, entry)
			continue
		}
		entry.Pages = len(pages)

		dir := filepath.Join(cfg.PagesDir(), stem)
		if err := pdftext.WritePages(dir, stem, pages); err != nil {
			exitWithError(ExitError, "writing pages for %s: %v", stem, err)
		}

		if doi, err := pdftext.ExtractDOI(filepath.Join(pdfDir, name)); err == nil {
			entry.DOI = doi
		}
		results = append(results, entry)

		if humanOutput {
			outputHuman("%-50s %d pages\n", truncateString(stem, 50), entry.Pages)
		}
	}

	if humanOutput {
		fmt.Printf("\nIngested %d papers into %s\n", len(results), cfg.PagesDir())
		return nil
	}
	return outputJSON(IngestResult{Status: "ingested", Papers: results})
}

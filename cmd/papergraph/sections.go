package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/sections"
)

func init() {
	rootCmd.AddCommand(sectionsCmd)
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Split ingested page text into per-section files",
	Long: `Combine each paper's page files in numeric order and split the result
into one file per section. Front matter lands in 0a_intro, the abstract in
0b_abstract, and numbered sections keep their original numbers.`,
	RunE: runSections,
}

// SectionedPaper is the per-paper entry in the sections response.
type SectionedPaper struct {
	ID       string `json:"id"`
	Sections int    `json:"sections"`
}

// SectionsResult is the response for the sections command.
type SectionsResult struct {
	Status string           `json:"status"`
	Papers []SectionedPaper `json:"papers"`
}

func runSections(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	paperDirs, err := listPaperDirs(cfg.PagesDir(), "")
	if err != nil {
		exitWithError(ExitConfigError, "%v (run ingest first)", err)
	}
	if len(paperDirs) == 0 {
		exitWithError(ExitConfigError, "no paper directories in %s", cfg.PagesDir())
	}

	var results []SectionedPaper
	for _, dir := range paperDirs {
		id := filepath.Base(dir)

		content, err := sections.Combine(dir)
		if err != nil {
			exitWithError(ExitDataError, "combining pages for %s: %v", id, err)
		}
		secs := sections.Split(content)

		outDir := filepath.Join(cfg.SectionsDir(), id+sectionDirSuffix)
		if err := sections.WriteAll(outDir, secs); err != nil {
			exitWithError(ExitError, "writing sections for %s: %v", id, err)
		}
		results = append(results, SectionedPaper{ID: id, Sections: len(secs)})

		if humanOutput {
			outputHuman("%-50s %d sections\n", truncateString(id, 50), len(secs))
		}
	}

	if humanOutput {
		fmt.Printf("\nSplit %d papers into %s\n", len(results), cfg.SectionsDir())
		return nil
	}
	return outputJSON(SectionsResult{Status: "split", Papers: results})
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/scan"
)

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Scan section text for dataset mentions",
	Long: `Scan each paper's sections for benchmark dataset mentions, reading
high-signal sections first (abstract, introduction, data, experiments).
Reference sections are excluded so cited titles do not count as usage.`,
	RunE: runDatasets,
}

// PaperDatasets is the per-paper entry in the datasets response.
type PaperDatasets struct {
	PaperID  string         `json:"paper_id"`
	Mentions []scan.Mention `json:"mentions"`
}

func runDatasets(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	paperDirs, err := listPaperDirs(cfg.SectionsDir(), sectionDirSuffix)
	if err != nil {
		exitWithError(ExitConfigError, "%v (run sections first)", err)
	}
	if len(paperDirs) == 0 {
		exitWithError(ExitConfigError, "no section directories in %s", cfg.SectionsDir())
	}

	results := make([]PaperDatasets, 0, len(paperDirs))
	for _, dir := range paperDirs {
		id := strings.TrimSuffix(filepath.Base(dir), sectionDirSuffix)

		mentions, err := scan.ScanPaper(dir)
		if err != nil {
			exitWithError(ExitDataError, "scanning %s: %v", id, err)
		}
		if mentions == nil {
			mentions = []scan.Mention{}
		}
		results = append(results, PaperDatasets{PaperID: id, Mentions: mentions})
	}

	if humanOutput {
		for _, r := range results {
			fmt.Printf("%s\n", r.PaperID)
			if len(r.Mentions) == 0 {
				fmt.Println("  (no dataset mentions)")
				continue
			}
			for _, m := range r.Mentions {
				fmt.Printf("  %-25s %3dx  first seen in %s\n", m.Name, m.Count, m.Section)
			}
		}
		return nil
	}
	return outputJSON(results)
}

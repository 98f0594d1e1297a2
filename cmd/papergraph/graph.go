package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/corpus"
	"github.com/jahody/papers2/internal/export"
	"github.com/jahody/papers2/internal/pipeline"
	"github.com/jahody/papers2/internal/storage"
)

func init() {
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the citation graph and export it",
	Long: `Resolve every paper's references against the corpus and assemble the
citation graph. Writes citations.json and citations.dot plus the canonical
edges.jsonl into the graph directory, and reports per-paper resolution
counts and the most-cited external references.

Examples:
  papergraph graph
  papergraph graph --human`,
	RunE: runGraph,
}

// GraphResult is the response for the graph command.
type GraphResult struct {
	Status   string                 `json:"status"`
	Nodes    int                    `json:"nodes"`
	Edges    int                    `json:"edges"`
	Papers   []pipeline.PaperReport `json:"papers"`
	External []pipeline.ExternalRef `json:"external,omitempty"`
	JSONPath string                 `json:"json_path"`
	DOTPath  string                 `json:"dot_path"`
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	papers, err := storage.ReadPapers(cfg.PapersFile())
	if err != nil {
		exitWithError(ExitDataError, "reading papers: %v", err)
	}
	if len(papers) == 0 {
		exitWithError(ExitConfigError, "no papers in %s (run corpus first)", cfg.PapersFile())
	}

	blocks, err := corpus.LoadReferenceBlocks(cfg.SectionsDir())
	if err != nil {
		exitWithError(ExitConfigError, "loading reference sections: %v", err)
	}

	res, err := pipeline.Execute(cmd.Context(), pipeline.Input{
		Papers:          papers,
		ReferenceBlocks: blocks,
	}, pipeline.Options{
		Workers: cfg.Workers,
		Tuning:  cfg.Tuning,
	})
	if err != nil {
		exitWithError(ExitDataError, "building graph: %v", err)
	}

	jsonOut, err := export.ToJSON(res.Graph)
	if err != nil {
		exitWithError(ExitError, "exporting JSON: %v", err)
	}
	dotOut, err := export.ToDOT(res.Graph)
	if err != nil {
		exitWithError(ExitError, "exporting DOT: %v", err)
	}

	if err := os.MkdirAll(cfg.GraphDir(), 0755); err != nil {
		exitWithError(ExitError, "creating graph directory: %v", err)
	}
	jsonPath := filepath.Join(cfg.GraphDir(), "citations.json")
	dotPath := filepath.Join(cfg.GraphDir(), "citations.dot")
	if err := os.WriteFile(jsonPath, jsonOut, 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", jsonPath, err)
	}
	if err := os.WriteFile(dotPath, []byte(dotOut), 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", dotPath, err)
	}
	if err := storage.WriteEdges(cfg.EdgesFile(), res.Graph.Edges()); err != nil {
		exitWithError(ExitError, "writing edges: %v", err)
	}

	stats := res.Graph.Stats()
	if humanOutput {
		printGraphHuman(res, stats.NodeCount, stats.EdgeCount, jsonPath, dotPath)
		return nil
	}
	return outputJSON(GraphResult{
		Status:   "built",
		Nodes:    stats.NodeCount,
		Edges:    stats.EdgeCount,
		Papers:   res.Reports,
		External: res.External,
		JSONPath: jsonPath,
		DOTPath:  dotPath,
	})
}

func printGraphHuman(res *pipeline.Result, nodes, edges int, jsonPath, dotPath string) {
	fmt.Printf("Citation graph: %d nodes, %d edges\n\n", nodes, edges)

	fmt.Println("Per-paper resolution:")
	for _, r := range res.Reports {
		fmt.Printf("  %-50s %3d refs  %3d resolved  %3d external  %3d unparseable\n",
			truncateString(r.PaperID, 50), r.References, r.Resolved, r.External, r.Unparseable)
	}

	if len(res.External) > 0 {
		fmt.Println("\nMost-cited external references:")
		for _, e := range res.External {
			fmt.Printf("  %3dx %s\n", e.Count, truncateString(e.Title, ListTitleMaxLen))
		}
	}

	fmt.Printf("\nWrote %s and %s\n", jsonPath, dotPath)
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jahody/papers2/internal/ideas"
)

var ideasOut string

func init() {
	ideasCmd.Flags().StringVar(&ideasOut, "out", "", "Report file path (default <root>/main_ideas.txt)")
	rootCmd.AddCommand(ideasCmd)
}

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Extract one-sentence main ideas from paper abstracts",
	Long: `Send each paper's abstract section to a local Ollama endpoint and
collect a one-sentence main idea per paper into a report file. A failure
on one paper never aborts the batch.

Requires a running Ollama server. Configure via the ideas section of
papergraph.yml or the OLLAMA_HOST / OLLAMA_MODEL environment variables.`,
	RunE: runIdeas,
}

// IdeaEntry is the per-paper entry in the ideas response.
type IdeaEntry struct {
	PaperID  string `json:"paper_id"`
	MainIdea string `json:"main_idea,omitempty"`
	Error    string `json:"error,omitempty"`
}

// IdeasResult is the response for the ideas command.
type IdeasResult struct {
	Status string      `json:"status"`
	Model  string      `json:"model"`
	Ideas  []IdeaEntry `json:"ideas"`
	Path   string      `json:"path"`
}

func runIdeas(cmd *cobra.Command, args []string) error {
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

	abstracts, err := ideas.FindAbstracts(cfg.SectionsDir())
	if err != nil {
		exitWithError(ExitConfigError, "%v (run sections first)", err)
	}
	if len(abstracts) == 0 {
		exitWithError(ExitConfigError, "no abstract sections in %s", cfg.SectionsDir())
	}

	results, err := ideas.Summarize(ctx, client, abstracts)
	if err != nil {
		exitWithError(ExitError, "summarizing: %v", err)
	}

	out := ideasOut
	if out == "" {
		out = filepath.Join(cfg.Root, "main_ideas.txt")
	}
	if err := ideas.WriteResults(out, results); err != nil {
		exitWithError(ExitError, "writing report: %v", err)
	}

	if humanOutput {
		for _, r := range results {
			if r.Err != nil {
				outputHuman("%-50s ERROR: %v\n", truncateString(r.PaperID, 50), r.Err)
				continue
			}
			outputHuman("%s\n  %s\n\n", r.PaperID, r.MainIdea)
		}
		fmt.Printf("Wrote %d main ideas to %s\n", len(results), out)
		return nil
	}

	entries := make([]IdeaEntry, 0, len(results))
	for _, r := range results {
		e := IdeaEntry{PaperID: r.PaperID, MainIdea: r.MainIdea}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		entries = append(entries, e)
	}
	return outputJSON(IdeasResult{Status: "extracted", Model: client.ModelName(), Ideas: entries, Path: out})
}

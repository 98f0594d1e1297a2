package ideas

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Abstract is one paper's abstract section file.
type Abstract struct {
	PaperID string
	Path    string
}

// Result is one paper's extracted main idea. Err is set when generation
// failed for that paper; one failure never aborts the batch.
type Result struct {
	PaperID  string
	MainIdea string
	Err      error
}

// FindAbstracts walks the per-paper section directories and returns each
// paper's abstract file (the 0b_ section). Papers without one are skipped.
func FindAbstracts(papersDir string) ([]Abstract, error) {
	entries, err := os.ReadDir(papersDir)
	if err != nil {
		return nil, fmt.Errorf("reading papers dir: %w", err)
	}

	var abstracts []Abstract
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(papersDir, e.Name(), "0b_*.txt"))
		if err != nil || len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		abstracts = append(abstracts, Abstract{
			PaperID: strings.TrimSuffix(e.Name(), "_sections"),
			Path:    matches[0],
		})
	}
	sort.Slice(abstracts, func(a, b int) bool { return abstracts[a].PaperID < abstracts[b].PaperID })
	return abstracts, nil
}

// Summarize runs main-idea extraction over every abstract in order.
// Failures are recorded per paper so a flaky model call cannot lose the
// rest of the batch; cancelling ctx stops the run.
func Summarize(ctx context.Context, client *Client, abstracts []Abstract) ([]Result, error) {
	results := make([]Result, 0, len(abstracts))
	for _, a := range abstracts {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		text, err := os.ReadFile(a.Path)
		if err != nil {
			results = append(results, Result{PaperID: a.PaperID, Err: err})
			continue
		}
		idea, err := client.MainIdea(ctx, string(text))
		if err != nil {
			results = append(results, Result{PaperID: a.PaperID, Err: err})
			continue
		}
		results = append(results, Result{PaperID: a.PaperID, MainIdea: idea})
	}
	return results, nil
}

// WriteResults writes the batch to a plain-text report file.
func WriteResults(path string, results []Result) error {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "Paper: %s\n", r.PaperID)
		if r.Err != nil {
			fmt.Fprintf(&b, "Main Idea: ERROR: %v\n", r.Err)
		} else {
			fmt.Fprintf(&b, "Main Idea: %s\n", r.MainIdea)
		}
		b.WriteString(strings.Repeat("-", 80) + "\n\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

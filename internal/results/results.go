// Package results extracts experimental-result tables from paper sections
// through a local Ollama endpoint. Sections likely to carry result tables
// are read first under a fixed character budget, then the model is asked
// to reproduce the tables as Markdown.
package results

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jahody/papers2/internal/ideas"
)

// maxCharsPerPaper bounds how much section text one model call sees.
const maxCharsPerPaper = 25000

// NoResultsMarker is the sentinel the model returns for papers without
// experimental results; such papers are omitted from the report.
const NoResultsMarker = "NO_RESULTS_FOUND"

const systemPrompt = `You are an expert researcher tasked with extracting experimental results from scientific papers.
Your goal is to ONE THING ONLY: Extract tables containing experimental results.

Instructions:
1.  **Output ONLY the tables.** Do not include any introductory text, explanations, or conclusions.
2.  Format specific tables as Markdown tables.
3.  If a result is presented as a list of key metrics instead of a table, format it as a table with columns "Metric" and "Value".
4.  If no experimental results are found, output the string "NO_RESULTS_FOUND".
5.  Do not output "Here are the results..." or "Based on the paper...". Start directly with the Markdown table.`

// Result is one paper's extracted tables. Err is set when generation
// failed for that paper; one failure never aborts the batch.
type Result struct {
	PaperID string
	Tables  string
	Err     error
}

// sectionWeight orders section files by how likely they are to contain
// result tables. Lower reads first.
func sectionWeight(filename string) int {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "result"), strings.Contains(name, "experiment"),
		strings.Contains(name, "eval"), strings.Contains(name, "perform"):
		return 0
	case strings.Contains(name, "comp"), strings.Contains(name, "anal"):
		return 1
	case strings.Contains(name, "model"), strings.Contains(name, "method"):
		return 2
	case strings.Contains(name, "intro"):
		return 3
	case strings.Contains(name, "abstract"):
		return 4
	}
	return 10
}

// skipSection reports section files that never carry result tables.
func skipSection(filename string) bool {
	name := strings.ToLower(filename)
	return strings.Contains(name, "reference") ||
		strings.Contains(name, "acknowledgment") ||
		strings.Contains(name, "related work")
}

// GatherContent concatenates one paper's section files in result-priority
// order, each under a "--- Section: name ---" header, stopping at the
// character budget. The last section that crosses the budget is truncated
// rather than dropped.
func GatherContent(paperDir string) (string, error) {
	entries, err := os.ReadDir(paperDir)
	if err != nil {
		return "", fmt.Errorf("reading paper dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") || skipSection(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Slice(names, func(a, b int) bool {
		wa, wb := sectionWeight(names[a]), sectionWeight(names[b])
		if wa != wb {
			return wa < wb
		}
		return names[a] < names[b]
	})

	var parts []string
	length := 0
	for _, name := range names {
		if length > maxCharsPerPaper {
			break
		}
		data, err := os.ReadFile(filepath.Join(paperDir, name))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", name, err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}

		header := fmt.Sprintf("\n--- Section: %s ---\n", name)
		if remaining := maxCharsPerPaper - length; len(text) > remaining {
			text = text[:remaining] + "\n[... truncated ...]"
		}
		parts = append(parts, header+text)
		length += len(header) + len(text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// Extract runs result-table extraction over every paper directory in
// order. Papers with no usable section text are skipped entirely;
// per-paper model failures are recorded so a flaky call cannot lose the
// rest of the batch. Cancelling ctx stops the run.
func Extract(ctx context.Context, client *ideas.Client, paperDirs []string) ([]Result, error) {
	results := make([]Result, 0, len(paperDirs))
	for _, dir := range paperDirs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		paperID := strings.TrimSuffix(filepath.Base(dir), "_sections")

		content, err := GatherContent(dir)
		if err != nil {
			results = append(results, Result{PaperID: paperID, Err: err})
			continue
		}
		if content == "" {
			continue
		}

		prompt := fmt.Sprintf("Find and format all experimental result tables from the following content on paper '%s'.\nPreserve the exact numbers.\n\nPaper Content:\n%s\n\nTables:", paperID, content)
		tables, err := client.Generate(ctx, systemPrompt, prompt)
		if err != nil {
			results = append(results, Result{PaperID: paperID, Err: err})
			continue
		}
		results = append(results, Result{PaperID: paperID, Tables: strings.TrimSpace(tables)})
	}
	return results, nil
}

// WriteReport writes the batch to a plain-text report file. Papers the
// model marked as having no results are left out to keep the report clean.
func WriteReport(path string, results []Result) error {
	var b strings.Builder
	for _, r := range results {
		if r.Err == nil && r.Tables == NoResultsMarker {
			continue
		}
		fmt.Fprintf(&b, "Paper: %s\n", r.PaperID)
		b.WriteString(strings.Repeat("=", 80) + "\n")
		if r.Err != nil {
			fmt.Fprintf(&b, "ERROR: %v\n", r.Err)
		} else {
			fmt.Fprintf(&b, "%s\n", r.Tables)
		}
		b.WriteString(strings.Repeat("=", 80) + "\n\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// Package scan finds dataset mentions in paper section text. It is a pure
// regex/keyword pass: well-known benchmark names plus "X dataset" style
// patterns, with sections read in priority order (abstract first, then
// introduction and data/experiment sections) under a per-paper budget.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// maxCharsPerPaper caps how much section text one paper contributes.
// Abstracts and data sections come first, so the cap trims boilerplate,
// not signal.
const maxCharsPerPaper = 25000

// Mention is one dataset found in one paper, with the section it first
// appeared in and how often it occurred across the scanned text.
type Mention struct {
	Name    string `json:"name"`
	Section string `json:"section"`
	Count   int    `json:"count"`
}

// knownDatasets are benchmark names matched verbatim (case-sensitive;
// these are proper names).
var knownDatasets = []string{
	"MNIST", "CIFAR-10", "CIFAR-100", "ImageNet", "COCO", "SQuAD",
	"GLUE", "SuperGLUE", "WikiText", "Penn Treebank", "LibriSpeech",
	"Twitter15", "Twitter16", "PHEME", "SNLI", "MultiNLI",
}

var (
	// "the FooBar dataset", "FooBar corpus", "FooBar benchmark(s)".
	namedBeforeRe = regexp.MustCompile(`\b([A-Z][A-Za-z0-9]*(?:[-_][A-Za-z0-9]+)*)\s+(?:dataset|corpus|benchmarks?)\b`)
	// "dataset called FooBar", "a corpus named FooBar".
	namedAfterRe = regexp.MustCompile(`\b(?:dataset|corpus|benchmark)s?\s+(?:called|named)\s+([A-Z][A-Za-z0-9_-]+)`)

	// Determiners and generic qualifiers the before-pattern can capture.
	genericNames = map[string]bool{
		"The": true, "This": true, "Our": true, "A": true, "Each": true,
		"These": true, "Both": true, "Synthetic": true, "New": true,
	}
)

// SectionPriority orders section files for scanning. Lower is better:
// abstracts name the benchmarks a paper is built on far more reliably
// than late sections.
func SectionPriority(filename string) int {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "abstract"):
		return 0
	case strings.Contains(name, "intro"):
		return 1
	case strings.Contains(name, "data"):
		return 2
	case strings.Contains(name, "experiment"), strings.Contains(name, "evaluation"):
		return 3
	case strings.Contains(name, "model"), strings.Contains(name, "method"):
		return 4
	default:
		return 10
	}
}

// Datasets returns the dataset names found in one piece of text with
// occurrence counts.
func Datasets(text string) map[string]int {
	counts := make(map[string]int)

	for _, name := range knownDatasets {
		if n := strings.Count(text, name); n > 0 {
			counts[name] += n
		}
	}
	for _, m := range namedBeforeRe.FindAllStringSubmatch(text, -1) {
		if name := m[1]; !genericNames[name] {
			counts[name]++
		}
	}
	for _, m := range namedAfterRe.FindAllStringSubmatch(text, -1) {
		counts[m[1]]++
	}

	// "Penn Treebank" also hits the before-pattern as "Treebank"; the
	// longer known name owns those occurrences.
	for known := range counts {
		for short := range counts {
			if short != known && strings.Contains(known, short) {
				delete(counts, short)
			}
		}
	}
	return counts
}

// ScanPaper scans one paper's section directory and returns its dataset
// mentions. Reference sections are skipped: cited titles mention datasets
// the paper never used.
func ScanPaper(sectionsDir string) ([]Mention, error) {
	entries, err := os.ReadDir(sectionsDir)
	if err != nil {
		return nil, fmt.Errorf("reading sections dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		if strings.Contains(strings.ToLower(e.Name()), "reference") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Slice(files, func(a, b int) bool {
		pa, pb := SectionPriority(files[a]), SectionPriority(files[b])
		if pa != pb {
			return pa < pb
		}
		return files[a] < files[b]
	})

	firstSection := make(map[string]string)
	totals := make(map[string]int)
	budget := maxCharsPerPaper

	for _, name := range files {
		if budget <= 0 {
			break
		}
		data, err := os.ReadFile(filepath.Join(sectionsDir, name))
		if err != nil {
			return nil, fmt.Errorf("reading section %s: %w", name, err)
		}
		text := string(data)
		if len(text) > budget {
			text = text[:budget]
		}
		budget -= len(text)

		section := strings.TrimSuffix(name, ".txt")
		for ds, count := range Datasets(text) {
			totals[ds] += count
			if _, seen := firstSection[ds]; !seen {
				firstSection[ds] = section
			}
		}
	}

	mentions := make([]Mention, 0, len(totals))
	for ds, count := range totals {
		mentions = append(mentions, Mention{Name: ds, Section: firstSection[ds], Count: count})
	}
	sort.Slice(mentions, func(a, b int) bool {
		if mentions[a].Count != mentions[b].Count {
			return mentions[a].Count > mentions[b].Count
		}
		return mentions[a].Name < mentions[b].Name
	})
	return mentions, nil
}

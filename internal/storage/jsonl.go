// Package storage persists the corpus in git-friendly JSONL plus an
// ephemeral SQLite query cache. papers.jsonl and edges.jsonl are the
// source of truth; the database is always rebuildable from them.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jahody/papers2/internal/paper"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines
// (1MB per line). Shared across all JSONL file readers.
const MaxJSONLLineCapacity = 1024 * 1024

// ReadPapers reads all Paper records from a JSONL file. A missing file is
// an empty corpus, not an error.
func ReadPapers(path string) ([]paper.Paper, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening papers file: %w", err)
	}
	defer f.Close()

	var papers []paper.Paper
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var p paper.Paper
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		papers = append(papers, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading papers file: %w", err)
	}
	return papers, nil
}

// WritePapers writes all Paper records to a JSONL file, replacing
// existing content.
func WritePapers(path string, papers []paper.Paper) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating papers file: %w", err)
	}
	defer f.Close()

	for _, p := range papers {
		if err := writeJSONL(f, p); err != nil {
			return fmt.Errorf("paper %s: %w", p.ID, err)
		}
	}
	return nil
}

// writeJSONL marshals v and writes it as one JSONL line.
func writeJSONL(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}
	return nil
}

// FindPaperByID searches an in-memory paper slice by ID.
func FindPaperByID(papers []paper.Paper, id string) (int, bool) {
	for i, p := range papers {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

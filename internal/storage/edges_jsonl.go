package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jahody/papers2/internal/graph"
)

// ReadEdges reads all aggregated citation edges from a JSONL file.
// Returns an error if any edge is structurally invalid (fail-fast).
func ReadEdges(path string) ([]graph.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening edges file: %w", err)
	}
	defer f.Close()

	var edges []graph.Edge
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

		var e graph.Edge
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if e.Source == "" || e.Target == "" {
			return nil, fmt.Errorf("invalid edge at line %d: missing endpoint", lineNum)
		}
		if e.Source == e.Target {
			return nil, fmt.Errorf("invalid edge at line %d: self-loop on %q", lineNum, e.Source)
		}
		edges = append(edges, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading edges file: %w", err)
	}
	return edges, nil
}

// WriteEdges writes all edges to a JSONL file, replacing existing content.
func WriteEdges(path string, edges []graph.Edge) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating edges file: %w", err)
	}
	defer f.Close()

	for _, e := range edges {
		if err := writeJSONL(f, e); err != nil {
			return fmt.Errorf("edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}
	return nil
}

// Package export renders a finished citation graph (and corpus papers) to
// the supported output formats. All exporters are stateless and
// deterministic: sorted input in, byte-identical text out.
package export

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/jahody/papers2/internal/graph"
)

type jsonNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type jsonEdge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
}

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

// ToJSON renders the graph as indented JSON: nodes sorted by id, edges by
// (source, target), confidence rounded to 3 decimals. An invariant
// violation in the graph is an assembler bug and fails the export.
func ToJSON(g *graph.CitationGraph) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	out := jsonGraph{
		Nodes: make([]jsonNode, 0, len(g.Nodes())),
		Edges: make([]jsonEdge, 0, len(g.Edges())),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, jsonNode{ID: n.ID, Title: n.RawTitle})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, jsonEdge{
			Source:     e.Source,
			Target:     e.Target,
			Confidence: round3(e.Confidence),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

package export

import (
	"fmt"
	"strings"

	"github.com/jahody/papers2/internal/graph"
)

// labelDisplayLength caps node labels in DOT output so rendered graphs
// stay legible.
const labelDisplayLength = 50

// ToDOT renders the graph as a Graphviz digraph: one labeled node line per
// paper followed by one edge line per citation, both in sorted order.
// Confidence is informational only in JSON and is not emitted here.
func ToDOT(g *graph.CitationGraph) (string, error) {
	if err := g.Validate(); err != nil {
		return "", fmt.Errorf("invalid graph: %w", err)
	}

	var b strings.Builder
	b.WriteString("digraph citations {\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "  %q [label=%q];\n", n.ID, truncateLabel(n.RawTitle))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.Source, e.Target)
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func truncateLabel(title string) string {
	runes := []rune(title)
	if len(runes) <= labelDisplayLength {
		return title
	}
	return string(runes[:labelDisplayLength-3]) + "..."
}

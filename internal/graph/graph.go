// Package graph assembles resolved citation edges into the final citation
// graph. Assembly is the single-threaded merge step after the parallel
// extraction/resolution phase: it is the only writer of the graph, and the
// graph is immutable once built.
package graph

import (
	"fmt"
	"sort"

	"github.com/jahody/papers2/internal/paper"
	"github.com/jahody/papers2/internal/resolve"
)

// Edge is one aggregated citation between two corpus papers. Duplicate
// resolved references for the same (source, target) pair collapse to a
// single Edge carrying the maximum confidence seen.
type Edge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
}

// CitationGraph is the assembled output of one run. Nodes and edges are
// kept sorted (nodes by paper ID, edges by source then target) so repeated
// runs over unchanged input are byte-identical after export.
type CitationGraph struct {
	nodes []paper.Paper
	edges []Edge
}

// Stats is a read-only degree view over an assembled graph, for tests and
// the CLI stats output. It is derived, never persisted.
type Stats struct {
	NodeCount int
	EdgeCount int
	InDegree  map[string]int
	OutDegree map[string]int
}

// Assemble builds the citation graph from resolved edges. Only
// StatusResolved edges contribute; duplicates per (source, target) keep
// the strongest confidence. The node set is the edge endpoints restricted
// to knownPapers, so every node is backed by a Paper record; edges with an
// endpoint outside knownPapers are dropped entirely.
func Assemble(resolved []resolve.ResolvedEdge, knownPapers []paper.Paper) *CitationGraph {
	byID := make(map[string]paper.Paper, len(knownPapers))
	for _, p := range knownPapers {
		byID[p.ID] = p
	}

	type pair struct{ source, target string }
	strongest := make(map[pair]float64)
	for _, re := range resolved {
		if re.Status != resolve.StatusResolved {
			continue
		}
		if _, ok := byID[re.SourceID]; !ok {
			continue
		}
		if _, ok := byID[re.TargetID]; !ok {
			continue
		}
		key := pair{re.SourceID, re.TargetID}
		if re.Confidence > strongest[key] {
			strongest[key] = re.Confidence
		}
	}

	g := &CitationGraph{edges: make([]Edge, 0, len(strongest))}
	nodeIDs := make(map[string]bool)
	for key, conf := range strongest {
		g.edges = append(g.edges, Edge{Source: key.source, Target: key.target, Confidence: conf})
		nodeIDs[key.source] = true
		nodeIDs[key.target] = true
	}
	sort.Slice(g.edges, func(a, b int) bool {
		if g.edges[a].Source != g.edges[b].Source {
			return g.edges[a].Source < g.edges[b].Source
		}
		return g.edges[a].Target < g.edges[b].Target
	})

	g.nodes = make([]paper.Paper, 0, len(nodeIDs))
	for id := range nodeIDs {
		g.nodes = append(g.nodes, byID[id])
	}
	sort.Slice(g.nodes, func(a, b int) bool { return g.nodes[a].ID < g.nodes[b].ID })

	return g
}

// Nodes returns the graph's papers sorted by ID.
func (g *CitationGraph) Nodes() []paper.Paper {
	return g.nodes
}

// Edges returns the aggregated edges sorted by (source, target).
func (g *CitationGraph) Edges() []Edge {
	return g.edges
}

// Stats computes node/edge counts and per-node degrees.
func (g *CitationGraph) Stats() Stats {
	s := Stats{
		NodeCount: len(g.nodes),
		EdgeCount: len(g.edges),
		InDegree:  make(map[string]int, len(g.nodes)),
		OutDegree: make(map[string]int, len(g.nodes)),
	}
	for _, n := range g.nodes {
		s.InDegree[n.ID] = 0
		s.OutDegree[n.ID] = 0
	}
	for _, e := range g.edges {
		s.OutDegree[e.Source]++
		s.InDegree[e.Target]++
	}
	return s
}

// Validate checks the assembly invariants: no self-loops, no duplicate
// (source, target) pairs, and every edge endpoint present in the node set.
// A violation is an internal error, not a data-quality finding.
func (g *CitationGraph) Validate() error {
	nodeIDs := make(map[string]bool, len(g.nodes))
	for _, n := range g.nodes {
		nodeIDs[n.ID] = true
	}

	type pair struct{ source, target string }
	seen := make(map[pair]bool, len(g.edges))
	for _, e := range g.edges {
		if e.Source == e.Target {
			return fmt.Errorf("self-loop on %q", e.Source)
		}
		key := pair{e.Source, e.Target}
		if seen[key] {
			return fmt.Errorf("duplicate edge %s -> %s", e.Source, e.Target)
		}
		seen[key] = true
		if !nodeIDs[e.Source] || !nodeIDs[e.Target] {
			return fmt.Errorf("edge %s -> %s references a missing node", e.Source, e.Target)
		}
	}
	return nil
}

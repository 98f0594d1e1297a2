// Package pipeline runs the full extraction and resolution flow for one
// corpus: build the read-only index, fan extraction+resolution out across
// a worker pool (one task per citing paper), join, then hand everything to
// the single-threaded graph assembler.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jahody/papers2/internal/citation"
	"github.com/jahody/papers2/internal/corpus"
	"github.com/jahody/papers2/internal/graph"
	"github.com/jahody/papers2/internal/paper"
	"github.com/jahody/papers2/internal/resolve"
)

// DefaultWorkers bounds the parallel phase when no worker count is
// configured.
const DefaultWorkers = 4

// Input is everything a run consumes: the finalized paper set and, per
// paper ID, its raw reference-list text block. Papers with no block (or an
// empty one) contribute zero outgoing edges; that is a data-quality
// signal, not an error.
type Input struct {
	Papers          []paper.Paper
	ReferenceBlocks map[string]string
}

// Options tunes one run.
type Options struct {
	Workers int
	Tuning  resolve.Tuning
}

// PaperReport counts one citing paper's reference outcomes.
type PaperReport struct {
	PaperID     string `json:"paper_id"`
	References  int    `json:"references"`
	Resolved    int    `json:"resolved"`
	External    int    `json:"external"`
	Unparseable int    `json:"unparseable"`
}

// ExternalRef is an often-cited reference that resolved to nothing in the
// corpus, surfaced for corpus-growth decisions.
type ExternalRef struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Result is one finished run: the assembled graph, every resolved edge in
// deterministic order (paper input order, then reference position), and
// the per-paper report.
type Result struct {
	Graph    *graph.CitationGraph
	Edges    []resolve.ResolvedEdge
	Reports  []PaperReport
	External []ExternalRef
}

type paperOutcome struct {
	edges          []resolve.ResolvedEdge
	externalTitles []string
	report         PaperReport
}

// Execute runs the pipeline. The index build is a hard ordering barrier
// before any worker starts; workers share the read-only index and resolver
// and write only to their own result slot, so the parallel phase has no
// shared mutable state. Cancelling ctx discards in-flight work and returns
// ctx.Err().
func Execute(ctx context.Context, in Input, opts Options) (*Result, error) {
	idx, err := corpus.BuildIndex(in.Papers)
	if err != nil {
		return nil, fmt.Errorf("building corpus index: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	resolver := resolve.New(idx, opts.Tuning)

	outcomes := make([]paperOutcome, len(in.Papers))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range in.Papers {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			p := in.Papers[slot]
			outcomes[slot] = processPaper(resolver, p.ID, in.ReferenceBlocks[p.ID])
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Reports: make([]PaperReport, 0, len(in.Papers))}
	externalCounts := make(map[string]int)
	for _, out := range outcomes {
		res.Edges = append(res.Edges, out.edges...)
		res.Reports = append(res.Reports, out.report)
		for _, title := range out.externalTitles {
			externalCounts[title]++
		}
	}

	res.Graph = graph.Assemble(res.Edges, idx.Papers())
	res.External = topExternal(externalCounts)
	return res, nil
}

// processPaper extracts and resolves one paper's reference list. One
// malformed list never affects another paper's results.
func processPaper(resolver *resolve.Resolver, paperID, block string) paperOutcome {
	out := paperOutcome{report: PaperReport{PaperID: paperID}}

	for _, ref := range citation.SplitReferences(paperID, block) {
		rec := citation.Extract(ref.RawText)
		edge := resolver.Resolve(rec, ref.SourcePaperID)

		out.edges = append(out.edges, edge)
		out.report.References++
		switch edge.Status {
		case resolve.StatusResolved:
			out.report.Resolved++
		case resolve.StatusExternal:
			out.report.External++
			if rec.Title != "" {
				out.externalTitles = append(out.externalTitles, rec.Title)
			}
		case resolve.StatusUnparseable:
			out.report.Unparseable++
		}
	}
	return out
}

// topExternal keeps the external references cited more than once, ordered
// by descending count with title as the tiebreak.
func topExternal(counts map[string]int) []ExternalRef {
	var refs []ExternalRef
	for title, count := range counts {
		if count > 1 {
			refs = append(refs, ExternalRef{Title: title, Count: count})
		}
	}
	sort.Slice(refs, func(a, b int) bool {
		if refs[a].Count != refs[b].Count {
			return refs[a].Count > refs[b].Count
		}
		return refs[a].Title < refs[b].Title
	})
	return refs
}

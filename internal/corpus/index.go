// Package corpus maintains the queryable index of all papers known for one
// run. The index is built once, before any resolution starts, and is
// read-only afterward so resolver workers can share it without locking.
package corpus

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jahody/papers2/internal/paper"
)

// ErrMissingTitle marks a corpus paper without a title. Every lookup key
// depends on the title, so this is fatal for the whole build.
var ErrMissingTitle = errors.New("corpus paper has no title")

// Index holds the per-run lookup structures: a normalized-title map for
// exact and near-exact lookup, and a normalized-surname map as a fallback
// when reference titles are truncated. Both maps can return multiple
// candidates per key; the resolver disambiguates.
type Index struct {
	papers   []paper.Paper
	byID     map[string]int
	byTitle  map[string][]int
	byAuthor map[string][]int
}

// BuildIndex constructs the index from the full paper set. Papers missing a
// title abort the build; derived lookup keys are recomputed so callers
// cannot feed stale ones in.
func BuildIndex(papers []paper.Paper) (*Index, error) {
	idx := &Index{
		papers:   make([]paper.Paper, len(papers)),
		byID:     make(map[string]int, len(papers)),
		byTitle:  make(map[string][]int, len(papers)),
		byAuthor: make(map[string][]int),
	}
	copy(idx.papers, papers)

	for i := range idx.papers {
		p := &idx.papers[i]
		if p.RawTitle == "" {
			return nil, fmt.Errorf("paper %q: %w", p.ID, ErrMissingTitle)
		}
		p.Normalize()

		if _, dup := idx.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate paper id %q", p.ID)
		}
		idx.byID[p.ID] = i
		idx.byTitle[p.NormalizedTitle] = append(idx.byTitle[p.NormalizedTitle], i)
		for _, surname := range p.NormalizedAuthors {
			idx.byAuthor[surname] = append(idx.byAuthor[surname], i)
		}
	}

	return idx, nil
}

// Candidates returns the papers worth scoring for a reference with the
// given normalized title key and author surname keys. The title bucket is
// consulted first; author buckets are the fallback for truncated or mangled
// titles. Results are deduplicated and sorted by paper ID so candidate
// order is deterministic.
func (idx *Index) Candidates(titleKey string, authorKeys []string) []paper.Paper {
	seen := make(map[int]bool)

	if titleKey != "" {
		for _, i := range idx.byTitle[titleKey] {
			seen[i] = true
		}
	}
	for _, key := range authorKeys {
		for _, i := range idx.byAuthor[key] {
			seen[i] = true
		}
	}

	out := make([]paper.Paper, 0, len(seen))
	for i := range seen {
		out = append(out, idx.papers[i])
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// ByID returns the paper with the given ID.
func (idx *Index) ByID(id string) (paper.Paper, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return paper.Paper{}, false
	}
	return idx.papers[i], true
}

// Papers returns all indexed papers in build order.
func (idx *Index) Papers() []paper.Paper {
	return idx.papers
}

// Len returns the number of indexed papers.
func (idx *Index) Len() int {
	return len(idx.papers)
}

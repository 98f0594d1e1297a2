// Package resolve matches extracted reference records against the corpus
// index. One CandidateRecord in, one ResolvedEdge out: either a corpus
// paper identity with a match confidence, or a marker that the reference
// points outside the corpus or could not be parsed at all.
package resolve

import (
	"github.com/jahody/papers2/internal/citation"
	"github.com/jahody/papers2/internal/corpus"
	"github.com/jahody/papers2/internal/paper"
)

// Status classifies the outcome of resolving one reference.
type Status string

const (
	// StatusResolved means the reference matched a corpus paper.
	StatusResolved Status = "resolved"
	// StatusExternal means the reference is real but its target is not a
	// corpus member, or the match was too ambiguous to accept.
	StatusExternal Status = "external"
	// StatusUnparseable means extraction produced too little signal to
	// attempt resolution at all.
	StatusUnparseable Status = "unparseable"
)

// ResolvedEdge is the outcome of resolving one reference from one citing
// paper. TargetID is set iff Status is StatusResolved, and never equals
// SourceID.
type ResolvedEdge struct {
	SourceID   string  `json:"source"`
	TargetID   string  `json:"target,omitempty"`
	Confidence float64 `json:"confidence"`
	Status     Status  `json:"status"`
}

// Tuning holds the scoring weights and acceptance thresholds. Title
// similarity dominates; author overlap and year agreement are bonuses.
type Tuning struct {
	TitleWeight     float64 `yaml:"title_weight"`
	AuthorBonus     float64 `yaml:"author_bonus"`
	YearBonus       float64 `yaml:"year_bonus"`
	YearDriftBonus  float64 `yaml:"year_drift_bonus"`
	MatchThreshold  float64 `yaml:"match_threshold"`
	MinMargin       float64 `yaml:"min_margin"`
	MinUsableRecord float64 `yaml:"min_extraction_confidence"`
}

// DefaultTuning returns the weights validated against the reference
// corpus: an exact-title match with agreeing author and year scores 1.0,
// and a bare exact-title match (0.7) stays below the 0.75 threshold until
// at least one corroborating field agrees.
func DefaultTuning() Tuning {
	return Tuning{
		TitleWeight:     0.7,
		AuthorBonus:     0.2,
		YearBonus:       0.1,
		YearDriftBonus:  0.05,
		MatchThreshold:  0.75,
		MinMargin:       0.05,
		MinUsableRecord: 0.3,
	}
}

// Resolver scores candidate records against a read-only corpus index. It
// holds no mutable state, so one Resolver is safe to share across workers.
type Resolver struct {
	idx    *corpus.Index
	tuning Tuning
}

// New returns a Resolver over the given index with the given tuning.
func New(idx *corpus.Index, tuning Tuning) *Resolver {
	return &Resolver{idx: idx, tuning: tuning}
}

// Resolve maps one extracted record from sourceID to a corpus paper.
// Identical inputs always yield identical output: candidate order from the
// index is deterministic and ties are broken toward the first candidate.
func (r *Resolver) Resolve(rec citation.CandidateRecord, sourceID string) ResolvedEdge {
	edge := ResolvedEdge{SourceID: sourceID, Status: StatusUnparseable}
	if rec.Confidence < r.tuning.MinUsableRecord || rec.Title == "" {
		return edge
	}
	edge.Status = StatusExternal

	titleKey := paper.NormalizeTitle(rec.Title)
	authorKeys := make([]string, 0, len(rec.Authors))
	for _, a := range rec.Authors {
		if key := paper.NormalizeSurname(a); key != "" {
			authorKeys = append(authorKeys, key)
		}
	}

	candidates := r.idx.Candidates(titleKey, authorKeys)
	if len(candidates) == 0 {
		return edge
	}

	best, second := -1.0, -1.0
	var bestPaper paper.Paper
	for _, cand := range candidates {
		score := r.score(titleKey, authorKeys, rec.Year, cand)
		if score > best {
			second = best
			best = score
			bestPaper = cand
		} else if score > second {
			second = score
		}
	}

	if best < r.tuning.MatchThreshold {
		return edge
	}
	if second >= 0 && best-second < r.tuning.MinMargin {
		return edge
	}
	if bestPaper.ID == sourceID {
		// Self-citations are reference-list merge artifacts, never a
		// legitimate graph edge.
		return edge
	}

	edge.Status = StatusResolved
	edge.TargetID = bestPaper.ID
	edge.Confidence = best
	return edge
}

// score combines title similarity with author-overlap and year bonuses.
// The sum is capped at 1 so match_confidence stays a probability-like
// value.
func (r *Resolver) score(titleKey string, authorKeys []string, year int, cand paper.Paper) float64 {
	score := r.tuning.TitleWeight * TitleSimilarity(titleKey, cand.NormalizedTitle)
	score += r.tuning.AuthorBonus * authorOverlap(authorKeys, cand.NormalizedAuthors)

	if year != 0 && cand.Year != 0 {
		switch diff := year - cand.Year; {
		case diff == 0:
			score += r.tuning.YearBonus
		case diff == 1 || diff == -1:
			// Preprint vs. publication date drift.
			score += r.tuning.YearDriftBonus
		}
	}

	if score > 1 {
		return 1
	}
	return score
}

// authorOverlap returns the fraction of extracted surnames present in the
// candidate's author list.
func authorOverlap(extracted, candidate []string) float64 {
	if len(extracted) == 0 || len(candidate) == 0 {
		return 0
	}
	set := make(map[string]bool, len(candidate))
	for _, s := range candidate {
		set[s] = true
	}
	hits := 0
	for _, s := range extracted {
		if set[s] {
			hits++
		}
	}
	return float64(hits) / float64(len(extracted))
}

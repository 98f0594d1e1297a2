// Package paper defines the core domain types for corpus papers.
package paper

// Paper represents one member of the corpus. Records are immutable after
// the corpus index has been built.
type Paper struct {
	// Identity: assigned once at corpus build time, never reused.
	ID string `json:"id"`

	// Metadata
	RawTitle string   `json:"title"`
	Authors  []Author `json:"authors,omitempty"`
	Year     int      `json:"year,omitempty"` // 0 if unknown

	// Normalized lookup keys (derived, stored so the JSONL round-trips
	// without recomputation).
	NormalizedTitle   string   `json:"normalized_title,omitempty"`
	NormalizedAuthors []string `json:"normalized_authors,omitempty"`

	// Optional identifiers carried from ingestion.
	ArXivID string `json:"arxiv_id,omitempty"`
	DOI     string `json:"doi,omitempty"`
}

// Normalize fills in the derived lookup keys from the raw fields.
// Existing values are overwritten so stale keys cannot survive edits.
func (p *Paper) Normalize() {
	p.NormalizedTitle = NormalizeTitle(p.RawTitle)
	p.NormalizedAuthors = p.NormalizedAuthors[:0]
	for _, a := range p.Authors {
		if s := NormalizeSurname(a.Last); s != "" {
			p.NormalizedAuthors = append(p.NormalizedAuthors, s)
		}
	}
}

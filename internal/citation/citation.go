// Package citation turns raw reference-list text into structured candidate
// records: splitting a reference block into individual entries, then
// extracting author/year/title/venue fields with layered heuristics.
package citation

// RawReference is one unparsed reference-list entry belonging to a citing
// paper.
type RawReference struct {
	SourcePaperID string `json:"source_paper_id"`
	RawText       string `json:"raw_text"`
	Position      int    `json:"position"` // Ordinal within the paper's reference list
}

// CandidateRecord is the extraction result for one raw reference. It is
// never mutated after creation.
type CandidateRecord struct {
	Authors    []string `json:"authors,omitempty"` // Normalized-ish surnames, citation order
	Year       int      `json:"year,omitempty"`    // 0 if not found
	Title      string   `json:"title,omitempty"`
	Venue      string   `json:"venue,omitempty"`
	Confidence float64  `json:"confidence"` // Extraction confidence in [0,1]
	RawText    string   `json:"raw_text"`   // Verbatim input, kept for audit
}

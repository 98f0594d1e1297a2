package citation

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// minEntryLength is the shortest text accepted as a reference entry
	// during splitting.
	minEntryLength = 10

	// blobLineLength marks a line as a multi-reference blob that needs
	// further splitting.
	blobLineLength = 350
)

// Reference-marker patterns. Go's regexp has no lookahead, so patterns match
// the following capital letter too and splitting is done on submatch indices.
var (
	// Bracketed citation keys: [12], [Smi04], [Smith, 2004].
	markerRe = regexp.MustCompile(`\[(?:[A-Z][A-Z0-9+]*\d{2}|\d+|[^\]]+, \d{4})\]`)

	// Numbered entries: "12. Author ...".
	numberedRe = regexp.MustCompile(`(?:^|\s)(\d{1,3})\.\s+[A-Z]`)

	// Bare numbered entries: "12 Author ...".
	bareNumRe = regexp.MustCompile(`(?:^|\s)(\d{1,3})\s+[A-Z]`)

	// Sentence boundaries inside a blob of concatenated references:
	// ". Surname," and ". I. Surname".
	blobSurnameRe = regexp.MustCompile(`(\.\s+)[A-Z][a-z]+,`)
	blobInitialRe = regexp.MustCompile(`(\.\s+)[A-Z]\.?\s+[A-Z][a-z]+`)

	referencesHeaderRe = regexp.MustCompile(`(?i)^REFERENCES\s*`)
	yearTokenRe        = regexp.MustCompile(`(19|20)\d{2}`)
	spaceRe            = regexp.MustCompile(`\s+`)
)

// SplitBlock splits a reference-list section into individual reference
// entries. Strategies are tried in order of specificity: bracketed markers,
// sequential numbering, per-line splitting with blob detection, then a
// best-effort blob split. Entries that carry neither a year nor a known
// in-press/preprint keyword are dropped as noise.
func SplitBlock(text string) []string {
	lines := nonEmptyLines(text)
	flat := strings.Join(lines, " ")

	refs := splitBracketed(flat)
	if len(refs) == 0 {
		refs = splitNumbered(flat)
	}
	if len(refs) == 0 {
		refs = splitByLines(lines, flat)
	}
	if len(refs) == 0 {
		refs = splitBlob(flat)
	}

	refs = mergeContinuations(refs)
	return validateEntries(refs)
}

// SplitReferences splits a citing paper's reference block and wraps each
// entry as a RawReference carrying its source and list position, the audit
// trail the extraction stage preserves in CandidateRecord.RawText.
func SplitReferences(sourcePaperID, text string) []RawReference {
	entries := SplitBlock(text)
	refs := make([]RawReference, len(entries))
	for i, entry := range entries {
		refs[i] = RawReference{
			SourcePaperID: sourcePaperID,
			RawText:       entry,
			Position:      i + 1,
		}
	}
	return refs
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitBracketed handles reference lists keyed by bracketed markers.
// It requires more than two markers to avoid triggering on inline citations.
func splitBracketed(flat string) []string {
	locs := markerRe.FindAllStringIndex(flat, -1)
	if len(locs) <= 2 {
		return nil
	}

	clean := referencesHeaderRe.ReplaceAllString(flat, "")
	locs = markerRe.FindAllStringIndex(clean, -1)

	var refs []string
	for i, loc := range locs {
		end := len(clean)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if ref := strings.TrimSpace(clean[loc[0]:end]); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

// splitNumbered handles "1. ... 2. ..." lists, requiring the numbers to
// start at 0 or 1 and be mostly sequential so page numbers inside entries
// do not cause splits.
func splitNumbered(flat string) []string {
	matches := numberedRe.FindAllStringSubmatchIndex(flat, -1)
	if len(matches) <= 3 {
		return nil
	}

	nums := matchedNumbers(flat, matches)
	if !isSequential(nums, 0.7) || (nums[0] != 0 && nums[0] != 1) {
		return nil
	}

	return splitAtMatches(flat, matches)
}

// splitByLines works off the original line structure. A flat blob of bare
// sequential numbers means line boundaries are meaningless; otherwise long
// lines get blob-split and short ones are taken as-is.
func splitByLines(lines []string, flat string) []string {
	bare := bareNumRe.FindAllStringSubmatchIndex(flat, -1)
	if len(bare) > 5 && isSequential(matchedNumbers(flat, bare), 0.6) {
		return splitBlob(flat)
	}

	var candidates []string
	for _, line := range lines {
		if len(line) > blobLineLength {
			candidates = append(candidates, splitBlob(line)...)
		} else {
			candidates = append(candidates, line)
		}
	}

	var valid []string
	for _, c := range candidates {
		if len(c) > 20 && !strings.EqualFold(c, "references") {
			valid = append(valid, c)
		}
	}
	if len(valid) <= 2 {
		return nil
	}
	return valid
}

// splitBlob splits a single undelimited blob, first on bare sequential
// numbers, then on sentence boundaries that look like the start of an
// author list.
func splitBlob(text string) []string {
	matches := bareNumRe.FindAllStringSubmatchIndex(text, -1)
	if nums := matchedNumbers(text, matches); len(nums) > 3 && isSequential(nums, 0.5) {
		return splitAtMatches(text, matches)
	}

	bounds := blobSurnameRe.FindAllStringSubmatchIndex(text, -1)
	if len(bounds) < 3 {
		bounds = blobInitialRe.FindAllStringSubmatchIndex(text, -1)
	}
	if len(bounds) <= 2 {
		return []string{text}
	}

	var parts []string
	last := 0
	for _, b := range bounds {
		// b[3] is the end of the ".\s+" group: the entry boundary.
		if b[3]-last > 20 {
			parts = append(parts, strings.TrimSpace(text[last:b[3]]))
			last = b[3]
		}
	}
	parts = append(parts, strings.TrimSpace(text[last:]))

	var kept []string
	for _, p := range parts {
		if len(p) > minEntryLength {
			kept = append(kept, p)
		}
	}
	return kept
}

// matchedNumbers extracts the integer values of group 1 from submatch
// index sets.
func matchedNumbers(text string, matches [][]int) []int {
	nums := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// isSequential reports whether at least the given fraction of consecutive
// pairs increment by exactly one.
func isSequential(nums []int, fraction float64) bool {
	if len(nums) < 2 {
		return false
	}
	increments := 0
	for i := 0; i < len(nums)-1; i++ {
		if nums[i+1] == nums[i]+1 {
			increments++
		}
	}
	return float64(increments) > float64(len(nums))*fraction
}

// splitAtMatches slices the text at the start of each numeric marker
// (submatch group 1).
func splitAtMatches(text string, matches [][]int) []string {
	var refs []string
	for i, m := range matches {
		start := m[2]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][2]
		}
		if ref := strings.TrimSpace(text[start:end]); len(ref) > minEntryLength {
			refs = append(refs, ref)
		}
	}
	return refs
}

// mergeContinuations joins entries that start with a lowercase letter onto
// the previous entry; those are wrapped continuation lines, not new
// references.
func mergeContinuations(refs []string) []string {
	if len(refs) == 0 {
		return refs
	}
	merged := []string{refs[0]}
	for _, ref := range refs[1:] {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if r := rune(ref[0]); r >= 'a' && r <= 'z' {
			merged[len(merged)-1] += " " + ref
		} else {
			merged = append(merged, ref)
		}
	}
	return merged
}

// validateEntries keeps entries that look like real references: long enough
// and carrying either a year or an in-press/preprint keyword.
func validateEntries(refs []string) []string {
	var valid []string
	for _, ref := range refs {
		if len(ref) < minEntryLength {
			continue
		}
		lower := strings.ToLower(ref)
		special := strings.Contains(lower, "in press") ||
			strings.Contains(lower, "to appear") ||
			strings.Contains(lower, "arxiv")
		if yearTokenRe.MatchString(ref) || special {
			valid = append(valid, spaceRe.ReplaceAllString(ref, " "))
		}
	}
	return valid
}

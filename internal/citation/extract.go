package citation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// MinReferenceLength is the shortest text worth extracting fields from.
	// Anything shorter comes back with zero confidence and empty fields.
	MinReferenceLength = 20

	// fieldPenalty is subtracted from the confidence for each required
	// field (authors, year, title) that cannot be located.
	fieldPenalty = 0.25

	// minTitleLength is the shortest sentence span accepted as a title.
	minTitleLength = 10

	// maxAuthors caps the parsed author list; beyond this the segment is
	// almost certainly not an author list.
	maxAuthors = 12
)

var (
	// Leading reference markers: "[12]", "[Smi04]", "12.", "12".
	leadMarkerRe = regexp.MustCompile(`^\s*(?:\[[^\]]{1,20}\]|\d{1,3}\.?)\s+`)

	fourDigitRe = regexp.MustCompile(`\b(\d{4})\b`)

	// Volume/page patterns that mark venue text: "12(3):45-67", "pp. 1-10",
	// "vol. 4".
	volPageRe = regexp.MustCompile(`(?i)\b(?:\d+\s*\(\d+\)|pp?\.\s*\d+|vol\.?\s*\d+|\d+\s*[-–]\s*\d+|no\.\s*\d+)`)

	editorialRe = regexp.MustCompile(`(?i)\b(?:et\s+al\.?|eds?\.|\(eds?\.\)|editors?)\s*`)

	// An author initial ending a name, e.g. "J. " or "M.-W. ".
	initialDotRe = regexp.MustCompile(`\b[A-Z]\.(?:-[A-Z]\.)*\s+`)
)

// venueWordRe identifies trailing text as a venue rather than a title.
var venueWordRe = regexp.MustCompile(`(?i)\b(?:proceedings|journal|arxiv|conference|transactions|workshop|symposium|preprint|springer|acm|ieee)\b|\b(?:in|university|mit)\s+press\b|\badvances\s+in\b`)

// Extract parses one raw reference string into a CandidateRecord. It never
// fails: unlocatable fields are left empty and each missing required field
// costs a fixed confidence penalty. Inputs below MinReferenceLength come
// back with confidence 0 and are treated as unparseable downstream.
func Extract(rawText string) CandidateRecord {
	rec := CandidateRecord{RawText: rawText}

	text := strings.TrimSpace(rawText)
	if len(text) < MinReferenceLength {
		return rec
	}
	text = leadMarkerRe.ReplaceAllString(text, "")

	year, yearPos := findYear(text)
	authorSeg, rest := splitAuthorSegment(text, yearPos)

	rec.Year = year
	rec.Authors = parseAuthors(authorSeg)
	rec.Title, rec.Venue = findTitleAndVenue(rest, year)

	rec.Confidence = 1.0
	if len(rec.Authors) == 0 {
		rec.Confidence -= fieldPenalty
	}
	if rec.Year == 0 {
		rec.Confidence -= fieldPenalty
	}
	if rec.Title == "" {
		rec.Confidence -= fieldPenalty
	}
	if rec.Confidence < 0 {
		rec.Confidence = 0
	}
	return rec
}

// findYear locates the publication year: a 4-digit token in a plausible
// range, preferring one enclosed in parentheses, otherwise the earliest
// occurrence (the one nearest the author segment in author-year styles).
// Returns the year and its byte offset, or (0, -1).
func findYear(text string) (int, int) {
	maxYear := time.Now().Year() + 1

	first := -1
	firstYear := 0
	for _, m := range fourDigitRe.FindAllStringSubmatchIndex(text, -1) {
		y, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || y < 1900 || y > maxYear {
			continue
		}
		if parenthesized(text, m[2], m[3]) {
			return y, m[2]
		}
		if first < 0 {
			first = m[2]
			firstYear = y
		}
	}
	return firstYear, first
}

func parenthesized(text string, start, end int) bool {
	return start > 0 && text[start-1] == '(' && end < len(text) && text[end] == ')'
}

// splitAuthorSegment separates the leading author list from the rest of the
// reference. Sentence spans are consumed from the front while they still
// look like an author list; the year token is a hard stop since citation
// styles place it immediately after the authors.
func splitAuthorSegment(text string, yearPos int) (authors, rest string) {
	limit := len(text)
	if yearPos >= 0 {
		limit = yearPos
	}

	consumed := 0
	spans := sentenceSpans(text[:limit])
	for _, span := range spans {
		if !spanLooksLikeAuthors(span.text) {
			break
		}
		consumed = span.end
	}

	// "Last, F. Title Words ..." hides the boundary behind an initial:
	// sentence splitting will not cut after "F.", so authors and title
	// merge into one span. If the segment trails more than one word past
	// its last initial, that tail is the start of the title, not a
	// surname. This applies both when the merged span was consumed as
	// authors and when it was rejected outright for its lowercase tail.
	seg := text[:consumed]
	if consumed == 0 && len(spans) > 0 {
		if cut := lastInitialCut(text[:spans[0].end]); cut >= 0 &&
			spanLooksLikeAuthors(strings.TrimSpace(text[:cut])) {
			seg = text[:spans[0].end]
		}
	}
	if cut := lastInitialCut(seg); cut >= 0 {
		tail := strings.TrimSpace(seg[cut:])
		if len(strings.Fields(tail)) >= 2 && !strings.Contains(tail, ",") &&
			!strings.Contains(strings.ToLower(tail), "et al") {
			consumed = cut
		}
	}

	return strings.TrimSpace(text[:consumed]), strings.TrimSpace(text[consumed:])
}

// lastInitialCut returns the offset just past the last author initial in
// the segment, or -1 if there is none.
func lastInitialCut(seg string) int {
	locs := initialDotRe.FindAllStringIndex(seg, -1)
	if len(locs) == 0 {
		return -1
	}
	return locs[len(locs)-1][1]
}

type span struct {
	text string
	end  int // Byte offset just past the span's terminating boundary
}

// sentenceSpans splits text at ". " boundaries where the preceding word is
// not a bare initial, so "J. Devlin" stays whole while "et al. Attention"
// splits after "al.".
func sentenceSpans(text string) []span {
	var spans []span
	start := 0
	for i := 0; i < len(text)-1; i++ {
		if text[i] != '.' || text[i+1] != ' ' {
			continue
		}
		word := trailingWord(text[start:i])
		if isInitial(word) {
			continue
		}
		spans = append(spans, span{text: strings.TrimSpace(text[start : i+1]), end: i + 2})
		start = i + 2
	}
	if start < len(text) {
		spans = append(spans, span{text: strings.TrimSpace(text[start:]), end: len(text)})
	}
	return spans
}

func trailingWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// isInitial reports whether a word is an author initial like "J", "M.-W."
// or "A.B." rather than a full word.
func isInitial(word string) bool {
	word = strings.TrimRight(word, ".")
	if word == "" {
		return false
	}
	letters := 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		} else if r != '.' && r != '-' {
			return false
		}
	}
	return letters >= 1 && letters <= 2
}

// spanLooksLikeAuthors decides whether a sentence span belongs to the
// author list. Comma-separated name runs, "et al." and short all-capitalized
// runs qualify; anything with a long lowercase word run is title text.
func spanLooksLikeAuthors(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 200 {
		return false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "et al") {
		return true
	}

	words := strings.Fields(s)
	if len(words) <= 4 && allNameLike(words) {
		return true
	}
	return strings.Contains(s, ",") && mostlyCapitalized(words)
}

func allNameLike(words []string) bool {
	for _, w := range words {
		lw := strings.ToLower(w)
		if lw == "and" || lw == "&" {
			continue
		}
		r := []rune(strings.TrimLeft(w, "("))
		if len(r) == 0 || !unicode.IsUpper(r[0]) {
			return false
		}
	}
	return len(words) > 0
}

func mostlyCapitalized(words []string) bool {
	if len(words) == 0 {
		return false
	}
	caps := 0
	for _, w := range words {
		r := []rune(w)
		if unicode.IsUpper(r[0]) || w == "and" || w == "&" {
			caps++
		}
	}
	return caps*2 >= len(words)
}

// parseAuthors splits an author segment into surname tokens. Initials-only
// tokens are discarded when a fuller name exists in the same slot, so both
// "Vaswani, A." and "A. Vaswani" yield "Vaswani".
func parseAuthors(segment string) []string {
	segment = editorialRe.ReplaceAllString(segment, "")
	segment = strings.NewReplacer(" and ", ",", " & ", ",", ";", ",").Replace(segment)

	var authors []string
	for _, slot := range strings.Split(segment, ",") {
		if surname := surnameFromSlot(slot); surname != "" {
			authors = append(authors, surname)
			if len(authors) == maxAuthors {
				break
			}
		}
	}
	return authors
}

// surnameFromSlot picks the surname out of one comma-separated name slot.
// The last non-initial token wins ("First Last" order); a slot of only
// initials yields nothing.
func surnameFromSlot(slot string) string {
	var surname string
	for _, word := range strings.Fields(slot) {
		word = strings.Trim(word, ".,()")
		if word == "" || isInitial(word) {
			continue
		}
		if !startsWithUpper(word) {
			continue
		}
		surname = word
	}
	return surname
}

func startsWithUpper(word string) bool {
	r := []rune(word)
	return len(r) > 0 && unicode.IsUpper(r[0])
}

// findTitleAndVenue picks the title from the text following the author
// block: the first sentence-like span of meaningful length that is not
// venue text. Whatever trails the title becomes the venue if it carries a
// known venue marker.
func findTitleAndVenue(rest string, year int) (title, venue string) {
	yearStr := ""
	if year > 0 {
		yearStr = strconv.Itoa(year)
	}

	spans := sentenceSpans(rest)
	titleEnd := -1
	for _, sp := range spans {
		s := strings.Trim(sp.text, " .,")
		if s == "" || s == yearStr || len(s) < minTitleLength {
			continue
		}
		if venueLike(s) {
			break
		}
		title = s
		titleEnd = sp.end
		break
	}

	var trailing string
	if titleEnd >= 0 {
		trailing = strings.TrimSpace(rest[titleEnd:])
	} else {
		trailing = strings.TrimSpace(rest)
	}
	if yearStr != "" {
		trailing = strings.ReplaceAll(trailing, yearStr, "")
	}
	trailing = strings.Trim(trailing, " .,()-–")
	if trailing != "" && venueLike(trailing) {
		venue = spaceRe.ReplaceAllString(trailing, " ")
	}
	return title, venue
}

// venueLike reports whether text reads as publication-venue metadata.
func venueLike(s string) bool {
	return venueWordRe.MatchString(s) || volPageRe.MatchString(s)
}

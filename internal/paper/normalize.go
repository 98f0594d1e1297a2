package paper

import (
	"strings"
	"unicode"
)

// stopWords are dropped from normalized titles. Citation styles disagree on
// articles and connectives far more than on content words, so removing them
// makes title keys stable across styles.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"of": true, "on": true, "in": true, "for": true, "to": true,
	"and": true, "or": true, "with": true, "by": true, "at": true,
	"is": true, "are": true, "all": true, "you": true, "its": true,
	"via": true,
}

// NormalizeTitle produces the canonical lookup key for a title: lowercased,
// punctuation stripped, stop words removed, whitespace collapsed.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if !stopWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// NormalizeSurname produces the canonical lookup key for an author surname:
// lowercased with accents-insensitive letters kept and everything else
// dropped.
func NormalizeSurname(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

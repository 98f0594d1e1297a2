package export

import (
	"fmt"
	"strings"

	"github.com/jahody/papers2/internal/paper"
)

// ToBibTeX converts one corpus paper to a BibTeX entry. Papers carrying an
// arXiv ID get an eprint field; everything exports as @article since the
// corpus model does not track venues per paper.
func ToBibTeX(p paper.Paper) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@article{%s,\n", p.ID))

	if len(p.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(p.Authors)))
	}
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(p.RawTitle)))
	if p.Year > 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", p.Year))
	}
	if p.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", p.DOI))
	}
	if p.ArXivID != "" {
		b.WriteString(fmt.Sprintf("  eprint = {%s},\n", p.ArXivID))
		b.WriteString("  archiveprefix = {arXiv},\n")
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple papers to BibTeX format.
func ToBibTeXList(papers []paper.Paper) string {
	var entries []string
	for _, p := range papers {
		entries = append(entries, ToBibTeX(p))
	}
	return strings.Join(entries, "\n")
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First"
func formatAuthors(authors []paper.Author) string {
	var formatted []string
	for _, a := range authors {
		if a.First != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", a.Last, a.First))
		} else {
			formatted = append(formatted, a.Last)
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}

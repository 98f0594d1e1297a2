package export

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jahody/papers2/internal/paper"
)

var (
	// Entry keys: @type{key, — the exporter writes paper IDs as keys.
	bibEntryRe = regexp.MustCompile(`@\w+\s*\{\s*([^,\s}]+)\s*,`)
	// DOI fields: doi = {value} or doi = "value".
	bibDOIRe = regexp.MustCompile(`(?im)^\s*doi\s*=\s*[{"]([^}"]+)[}"]`)
)

// BibIndex records which corpus papers a .bib file already contains, so
// repeated exports append each paper at most once.
type BibIndex struct {
	ids  map[string]bool
	dois map[string]bool
}

// LoadBibIndex indexes an existing .bib file. A missing file yields an
// empty index, since appending to a fresh file is the normal first run.
func LoadBibIndex(path string) (*BibIndex, error) {
	idx := &BibIndex{ids: make(map[string]bool), dois: make(map[string]bool)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)

	for _, m := range bibEntryRe.FindAllStringSubmatch(content, -1) {
		idx.ids[m[1]] = true
	}
	for _, m := range bibDOIRe.FindAllStringSubmatch(content, -1) {
		if doi := foldDOI(m[1]); doi != "" {
			idx.dois[doi] = true
		}
	}
	return idx, nil
}

// Contains reports whether the paper is already present in the indexed
// file. DOI is the stronger identity and is checked first; the paper ID
// (the citation key our exporter writes) is the fallback for papers
// without one.
func (idx *BibIndex) Contains(p paper.Paper) bool {
	if p.DOI != "" && idx.dois[foldDOI(p.DOI)] {
		return true
	}
	return idx.ids[p.ID]
}

// foldDOI strips resolver prefixes and case so DOIs written in different
// styles compare equal.
func foldDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi.org/", "DOI:", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.ToLower(doi)
}

// AppendEntries appends rendered BibTeX entries to path, creating the file
// when absent. A leading newline keeps the new entries separated from any
// existing content.
func AppendEntries(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	_, err = f.WriteString("\n" + content)
	return err
}

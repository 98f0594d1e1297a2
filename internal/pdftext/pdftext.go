// Package pdftext extracts per-page plain text from paper PDFs, the raw
// material for section splitting, plus DOI and arXiv identifiers for
// corpus enrichment.
package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// arXiv IDs in the modern YYMM.NNNNN form, optionally versioned.
var arxivIDRe = regexp.MustCompile(`(\d{4}\.\d{4,5})(?:v\d+)?`)

// ExtractPages returns one plain-text string per PDF page. Pages the
// library cannot render come back empty rather than failing the whole
// document.
func ExtractPages(filePath string) ([]string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// WritePages writes one <stem>_page_N.txt file per page under dir, the
// layout the sections package combines from. Empty pages are skipped.
func WritePages(dir, stem string, pages []string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating pages dir: %w", err)
	}
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		name := fmt.Sprintf("%s_page_%d.txt", stem, i+1)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0644); err != nil {
			return fmt.Errorf("writing page %d: %w", i+1, err)
		}
	}
	return nil
}

// ExtractDOI extracts a DOI from a PDF file.
// It searches the first few pages for DOI patterns.
func ExtractDOI(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// DOI is usually on the first page
	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil // No DOI found (not an error)
}

// FindDOI finds the first valid DOI in text.
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}

// ArXivID pulls the arXiv identifier out of a file or directory name
// like "1706.03762_attention_is_all_you_need.pdf".
func ArXivID(name string) string {
	m := arxivIDRe.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return ""
	}
	return m[1]
}

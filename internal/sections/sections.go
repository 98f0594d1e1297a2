// Package sections turns per-page text dumps into per-section files: pages
// are combined in page order, then split at "##" headers, with special
// handling for abstracts that carry no header marker.
package sections

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Section is one split-out piece of a paper. Number is the section's
// display number: the original "3" from a "3. Methods" header, "0a" for
// leading front-matter, "0b" for the abstract, or empty for unnumbered
// sections.
type Section struct {
	Number string
	Title  string
	Body   string
}

var (
	pageNumRe = regexp.MustCompile(`_page_(\d+)\.txt$`)
	// Abstracts often start mid-line without a header: "Abstract.",
	// "Abstract—", "Abstract ".
	abstractRe  = regexp.MustCompile(`^Abstract[\s.\-—]`)
	abstractCut = regexp.MustCompile(`^Abstract[\s.\-—]+`)
	numberedRe  = regexp.MustCompile(`^(\d+)\.?\s*(.+)`)
	unsafeRe    = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// Combine reads every page file in dir and joins them in page order. Page
// order comes from the _page_N.txt suffix; files without it sort first.
func Combine(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading page dir: %w", err)
	}

	type pageFile struct {
		name string
		num  int
	}
	var pages []pageFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		num := 0
		if m := pageNumRe.FindStringSubmatch(e.Name()); m != nil {
			num, _ = strconv.Atoi(m[1])
		}
		pages = append(pages, pageFile{name: e.Name(), num: num})
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("no page files in %s", dir)
	}
	sort.Slice(pages, func(a, b int) bool {
		if pages[a].num != pages[b].num {
			return pages[a].num < pages[b].num
		}
		return pages[a].name < pages[b].name
	})

	var parts []string
	for _, pg := range pages {
		data, err := os.ReadFile(filepath.Join(dir, pg.name))
		if err != nil {
			return "", fmt.Errorf("reading page %s: %w", pg.name, err)
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\n"), nil
}

// Split cuts combined paper text into sections at "##" header lines. A
// line opening with "Abstract" but no header marker also starts a new
// section. Text before the first header becomes the 0a front-matter
// section; sections with empty bodies are dropped.
func Split(content string) []Section {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	type chunk struct {
		title string
		lines []string
	}
	var chunks []chunk
	current := chunk{}
	flush := func() {
		if current.title != "" || len(current.lines) > 0 {
			chunks = append(chunks, current)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "##"):
			flush()
			title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			current = chunk{title: title}
		case abstractRe.MatchString(trimmed):
			flush()
			current = chunk{title: "Abstract"}
			if rest := abstractCut.ReplaceAllString(trimmed, ""); rest != "" {
				current.lines = append(current.lines, rest)
			}
		default:
			current.lines = append(current.lines, line)
		}
	}
	flush()

	var sections []Section
	for _, c := range chunks {
		body := strings.TrimSpace(strings.Join(c.lines, "\n"))
		if body == "" {
			continue
		}
		sections = append(sections, number(c.title, body))
	}
	return sections
}

// number assigns the section's display number from its header: the
// original numbering when present, 0a for untitled front matter, 0b for
// the abstract.
func number(title, body string) Section {
	if title == "" {
		return Section{Number: "0a", Title: "intro", Body: body}
	}
	if m := numberedRe.FindStringSubmatch(title); m != nil {
		return Section{Number: m[1], Title: m[2], Body: body}
	}
	if strings.Contains(strings.ToLower(title), "abstract") {
		return Section{Number: "0b", Title: title, Body: body}
	}
	return Section{Title: title, Body: body}
}

// FileName returns the section's on-disk name: the sanitized title capped
// at a sane length, prefixed with the section number when there is one.
func (s Section) FileName() string {
	name := unsafeRe.ReplaceAllString(s.Title, "_")
	if len(name) > 100 {
		name = name[:100]
	}
	if s.Number != "" {
		return s.Number + "_" + name + ".txt"
	}
	return name + ".txt"
}

// WriteAll writes each section to its own file under dir.
func WriteAll(dir string, sections []Section) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating sections dir: %w", err)
	}
	for _, s := range sections {
		path := filepath.Join(dir, s.FileName())
		if err := os.WriteFile(path, []byte(s.Body+"\n"), 0644); err != nil {
			return fmt.Errorf("writing section %s: %w", s.FileName(), err)
		}
	}
	return nil
}

package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jahody/papers2/internal/paper"
)

// sectionsSuffix marks a per-paper section directory.
const sectionsSuffix = "_sections"

var arxivPrefixRe = regexp.MustCompile(`^(\d{2})(\d{2})\.\d{4,5}`)

// DerivePapers builds Paper records from the per-paper section directory
// names: "1706.03762_attention_is_all_you_need_sections" yields the ID,
// the arXiv ID, the year from the ID prefix, and the unfolded title.
// Authors are not recoverable from names; resolution falls back to title
// and year evidence for such papers.
func DerivePapers(sectionsDir string) ([]paper.Paper, error) {
	entries, err := os.ReadDir(sectionsDir)
	if err != nil {
		return nil, fmt.Errorf("reading sections dir: %w", err)
	}

	var papers []paper.Paper
	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), sectionsSuffix) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), sectionsSuffix)
		p := paper.Paper{ID: id, RawTitle: titleFromID(id)}
		if m := arxivPrefixRe.FindStringSubmatch(id); m != nil {
			p.ArXivID = arxivPrefixRe.FindString(id)
			yy, _ := strconv.Atoi(m[1])
			p.Year = 2000 + yy
		}
		papers = append(papers, p)
	}
	sort.Slice(papers, func(a, b int) bool { return papers[a].ID < papers[b].ID })
	return papers, nil
}

// titleFromID unfolds the directory-name title: the arXiv prefix is
// dropped and underscores become spaces.
func titleFromID(id string) string {
	title := id
	if m := arxivPrefixRe.FindString(id); m != "" {
		title = strings.TrimPrefix(strings.TrimPrefix(id, m), "_")
	}
	return strings.TrimSpace(strings.ReplaceAll(title, "_", " "))
}

// LoadReferenceBlocks reads each paper's reference-list section into a
// raw text block keyed by paper ID. Papers without a reference section
// are simply absent from the map.
func LoadReferenceBlocks(sectionsDir string) (map[string]string, error) {
	entries, err := os.ReadDir(sectionsDir)
	if err != nil {
		return nil, fmt.Errorf("reading sections dir: %w", err)
	}

	blocks := make(map[string]string)
	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), sectionsSuffix) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), sectionsSuffix)

		refFile, err := ReferenceFile(filepath.Join(sectionsDir, e.Name()))
		if err != nil {
			return nil, err
		}
		if refFile == "" {
			continue
		}
		data, err := os.ReadFile(refFile)
		if err != nil {
			return nil, fmt.Errorf("reading references for %s: %w", id, err)
		}
		blocks[id] = string(data)
	}
	return blocks, nil
}

// ReferenceFile locates the reference section file in one paper's
// section directory, matching by name since section numbering varies.
// Returns "" when the paper has no reference section.
func ReferenceFile(paperDir string) (string, error) {
	entries, err := os.ReadDir(paperDir)
	if err != nil {
		return "", fmt.Errorf("reading paper dir: %w", err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		lower := strings.ToLower(e.Name())
		if strings.Contains(lower, "reference") || strings.Contains(lower, "bibliograph") {
			candidates = append(candidates, e.Name())
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}
	sort.Strings(candidates)
	return filepath.Join(paperDir, candidates[0]), nil
}

package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSectionDir(t *testing.T, root, dir string, files map[string]string) {
	t.Helper()
	path := filepath.Join(root, dir)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(path, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDerivePapers(t *testing.T) {
	root := t.TempDir()
	writeSectionDir(t, root, "1706.03762_attention_is_all_you_need_sections", nil)
	writeSectionDir(t, root, "1512.03385_deep_residual_learning_sections", nil)
	writeSectionDir(t, root, "tech_report_sections", nil)
	// Loose files are ignored.
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	papers, err := DerivePapers(root)
	if err != nil {
		t.Fatalf("DerivePapers: %v", err)
	}
	if len(papers) != 3 {
		t.Fatalf("got %d papers, want 3", len(papers))
	}

	p := papers[1]
	if p.ID != "1706.03762_attention_is_all_you_need" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.RawTitle != "attention is all you need" {
		t.Errorf("RawTitle = %q", p.RawTitle)
	}
	if p.ArXivID != "1706.03762" {
		t.Errorf("ArXivID = %q", p.ArXivID)
	}
	if p.Year != 2017 {
		t.Errorf("Year = %d, want 2017", p.Year)
	}

	if papers[0].Year != 2015 {
		t.Errorf("resnet Year = %d, want 2015", papers[0].Year)
	}

	// Directory without an arXiv prefix keeps the whole name as title.
	np := papers[2]
	if np.ID != "tech_report" || np.RawTitle != "tech report" {
		t.Errorf("non-arXiv paper = %+v", np)
	}
	if np.ArXivID != "" || np.Year != 0 {
		t.Errorf("non-arXiv paper got ArXivID=%q Year=%d", np.ArXivID, np.Year)
	}
}

func TestDerivePapersSorted(t *testing.T) {
	root := t.TempDir()
	writeSectionDir(t, root, "1810.04805_bert_sections", nil)
	writeSectionDir(t, root, "1409.0473_neural_mt_sections", nil)

	papers, err := DerivePapers(root)
	if err != nil {
		t.Fatalf("DerivePapers: %v", err)
	}
	if len(papers) != 2 || papers[0].ID != "1409.0473_neural_mt" {
		t.Errorf("papers not sorted by ID: %+v", papers)
	}
}

func TestLoadReferenceBlocks(t *testing.T) {
	root := t.TempDir()
	writeSectionDir(t, root, "1706.03762_attention_sections", map[string]string{
		"0a_intro.txt":     "intro text",
		"7_References.txt": "Vaswani et al. Attention is all you need. 2017.",
		"1_Background.txt": "background text",
	})
	writeSectionDir(t, root, "1810.04805_bert_sections", map[string]string{
		"0a_intro.txt": "no reference section here",
	})

	blocks, err := LoadReferenceBlocks(root)
	if err != nil {
		t.Fatalf("LoadReferenceBlocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %v", len(blocks), blocks)
	}
	got := blocks["1706.03762_attention"]
	if got != "Vaswani et al. Attention is all you need. 2017." {
		t.Errorf("block = %q", got)
	}
}

func TestLoadReferenceBlocksBibliography(t *testing.T) {
	root := t.TempDir()
	writeSectionDir(t, root, "1512.03385_resnet_sections", map[string]string{
		"9_Bibliography.txt": "He et al. Deep residual learning. 2016.",
	})

	blocks, err := LoadReferenceBlocks(root)
	if err != nil {
		t.Fatalf("LoadReferenceBlocks: %v", err)
	}
	if blocks["1512.03385_resnet"] != "He et al. Deep residual learning. 2016." {
		t.Errorf("blocks = %v", blocks)
	}
}

func TestLoadReferenceBlocksMissingDir(t *testing.T) {
	if _, err := LoadReferenceBlocks(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing sections dir")
	}
}

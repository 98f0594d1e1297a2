package storage

import (
	"path/filepath"
	"testing"

	"github.com/jahody/papers2/internal/graph"
	"github.com/jahody/papers2/internal/paper"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "papergraph.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func cachePapers() []paper.Paper {
	return []paper.Paper{
		{
			ID:       "1706.03762_attention",
			RawTitle: "Attention Is All You Need",
			Authors:  []paper.Author{{First: "Ashish", Last: "Vaswani"}},
			Year:     2017,
			ArXivID:  "1706.03762",
		},
		{
			ID:       "1810.04805_bert",
			RawTitle: "BERT: Pre-training of Deep Bidirectional Transformers",
			Authors:  []paper.Author{{First: "Jacob", Last: "Devlin"}},
			Year:     2018,
		},
		{
			ID:       "1512.03385_resnet",
			RawTitle: "Deep Residual Learning for Image Recognition",
			Authors:  []paper.Author{{First: "Kaiming", Last: "He"}},
			Year:     2016,
		},
	}
}

func cacheEdges() []graph.Edge {
	return []graph.Edge{
		{Source: "1810.04805_bert", Target: "1706.03762_attention", Confidence: 0.95},
		{Source: "1810.04805_bert", Target: "1512.03385_resnet", Confidence: 0.9},
		{Source: "1512.03385_resnet", Target: "1706.03762_attention", Confidence: 0.85},
	}
}

func TestRebuildAndGetPaper(t *testing.T) {
	db := testDB(t)

	n, err := db.Rebuild(cachePapers(), cacheEdges())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if n != 3 {
		t.Errorf("Rebuild = %d, want 3", n)
	}

	p, err := db.GetPaper("1706.03762_attention")
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if p == nil || p.RawTitle != "Attention Is All You Need" || p.Year != 2017 {
		t.Errorf("GetPaper = %+v", p)
	}
	if len(p.Authors) != 1 || p.Authors[0].Last != "Vaswani" {
		t.Errorf("Authors = %+v, want Vaswani round-tripped", p.Authors)
	}

	missing, err := db.GetPaper("nope")
	if err != nil {
		t.Fatalf("GetPaper(nope): %v", err)
	}
	if missing != nil {
		t.Errorf("GetPaper(nope) = %+v, want nil", missing)
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 2; i++ {
		if _, err := db.Rebuild(cachePapers(), cacheEdges()); err != nil {
			t.Fatalf("Rebuild %d: %v", i, err)
		}
	}

	papers, err := db.ListPapers(PaperFilter{})
	if err != nil {
		t.Fatalf("ListPapers: %v", err)
	}
	if len(papers) != 3 {
		t.Errorf("got %d papers after double rebuild, want 3", len(papers))
	}
}

func TestListPapersFilters(t *testing.T) {
	db := testDB(t)
	if _, err := db.Rebuild(cachePapers(), nil); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	t.Run("by year", func(t *testing.T) {
		papers, err := db.ListPapers(PaperFilter{Year: 2017})
		if err != nil {
			t.Fatalf("ListPapers: %v", err)
		}
		if len(papers) != 1 || papers[0].ID != "1706.03762_attention" {
			t.Errorf("papers = %+v, want only the 2017 paper", papers)
		}
	})

	t.Run("by author", func(t *testing.T) {
		papers, err := db.ListPapers(PaperFilter{Author: "Devlin"})
		if err != nil {
			t.Fatalf("ListPapers: %v", err)
		}
		if len(papers) != 1 || papers[0].ID != "1810.04805_bert" {
			t.Errorf("papers = %+v, want only Devlin's paper", papers)
		}
	})

	t.Run("limit", func(t *testing.T) {
		papers, err := db.ListPapers(PaperFilter{Limit: 2})
		if err != nil {
			t.Fatalf("ListPapers: %v", err)
		}
		if len(papers) != 2 {
			t.Errorf("got %d papers, want limit 2", len(papers))
		}
	})

	t.Run("ordered by id", func(t *testing.T) {
		papers, err := db.ListPapers(PaperFilter{})
		if err != nil {
			t.Fatalf("ListPapers: %v", err)
		}
		for i := 1; i < len(papers); i++ {
			if papers[i-1].ID > papers[i].ID {
				t.Errorf("papers not ordered by ID: %s before %s", papers[i-1].ID, papers[i].ID)
			}
		}
	})
}

func TestCitersAndCited(t *testing.T) {
	db := testDB(t)
	if _, err := db.Rebuild(cachePapers(), cacheEdges()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	citers, err := db.Citers("1706.03762_attention")
	if err != nil {
		t.Fatalf("Citers: %v", err)
	}
	if len(citers) != 2 || citers[0] != "1512.03385_resnet" || citers[1] != "1810.04805_bert" {
		t.Errorf("Citers = %v, want sorted resnet+bert", citers)
	}

	cited, err := db.Cited("1810.04805_bert")
	if err != nil {
		t.Fatalf("Cited: %v", err)
	}
	if len(cited) != 2 {
		t.Errorf("Cited = %v, want 2 targets", cited)
	}
}

func TestMostCited(t *testing.T) {
	db := testDB(t)
	if _, err := db.Rebuild(cachePapers(), cacheEdges()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	counts, err := db.MostCited(10)
	if err != nil {
		t.Fatalf("MostCited: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(counts), counts)
	}
	if counts[0].PaperID != "1706.03762_attention" || counts[0].Count != 2 {
		t.Errorf("counts[0] = %+v, want attention with 2", counts[0])
	}
}

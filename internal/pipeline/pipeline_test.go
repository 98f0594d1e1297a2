package pipeline

import (
	"context"
	"testing"

	"github.com/jahody/papers2/internal/paper"
	"github.com/jahody/papers2/internal/resolve"
)

func testInput() Input {
	papers := []paper.Paper{
		{
			ID:       "vaswani2017",
			RawTitle: "Attention Is All You Need",
			Authors:  []paper.Author{{First: "Ashish", Last: "Vaswani"}},
			Year:     2017,
		},
		{
			ID:       "devlin2018",
			RawTitle: "BERT: Pre-training of Deep Bidirectional Transformers",
			Authors:  []paper.Author{{First: "Jacob", Last: "Devlin"}},
			Year:     2018,
		},
		{
			ID:       "he2016",
			RawTitle: "Deep Residual Learning for Image Recognition",
			Authors:  []paper.Author{{First: "Kaiming", Last: "He"}},
			Year:     2016,
		},
	}
	blocks := map[string]string{
		"devlin2018": `Vaswani et al. Attention is all you need. 2017.
Smith, J. Some Unrelated Paper Never In Corpus. 2015.
He, K. Deep residual learning for image recognition. 2016.`,
		"he2016": `Vaswani et al. Attention is all you need. 2017.
Smith, J. Some Unrelated Paper Never In Corpus. 2015.
Krizhevsky, A. Imagenet classification with deep networks. 2012.`,
	}
	return Input{Papers: papers, ReferenceBlocks: blocks}
}

func TestExecute(t *testing.T) {
	res, err := Execute(context.Background(), testInput(), Options{Tuning: resolve.DefaultTuning()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	edges := res.Graph.Edges()
	if len(edges) != 3 {
		t.Fatalf("got %d graph edges, want 3: %v", len(edges), edges)
	}
	want := map[[2]string]bool{
		{"devlin2018", "vaswani2017"}: true,
		{"devlin2018", "he2016"}:      true,
		{"he2016", "vaswani2017"}:     true,
	}
	for _, e := range edges {
		if !want[[2]string{e.Source, e.Target}] {
			t.Errorf("unexpected edge %s -> %s", e.Source, e.Target)
		}
	}

	if err := res.Graph.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestExecuteReports(t *testing.T) {
	res, err := Execute(context.Background(), testInput(), Options{Tuning: resolve.DefaultTuning()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(res.Reports) != 3 {
		t.Fatalf("got %d reports, want 3 (one per paper)", len(res.Reports))
	}
	byID := make(map[string]PaperReport)
	for _, r := range res.Reports {
		byID[r.PaperID] = r
	}

	// vaswani2017 has no reference block: zero of everything, not an error.
	if r := byID["vaswani2017"]; r.References != 0 {
		t.Errorf("vaswani2017 report = %+v, want zero references", r)
	}
	if r := byID["devlin2018"]; r.References != 3 || r.Resolved != 2 || r.External != 1 {
		t.Errorf("devlin2018 report = %+v, want 3 refs / 2 resolved / 1 external", r)
	}
}

func TestExecuteTopExternal(t *testing.T) {
	res, err := Execute(context.Background(), testInput(), Options{Tuning: resolve.DefaultTuning()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// The Smith reference is external in both citing papers; the
	// Krizhevsky one appears once and stays below the repeat cutoff.
	if len(res.External) != 1 {
		t.Fatalf("External = %v, want exactly the repeated Smith title", res.External)
	}
	if res.External[0].Count != 2 {
		t.Errorf("External[0] = %+v, want count 2", res.External[0])
	}
}

func TestExecuteDeterministic(t *testing.T) {
	first, err := Execute(context.Background(), testInput(), Options{Workers: 3, Tuning: resolve.DefaultTuning()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := Execute(context.Background(), testInput(), Options{Workers: 3, Tuning: resolve.DefaultTuning()})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if len(again.Edges) != len(first.Edges) {
			t.Fatalf("run %d: %d edges vs %d", i, len(again.Edges), len(first.Edges))
		}
		for j := range first.Edges {
			if again.Edges[j] != first.Edges[j] {
				t.Fatalf("run %d: edge %d = %+v, want %+v", i, j, again.Edges[j], first.Edges[j])
			}
		}
	}
}

func TestExecuteMalformedCorpusFatal(t *testing.T) {
	in := testInput()
	in.Papers[0].RawTitle = ""

	if _, err := Execute(context.Background(), in, Options{Tuning: resolve.DefaultTuning()}); err == nil {
		t.Fatal("expected fatal error for corpus paper without title")
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Execute(ctx, testInput(), Options{Tuning: resolve.DefaultTuning()}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestExecuteEmptyCorpus(t *testing.T) {
	res, err := Execute(context.Background(), Input{}, Options{Tuning: resolve.DefaultTuning()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Graph.Nodes()) != 0 || len(res.Graph.Edges()) != 0 {
		t.Errorf("empty corpus produced a non-empty graph")
	}
}

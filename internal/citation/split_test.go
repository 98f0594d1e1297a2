package citation

import (
	"strings"
	"testing"
)

func TestSplitBlockNumbered(t *testing.T) {
	block := `REFERENCES
1. Vaswani et al. Attention is all you need. In NeurIPS, 2017.
2. Devlin, J. BERT pre-training of deep bidirectional transformers. 2019.
3. Kingma, D. Adam a method for stochastic optimization. 2014.
4. He, K. Deep residual learning for image recognition. 2016.`

	refs := SplitBlock(block)
	if len(refs) != 4 {
		t.Fatalf("got %d refs, want 4: %v", len(refs), refs)
	}
	if !strings.Contains(refs[0], "Vaswani") {
		t.Errorf("refs[0] = %q, want Vaswani entry first", refs[0])
	}
	if !strings.Contains(refs[3], "residual") {
		t.Errorf("refs[3] = %q, want He entry last", refs[3])
	}
}

func TestSplitBlockBracketed(t *testing.T) {
	block := `[1] Vaswani et al. Attention is all you need. 2017. [2] Devlin, J. BERT pre-training of deep transformers. 2019. [3] Kingma, D. Adam optimization. 2014. [4] He, K. Deep residual learning. 2016.`

	refs := SplitBlock(block)
	if len(refs) != 4 {
		t.Fatalf("got %d refs, want 4: %v", len(refs), refs)
	}
	for i, ref := range refs {
		if !strings.HasPrefix(ref, "[") {
			t.Errorf("refs[%d] = %q, want bracketed marker prefix", i, ref)
		}
	}
}

func TestSplitBlockLineBased(t *testing.T) {
	block := `Vaswani, A. Attention is all you need. In NeurIPS, 2017.
Devlin, J. BERT pre-training of transformers. In NAACL, 2019.
Kingma, D. Adam a method for stochastic optimization. In ICLR, 2014.`

	refs := SplitBlock(block)
	if len(refs) != 3 {
		t.Fatalf("got %d refs, want 3: %v", len(refs), refs)
	}
}

func TestSplitBlockMergesContinuations(t *testing.T) {
	block := `Vaswani, A. Attention is all you need. In Advances in Neural
information processing systems, pages 5998-6008, 2017.
Devlin, J. BERT pre-training of deep transformers. In NAACL, 2019.
Kingma, D. Adam a method for stochastic optimization. In ICLR, 2014.`

	refs := SplitBlock(block)
	if len(refs) != 3 {
		t.Fatalf("got %d refs, want 3: %v", len(refs), refs)
	}
	if !strings.Contains(refs[0], "information processing systems") {
		t.Errorf("refs[0] = %q, want continuation merged", refs[0])
	}
}

func TestSplitBlockDropsEntriesWithoutYear(t *testing.T) {
	block := `Vaswani, A. Attention is all you need. In NeurIPS, 2017.
This line is long enough but carries no publication marker at all.
Devlin, J. BERT pre-training of deep transformers, in press.
Kingma, D. Adam a method for stochastic optimization. In ICLR, 2014.`

	refs := SplitBlock(block)
	if len(refs) != 3 {
		t.Fatalf("got %d refs, want 3 (no-year line dropped): %v", len(refs), refs)
	}
	for _, ref := range refs {
		if strings.Contains(ref, "no publication marker") {
			t.Errorf("invalid entry survived: %q", ref)
		}
	}
}

func TestSplitReferences(t *testing.T) {
	block := `REFERENCES
1. Vaswani et al. Attention is all you need. In NeurIPS, 2017.
2. Devlin, J. BERT pre-training of deep bidirectional transformers. 2019.
3. He, K. Deep residual learning for image recognition. 2016.`

	refs := SplitReferences("1810.04805_bert", block)
	if len(refs) != 3 {
		t.Fatalf("got %d refs, want 3: %v", len(refs), refs)
	}
	for i, ref := range refs {
		if ref.SourcePaperID != "1810.04805_bert" {
			t.Errorf("refs[%d].SourcePaperID = %q", i, ref.SourcePaperID)
		}
		if ref.Position != i+1 {
			t.Errorf("refs[%d].Position = %d, want %d", i, ref.Position, i+1)
		}
	}
	if !strings.Contains(refs[0].RawText, "Vaswani") || !strings.Contains(refs[2].RawText, "residual") {
		t.Errorf("entries out of list order: %v", refs)
	}
}

func TestSplitReferencesEmpty(t *testing.T) {
	if refs := SplitReferences("a_paper", ""); len(refs) != 0 {
		t.Errorf("SplitReferences on empty block = %v, want none", refs)
	}
}

func TestSplitBlockEmpty(t *testing.T) {
	for _, block := range []string{"", "\n\n", "REFERENCES"} {
		if refs := SplitBlock(block); len(refs) != 0 {
			t.Errorf("SplitBlock(%q) = %v, want empty", block, refs)
		}
	}
}

func TestIsSequential(t *testing.T) {
	tests := []struct {
		name     string
		nums     []int
		fraction float64
		want     bool
	}{
		{"strictly sequential", []int{1, 2, 3, 4, 5}, 0.7, true},
		{"mostly sequential", []int{1, 2, 3, 4, 1998, 5, 6, 7, 8}, 0.5, true},
		{"page numbers", []int{5998, 122, 40, 3104}, 0.5, false},
		{"single number", []int{1}, 0.5, false},
		{"empty", nil, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSequential(tt.nums, tt.fraction); got != tt.want {
				t.Errorf("isSequential(%v, %v) = %v, want %v", tt.nums, tt.fraction, got, tt.want)
			}
		})
	}
}

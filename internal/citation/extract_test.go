package citation

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantAuthors []string
		wantYear    int
		wantTitle   string
		wantConf    float64
	}{
		{
			name:        "surname et al style",
			raw:         "Vaswani et al. Attention is all you need. 2017.",
			wantAuthors: []string{"Vaswani"},
			wantYear:    2017,
			wantTitle:   "Attention is all you need",
			wantConf:    1.0,
		},
		{
			name:        "last comma initial style",
			raw:         "Smith, J. Some Unrelated Paper Never In Corpus. 2015.",
			wantAuthors: []string{"Smith"},
			wantYear:    2015,
			wantTitle:   "Some Unrelated Paper Never In Corpus",
			wantConf:    1.0,
		},
		{
			name:        "initials first with full author list",
			raw:         "J. Devlin, M.-W. Chang, K. Lee and K. Toutanova. BERT: Pre-training of deep bidirectional transformers for language understanding. 2019.",
			wantAuthors: []string{"Devlin", "Chang", "Lee", "Toutanova"},
			wantYear:    2019,
			wantTitle:   "BERT: Pre-training of deep bidirectional transformers for language understanding",
			wantConf:    1.0,
		},
		{
			name:        "parenthesized year after authors",
			raw:         "Vaswani, A. (2017). Attention is all you need. In Advances in Neural Information Processing Systems.",
			wantAuthors: []string{"Vaswani"},
			wantYear:    2017,
			wantTitle:   "Attention is all you need",
			wantConf:    1.0,
		},
		{
			name:        "last comma initial with lowercase title",
			raw:         "He, K. Deep residual learning for image recognition. 2016.",
			wantAuthors: []string{"He"},
			wantYear:    2016,
			wantTitle:   "Deep residual learning for image recognition",
			wantConf:    1.0,
		},
		{
			name:     "no year still extracts with penalty",
			raw:      "Kingma and Ba. Adam: A method for stochastic optimization. In press.",
			wantYear: 0,
			wantAuthors: []string{
				"Kingma", "Ba",
			},
			wantTitle: "Adam: A method for stochastic optimization",
			wantConf:  0.75,
		},
		{
			name:     "empty input is unparseable",
			raw:      "",
			wantConf: 0,
		},
		{
			name:     "too short input is unparseable",
			raw:      "Smith 2015",
			wantConf: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(tt.raw)

			if rec.RawText != tt.raw {
				t.Errorf("RawText = %q, want verbatim input", rec.RawText)
			}
			if rec.Confidence < 0 || rec.Confidence > 1 {
				t.Fatalf("Confidence = %v, want value in [0,1]", rec.Confidence)
			}
			if rec.Confidence != tt.wantConf {
				t.Errorf("Confidence = %v, want %v", rec.Confidence, tt.wantConf)
			}
			if rec.Year != tt.wantYear {
				t.Errorf("Year = %d, want %d", rec.Year, tt.wantYear)
			}
			if rec.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", rec.Title, tt.wantTitle)
			}
			if len(rec.Authors) != len(tt.wantAuthors) {
				t.Fatalf("Authors = %v, want %v", rec.Authors, tt.wantAuthors)
			}
			for i := range rec.Authors {
				if rec.Authors[i] != tt.wantAuthors[i] {
					t.Errorf("Authors[%d] = %q, want %q", i, rec.Authors[i], tt.wantAuthors[i])
				}
			}
		})
	}
}

func TestExtractVenue(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantVenue bool
	}{
		{
			name:      "proceedings venue detected",
			raw:       "Vaswani et al. Attention is all you need. In Proceedings of NeurIPS, 2017.",
			wantVenue: true,
		},
		{
			name:      "arxiv venue detected",
			raw:       "Vaswani et al. Attention is all you need. arXiv preprint arXiv:1706.03762, 2017.",
			wantVenue: true,
		},
		{
			name:      "no trailing venue",
			raw:       "Vaswani et al. Attention is all you need. 2017.",
			wantVenue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(tt.raw)
			if got := rec.Venue != ""; got != tt.wantVenue {
				t.Errorf("Venue = %q, want venue present = %v", rec.Venue, tt.wantVenue)
			}
		})
	}
}

func TestExtractNeverPanicsAndBoundsConfidence(t *testing.T) {
	inputs := []string{
		"",
		".",
		"....",
		"1234567890123456789012345",
		"[12]",
		"ALL CAPS NOISE WITHOUT ANY STRUCTURE AT ALL 1850",
		"a lowercase reference that looks like prose and nothing else 2003",
	}
	for _, in := range inputs {
		rec := Extract(in)
		if rec.Confidence < 0 || rec.Confidence > 1 {
			t.Errorf("Extract(%q).Confidence = %v, out of [0,1]", in, rec.Confidence)
		}
	}
}

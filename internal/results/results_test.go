package results

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jahody/papers2/internal/ideas"
)

func fakeOllama(t *testing.T, tables string, prompts *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.Write([]byte(`{"models":[{"name":"llama3.2"}]}`))
		case "/api/generate":
			var req struct {
				Prompt string `json:"prompt"`
				Stream bool   `json:"stream"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad request body: %v", err)
			}
			if req.Stream {
				t.Error("expected non-streaming request")
			}
			if prompts != nil {
				*prompts = append(*prompts, req.Prompt)
			}
			json.NewEncoder(w).Encode(map[string]string{"response": tables + "\n"})
		default:
			http.NotFound(w, r)
		}
	}))
}

func writePaperDir(t *testing.T, root, dir string, files map[string]string) string {
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
	return path
}

func TestSectionWeight(t *testing.T) {
	tests := []struct {
		filename string
		want     int
	}{
		{"5_Experimental_Results.txt", 0},
		{"6_Evaluation.txt", 0},
		{"4_Performance.txt", 0},
		{"7_Comparison.txt", 1},
		{"3_Model_Architecture.txt", 2},
		{"1_Introduction.txt", 3},
		{"0b_Abstract.txt", 4},
		{"2_Background.txt", 10},
	}
	for _, tt := range tests {
		if got := sectionWeight(tt.filename); got != tt.want {
			t.Errorf("sectionWeight(%q) = %d, want %d", tt.filename, got, tt.want)
		}
	}
}

func TestGatherContent(t *testing.T) {
	root := t.TempDir()
	dir := writePaperDir(t, root, "1706.03762_attention_sections", map[string]string{
		"0b_Abstract.txt":       "abstract text",
		"1_Introduction.txt":    "intro text",
		"5_Results.txt":         "table of numbers",
		"7_References.txt":      "Vaswani et al. 2017.",
		"8_Acknowledgments.txt": "thanks everyone",
	})

	content, err := GatherContent(dir)
	if err != nil {
		t.Fatalf("GatherContent: %v", err)
	}

	if strings.Contains(content, "Vaswani et al.") || strings.Contains(content, "thanks everyone") {
		t.Errorf("content includes excluded sections:\n%s", content)
	}
	results := strings.Index(content, "--- Section: 5_Results.txt ---")
	intro := strings.Index(content, "--- Section: 1_Introduction.txt ---")
	abstract := strings.Index(content, "--- Section: 0b_Abstract.txt ---")
	if results == -1 || intro == -1 || abstract == -1 {
		t.Fatalf("content missing section headers:\n%s", content)
	}
	if !(results < intro && intro < abstract) {
		t.Errorf("sections not in priority order: results=%d intro=%d abstract=%d", results, intro, abstract)
	}
}

func TestGatherContentBudget(t *testing.T) {
	root := t.TempDir()
	dir := writePaperDir(t, root, "big_sections", map[string]string{
		"5_Results.txt":      strings.Repeat("x", maxCharsPerPaper+5000),
		"1_Introduction.txt": "intro text",
	})

	content, err := GatherContent(dir)
	if err != nil {
		t.Fatalf("GatherContent: %v", err)
	}
	if !strings.Contains(content, "[... truncated ...]") {
		t.Error("oversized section should be truncated with a marker")
	}
	if strings.Contains(content, "intro text") {
		t.Error("sections past the budget should be dropped")
	}
}

func TestGatherContentMissingDir(t *testing.T) {
	if _, err := GatherContent(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestExtract(t *testing.T) {
	var prompts []string
	srv := fakeOllama(t, "| Metric | Value |\n| BLEU | 28.4 |", &prompts)
	defer srv.Close()

	root := t.TempDir()
	withContent := writePaperDir(t, root, "1706.03762_attention_sections", map[string]string{
		"5_Results.txt": "BLEU 28.4 on WMT14.",
	})
	empty := writePaperDir(t, root, "empty_sections", nil)

	c := ideas.NewClient(ideas.WithBaseURL(srv.URL))
	results, err := Extract(context.Background(), c, []string{withContent, empty})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (empty paper skipped): %+v", len(results), results)
	}
	if results[0].PaperID != "1706.03762_attention" || results[0].Err != nil {
		t.Errorf("results[0] = %+v", results[0])
	}
	if !strings.Contains(results[0].Tables, "BLEU") {
		t.Errorf("Tables = %q, want model output", results[0].Tables)
	}
	if len(prompts) != 1 || !strings.Contains(prompts[0], "BLEU 28.4 on WMT14.") {
		t.Errorf("prompt should carry the section text, got %q", prompts)
	}
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := ideas.NewClient()
	_, err := Extract(ctx, c, []string{t.TempDir()})
	if err == nil {
		t.Error("expected context error")
	}
}

func TestWriteReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "paper_results.txt")
	results := []Result{
		{PaperID: "a_paper", Tables: "| Metric | Value |"},
		{PaperID: "no_results", Tables: NoResultsMarker},
		{PaperID: "broken", Err: errors.New("model timeout")},
	}

	if err := WriteReport(out, results); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if !strings.Contains(text, "Paper: a_paper") || !strings.Contains(text, "| Metric | Value |") {
		t.Errorf("report missing table entry:\n%s", text)
	}
	if strings.Contains(text, "no_results") {
		t.Errorf("papers without results should be omitted:\n%s", text)
	}
	if !strings.Contains(text, "ERROR: model timeout") {
		t.Errorf("report missing error entry:\n%s", text)
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten chars!", 18, "exactly ten chars!"},
		{"a very long paper title that keeps going", 20, "a very long paper..."},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestListPaperDirs(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b_paper_sections", "a_paper_sections", "notes"} {
		if err := os.Mkdir(filepath.Join(root, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("suffix filtered and sorted", func(t *testing.T) {
		dirs, err := listPaperDirs(root, sectionDirSuffix)
		if err != nil {
			t.Fatalf("listPaperDirs: %v", err)
		}
		if len(dirs) != 2 {
			t.Fatalf("got %d dirs, want 2: %v", len(dirs), dirs)
		}
		if filepath.Base(dirs[0]) != "a_paper_sections" || filepath.Base(dirs[1]) != "b_paper_sections" {
			t.Errorf("dirs = %v, want sorted a then b", dirs)
		}
	})

	t.Run("no suffix returns all dirs", func(t *testing.T) {
		dirs, err := listPaperDirs(root, "")
		if err != nil {
			t.Fatalf("listPaperDirs: %v", err)
		}
		if len(dirs) != 3 {
			t.Errorf("got %d dirs, want 3", len(dirs))
		}
	})

	t.Run("missing root", func(t *testing.T) {
		if _, err := listPaperDirs(filepath.Join(root, "absent"), ""); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

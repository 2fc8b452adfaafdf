package classify_test

import (
	"testing"

	"tidy-go/internal/classify"
)

func newTable(t *testing.T) *classify.Table {
	t.Helper()
	table, err := classify.NewTable(nil)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}

func TestClassify(t *testing.T) {
	table := newTable(t)

	tests := []struct {
		ext  string
		want classify.Category
	}{
		{"jpg", classify.Images},
		{".jpg", classify.Images},
		{"JPG", classify.Images},
		{".JPeG", classify.Images},
		{"mp4", classify.Videos},
		{"pdf", classify.Documents},
		{"txt", classify.Documents},
		{"mp3", classify.Music},
		{"zip", classify.Archives},
		{"exe", classify.Executables},
		{"go", classify.Code},
		{"xlsx", classify.Spreadsheets},
		{"pptx", classify.Presentations},
		{"xyz123", classify.Others},
		{"", classify.Others},
		{".", classify.Others},
	}

	for _, tt := range tests {
		if got := table.Classify(tt.ext); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestClassifyOverrides(t *testing.T) {
	t.Run("override remaps an extension", func(t *testing.T) {
		table, err := classify.NewTable(map[string]string{".md": "Code", "CSV": "Documents"})
		if err != nil {
			t.Fatalf("NewTable() error = %v", err)
		}
		if got := table.Classify("md"); got != classify.Code {
			t.Errorf("Classify(md) = %v, want Code", got)
		}
		if got := table.Classify("csv"); got != classify.Documents {
			t.Errorf("Classify(csv) = %v, want Documents", got)
		}
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		if _, err := classify.NewTable(map[string]string{"md": "Notes"}); err == nil {
			t.Fatal("NewTable() expected error for unknown category")
		}
	})
}

func TestFolderNames(t *testing.T) {
	names := classify.FolderNames()
	if len(names) != len(classify.Categories) {
		t.Fatalf("got %d folder names, want %d", len(names), len(classify.Categories))
	}
	seen := make(map[string]bool)
	for _, n := range names {
		if n == "" {
			t.Error("empty folder name")
		}
		if seen[n] {
			t.Errorf("duplicate folder name %q", n)
		}
		seen[n] = true
	}
	if !seen["Others"] {
		t.Error("Others folder missing")
	}
}

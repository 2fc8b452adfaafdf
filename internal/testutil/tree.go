package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates the given files under root. Map keys are
// slash-separated relative paths, values are file contents. Parent
// directories are created as needed. A value of "" still creates the file.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}
}

// MkdirAll creates the given directories under root, empty ones included.
func MkdirAll(t *testing.T, root string, dirs ...string) {
	t.Helper()

	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755); err != nil {
			t.Fatalf("creating directory %s: %v", d, err)
		}
	}
}

// Exists reports whether the path exists.
func Exists(t *testing.T, path string) bool {
	t.Helper()

	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	t.Fatalf("stat %s: %v", path, err)
	return false
}

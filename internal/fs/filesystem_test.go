package fs_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"tidy-go/internal/fs"
	"tidy-go/internal/tidy"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func resolve(t *testing.T, m *fs.OSFilesystemManager, path string) *tidy.Path {
	t.Helper()
	p, err := m.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", path, err)
	}
	return p
}

func entryNames(entries []tidy.FileEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}

func TestResolve(t *testing.T) {
	m := fs.NewOSFilesystemManager(nil)

	t.Run("resolves a directory", func(t *testing.T) {
		dir := t.TempDir()
		p := resolve(t, m, dir)
		if !p.IsDir() {
			t.Error("expected IsDir")
		}
	})

	t.Run("fails for missing path", func(t *testing.T) {
		if _, err := m.Resolve(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestListEntries(t *testing.T) {
	t.Run("flat listing skips directories", func(t *testing.T) {
		m := fs.NewOSFilesystemManager(nil)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "a")
		writeFile(t, filepath.Join(dir, "sub", "b.txt"), "b")

		entries, err := m.ListEntries(resolve(t, m, dir), false, nil)
		if err != nil {
			t.Fatalf("ListEntries() error = %v", err)
		}
		if got := entryNames(entries); len(got) != 1 || got[0] != "a.txt" {
			t.Errorf("entries = %v, want [a.txt]", got)
		}
	})

	t.Run("recursive listing excludes named top-level dirs", func(t *testing.T) {
		m := fs.NewOSFilesystemManager(nil)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "a")
		writeFile(t, filepath.Join(dir, "sub", "b.txt"), "b")
		writeFile(t, filepath.Join(dir, "Images", "c.jpg"), "c")
		writeFile(t, filepath.Join(dir, "sub", "Images", "d.jpg"), "d")

		entries, err := m.ListEntries(resolve(t, m, dir), true, []string{"Images"})
		if err != nil {
			t.Fatalf("ListEntries() error = %v", err)
		}
		got := entryNames(entries)
		want := []string{"a.txt", "b.txt", "d.jpg"} // only root-level Images is excluded
		if len(got) != len(want) {
			t.Fatalf("entries = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("entries = %v, want %v", got, want)
				break
			}
		}
	})

	t.Run("extension is lower-cased without dot", func(t *testing.T) {
		m := fs.NewOSFilesystemManager(nil)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "PHOTO.JPG"), "x")

		entries, err := m.ListEntries(resolve(t, m, dir), false, nil)
		if err != nil {
			t.Fatalf("ListEntries() error = %v", err)
		}
		if len(entries) != 1 || entries[0].Ext != "jpg" {
			t.Fatalf("entries = %+v, want one entry with ext jpg", entries)
		}
	})

	t.Run("configured ignore patterns are honored", func(t *testing.T) {
		m := fs.NewOSFilesystemManager([]string{"*.tmp"})
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "keep.txt"), "k")
		writeFile(t, filepath.Join(dir, "junk.tmp"), "j")

		entries, err := m.ListEntries(resolve(t, m, dir), false, nil)
		if err != nil {
			t.Fatalf("ListEntries() error = %v", err)
		}
		if got := entryNames(entries); len(got) != 1 || got[0] != "keep.txt" {
			t.Errorf("entries = %v, want [keep.txt]", got)
		}
	})

	t.Run("tidyignore file in root is honored and excluded", func(t *testing.T) {
		m := fs.NewOSFilesystemManager(nil)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".tidyignore"), "*.bak\n")
		writeFile(t, filepath.Join(dir, "keep.txt"), "k")
		writeFile(t, filepath.Join(dir, "old.bak"), "o")

		entries, err := m.ListEntries(resolve(t, m, dir), false, nil)
		if err != nil {
			t.Fatalf("ListEntries() error = %v", err)
		}
		if got := entryNames(entries); len(got) != 1 || got[0] != "keep.txt" {
			t.Errorf("entries = %v, want [keep.txt]", got)
		}
	})
}

func TestMove(t *testing.T) {
	m := fs.NewOSFilesystemManager(nil)

	t.Run("moves a file", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "a.txt")
		dst := filepath.Join(dir, "sub", "a.txt")
		writeFile(t, src, "content")
		if err := m.EnsureDir(filepath.Dir(dst)); err != nil {
			t.Fatalf("EnsureDir: %v", err)
		}

		if err := m.Move(src, dst); err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if _, err := os.Stat(src); !os.IsNotExist(err) {
			t.Error("source still exists")
		}
		got, err := os.ReadFile(dst)
		if err != nil || string(got) != "content" {
			t.Errorf("destination content = %q, err %v", got, err)
		}
	})

	t.Run("fails when source is missing", func(t *testing.T) {
		dir := t.TempDir()
		if err := m.Move(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("refuses an occupied destination", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "a.txt")
		dst := filepath.Join(dir, "b.txt")
		writeFile(t, src, "source")
		writeFile(t, dst, "occupant")

		if err := m.Move(src, dst); err == nil {
			t.Fatal("Move() overwrote an existing destination")
		}
		got, err := os.ReadFile(dst)
		if err != nil || string(got) != "occupant" {
			t.Errorf("destination content = %q, err %v, want occupant intact", got, err)
		}
		if _, err := os.Stat(src); err != nil {
			t.Error("source is gone after refused move")
		}
	})
}

func TestRemoveEmptyDirs(t *testing.T) {
	m := fs.NewOSFilesystemManager(nil)

	t.Run("removes nested empties so parents cascade", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, "a", "b", "c"), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeFile(t, filepath.Join(dir, "keep", "file.txt"), "x")

		removed, err := m.RemoveEmptyDirs(resolve(t, m, dir))
		if err != nil {
			t.Fatalf("RemoveEmptyDirs() error = %v", err)
		}
		if len(removed) != 3 {
			t.Fatalf("removed %d dirs (%v), want 3", len(removed), removed)
		}
		if _, err := os.Stat(filepath.Join(dir, "a")); !os.IsNotExist(err) {
			t.Error("a should be gone")
		}
		if _, err := os.Stat(filepath.Join(dir, "keep")); err != nil {
			t.Error("keep should remain")
		}
	})

	t.Run("never removes the root", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := m.RemoveEmptyDirs(resolve(t, m, dir)); err != nil {
			t.Fatalf("RemoveEmptyDirs() error = %v", err)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Error("root was removed")
		}
	})
}

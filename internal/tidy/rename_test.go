package tidy_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tidy-go/internal/testutil"
	"tidy-go/internal/tidy"
)

func TestOrganizerService_RenameBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("renames in lexicographic order with padding", func(t *testing.T) {
		svc, root := newTestService(t)
		testutil.WriteTree(t, root, map[string]string{
			"beach.jpg":  "b",
			"aurora.png": "a",
			"cliff.gif":  "c",
		})

		result, err := svc.RenameBatch(ctx, root, "photo_###")
		if err != nil {
			t.Fatalf("RenameBatch() error = %v", err)
		}
		if result.Renamed != 3 {
			t.Errorf("Renamed = %d, want 3", result.Renamed)
		}
		for _, rel := range []string{"photo_001.png", "photo_002.jpg", "photo_003.gif"} {
			if !testutil.Exists(t, filepath.Join(root, rel)) {
				t.Errorf("%s missing after rename", rel)
			}
		}
	})

	t.Run("single hash yields unpadded numbering", func(t *testing.T) {
		svc, root := newTestService(t)
		testutil.WriteTree(t, root, map[string]string{
			"a.txt": "1",
			"b.txt": "2",
		})

		if _, err := svc.RenameBatch(ctx, root, "doc_#"); err != nil {
			t.Fatalf("RenameBatch() error = %v", err)
		}
		if !testutil.Exists(t, filepath.Join(root, "doc_1.txt")) || !testutil.Exists(t, filepath.Join(root, "doc_2.txt")) {
			t.Error("unpadded names doc_1.txt / doc_2.txt missing")
		}
	})

	t.Run("pattern without placeholder is rejected", func(t *testing.T) {
		svc, root := newTestService(t)
		if _, err := svc.RenameBatch(ctx, root, "photo"); err == nil {
			t.Error("RenameBatch() accepted a pattern with no # placeholder")
		}
	})

	t.Run("collision with untouched file aborts the whole batch", func(t *testing.T) {
		svc, root := newTestService(t)
		testutil.WriteTree(t, root, map[string]string{
			"a.txt":       "1",
			"b.txt":       "2",
			"doc_002.txt": "already here",
		})

		_, err := svc.RenameBatch(ctx, root, "doc_###")
		var collision *tidy.CollisionError
		if !errors.As(err, &collision) {
			t.Fatalf("RenameBatch() error = %v, want CollisionError", err)
		}
		// All-or-nothing: nothing may have been renamed.
		if !testutil.Exists(t, filepath.Join(root, "a.txt")) || !testutil.Exists(t, filepath.Join(root, "b.txt")) {
			t.Error("batch partially executed despite collision")
		}
	})

	t.Run("identity renames are skipped", func(t *testing.T) {
		svc, root := newTestService(t)
		testutil.WriteTree(t, root, map[string]string{
			"doc_1.txt": "already named",
		})

		result, err := svc.RenameBatch(ctx, root, "doc_#")
		if err != nil {
			t.Fatalf("RenameBatch() error = %v", err)
		}
		if result.Renamed != 0 {
			t.Errorf("Renamed = %d, want 0", result.Renamed)
		}
	})

	t.Run("batch rename is undoable", func(t *testing.T) {
		svc, root := newTestService(t)
		testutil.WriteTree(t, root, map[string]string{
			"holiday.jpg": "x",
			"winter.png":  "y",
		})

		if _, err := svc.RenameBatch(ctx, root, "img_##"); err != nil {
			t.Fatalf("RenameBatch() error = %v", err)
		}
		result, err := svc.UndoLastSession(ctx)
		if err != nil {
			t.Fatalf("UndoLastSession() error = %v", err)
		}
		if result.Kind != tidy.SessionRename {
			t.Errorf("undone kind = %s, want rename", result.Kind)
		}
		if !testutil.Exists(t, filepath.Join(root, "holiday.jpg")) || !testutil.Exists(t, filepath.Join(root, "winter.png")) {
			t.Error("original names not restored by undo")
		}
	})

	t.Run("subdirectories are left alone", func(t *testing.T) {
		svc, root := newTestService(t)
		testutil.WriteTree(t, root, map[string]string{
			"a.txt":     "1",
			"sub/b.txt": "2",
		})

		if _, err := svc.RenameBatch(ctx, root, "f_#"); err != nil {
			t.Fatalf("RenameBatch() error = %v", err)
		}
		if !testutil.Exists(t, filepath.Join(root, "sub", "b.txt")) {
			t.Error("file inside subdirectory was renamed")
		}
	})
}

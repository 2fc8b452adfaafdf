package tidy

import (
	"io"
	"time"
)

// FileEntry is an immutable snapshot of a regular file taken at scan time.
// It is stale if the filesystem changes concurrently; the engine does not
// guard against that.
type FileEntry struct {
	Path    string // absolute path
	Name    string // base name
	Ext     string // lower-cased extension without the leading dot
	Size    int64
	ModTime time.Time
}

// FilesystemManager provides an interface for filesystem operations.
// It abstracts file access so the engine can be exercised against a
// temporary directory tree with no UI present.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// It resolves the path to an absolute path, stats it, and validates
	// it's a regular file or directory (not a symlink, device, etc.).
	Resolve(rawPath string) (*Path, error)

	// ListEntries snapshots the regular files under root. When recurse is
	// false only direct children are returned. Directories named in
	// excludeDirs (direct children of root) are skipped entirely, along
	// with their subtrees when recursing. Ignored files are excluded.
	ListEntries(root *Path, recurse bool, excludeDirs []string) ([]FileEntry, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Exists reports whether a path exists.
	Exists(path string) (bool, error)

	// EnsureDir creates a directory (and parents) if absent.
	EnsureDir(path string) error

	// Move relocates a file, preferring a same-volume rename and falling
	// back to copy+delete across volumes. It never overwrites: moving onto
	// an occupied destination fails and leaves both files intact.
	Move(source, destination string) error

	// RemoveEmptyDirs removes empty directories under root bottom-up, so
	// that removing a child can empty its parent next. The root itself is
	// never removed. Returns the removed paths.
	RemoveEmptyDirs(root *Path) ([]string, error)
}

package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tidy-go/internal/tidy"
)

// tidyignoreName is an optional per-root ignore file, merged with the
// configured patterns. It is itself always excluded from scans.
const tidyignoreName = ".tidyignore"

// OSFilesystemManager is the real filesystem implementation of
// FilesystemManager. It performs actual filesystem operations using the os
// package.
type OSFilesystemManager struct {
	ignore []string // configured patterns, merged with per-root .tidyignore
}

// NewOSFilesystemManager creates a new filesystem manager that operates on
// the real filesystem. ignorePatterns come from configuration; files
// matching them are excluded from scans.
func NewOSFilesystemManager(ignorePatterns []string) *OSFilesystemManager {
	return &OSFilesystemManager{ignore: ignorePatterns}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*tidy.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	// Check for special file types we don't support
	mode := info.Mode()
	if mode&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlinks not supported: %s", absPath)
	}
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", absPath)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", absPath)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", absPath)
	}

	return tidy.NewPath(absPath, info.IsDir(), info), nil
}

// ListEntries snapshots the regular files under root. Directories named in
// excludeDirs (direct children of root) are skipped entirely, along with
// their subtrees when recursing.
func (m *OSFilesystemManager) ListEntries(root *tidy.Path, recurse bool, excludeDirs []string) ([]tidy.FileEntry, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root.String())
	}

	matcher, err := m.matcherFor(root.String())
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]bool, len(excludeDirs))
	for _, name := range excludeDirs {
		excluded[name] = true
	}

	var entries []tidy.FileEntry

	if recurse {
		err := filepath.WalkDir(root.String(), func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// Skip excluded category folders directly under root.
				if filepath.Dir(p) == root.String() && excluded[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root.String(), p)
			if err != nil {
				return err
			}
			if d.Name() == tidyignoreName || matcher.Match(rel) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", p, err)
			}
			entries = append(entries, newEntry(p, info))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory: %w", err)
		}
		return entries, nil
	}

	dirEntries, err := os.ReadDir(root.String())
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	for _, entry := range dirEntries {
		if !entry.Type().IsRegular() {
			continue
		}
		if entry.Name() == tidyignoreName || matcher.Match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		entries = append(entries, newEntry(filepath.Join(root.String(), entry.Name()), info))
	}
	return entries, nil
}

// matcherFor merges configured ignore patterns with the root's .tidyignore
// file, if present.
func (m *OSFilesystemManager) matcherFor(root string) (*IgnoreMatcher, error) {
	patterns := append([]string{}, m.ignore...)
	filePatterns, err := ParseIgnoreFile(filepath.Join(root, tidyignoreName))
	if err != nil {
		return nil, err
	}
	return NewIgnoreMatcher(append(patterns, filePatterns...)), nil
}

func newEntry(path string, info fs.FileInfo) tidy.FileEntry {
	name := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return tidy.FileEntry{
		Path:    path,
		Name:    name,
		Ext:     strings.ToLower(ext),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Exists reports whether a path exists.
func (m *OSFilesystemManager) Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureDir creates a directory (and parents) if absent.
func (m *OSFilesystemManager) EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Move relocates a file. A same-volume rename is attempted first; across
// volumes it falls back to copy+delete. An occupied destination is always
// an error: os.Rename would silently replace it, so existence is checked
// up front, and the copy fallback opens with O_EXCL to close the race.
func (m *OSFilesystemManager) Move(source, destination string) error {
	if _, err := os.Lstat(destination); err == nil {
		return fmt.Errorf("destination exists: %s", destination)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking destination: %w", err)
	}

	if err := os.Rename(source, destination); err == nil {
		return nil
	}

	if err := copyExclusive(source, destination); err != nil {
		return err
	}
	if err := os.Remove(source); err != nil {
		return fmt.Errorf("removing source after copy: %w", err)
	}
	return nil
}

// copyExclusive streams source to a newly created destination, preserving
// the source's mode. The destination is removed on failure.
func copyExclusive(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(destination)
		return fmt.Errorf("copying content: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(destination)
		return fmt.Errorf("closing destination: %w", err)
	}
	return nil
}

// RemoveEmptyDirs removes empty directories under root bottom-up. A
// directory is removed when, after its removable children are gone, it
// contains nothing. The root itself is never removed.
func (m *OSFilesystemManager) RemoveEmptyDirs(root *tidy.Path) ([]string, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root.String())
	}
	var removed []string
	if _, err := sweepDir(root.String(), true, &removed); err != nil {
		return removed, err
	}
	return removed, nil
}

// sweepDir recurses post-order. Returns whether dir was left empty (and,
// unless it is the root, removed).
func sweepDir(dir string, isRoot bool, removed *[]string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", dir, err)
	}

	remaining := len(entries)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		emptied, err := sweepDir(child, false, removed)
		if err != nil {
			return false, err
		}
		if emptied {
			remaining--
		}
	}

	if isRoot || remaining > 0 {
		return false, nil
	}
	if err := os.Remove(dir); err != nil {
		return false, fmt.Errorf("removing %s: %w", dir, err)
	}
	*removed = append(*removed, dir)
	return true, nil
}

// Compile-time check that OSFilesystemManager implements the interface.
var _ tidy.FilesystemManager = (*OSFilesystemManager)(nil)

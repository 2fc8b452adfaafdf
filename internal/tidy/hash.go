package tidy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
)

// hashChunkSize is the read buffer used when digesting file content.
const hashChunkSize = 32 * 1024

// HashIndex computes and caches content hashes for duplicate detection.
// The cache is scan-scoped: build a fresh index per operation.
type HashIndex struct {
	fsmgr FilesystemManager
	cache map[string]string // path -> hex digest
}

// NewHashIndex creates an empty index backed by the given filesystem.
func NewHashIndex(fsmgr FilesystemManager) *HashIndex {
	return &HashIndex{
		fsmgr: fsmgr,
		cache: make(map[string]string),
	}
}

// HashOf returns the SHA-256 digest of the file's content, reading in
// fixed-size chunks. Results are cached by path for the life of the index.
// A file that becomes unreadable mid-scan yields an error; the caller must
// treat the file as skipped, not abort the whole pass.
func (h *HashIndex) HashOf(path string) (string, error) {
	if digest, ok := h.cache[path]; ok {
		return digest, nil
	}

	f, err := h.fsmgr.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	digest := hex.EncodeToString(hasher.Sum(nil))
	h.cache[path] = digest
	return digest, nil
}

// DuplicateGroup is a set of >=2 paths sharing identical (size, hash).
type DuplicateGroup struct {
	Size  int64
	Hash  string
	Paths []string // sorted lexicographically
}

// SkippedFile records a file left out of a pass, with the reason.
type SkippedFile struct {
	Path   string
	Reason string
}

// GroupDuplicates partitions entries by size first, then hashes only the
// buckets with more than one member. Singleton size buckets are skipped
// without hashing, so a tree of mostly unique sizes costs almost nothing.
// Unreadable files are reported as skipped.
func (h *HashIndex) GroupDuplicates(entries []FileEntry) ([]DuplicateGroup, []SkippedFile) {
	bySize := make(map[int64][]FileEntry)
	for _, e := range entries {
		bySize[e.Size] = append(bySize[e.Size], e)
	}

	var groups []DuplicateGroup
	var skipped []SkippedFile

	for size, bucket := range bySize {
		if len(bucket) < 2 {
			continue
		}

		byHash := make(map[string][]string)
		for _, e := range bucket {
			digest, err := h.HashOf(e.Path)
			if err != nil {
				skipped = append(skipped, SkippedFile{Path: e.Path, Reason: err.Error()})
				continue
			}
			byHash[digest] = append(byHash[digest], e.Path)
		}

		for digest, paths := range byHash {
			if len(paths) < 2 {
				continue
			}
			sort.Strings(paths)
			groups = append(groups, DuplicateGroup{Size: size, Hash: digest, Paths: paths})
		}
	}

	// Deterministic output order: largest groups of bytes first, then path.
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Size != groups[j].Size {
			return groups[i].Size > groups[j].Size
		}
		return groups[i].Paths[0] < groups[j].Paths[0]
	})

	return groups, skipped
}

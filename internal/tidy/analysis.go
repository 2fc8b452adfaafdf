package tidy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tidy-go/internal/classify"
)

// FindLargeFiles returns every file under root whose size is at least
// threshold bytes, sorted descending by size (ties broken by path). The
// scan is recursive and read-only.
func (s *OrganizerService) FindLargeFiles(ctx context.Context, rawRoot string, threshold int64) ([]FileEntry, error) {
	if err := s.checkNotMutating(); err != nil {
		return nil, err
	}
	root, err := s.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}

	entries, err := s.fsmgr.ListEntries(root, true, nil)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	var large []FileEntry
	for _, e := range entries {
		if e.Size >= threshold {
			large = append(large, e)
		}
	}
	sort.Slice(large, func(i, j int) bool {
		if large[i].Size != large[j].Size {
			return large[i].Size > large[j].Size
		}
		return large[i].Path < large[j].Path
	})
	return large, nil
}

// SweepResult lists the empty directories removed by a sweep.
type SweepResult struct {
	Removed []string
}

// SweepEmptyDirs removes directories containing no files under root,
// bottom-up, so that removing a child empties its parent next. The root
// itself is never removed. Sweeps are not journaled: an empty directory
// carries no data to lose.
func (s *OrganizerService) SweepEmptyDirs(ctx context.Context, rawRoot string) (*SweepResult, error) {
	root, err := s.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireMutating()
	if err != nil {
		return nil, err
	}
	defer release()

	removed, err := s.fsmgr.RemoveEmptyDirs(root)
	if err != nil {
		return nil, fmt.Errorf("sweeping %s: %w", root, err)
	}
	s.logger.Info("empty-folder sweep finished", "root", root.String(), "removed", len(removed))
	return &SweepResult{Removed: removed}, nil
}

// Search returns files under root whose name contains query,
// case-insensitively. When category is non-empty only files classified into
// that category are returned. Recursive, read-only.
func (s *OrganizerService) Search(ctx context.Context, rawRoot, query string, category classify.Category) ([]FileEntry, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if err := s.checkNotMutating(); err != nil {
		return nil, err
	}
	root, err := s.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}

	entries, err := s.fsmgr.ListEntries(root, true, nil)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	needle := strings.ToLower(query)
	var matches []FileEntry
	for _, e := range entries {
		if !strings.Contains(strings.ToLower(e.Name), needle) {
			continue
		}
		if category != "" && s.table.Classify(e.Ext) != category {
			continue
		}
		matches = append(matches, e)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Path < matches[j].Path })
	return matches, nil
}

// FolderStats is a read-only summary of a folder.
type FolderStats struct {
	TotalFiles int
	TotalSize  int64
	// Breakdown counts the root's direct (unorganized) entries per
	// category; files already inside category subfolders are not
	// re-counted.
	Breakdown map[classify.Category]int
}

// Stats gathers folder statistics: recursive file count and size, plus a
// per-category breakdown of the direct entries still awaiting organization.
func (s *OrganizerService) Stats(ctx context.Context, rawRoot string) (*FolderStats, error) {
	if err := s.checkNotMutating(); err != nil {
		return nil, err
	}
	root, err := s.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}

	all, err := s.fsmgr.ListEntries(root, true, nil)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	direct, err := s.fsmgr.ListEntries(root, false, classify.FolderNames())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	stats := &FolderStats{Breakdown: make(map[classify.Category]int)}
	for _, e := range all {
		stats.TotalFiles++
		stats.TotalSize += e.Size
	}
	for _, e := range direct {
		stats.Breakdown[s.table.Classify(e.Ext)]++
	}
	return stats, nil
}

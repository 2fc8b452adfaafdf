package tidy

import (
	"context"
	"fmt"
	"path/filepath"
)

// DuplicateReport is the outcome of a duplicate scan. Groups hold >=2 paths
// with identical size and content hash; unreadable files are listed as
// skipped rather than aborting the scan.
type DuplicateReport struct {
	Groups  []DuplicateGroup
	Skipped []SkippedFile
}

// FindDuplicates scans the whole tree under root (category subfolders
// included) and groups files that share identical (size, hash). The scan is
// read-only.
func (s *OrganizerService) FindDuplicates(ctx context.Context, rawRoot string) (*DuplicateReport, error) {
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

	index := NewHashIndex(s.fsmgr)
	groups, skipped := index.GroupDuplicates(entries)
	s.logger.Info("duplicate scan finished",
		"root", root.String(), "files", len(entries), "groups", len(groups))
	return &DuplicateReport{Groups: groups, Skipped: skipped}, nil
}

// DedupeResult summarizes a duplicate deletion pass.
type DedupeResult struct {
	SessionID string
	Deleted   int
	TrashDir  string // where the deleted copies were parked
	Skipped   []SkippedFile
}

// DeleteDuplicates removes all but the first (lexicographically) copy of
// every duplicate group by moving the extras into the trash directory.
// The moves are journaled as terminal records: they are excluded from undo
// and the operation is irreversible from the engine's point of view, though
// the parked copies can be recovered by hand. Callers must obtain explicit
// confirmation before invoking this.
func (s *OrganizerService) DeleteDuplicates(ctx context.Context, rawRoot string) (*DedupeResult, error) {
	root, err := s.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireMutating()
	if err != nil {
		return nil, err
	}
	defer release()

	entries, err := s.fsmgr.ListEntries(root, true, nil)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	index := NewHashIndex(s.fsmgr)
	groups, skipped := index.GroupDuplicates(entries)

	sessionID := s.idgen.New()
	trashDir := filepath.Join(s.trashDir, sessionID)
	result := &DedupeResult{SessionID: sessionID, TrashDir: trashDir, Skipped: skipped}
	if len(groups) == 0 {
		return result, nil
	}

	if err := s.fsmgr.EnsureDir(trashDir); err != nil {
		return nil, fmt.Errorf("creating trash directory: %w", err)
	}
	if err := s.journal.BeginSession(sessionID, SessionDedupe, root.String(), s.clock.Now()); err != nil {
		return nil, fmt.Errorf("opening journal session: %w", err)
	}

	seq := 0
	for _, group := range groups {
		// Keep the first copy of each group; park the rest.
		for _, path := range group.Paths[1:] {
			if ctx.Err() != nil {
				break
			}
			seq++
			dest := filepath.Join(trashDir, fmt.Sprintf("%d_%s", seq, filepath.Base(path)))
			if err := s.fsmgr.Move(path, dest); err != nil {
				result.Skipped = append(result.Skipped, SkippedFile{Path: path, Reason: err.Error()})
				continue
			}
			if err := s.journal.RecordMove(sessionID, seq, path, dest, true, s.clock.Now()); err != nil {
				return result, fmt.Errorf("recording deletion of %s: %w", path, err)
			}
			result.Deleted++
			s.logger.Info("duplicate parked", "path", path, "trash", dest)
		}
	}

	if err := s.journal.FinishSession(sessionID, result.Deleted, len(result.Skipped), s.clock.Now()); err != nil {
		s.logger.Error("closing journal session", "session", sessionID, "error", err)
	}
	return result, nil
}

package tidy

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tidy-go/internal/classify"
)

// CollisionPolicy is the rule for naming a file when its destination name
// is already occupied. Overwriting is never allowed under any policy.
type CollisionPolicy string

const (
	// CollisionSuffix appends _1, _2, ... before the extension until the
	// destination path is free. This is the default.
	CollisionSuffix CollisionPolicy = "suffix"
	// CollisionSkip leaves the file in place and records it as skipped.
	CollisionSkip CollisionPolicy = "skip"
)

// Valid reports whether p is a known policy.
func (p CollisionPolicy) Valid() bool {
	return p == CollisionSuffix || p == CollisionSkip
}

// OrganizeOptions control a single organize pass.
type OrganizeOptions struct {
	Recurse   bool
	DryRun    bool
	Collision CollisionPolicy // defaults to CollisionSuffix when empty
}

// OrganizeResult summarizes one organize pass. Per-file failures never
// abort a pass; they appear in Skipped with a reason.
type OrganizeResult struct {
	SessionID string // empty for dry runs
	Moved     int
	Skipped   []SkippedFile
	Elapsed   time.Duration
	DryRun    bool
}

// Organize walks root, classifies each file by extension, and moves it into
// the corresponding category subfolder, journaling every move under one
// session. Files already inside category subfolders are excluded from the
// scan, so a second pass over an organized root moves nothing.
//
// Cancellation via ctx takes effect between entries; a move is treated as
// atomic once started, and files moved before cancellation stay where they
// are and remain journaled (and undoable).
func (s *OrganizerService) Organize(ctx context.Context, rawRoot string, opts OrganizeOptions) (*OrganizeResult, error) {
	root, err := s.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}
	if opts.Collision == "" {
		opts.Collision = CollisionSuffix
	}
	if !opts.Collision.Valid() {
		return nil, fmt.Errorf("unknown collision policy %q", opts.Collision)
	}

	release, err := s.acquireMutating()
	if err != nil {
		return nil, err
	}
	defer release()

	start := s.clock.Now()
	entries, err := s.fsmgr.ListEntries(root, opts.Recurse, classify.FolderNames())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	s.emit(Event{Type: EventScanStarted, Root: root.String(), Total: len(entries)})
	s.logger.Info("organize started",
		"root", root.String(), "entries", len(entries), "dry_run", opts.DryRun)

	result := &OrganizeResult{DryRun: opts.DryRun}
	if !opts.DryRun {
		result.SessionID = s.idgen.New()
		if err := s.journal.BeginSession(result.SessionID, SessionOrganize, root.String(), start); err != nil {
			return nil, fmt.Errorf("opening journal session: %w", err)
		}
	}

	seq := 0
	for i, entry := range entries {
		if ctx.Err() != nil {
			s.logger.Warn("organize cancelled", "processed", i, "total", len(entries))
			break
		}

		category := s.table.Classify(entry.Ext)
		destDir := filepath.Join(root.String(), category.FolderName())

		dest, err := s.resolveDestination(destDir, entry.Name, opts.Collision)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFile{Path: entry.Path, Reason: err.Error()})
			s.emit(Event{Type: EventFileSkipped, Root: root.String(), Name: entry.Name, Reason: err.Error(), Index: i + 1, Total: len(entries)})
			continue
		}

		if !opts.DryRun {
			if err := s.moveAndRecord(result.SessionID, &seq, entry.Path, destDir, dest); err != nil {
				// Journal write failures are fatal: a move without a
				// record would not be reversible.
				if jerr, ok := err.(*journalWriteError); ok {
					s.finish(result, start, root.String(), len(entries))
					return result, jerr.err
				}
				result.Skipped = append(result.Skipped, SkippedFile{Path: entry.Path, Reason: err.Error()})
				s.emit(Event{Type: EventFileSkipped, Root: root.String(), Name: entry.Name, Reason: err.Error(), Index: i + 1, Total: len(entries)})
				continue
			}
		}

		result.Moved++
		s.emit(Event{
			Type:     EventFileProcessed,
			Root:     root.String(),
			Name:     entry.Name,
			Category: category,
			Index:    i + 1,
			Total:    len(entries),
		})
	}

	s.finish(result, start, root.String(), len(entries))
	return result, nil
}

// finish closes the journal session, stamps elapsed time, and emits the
// completion event.
func (s *OrganizerService) finish(result *OrganizeResult, start time.Time, root string, total int) {
	result.Elapsed = s.clock.Now().Sub(start)
	if result.SessionID != "" {
		if err := s.journal.FinishSession(result.SessionID, result.Moved, len(result.Skipped), s.clock.Now()); err != nil {
			s.logger.Error("closing journal session", "session", result.SessionID, "error", err)
		}
	}
	s.logger.Info("organize finished",
		"root", root, "moved", result.Moved, "skipped", len(result.Skipped), "elapsed", result.Elapsed)
	s.emit(Event{Type: EventScanCompleted, Root: root, Total: total, Summary: result})
}

// journalWriteError wraps a journal failure so the pass can distinguish it
// from a per-file move failure.
type journalWriteError struct{ err error }

func (e *journalWriteError) Error() string { return e.err.Error() }

// moveAndRecord creates the destination folder on demand, performs the move
// and appends the move record. The record is written only after the move
// succeeds, so every journal row reflects a move that actually happened.
func (s *OrganizerService) moveAndRecord(sessionID string, seq *int, source, destDir, dest string) error {
	if err := s.fsmgr.EnsureDir(destDir); err != nil {
		return fmt.Errorf("creating %s: %w", destDir, err)
	}
	if err := s.fsmgr.Move(source, dest); err != nil {
		return err
	}
	*seq++
	if err := s.journal.RecordMove(sessionID, *seq, source, dest, false, s.clock.Now()); err != nil {
		return &journalWriteError{err: fmt.Errorf("recording move of %s: %w", source, err)}
	}
	s.logger.Debug("file moved", "source", source, "destination", dest)
	return nil
}

// resolveDestination picks a free destination path for name under destDir.
// Under the suffix policy, _1, _2, ... are appended before the extension
// until a free name is found; a file is never overwritten. Under the skip
// policy an occupied destination is an error, which the caller records as a
// skip.
func (s *OrganizerService) resolveDestination(destDir, name string, policy CollisionPolicy) (string, error) {
	dest := filepath.Join(destDir, name)
	occupied, err := s.fsmgr.Exists(dest)
	if err != nil {
		return "", fmt.Errorf("checking destination: %w", err)
	}
	if !occupied {
		return dest, nil
	}

	if policy == CollisionSkip {
		return "", fmt.Errorf("destination exists: %s", dest)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate := filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		occupied, err := s.fsmgr.Exists(candidate)
		if err != nil {
			return "", fmt.Errorf("checking destination: %w", err)
		}
		if !occupied {
			return candidate, nil
		}
	}
}

package tidy

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// RenameResult summarizes an executed batch rename.
type RenameResult struct {
	SessionID string
	Renamed   int
	Plan      []RenameStep
}

// RenameStep is one planned (and, after execution, performed) rename.
type RenameStep struct {
	Source      string
	Destination string
}

// RenameBatch renames the direct files of root to pattern with a sequential
// index. The placeholder run in the pattern sets zero-padding: "photo_###"
// yields photo_001, photo_002, ... while "photo_#" yields photo_1. The
// original extension of each file is preserved.
//
// The whole plan is validated first: if any resulting name would collide
// with an existing untouched file, with another file of the batch, or with
// another planned name, the batch fails with CollisionError before a single
// rename is performed. Executed renames are journaled as one session and
// are undoable.
func (s *OrganizerService) RenameBatch(ctx context.Context, rawRoot, pattern string) (*RenameResult, error) {
	if !strings.Contains(pattern, "#") {
		return nil, fmt.Errorf("pattern %q has no # placeholder", pattern)
	}
	root, err := s.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireMutating()
	if err != nil {
		return nil, err
	}
	defer release()

	entries, err := s.fsmgr.ListEntries(root, false, nil)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	// Names are assigned in lexicographic order so numbering is stable.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	// Plan every rename before touching anything.
	planned := make(map[string]string, len(entries)) // destination -> source
	var plan []RenameStep
	for i, e := range entries {
		ext := filepath.Ext(e.Name)
		dest := filepath.Join(root.String(), expandPattern(pattern, i+1)+ext)
		if dest == e.Path {
			continue // already named correctly
		}
		if prev, taken := planned[dest]; taken {
			return nil, &CollisionError{Target: dest, Source: prev}
		}
		occupied, err := s.fsmgr.Exists(dest)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", dest, err)
		}
		// A destination that exists is a collision even when it belongs to
		// the batch itself: executing sequentially could clobber it.
		if occupied {
			return nil, &CollisionError{Target: dest, Source: e.Path}
		}
		planned[dest] = e.Path
		plan = append(plan, RenameStep{Source: e.Path, Destination: dest})
	}

	result := &RenameResult{Plan: plan}
	if len(plan) == 0 {
		return result, nil
	}

	result.SessionID = s.idgen.New()
	if err := s.journal.BeginSession(result.SessionID, SessionRename, root.String(), s.clock.Now()); err != nil {
		return nil, fmt.Errorf("opening journal session: %w", err)
	}

	for seq, step := range plan {
		if ctx.Err() != nil {
			break
		}
		if err := s.fsmgr.Move(step.Source, step.Destination); err != nil {
			// The plan was validated, so a failure here is environmental
			// (permissions, file vanished). Stop; what was renamed stays
			// renamed and remains undoable.
			s.logger.Error("rename failed mid-batch", "source", step.Source, "error", err)
			if ferr := s.journal.FinishSession(result.SessionID, result.Renamed, len(plan)-result.Renamed, s.clock.Now()); ferr != nil {
				s.logger.Error("closing journal session", "session", result.SessionID, "error", ferr)
			}
			return result, fmt.Errorf("renaming %s: %w", step.Source, err)
		}
		if err := s.journal.RecordMove(result.SessionID, seq+1, step.Source, step.Destination, false, s.clock.Now()); err != nil {
			return result, fmt.Errorf("recording rename of %s: %w", step.Source, err)
		}
		result.Renamed++
	}

	if err := s.journal.FinishSession(result.SessionID, result.Renamed, 0, s.clock.Now()); err != nil {
		s.logger.Error("closing journal session", "session", result.SessionID, "error", err)
	}
	s.logger.Info("batch rename finished", "root", root.String(), "renamed", result.Renamed)
	return result, nil
}

// expandPattern substitutes the numeric placeholder for index i. Runs are
// replaced longest first, so "###" pads to three digits before "##" or "#"
// are considered.
func expandPattern(pattern string, i int) string {
	out := strings.ReplaceAll(pattern, "###", fmt.Sprintf("%03d", i))
	out = strings.ReplaceAll(out, "##", fmt.Sprintf("%02d", i))
	return strings.ReplaceAll(out, "#", fmt.Sprintf("%d", i))
}

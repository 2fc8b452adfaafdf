package tidy

import (
	"context"
	"fmt"
	"path/filepath"
)

// UndoFailure records one reverse-move that could not be completed.
type UndoFailure struct {
	Source      string // original location the file should return to
	Destination string // where the organize pass had put it
	Reason      string
}

// UndoResult itemizes the outcome of undoing the last session. Undo is
// best-effort, not atomic: failures do not roll back records already
// undone.
type UndoResult struct {
	SessionID string
	Kind      SessionKind
	Restored  int
	Failed    []UndoFailure
}

// UndoLastSession reverses the single most recent organize or rename
// session by replaying its moves in strict reverse order. If any
// reverse-move fails the undo continues with the remaining records and the
// result enumerates the failures. The session is marked consumed
// regardless, so it can never be undone twice; there is no multi-level
// undo stack.
func (s *OrganizerService) UndoLastSession(ctx context.Context) (*UndoResult, error) {
	release, err := s.acquireMutating()
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := s.journal.LatestUndoCandidate()
	if err != nil {
		return nil, fmt.Errorf("finding last session: %w", err)
	}
	if session == nil || session.Undone {
		return nil, ErrNothingToUndo
	}

	moves, err := s.journal.MovesForSession(session.ID)
	if err != nil {
		return nil, fmt.Errorf("loading session moves: %w", err)
	}

	result := &UndoResult{SessionID: session.ID, Kind: session.Kind}
	s.logger.Info("undo started", "session", session.ID, "moves", len(moves))

	for i := len(moves) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			break
		}
		rec := moves[i]
		if rec.Terminal {
			continue
		}
		if err := s.fsmgr.EnsureDir(filepath.Dir(rec.Source)); err != nil {
			result.Failed = append(result.Failed, UndoFailure{Source: rec.Source, Destination: rec.Destination, Reason: err.Error()})
			continue
		}
		if err := s.fsmgr.Move(rec.Destination, rec.Source); err != nil {
			result.Failed = append(result.Failed, UndoFailure{Source: rec.Source, Destination: rec.Destination, Reason: err.Error()})
			s.logger.Warn("reverse move failed", "destination", rec.Destination, "error", err)
			continue
		}
		result.Restored++
	}

	if err := s.journal.MarkSessionUndone(session.ID); err != nil {
		return result, fmt.Errorf("marking session undone: %w", err)
	}

	s.logger.Info("undo finished",
		"session", session.ID, "restored", result.Restored, "failed", len(result.Failed))
	return result, nil
}

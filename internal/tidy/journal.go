package tidy

import "time"

// SessionKind identifies what kind of pass produced a session's moves.
type SessionKind string

const (
	SessionOrganize SessionKind = "organize"
	SessionRename   SessionKind = "rename"
	SessionDedupe   SessionKind = "dedupe"
)

// Undoable reports whether sessions of this kind may be reversed.
// Dedupe sessions contain only terminal moves and are never undoable.
func (k SessionKind) Undoable() bool {
	return k == SessionOrganize || k == SessionRename
}

// Session groups all moves produced by one invocation under a shared ID.
// It is the unit of undo eligibility.
type Session struct {
	ID         string
	Kind       SessionKind
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time // zero until the pass completes
	Moved      int
	Skipped    int
	Undone     bool
}

// MoveRecord records a single file relocation so it can be reversed.
// Terminal records (duplicate soft-deletes) are excluded from undo.
type MoveRecord struct {
	ID          int64
	SessionID   string
	Seq         int
	Source      string
	Destination string
	Terminal    bool
	CreatedAt   time.Time
}

// Journal persists sessions and their move records. Records are appended in
// execution order; undo replays them in strict reverse order because later
// moves may depend on folders created by earlier ones.
type Journal interface {
	// BeginSession opens a new session record.
	BeginSession(id string, kind SessionKind, root string, startedAt time.Time) error

	// RecordMove appends one move to a session. seq must increase in
	// execution order within the session.
	RecordMove(sessionID string, seq int, source, destination string, terminal bool, at time.Time) error

	// FinishSession closes a session with its final counts.
	FinishSession(id string, moved, skipped int, finishedAt time.Time) error

	// LatestUndoCandidate returns the most recent session of an undoable
	// kind, whether or not it has been consumed. Returns nil if no such
	// session exists. Only this session is ever eligible for undo: there
	// is no multi-level undo stack.
	LatestUndoCandidate() (*Session, error)

	// MovesForSession returns a session's moves ordered by seq ascending.
	MovesForSession(sessionID string) ([]MoveRecord, error)

	// MarkSessionUndone marks a session consumed. A consumed session can
	// never be undone again, even after a partial undo.
	MarkSessionUndone(id string) error

	// ListSessions returns the most recent sessions, newest first.
	ListSessions(limit int) ([]Session, error)

	// Close closes the journal store.
	Close() error
}

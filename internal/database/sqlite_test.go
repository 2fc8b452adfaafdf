package database_test

import (
	"testing"
	"time"

	"tidy-go/internal/database"
	"tidy-go/internal/database/migrations"
	"tidy-go/internal/tidy"
)

func newJournal(t *testing.T) *database.SQLiteJournal {
	t.Helper()
	j, err := database.NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("opening journal: %v", err)
	}
	if err := migrations.MigrateUp(j.DB()); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func beginSession(t *testing.T, j *database.SQLiteJournal, id string, kind tidy.SessionKind, at time.Time) {
	t.Helper()
	if err := j.BeginSession(id, kind, "/root", at); err != nil {
		t.Fatalf("BeginSession(%s): %v", id, err)
	}
}

func TestJournalRoundTrip(t *testing.T) {
	j := newJournal(t)
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	beginSession(t, j, "s1", tidy.SessionOrganize, start)
	if err := j.RecordMove("s1", 1, "/root/a.txt", "/root/Documents/a.txt", false, start); err != nil {
		t.Fatalf("RecordMove: %v", err)
	}
	if err := j.RecordMove("s1", 2, "/root/b.jpg", "/root/Images/b.jpg", false, start); err != nil {
		t.Fatalf("RecordMove: %v", err)
	}
	if err := j.FinishSession("s1", 2, 0, start.Add(time.Second)); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}

	moves, err := j.MovesForSession("s1")
	if err != nil {
		t.Fatalf("MovesForSession: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("got %d moves, want 2", len(moves))
	}
	if moves[0].Seq != 1 || moves[1].Seq != 2 {
		t.Errorf("moves out of order: %+v", moves)
	}
	if moves[0].Source != "/root/a.txt" || moves[0].Destination != "/root/Documents/a.txt" {
		t.Errorf("unexpected first move: %+v", moves[0])
	}

	sessions, err := j.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if s.Moved != 2 || s.Skipped != 0 || s.Undone {
		t.Errorf("unexpected session: %+v", s)
	}
	if s.FinishedAt.IsZero() {
		t.Error("FinishedAt not set")
	}
}

func TestLatestUndoCandidate(t *testing.T) {
	t.Run("empty journal has no candidate", func(t *testing.T) {
		j := newJournal(t)
		got, err := j.LatestUndoCandidate()
		if err != nil {
			t.Fatalf("LatestUndoCandidate: %v", err)
		}
		if got != nil {
			t.Errorf("got %+v, want nil", got)
		}
	})

	t.Run("returns most recent undoable kind", func(t *testing.T) {
		j := newJournal(t)
		base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		beginSession(t, j, "s1", tidy.SessionOrganize, base)
		beginSession(t, j, "s2", tidy.SessionRename, base.Add(time.Minute))
		beginSession(t, j, "s3", tidy.SessionDedupe, base.Add(2*time.Minute))

		got, err := j.LatestUndoCandidate()
		if err != nil {
			t.Fatalf("LatestUndoCandidate: %v", err)
		}
		if got == nil || got.ID != "s2" {
			t.Fatalf("got %+v, want session s2", got)
		}
	})

	t.Run("consumed candidate stays the candidate", func(t *testing.T) {
		j := newJournal(t)
		base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		beginSession(t, j, "s1", tidy.SessionOrganize, base)
		beginSession(t, j, "s2", tidy.SessionOrganize, base.Add(time.Minute))

		if err := j.MarkSessionUndone("s2"); err != nil {
			t.Fatalf("MarkSessionUndone: %v", err)
		}

		// s1 must not become eligible: undo history is bounded at one.
		got, err := j.LatestUndoCandidate()
		if err != nil {
			t.Fatalf("LatestUndoCandidate: %v", err)
		}
		if got == nil || got.ID != "s2" || !got.Undone {
			t.Fatalf("got %+v, want consumed session s2", got)
		}
	})
}

func TestFinishSessionUnknownID(t *testing.T) {
	j := newJournal(t)
	if err := j.FinishSession("missing", 0, 0, time.Now()); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tidy-go/internal/tidy"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements the tidy.Journal interface using SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

// NewSQLiteJournal creates a new SQLite journal connection.
// path can be a file path or ":memory:" for an in-memory journal.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// NewSQLiteJournalFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteJournalFromDB(db *sql.DB) *SQLiteJournal {
	return &SQLiteJournal{db: db}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. This is exported for use in tools and tests that need a properly
// configured SQLite connection. path can be a file path or ":memory:".
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// DB exposes the underlying connection for migrations.
func (j *SQLiteJournal) DB() *sql.DB { return j.db }

func (j *SQLiteJournal) BeginSession(id string, kind tidy.SessionKind, root string, startedAt time.Time) error {
	_, err := j.db.Exec(
		`INSERT INTO sessions (id, kind, root, started_at) VALUES (?, ?, ?, ?)`,
		id, string(kind), root, startedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (j *SQLiteJournal) RecordMove(sessionID string, seq int, source, destination string, terminal bool, at time.Time) error {
	_, err := j.db.Exec(
		`INSERT INTO moves (session_id, seq, source, destination, terminal, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, seq, source, destination, terminal, at,
	)
	if err != nil {
		return fmt.Errorf("inserting move: %w", err)
	}
	return nil
}

func (j *SQLiteJournal) FinishSession(id string, moved, skipped int, finishedAt time.Time) error {
	res, err := j.db.Exec(
		`UPDATE sessions SET finished_at = ?, moved = ?, skipped = ? WHERE id = ?`,
		finishedAt, moved, skipped, id,
	)
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no session with id %s", id)
	}
	return nil
}

func (j *SQLiteJournal) LatestUndoCandidate() (*tidy.Session, error) {
	row := j.db.QueryRow(
		`SELECT id, kind, root, started_at, finished_at, moved, skipped, undone
		 FROM sessions
		 WHERE kind IN (?, ?)
		 ORDER BY started_at DESC, rowid DESC
		 LIMIT 1`,
		string(tidy.SessionOrganize), string(tidy.SessionRename),
	)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding latest session: %w", err)
	}
	return session, nil
}

func (j *SQLiteJournal) MovesForSession(sessionID string) ([]tidy.MoveRecord, error) {
	rows, err := j.db.Query(
		`SELECT id, session_id, seq, source, destination, terminal, created_at
		 FROM moves WHERE session_id = ? ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying moves: %w", err)
	}
	defer rows.Close()

	var records []tidy.MoveRecord
	for rows.Next() {
		var rec tidy.MoveRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Seq, &rec.Source, &rec.Destination, &rec.Terminal, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning move: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading moves: %w", err)
	}
	return records, nil
}

func (j *SQLiteJournal) MarkSessionUndone(id string) error {
	res, err := j.db.Exec(`UPDATE sessions SET undone = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking session undone: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking session undone: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no session with id %s", id)
	}
	return nil
}

func (j *SQLiteJournal) ListSessions(limit int) ([]tidy.Session, error) {
	rows, err := j.db.Query(
		`SELECT id, kind, root, started_at, finished_at, moved, skipped, undone
		 FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []tidy.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading sessions: %w", err)
	}
	return sessions, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*tidy.Session, error) {
	var s tidy.Session
	var kind string
	var finished sql.NullTime
	if err := row.Scan(&s.ID, &kind, &s.Root, &s.StartedAt, &finished, &s.Moved, &s.Skipped, &s.Undone); err != nil {
		return nil, err
	}
	s.Kind = tidy.SessionKind(kind)
	if finished.Valid {
		s.FinishedAt = finished.Time
	}
	return &s, nil
}

// Compile-time check that SQLiteJournal implements tidy.Journal.
var _ tidy.Journal = (*SQLiteJournal)(nil)

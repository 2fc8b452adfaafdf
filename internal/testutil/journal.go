package testutil

import (
	"testing"

	"tidy-go/internal/config"
	"tidy-go/internal/database"
	"tidy-go/internal/tidy"
)

// NewTestJournal opens an in-memory journal with migrations applied.
// It is closed automatically when the test finishes.
func NewTestJournal(t *testing.T) tidy.Journal {
	t.Helper()

	j, err := database.NewJournalFromConfig(config.DatabaseConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("opening test journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

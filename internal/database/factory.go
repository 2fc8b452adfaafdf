package database

import (
	"fmt"
	"os"
	"path/filepath"

	"tidy-go/internal/config"
	"tidy-go/internal/database/migrations"
	"tidy-go/internal/tidy"
)

// NewJournalFromConfig creates a Journal implementation based on the
// database config type. The schema is migrated to the latest version on
// open; a single-user desktop journal has no reason to refuse an upgrade.
func NewJournalFromConfig(cfg config.DatabaseConfig) (tidy.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return openMigrated(filepath.Join(cfg.DataDir, "journal.db"))
	case "memory":
		return openMigrated(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func openMigrated(path string) (*SQLiteJournal, error) {
	j, err := NewSQLiteJournal(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(j.DB()); err != nil {
		j.Close()
		return nil, fmt.Errorf("migrating journal schema: %w", err)
	}
	return j, nil
}

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"tidy-go/internal/classify"
	"tidy-go/internal/config"
	"tidy-go/internal/database"
	"tidy-go/internal/fs"
	"tidy-go/internal/tidy"
	"tidy-go/internal/watch"
)

// App is the application layer between the CLI and the OrganizerService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and manages journal/lock lifecycle on Close.
type App struct {
	cfg     *config.Config
	journal tidy.Journal
	fsmgr   *fs.OSFilesystemManager
	service *tidy.OrganizerService
	logger  tidy.Logger
	lock    *flock.Flock
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "Organize", "Undo") and tags
// every log line. Mutating commands take an exclusive cross-process file
// lock so two tidy processes can never interleave filesystem moves;
// read-only commands take it shared, so scans cannot begin over a tree a
// concurrent process is mid-way through moving. A held lock surfaces as
// ErrBusy. The caller must call Close when done.
func NewApp(cfg *config.Config, operation string, mutating bool, observer tidy.Observer) (*App, error) {
	table, err := classify.NewTable(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("building classification table: %w", err)
	}

	fsmgr := fs.NewOSFilesystemManager(cfg.Ignore)

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	if err := os.MkdirAll(cfg.BaseDir, 0755); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating base directory: %w", err)
	}
	lock := flock.New(filepath.Join(cfg.BaseDir, "tidy.lock"))
	var locked bool
	if mutating {
		locked, err = lock.TryLock()
	} else {
		locked, err = lock.TryRLock()
	}
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	if !locked {
		logFile.Close()
		return nil, tidy.ErrBusy
	}

	journal, err := database.NewJournalFromConfig(cfg.Database)
	if err != nil {
		if lock != nil {
			lock.Unlock()
		}
		logFile.Close()
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	adapted := &slogAdapter{l: logger}
	svc := tidy.NewOrganizerService(journal, fsmgr, table, observer, adapted, tidy.RealClock{}, tidy.UUIDGenerator{}, cfg.TrashDir())

	return &App{
		cfg:     cfg,
		journal: journal,
		fsmgr:   fsmgr,
		service: svc,
		logger:  adapted,
		lock:    lock,
		logFile: logFile,
	}, nil
}

// Organize runs one organize pass over rawPath.
func (a *App) Organize(ctx context.Context, rawPath string, opts tidy.OrganizeOptions) (*tidy.OrganizeResult, error) {
	return a.service.Organize(ctx, rawPath, opts)
}

// Undo reverses the most recent organize or rename session.
func (a *App) Undo(ctx context.Context) (*tidy.UndoResult, error) {
	return a.service.UndoLastSession(ctx)
}

// FindDuplicates scans rawPath for files with identical content.
func (a *App) FindDuplicates(ctx context.Context, rawPath string) (*tidy.DuplicateReport, error) {
	return a.service.FindDuplicates(ctx, rawPath)
}

// DeleteDuplicates parks redundant copies in the trash directory.
// Irreversible through undo; callers must confirm first.
func (a *App) DeleteDuplicates(ctx context.Context, rawPath string) (*tidy.DedupeResult, error) {
	return a.service.DeleteDuplicates(ctx, rawPath)
}

// FindLargeFiles lists files of at least threshold bytes, largest first.
// A threshold of 0 falls back to the configured default.
func (a *App) FindLargeFiles(ctx context.Context, rawPath string, threshold int64) ([]tidy.FileEntry, error) {
	if threshold <= 0 {
		threshold = a.cfg.LargeFileThresholdBytes()
	}
	return a.service.FindLargeFiles(ctx, rawPath, threshold)
}

// RenameBatch renames the direct files of rawPath to a numbered pattern.
func (a *App) RenameBatch(ctx context.Context, rawPath, pattern string) (*tidy.RenameResult, error) {
	return a.service.RenameBatch(ctx, rawPath, pattern)
}

// SweepEmptyDirs removes empty directories under rawPath bottom-up.
func (a *App) SweepEmptyDirs(ctx context.Context, rawPath string) (*tidy.SweepResult, error) {
	return a.service.SweepEmptyDirs(ctx, rawPath)
}

// Search finds files by name substring, optionally filtered by category.
func (a *App) Search(ctx context.Context, rawPath, query string, category classify.Category) ([]tidy.FileEntry, error) {
	return a.service.Search(ctx, rawPath, query, category)
}

// Stats summarizes the folder at rawPath.
func (a *App) Stats(ctx context.Context, rawPath string) (*tidy.FolderStats, error) {
	return a.service.Stats(ctx, rawPath)
}

// History returns the most recent sessions, newest first.
func (a *App) History(limit int) ([]tidy.Session, error) {
	return a.journal.ListSessions(limit)
}

// Watch monitors rawPath and triggers an organize pass after each quiet
// period, until ctx is cancelled.
func (a *App) Watch(ctx context.Context, rawPath string, opts tidy.OrganizeOptions) error {
	root, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return fmt.Errorf("resolving watch directory: %w", err)
	}
	debounce := time.Duration(a.cfg.Watch.DebounceSeconds) * time.Second
	if debounce <= 0 {
		debounce = 2 * time.Second
	}

	w := watch.New(root.String(), debounce, func(ctx context.Context) error {
		_, err := a.service.Organize(ctx, root.String(), opts)
		return err
	}, a.logger)
	return w.Run(ctx)
}

// Close releases the lock and closes all resources.
func (a *App) Close() error {
	var firstErr error

	if err := a.journal.Close(); err != nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}
	if a.lock != nil {
		if err := a.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("releasing lock: %w", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

package tidy

import (
	"fmt"
	"sync"

	"tidy-go/internal/classify"
)

// OrganizerService is the orchestration layer that coordinates scans,
// classification, moves, journaling and progress reporting for the CLI and
// the filesystem watcher. One mutating pass (organize, undo, batch rename,
// duplicate deletion) may be in flight at a time; a second concurrent
// request is rejected with ErrBusy rather than interleaving moves.
type OrganizerService struct {
	journal  Journal
	fsmgr    FilesystemManager
	table    *classify.Table
	observer Observer
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	trashDir string

	mu sync.Mutex // held for the duration of a mutating pass
}

// NewOrganizerService creates a new OrganizerService with the provided
// dependencies. trashDir is where duplicate soft-deletes are parked; it is
// created on demand.
func NewOrganizerService(journal Journal, fsmgr FilesystemManager, table *classify.Table, observer Observer, logger Logger, clock Clock, idgen IDGenerator, trashDir string) *OrganizerService {
	if observer == nil {
		observer = NopObserver{}
	}
	return &OrganizerService{
		journal:  journal,
		fsmgr:    fsmgr,
		table:    table,
		observer: observer,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		trashDir: trashDir,
	}
}

// acquireMutating claims the single mutating-pass slot, or fails with
// ErrBusy. The caller must invoke the returned release func.
func (s *OrganizerService) acquireMutating() (func(), error) {
	if !s.mu.TryLock() {
		return nil, ErrBusy
	}
	return s.mu.Unlock, nil
}

// checkNotMutating fails a read-only pass with ErrBusy when a mutating
// pass is in flight, so a scan never begins over a half-moved tree. The
// slot is released immediately: read-only passes do not exclude each other.
func (s *OrganizerService) checkNotMutating() error {
	if !s.mu.TryLock() {
		return ErrBusy
	}
	s.mu.Unlock()
	return nil
}

// resolveRoot validates that rawPath exists and is a readable directory,
// failing with ErrInvalidRoot otherwise.
func (s *OrganizerService) resolveRoot(rawPath string) (*Path, error) {
	p, err := s.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, invalidRoot(rawPath, err)
	}
	if !p.IsDir() {
		return nil, invalidRoot(rawPath, fmt.Errorf("not a directory"))
	}
	return p, nil
}

func (s *OrganizerService) emit(e Event) {
	s.observer.OnEvent(e)
}

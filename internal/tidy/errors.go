package tidy

import (
	"errors"
	"fmt"
)

// ErrInvalidRoot marks a root path that does not exist or is not a readable
// directory. The requested operation is aborted before any mutation.
var ErrInvalidRoot = errors.New("invalid root path")

// ErrBusy is returned when a mutating pass (organize, undo, batch rename,
// duplicate deletion) is requested while another one is in flight.
var ErrBusy = errors.New("another mutating operation is in progress")

// ErrNothingToUndo is returned when no eligible session remains: either no
// session has been recorded, or the most recent one was already undone.
var ErrNothingToUndo = errors.New("nothing to undo")

// CollisionError reports a batch-rename plan whose resulting name set would
// collide. It is raised before any rename is performed, so the batch is
// all-or-nothing at the planning stage.
type CollisionError struct {
	Target string // destination name that collides
	Source string // batch file that wanted the name, if any
}

func (e *CollisionError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("rename collision: %s would overwrite %s", e.Source, e.Target)
	}
	return fmt.Sprintf("rename collision on %s", e.Target)
}

// invalidRoot wraps a cause with ErrInvalidRoot for errors.Is matching.
func invalidRoot(path string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrInvalidRoot, path)
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidRoot, path, cause)
}

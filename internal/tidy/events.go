package tidy

import "tidy-go/internal/classify"

// EventType identifies a progress event emitted during an organize pass.
type EventType int

const (
	EventScanStarted EventType = iota
	EventFileProcessed
	EventFileSkipped
	EventScanCompleted
)

// Event is a discrete progress notification. Events are delivered to the
// registered Observer between entries; a move is never interrupted to
// deliver one.
type Event struct {
	Type     EventType
	Root     string
	Name     string            // current file name (processed/skipped)
	Category classify.Category // category assigned (processed only)
	Reason   string            // skip reason (skipped only)
	Index    int               // 1-based index of the current entry
	Total    int               // total entries in this pass
	Summary  *OrganizeResult   // set on EventScanCompleted
}

// Observer receives progress events from the engine. Implementations must
// not block: the engine calls OnEvent synchronously between entries.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// NopObserver discards all events. Use in tests or headless callers.
type NopObserver struct{}

func (NopObserver) OnEvent(Event) {}

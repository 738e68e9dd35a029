package watcher

import "time"

// EventType says what happened to the watched file.
type EventType int

const (
	// EventChanged is emitted once the file was created or written and has
	// stopped changing for the settle delay.
	EventChanged EventType = iota
	// EventRemoved is emitted when the file is deleted or renamed away.
	EventRemoved
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventChanged:
		return "changed"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event describes a settled change to the watched file.
type Event struct {
	Type    EventType
	Path    string
	Size    int64
	ModTime time.Time
}

package session

// EventType represents a session event type.
type EventType int

const (
	EventStateChanged EventType = iota // Driver state transition
	EventProgress                     // Stats updated after a refill
	EventFinished                     // Session reached Stopped
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStateChanged:
		return "state_changed"
	case EventProgress:
		return "progress"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event represents a session event.
type Event struct {
	Type  EventType
	State State
	Stats Stats
	Err   error // non-nil only on EventFinished after a failure
}

// Stats tracks refill accounting for one session.
type Stats struct {
	Refills     int64
	PacketsRead int64
	BytesRead   int64
}

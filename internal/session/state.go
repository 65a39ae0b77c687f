// Package session drives one playback run: it owns the buffer pool,
// refills buffers from a packet source and keeps the sink queue fed until
// the source is exhausted.
package session

// State represents the driver state.
type State int

const (
	StateInitializing State = iota // Opening source, sizing and priming buffers
	StateRunning                   // Sink is playing, refills in flight
	StateDraining                  // Source exhausted, queued audio playing out
	StateStopped                   // Terminal
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

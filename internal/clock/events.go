package clock

// BreakKind distinguishes short from long breaks.
type BreakKind string

const (
	BreakShort BreakKind = "short"
	BreakLong  BreakKind = "long"
)

// Status is the externally visible state of the clock.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusWorkRunning  Status = "work_running"
	StatusWorkPaused   Status = "work_paused"
	StatusBreakRunning Status = "break_running"
	StatusBreakPaused  Status = "break_paused"
)

// EventType defines the type of clock notification.
type EventType string

const (
	EventWorkComplete  EventType = "work_complete"
	EventBreakComplete EventType = "break_complete"
)

// Event is emitted by Tick when a phase reaches zero.
type Event struct {
	Type EventType `json:"type"`
	// BreakKind is the kind of the break that just ended, or for
	// EventWorkComplete, the kind of the break that follows.
	BreakKind BreakKind `json:"break_kind"`
	// Elapsed is the number of seconds ticked in the finished phase.
	Elapsed       int `json:"elapsed_seconds"`
	CycleProgress int `json:"cycle_progress"`
}

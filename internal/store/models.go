package store

import "time"

// SessionKind is the phase a history record covers.
type SessionKind string

const (
	KindWork       SessionKind = "work"
	KindShortBreak SessionKind = "short_break"
	KindLongBreak  SessionKind = "long_break"
)

type SessionRecord struct {
	ID          int64
	Kind        SessionKind
	Preset      string
	Duration    int64 // seconds
	StartedAt   time.Time
	CompletedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// SessionFilter is used to filter session records in queries.
type SessionFilter struct {
	Kind  SessionKind
	From  *time.Time
	To    *time.Time
	Limit int
}

// DailySummary represents aggregated pomodoro time per day.
type DailySummary struct {
	Date         string
	FocusSeconds int64
	BreakSeconds int64
	Sessions     int
	Breaks       int
}

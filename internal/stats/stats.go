// Package stats persists the current day's pomodoro totals as a single JSON
// record. A record from an earlier day is never returned; it is replaced by
// zeroed defaults for today.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/pomodoro/internal/clock"
)

const dateLayout = "2006-01-02"

// ErrInvalidStats is returned by Merge for values a record cannot hold.
var ErrInvalidStats = errors.New("invalid stats")

// DailyStats is the persisted record for one calendar day.
type DailyStats struct {
	Date         string `json:"date"`
	Count        int    `json:"count"`
	ShortBreaks  int    `json:"short_breaks"`
	LongBreaks   int    `json:"long_breaks"`
	FocusSeconds int    `json:"focus_seconds"`
	BreakSeconds int    `json:"break_seconds"`
}

// Defaults returns a zeroed record for date.
func Defaults(date string) DailyStats {
	return DailyStats{Date: date}
}

func (d DailyStats) valid() bool {
	return d.Count >= 0 && d.ShortBreaks >= 0 && d.LongBreaks >= 0 &&
		d.FocusSeconds >= 0 && d.BreakSeconds >= 0
}

// Partial carries the fields of an external write. Nil fields are left alone.
// The date is not writable: the record always belongs to today.
type Partial struct {
	Count        *int `json:"count,omitempty"`
	ShortBreaks  *int `json:"short_breaks,omitempty"`
	LongBreaks   *int `json:"long_breaks,omitempty"`
	FocusSeconds *int `json:"focus_seconds,omitempty"`
	BreakSeconds *int `json:"break_seconds,omitempty"`
}

func (p Partial) applyTo(d *DailyStats) {
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.Count, p.Count)
	set(&d.ShortBreaks, p.ShortBreaks)
	set(&d.LongBreaks, p.LongBreaks)
	set(&d.FocusSeconds, p.FocusSeconds)
	set(&d.BreakSeconds, p.BreakSeconds)
}

// PersistenceError reports a failed write of the stats file. The in-memory
// record is unchanged when it is returned.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist stats %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store holds today's record in memory and writes it to a single file.
type Store struct {
	path    string
	now     func() time.Time
	current DailyStats
	loaded  bool
}

// New returns a store backed by path. Nothing is read until first use.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// SetNowFunc overrides the clock used to decide what "today" is.
// Passing nil resets it to time.Now.
func (s *Store) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Path returns the file the store persists to.
func (s *Store) Path() string { return s.path }

func (s *Store) today() string {
	return s.now().Format(dateLayout)
}

// Read returns the persisted record. The second value is false when the file
// is missing, unreadable, corrupt, or holds a different day.
func (s *Store) Read() (DailyStats, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return DailyStats{}, false
	}
	var d DailyStats
	if err := json.Unmarshal(data, &d); err != nil {
		return DailyStats{}, false
	}
	if d.Date != s.today() || !d.valid() {
		return DailyStats{}, false
	}
	return d, true
}

// Load returns today's record, reading the file on first use. When the
// calendar day has changed since the record was loaded, it is replaced by
// zeroed defaults.
func (s *Store) Load() DailyStats {
	today := s.today()
	if !s.loaded {
		d, ok := s.Read()
		if !ok {
			d = Defaults(today)
		}
		s.current = d
		s.loaded = true
	}
	if s.current.Date != today {
		s.current = Defaults(today)
	}
	return s.current
}

// RecordWorkCompletion counts a finished work session.
func (s *Store) RecordWorkCompletion(elapsedSeconds int) DailyStats {
	s.Load()
	s.current.Count++
	s.current.FocusSeconds += max(0, elapsedSeconds)
	return s.current
}

// RecordBreakCompletion counts a finished break of the given kind.
func (s *Store) RecordBreakCompletion(kind clock.BreakKind, elapsedSeconds int) DailyStats {
	s.Load()
	if kind == clock.BreakLong {
		s.current.LongBreaks++
	} else {
		s.current.ShortBreaks++
	}
	s.current.BreakSeconds += max(0, elapsedSeconds)
	return s.current
}

// Merge overwrites the provided fields and persists the result. On failure
// the in-memory record is left as it was.
func (s *Store) Merge(p Partial) (DailyStats, error) {
	next := s.Load()
	p.applyTo(&next)
	if !next.valid() {
		return s.current, fmt.Errorf("%w: values must not be negative", ErrInvalidStats)
	}
	if err := s.write(next); err != nil {
		return s.current, err
	}
	s.current = next
	return s.current, nil
}

// Check verifies that the stats file can be written, creating its directory
// if needed. A file created only for the check is removed again.
func (s *Store) Check() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &PersistenceError{Path: s.path, Err: fmt.Errorf("create stats directory: %w", err)}
	}
	_, statErr := os.Stat(s.path)
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	_ = f.Close()
	if errors.Is(statErr, os.ErrNotExist) {
		_ = os.Remove(s.path)
	}
	return nil
}

// Save overwrites the file with the full in-memory record.
func (s *Store) Save() error {
	return s.write(s.Load())
}

func (s *Store) write(d DailyStats) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &PersistenceError{Path: s.path, Err: fmt.Errorf("create stats directory: %w", err)}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return &PersistenceError{Path: s.path, Err: fmt.Errorf("marshal stats: %w", err)}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	return nil
}

// Package engine wires the session clock to the daily stats file and the
// session history. Both front-ends (the TUI and the line-protocol bridge)
// drive the timer through an Engine so completion events are handled once.
package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/pomodoro/internal/clock"
	"github.com/sadopc/pomodoro/internal/preset"
	"github.com/sadopc/pomodoro/internal/stats"
	"github.com/sadopc/pomodoro/internal/store"
)

// Settings keys holding the active timer configuration.
const (
	KeyPreset    = "pomodoro_preset"
	KeyWork      = "pomodoro_work"
	KeyBreak     = "pomodoro_break"
	KeyLongBreak = "pomodoro_long_break"
	KeyCount     = "pomodoro_count"
)

// History is the persistent side of the engine. *store.Store implements it.
type History interface {
	RecordSession(rec store.SessionRecord) (*store.SessionRecord, error)
	ListSessions(f store.SessionFilter) ([]store.SessionRecord, error)
	GetSetting(key string) (string, error)
	SetSettings(values map[string]string) error
}

// Engine owns one clock and one stats store. Like the clock it is not safe
// for concurrent use.
type Engine struct {
	clock   *clock.Clock
	stats   *stats.Store
	history History
	logger  zerolog.Logger
	now     func() time.Time
}

// New creates an engine. history may be nil, in which case completed phases
// are only counted in the stats file and configuration is not persisted.
func New(c *clock.Clock, s *stats.Store, history History, logger zerolog.Logger) *Engine {
	return &Engine{
		clock:   c,
		stats:   s,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// SetNowFunc overrides the time stamped on history records.
func (e *Engine) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	e.now = now
}

func (e *Engine) Start() clock.Snapshot {
	e.clock.Start()
	e.logger.Debug().Str("status", string(e.clock.Status())).Msg("timer started")
	return e.clock.Snapshot()
}

func (e *Engine) Pause() clock.Snapshot {
	e.clock.Pause()
	return e.clock.Snapshot()
}

func (e *Engine) Reset() clock.Snapshot {
	e.clock.Reset()
	return e.clock.Snapshot()
}

// SetPreset applies a named preset. Unknown names leave the clock untouched.
func (e *Engine) SetPreset(name string) clock.Snapshot {
	if e.clock.SetPreset(name) {
		e.logger.Info().Str("preset", name).Msg("preset applied")
		e.persistConfig()
	}
	return e.clock.Snapshot()
}

// Configure validates caller-entered minute values and applies them as the
// custom preset. The clock is unchanged when validation fails.
func (e *Engine) Configure(work, brk, longBreak, interval string) (clock.Snapshot, error) {
	p, err := preset.Custom(work, brk, longBreak, interval)
	if err != nil {
		return e.clock.Snapshot(), err
	}
	e.clock.Configure(p)
	e.logger.Info().
		Int("work", p.Work).
		Int("break", p.Break).
		Int("long_break", p.LongBreak).
		Int("interval", p.Interval).
		Msg("custom durations applied")
	e.persistConfig()
	return e.clock.Snapshot(), nil
}

func (e *Engine) SkipBreak() clock.Snapshot {
	if e.clock.SkipBreak() {
		e.logger.Debug().Msg("break skipped")
	}
	return e.clock.Snapshot()
}

// Tick advances the clock one second and handles a completion event if the
// phase ended.
func (e *Engine) Tick() (clock.Event, bool) {
	ev, ok := e.clock.Tick()
	if ok {
		e.handle(ev)
	}
	return ev, ok
}

// Advance ticks up to n times and returns every completion event in order.
// It stops early once the clock is no longer running, e.g. after a break
// ends and the clock waits for a manual start.
func (e *Engine) Advance(n int) []clock.Event {
	var events []clock.Event
	for range n {
		if !e.clock.Running() {
			break
		}
		if ev, ok := e.Tick(); ok {
			events = append(events, ev)
		}
	}
	return events
}

func (e *Engine) Snapshot() clock.Snapshot {
	return e.clock.Snapshot()
}

// Stats returns today's record.
func (e *Engine) Stats() stats.DailyStats {
	return e.stats.Load()
}

// WriteStats merges an external write into today's record and persists it.
func (e *Engine) WriteStats(p stats.Partial) (stats.DailyStats, error) {
	d, err := e.stats.Merge(p)
	if err != nil {
		e.logger.Warn().Err(err).Msg("write stats failed")
		return d, err
	}
	return d, nil
}

// Sessions lists the most recent history records, newest first.
func (e *Engine) Sessions(limit int) ([]store.SessionRecord, error) {
	if e.history == nil {
		return nil, nil
	}
	records, err := e.history.ListSessions(store.SessionFilter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return records, nil
}

// Restore applies the configuration saved by an earlier run. A missing or
// malformed value leaves the defaults in place.
func (e *Engine) Restore() error {
	if e.history == nil {
		return nil
	}
	name, err := e.history.GetSetting(KeyPreset)
	if err != nil {
		return fmt.Errorf("restore preset: %w", err)
	}
	if name != preset.CustomName {
		e.clock.SetPreset(name)
		return nil
	}

	var vals [4]int
	for i, key := range []string{KeyWork, KeyBreak, KeyLongBreak, KeyCount} {
		raw, err := e.history.GetSetting(key)
		if err != nil {
			return fmt.Errorf("restore %s: %w", key, err)
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("restore %s: invalid value %q", key, raw)
		}
		vals[i] = n
	}
	// custom durations are stored in seconds; the clock works in whole minutes
	e.clock.Configure(preset.Preset{
		Name:      preset.CustomName,
		Work:      vals[0] / 60,
		Break:     vals[1] / 60,
		LongBreak: vals[2] / 60,
		Interval:  vals[3],
	})
	return nil
}

func (e *Engine) persistConfig() {
	if e.history == nil {
		return
	}
	err := e.history.SetSettings(map[string]string{
		KeyPreset:    e.clock.PresetName(),
		KeyWork:      strconv.Itoa(e.clock.WorkSeconds()),
		KeyBreak:     strconv.Itoa(e.clock.BreakSeconds()),
		KeyLongBreak: strconv.Itoa(e.clock.LongBreakSeconds()),
		KeyCount:     strconv.Itoa(e.clock.LongBreakInterval()),
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("failed to persist timer settings")
	}
}

func (e *Engine) handle(ev clock.Event) {
	var kind store.SessionKind
	switch ev.Type {
	case clock.EventWorkComplete:
		e.stats.RecordWorkCompletion(ev.Elapsed)
		kind = store.KindWork
	case clock.EventBreakComplete:
		e.stats.RecordBreakCompletion(ev.BreakKind, ev.Elapsed)
		kind = store.KindShortBreak
		if ev.BreakKind == clock.BreakLong {
			kind = store.KindLongBreak
		}
	}

	e.logger.Info().
		Str("event", string(ev.Type)).
		Str("break_kind", string(ev.BreakKind)).
		Int("elapsed", ev.Elapsed).
		Int("cycle_progress", ev.CycleProgress).
		Msg("phase complete")

	if err := e.stats.Save(); err != nil {
		e.logger.Warn().Err(err).Msg("failed to save daily stats")
	}

	if e.history == nil {
		return
	}
	_, err := e.history.RecordSession(store.SessionRecord{
		Kind:        kind,
		Preset:      e.clock.PresetName(),
		Duration:    int64(ev.Elapsed),
		CompletedAt: e.now(),
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("kind", string(kind)).Msg("failed to record session")
	}
}

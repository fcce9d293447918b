// Package bridge exposes the engine over a line-delimited JSON protocol:
// one request object per input line, one response object per output line.
package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/sadopc/pomodoro/internal/clock"
	"github.com/sadopc/pomodoro/internal/engine"
	"github.com/sadopc/pomodoro/internal/export"
	"github.com/sadopc/pomodoro/internal/stats"
)

// Action names understood by Handle.
const (
	ActionStartTimer   = "start_timer"
	ActionPauseTimer   = "pause_timer"
	ActionResetTimer   = "reset_timer"
	ActionSetPreset    = "set_preset"
	ActionGetState     = "get_state"
	ActionReadStats    = "read_stats"
	ActionWriteStats   = "write_stats"
	ActionTick         = "tick"
	ActionSkipBreak    = "skip_break"
	ActionConfigure    = "configure"
	ActionListSessions = "list_sessions"
)

const (
	errInvalidPayload = "Invalid JSON payload"
	defaultListLimit  = 20

	// maxTickSeconds bounds a single tick request to one day.
	maxTickSeconds = 24 * 60 * 60
)

// Response is written back for every request.
type Response struct {
	OK       bool              `json:"ok"`
	State    *clock.Snapshot   `json:"state,omitempty"`
	Stats    *stats.DailyStats `json:"stats,omitempty"`
	Sessions []export.Record   `json:"sessions,omitzero"`
	Events   []clock.Event     `json:"events,omitzero"`
	Error    string            `json:"error,omitempty"`
}

type request map[string]json.RawMessage

// Bridge routes decoded requests to an engine.
type Bridge struct {
	engine *engine.Engine
	logger zerolog.Logger
	opts   Options
}

func New(e *engine.Engine, logger zerolog.Logger, opts Options) *Bridge {
	return &Bridge{engine: e, logger: logger, opts: opts}
}

// Handle processes a single request line. Malformed input never changes
// engine state.
func (b *Bridge) Handle(line []byte) Response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil || req == nil {
		b.logger.Debug().Err(err).Msg("malformed request")
		return failure(errInvalidPayload)
	}

	action := req.str("action")
	b.logger.Debug().Str("action", action).Msg("request")

	switch action {
	case ActionStartTimer:
		return withState(b.engine.Start())
	case ActionPauseTimer:
		return withState(b.engine.Pause())
	case ActionResetTimer:
		return withState(b.engine.Reset())
	case ActionSetPreset:
		return withState(b.engine.SetPreset(req.str("preset")))
	case ActionGetState:
		return withState(b.engine.Snapshot())
	case ActionReadStats:
		return withStats(b.engine.Stats())
	case ActionWriteStats:
		return b.writeStats(req)
	case ActionTick:
		return b.tick(req)
	case ActionSkipBreak:
		return withState(b.engine.SkipBreak())
	case ActionConfigure:
		snap, err := b.engine.Configure(req.text("work"), req.text("break"), req.text("long_break"), req.text("interval"))
		if err != nil {
			return failure(err.Error())
		}
		return withState(snap)
	case ActionListSessions:
		return b.listSessions(req)
	default:
		return failure("Unknown action: " + action)
	}
}

func (b *Bridge) writeStats(req request) Response {
	raw, ok := req["stats"]
	if !ok || !isObject(raw) {
		return withStats(b.engine.Stats())
	}

	p, err := decodePartial(raw)
	if err != nil {
		return failure(err.Error())
	}
	d, err := b.engine.WriteStats(p)
	if err != nil {
		var perr *stats.PersistenceError
		if errors.As(err, &perr) {
			b.logger.Error().Err(err).Str("path", perr.Path).Msg("stats not persisted")
		}
		return failure(err.Error())
	}
	return withStats(d)
}

// decodePartial reads the known stats fields of a write_stats object.
// Integral floats such as 5.0 are accepted; strings, fractions and other
// non-numbers are rejected per field. Unknown keys and nulls are ignored.
func decodePartial(raw json.RawMessage) (stats.Partial, error) {
	var p stats.Partial
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return p, fmt.Errorf("%w: stats must be an object", stats.ErrInvalidStats)
	}

	targets := []struct {
		key string
		dst **int
	}{
		{"count", &p.Count},
		{"short_breaks", &p.ShortBreaks},
		{"long_breaks", &p.LongBreaks},
		{"focus_seconds", &p.FocusSeconds},
		{"break_seconds", &p.BreakSeconds},
	}
	for _, t := range targets {
		v, ok := fields[t.key]
		if !ok || string(bytes.TrimSpace(v)) == "null" {
			continue
		}
		n, err := wholeNumber(v)
		if err != nil {
			return stats.Partial{}, fmt.Errorf("%w: %s must be a whole number", stats.ErrInvalidStats, t.key)
		}
		*t.dst = &n
	}
	return p, nil
}

func wholeNumber(raw json.RawMessage) (int, error) {
	// json.Number would also take a quoted number
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '"' {
		return 0, errors.New("quoted number")
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, err
	}
	if n, err := strconv.Atoi(num.String()); err == nil {
		return n, nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errors.New("not a whole number")
	}
	return int(f), nil
}

func (b *Bridge) tick(req request) Response {
	n := 1
	if raw := req.text("seconds"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return failure("seconds must be a non-negative whole number")
		}
		if v > maxTickSeconds {
			return failure(fmt.Sprintf("seconds must not exceed %d", maxTickSeconds))
		}
		n = v
	}
	events := b.engine.Advance(n)
	resp := withState(b.engine.Snapshot())
	resp.Events = events
	return resp
}

func (b *Bridge) listSessions(req request) Response {
	limit := defaultListLimit
	if raw := req.text("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return failure("limit must be a positive whole number")
		}
		limit = v
	}
	records, err := b.engine.Sessions(limit)
	if err != nil {
		return failure(err.Error())
	}
	return Response{OK: true, Sessions: export.Records(records)}
}

// str returns a string field, or "" when it is missing or not a string.
func (r request) str(key string) string {
	var s string
	if raw, ok := r[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// text returns a string field as-is or the literal text of a number.
func (r request) text(key string) string {
	raw, ok := r[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func withState(s clock.Snapshot) Response {
	return Response{OK: true, State: &s}
}

func withStats(d stats.DailyStats) Response {
	return Response{OK: true, Stats: &d}
}

func failure(msg string) Response {
	return Response{OK: false, Error: msg}
}

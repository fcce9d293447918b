// Package clock implements the pomodoro session countdown. The clock has no
// timing primitive of its own: callers invoke Tick once per elapsed second.
package clock

import "github.com/sadopc/pomodoro/internal/preset"

// Clock holds countdown state for alternating work and break phases.
// A Clock is not safe for concurrent use; it belongs to a single owner.
type Clock struct {
	workSeconds       int
	breakSeconds      int
	longBreakSeconds  int
	longBreakInterval int

	remaining     int
	running       bool
	isBreak       bool
	breakKind     BreakKind
	cycleProgress int

	// seconds ticked in the current phase
	phaseElapsed int
	// true until the current work phase is started
	idle bool

	presetName string
}

// Snapshot is a point-in-time copy of the clock, shaped for JSON responses.
type Snapshot struct {
	WorkSeconds       int       `json:"work_seconds"`
	BreakSeconds      int       `json:"break_seconds"`
	LongBreakSeconds  int       `json:"long_break_seconds"`
	LongBreakInterval int       `json:"long_break_interval"`
	RemainingSeconds  int       `json:"remaining_seconds"`
	Running           bool      `json:"running"`
	IsBreak           bool      `json:"is_break"`
	BreakKind         BreakKind `json:"break_kind"`
	CycleProgress     int       `json:"cycle_progress"`
	Status            Status    `json:"status"`
	Preset            string    `json:"preset"`
	Presets           []string  `json:"presets"`
}

// New returns an idle clock configured with the default preset.
func New() *Clock {
	c := &Clock{breakKind: BreakShort, idle: true}
	c.apply(preset.Default)
	return c
}

// Start resumes the current phase. A phase left at zero is reloaded with its
// full duration first.
func (c *Clock) Start() {
	if c.remaining == 0 {
		c.remaining = c.phaseDuration()
		c.phaseElapsed = 0
	}
	c.running = true
	c.idle = false
}

// Pause stops the countdown without touching the remaining time.
func (c *Clock) Pause() {
	c.running = false
}

// Reset returns the clock to an idle work phase. Cycle progress is kept.
func (c *Clock) Reset() {
	c.running = false
	c.isBreak = false
	c.breakKind = BreakShort
	c.remaining = c.workSeconds
	c.phaseElapsed = 0
	c.idle = true
}

// Tick advances a running clock by one second. When the phase reaches zero
// it transitions exactly once and returns the completion event.
func (c *Clock) Tick() (Event, bool) {
	if !c.running {
		return Event{}, false
	}
	if c.remaining > 0 {
		c.remaining--
		c.phaseElapsed++
	}
	if c.remaining > 0 {
		return Event{}, false
	}
	return c.completePhase(), true
}

// SetPreset applies the named preset and reloads the remaining time with the
// new work duration. Unknown names, including preset.CustomName, are ignored.
// It reports whether a preset was applied.
func (c *Clock) SetPreset(name string) bool {
	p, ok := preset.Lookup(name)
	if !ok {
		return false
	}
	c.apply(p)
	return true
}

// Configure applies caller-validated durations the same way SetPreset does.
func (c *Clock) Configure(p preset.Preset) {
	if p.Name == "" {
		p.Name = preset.CustomName
	}
	c.apply(p)
}

// SkipBreak ends the current break without a completion event.
// It reports whether a break was skipped.
func (c *Clock) SkipBreak() bool {
	if !c.isBreak {
		return false
	}
	c.finishBreak()
	return true
}

// Status derives the state machine position from the clock fields.
func (c *Clock) Status() Status {
	switch {
	case c.running && c.isBreak:
		return StatusBreakRunning
	case c.running:
		return StatusWorkRunning
	case c.isBreak:
		return StatusBreakPaused
	case c.idle:
		return StatusIdle
	default:
		return StatusWorkPaused
	}
}

func (c *Clock) Running() bool { return c.running }
func (c *Clock) WorkSeconds() int { return c.workSeconds }
func (c *Clock) BreakSeconds() int { return c.breakSeconds }
func (c *Clock) LongBreakSeconds() int { return c.longBreakSeconds }
func (c *Clock) LongBreakInterval() int { return c.longBreakInterval }
func (c *Clock) PresetName() string { return c.presetName }

// Snapshot copies the clock state.
func (c *Clock) Snapshot() Snapshot {
	return Snapshot{
		WorkSeconds:       c.workSeconds,
		BreakSeconds:      c.breakSeconds,
		LongBreakSeconds:  c.longBreakSeconds,
		LongBreakInterval: c.longBreakInterval,
		RemainingSeconds:  c.remaining,
		Running:           c.running,
		IsBreak:           c.isBreak,
		BreakKind:         c.breakKind,
		CycleProgress:     c.cycleProgress,
		Status:            c.Status(),
		Preset:            c.presetName,
		Presets:           preset.Names(),
	}
}

func (c *Clock) apply(p preset.Preset) {
	c.workSeconds = p.WorkSeconds()
	c.breakSeconds = p.BreakSeconds()
	c.longBreakSeconds = p.LongBreakSeconds()
	c.longBreakInterval = max(1, p.Interval)
	c.presetName = p.Name
	c.remaining = c.workSeconds
	c.phaseElapsed = 0
}

func (c *Clock) phaseDuration() int {
	switch {
	case !c.isBreak:
		return c.workSeconds
	case c.breakKind == BreakLong:
		return c.longBreakSeconds
	default:
		return c.breakSeconds
	}
}

func (c *Clock) completePhase() Event {
	elapsed := c.phaseElapsed
	c.phaseElapsed = 0

	if c.isBreak {
		kind := c.breakKind
		c.finishBreak()
		return Event{
			Type:          EventBreakComplete,
			BreakKind:     kind,
			Elapsed:       elapsed,
			CycleProgress: c.cycleProgress,
		}
	}

	c.cycleProgress++
	c.isBreak = true
	if c.cycleProgress%c.longBreakInterval == 0 {
		c.breakKind = BreakLong
		c.remaining = c.longBreakSeconds
	} else {
		c.breakKind = BreakShort
		c.remaining = c.breakSeconds
	}
	return Event{
		Type:          EventWorkComplete,
		BreakKind:     c.breakKind,
		Elapsed:       elapsed,
		CycleProgress: c.cycleProgress,
	}
}

// finishBreak moves a break into an idle work phase. Completing a long break
// starts a new cycle.
func (c *Clock) finishBreak() {
	if c.breakKind == BreakLong {
		c.cycleProgress = 0
	}
	c.isBreak = false
	c.breakKind = BreakShort
	c.remaining = c.workSeconds
	c.phaseElapsed = 0
	c.running = false
	c.idle = true
}

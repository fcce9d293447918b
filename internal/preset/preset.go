// Package preset holds the fixed table of session presets and validation for
// caller-supplied custom durations.
package preset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CustomName is listed with the presets but maps to no record; the caller's
// own values stay in effect when it is selected.
const CustomName = "Custom"

// ErrInvalidConfiguration is returned for minute or interval values that
// cannot drive a session clock.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Preset is a named set of durations. Work, Break and LongBreak are minutes;
// Interval is the number of work sessions between long breaks.
type Preset struct {
	Name      string
	Work      int
	Break     int
	LongBreak int
	Interval  int
}

// WorkSeconds returns the work duration in seconds.
func (p Preset) WorkSeconds() int { return p.Work * 60 }

// BreakSeconds returns the short break duration in seconds.
func (p Preset) BreakSeconds() int { return p.Break * 60 }

// LongBreakSeconds returns the long break duration in seconds.
func (p Preset) LongBreakSeconds() int { return p.LongBreak * 60 }

var table = []Preset{
	{"Classic 25/5", 25, 5, 15, 4},
	{"Quick 15/3", 15, 3, 10, 4},
	{"Deep 50/10", 50, 10, 20, 3},
	{"Gentle 20/5", 20, 5, 15, 4},
}

// Default is the preset a fresh clock starts with.
var Default = table[0]

// Lookup resolves name to a preset. Unknown names and CustomName are absent.
func Lookup(name string) (Preset, bool) {
	for _, p := range table {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// All returns a copy of the preset table in display order.
func All() []Preset {
	out := make([]Preset, len(table))
	copy(out, table)
	return out
}

// Names returns the selectable names in display order, CustomName last.
func Names() []string {
	names := make([]string, 0, len(table)+1)
	for _, p := range table {
		names = append(names, p.Name)
	}
	return append(names, CustomName)
}

// Custom builds a preset from user-entered text. Values must be whole,
// positive numbers; fractional minutes are rejected rather than truncated.
func Custom(work, brk, longBreak, interval string) (Preset, error) {
	p := Preset{Name: CustomName}
	var err error
	if p.Work, err = ParseWhole("work minutes", work); err != nil {
		return Preset{}, err
	}
	if p.Break, err = ParseWhole("break minutes", brk); err != nil {
		return Preset{}, err
	}
	if p.LongBreak, err = ParseWhole("long break minutes", longBreak); err != nil {
		return Preset{}, err
	}
	if p.Interval, err = ParseWhole("long break interval", interval); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// ParseWhole parses a positive whole number. label names the value in the
// returned error.
func ParseWhole(label, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidConfiguration, label)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		if _, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return 0, fmt.Errorf("%w: %s must be a whole number, got %q", ErrInvalidConfiguration, label, s)
		}
		return 0, fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidConfiguration, label, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfiguration, label, n)
	}
	return n, nil
}

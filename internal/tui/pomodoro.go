package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomodoro/internal/clock"
	"github.com/sadopc/pomodoro/internal/engine"
	"github.com/sadopc/pomodoro/internal/preset"
)

var statusLabels = map[clock.Status]string{
	clock.StatusIdle:         "READY",
	clock.StatusWorkRunning:  "WORK",
	clock.StatusWorkPaused:   "WORK (PAUSED)",
	clock.StatusBreakRunning: "BREAK",
	clock.StatusBreakPaused:  "BREAK (PAUSED)",
}

// pomodoroModel is the countdown view. All state lives in the engine.
type pomodoroModel struct {
	engine *engine.Engine
	width  int
	height int
}

func newPomodoroModel(e *engine.Engine) pomodoroModel {
	return pomodoroModel{engine: e}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	snap := p.engine.Snapshot()
	switch {
	case key.Matches(km, keys.Start):
		if snap.Running {
			return p, nil
		}
		p.engine.Start()
		return p, status("Timer started")

	case key.Matches(km, keys.Pause):
		switch snap.Status {
		case clock.StatusWorkRunning, clock.StatusBreakRunning:
			p.engine.Pause()
			return p, status("Paused")
		case clock.StatusWorkPaused, clock.StatusBreakPaused:
			p.engine.Start()
			return p, status("Resumed")
		}

	case key.Matches(km, keys.Reset):
		p.engine.Reset()
		return p, status("Timer reset")

	case key.Matches(km, keys.SkipBreak):
		if snap.IsBreak {
			p.engine.SkipBreak()
			return p, status("Break skipped")
		}

	case key.Matches(km, keys.Preset):
		next := nextPreset(snap.Preset)
		p.engine.SetPreset(next)
		return p, status("Preset: " + next)
	}
	return p, nil
}

// nextPreset cycles through the fixed table. From Custom it moves to the
// first preset.
func nextPreset(current string) string {
	all := preset.All()
	for i, pr := range all {
		if pr.Name == current {
			return all[(i+1)%len(all)].Name
		}
	}
	return all[0].Name
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	snap := p.engine.Snapshot()

	title := titleStyle.Render("Pomodoro Timer")
	presetLine := mutedStyle.Render(fmt.Sprintf("%s  ·  %d/%d/%d min",
		snap.Preset, snap.WorkSeconds/60, snap.BreakSeconds/60, snap.LongBreakSeconds/60))

	clockStyle := workClockStyle
	label := statusLabels[snap.Status]
	switch {
	case snap.Status == clock.StatusIdle:
		clockStyle = idleClockStyle
	case snap.IsBreak && snap.BreakKind == clock.BreakLong:
		clockStyle = longBreakClockStyle
		label = strings.Replace(label, "BREAK", "LONG BREAK", 1)
	case snap.IsBreak:
		clockStyle = shortBreakClockStyle
		label = strings.Replace(label, "BREAK", "SHORT BREAK", 1)
	}
	if !snap.Running && snap.Status != clock.StatusIdle {
		clockStyle = clockStyle.Foreground(colorWarning)
	}

	timeDisplay := clockStyle.Width(max(w-6, 1)).Render(formatClock(snap.RemainingSeconds))
	phaseLabel := clockStyle.UnsetAlign().Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		presetLine,
		"",
		timeDisplay,
		phaseLabel,
		"",
		renderProgress(snap),
	)

	var controls string
	switch snap.Status {
	case clock.StatusIdle:
		controls = mutedStyle.Render("s: start  p: next preset  q: quit")
	case clock.StatusWorkRunning, clock.StatusWorkPaused:
		controls = mutedStyle.Render("space: pause/resume  x: reset")
	default:
		controls = mutedStyle.Render("space: pause/resume  b: skip break  x: reset")
	}

	style := panelStyle
	if snap.Running {
		style = activePanelStyle
	}
	return style.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

// renderProgress draws one dot per work session in the long-break cycle.
func renderProgress(snap clock.Snapshot) string {
	var parts []string
	for i := 0; i < snap.LongBreakInterval; i++ {
		switch {
		case i < snap.CycleProgress:
			parts = append(parts, successStyle.Render("●"))
		case i == snap.CycleProgress && !snap.IsBreak && snap.Status != clock.StatusIdle:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	progress := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", snap.CycleProgress, snap.LongBreakInterval))
	return progress + counter
}

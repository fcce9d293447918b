package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomodoro/internal/engine"
	"github.com/sadopc/pomodoro/internal/preset"
	"github.com/sadopc/pomodoro/internal/store"
)

type settingsModel struct {
	engine *engine.Engine
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	presetName *string
	work       *string
	brk        *string
	longBreak  *string
	interval   *string
}

func newSettingsModel(e *engine.Engine, s *store.Store) settingsModel {
	name, w, b, lb, iv := "", "", "", "", ""
	return settingsModel{
		engine:     e,
		store:      s,
		presetName: &name,
		work:       &w,
		brk:        &b,
		longBreak:  &lb,
		interval:   &iv,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	snap := s.engine.Snapshot()
	*s.presetName = snap.Preset
	*s.work = strconv.Itoa(snap.WorkSeconds / 60)
	*s.brk = strconv.Itoa(snap.BreakSeconds / 60)
	*s.longBreak = strconv.Itoa(snap.LongBreakSeconds / 60)
	*s.interval = strconv.Itoa(snap.LongBreakInterval)

	var options []huh.Option[string]
	for _, p := range preset.All() {
		label := fmt.Sprintf("%s  (%d/%d/%d min, long every %d)", p.Name, p.Work, p.Break, p.LongBreak, p.Interval)
		options = append(options, huh.NewOption(label, p.Name))
	}
	options = append(options, huh.NewOption("Custom", preset.CustomName))

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Preset").
				Options(options...).
				Value(s.presetName),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewInput().Title("Work (min)").Validate(validateWhole("work minutes")).Value(s.work),
			huh.NewInput().Title("Break (min)").Validate(validateWhole("break minutes")).Value(s.brk),
			huh.NewInput().Title("Long break (min)").Validate(validateWhole("long break minutes")).Value(s.longBreak),
			huh.NewInput().Title("Pomodoros before long break").Validate(validateWhole("long break interval")).Value(s.interval),
		).Title("Custom durations").WithHideFunc(func() bool {
			return *s.presetName != preset.CustomName
		}),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateWhole(label string) func(string) error {
	return func(v string) error {
		_, err := preset.ParseWhole(label, v)
		return err
	}
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, tea.Batch(s.apply(), s.refresh())
	}

	return s, cmd
}

// apply pushes the submitted form into the engine, which persists it.
func (s settingsModel) apply() tea.Cmd {
	if *s.presetName != preset.CustomName {
		s.engine.SetPreset(*s.presetName)
		return status("Preset: " + *s.presetName)
	}

	if _, err := s.engine.Configure(*s.work, *s.brk, *s.longBreak, *s.interval); err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
	}
	return status("Custom durations saved")
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case engine.KeyWork, engine.KeyBreak, engine.KeyLongBreak:
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", secs/60)
		}
	case engine.KeyCount:
		return v + " sessions"
	}
	return v
}

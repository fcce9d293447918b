package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/pomodoro/internal/engine"
	"github.com/sadopc/pomodoro/internal/stats"
	"github.com/sadopc/pomodoro/internal/store"
)

const recentLimit = 8

var kindLabels = map[store.SessionKind]string{
	store.KindWork:       "Work",
	store.KindShortBreak: "Short break",
	store.KindLongBreak:  "Long break",
}

// dashboardModel is the "Today" view: the daily stats record plus the most
// recent history entries.
type dashboardModel struct {
	engine *engine.Engine
	store  *store.Store
	width  int
	height int

	today  stats.DailyStats
	recent []store.SessionRecord
}

func newDashboardModel(e *engine.Engine, s *store.Store) dashboardModel {
	return dashboardModel{
		engine: e,
		store:  s,
		today:  e.Stats(),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	recent []store.SessionRecord
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		recent, _ := d.store.ListSessions(store.SessionFilter{Limit: recentLimit})
		return dashboardDataMsg{recent: recent}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.recent = msg.recent
		return d, nil

	case tickMsg:
		// picks up the midnight rollover
		d.today = d.engine.Stats()
		return d, nil

	case phaseCompleteMsg:
		d.today = d.engine.Stats()
		return d, d.loadData()
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderStatsPanel(contentWidth),
		d.renderRecentPanel(contentWidth),
	)
}

func (d dashboardModel) renderStatsPanel(w int) string {
	title := titleStyle.Render("Today")
	date := mutedStyle.Render(d.today.Date)
	header := fmt.Sprintf("%s  %s", title, date)

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(18).Render(label), value)
	}

	rows := []string{
		header,
		"",
		row("Pomodoros", accentStyle.Bold(true).Render(fmt.Sprintf("%d", d.today.Count))),
		row("Focus time", highlightStyle.Render(formatSeconds(int64(d.today.FocusSeconds)))),
		row("Short breaks", fmt.Sprintf("%d", d.today.ShortBreaks)),
		row("Long breaks", fmt.Sprintf("%d", d.today.LongBreaks)),
		row("Break time", highlightStyle.Render(formatSeconds(int64(d.today.BreakSeconds)))),
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(d.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No completed sessions yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, r := range d.recent {
		marker := successStyle.Render("●")
		if r.Kind != store.KindWork {
			marker = highlightStyle.Render("○")
		}
		row := fmt.Sprintf("  %s %-12s %s  %-14s %s",
			marker,
			kindLabels[r.Kind],
			formatSeconds(r.Duration),
			r.Preset,
			mutedStyle.Render(humanize.Time(r.CompletedAt)),
		)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

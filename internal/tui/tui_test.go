package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/sadopc/pomodoro/internal/clock"
	"github.com/sadopc/pomodoro/internal/engine"
	"github.com/sadopc/pomodoro/internal/preset"
	"github.com/sadopc/pomodoro/internal/stats"
	"github.com/sadopc/pomodoro/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestEngine(t *testing.T, s *store.Store) *engine.Engine {
	t.Helper()
	st := stats.New(filepath.Join(t.TempDir(), "pomodoro_data.json"))
	return engine.New(clock.New(), st, s, zerolog.Nop())
}

func newTestApp(t *testing.T) App {
	t.Helper()
	s := newTestStore(t)
	app := NewApp(newTestEngine(t, s), s)
	app.exportDir = t.TempDir()
	return app
}

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func update(t *testing.T, app App, msg tea.Msg) App {
	t.Helper()
	m, _ := app.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{25 * time.Minute, "00:25:00"},
		{time.Hour + time.Minute + time.Second, "01:01:01"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(1500); got != "00:25:00" {
		t.Fatalf("formatSeconds(1500) = %q", got)
	}
}

func TestFormatHours(t *testing.T) {
	if got := formatHours(5400); got != "1.5h" {
		t.Fatalf("formatHours(5400) = %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{59, "00:59"},
		{1500, "25:00"},
		{3000, "50:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.secs); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 view names, got %d", len(viewNames))
	}
	if viewNames[viewTimer] != "Timer" || viewNames[viewSettings] != "Settings" {
		t.Fatalf("view names out of order: %v", viewNames)
	}
}

// ============================================================
// Timer view
// ============================================================

func TestPomodoroStartPauseResume(t *testing.T) {
	s := newTestStore(t)
	e := newTestEngine(t, s)
	p := newPomodoroModel(e)

	p, cmd := p.update(runeKey("s"))
	if cmd == nil {
		t.Fatal("start should report a status")
	}
	if got := e.Snapshot().Status; got != clock.StatusWorkRunning {
		t.Fatalf("status = %s, want work_running", got)
	}

	p, _ = p.update(tea.KeyMsg{Type: tea.KeySpace})
	if got := e.Snapshot().Status; got != clock.StatusWorkPaused {
		t.Fatalf("status = %s, want work_paused", got)
	}

	p, _ = p.update(tea.KeyMsg{Type: tea.KeySpace})
	if got := e.Snapshot().Status; got != clock.StatusWorkRunning {
		t.Fatalf("status = %s, want work_running after resume", got)
	}

	p.update(runeKey("x"))
	if got := e.Snapshot().Status; got != clock.StatusIdle {
		t.Fatalf("status = %s, want idle after reset", got)
	}
}

func TestPomodoroStartWhenRunningIsNoop(t *testing.T) {
	s := newTestStore(t)
	e := newTestEngine(t, s)
	p := newPomodoroModel(e)

	p, _ = p.update(runeKey("s"))
	e.Tick()
	_, cmd := p.update(runeKey("s"))
	if cmd != nil {
		t.Fatal("start while running should do nothing")
	}
	if got := e.Snapshot().RemainingSeconds; got != 1499 {
		t.Fatalf("remaining = %d, want 1499", got)
	}
}

func TestPomodoroSkipBreak(t *testing.T) {
	s := newTestStore(t)
	e := newTestEngine(t, s)
	p := newPomodoroModel(e)

	// Not in a break: b does nothing
	if _, cmd := p.update(runeKey("b")); cmd != nil {
		t.Fatal("skip outside a break should do nothing")
	}

	e.Start()
	e.Advance(1500)
	p.update(runeKey("b"))
	if got := e.Snapshot().Status; got != clock.StatusIdle {
		t.Fatalf("status = %s, want idle after skipping the break", got)
	}
}

func TestPomodoroCyclePreset(t *testing.T) {
	s := newTestStore(t)
	e := newTestEngine(t, s)
	p := newPomodoroModel(e)

	p.update(runeKey("p"))
	if got := e.Snapshot().Preset; got != "Quick 15/3" {
		t.Fatalf("preset = %q, want Quick 15/3", got)
	}
}

func TestNextPreset(t *testing.T) {
	tests := map[string]string{
		"Classic 25/5":    "Quick 15/3",
		"Gentle 20/5":     "Classic 25/5",
		preset.CustomName: "Classic 25/5",
	}
	for cur, want := range tests {
		if got := nextPreset(cur); got != want {
			t.Errorf("nextPreset(%q) = %q, want %q", cur, got, want)
		}
	}
}

func TestRenderProgress(t *testing.T) {
	snap := clock.New().Snapshot()
	out := renderProgress(snap)
	if !strings.Contains(out, "0/4") {
		t.Fatalf("progress should show 0/4, got %q", out)
	}
}

func TestPomodoroViewStates(t *testing.T) {
	s := newTestStore(t)
	e := newTestEngine(t, s)
	p := newPomodoroModel(e)
	p.setSize(100, 30)

	if out := p.view(); !strings.Contains(out, "25:00") || !strings.Contains(out, "READY") {
		t.Fatal("idle view should show the full work duration")
	}

	e.Start()
	e.Advance(1500)
	if out := p.view(); !strings.Contains(out, "SHORT BREAK") || !strings.Contains(out, "05:00") {
		t.Fatal("break view should show the short break countdown")
	}
}

// ============================================================
// Today view
// ============================================================

func TestDashboardPhaseCompleteRefreshesStats(t *testing.T) {
	s := newTestStore(t)
	e := newTestEngine(t, s)
	d := newDashboardModel(e, s)

	e.Start()
	events := e.Advance(1500)

	d, cmd := d.update(phaseCompleteMsg{event: events[0]})
	if d.today.Count != 1 {
		t.Fatalf("today count = %d, want 1", d.today.Count)
	}
	if cmd == nil {
		t.Fatal("phase completion should reload recent sessions")
	}

	msg := cmd()
	d, _ = d.update(msg)
	if len(d.recent) != 1 || d.recent[0].Kind != store.KindWork {
		t.Fatalf("expected one recent work session, got %+v", d.recent)
	}

	d.setSize(100, 30)
	if out := d.view(); !strings.Contains(out, "Recent Sessions") || !strings.Contains(out, "Work") {
		t.Fatal("view should list the recent session")
	}
}

func TestDashboardTooSmall(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(newTestEngine(t, s), s)
	d.setSize(10, 10)
	if d.view() != "Terminal too small" {
		t.Fatal("expected size warning")
	}
}

// ============================================================
// Reports view
// ============================================================

func TestReportsDateRange(t *testing.T) {
	s := newTestStore(t)
	r := newReportsModel(s)
	r.now = func() time.Time { return time.Date(2026, 10, 21, 15, 0, 0, 0, time.UTC) } // Wednesday

	from, to := r.dateRange()
	if to.Sub(from) != 7*24*time.Hour {
		t.Fatalf("daily range should span 7 days, got %v", to.Sub(from))
	}
	if to.Format("2006-01-02") != "2026-10-22" {
		t.Fatalf("daily range should end after today, got %s", to)
	}

	r.mode = reportWeekly
	from, _ = r.dateRange()
	if from.Weekday() != time.Monday || from.Format("2006-01-02") != "2026-10-19" {
		t.Fatalf("weekly range should start on Monday, got %s", from)
	}
}

func TestReportsRefreshAndView(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	for _, rec := range []store.SessionRecord{
		{Kind: store.KindWork, Duration: 1500, CompletedAt: now},
		{Kind: store.KindShortBreak, Duration: 300, CompletedAt: now},
	} {
		if _, err := s.RecordSession(rec); err != nil {
			t.Fatalf("record session: %v", err)
		}
	}

	r := newReportsModel(s)
	r.setSize(120, 40)
	r, _ = r.update(r.refresh()())

	if len(r.summaries) != 1 {
		t.Fatalf("expected 1 daily summary, got %d", len(r.summaries))
	}
	out := r.view()
	if !strings.Contains(out, "Total") {
		t.Fatal("report should show a total line")
	}
}

func TestReportsNavigation(t *testing.T) {
	s := newTestStore(t)
	r := newReportsModel(s)

	r, _ = r.update(tea.KeyMsg{Type: tea.KeyLeft})
	if r.offset != 1 {
		t.Fatalf("offset = %d, want 1", r.offset)
	}
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyRight})
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyRight})
	if r.offset != 0 {
		t.Fatalf("offset should not go negative, got %d", r.offset)
	}
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyDown})
	if r.mode != reportWeekly {
		t.Fatal("down should switch to weekly mode")
	}
}

// ============================================================
// Settings view
// ============================================================

func TestSettingsApplyPreset(t *testing.T) {
	s := newTestStore(t)
	e := newTestEngine(t, s)
	m := newSettingsModel(e, s)

	*m.presetName = "Deep 50/10"
	m.apply()

	if got := e.Snapshot().RemainingSeconds; got != 3000 {
		t.Fatalf("remaining = %d, want 3000", got)
	}
	if v, _ := s.GetSetting(engine.KeyPreset); v != "Deep 50/10" {
		t.Fatalf("stored preset = %q", v)
	}
}

func TestSettingsApplyCustom(t *testing.T) {
	s := newTestStore(t)
	e := newTestEngine(t, s)
	m := newSettingsModel(e, s)

	*m.presetName = preset.CustomName
	*m.work, *m.brk, *m.longBreak, *m.interval = "40", "8", "25", "3"
	m.apply()

	snap := e.Snapshot()
	if snap.Preset != preset.CustomName || snap.WorkSeconds != 2400 || snap.LongBreakInterval != 3 {
		t.Fatalf("custom durations not applied: %+v", snap)
	}
}

func TestSettingsApplyCustomInvalid(t *testing.T) {
	s := newTestStore(t)
	e := newTestEngine(t, s)
	m := newSettingsModel(e, s)

	*m.presetName = preset.CustomName
	*m.work, *m.brk, *m.longBreak, *m.interval = "12.5", "5", "15", "4"

	msg := m.apply()()
	sm, ok := msg.(statusMsg)
	if !ok || !sm.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
	if e.Snapshot().WorkSeconds != 1500 {
		t.Fatal("invalid custom values must not reach the clock")
	}
}

func TestValidateWhole(t *testing.T) {
	v := validateWhole("work minutes")
	if err := v("25"); err != nil {
		t.Fatalf("25 should be valid: %v", err)
	}
	for _, bad := range []string{"", "0", "-3", "2.5", "abc"} {
		if err := v(bad); err == nil {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}

func TestSettingsShowForm(t *testing.T) {
	s := newTestStore(t)
	e := newTestEngine(t, s)
	e.SetPreset("Quick 15/3")
	m := newSettingsModel(e, s)

	m, _ = m.showForm()
	if !m.formActive || m.form == nil {
		t.Fatal("form should be active")
	}
	if *m.presetName != "Quick 15/3" || *m.work != "15" {
		t.Fatalf("form not seeded from the engine: %q %q", *m.presetName, *m.work)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.formActive {
		t.Fatal("esc should close the form")
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{engine.KeyWork, "1500", "25 min"},
		{engine.KeyLongBreak, "900", "15 min"},
		{engine.KeyCount, "4", "4 sessions"},
		{engine.KeyPreset, "Classic 25/5", "Classic 25/5"},
		{engine.KeyWork, "oops", "oops"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.value); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := newTestApp(t)

	if app.activeView != viewTimer {
		t.Fatal("default view should be the timer")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppTickDrivesEngine(t *testing.T) {
	app := newTestApp(t)
	app = update(t, app, runeKey("s"))

	app = update(t, app, tickMsg(time.Now()))
	if got := app.engine.Snapshot().RemainingSeconds; got != 1499 {
		t.Fatalf("remaining = %d, want 1499", got)
	}
}

func TestAppTimerKeysFromOtherViews(t *testing.T) {
	app := newTestApp(t)
	app = update(t, app, runeKey("2"))
	if app.activeView != viewToday {
		t.Fatal("2 should switch to Today")
	}

	app = update(t, app, runeKey("s"))
	if !app.engine.Snapshot().Running {
		t.Fatal("s should start the timer from any view")
	}
}

func TestAppPhaseCompleteSetsStatus(t *testing.T) {
	app := newTestApp(t)
	app.engine.Start()
	events := app.engine.Advance(1500)

	app = update(t, app, phaseCompleteMsg{event: events[0]})
	if !strings.Contains(app.status, "Break time") {
		t.Fatalf("status = %q", app.status)
	}
	if app.dashboard.today.Count != 1 {
		t.Fatal("dashboard should pick up the new count")
	}
}

func TestCompletionText(t *testing.T) {
	if !strings.Contains(completionText(clock.Event{Type: clock.EventWorkComplete, BreakKind: clock.BreakLong}), "long break") {
		t.Fatal("long break text")
	}
	if !strings.Contains(completionText(clock.Event{Type: clock.EventBreakComplete}), "Break over") {
		t.Fatal("break over text")
	}
}

func TestAppTabCycles(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < len(viewNames); i++ {
		app = update(t, app, tea.KeyMsg{Type: tea.KeyTab})
	}
	if app.activeView != viewTimer {
		t.Fatalf("tab should wrap around, got view %d", app.activeView)
	}
}

func TestAppViewStates(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	// Test all views render without panic
	for v := range viewNames {
		app.activeView = viewState(v)
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppFooterShowsCountdownAwayFromTimer(t *testing.T) {
	app := newTestApp(t)
	app.width = 160
	app.height = 40
	app.engine.Start()
	app.activeView = viewToday

	if footer := app.renderFooter(); !strings.Contains(footer, "25:00") {
		t.Fatal("footer should show the running countdown")
	}
}

func TestAppLoadingState(t *testing.T) {
	app := newTestApp(t)
	// Width 0 means not yet sized
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	app = update(t, app, statusMsg{text: "test status"})
	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppExport(t *testing.T) {
	app := newTestApp(t)
	app.engine.Start()
	app.engine.Advance(1500)

	app = update(t, app, runeKey("e"))
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}

	msg := app.doExport(1)()
	done, ok := msg.(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg, got %#v", msg)
	}
	if !strings.HasSuffix(done.path, ".json") || filepath.Dir(done.path) != app.exportDir {
		t.Fatalf("unexpected export path %q", done.path)
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

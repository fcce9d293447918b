package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/pomodoro/internal/clock"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewToday
	viewReports
	viewSettings
)

var viewNames = []string{"Timer", "Today", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// phaseCompleteMsg is sent after the engine finished a phase on a tick.
type phaseCompleteMsg struct {
	event clock.Event
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

// formatClock renders a countdown as MM:SS.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

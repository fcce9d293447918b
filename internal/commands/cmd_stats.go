package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/sadopc/pomodoro/internal/export"
	"github.com/sadopc/pomodoro/internal/stats"
	"github.com/sadopc/pomodoro/internal/store"
)

const weekDays = 7

type StatsCmd struct {
	flags *Flags
	app   *App
	now   func() time.Time

	// flags
	jsonOutput bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags, app *App) *StatsCmd {
	return &StatsCmd{flags: flags, app: app, now: time.Now}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Show today's counts and recent focus time",
		UsageText: "pomodoro stats [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

type statsReport struct {
	Today       stats.DailyStats `json:"today"`
	WeekFocus   int64            `json:"week_focus_seconds"`
	WeekCount   int              `json:"week_count"`
	LastSession *export.Record   `json:"last_session,omitempty"`

	last *store.SessionRecord
}

func (cmd *StatsCmd) run(_ context.Context, c *cli.Command) error {
	report, err := cmd.collect()
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Today\t%s\n", report.Today.Date)
	_, _ = fmt.Fprintf(w, "Pomodoros\t%d\n", report.Today.Count)
	_, _ = fmt.Fprintf(w, "Short breaks\t%d\n", report.Today.ShortBreaks)
	_, _ = fmt.Fprintf(w, "Long breaks\t%d\n", report.Today.LongBreaks)
	_, _ = fmt.Fprintf(w, "Focus time\t%s\n", seconds(report.Today.FocusSeconds))
	_, _ = fmt.Fprintf(w, "Break time\t%s\n", seconds(report.Today.BreakSeconds))
	_, _ = fmt.Fprintf(w, "Last %d days\t%s pomodoros, %s focus\n",
		weekDays, humanize.Comma(int64(report.WeekCount)), seconds(int(report.WeekFocus)))
	if report.last != nil {
		_, _ = fmt.Fprintf(w, "Last session\t%s, %s\n", report.last.Kind, humanize.Time(report.last.CompletedAt))
	} else {
		_, _ = fmt.Fprintln(w, "Last session\tnone")
	}
	return w.Flush()
}

func (cmd *StatsCmd) collect() (statsReport, error) {
	report := statsReport{Today: cmd.app.Engine.Stats()}

	now := cmd.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1-weekDays)
	summaries, err := cmd.app.Store.GetDailySummary(from, now.Add(time.Second))
	if err != nil {
		return report, fmt.Errorf("load history: %w", err)
	}
	for _, s := range summaries {
		report.WeekFocus += s.FocusSeconds
		report.WeekCount += s.Sessions
	}

	last, err := cmd.app.Store.LastSession()
	if err != nil {
		return report, fmt.Errorf("load history: %w", err)
	}
	if last != nil {
		rec := export.NewRecord(*last)
		report.LastSession = &rec
		report.last = last
	}
	return report, nil
}

func seconds(n int) string {
	return (time.Duration(n) * time.Second).String()
}

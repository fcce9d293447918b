package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/sadopc/pomodoro/internal/preset"
)

type PresetsCmd struct {
	flags *Flags
	app   *App
}

// NewPresetsCmd creates a new presets command
func NewPresetsCmd(flags *Flags, app *App) *PresetsCmd {
	return &PresetsCmd{flags: flags, app: app}
}

// Register adds the presets command to the application
func (cmd *PresetsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "presets",
		Usage:     "List the available timer presets",
		UsageText: "pomodoro presets",
		Action:    cmd.run,
	})

	return app
}

func (cmd *PresetsCmd) run(_ context.Context, c *cli.Command) error {
	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tWORK\tBREAK\tLONG BREAK\tINTERVAL")
	for _, p := range preset.All() {
		_, _ = fmt.Fprintf(w, "%s\t%dm\t%dm\t%dm\t%d\n", p.Name, p.Work, p.Break, p.LongBreak, p.Interval)
	}
	return w.Flush()
}

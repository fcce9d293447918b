package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/sadopc/pomodoro/internal/export"
	"github.com/sadopc/pomodoro/internal/store"
)

type ExportCmd struct {
	flags *Flags
	app   *App

	// flags
	format string
	out    string
	kind   string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags, app *App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export completed sessions as CSV or JSON",
		UsageText: "pomodoro export --format csv|json [--out path]",
		Description: `Writes the session history, newest first. Without --out the export is
written to stdout.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (csv, json)",
				Value:       "csv",
				Destination: &cmd.format,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "file to write instead of stdout",
				Destination: &cmd.out,
			},
			&cli.StringFlag{
				Name:        "kind",
				Usage:       "only export one kind (work, short_break, long_break)",
				Destination: &cmd.kind,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(_ context.Context, c *cli.Command) error {
	if cmd.format != "csv" && cmd.format != "json" {
		return fmt.Errorf("unknown format %q (want csv or json)", cmd.format)
	}

	filter := store.SessionFilter{Kind: store.SessionKind(cmd.kind)}
	switch filter.Kind {
	case "", store.KindWork, store.KindShortBreak, store.KindLongBreak:
	default:
		return fmt.Errorf("unknown session kind %q", cmd.kind)
	}

	records, err := cmd.app.Store.ListSessions(filter)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if cmd.out == "" {
		if cmd.format == "json" {
			return export.WriteJSON(c.Root().Writer, records)
		}
		return export.WriteCSV(c.Root().Writer, records)
	}

	if cmd.format == "json" {
		err = export.ToJSON(records, cmd.out)
	} else {
		err = export.ToCSV(records, cmd.out)
	}
	if err != nil {
		return err
	}

	log.Info().Str("path", cmd.out).Int("records", len(records)).Msg("exported sessions")
	_, _ = fmt.Fprintf(c.Root().ErrWriter, "Exported %d sessions to %s\n", len(records), cmd.out)
	return nil
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/sadopc/pomodoro/internal/bridge"
	"github.com/sadopc/pomodoro/pkg/logutils"
)

type BridgeCmd struct {
	flags *Flags
	app   *App

	// flags
	autoTick bool
}

// NewBridgeCmd creates a new bridge command
func NewBridgeCmd(flags *Flags, app *App) *BridgeCmd {
	return &BridgeCmd{flags: flags, app: app}
}

// Register adds the bridge command to the application
func (cmd *BridgeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "bridge",
		Usage:     "Serve the timer over a JSON line protocol on stdin/stdout",
		UsageText: "pomodoro bridge [--auto-tick]",
		Description: `Reads one JSON request per line from stdin and writes one JSON response
per line to stdout, e.g. {"action":"start_timer"}.

Without --auto-tick the clock only advances on "tick" requests.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "auto-tick",
				Usage:       "advance the clock once per second between requests",
				Sources:     cli.EnvVars("POMODORO_AUTO_TICK"),
				Destination: &cmd.autoTick,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *BridgeCmd) run(ctx context.Context, c *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.app.applyDefaultPreset()

	opts := bridge.Options{AutoTick: cmd.autoTick || cmd.app.Config.Bridge.AutoTick}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, `reading requests from the terminal; type {"action":"get_state"} or press ctrl-d to exit`)
	}

	b := bridge.New(cmd.app.Engine, logutils.Component(log.Logger, "bridge"), opts)
	return b.Serve(ctx, c.Root().Reader, c.Root().Writer)
}

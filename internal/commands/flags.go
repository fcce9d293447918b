package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sadopc/pomodoro/internal/clock"
	"github.com/sadopc/pomodoro/internal/config"
	"github.com/sadopc/pomodoro/internal/engine"
	"github.com/sadopc/pomodoro/internal/stats"
	"github.com/sadopc/pomodoro/internal/store"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// App bundles the services built in the Before hook. Commands hold a pointer
// to it before it is populated.
type App struct {
	Engine *engine.Engine
	Store  *store.Store
	Stats  *stats.Store
	Config *config.Config
}

// OpenApp builds the services for cfg. The data directory and stats file
// must be writable; startup fails otherwise instead of on the first save.
func OpenApp(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	daily := stats.New(cfg.StatsPath())
	if err := daily.Check(); err != nil {
		return nil, fmt.Errorf("open stats file: %w", err)
	}

	history, err := store.New(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &App{
		Engine: engine.New(clock.New(), daily, history, logger),
		Store:  history,
		Stats:  daily,
		Config: cfg,
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "pomodoro", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "pomodoro")
}

// applyDefaultPreset switches to the configured preset, if any. Config
// validation has already rejected unknown names.
func (a *App) applyDefaultPreset() {
	if a.Config == nil || a.Config.DefaultPreset == "" {
		return
	}
	a.Engine.SetPreset(a.Config.DefaultPreset)
	log.Debug().Str("preset", a.Config.DefaultPreset).Msg("applied default preset")
}

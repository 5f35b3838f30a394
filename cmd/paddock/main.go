// Paddock is a terminal team dashboard for sim-racing leagues.
//
// Usage:
//
//	paddock [command] [flags]
//
// Run without a command to open the dashboard.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pointsheet/paddock/internal/config"
	"github.com/pointsheet/paddock/internal/database"
	"github.com/pointsheet/paddock/internal/logging"
)

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// app carries what PersistentPreRunE resolves for every command.
type app struct {
	// Global flags
	cfgFile string
	dbPath  string
	verbose bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "paddock",
		Short: "Team dashboard for sim-racing leagues",
		Long: `paddock shows your league at a glance: your last race, the series you
are signed on to, upcoming and available events and championship standings.

Run without arguments to open the dashboard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default: "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to SQLite database file (overrides database.path)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.dashboardCmd(),
		a.seedCmd(),
		a.seriesCmd(),
		a.eventsCmd(),
		a.standingsCmd(),
		a.joinCmd(),
		a.leaveCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger. Logs always go to the
// configured file because the dashboard owns the terminal.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}

	logger, err := logging.New(cfg.Log.Path, level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

// openStore opens the league database, creating its directory on first use.
func (a *app) openStore() (*database.DBService, error) {
	path := a.cfg.Database.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	store, err := database.NewDBService(path)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}
	a.logger.Debug("database opened", zap.String("path", path))
	return store, nil
}

// driverID resolves --driver against team.driver_id.
func (a *app) driverID(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if a.cfg.Team.DriverID != "" {
		return a.cfg.Team.DriverID, nil
	}
	return "", fmt.Errorf("no driver: pass --driver or set team.driver_id in %s", config.DefaultPath())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// No config or logger needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "paddock v%s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package cmd provides the CLI commands for the calendar assistant.
package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"github.com/avolkov/calendar-assistant/internal/api"
	"github.com/avolkov/calendar-assistant/internal/app"
	"github.com/avolkov/calendar-assistant/internal/config"
	"github.com/avolkov/calendar-assistant/internal/session"
	"github.com/avolkov/calendar-assistant/internal/tasks"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath string
	serverURL  string

	cfg     *config.Config
	log     lgr.L
	client  *api.Client
	sessMgr *session.Manager
	repo    *tasks.Repository
)

// rootCmd launches the calendar TUI when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "calendar-assistant",
	Short: "Terminal calendar and task manager",
	Long: `calendar-assistant is a terminal client for the calendar service:
a month grid with per-day task counts, quick day drill-down, and
create/edit/delete of tasks against the remote API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		root := app.New(client, repo, sessMgr, log)
		program := tea.NewProgram(root, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("running ui: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the config file (default: ~/.config/calendar-assistant/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"API server base URL (overrides the config file)")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("calendar-assistant {{.Version}}\n")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// initializeServices loads config and builds the client, session, and
// repository shared by all commands.
func initializeServices() error {
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}

	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	log, err = newLogger(cfg.Log)
	if err != nil {
		return err
	}

	store, err := session.NewStore(config.SessionDBPath())
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}

	sessMgr, err = session.NewManager(context.Background(), store)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	client = api.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout())
	repo = tasks.New(client, sessMgr, log)
	return nil
}

// newLogger builds a file-backed logger. The TUI owns stdout, so
// nothing is logged to the terminal.
func newLogger(lc config.LogConfig) (lgr.L, error) {
	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	opts := []lgr.Option{lgr.Out(f), lgr.Err(f), lgr.Msec, lgr.LevelBraces}
	if lc.Level == "debug" {
		opts = append(opts, lgr.Debug)
	}
	return lgr.New(opts...), nil
}

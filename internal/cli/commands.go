// Package cli wires the moodlist commands together.
package cli

import (
	"context"
	"fmt"

	"github.com/dori/moodlist/internal/app"
	"github.com/dori/moodlist/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "dev"

// globalOptions are shared by every command
type globalOptions struct {
	ConfigPath string
	Server     string
	Session    string
	Debug      bool

	cfg *config.Config
}

// New returns the root command. Without a subcommand it starts the TUI.
func New() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "moodlist",
		Short: "Tasks with feelings, a stopwatch and a tree of subtasks.",
		Long: `moodlist keeps a tree of tasks in a remote task store. Main tasks carry
how you feel about them, a time estimate and a stopwatch.

Run without arguments to open the interactive view.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), g.cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&g.ConfigPath, "config", "",
		"Config file (default "+config.DefaultPath()+").")
	cmd.PersistentFlags().StringVar(&g.Server, "server", "",
		"Task store URL, overrides server.url.")
	cmd.PersistentFlags().StringVar(&g.Session, "session", "",
		"Session cookie for the task store, overrides server.session.")
	cmd.PersistentFlags().BoolVar(&g.Debug, "debug", false,
		"Write a debug log to the data directory.")

	AddCommands(cmd, g)
	return cmd
}

// AddCommands registers every subcommand
func AddCommands(topLevel *cobra.Command, g *globalOptions) {
	addList(topLevel, g)
	addSummary(topLevel, g)
	addTimer(topLevel, g)
	addToggle(topLevel, g)
	addDelete(topLevel, g)
	addEdit(topLevel, g)
	addGenerate(topLevel, g)
	addAPIKey(topLevel, g)
	addEmotions(topLevel)
	addServe(topLevel, g)
	addConfig(topLevel, g)
	addVersion(topLevel)
}

func (g *globalOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return err
	}
	if g.Server != "" {
		cfg.Server.URL = g.Server
	}
	if g.Session != "" {
		cfg.Server.Session = g.Session
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = g.Debug
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg
	return nil
}

// withApp opens the application for a one-shot command
func (g *globalOptions) withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	if g.cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	a, err := app.New(g.cfg, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, a)
}

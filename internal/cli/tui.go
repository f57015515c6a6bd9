package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/moodlist/internal/app"
	"github.com/dori/moodlist/internal/config"
	"github.com/dori/moodlist/internal/ui"
)

// runTUI starts the interactive task tree
func runTUI(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, app.Options{Exclusive: true})
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer application.Close()

	application.Logger.Info("starting", "server", cfg.Server.URL, "theme", cfg.Theme)

	model := ui.NewRootModel(ctx, application)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	application.OnTick(ui.TickSender(p))

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dori/moodlist/internal/api"
	"github.com/dori/moodlist/internal/cache"
	"github.com/dori/moodlist/internal/config"
	"github.com/dori/moodlist/internal/debuglog"
	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/notify"
	"github.com/dori/moodlist/internal/stopwatch"
	"github.com/gofrs/flock"
)

// App holds the application state and dependencies
type App struct {
	Config      *config.Config
	Client      *api.Client
	Cache       *cache.Cache
	Notifier    *notify.Notifier
	Logger      *slog.Logger
	Stopwatches *stopwatch.Registry
	DataDir     string

	lockFile  *flock.Flock
	logCloser io.Closer
	ticks     tickRelay
}

// Options tunes how New builds the App
type Options struct {
	// Exclusive takes the data directory lock so only one TUI runs at a time
	Exclusive bool
	// Clock replaces the stopwatch wall clock
	Clock stopwatch.Clock
}

// New creates a new application instance
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		DataDir:  cfg.DataDir,
		Notifier: notify.NewNotifier(cfg.Notifications),
	}

	if opts.Exclusive {
		if err := app.acquireLock(); err != nil {
			return nil, err
		}
	}

	logger, closer, err := debuglog.New(debuglog.DefaultPath(cfg.DataDir), debuglog.Enabled(cfg.Debug))
	if err != nil {
		app.releaseLock()
		return nil, err
	}
	app.Logger = logger
	app.logCloser = closer

	client, err := api.NewClient(api.Options{
		BaseURL: cfg.Server.URL,
		Session: cfg.Server.Session,
		Timeout: cfg.Server.Timeout,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create store client: %w", err)
	}
	app.Client = client

	c, err := cache.Open(filepath.Join(cfg.DataDir, "cache"), client.BaseURL())
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	app.Cache = c

	swOpts := []stopwatch.Option{stopwatch.WithTick(app.ticks.forward)}
	if opts.Clock != nil {
		swOpts = append(swOpts, stopwatch.WithClock(opts.Clock))
	}
	app.Stopwatches = stopwatch.NewRegistry(client, swOpts...)

	logger.Debug("app started", "server", client.BaseURL(), "data_dir", cfg.DataDir)
	return app, nil
}

// OnTick routes stopwatch display ticks to fn, replacing any earlier handler
func (a *App) OnTick(fn stopwatch.TickFunc) {
	a.ticks.set(fn)
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "moodlist.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of moodlist is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	// Stop ticks before anything they might report to goes away
	if a.Stopwatches != nil {
		a.Stopwatches.Close()
	}
	a.ticks.set(nil)

	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close debug log: %w", err))
		}
	}

	a.releaseLock()

	return errors.Join(errs...)
}

type tickRelay struct {
	mu sync.RWMutex
	fn stopwatch.TickFunc
}

func (r *tickRelay) set(fn stopwatch.TickFunc) {
	r.mu.Lock()
	r.fn = fn
	r.mu.Unlock()
}

func (r *tickRelay) forward(id model.TaskID, display string) {
	r.mu.RLock()
	fn := r.fn
	r.mu.RUnlock()
	if fn != nil {
		fn(id, display)
	}
}

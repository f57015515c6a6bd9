// Package stopwatch tracks time spent per task. Each controller mirrors one
// task's timer in the store and drives a local once-a-second display tick.
package stopwatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/timeutil"
)

var (
	// ErrBusy is returned when another action on the same task is still in flight
	ErrBusy = errors.New("stopwatch action already in progress")
	// ErrRunning is returned by Start when the stopwatch is already running
	ErrRunning = errors.New("stopwatch is already running")
	// ErrClosed is returned after the controller has been closed
	ErrClosed = errors.New("stopwatch is closed")
)

// TickInterval is how often a running stopwatch refreshes its display
const TickInterval = time.Second

// StoreTimeLayout is how the store writes startTime and endTime
const StoreTimeLayout = "2006-01-02 15:04:05"

// Mode is the state of a stopwatch
type Mode int

const (
	Idle Mode = iota
	Running
)

func (m Mode) String() string {
	if m == Running {
		return "running"
	}
	return "idle"
}

// Store is the part of the task store the stopwatch talks to. The returned
// task may be nil when the store does not echo it back.
type Store interface {
	Stopwatch(ctx context.Context, id model.TaskID, action model.StopwatchAction) (*model.Task, error)
}

// TickFunc receives the formatted elapsed time of a running stopwatch
type TickFunc func(id model.TaskID, display string)

// Controller owns the stopwatch of a single task
type Controller struct {
	id     model.TaskID
	store  Store
	clock  Clock
	onTick TickFunc

	mu          sync.Mutex
	mode        Mode
	accumulated int
	startedAt   time.Time
	// ticking is false while Running after a refused stop or reset
	ticking bool
	pending bool
	closed      bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Controller
type Option func(*Controller)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(ctl *Controller) {
		ctl.clock = c
	}
}

// WithTick sets the display callback. It is called from the tick goroutine
// and never while the controller's lock is held.
func WithTick(fn TickFunc) Option {
	return func(ctl *Controller) {
		ctl.onTick = fn
	}
}

// New creates an idle controller seeded from the task's stored timeSpent
func New(task model.Task, store Store, opts ...Option) *Controller {
	c := &Controller{
		id:          task.ID,
		store:       store,
		clock:       SystemClock{},
		accumulated: timeutil.ParseElapsed(task.TimeSpent),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the task id
func (c *Controller) ID() model.TaskID {
	return c.id
}

// Mode returns the current mode
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Pending reports whether an action is in flight
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Elapsed returns the seconds to display right now
func (c *Controller) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked()
}

// Display returns Elapsed formatted as HH:MM:SS
func (c *Controller) Display() string {
	return timeutil.FormatElapsed(c.Elapsed())
}

func (c *Controller) elapsedLocked() int {
	if c.mode != Running || !c.ticking {
		return c.accumulated
	}
	since := int(c.clock.Now().Sub(c.startedAt) / time.Second)
	if since < 0 {
		since = 0
	}
	return c.accumulated + since
}

// Start asks the store to begin timing and, once it agrees, starts ticking
func (c *Controller) Start(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	c.mu.Lock()
	running := c.mode == Running
	c.mu.Unlock()
	if running {
		c.finish()
		return ErrRunning
	}

	if _, err := c.store.Stopwatch(ctx, c.id, model.StopwatchStart); err != nil {
		c.finish()
		return fmt.Errorf("failed to start stopwatch: %w", err)
	}

	c.mu.Lock()
	c.pending = false
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mode = Running
	c.ticking = true
	c.startedAt = c.clock.Now()
	c.startTickLocked()
	c.mu.Unlock()
	return nil
}

// Stop halts the local tick, asks the store to stop timing and adopts the
// store's timeSpent. Without one, the locally counted time is kept. If the
// store refuses, the mode stays as it was and the display stops advancing.
func (c *Controller) Stop(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	c.cancelTick()

	task, err := c.store.Stopwatch(ctx, c.id, model.StopwatchStop)
	if err != nil {
		c.freeze()
		return fmt.Errorf("failed to stop stopwatch: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	local := c.elapsedLocked()
	if task != nil && task.TimeSpent != "" {
		c.accumulated = timeutil.ParseElapsed(task.TimeSpent)
	} else {
		c.accumulated = local
	}
	c.mode = Idle
	c.ticking = false
	c.startedAt = time.Time{}
	return nil
}

// Reset halts the local tick and clears the task's time in the store
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	c.cancelTick()

	if _, err := c.store.Stopwatch(ctx, c.id, model.StopwatchReset); err != nil {
		c.freeze()
		return fmt.Errorf("failed to reset stopwatch: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	c.accumulated = 0
	c.mode = Idle
	c.ticking = false
	c.startedAt = time.Time{}
	return nil
}

// Seed re-baselines an idle controller from a freshly loaded task. A task
// the store reports as timing resumes ticking from its stored start time.
// Running or busy controllers are left alone.
func (c *Controller) Seed(task model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.pending || c.mode == Running {
		return
	}
	c.accumulated = timeutil.ParseElapsed(task.TimeSpent)

	if !task.IsTiming() {
		return
	}
	started, err := time.ParseInLocation(StoreTimeLayout, task.StartTime, time.Local)
	if err != nil {
		return
	}
	c.mode = Running
	c.ticking = true
	c.startedAt = started
	c.startTickLocked()
}

// Close cancels the tick. The controller rejects further actions.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancelTick()
}

// begin claims the single pending slot
func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.pending {
		return ErrBusy
	}
	c.pending = true
	return nil
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
}

// freeze releases the pending slot and pins the display at its current
// value. The mode is kept so the refused action can be retried.
func (c *Controller) freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	c.accumulated = c.elapsedLocked()
	c.ticking = false
	c.startedAt = time.Time{}
}

func (c *Controller) startTickLocked() {
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	ticker := c.clock.NewTicker(TickInterval)

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				c.mu.Lock()
				if ctx.Err() != nil {
					c.mu.Unlock()
					return
				}
				display := timeutil.FormatElapsed(c.elapsedLocked())
				fn := c.onTick
				c.mu.Unlock()
				if fn != nil {
					fn(c.id, display)
				}
			}
		}
	}()
}

// cancelTick stops the tick goroutine and waits for it to exit
func (c *Controller) cancelTick() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

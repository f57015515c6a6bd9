package stopwatch

import (
	"sync"

	"github.com/dori/moodlist/internal/model"
)

// Registry keeps one controller per root task
type Registry struct {
	store Store
	opts  []Option

	mu          sync.Mutex
	controllers map[model.TaskID]*Controller
}

// NewRegistry creates an empty registry; opts apply to every controller
func NewRegistry(store Store, opts ...Option) *Registry {
	return &Registry{
		store:       store,
		opts:        opts,
		controllers: make(map[model.TaskID]*Controller),
	}
}

// Get returns the controller for id, if one exists
func (r *Registry) Get(id model.TaskID) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[id]
	return c, ok
}

// For returns the controller for the task, creating it on first use
func (r *Registry) For(task model.Task) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.controllers[task.ID]; ok {
		return c
	}
	c := New(task, r.store, r.opts...)
	r.controllers[task.ID] = c
	return c
}

// Sync aligns the registry with a freshly loaded task list. Root tasks get a
// controller, idle ones are re-seeded from the store, and controllers whose
// task disappeared are closed so their ticks stop.
func (r *Registry) Sync(tasks []model.Task) {
	present := make(map[model.TaskID]bool, len(tasks))
	var stale []*Controller

	r.mu.Lock()
	for _, t := range tasks {
		if !t.IsRoot() || present[t.ID] {
			continue
		}
		present[t.ID] = true
		if c, ok := r.controllers[t.ID]; ok {
			c.Seed(t)
			continue
		}
		c := New(t, r.store, r.opts...)
		c.Seed(t)
		r.controllers[t.ID] = c
	}
	for id, c := range r.controllers {
		if !present[id] {
			stale = append(stale, c)
			delete(r.controllers, id)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
}

// Running lists the ids of running stopwatches
func (r *Registry) Running() []model.TaskID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []model.TaskID
	for id, c := range r.controllers {
		if c.Mode() == Running {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of controllers
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// Close stops every tick
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Controller, 0, len(r.controllers))
	for id, c := range r.controllers {
		all = append(all, c)
		delete(r.controllers, id)
	}
	r.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
}

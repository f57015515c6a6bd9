// Package cache keeps the last task list and the tree's expand/collapse
// choices on disk, per task store.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/tree"
	"github.com/peterbourgon/diskv/v3"
)

// ErrNoSnapshot means nothing has been cached for this store yet
var ErrNoSnapshot = errors.New("no cached task list")

// Snapshot is the last task list fetched from a store
type Snapshot struct {
	Server  string       `json:"server"`
	SavedAt time.Time    `json:"saved_at"`
	Tasks   []model.Task `json:"tasks"`
}

// Cache is a diskv-backed store scoped to one task server
type Cache struct {
	d      *diskv.Diskv
	server string
	ns     string
}

// Open creates a cache under dir for the given server URL
func Open(dir, server string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	sum := sha1.Sum([]byte(server))

	return &Cache{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		server: server,
		ns:     hex.EncodeToString(sum[:6]),
	}, nil
}

func (c *Cache) key(name string) string {
	return c.ns + "-" + name
}

// SaveTasks stores the task list as the latest snapshot
func (c *Cache) SaveTasks(tasks []model.Task, now time.Time) error {
	data, err := json.Marshal(Snapshot{Server: c.server, SavedAt: now, Tasks: tasks})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := c.d.Write(c.key("tasks"), data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadTasks returns the latest snapshot
func (c *Cache) LoadTasks() (*Snapshot, error) {
	if !c.d.Has(c.key("tasks")) {
		return nil, ErrNoSnapshot
	}
	data, err := c.d.Read(c.key("tasks"))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

type collapseEntry struct {
	ID        model.TaskID `json:"id"`
	Collapsed bool         `json:"collapsed"`
}

// SaveCollapse stores explicit expand/collapse choices
func (c *Cache) SaveCollapse(state tree.Collapse) error {
	entries := make([]collapseEntry, 0, len(state))
	for id, collapsed := range state {
		entries = append(entries, collapseEntry{ID: id, Collapsed: collapsed})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode collapse state: %w", err)
	}
	if err := c.d.Write(c.key("collapse"), data); err != nil {
		return fmt.Errorf("failed to write collapse state: %w", err)
	}
	return nil
}

// LoadCollapse returns saved choices, or an empty set when none exist
func (c *Cache) LoadCollapse() (tree.Collapse, error) {
	state := tree.Collapse{}
	if !c.d.Has(c.key("collapse")) {
		return state, nil
	}
	data, err := c.d.Read(c.key("collapse"))
	if err != nil {
		return state, fmt.Errorf("failed to read collapse state: %w", err)
	}
	var entries []collapseEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return state, fmt.Errorf("failed to decode collapse state: %w", err)
	}
	for _, e := range entries {
		state[e.ID] = e.Collapsed
	}
	return state, nil
}

// Clear removes everything cached for this server
func (c *Cache) Clear() error {
	for _, name := range []string{"tasks", "collapse"} {
		if c.d.Has(c.key(name)) {
			if err := c.d.Erase(c.key(name)); err != nil {
				return fmt.Errorf("failed to clear %s: %w", name, err)
			}
		}
	}
	return nil
}

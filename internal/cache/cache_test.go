package cache

import (
	"testing"
	"time"

	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir(), "http://localhost:5000")
	require.NoError(t, err)

	_, err = c.LoadTasks()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	parent := model.TaskID("1")
	tasks := []model.Task{
		{ID: "1", Text: "Root", TimeSpent: "00:02:00"},
		{ID: "2", ParentID: &parent, Level: 1, Text: "Child", Completed: true},
	}
	saved := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, c.SaveTasks(tasks, saved))

	snap, err := c.LoadTasks()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", snap.Server)
	assert.True(t, saved.Equal(snap.SavedAt))
	require.Len(t, snap.Tasks, 2)
	assert.Nil(t, snap.Tasks[0].ParentID)
	assert.Equal(t, parent, *snap.Tasks[1].ParentID)
	assert.True(t, snap.Tasks[1].Completed)
}

func TestCachesAreScopedPerServer(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(dir, "http://a")
	require.NoError(t, err)
	b, err := Open(dir, "http://b")
	require.NoError(t, err)

	require.NoError(t, a.SaveTasks([]model.Task{{ID: "1"}}, time.Now()))
	_, err = b.LoadTasks()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestCollapseState(t *testing.T) {
	c, err := Open(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	state, err := c.LoadCollapse()
	require.NoError(t, err)
	assert.Empty(t, state)

	require.NoError(t, c.SaveCollapse(tree.Collapse{"1": true, "2": false}))
	state, err = c.LoadCollapse()
	require.NoError(t, err)
	assert.Equal(t, tree.Collapse{"1": true, "2": false}, state)

	require.NoError(t, c.Clear())
	state, _ = c.LoadCollapse()
	assert.Empty(t, state)
}

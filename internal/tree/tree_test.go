package tree

import (
	"testing"
	"time"

	"github.com/dori/moodlist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id string, parent string, level int, completed bool) model.Task {
	t := model.Task{
		ID:        model.TaskID(id),
		Level:     level,
		Text:      "task " + id,
		Completed: completed,
		CreatedAt: "2024-03-10 09:00:00",
	}
	if parent != "" {
		p := model.TaskID(parent)
		t.ParentID = &p
	}
	return t
}

func ids(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Task.ID.String())
	}
	return out
}

func TestIsFullyComplete(t *testing.T) {
	idx := NewIndex([]model.Task{
		task("1", "", 0, true),
		task("2", "", 0, true),
		task("3", "2", 1, false),
		task("4", "", 0, false),
		task("5", "", 0, true),
		task("6", "5", 1, true),
		task("7", "6", 2, true),
	})

	assert.True(t, idx.IsFullyComplete("1"), "completed leaf")
	assert.False(t, idx.IsFullyComplete("2"), "incomplete child")
	assert.False(t, idx.IsFullyComplete("4"), "own flag false")
	assert.True(t, idx.IsFullyComplete("5"), "complete chain")
	assert.False(t, idx.IsFullyComplete("missing"))
}

func TestAreChildrenFullyCompleteIgnoresOwnFlag(t *testing.T) {
	idx := NewIndex([]model.Task{
		task("1", "", 0, false),
		task("2", "1", 1, true),
		task("3", "1", 1, true),
		task("4", "", 0, true),
	})

	assert.True(t, idx.AreChildrenFullyComplete("1"))
	assert.False(t, idx.IsFullyComplete("1"))
	assert.False(t, idx.AreChildrenFullyComplete("4"), "no children")
	assert.False(t, idx.AreChildrenFullyComplete("missing"))
}

func TestIndexDanglingAndDuplicates(t *testing.T) {
	first := task("1", "", 0, true)
	dup := task("1", "", 0, false)
	orphan := task("2", "99", 1, false)

	idx := NewIndex([]model.Task{first, dup, orphan})
	assert.Equal(t, 2, idx.Len())
	assert.True(t, idx.IsFullyComplete("1"), "first record wins")
	assert.False(t, idx.AreChildrenFullyComplete("99"))
	assert.Len(t, idx.Children("99"), 1)
	assert.True(t, idx.HasChildren("99"))
	assert.False(t, idx.HasChildren("2"))
}

func TestIndexCycleDoesNotLoop(t *testing.T) {
	idx := NewIndex([]model.Task{
		task("1", "2", 1, true),
		task("2", "1", 1, true),
		task("3", "3", 0, true),
	})

	assert.False(t, idx.IsFullyComplete("1"))
	assert.False(t, idx.IsFullyComplete("3"))

	groups := Build([]model.Task{task("3", "3", 0, true)})
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0].Roots[0].Children)
}

func TestBuildScenario(t *testing.T) {
	tasks := []model.Task{
		task("1", "", 0, true),
		task("2", "1", 1, true),
		task("3", "1", 1, true),
		task("4", "", 0, false),
		task("5", "4", 1, false),
	}

	groups := Build(tasks)
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "2024-03-10", g.Key)

	require.Len(t, g.Roots, 2)
	assert.Equal(t, []string{"4", "1"}, ids(g.Roots))
	assert.False(t, g.Roots[0].AutoCollapse)
	assert.True(t, g.Roots[1].AutoCollapse)
	assert.True(t, g.Roots[1].ChildrenComplete)

	assert.Equal(t, []string{"5"}, ids(g.Roots[0].Children))
	assert.Equal(t, 1, g.Roots[0].Children[0].Depth)
	assert.Equal(t, []string{"2", "3"}, ids(g.Roots[1].Children))
}

func TestBuildIncompleteRootWithDoneChildrenStaysExpanded(t *testing.T) {
	groups := Build([]model.Task{
		task("1", "", 0, false),
		task("2", "1", 1, true),
	})
	root := groups[0].Roots[0]
	assert.True(t, root.ChildrenComplete)
	assert.False(t, root.AutoCollapse)
}

func TestBuildSortsEveryLevelStably(t *testing.T) {
	groups := Build([]model.Task{
		task("1", "", 0, false),
		task("a", "1", 1, true),
		task("b", "1", 1, false),
		task("c", "1", 1, true),
		task("d", "1", 1, false),
		task("x", "b", 2, true),
		task("y", "b", 2, false),
	})

	root := groups[0].Roots[0]
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(root.Children))
	b := root.Children[0]
	assert.Equal(t, []string{"y", "x"}, ids(b.Children))
	assert.Equal(t, 2, b.Children[0].Depth)
}

func TestBuildGroupsByDate(t *testing.T) {
	mk := func(id, created, estimate string, level int) model.Task {
		tk := task(id, "", level, false)
		tk.CreatedAt = created
		tk.TotalTimeEstimate = estimate
		return tk
	}

	groups := Build([]model.Task{
		mk("1", "2024-03-11 08:00:00", "1.5 hour", 0),
		mk("2", "garbage", "1h", 0),
		mk("3", "2024-03-09T22:00:00Z", "", 0),
		mk("4", "2024-03-11 10:00:00", "45 min", 0),
		mk("5", "", "", 0),
		mk("6", "2024-03-11 11:00:00", "9h", 1),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, "2024-03-09", groups[0].Key)
	assert.Equal(t, "2024-03-11", groups[1].Key)
	assert.Equal(t, NoDateKey, groups[2].Key)
	assert.False(t, groups[2].HasDate)

	assert.Equal(t, "2h 15m", groups[1].TotalEstimate, "only roots count")
	assert.Equal(t, "0m", groups[0].TotalEstimate)
	assert.Equal(t, []string{"2", "5"}, ids(groups[2].Roots))
}

func TestBuildKeepsSubtaskCreatedOnLaterDay(t *testing.T) {
	root := task("1", "", 0, true)
	late := task("2", "1", 1, true)
	late.CreatedAt = "2024-03-12 08:00:00"

	groups := Build([]model.Task{root, late})

	require.Len(t, groups, 1, "subtasks never open a date group")
	r := groups[0].Roots[0]
	assert.Equal(t, []string{"2"}, ids(r.Children))
	assert.True(t, r.ChildrenComplete)
	assert.True(t, r.AutoCollapse)
}

func TestBuildEmpty(t *testing.T) {
	assert.Empty(t, Build(nil))
}

func TestDateKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2024-03-10 09:15:00", "2024-03-10", true},
		{"2024-03-10", "2024-03-10", true},
		{"2024-03-10T09:15:00Z", "2024-03-10", true},
		{"2024-03-10T23:15:00-05:00", "2024-03-10", true},
		{"2024-03-10 09:15:00.123", "2024-03-10", true},
		{"10/03/2024", NoDateKey, false},
		{"2024-13-40", NoDateKey, false},
		{"", NoDateKey, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, ok := DateKey(tt.input)
			assert.Equal(t, tt.want, key)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDateLabel(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", DateLabel("2024-03-10", now))
	assert.Equal(t, "Yesterday", DateLabel("2024-03-09", now))
	assert.Equal(t, "Friday, Mar 8", DateLabel("2024-03-08", now))
	assert.Equal(t, "Sunday, Dec 31 2023", DateLabel("2023-12-31", now))
	assert.Equal(t, NoDateKey, DateLabel(NoDateKey, now))

	g := Group{Key: NoDateKey}
	assert.Equal(t, NoDateKey, g.Label(now))
}

func TestFlattenHonoursCollapse(t *testing.T) {
	groups := Build([]model.Task{
		task("1", "", 0, true),
		task("2", "1", 1, true),
		task("3", "", 0, false),
		task("4", "3", 1, false),
	})

	collapse := Collapse{}
	rows := Flatten(groups, collapse)
	// header, 3, 4, 1 (auto collapsed)
	require.Len(t, rows, 4)
	assert.Equal(t, RowHeader, rows[0].Kind)
	assert.Equal(t, model.TaskID("1"), rows[3].Node.Task.ID)
	assert.True(t, rows[3].Collapsed)

	collapse.Toggle(rows[3].Node)
	collapse.Toggle(rows[1].Node)
	rows = Flatten(groups, collapse)
	require.Len(t, rows, 4)
	assert.True(t, rows[1].Collapsed)
	assert.Equal(t, model.TaskID("2"), rows[3].Node.Task.ID)

	collapse.Prune(NewIndex([]model.Task{task("3", "", 0, false)}))
	assert.Len(t, collapse, 1)
}

package tree

import (
	"sort"
	"time"

	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/timeutil"
)

// Node is a task placed in the forest
type Node struct {
	Task     *model.Task
	Depth    int
	Children []*Node

	// ChildrenComplete is true when the task has children and all of them
	// are fully complete, whatever the task's own flag says.
	ChildrenComplete bool
	// AutoCollapse marks a completed root whose subtree is all done.
	AutoCollapse bool
}

// HasChildren reports whether the node has anything to expand
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Walk visits n and its descendants depth first, stopping a branch when fn returns false
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Group holds the root tasks created on one calendar date
type Group struct {
	Key           string
	HasDate       bool
	TotalEstimate string
	Roots         []*Node
}

// Label renders the group header relative to now
func (g *Group) Label(now time.Time) string {
	if !g.HasDate {
		return NoDateKey
	}
	return DateLabel(g.Key, now)
}

// Build groups root tasks by creation date and attaches their subtrees.
// Groups are ordered by date with the undated group last. At every level
// incomplete tasks come before completed ones, otherwise input order holds.
// Children are found by parent id across the whole list, so tasks whose
// parent is missing simply never appear.
func Build(tasks []model.Task) []Group {
	idx := NewIndex(tasks)
	return BuildFromIndex(idx)
}

// BuildFromIndex builds the groups from an existing index
func BuildFromIndex(idx *Index) []Group {
	byKey := make(map[string]*Group)
	var keys []string

	for _, t := range idx.order {
		if !t.IsRoot() {
			continue
		}
		key, ok := DateKey(t.CreatedAt)
		g, seen := byKey[key]
		if !seen {
			g = &Group{Key: key, HasDate: ok}
			byKey[key] = g
			keys = append(keys, key)
		}
		g.Roots = append(g.Roots, &Node{Task: t})
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := byKey[keys[i]], byKey[keys[j]]
		if a.HasDate != b.HasDate {
			return a.HasDate
		}
		return a.Key < b.Key
	})

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		g := byKey[key]

		estimates := make([]string, 0, len(g.Roots))
		for _, r := range g.Roots {
			estimates = append(estimates, r.Task.TotalTimeEstimate)
		}
		g.TotalEstimate = timeutil.SumEstimates(estimates...)

		sortIncompleteFirst(g.Roots)
		for _, r := range g.Roots {
			r.ChildrenComplete = idx.AreChildrenFullyComplete(r.Task.ID)
			r.AutoCollapse = r.ChildrenComplete && r.Task.Completed

			visited := map[model.TaskID]bool{r.Task.ID: true}
			r.Children = attach(idx, r.Task.ID, 1, visited)
		}
		groups = append(groups, *g)
	}
	return groups
}

func attach(idx *Index, parent model.TaskID, depth int, visited map[model.TaskID]bool) []*Node {
	if !idx.HasChildren(parent) {
		return nil
	}
	kids := idx.Children(parent)

	nodes := make([]*Node, 0, len(kids))
	for _, k := range kids {
		if visited[k.ID] {
			continue
		}
		nodes = append(nodes, &Node{Task: k, Depth: depth})
	}
	sortIncompleteFirst(nodes)

	for _, n := range nodes {
		visited[n.Task.ID] = true
		n.ChildrenComplete = idx.AreChildrenFullyComplete(n.Task.ID)
		n.Children = attach(idx, n.Task.ID, depth+1, visited)
		delete(visited, n.Task.ID)
	}
	return nodes
}

func sortIncompleteFirst(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return !nodes[i].Task.Completed && nodes[j].Task.Completed
	})
}

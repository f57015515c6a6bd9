package tree

import "github.com/dori/moodlist/internal/model"

// RowKind distinguishes header rows from task rows
type RowKind int

const (
	RowHeader RowKind = iota
	RowTask
)

// Row is one visible line of the rendered forest
type Row struct {
	Kind      RowKind
	Group     *Group
	Node      *Node
	Collapsed bool
}

// Collapse holds explicit expand/collapse choices keyed by task id.
// true means collapsed. Tasks without an entry use their default, which is
// collapsed for auto-collapse roots and expanded for everything else.
type Collapse map[model.TaskID]bool

// IsCollapsed resolves the effective state of a node
func (c Collapse) IsCollapsed(n *Node) bool {
	if v, ok := c[n.Task.ID]; ok {
		return v
	}
	return n.AutoCollapse
}

// Toggle flips the effective state of a node and records it
func (c Collapse) Toggle(n *Node) bool {
	next := !c.IsCollapsed(n)
	c[n.Task.ID] = next
	return next
}

// Prune drops entries for tasks that are no longer present
func (c Collapse) Prune(idx *Index) {
	for id := range c {
		if _, ok := idx.Get(id); !ok {
			delete(c, id)
		}
	}
}

// Flatten lists the visible rows: a header per group followed by its tasks,
// skipping the descendants of collapsed nodes.
func Flatten(groups []Group, collapse Collapse) []Row {
	var rows []Row
	for i := range groups {
		g := &groups[i]
		rows = append(rows, Row{Kind: RowHeader, Group: g})
		for _, r := range g.Roots {
			rows = appendNode(rows, g, r, collapse)
		}
	}
	return rows
}

func appendNode(rows []Row, g *Group, n *Node, collapse Collapse) []Row {
	collapsed := n.HasChildren() && collapse.IsCollapsed(n)
	rows = append(rows, Row{Kind: RowTask, Group: g, Node: n, Collapsed: collapsed})
	if collapsed {
		return rows
	}
	for _, c := range n.Children {
		rows = appendNode(rows, g, c, collapse)
	}
	return rows
}

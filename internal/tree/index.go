// Package tree turns the flat task list from the store into date groups of
// ordered task forests with completion roll-ups.
package tree

import "github.com/dori/moodlist/internal/model"

// Index answers completion questions over a task list in near linear time.
// It is built once per load and never mutated afterwards.
type Index struct {
	byID     map[model.TaskID]*model.Task
	children map[model.TaskID][]*model.Task
	order    []*model.Task

	complete map[model.TaskID]bool
	visiting map[model.TaskID]bool
}

// NewIndex indexes tasks by id and by parent. When an id repeats, the first
// record wins. Children keep their input order.
func NewIndex(tasks []model.Task) *Index {
	idx := &Index{
		byID:     make(map[model.TaskID]*model.Task, len(tasks)),
		children: make(map[model.TaskID][]*model.Task),
		order:    make([]*model.Task, 0, len(tasks)),
		complete: make(map[model.TaskID]bool),
		visiting: make(map[model.TaskID]bool),
	}

	for i := range tasks {
		t := &tasks[i]
		if _, dup := idx.byID[t.ID]; dup {
			continue
		}
		idx.byID[t.ID] = t
		idx.order = append(idx.order, t)
	}
	for _, t := range idx.order {
		if t.HasParent() {
			idx.children[*t.ParentID] = append(idx.children[*t.ParentID], t)
		}
	}
	return idx
}

// Len returns the number of distinct tasks
func (idx *Index) Len() int {
	return len(idx.order)
}

// Get returns the task with the given id
func (idx *Index) Get(id model.TaskID) (*model.Task, bool) {
	t, ok := idx.byID[id]
	return t, ok
}

// Children returns the direct children of id in input order
func (idx *Index) Children(id model.TaskID) []*model.Task {
	return idx.children[id]
}

// HasChildren reports whether any task names id as its parent
func (idx *Index) HasChildren(id model.TaskID) bool {
	return len(idx.children[id]) > 0
}

// IsFullyComplete reports whether the task and its whole subtree are completed.
// Missing tasks are not complete. A task reached again through a parent
// cycle counts as not complete.
func (idx *Index) IsFullyComplete(id model.TaskID) bool {
	if done, ok := idx.complete[id]; ok {
		return done
	}
	t, ok := idx.byID[id]
	if !ok || !t.Completed {
		return false
	}
	if idx.visiting[id] {
		return false
	}

	idx.visiting[id] = true
	result := true
	for _, c := range idx.children[id] {
		if !idx.IsFullyComplete(c.ID) {
			result = false
			break
		}
	}
	delete(idx.visiting, id)

	idx.complete[id] = result
	return result
}

// AreChildrenFullyComplete reports whether the task has children and every
// one of them is fully complete. The task's own completed flag is ignored.
func (idx *Index) AreChildrenFullyComplete(id model.TaskID) bool {
	kids := idx.children[id]
	if len(kids) == 0 {
		return false
	}
	for _, c := range kids {
		if !idx.IsFullyComplete(c.ID) {
			return false
		}
	}
	return true
}

package views

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/moodlist/internal/api"
	"github.com/dori/moodlist/internal/model"
)

// Store commands. Each runs off the update loop and reports back with a message.

// loadTasks fetches the task list. When the store cannot be reached the
// last snapshot is returned instead, flagged offline.
func (v TreeView) loadTasks() tea.Msg {
	ctx := v.deps.Context
	tasks, err := v.deps.Store.ListTasks(ctx)
	if err == nil {
		if v.deps.Cache != nil {
			if cerr := v.deps.Cache.SaveTasks(tasks, v.deps.Now()); cerr != nil {
				v.deps.Logger.Warn("failed to save snapshot", "err", cerr)
			}
		}
		return tasksLoadedMsg{tasks: tasks}
	}

	if !isTransportError(err) || v.deps.Cache == nil {
		return tasksLoadedMsg{err: err}
	}
	snap, cerr := v.deps.Cache.LoadTasks()
	if cerr != nil {
		return tasksLoadedMsg{err: err}
	}
	return tasksLoadedMsg{tasks: snap.Tasks, offline: true, savedAt: snap.SavedAt, err: err}
}

// isTransportError reports whether the store never answered
func isTransportError(err error) bool {
	if _, ok := api.IsRedirect(err); ok {
		return false
	}
	var se *api.StoreError
	return !errors.As(err, &se)
}

func (v TreeView) toggle(id model.TaskID) tea.Cmd {
	return func() tea.Msg {
		_, err := v.deps.Store.ToggleTask(v.deps.Context, id)
		return taskChangedMsg{id: id, action: "toggle", err: err}
	}
}

func (v TreeView) update(id model.TaskID, update model.TaskUpdate) tea.Cmd {
	return func() tea.Msg {
		err := v.deps.Store.UpdateTask(v.deps.Context, id, update)
		return taskChangedMsg{id: id, action: "update", err: err}
	}
}

// saveText is the autosave write; the view stays in edit mode
func (v TreeView) saveText(id model.TaskID, text string) tea.Cmd {
	return func() tea.Msg {
		err := v.deps.Store.UpdateTask(v.deps.Context, id, model.TaskUpdate{Text: model.Ptr(text)})
		return textSavedMsg{id: id, text: text, err: err}
	}
}

func (v TreeView) delete(id model.TaskID) tea.Cmd {
	return func() tea.Msg {
		err := v.deps.Store.DeleteTask(v.deps.Context, id)
		return taskChangedMsg{id: id, action: "delete", err: err}
	}
}

func (v TreeView) generate(prompt string) tea.Cmd {
	return func() tea.Msg {
		return generatedMsg{prompt: prompt, err: v.deps.Store.Generate(v.deps.Context, prompt)}
	}
}

// stopwatch runs an action on the task's controller. The controller rejects
// a second action while one is in flight.
func (v TreeView) stopwatch(task model.Task, action model.StopwatchAction) tea.Cmd {
	c := v.deps.Stopwatches.For(task)
	ctx := v.deps.Context
	notifier := v.deps.Notifier

	return func() tea.Msg {
		var err error
		switch action {
		case model.StopwatchStart:
			err = c.Start(ctx)
		case model.StopwatchStop:
			err = c.Stop(ctx)
			if err == nil && notifier != nil {
				notifier.SendTimerStopped(task.Text, c.Display())
			}
		case model.StopwatchReset:
			err = c.Reset(ctx)
		}
		return stopwatchDoneMsg{id: task.ID, action: action, err: err}
	}
}

// saveCollapse persists expand/collapse choices
func (v TreeView) saveCollapse() tea.Cmd {
	if v.deps.Cache == nil {
		return nil
	}
	state := make(map[model.TaskID]bool, len(v.collapse))
	for id, c := range v.collapse {
		state[id] = c
	}
	cache, logger := v.deps.Cache, v.deps.Logger
	return func() tea.Msg {
		if err := cache.SaveCollapse(state); err != nil {
			logger.Warn("failed to save collapse state", "err", err)
		}
		return nil
	}
}

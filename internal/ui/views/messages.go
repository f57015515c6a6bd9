package views

import (
	"time"

	"github.com/dori/moodlist/internal/model"
)

// Messages the root model reacts to

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// SessionExpiredMsg means the store wants the user to sign in again
type SessionExpiredMsg struct {
	LoginURL string
}

// StopwatchTickMsg is sent every second by a running stopwatch
type StopwatchTickMsg struct {
	ID      model.TaskID
	Display string
}

// Store commands

type tasksLoadedMsg struct {
	tasks   []model.Task
	offline bool
	savedAt time.Time
	err     error
}

type taskChangedMsg struct {
	id     model.TaskID
	action string
	err    error
}

type autosaveMsg struct {
	id  model.TaskID
	seq int
}

type textSavedMsg struct {
	id   model.TaskID
	text string
	err  error
}

type stopwatchDoneMsg struct {
	id     model.TaskID
	action model.StopwatchAction
	err    error
}

type generatedMsg struct {
	prompt string
	err    error
}

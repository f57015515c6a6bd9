package model

import "fmt"

// TaskUpdate is a partial update; nil fields are left untouched by the store
type TaskUpdate struct {
	Text              *string `json:"text,omitempty"`
	CurrentEmotion    *string `json:"currentEmotion,omitempty"`
	CompletionEmotion *string `json:"completionEmotion,omitempty"`
	TotalTimeEstimate *string `json:"totalTimeEstimate,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (u TaskUpdate) IsEmpty() bool {
	return u.Text == nil && u.CurrentEmotion == nil &&
		u.CompletionEmotion == nil && u.TotalTimeEstimate == nil
}

// Apply copies the set fields onto t
func (u TaskUpdate) Apply(t *Task) {
	if u.Text != nil {
		t.Text = *u.Text
	}
	if u.CurrentEmotion != nil {
		t.CurrentEmotion = *u.CurrentEmotion
	}
	if u.CompletionEmotion != nil {
		t.CompletionEmotion = *u.CompletionEmotion
	}
	if u.TotalTimeEstimate != nil {
		t.TotalTimeEstimate = *u.TotalTimeEstimate
	}
}

// StopwatchAction is sent to the store's stopwatch endpoint
type StopwatchAction string

const (
	StopwatchStart StopwatchAction = "start"
	StopwatchStop  StopwatchAction = "stop"
	StopwatchReset StopwatchAction = "reset"
)

// ParseStopwatchAction validates an action name
func ParseStopwatchAction(s string) (StopwatchAction, error) {
	switch a := StopwatchAction(s); a {
	case StopwatchStart, StopwatchStop, StopwatchReset:
		return a, nil
	}
	return "", fmt.Errorf("invalid stopwatch action %q", s)
}

// String returns the wire form
func (a StopwatchAction) String() string {
	return string(a)
}

// Ptr returns a pointer to s, for building updates
func Ptr(s string) *string {
	return &s
}

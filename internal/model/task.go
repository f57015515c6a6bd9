package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TaskID identifies a task. The store may send ids as JSON numbers or strings.
type TaskID string

// String returns the id as text
func (id TaskID) String() string {
	return string(id)
}

// IsZero reports whether the id means "no task" on the wire
func (id TaskID) IsZero() bool {
	return id == "" || id == "0"
}

// Int returns the numeric form of the id, if it has one
func (id TaskID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// UnmarshalJSON accepts numbers, strings and null
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id %s: %w", data, err)
	}
	*id = TaskID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers so the store sees its own format
func (id TaskID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// Task is one record of the task store.
// Only root tasks (Level 0) carry emotions, estimates and stopwatch fields.
type Task struct {
	ID                TaskID  `json:"id"`
	ParentID          *TaskID `json:"parent_id"`
	Level             int     `json:"level"`
	Text              string  `json:"text"`
	Completed         bool    `json:"completed"`
	CurrentEmotion    string  `json:"currentEmotion,omitempty"`
	CompletionEmotion string  `json:"completionEmotion,omitempty"`
	TotalTimeEstimate string  `json:"totalTimeEstimate,omitempty"`
	StartTime         string  `json:"startTime,omitempty"`
	EndTime           string  `json:"endTime,omitempty"`
	TimeSpent         string  `json:"timeSpent,omitempty"`
	CreatedAt         string  `json:"createdAt,omitempty"`
}

// wireTask mirrors Task with every alias the store has used
type wireTask struct {
	ID                TaskID          `json:"id"`
	ParentID          *TaskID         `json:"parent_id"`
	ParentIDCamel     *TaskID         `json:"parentId"`
	Level             json.RawMessage `json:"level"`
	Text              string          `json:"text"`
	Completed         json.RawMessage `json:"completed"`
	CurrentEmotion    string          `json:"currentEmotion"`
	CompletionEmotion string          `json:"completionEmotion"`
	TotalTimeEstimate string          `json:"totalTimeEstimate"`
	StartTime         string          `json:"startTime"`
	EndTime           string          `json:"endTime"`
	TimeSpent         string          `json:"timeSpent"`
	CreatedAt         string          `json:"createdAt"`
}

// UnmarshalJSON decodes a store record, normalising "no parent" to nil.
// Level and completed are tolerated as strings since CSV-backed stores send them that way.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w wireTask
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	parent := w.ParentID
	if parent == nil || parent.IsZero() {
		parent = w.ParentIDCamel
	}
	if parent != nil && parent.IsZero() {
		parent = nil
	}

	*t = Task{
		ID:                w.ID,
		ParentID:          parent,
		Level:             looseInt(w.Level),
		Text:              w.Text,
		Completed:         looseBool(w.Completed),
		CurrentEmotion:    w.CurrentEmotion,
		CompletionEmotion: w.CompletionEmotion,
		TotalTimeEstimate: w.TotalTimeEstimate,
		StartTime:         w.StartTime,
		EndTime:           w.EndTime,
		TimeSpent:         w.TimeSpent,
		CreatedAt:         w.CreatedAt,
	}
	return nil
}

// MarshalJSON writes a missing parent as 0, the store's root marker
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	out := struct {
		plain
		ParentID TaskID `json:"parent_id"`
	}{plain: plain(t), ParentID: "0"}
	if t.HasParent() {
		out.ParentID = *t.ParentID
	}
	return json.Marshal(out)
}

// IsRoot reports whether the task is a top-level task
func (t *Task) IsRoot() bool {
	return t.Level == 0
}

// HasParent reports whether the task points at a parent
func (t *Task) HasParent() bool {
	return t.ParentID != nil && !t.ParentID.IsZero()
}

// IsTiming reports whether the store recorded a start without a matching stop
func (t *Task) IsTiming() bool {
	return t.StartTime != "" && t.EndTime == ""
}

func looseInt(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v
		}
	}
	return 0
}

func looseBool(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes":
			return true
		}
		return false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	return false
}

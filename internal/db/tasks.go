package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/timeutil"
)

const taskColumns = `id, parent_id, text, level, completed, current_emotion, completion_emotion,
	total_time_estimate, created_at, start_time, end_time, time_spent`

// NewTask is a row to insert. ParentID nil makes a root task.
type NewTask struct {
	ParentID          *int64
	Text              string
	Level             int
	Completed         bool
	CurrentEmotion    string
	CompletionEmotion string
	TotalTimeEstimate string
	CreatedAt         string
}

// ListTasks returns every task in insertion order
func (db *DB) ListTasks() ([]model.Task, error) {
	rows, err := db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return db.scanTasks(rows)
}

// GetTask returns a task by id
func (db *DB) GetTask(id int64) (*model.Task, error) {
	row := db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := db.scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return t, nil
}

// CreateTask inserts a task and returns it
func (db *DB) CreateTask(nt NewTask) (*model.Task, error) {
	var id int64
	err := db.Transaction(func(tx *sql.Tx) error {
		var err error
		id, err = db.insertTask(tx, nt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return db.GetTask(id)
}

func (db *DB) insertTask(tx *sql.Tx, nt NewTask) (int64, error) {
	created := nt.CreatedAt
	if created == "" {
		created = db.timestamp()
	}
	var parent any
	if nt.ParentID != nil {
		parent = *nt.ParentID
	}

	res, err := tx.Exec(`
		INSERT INTO tasks (parent_id, text, level, completed, current_emotion,
			completion_emotion, total_time_estimate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, parent, nt.Text, nt.Level, nt.Completed, nt.CurrentEmotion,
		nt.CompletionEmotion, nt.TotalTimeEstimate, created)
	if err != nil {
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}
	return res.LastInsertId()
}

// UpdateTask applies the set fields of a partial update
func (db *DB) UpdateTask(id int64, u model.TaskUpdate) (*model.Task, error) {
	t, err := db.GetTask(id)
	if err != nil {
		return nil, err
	}
	u.Apply(t)

	_, err = db.Exec(`
		UPDATE tasks SET text = ?, current_emotion = ?, completion_emotion = ?,
			total_time_estimate = ?
		WHERE id = ?
	`, t.Text, t.CurrentEmotion, t.CompletionEmotion, t.TotalTimeEstimate, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// ToggleTask flips a task's completed flag. Completing a level 1 task also
// completes its direct children.
func (db *DB) ToggleTask(id int64) (*model.Task, error) {
	err := db.Transaction(func(tx *sql.Tx) error {
		var level int
		var completed bool
		err := tx.QueryRow(`SELECT level, completed FROM tasks WHERE id = ?`, id).Scan(&level, &completed)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load task: %w", err)
		}

		completed = !completed
		if _, err := tx.Exec(`UPDATE tasks SET completed = ? WHERE id = ?`, completed, id); err != nil {
			return fmt.Errorf("failed to toggle task: %w", err)
		}
		if completed && level == 1 {
			if _, err := tx.Exec(`UPDATE tasks SET completed = 1 WHERE parent_id = ?`, id); err != nil {
				return fmt.Errorf("failed to complete children: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetTask(id)
}

// DeleteTaskTree deletes a task and all of its descendants and returns how
// many rows went. Deleting an unknown id removes nothing.
func (db *DB) DeleteTaskTree(id int64) (int64, error) {
	res, err := db.Exec(`
		WITH RECURSIVE subtree(id) AS (
			SELECT ?
			UNION
			SELECT t.id FROM tasks t JOIN subtree s ON t.parent_id = s.id
		)
		DELETE FROM tasks WHERE id IN (SELECT id FROM subtree)
	`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}
	return res.RowsAffected()
}

// StartTimer stamps the start time and clears any previous end time
func (db *DB) StartTimer(id int64) (*model.Task, error) {
	if _, err := db.GetTask(id); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`UPDATE tasks SET start_time = ?, end_time = '' WHERE id = ?`, db.timestamp(), id); err != nil {
		return nil, fmt.Errorf("failed to start timer: %w", err)
	}
	return db.GetTask(id)
}

// StopTimer stamps the end time and adds the session to timeSpent. Stopping
// an already stopped timer changes nothing.
func (db *DB) StopTimer(id int64) (*model.Task, error) {
	t, err := db.GetTask(id)
	if err != nil {
		return nil, err
	}
	if t.StartTime == "" {
		return nil, ErrNotStarted
	}
	if t.EndTime != "" {
		return t, nil
	}

	now := db.now()
	start, err := time.ParseInLocation(TimeLayout, t.StartTime, now.Location())
	if err != nil {
		return nil, fmt.Errorf("failed to parse start time %q: %w", t.StartTime, err)
	}
	session := int(now.Truncate(time.Second).Sub(start) / time.Second)
	if session < 0 {
		session = 0
	}
	spent := timeutil.FormatElapsed(timeutil.ParseElapsed(t.TimeSpent) + session)

	_, err = db.Exec(`UPDATE tasks SET end_time = ?, time_spent = ? WHERE id = ?`,
		now.Format(TimeLayout), spent, id)
	if err != nil {
		return nil, fmt.Errorf("failed to stop timer: %w", err)
	}
	return db.GetTask(id)
}

// ResetTimer clears start, end and time spent
func (db *DB) ResetTimer(id int64) (*model.Task, error) {
	if _, err := db.GetTask(id); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`UPDATE tasks SET start_time = '', end_time = '', time_spent = '' WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to reset timer: %w", err)
	}
	return db.GetTask(id)
}

// Stopwatch dispatches a stopwatch action
func (db *DB) Stopwatch(id int64, action model.StopwatchAction) (*model.Task, error) {
	switch action {
	case model.StopwatchStart:
		return db.StartTimer(id)
	case model.StopwatchStop:
		return db.StopTimer(id)
	case model.StopwatchReset:
		return db.ResetTimer(id)
	default:
		return nil, fmt.Errorf("invalid stopwatch action %q", action)
	}
}

func (db *DB) scanTasks(rows *sql.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		t, err := db.scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (db *DB) scanTaskRow(s scanner) (*model.Task, error) {
	var (
		t        model.Task
		id       int64
		parentID sql.NullInt64
	)
	err := s.Scan(&id, &parentID, &t.Text, &t.Level, &t.Completed, &t.CurrentEmotion,
		&t.CompletionEmotion, &t.TotalTimeEstimate, &t.CreatedAt, &t.StartTime,
		&t.EndTime, &t.TimeSpent)
	if err != nil {
		return nil, err
	}

	t.ID = model.TaskID(strconv.FormatInt(id, 10))
	if parentID.Valid {
		p := model.TaskID(strconv.FormatInt(parentID.Int64, 10))
		t.ParentID = &p
	}
	return &t, nil
}

package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/moodlist/internal/emotion"
	"github.com/dori/moodlist/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func samplePlan() model.Plan {
	return model.Plan{
		Title:          "Move house Task",
		CurrentEmotion: []string{"Anxious"},
		SubTasks: []model.SubTask{
			{Title: "Pack", Steps: []string{"Boxes", "Tape"}},
			{Title: "Drive", Steps: []string{"Fuel"}},
		},
	}
}

// TestNestedQueriesNoDeadlock guards the single-connection pool: handlers
// read a task and then write while the caller still holds earlier results.
func TestNestedQueriesNoDeadlock(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.InsertPlan(samplePlan()); err != nil {
		t.Fatalf("Failed to insert plan: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		tasks, err := db.ListTasks()
		if err != nil {
			t.Errorf("ListTasks failed: %v", err)
			return
		}
		for _, task := range tasks {
			id, _ := task.ID.Int()
			if _, err := db.ToggleTask(id); err != nil {
				t.Errorf("ToggleTask failed: %v", err)
			}
			if _, err := db.StartTimer(id); err != nil {
				t.Errorf("StartTimer failed: %v", err)
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Deadlock detected: operations did not complete within 5 seconds")
	}
}

func TestInsertPlan(t *testing.T) {
	db := openTestDB(t)
	db.SetClock(func() time.Time { return time.Date(2024, 3, 10, 9, 30, 0, 0, time.Local) })

	rootID, err := db.InsertPlan(samplePlan())
	if err != nil {
		t.Fatalf("InsertPlan failed: %v", err)
	}

	tasks, err := db.ListTasks()
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != samplePlan().Size() {
		t.Fatalf("expected %d tasks, got %d", samplePlan().Size(), len(tasks))
	}

	root := tasks[0]
	if id, _ := root.ID.Int(); id != rootID {
		t.Errorf("expected root id %d, got %s", rootID, root.ID)
	}
	if root.ParentID != nil || root.Level != 0 {
		t.Errorf("root should have no parent and level 0, got %v/%d", root.ParentID, root.Level)
	}
	if got := emotion.ParseList(root.CurrentEmotion); len(got) != 1 || got[0] != "Anxious" {
		t.Errorf("unexpected current emotion %q", root.CurrentEmotion)
	}
	if root.CompletionEmotion != "[]" {
		t.Errorf("expected empty emotion list, got %q", root.CompletionEmotion)
	}

	levels := map[int]int{}
	for _, task := range tasks {
		levels[task.Level]++
		if task.CreatedAt != "2024-03-10 09:30:00" {
			t.Errorf("task %s has createdAt %q", task.ID, task.CreatedAt)
		}
	}
	if levels[0] != 1 || levels[1] != 2 || levels[2] != 3 {
		t.Errorf("unexpected level counts %v", levels)
	}
	if !tasks[1].HasParent() || *tasks[1].ParentID != root.ID ||
		!tasks[2].HasParent() || *tasks[2].ParentID != tasks[1].ID {
		t.Errorf("plan rows are not linked parent to child")
	}
}

func TestToggleCompletesStepsOfSubtask(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.InsertPlan(samplePlan()); err != nil {
		t.Fatalf("InsertPlan failed: %v", err)
	}

	// ids: 1 root, 2 Pack, 3 Boxes, 4 Tape, 5 Drive, 6 Fuel
	pack, err := db.ToggleTask(2)
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if !pack.Completed {
		t.Fatal("expected Pack to be completed")
	}
	for _, id := range []int64{3, 4} {
		step, _ := db.GetTask(id)
		if !step.Completed {
			t.Errorf("expected step %d to be completed", id)
		}
	}
	fuel, _ := db.GetTask(6)
	if fuel.Completed {
		t.Error("steps of other sub-tasks must not change")
	}

	// Un-completing leaves the steps alone
	pack, _ = db.ToggleTask(2)
	step, _ := db.GetTask(3)
	if pack.Completed || !step.Completed {
		t.Error("toggling back should only affect the sub-task")
	}

	// Completing the root does not cascade
	if _, err := db.ToggleTask(1); err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	drive, _ := db.GetTask(5)
	if drive.Completed {
		t.Error("root completion must not cascade")
	}

	if _, err := db.ToggleTask(999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	db := openTestDB(t)
	task, err := db.CreateTask(NewTask{Text: "Write", TotalTimeEstimate: "1h"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	id, _ := task.ID.Int()

	updated, err := db.UpdateTask(id, model.TaskUpdate{CurrentEmotion: model.Ptr(`["Happy"]`)})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Text != "Write" || updated.TotalTimeEstimate != "1h" {
		t.Errorf("unset fields changed: %+v", updated)
	}
	if updated.CurrentEmotion != `["Happy"]` {
		t.Errorf("expected emotion to change, got %q", updated.CurrentEmotion)
	}

	if _, err := db.UpdateTask(999, model.TaskUpdate{Text: model.Ptr("x")}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTaskTree(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.InsertPlan(samplePlan()); err != nil {
		t.Fatalf("InsertPlan failed: %v", err)
	}
	other, _ := db.CreateTask(NewTask{Text: "Other"})

	n, err := db.DeleteTaskTree(2)
	if err != nil {
		t.Fatalf("DeleteTaskTree failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 rows deleted, got %d", n)
	}

	n, _ = db.DeleteTaskTree(1)
	if n != 3 {
		t.Errorf("expected root, Drive and Fuel deleted, got %d", n)
	}

	tasks, _ := db.ListTasks()
	if len(tasks) != 1 || tasks[0].ID != other.ID {
		t.Errorf("expected only the unrelated task to remain, got %v", tasks)
	}

	if n, _ := db.DeleteTaskTree(12345); n != 0 {
		t.Errorf("deleting a missing id should remove nothing, got %d", n)
	}
}

func TestStopwatchLifecycle(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)
	db.SetClock(func() time.Time { return now })

	task, _ := db.CreateTask(NewTask{Text: "Focus"})
	id, _ := task.ID.Int()

	if _, err := db.StopTimer(id); err != ErrNotStarted {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}

	started, err := db.Stopwatch(id, model.StopwatchStart)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.StartTime != "2024-03-10 09:00:00" || started.EndTime != "" {
		t.Errorf("unexpected start stamps %q/%q", started.StartTime, started.EndTime)
	}

	now = now.Add(90 * time.Second)
	stopped, err := db.Stopwatch(id, model.StopwatchStop)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if stopped.TimeSpent != "00:01:30" {
		t.Errorf("expected 00:01:30, got %q", stopped.TimeSpent)
	}

	// A second stop does not count the session twice
	now = now.Add(time.Hour)
	again, _ := db.Stopwatch(id, model.StopwatchStop)
	if again.TimeSpent != "00:01:30" {
		t.Errorf("repeated stop changed time to %q", again.TimeSpent)
	}

	db.Stopwatch(id, model.StopwatchStart)
	now = now.Add(30 * time.Second)
	stopped, _ = db.Stopwatch(id, model.StopwatchStop)
	if stopped.TimeSpent != "00:02:00" {
		t.Errorf("expected sessions to accumulate to 00:02:00, got %q", stopped.TimeSpent)
	}

	reset, err := db.Stopwatch(id, model.StopwatchReset)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if reset.StartTime != "" || reset.EndTime != "" || reset.TimeSpent != "" {
		t.Errorf("reset left values behind: %+v", reset)
	}

	if _, err := db.Stopwatch(999, model.StopwatchStart); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAPIKeySetting(t *testing.T) {
	db := openTestDB(t)

	key, err := db.APIKey()
	if err != nil || key != "" {
		t.Fatalf("expected empty key, got %q (%v)", key, err)
	}
	if err := db.SetAPIKey("first"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	if err := db.SetAPIKey("second"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	if key, _ := db.APIKey(); key != "second" {
		t.Errorf("expected second, got %q", key)
	}
}

package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dori/moodlist/internal/db"
	"github.com/dori/moodlist/internal/model"
	"github.com/gin-gonic/gin"
)

const errTaskNotFound = "Task not found"

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
		return 0, false
	}
	return id, true
}

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
	case errors.Is(err, db.ErrNotStarted):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found or invalid action"})
	default:
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleToggle(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := s.store.ToggleTask(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

func (s *Server) handleUpdate(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var update model.TaskUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	task, err := s.store.UpdateTask(id, update)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

func (s *Server) handleStopwatch(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var body struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	action, err := model.ParseStopwatchAction(body.Action)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found or invalid action"})
		return
	}

	task, err := s.store.Stopwatch(id, action)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	n, err := s.store.DeleteTaskTree(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": n})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var body struct {
		Context string `json:"context"`
	}
	_ = c.ShouldBindJSON(&body)
	if strings.TrimSpace(body.Context) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty input"})
		return
	}

	plan, err := s.gen.Generate(c.Request.Context(), body.Context)
	if err != nil {
		s.fail(c, err)
		return
	}
	if _, err := s.store.InsertPlan(plan); err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("generated tasks", "title", plan.Title, "count", plan.Size())
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleGetAPIKey(c *gin.Context) {
	key, err := s.store.APIKey()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"api_key": key})
}

func (s *Server) handleSetAPIKey(c *gin.Context) {
	var body struct {
		APIKey string `json:"api_key"`
	}
	_ = c.ShouldBindJSON(&body)
	key := strings.TrimSpace(body.APIKey)
	if key == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "API key cannot be empty"})
		return
	}
	if err := s.store.SetAPIKey(key); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Failed to update API key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

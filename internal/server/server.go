// Package server is the HTTP task store behind "moodlist serve".
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dori/moodlist/internal/db"
	"github.com/gin-gonic/gin"
)

// SessionCookie must match the cookie the client sends
const SessionCookie = "session"

// Options configures a Server
type Options struct {
	Store     *db.DB
	Generator Generator
	// Token enables the session gate. Empty means every request is allowed.
	Token  string
	Logger *slog.Logger
}

// Server is the task store web server
type Server struct {
	store  *db.DB
	gen    Generator
	token  string
	log    *slog.Logger
	router *gin.Engine
}

// New creates a server with its routes registered
func New(opts Options) *Server {
	if opts.Generator == nil {
		opts.Generator = MockGenerator{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	router := gin.New()
	s := &Server{
		store:  opts.Store,
		gen:    opts.Generator,
		token:  opts.Token,
		log:    opts.Logger,
		router: router,
	}

	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/login", s.handleLoginPage)
	router.POST("/login", s.handleLogin)
	router.GET("/logout", s.handleLogout)

	authed := router.Group("/", s.requireSession())
	{
		authed.GET("/tasks", s.handleListTasks)
		authed.POST("/tasks/:id/toggle", s.handleToggle)
		authed.POST("/tasks/:id/update", s.handleUpdate)
		authed.POST("/tasks/:id/stopwatch", s.handleStopwatch)
		authed.DELETE("/tasks/:id", s.handleDelete)
		authed.POST("/generate", s.handleGenerate)
		authed.GET("/api-key", s.handleGetAPIKey)
		authed.POST("/api-key", s.handleSetAPIKey)
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("task store listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetHeader("X-Request-Id"),
		)
	}
}

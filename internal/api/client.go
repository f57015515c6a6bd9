// Package api is the HTTP client of the remote task store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dori/moodlist/internal/model"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the session token
	SessionCookie = "session"
	// RequestIDHeader tags each request for the store's logs
	RequestIDHeader = "X-Request-Id"

	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client talks to the task store
type Client struct {
	baseURL *url.URL
	session string
	client  *http.Client
}

// Options configures a Client
type Options struct {
	BaseURL string
	Session string
	Timeout time.Duration
	// HTTPClient replaces the default client; redirects are still disabled
	HTTPClient *http.Client
}

// NewClient creates a client for the store at opts.BaseURL
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("store url is required")
	}
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid store url %q: %w", opts.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid store url %q: scheme must be http or https", opts.BaseURL)
	}

	hc := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	} else if hc.Timeout == 0 {
		hc.Timeout = defaultTimeout
	}
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{baseURL: u, session: opts.Session, client: hc}, nil
}

// BaseURL returns the store address
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type successResponse struct {
	Success *bool       `json:"success"`
	Error   string      `json:"error"`
	Task    *model.Task `json:"task"`
}

// ListTasks fetches every task record
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, "list tasks", http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// UpdateTask applies a partial update; only set fields change
func (c *Client) UpdateTask(ctx context.Context, id model.TaskID, update model.TaskUpdate) error {
	var resp successResponse
	return c.do(ctx, "update task", http.MethodPost, taskPath(id, "update"), update, &resp)
}

// ToggleTask flips the completed flag. The store may echo the task back.
func (c *Client) ToggleTask(ctx context.Context, id model.TaskID) (*model.Task, error) {
	var resp successResponse
	if err := c.do(ctx, "toggle task", http.MethodPost, taskPath(id, "toggle"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

// Stopwatch sends a start, stop or reset action. The returned task carries
// the store's timeSpent when the store includes it.
func (c *Client) Stopwatch(ctx context.Context, id model.TaskID, action model.StopwatchAction) (*model.Task, error) {
	var resp successResponse
	body := map[string]string{"action": action.String()}
	if err := c.do(ctx, "stopwatch "+action.String(), http.MethodPost, taskPath(id, "stopwatch"), body, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

// DeleteTask removes a task; the store removes its descendants
func (c *Client) DeleteTask(ctx context.Context, id model.TaskID) error {
	var resp successResponse
	return c.do(ctx, "delete task", http.MethodDelete, taskPath(id, ""), nil, &resp)
}

// Generate asks the store to create tasks from free text
func (c *Client) Generate(ctx context.Context, prompt string) error {
	var resp successResponse
	body := map[string]string{"context": prompt}
	return c.do(ctx, "generate tasks", http.MethodPost, "/generate", body, &resp)
}

// APIKey returns the stored generation key
func (c *Client) APIKey(ctx context.Context) (string, error) {
	var resp struct {
		APIKey string `json:"api_key"`
	}
	if err := c.do(ctx, "get api key", http.MethodGet, "/api-key", nil, &resp); err != nil {
		return "", err
	}
	return resp.APIKey, nil
}

// SetAPIKey stores the generation key
func (c *Client) SetAPIKey(ctx context.Context, key string) error {
	var resp successResponse
	body := map[string]string{"api_key": key}
	return c.do(ctx, "set api key", http.MethodPost, "/api-key", body, &resp)
}

func taskPath(id model.TaskID, action string) string {
	p := "/tasks/" + url.PathEscape(id.String())
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.session})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		loc := resp.Header.Get("Location")
		if u, err := resp.Location(); err == nil {
			loc = u.String()
		}
		return &RedirectError{Op: op, Status: resp.StatusCode, Location: loc}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}

	var envelope struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	trimmed := bytes.TrimSpace(data)
	isObject := len(trimmed) > 0 && trimmed[0] == '{'
	if isObject {
		_ = json.Unmarshal(trimmed, &envelope)
	}

	if resp.StatusCode >= 400 || envelope.Error != "" || (envelope.Success != nil && !*envelope.Success) {
		msg := envelope.Error
		if msg == "" && !isObject {
			msg = strings.TrimSpace(string(trimmed))
		}
		return &StoreError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(trimmed) == 0 {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dori/moodlist/internal/api"
	"github.com/dori/moodlist/internal/db"
	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/tree"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, token string) (*Server, *db.DB) {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return New(Options{Store: store, Token: token}), store
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestMockGenerator(t *testing.T) {
	plan, err := MockGenerator{}.Generate(context.Background(), "clean the whole flat before the party")
	require.NoError(t, err)

	assert.Equal(t, "clean the whole flat before Task", plan.Title)
	require.Len(t, plan.SubTasks, 3)
	assert.Equal(t, "Plan clean the whole flat before Task", plan.SubTasks[0].Title)
	assert.Equal(t, 13, plan.Size())
}

func TestGenerateRejectsEmptyInput(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doJSON(t, srv.Handler(), http.MethodPost, "/generate", `{"context":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Empty input"}`, w.Body.String())
}

func TestUpdateUnknownTask(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doJSON(t, srv.Handler(), http.MethodPost, "/tasks/42/update", `{"text":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Task not found"}`, w.Body.String())

	w = doJSON(t, srv.Handler(), http.MethodPost, "/tasks/abc/toggle", ``)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStopwatchRejectsUnknownAction(t *testing.T) {
	srv, store := newTestServer(t, "")
	_, err := store.CreateTask(db.NewTask{Text: "x"})
	require.NoError(t, err)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/tasks/1/stopwatch", `{"action":"pause"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, srv.Handler(), http.MethodPost, "/tasks/1/stopwatch", `{"action":"stop"}`)
	assert.Equal(t, http.StatusNotFound, w.Code, "stop before start")
}

func TestAPIKeyRoutes(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api-key", `{"api_key":"  "}`)
	assert.JSONEq(t, `{"success":false,"error":"API key cannot be empty"}`, w.Body.String())

	w = doJSON(t, srv.Handler(), http.MethodPost, "/api-key", `{"api_key":" sk-1 "}`)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = doJSON(t, srv.Handler(), http.MethodGet, "/api-key", ``)
	assert.JSONEq(t, `{"api_key":"sk-1"}`, w.Body.String())
}

func TestTaskJSONUsesRootMarker(t *testing.T) {
	srv, store := newTestServer(t, "")
	_, err := store.InsertPlan(model.Plan{Title: "T", SubTasks: []model.SubTask{{Title: "S"}}})
	require.NoError(t, err)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/tasks", ``)
	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 2)
	assert.EqualValues(t, 0, raw[0]["parent_id"])
	assert.EqualValues(t, 1, raw[1]["parent_id"])
}

func TestSessionGate(t *testing.T) {
	srv, _ := newTestServer(t, "secret")

	w := doJSON(t, srv.Handler(), http.MethodGet, "/tasks", ``)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = doJSON(t, srv.Handler(), http.MethodPost, "/login", `{"token":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, srv.Handler(), http.MethodPost, "/login", `{"token":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientAgainstServer(t *testing.T) {
	srv, _ := newTestServer(t, "secret")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	ctx := context.Background()

	anon, err := api.NewClient(api.Options{BaseURL: ts.URL})
	require.NoError(t, err)
	_, err = anon.ListTasks(ctx)
	re, ok := api.IsRedirect(err)
	require.True(t, ok, "expected redirect, got %v", err)
	assert.True(t, strings.HasSuffix(re.Location, "/login"))

	client, err := api.NewClient(api.Options{BaseURL: ts.URL, Session: "secret"})
	require.NoError(t, err)

	require.NoError(t, client.Generate(ctx, "write the quarterly report"))
	tasks, err := client.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 13)

	root := tasks[0]
	assert.Nil(t, root.ParentID)
	require.NoError(t, client.UpdateTask(ctx, root.ID, model.TaskUpdate{
		CurrentEmotion:    model.Ptr(`["Anxious"]`),
		TotalTimeEstimate: model.Ptr("2h 15m"),
	}))

	// complete every sub-task; steps follow
	for _, task := range tasks {
		if task.Level == 1 {
			_, err := client.ToggleTask(ctx, task.ID)
			require.NoError(t, err)
		}
	}
	toggled, err := client.ToggleTask(ctx, root.ID)
	require.NoError(t, err)
	require.NotNil(t, toggled)
	assert.True(t, toggled.Completed)

	_, err = client.Stopwatch(ctx, root.ID, model.StopwatchStart)
	require.NoError(t, err)
	stopped, err := client.Stopwatch(ctx, root.ID, model.StopwatchStop)
	require.NoError(t, err)
	require.NotNil(t, stopped)
	assert.NotEmpty(t, stopped.TimeSpent)

	tasks, err = client.ListTasks(ctx)
	require.NoError(t, err)
	groups := tree.Build(tasks)
	require.Len(t, groups, 1)
	assert.Equal(t, "2h 15m", groups[0].TotalEstimate)
	require.Len(t, groups[0].Roots, 1)
	assert.True(t, groups[0].Roots[0].AutoCollapse)
	assert.Len(t, groups[0].Roots[0].Children, 3)

	require.NoError(t, client.DeleteTask(ctx, root.ID))
	tasks, err = client.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/moodlist/internal/app"
	"github.com/dori/moodlist/internal/config"
	"github.com/dori/moodlist/internal/ui/theme"
	"github.com/dori/moodlist/internal/ui/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.msgs = append(r.msgs, msg)
}

func TestTickSenderWrapsTicks(t *testing.T) {
	rec := &recordingSender{}
	TickSender(rec)("7", "00:00:03")

	require.Len(t, rec.msgs, 1)
	assert.Equal(t, views.StopwatchTickMsg{ID: "7", Display: "00:00:03"}, rec.msgs[0])
}

func newTestRoot(t *testing.T) RootModel {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Notifications = false
	cfg.Theme = "nord"

	a, err := app.New(cfg, app.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	m := NewRootModel(t.Context(), a)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(RootModel)
}

func TestThemeCycle(t *testing.T) {
	m := newTestRoot(t)
	assert.Equal(t, "nord", theme.Current.Theme.Name)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	require.NotNil(t, cmd)
	msg := cmd()
	changed, ok := msg.(ThemeChangedMsg)
	require.True(t, ok)
	assert.Equal(t, theme.Current.Theme.Name, changed.ThemeName)
	assert.NotEqual(t, "nord", changed.ThemeName)

	next, _ = next.Update(msg)
	assert.Contains(t, next.View(), "Theme: "+changed.ThemeName)
}

func TestHelpToggle(t *testing.T) {
	m := newTestRoot(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Contains(t, next.View(), "moodlist help")

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, next.View(), "moodlist help")
}

func TestErrorsShowInFooter(t *testing.T) {
	m := newTestRoot(t)

	next, _ := m.Update(views.SessionExpiredMsg{LoginURL: "http://store/login"})
	assert.Contains(t, next.View(), "Session expired: sign in at http://store/login")
}

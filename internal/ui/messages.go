package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/stopwatch"
	"github.com/dori/moodlist/internal/ui/views"
)

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}

// Sender is satisfied by *tea.Program
type Sender interface {
	Send(msg tea.Msg)
}

// TickSender forwards stopwatch ticks into the program's update loop.
// Ticks come from the stopwatch goroutines, never from Update itself.
func TickSender(p Sender) stopwatch.TickFunc {
	return func(id model.TaskID, display string) {
		p.Send(views.StopwatchTickMsg{ID: id, Display: display})
	}
}

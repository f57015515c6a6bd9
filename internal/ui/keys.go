package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Collapse key.Binding

	// Task Actions
	Toggle     key.Binding
	EditText   key.Binding
	Emotions   key.Binding
	Completion key.Binding
	Estimate   key.Binding
	Generate   key.Binding
	Delete     key.Binding
	Reload     key.Binding

	// Stopwatch
	Start key.Binding
	Stop  key.Binding
	Reset key.Binding

	// General
	Help       key.Binding
	ThemeCycle key.Binding
	Quit       key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "collapse"),
		),

		// Task Actions
		Toggle: key.NewBinding(
			key.WithKeys("tab", "x"),
			key.WithHelp("tab/x", "toggle done"),
		),
		EditText: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Emotions: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "emotions"),
		),
		Completion: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "completion emotions"),
		),
		Estimate: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "estimate"),
		),
		Generate: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "generate"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),

		// Stopwatch
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),

		// General
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Collapse, k.Toggle, k.Delete, k.Reload},
		{k.EditText, k.Emotions, k.Completion, k.Estimate, k.Generate},
		{k.Start, k.Stop, k.Reset},
		{k.ThemeCycle, k.Help, k.Quit},
	}
}

package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/moodlist/internal/app"
	"github.com/dori/moodlist/internal/ui/theme"
	"github.com/dori/moodlist/internal/ui/views"
)

// RootModel is the main application model hosting the task tree
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	treeView    views.TreeView
	helpVisible bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(ctx context.Context, application *app.App) RootModel {
	h := help.New()
	h.ShowAll = true

	if t, ok := theme.ByName(application.Config.Theme); ok {
		theme.SetTheme(t)
	}

	return RootModel{
		app:  application,
		keys: DefaultKeyMap(),
		help: h,
		treeView: views.NewTreeView(views.Deps{
			Context:     ctx,
			Store:       application.Client,
			Stopwatches: application.Stopwatches,
			Cache:       application.Cache,
			Notifier:    application.Notifier,
			Logger:      application.Logger,
		}),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.treeView.Init()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (1 line) and footer (3 lines)
		m.treeView = m.treeView.SetSize(m.width, m.height-4)

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.treeView.IsInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			next := theme.Next(theme.Current.Theme.Name)
			theme.SetTheme(next)
			return m, func() tea.Msg {
				return ThemeChangedMsg{ThemeName: next.Name}
			}
		}

		if isInputMode {
			break
		}

		if key.Matches(msg, m.keys.Help) {
			m.helpVisible = !m.helpVisible
			return m, nil
		}
		if m.helpVisible {
			if key.Matches(msg, m.keys.Cancel) {
				m.helpVisible = false
			}
			return m, nil
		}

	case views.ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case views.StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case views.SessionExpiredMsg:
		m.errorMsg = fmt.Sprintf("Session expired: sign in at %s", msg.LoginURL)
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil
	}

	newTreeView, cmd := m.treeView.Update(msg)
	m.treeView = newTreeView.(views.TreeView)
	return m, cmd
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	// Reserve: 1 line for header + 3 lines for footer (status + 2 hint lines)
	contentHeight := m.height - 4
	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		content = m.treeView.View()
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("moodlist")

	infoStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	server := infoStyle.Render(m.app.Client.BaseURL())
	if m.treeView.Offline() {
		server = lipgloss.NewStyle().Foreground(t.Warning).Padding(0, 1).Render("offline")
	}

	running := ""
	if n := len(m.app.Stopwatches.Running()); n > 0 {
		running = lipgloss.NewStyle().Foreground(t.Running).Padding(0, 1).
			Render(fmt.Sprintf("⏱ %d running", n))
	}

	themeIndicator := infoStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, server, running)
	rightSide := themeIndicator

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	// Helper to format key hints
	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var line1, line2 string
	switch {
	case m.helpVisible:
		line1 = key("?/esc", "close help") + sep + key("q", "quit")
	case m.treeView.Mode() == views.TreeModeConfirmDelete:
		line1 = key("y", "delete") + sep + key("n/esc", "keep")
	case m.treeView.IsInputMode():
		line1 = key("enter", "save") + sep + key("esc", "cancel")
	default:
		line1 = key("tab", "done") + sep +
			key("enter", "fold") + sep +
			key("e", "edit") + sep +
			key("m", "emotions") + sep +
			key("t", "estimate") + sep +
			key("d", "del")
		line2 = key("s/S/r", "stopwatch") + sep +
			key("n", "generate") + sep +
			key("R", "reload") + sep +
			key("C-t", "theme") + sep +
			key("?", "help")
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, line1)
	}
	if line2 != "" {
		lines = append(lines, line2)
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.Title.Render("moodlist help"))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.Label.Render("Emotions are comma separated, e.g. \"Anxious, Curious\"."))
	b.WriteString("\n")
	b.WriteString(styles.Label.Render("Estimates read hours and minutes, e.g. \"1.5h\" or \"1h 30m\"."))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpDesc.Render("Press ? or esc to close"))

	return styles.Panel.Render(b.String())
}

package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/moodlist/internal/emotion"
	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/stopwatch"
	"github.com/dori/moodlist/internal/timeutil"
	"github.com/dori/moodlist/internal/tree"
	"github.com/dori/moodlist/internal/ui/theme"
)

// View renders the tree view
func (v TreeView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder

	if v.expired != "" {
		b.WriteString(styles.Banner.Foreground(t.Error).Render(
			fmt.Sprintf("Session expired. Sign in at %s, then press R.", v.expired)))
		b.WriteString("\n\n")
	} else if v.offline {
		b.WriteString(styles.Banner.Foreground(t.Warning).Render(
			fmt.Sprintf("Offline: read-only copy from %s", v.savedAt.Format("Jan 2 15:04"))))
		b.WriteString("\n\n")
	}

	if prompt := v.inputPrompt(); prompt != "" {
		b.WriteString(styles.Label.Render(prompt))
		b.WriteString("\n")
		b.WriteString(styles.InputFocused.Render(v.input.View()))
		b.WriteString("\n")
	}

	if v.mode == TreeModeConfirmDelete {
		confirmStyle := lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true)
		b.WriteString(confirmStyle.Render(v.deletePrompt()))
		b.WriteString("\n\n")
	}

	if v.loading || v.generating {
		b.WriteString(v.spinner.View())
		if v.generating {
			b.WriteString(styles.Label.Render(" Generating tasks..."))
		} else {
			b.WriteString(styles.Label.Render(" Loading..."))
		}
		b.WriteString("\n")
	}

	if v.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(t.Info).
			Italic(true)
		b.WriteString(statusStyle.Render(v.statusMsg))
		b.WriteString("\n")
	}

	if len(v.rows) == 0 {
		if !v.loading {
			emptyStyle := lipgloss.NewStyle().
				Foreground(t.Subtle).
				Italic(true).
				Padding(2, 0)
			b.WriteString(emptyStyle.Render("No tasks yet. Press 'n' to generate some."))
		}
		return b.String()
	}

	visible := v.visibleRowCount()
	endIdx := v.scrollOffset + visible
	if endIdx > len(v.rows) {
		endIdx = len(v.rows)
	}

	if v.scrollOffset > 0 {
		scrollStyle := lipgloss.NewStyle().Foreground(t.Subtle)
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↑ %d more above", v.scrollOffset)))
		b.WriteString("\n")
	}

	for i := v.scrollOffset; i < endIdx; i++ {
		row := v.rows[i]
		if row.Kind == tree.RowHeader {
			b.WriteString(v.renderHeader(row.Group))
		} else {
			b.WriteString(v.renderTask(row, i == v.cursor))
		}
		b.WriteString("\n")
	}

	if remaining := len(v.rows) - endIdx; remaining > 0 {
		scrollStyle := lipgloss.NewStyle().Foreground(t.Subtle)
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
		b.WriteString("\n")
	}

	return b.String()
}

func (v TreeView) inputPrompt() string {
	switch v.mode {
	case TreeModeEditText:
		return "Edit task (saves as you type)"
	case TreeModeEditEmotions:
		return "Current emotions"
	case TreeModeEditCompletion:
		return "Completion emotions"
	case TreeModeEditEstimate:
		return "Time estimate"
	case TreeModeGenerate:
		return "Generate tasks"
	}
	return ""
}

func (v TreeView) deletePrompt() string {
	text := string(v.deleteID)
	var subtasks int
	for _, r := range v.rows {
		if r.Kind == tree.RowTask && r.Node.Task.ID == v.deleteID {
			text = r.Node.Task.Text
			r.Node.Walk(func(*tree.Node) bool {
				subtasks++
				return true
			})
			subtasks--
			break
		}
	}
	if subtasks > 0 {
		return fmt.Sprintf("Delete %q and %d subtask(s)? (y/n)", text, subtasks)
	}
	return fmt.Sprintf("Delete %q? (y/n)", text)
}

// renderHeader renders a date group line with its total estimate
func (v TreeView) renderHeader(g *tree.Group) string {
	styles := theme.Current.Styles
	line := styles.DateHeader.Render(g.Label(v.deps.Now()))
	if g.TotalEstimate != "" && g.TotalEstimate != "0m" {
		line += " " + styles.Estimate.Render("· "+g.TotalEstimate)
	}
	return line
}

// renderTask renders a single task line
func (v TreeView) renderTask(row tree.Row, isCursor bool) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles
	node := row.Node
	task := node.Task

	indent := strings.Repeat("    ", node.Depth)

	expandIndicator := " "
	switch {
	case node.HasChildren() && row.Collapsed:
		expandIndicator = "▶"
	case node.HasChildren():
		expandIndicator = "▼"
	case node.Depth > 0:
		expandIndicator = "└"
	}

	checkbox := "[ ]"
	if task.Completed {
		checkbox = "[x]"
	}

	titleStyle := styles.TaskNormal
	if task.Completed {
		titleStyle = styles.TaskDone
	}

	var metadata []string
	if task.IsRoot() {
		if task.TotalTimeEstimate != "" {
			metadata = append(metadata, styles.Estimate.Render(task.TotalTimeEstimate))
		}
		if chips := renderChips(task.CurrentEmotion); chips != "" {
			metadata = append(metadata, chips)
		}
		if chips := renderChips(task.CompletionEmotion); chips != "" {
			metadata = append(metadata, styles.Label.Render("→")+" "+chips)
		}
		metadata = append(metadata, v.renderStopwatch(task))
	}
	if node.ChildrenComplete && !task.Completed {
		metadata = append(metadata, lipgloss.NewStyle().Foreground(t.Success).Render("✓ subtasks done"))
	}

	prefix := fmt.Sprintf("%s%s %s ", indent, expandIndicator, checkbox)
	line := prefix + titleStyle.Render(task.Text)
	if len(metadata) > 0 {
		line += " " + strings.Join(metadata, " ")
	}

	if isCursor {
		line = styles.TaskFocused.Render(line)
	}
	return line
}

// renderStopwatch shows the live display when a controller exists, else the stored time
func (v TreeView) renderStopwatch(task *model.Task) string {
	styles := theme.Current.Styles

	display := timeutil.FormatElapsed(timeutil.ParseElapsed(task.TimeSpent))
	style := styles.Stopwatch
	if v.deps.Stopwatches != nil && !v.offline {
		if c, ok := v.deps.Stopwatches.Get(task.ID); ok {
			display = c.Display()
			if c.Mode() == stopwatch.Running {
				style = styles.StopwatchRunning
			}
			if c.Pending() {
				display += "…"
			}
		}
	}
	return style.Render("⏱ " + display)
}

// renderChips renders each emotion in its primary's colour
func renderChips(raw string) string {
	labels := emotion.ParseList(raw)
	if len(labels) == 0 {
		return ""
	}
	chip := theme.Current.Styles.Chip
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, chip.Background(lipgloss.Color(emotion.ColorOf(l))).Render(l))
	}
	return strings.Join(parts, " ")
}

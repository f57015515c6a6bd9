package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dori/moodlist/internal/emotion"
	"github.com/dori/moodlist/internal/timeutil"
	"github.com/dori/moodlist/internal/tree"
	"github.com/fatih/color"
)

// PrettyPrint writes the task forest as coloured text
type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
	Now    time.Time
}

// Title prints a date group header
func (pp *PrettyPrint) Title(g *tree.Group) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.Out, g.Label(pp.Now))
	if g.TotalEstimate != "" && g.TotalEstimate != "0m" {
		_, _ = c.Fprintf(pp.Out, " · %s", g.TotalEstimate)
	}
	_, _ = fmt.Fprintln(pp.Out)
}

// Groups prints every group with its subtrees
func (pp *PrettyPrint) Groups(groups []tree.Group) {
	if len(groups) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.Out, " no tasks\n")
		return
	}
	for i := range groups {
		g := &groups[i]
		pp.Title(g)
		for _, root := range g.Roots {
			root.Walk(func(n *tree.Node) bool {
				pp.Node(n)
				return true
			})
		}
		_, _ = fmt.Fprintln(pp.Out)
	}
}

// Node prints one task line
func (pp *PrettyPrint) Node(n *tree.Node) {
	task := n.Task
	faint := color.New(color.Faint)
	done := color.New(color.Faint, color.CrossedOut)
	plain := color.New()

	if pp.ShowID {
		_, _ = faint.Fprintf(pp.Out, "%6s  ", task.ID)
	}
	_, _ = fmt.Fprint(pp.Out, strings.Repeat("  ", n.Depth))

	box, text := "[ ]", plain
	if task.Completed {
		box, text = "[x]", done
	}
	_, _ = fmt.Fprintf(pp.Out, "%s ", box)
	_, _ = text.Fprint(pp.Out, task.Text)

	if task.IsRoot() {
		if task.TotalTimeEstimate != "" {
			_, _ = color.New(color.FgCyan).Fprintf(pp.Out, " %s", task.TotalTimeEstimate)
		}
		if labels := emotion.ParseList(task.CurrentEmotion); len(labels) > 0 {
			_, _ = color.New(color.FgHiMagenta).Fprintf(pp.Out, " (%s)", strings.Join(labels, ", "))
		}
		if labels := emotion.ParseList(task.CompletionEmotion); len(labels) > 0 {
			_, _ = color.New(color.FgHiGreen).Fprintf(pp.Out, " → (%s)", strings.Join(labels, ", "))
		}
		spent := timeutil.FormatElapsed(timeutil.ParseElapsed(task.TimeSpent))
		sw := faint
		if task.IsTiming() {
			sw = color.New(color.FgHiYellow, color.Bold)
		}
		_, _ = sw.Fprintf(pp.Out, " ⏱ %s", spent)
	}
	if n.ChildrenComplete && !task.Completed {
		_, _ = color.New(color.FgGreen).Fprint(pp.Out, " ✓ subtasks done")
	}
	_, _ = fmt.Fprintln(pp.Out)
}

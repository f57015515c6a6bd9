package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dori/moodlist/internal/app"
	"github.com/dori/moodlist/internal/emotion"
	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/timeutil"
	"github.com/dori/moodlist/internal/tree"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

type summaryRow struct {
	ID         model.TaskID `json:"id"`
	Text       string       `json:"text"`
	Estimate   string       `json:"estimate"`
	Spent      string       `json:"spent"`
	Emotions   []string     `json:"emotions"`
	Completion []string     `json:"completionEmotions"`
	Done       bool         `json:"done"`
	Subtasks   int          `json:"subtasks"`
}

type summary struct {
	Tasks         []summaryRow `json:"tasks"`
	TotalEstimate string       `json:"totalEstimate"`
	TotalSpent    string       `json:"totalSpent"`
}

func addSummary(topLevel *cobra.Command, g *globalOptions) {
	so := &listOptions{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Table of main tasks with estimates, time spent and emotions.",
		Example: `
moodlist summary
moodlist summary --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := g.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				tasks, _, err := fetchTasks(ctx, a, so.offline)
				if err != nil {
					return err
				}
				s := summarize(tree.Build(tasks))
				if so.output.JSON {
					return so.output.PrintJSON(s)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.table())
				return nil
			})
			return so.output.HandleError(err)
		},
	}

	AddOutputArg(cmd, &so.output)
	cmd.Flags().BoolVar(&so.offline, "offline", false, "Read the last saved copy instead of the store.")

	topLevel.AddCommand(cmd)
}

func summarize(groups []tree.Group) summary {
	s := summary{Tasks: []summaryRow{}}
	var estimates []string
	var spent int
	for _, g := range groups {
		for _, root := range g.Roots {
			t := root.Task
			subtasks := -1
			root.Walk(func(*tree.Node) bool {
				subtasks++
				return true
			})
			seconds := timeutil.ParseElapsed(t.TimeSpent)
			s.Tasks = append(s.Tasks, summaryRow{
				ID:         t.ID,
				Text:       t.Text,
				Estimate:   t.TotalTimeEstimate,
				Spent:      timeutil.FormatElapsed(seconds),
				Emotions:   emotion.ParseList(t.CurrentEmotion),
				Completion: emotion.ParseList(t.CompletionEmotion),
				Done:       t.Completed,
				Subtasks:   subtasks,
			})
			estimates = append(estimates, t.TotalTimeEstimate)
			spent += seconds
		}
	}
	s.TotalEstimate = timeutil.SumEstimates(estimates...)
	s.TotalSpent = timeutil.FormatElapsed(spent)
	return s
}

func (s summary) table() *uitable.Table {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Task"), bold.Sprint("Estimate"),
		bold.Sprint("Spent"), bold.Sprint("Feeling"), bold.Sprint("Done"))
	for _, r := range s.Tasks {
		done := ""
		if r.Done {
			done = "✓"
			if len(r.Completion) > 0 {
				done += " " + strings.Join(r.Completion, ", ")
			}
		}
		tbl.AddRow(r.ID, r.Text, r.Estimate, r.Spent, strings.Join(r.Emotions, ", "), done)
	}
	tbl.AddRow("", bold.Sprint("Total"), bold.Sprint(s.TotalEstimate), bold.Sprint(s.TotalSpent), "", "")
	tbl.RightAlign(0)
	return tbl
}

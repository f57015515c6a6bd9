package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dori/moodlist/internal/app"
	"github.com/dori/moodlist/internal/emotion"
	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/timeutil"
	"github.com/dori/moodlist/internal/tree"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func parseID(arg string) (model.TaskID, error) {
	id := model.TaskID(strings.TrimSpace(arg))
	if id.IsZero() {
		return "", fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func addTimer(topLevel *cobra.Command, g *globalOptions) {
	output := OutputOptions{}

	cmd := &cobra.Command{
		Use:       "timer <start|stop|reset> <id>",
		Short:     "Drive the stopwatch of a main task.",
		ValidArgs: []string{"start", "stop", "reset"},
		Example: `
moodlist timer start 12
moodlist timer stop 12
moodlist timer reset 12 --json
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := func() error {
				action, err := model.ParseStopwatchAction(args[0])
				if err != nil {
					return err
				}
				id, err := parseID(args[1])
				if err != nil {
					return err
				}
				return g.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					task, err := a.Client.Stopwatch(ctx, id, action)
					if err != nil {
						return fmt.Errorf("failed to %s stopwatch: %w", action, err)
					}
					if task == nil {
						task = refetchTask(ctx, a, id)
					}
					if task == nil {
						if output.JSON {
							return output.PrintJSON(map[string]any{"success": true, "id": id})
						}
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "⏱ %s  task %s\n", pastTense(action), id)
						return nil
					}
					if output.JSON {
						return output.PrintJSON(task)
					}
					spent := timeutil.FormatElapsed(timeutil.ParseElapsed(task.TimeSpent))
					state := "stopped"
					if task.IsTiming() {
						state = "running"
					}
					_, _ = color.New(color.Bold).Fprintf(cmd.OutOrStdout(), "⏱ %s", spent)
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s)\n", task.Text, state)
					if action == model.StopwatchStop {
						a.Notifier.SendTimerStopped(task.Text, spent)
					}
					return nil
				})
			}()
			return output.HandleError(err)
		},
	}

	AddOutputArg(cmd, &output)
	topLevel.AddCommand(cmd)
}

// refetchTask looks the task up again when the store did not echo it back.
// It returns nil when the list cannot be read or the task is gone.
func refetchTask(ctx context.Context, a *app.App, id model.TaskID) *model.Task {
	tasks, err := a.Client.ListTasks(ctx)
	if err != nil {
		a.Logger.Debug("failed to refetch task", "id", id, "err", err)
		return nil
	}
	task, ok := tree.NewIndex(tasks).Get(id)
	if !ok {
		return nil
	}
	return task
}

func pastTense(action model.StopwatchAction) string {
	switch action {
	case model.StopwatchStart:
		return "started"
	case model.StopwatchStop:
		return "stopped"
	}
	return string(action)
}

func addToggle(topLevel *cobra.Command, g *globalOptions) {
	output := OutputOptions{}

	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between done and not done.",
		Example: `
moodlist toggle 12
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := func() error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return g.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					task, err := a.Client.ToggleTask(ctx, id)
					if err != nil {
						return fmt.Errorf("failed to toggle task: %w", err)
					}
					if task == nil {
						task = refetchTask(ctx, a, id)
					}
					if task == nil {
						if output.JSON {
							return output.PrintJSON(map[string]any{"success": true, "id": id})
						}
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "toggled task %s\n", id)
						return nil
					}
					if output.JSON {
						return output.PrintJSON(task)
					}
					box := "[ ]"
					if task.Completed {
						box = "[x]"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", box, task.Text)
					return nil
				})
			}()
			return output.HandleError(err)
		},
	}

	AddOutputArg(cmd, &output)
	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command, g *globalOptions) {
	output := OutputOptions{}
	yes := false

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task and all of its subtasks.",
		Example: `
moodlist delete 12
moodlist delete 12 --yes
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := func() error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return g.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					if !yes {
						ok, err := confirmDelete(ctx, cmd, a, id)
						if err != nil || !ok {
							return err
						}
					}
					if err := a.Client.DeleteTask(ctx, id); err != nil {
						return fmt.Errorf("failed to delete task: %w", err)
					}
					if output.JSON {
						return output.PrintJSON(map[string]any{"deleted": id})
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
					return nil
				})
			}()
			return output.HandleError(err)
		},
	}

	AddOutputArg(cmd, &output)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")
	topLevel.AddCommand(cmd)
}

// confirmDelete asks on stdin, naming the task and how many subtasks go with it
func confirmDelete(ctx context.Context, cmd *cobra.Command, a *app.App, id model.TaskID) (bool, error) {
	tasks, err := a.Client.ListTasks(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list tasks: %w", err)
	}
	idx := tree.NewIndex(tasks)
	task, ok := idx.Get(id)
	if !ok {
		return false, fmt.Errorf("task %s not found", id)
	}

	prompt := fmt.Sprintf("Delete %q", task.Text)
	if n := countDescendants(idx, id, map[model.TaskID]bool{}); n > 0 {
		prompt += fmt.Sprintf(" and %d subtask(s)", n)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s? [y/N] ", prompt)

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false, errors.New("no confirmation given")
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "kept")
	return false, nil
}

func countDescendants(idx *tree.Index, id model.TaskID, seen map[model.TaskID]bool) int {
	seen[id] = true
	n := 0
	for _, c := range idx.Children(id) {
		if seen[c.ID] {
			continue
		}
		n += 1 + countDescendants(idx, c.ID, seen)
	}
	return n
}

type editOptions struct {
	output     OutputOptions
	text       string
	emotions   []string
	completion []string
	estimate   string
}

func (o *editOptions) update(cmd *cobra.Command) model.TaskUpdate {
	var u model.TaskUpdate
	flags := cmd.Flags()
	if flags.Changed("text") {
		u.Text = model.Ptr(o.text)
	}
	if flags.Changed("emotion") {
		u.CurrentEmotion = model.Ptr(emotion.FormatList(o.emotions))
	}
	if flags.Changed("completion") {
		u.CompletionEmotion = model.Ptr(emotion.FormatList(o.completion))
	}
	if flags.Changed("estimate") {
		u.TotalTimeEstimate = model.Ptr(strings.TrimSpace(o.estimate))
	}
	return u
}

func addEdit(topLevel *cobra.Command, g *globalOptions) {
	eo := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's text, emotions or estimate.",
		Example: `
moodlist edit 12 --text "Write the report"
moodlist edit 12 --emotion Anxious --emotion Curious
moodlist edit 12 --completion Proud --estimate "1h 30m"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := func() error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				u := eo.update(cmd)
				if u.IsEmpty() {
					return errors.New("nothing to change: pass --text, --emotion, --completion or --estimate")
				}
				if u.Text != nil && strings.TrimSpace(*u.Text) == "" {
					return errors.New("task text must not be empty")
				}
				return g.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					for _, l := range append(append([]string{}, eo.emotions...), eo.completion...) {
						if _, ok := emotion.Default().Classify(l); !ok {
							a.Logger.Debug("emotion not on the wheel", "label", l)
							_, _ = color.New(color.Faint).Fprintf(cmd.ErrOrStderr(), "note: %q is not on the emotion wheel\n", l)
						}
					}
					if err := a.Client.UpdateTask(ctx, id, u); err != nil {
						return fmt.Errorf("failed to update task: %w", err)
					}
					if eo.output.JSON {
						return eo.output.PrintJSON(map[string]any{"updated": id, "changes": u})
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", id)
					return nil
				})
			}()
			return eo.output.HandleError(err)
		},
	}

	AddOutputArg(cmd, &eo.output)
	cmd.Flags().StringVar(&eo.text, "text", "", "New task text.")
	cmd.Flags().StringSliceVar(&eo.emotions, "emotion", nil, "Current emotions, repeat or comma separate.")
	cmd.Flags().StringSliceVar(&eo.completion, "completion", nil, "Completion emotions, repeat or comma separate.")
	cmd.Flags().StringVar(&eo.estimate, "estimate", "", "Time estimate, e.g. \"45m\" or \"1.5h\".")

	topLevel.AddCommand(cmd)
}

func addGenerate(topLevel *cobra.Command, g *globalOptions) {
	output := OutputOptions{}

	cmd := &cobra.Command{
		Use:   "generate <context...>",
		Short: "Ask the store to break a goal into tasks.",
		Example: `
moodlist generate plan the team offsite
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			err := g.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if prompt == "" {
					return errors.New("context must not be empty")
				}
				if err := a.Client.Generate(ctx, prompt); err != nil {
					return fmt.Errorf("failed to generate tasks: %w", err)
				}
				a.Notifier.SendTasksGenerated(prompt)
				if output.JSON {
					return output.PrintJSON(map[string]any{"generated": prompt})
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "generated tasks for %q\n", prompt)
				return nil
			})
			return output.HandleError(err)
		},
	}

	AddOutputArg(cmd, &output)
	topLevel.AddCommand(cmd)
}

func addAPIKey(topLevel *cobra.Command, g *globalOptions) {
	cmd := newAPIKeyGet(g, "apikey", "Show the generation API key stored on the server.")
	cmd.Example = `
moodlist apikey
moodlist apikey get --json
moodlist apikey set sk-...
`
	cmd.AddCommand(newAPIKeyGet(g, "get", "Show the generation API key."))

	setOutput := OutputOptions{}
	set := &cobra.Command{
		Use:   "set <key>",
		Short: "Store a new generation API key on the server.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := g.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Client.SetAPIKey(ctx, strings.TrimSpace(args[0])); err != nil {
					return fmt.Errorf("failed to save api key: %w", err)
				}
				if setOutput.JSON {
					return setOutput.PrintJSON(map[string]bool{"saved": true})
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "api key saved")
				return nil
			})
			return setOutput.HandleError(err)
		},
	}
	AddOutputArg(set, &setOutput)

	cmd.AddCommand(set)
	topLevel.AddCommand(cmd)
}

func newAPIKeyGet(g *globalOptions, use, short string) *cobra.Command {
	output := &OutputOptions{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := g.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				key, err := a.Client.APIKey(ctx)
				if err != nil {
					return fmt.Errorf("failed to read api key: %w", err)
				}
				if output.JSON {
					return output.PrintJSON(map[string]string{"apiKey": key})
				}
				if key == "" {
					_, _ = color.New(color.Faint).Fprintln(cmd.OutOrStdout(), "no api key set")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			})
			return output.HandleError(err)
		},
	}
	AddOutputArg(cmd, output)
	return cmd
}

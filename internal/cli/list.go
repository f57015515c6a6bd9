package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dori/moodlist/internal/app"
	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/tree"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type listOptions struct {
	output  OutputOptions
	offline bool
	showID  bool
}

func addList(topLevel *cobra.Command, g *globalOptions) {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the task tree grouped by day.",
		Example: `
moodlist list
moodlist list --ids
moodlist list --offline --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := g.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				tasks, savedAt, err := fetchTasks(ctx, a, lo.offline)
				if err != nil {
					return err
				}
				if lo.output.JSON {
					return lo.output.PrintJSON(tasks)
				}
				out := cmd.OutOrStdout()
				if !savedAt.IsZero() {
					_, _ = color.New(color.FgYellow).Fprintf(out, "offline copy from %s\n\n", savedAt.Format("Jan 2 15:04"))
				}
				pp := &PrettyPrint{Out: out, ShowID: lo.showID, Now: time.Now()}
				pp.Groups(tree.Build(tasks))
				return nil
			})
			return lo.output.HandleError(err)
		},
	}

	AddOutputArg(cmd, &lo.output)
	cmd.Flags().BoolVar(&lo.offline, "offline", false, "Read the last saved copy instead of the store.")
	cmd.Flags().BoolVar(&lo.showID, "ids", false, "Show task ids.")

	topLevel.AddCommand(cmd)
}

// fetchTasks loads tasks from the store and refreshes the snapshot, or reads
// the snapshot alone when offline. savedAt is zero for live data.
func fetchTasks(ctx context.Context, a *app.App, offline bool) ([]model.Task, time.Time, error) {
	if offline {
		snap, err := a.Cache.LoadTasks()
		if err != nil {
			return nil, time.Time{}, err
		}
		return snap.Tasks, snap.SavedAt, nil
	}

	tasks, err := a.Client.ListTasks(ctx)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	if err := a.Cache.SaveTasks(tasks, time.Now()); err != nil {
		a.Logger.Warn("failed to save snapshot", "err", err)
	}
	return tasks, time.Time{}, nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/dori/moodlist/internal/emotion"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func addEmotions(topLevel *cobra.Command) {
	output := OutputOptions{}

	cmd := &cobra.Command{
		Use:   "emotions [label...]",
		Short: "Show the emotion wheel, or where labels sit on it.",
		Example: `
moodlist emotions
moodlist emotions Anxious Proud
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wheel := emotion.Default()
			labels := emotion.ParseList(strings.Join(args, ","))
			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)

			if len(labels) == 0 {
				if output.JSON {
					return output.HandleError(output.PrintJSON(wheel.Primaries()))
				}
				tbl := uitable.New()
				tbl.Separator = "  "
				tbl.Wrap = true
				tbl.MaxColWidth = 60
				tbl.AddRow(bold.Sprint("Primary"), bold.Sprint("Secondary"), bold.Sprint("Leaves"))
				for _, p := range wheel.Primaries() {
					name := p.Name + " " + color.New(color.Faint).Sprint(p.Color)
					for i, s := range p.Secondaries {
						if i > 0 {
							name = ""
						}
						tbl.AddRow(name, s.Name, strings.Join(s.Leaves, ", "))
					}
					if len(p.Secondaries) == 0 {
						tbl.AddRow(name, "", "")
					}
				}
				_, _ = fmt.Fprintln(out, tbl)
				return nil
			}

			matches := make([]emotion.Match, 0, len(labels))
			for _, l := range labels {
				m, _ := wheel.Classify(l)
				matches = append(matches, m)
			}
			if output.JSON {
				return output.HandleError(output.PrintJSON(matches))
			}
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("Label"), bold.Sprint("Depth"), bold.Sprint("Primary"),
				bold.Sprint("Secondary"), bold.Sprint("Color"))
			for _, m := range matches {
				tbl.AddRow(m.Label, m.Depth, m.Primary, m.Secondary, m.Color)
			}
			_, _ = fmt.Fprintln(out, tbl)
			return nil
		},
	}

	AddOutputArg(cmd, &output)
	topLevel.AddCommand(cmd)
}

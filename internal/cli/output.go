package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions selects between coloured text and JSON
type OutputOptions struct {
	JSON bool

	cmd *cobra.Command
}

// AddOutputArg adds --json to cmd
func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	po.cmd = cmd
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

func (o *OutputOptions) out() io.Writer {
	if o.cmd != nil {
		return o.cmd.OutOrStdout()
	}
	return color.Output
}

// PrintJSON writes v as indented JSON
func (o *OutputOptions) PrintJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(o.out(), string(b))
	return err
}

// HandleError reports err as {"error": ...} when JSON output is on
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(o.out(), string(b))
		return nil
	}
	return err
}

package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Commit and Date are set at build time
var (
	Commit = "none"
	Date   = "unknown"
)

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
}

func addVersion(topLevel *cobra.Command) {
	shortened := false
	output := "json"

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Get moodlist version.",
		Example: `
moodlist version
moodlist version -o yaml
`,
		Args: cobra.NoArgs,
		// Needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			if shortened {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
				return err
			}
			info := versionInfo{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}

			var b []byte
			var err error
			switch output {
			case "json":
				b, err = json.MarshalIndent(info, "", "  ")
				b = append(b, '\n')
			case "yaml":
				b, err = yaml.Marshal(info)
			default:
				return fmt.Errorf("unknown output format %q, want json or yaml", output)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")

	topLevel.AddCommand(cmd)
}

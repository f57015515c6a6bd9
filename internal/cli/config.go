package cli

import (
	"fmt"

	"github.com/dori/moodlist/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func addConfig(topLevel *cobra.Command, g *globalOptions) {
	showSecrets := false

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration.",
		Example: `
moodlist config
MOODLIST_SERVER_URL=https://tasks.example.com moodlist config
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *g.cfg
			if !showSecrets {
				cfg.Server.Session = redact(cfg.Server.Session)
				cfg.Serve.Token = redact(cfg.Serve.Token)
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			out := cmd.OutOrStdout()
			source := cfg.File
			if source == "" {
				source = "defaults (no file at " + config.DefaultPath() + ")"
			}
			_, _ = fmt.Fprintf(out, "# %s\n", source)
			_, err = out.Write(b)
			return err
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print session and token values.")
	topLevel.AddCommand(cmd)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

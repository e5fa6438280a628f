package main

import (
	"github.com/spf13/cobra"
)

func newMakeConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "make-config",
		Short: "Print the effective token settings as YAML",
		Long: `Print the token settings as a YAML settings file. With no other flags this is
the default configuration; any --open/--close/... flags are folded in, so the
output can be saved and passed back with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.tokenConfig()
			if err != nil {
				return err
			}
			out, err := cfg.Settings().YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

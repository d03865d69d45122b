package command

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func scriptCommand(fs afero.Fs) *cobra.Command {
	var libraryPath string
	cmd := &cobra.Command{
		Use:   "script",
		Short: "print the page bootstrap script for the configured query library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			script, err := buildScript(fs, cfg.Config(), libraryPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), script)
			return err
		},
	}
	cmd.Flags().StringVar(&libraryPath, "library", "", "query library bundle to embed")
	return cmd
}

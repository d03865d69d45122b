// Package command contains the CLI command constructors.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/observability"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	return rootCommand(afero.NewOsFs())
}

func rootCommand(fs afero.Fs) *cobra.Command {
	configFilePath := config.DefaultPath()
	cmd := &cobra.Command{
		Use:          "rodtl [command] [flags]",
		Short:        "Testing Library queries for browser automation",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := loadOrInitConfig(fs, configFilePath)
			if err != nil {
				return fmt.Errorf("failed to load configuration file: %w", err)
			}
			logger := observability.InitSlog(cfg.Log)
			logger.DebugContext(cmd.Context(), "configuration loaded",
				slog.String("path", configFilePath),
				slog.String("backend", cfg.Browser.Backend),
			)
			slog.SetDefault(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(
		&configFilePath,
		"config", "c",
		configFilePath,
		"path to the configuration file",
	)

	cmd.AddCommand(
		selectorsCommand(),
		encodeCommand(),
		queryCommand(fs),
		scriptCommand(fs),
		serveCommand(fs),
		versionCommand(),
	)

	return cmd
}

// loadOrInitConfig loads the configuration file, offering to write the
// defaults when it does not exist. Without a terminal to ask on, the
// defaults are used as is.
func loadOrInitConfig(fs afero.Fs, configFilePath string) (*config.File, error) {
	cfg, err := config.Load(fs, configFilePath)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if !interactive() {
		return config.DefaultFile(), nil
	}

	resp, initErr := prompt(fmt.Sprintf("Config not found at %s. Create one? [y|N] ", configFilePath), false)
	if initErr != nil || !bytes.Equal(resp, []byte("y")) {
		return config.DefaultFile(), nil //nolint:nilerr // declining keeps the defaults
	}

	cfg = config.DefaultFile()
	data, err := cfg.Marshal()
	if err != nil {
		return nil, err
	}
	if err = afero.WriteFile(fs, configFilePath, data, 0600); err != nil { //nolint:mnd // owner rw access
		return nil, fmt.Errorf("failed to write config file to %s: %w", configFilePath, err)
	}
	return cfg, nil
}

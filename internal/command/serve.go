package command

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/rodtl/internal/app"
	"github.com/stolasapp/rodtl/internal/bootstrap"
	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/server"
)

func serveCommand(fs afero.Fs) *cobra.Command {
	var (
		addr        string
		libraryPath string
	)
	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "serve fixture documents and the page bootstrap script over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			script, err := buildScript(fs, cfg.Config(), libraryPath)
			if err != nil {
				return err
			}

			grp, ctx := errgroup.WithContext(cmd.Context())
			err = serveFixtures(ctx, grp, logger, app.New(logger, fs, app.Options{
				Root:   root,
				Script: script,
				Dev:    cfg.Log.Dev,
			}), addr)
			if err != nil {
				return err
			}
			return grp.Wait()
		},
	}
	cmd.Flags().StringVarP(&addr, "address", "a", "127.0.0.1:8080", "address to listen on")
	cmd.Flags().StringVar(&libraryPath, "library", "", "query library bundle to embed in the bootstrap script")
	return cmd
}

func serveFixtures(
	ctx context.Context,
	grp *errgroup.Group,
	logger *slog.Logger,
	handler http.Handler,
	addr string,
) error {
	bound, err := server.Start(ctx, grp, handler, addr)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx,
		"starting fixture server...",
		slog.String("address", bound.String()),
		slog.String("script", app.ScriptPath),
	)
	return nil
}

// buildScript renders and validates the bootstrap script for cfg, embedding
// the library bundle at libraryPath when given.
func buildScript(fs afero.Fs, cfg config.Config, libraryPath string) (string, error) {
	library, err := readLibrary(fs, libraryPath)
	if err != nil {
		return "", fmt.Errorf("failed to read query library: %w", err)
	}
	script, err := bootstrap.Build(bootstrap.Options{Config: cfg, Library: library})
	if err != nil {
		return "", err
	}
	if err = bootstrap.Validate(script); err != nil {
		return "", err
	}
	return script, nil
}

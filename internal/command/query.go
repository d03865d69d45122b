package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/content"
	"github.com/stolasapp/rodtl/internal/locator"
	"github.com/stolasapp/rodtl/internal/query"
)

func queryCommand(fs afero.Fs) *cobra.Command {
	var (
		markdown    bool
		dumpDOM     bool
		libraryPath string
	)
	cmd := &cobra.Command{
		Use:   "query <source> <query-name> [json-args]",
		Short: "run a query against a document and print the matches",
		Long: `Loads a document from a path or URL, runs a query against it and prints
the inner HTML of every match. Markdown documents are rendered to HTML first.`,
		Example: `  rodtl query fixtures/form.md getAllByRole '["textbox"]'
  rodtl query https://example.com findByText '["__REGEXP /example/i"]' --markdown`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			library, err := readLibrary(fs, libraryPath)
			if err != nil {
				return fmt.Errorf("failed to read query library: %w", err)
			}
			ctx := cmd.Context()
			b, err := openBackend(ctx, fs, cfg, logger, library)
			if err != nil {
				return err
			}
			defer func() {
				if err := b.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			page, err := b.OpenPage(ctx)
			if err != nil {
				return err
			}
			if err = page.Goto(ctx, args[0]); err != nil {
				return err
			}

			queries := locator.Within(page, cfg.Config())
			name, callArgs, err := parseCall(queries.Config().Codec(), args[1:])
			if err != nil {
				return err
			}
			loc, err := run(ctx, queries, name, callArgs)
			if err != nil {
				return err
			}
			logger.DebugContext(ctx, "query resolved", slog.String("selector", loc.Selector()))
			if err = writeMatches(ctx, cmd.OutOrStdout(), loc.Unwrap(), markdown); err != nil {
				return err
			}
			if dumpDOM {
				return writeDocument(ctx, cmd.OutOrStdout(), page, markdown)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print matches as Markdown")
	cmd.Flags().BoolVar(&dumpDOM, "dom", false, "print the document body after the matches")
	cmd.Flags().StringVar(&libraryPath, "library", "", "query library bundle to load into rod pages")
	return cmd
}

func run(ctx context.Context, queries *locator.Queries, name query.Name, args []any) (*locator.Locator, error) {
	if name.IsFind() {
		return queries.Find(name, args...).Await(ctx)
	}
	return queries.Run(name, args...), nil
}

var (
	htmlToMarkdown = content.HTMLToMarkdown()
	extractBody    = content.ExtractHTMLBody()
)

func writeMatches(ctx context.Context, w io.Writer, loc browser.Locator, markdown bool) error {
	matches, err := loc.All(ctx)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(w, "%d match(es) for %s\n", len(matches), loc.Selector()); err != nil {
		return err
	}
	for i, match := range matches {
		inner, err := match.InnerHTML(ctx)
		if err != nil {
			return fmt.Errorf("failed to read match %d: %w", i, err)
		}
		out := []byte(inner)
		if markdown {
			if out, err = htmlToMarkdown(out); err != nil {
				return err
			}
		}
		if _, err = fmt.Fprintf(w, "\n--- %d\n%s\n", i, out); err != nil {
			return err
		}
	}
	return nil
}

func writeDocument(ctx context.Context, w io.Writer, page browser.Page, markdown bool) error {
	markup, err := page.Content(ctx)
	if err != nil {
		return err
	}
	transform := extractBody
	if markdown {
		transform = content.Chain(extractBody, htmlToMarkdown)
	}
	body, err := transform([]byte(markup))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n--- document\n%s\n", body)
	return err
}

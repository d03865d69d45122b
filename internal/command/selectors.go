package command

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stolasapp/rodtl/internal/engine"
	"github.com/stolasapp/rodtl/internal/query"
)

func selectorsCommand() *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "selectors",
		Short: "list every query and the selector engine it is registered as",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeSelectors(cmd.OutOrStdout(), query.Default(), !noColor && isTerminal(cmd.OutOrStdout()))
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func writeSelectors(w io.Writer, reg *query.Registry, colored bool) error {
	syncColor := newColor(colored, color.FgGreen)
	findColor := newColor(colored, color.FgCyan)
	faint := newColor(colored, color.Faint)
	for _, name := range reg.All() {
		family, c := "sync", syncColor
		if name.IsFind() {
			family, c = "find", findColor
		}
		if _, err := fmt.Fprintf(w, "%s %s %s\n",
			c.Sprintf("%-25s", name),
			faint.Sprintf("%-4s", family),
			name.SelectorPrefix(),
		); err != nil {
			return err
		}
	}
	for _, strategy := range query.Strategies {
		if _, err := fmt.Fprintf(w, "%s %s %s\n",
			syncColor.Sprintf("%-25s", "queryAllBy"+string(strategy)),
			faint.Sprintf("%-4s", "text"),
			engine.SimpleName(strategy),
		); err != nil {
			return err
		}
	}
	return nil
}

// newColor returns a color that honors colored rather than the package-wide
// terminal detection.
func newColor(colored bool, attr color.Attribute) *color.Color {
	c := color.New(attr)
	if colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/query"
	"github.com/stolasapp/rodtl/internal/selector"
)

func encodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <query-name> [json-args]",
		Short: "print the selector a query call is encoded as",
		Long: `Prints the selector a query call is encoded as. Arguments are a JSON array;
tagged strings such as "__REGEXP /hello/i" are revived before encoding.`,
		Example: `  rodtl encode getByRole '["button", {"name": "__REGEXP /submit/i"}]'`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			c := cfg.Config().Codec()
			name, callArgs, err := parseCall(c, args)
			if err != nil {
				return err
			}
			sel, err := selector.Build(name, c, callArgs)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sel)
			return err
		},
	}
}

func parseCall(c *codec.Codec, args []string) (query.Name, []any, error) {
	name, err := query.Parse(args[0])
	if err != nil {
		return "", nil, err
	}
	if len(args) < 2 {
		return name, nil, nil
	}
	callArgs, err := c.Decode(args[1])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode %s arguments: %w", name, err)
	}
	return name, callArgs, nil
}

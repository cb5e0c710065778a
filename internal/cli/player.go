package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/response"
)

func newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <name>",
		Short: "Show a player's wins and losses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayerRecord

			path := fmt.Sprintf("/api/v1/players/%s/record", url.PathEscape(args[0]))
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

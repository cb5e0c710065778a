package cli

import (
	"github.com/spf13/cobra"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/response"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is logged in and how the current match stands",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Status

			if err := client.Get("/api/v1/status", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

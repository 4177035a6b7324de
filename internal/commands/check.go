package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/billconv/internal/pipeline"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check file",
		Short: "Validate and summarize an existing ledger CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := pipeline.Check(cmd.Context(), args[0])
			if report != nil {
				printSummary(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
			return nil
		},
	}
}

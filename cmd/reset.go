package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/climastery/internal/ui/prompt"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		s, err := openSession(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		if !yes && !prompt.ConfirmExact(s.In, "Reset ALL progress? This cannot be undone. Type 'reset' to confirm", "reset") {
			fmt.Fprintln(out, "\nReset cancelled.")
			return nil
		}
		s.Ledger.Reset(cmd.Context())
		fmt.Fprintln(out, "\nProgress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

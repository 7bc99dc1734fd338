package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/climastery/internal/app"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show level, XP and learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		app.ShowDashboard(s.UI, s.Ledger, s.Content)
		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and which are unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		app.ShowAchievements(s.UI, s.Ledger, s.Content)
		return nil
	},
}

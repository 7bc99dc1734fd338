package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/climastery/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show assessment attempts and recent progress from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		s, err := openSession(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		if s.Journal == nil {
			return errors.New("journal is disabled; set storage.journal: true in the config")
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		sums, err := s.Journal.RunSummaries(ctx)
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}
		if len(sums) == 0 {
			fmt.Fprintln(out, "No assessment runs recorded yet.")
		} else {
			fmt.Fprintf(out, "%-9s  %-34s  %-8s  %-6s  %-7s  %s\n",
				"Kind", "Assessment", "Attempts", "Passes", "Best", "Last run")
			fmt.Fprintln(out, strings.Repeat("─", 90))
			for _, r := range sums {
				fmt.Fprintf(out, "%-9s  %-34s  %-8d  %-6d  %-7s  %s\n",
					r.Kind,
					truncate(r.Subject, 34),
					r.Attempts,
					r.Passes,
					fmt.Sprintf("%d/%d", r.BestCorrect, r.BestTotal),
					r.LastRun.Local().Format("2006-01-02 15:04"),
				)
			}
		}

		if limit <= 0 {
			return nil
		}
		events, err := s.Journal.QueryProgressEvents(ctx, store.QueryOpts{Limit: limit, Kind: kind})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-19s  %-11s  %-30s  %5s  %s\n", "Timestamp", "Event", "Subject", "XP", "Detail")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, e := range events {
			fmt.Fprintf(out, "%-19s  %-11s  %-30s  %5d  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Kind,
				truncate(e.Subject, 30),
				e.Amount,
				e.Detail,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of recent progress events to show (0 hides them)")
	historyCmd.Flags().String("kind", "", "Only show progress events of this kind (lesson, quiz, scenario, achievement, section, reset)")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

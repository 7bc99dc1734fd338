package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/climastery/internal/ui/prompt"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <module>",
	Short: "Take one module's quiz (or scenario) directly",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ictx, stop := interruptContext(cmd)
		defer stop()

		s, err := openSession(ictx, cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		m, ok := s.Content.Module(args[0])
		if !ok {
			ids := make([]string, len(s.Content.Modules))
			for i, mod := range s.Content.Modules {
				ids[i] = mod.ID
			}
			return fmt.Errorf("unknown module %q (available: %s)", args[0], strings.Join(ids, ", "))
		}

		defer func() {
			if ictx.Err() != nil {
				printPaused(cmd.OutOrStdout())
			}
		}()

		ctx := cmd.Context()
		if scenario, _ := cmd.Flags().GetBool("scenario"); scenario {
			if res := s.Runner.RunScenario(ctx, m.Scenario); res.Passed {
				s.Ledger.CheckModuleAchievements(ctx)
			}
			return nil
		}

		if again, _ := cmd.Flags().GetBool("repeat"); again {
			for {
				if res := s.Runner.RunQuiz(ctx, m.Quiz); res.Quit {
					return nil
				}
				if !prompt.Confirm(s.In, "Take it again?") {
					return nil
				}
			}
		}
		s.Runner.RunQuiz(ctx, m.Quiz)
		return nil
	},
}

func init() {
	quizCmd.Flags().Bool("scenario", false, "Run the module's scenario challenge instead of its quiz")
	quizCmd.Flags().Bool("repeat", false, "Offer to retake the quiz after each run")
}

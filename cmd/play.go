package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/climastery/internal/app"
)

const pausedMessage = "Training paused. Your progress is saved! 🚀"

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the interactive trainer",
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	ictx, stop := interruptContext(cmd)
	defer stop()

	s, err := openSession(ictx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Run(cmd.Context()); err != nil {
		if errors.Is(err, app.ErrInterrupted) {
			printPaused(cmd.OutOrStdout())
			return nil
		}
		return err
	}
	return nil
}

// openSession builds a session on the command's streams. Input reads
// return app.ErrInterrupted once ctx is done.
func openSession(ctx context.Context, cmd *cobra.Command) (*app.Session, error) {
	return app.Open(ctx, app.Env{
		Config: cfg,
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		Logger: logger,
	})
}

func printPaused(w io.Writer) {
	fmt.Fprintf(w, "\n\n  %s\n\n", pausedMessage)
}

// interruptContext returns a context cancelled by the first SIGINT or
// SIGTERM. Cancellation only interrupts pending input, so the command
// unwinds on its own goroutine and runs its deferred cleanup. A second
// signal gets the default behaviour.
func interruptContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}

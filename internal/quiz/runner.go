package quiz

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/climastery/internal/store"
)

// Ledger receives scoring events from a run.
type Ledger interface {
	RecordCorrect(ctx context.Context)
	RecordIncorrect(ctx context.Context)
	CompleteQuiz(ctx context.Context, id string, correct, total int, elapsed *time.Duration)
	CompleteScenario(ctx context.Context, id string)
	CompleteExam(ctx context.Context, correct, total, passPercent int) bool
}

// Sink displays run output.
type Sink interface {
	Heading(title string)
	Rule()
	Status(msg string)
	Note(msg string)
	Success(msg string)
	Error(msg string)
	Tip(msg string)
	Difficulty(level string)
	Options(opts []string)
}

// Input supplies learner responses one line at a time. It returns io.EOF
// when no more input is available.
type Input interface {
	ReadLine(prompt string) (string, error)
}

// Options configures a Runner. Ledger, Sink and Input are required.
type Options struct {
	Ledger Ledger
	Sink   Sink
	Input  Input

	// Journal, when set, records every finished or abandoned run.
	Journal store.EventRepo

	// Rand shuffles question order. Defaults to a randomly seeded source.
	Rand *rand.Rand

	// NoShuffle keeps questions in content order.
	NoShuffle bool

	// Now defaults to time.Now.
	Now func() time.Time

	// OnPhase, when set, observes every quiz phase transition.
	OnPhase func(p Phase, question int)

	Logger *zap.Logger
}

// Runner executes assessments.
type Runner struct {
	ledger    Ledger
	sink      Sink
	in        Input
	journal   store.EventRepo
	rng       *rand.Rand
	noShuffle bool
	now       func() time.Time
	onPhase   func(Phase, int)
	log       *zap.Logger
}

// NewRunner returns a runner with defaults applied.
func NewRunner(opts Options) *Runner {
	r := &Runner{
		ledger:    opts.Ledger,
		sink:      opts.Sink,
		in:        opts.Input,
		journal:   opts.Journal,
		rng:       opts.Rand,
		noShuffle: opts.NoShuffle,
		now:       opts.Now,
		onPhase:   opts.OnPhase,
		log:       opts.Logger,
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// errQuit marks an explicit quit or end of input.
var errQuit = errors.New("quit")

// read returns the next response, mapping "q" and end of input to errQuit.
func (r *Runner) read(prompt string) (string, error) {
	line, err := r.in.ReadLine(prompt)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.log.Warn("input failed, ending run", zap.Error(err))
		}
		return "", errQuit
	}
	resp := normalize(line)
	if resp == "q" {
		return "", errQuit
	}
	return resp, nil
}

func (r *Runner) journalRun(ctx context.Context, data store.RunEventData) {
	if r.journal == nil {
		return
	}
	if err := r.journal.AppendRunEvent(ctx, data); err != nil {
		r.log.Warn("failed to journal run", zap.String("kind", data.Kind), zap.Error(err))
	}
}

func newRunID() string {
	return uuid.NewString()
}

package quiz

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/climastery/internal/store"
)

// Pass marks, in percent.
const (
	ScenarioPassPercent = 70
	DefaultExamPercent  = 80
)

// ScenarioResult summarizes a scenario run.
type ScenarioResult struct {
	RunID     string
	ID        string
	Correct   int
	Total     int
	Passed    bool
	Abandoned bool
}

// Percent returns the floor percentage of correct steps.
func (r ScenarioResult) Percent() int {
	if r.Total <= 0 {
		return 0
	}
	return 100 * r.Correct / r.Total
}

// RunScenario plays the steps of c in order. Reaching the pass mark
// completes the scenario; quitting abandons it without completion.
func (r *Runner) RunScenario(ctx context.Context, c Challenge) ScenarioResult {
	res := ScenarioResult{RunID: newRunID(), ID: c.ID, Total: len(c.Steps)}
	start := r.now()

	r.sink.Heading("🧩 Scenario: " + c.Title)
	if c.Description != "" {
		r.sink.Status(c.Description)
	}
	if c.Difficulty != "" {
		r.sink.Difficulty(c.Difficulty)
	}

	for i, step := range c.Steps {
		r.sink.Status(fmt.Sprintf("Step %d/%d: %s", i+1, len(c.Steps), step.Prompt))
		r.sink.Options(step.Options)

		idx, ok := r.choose(len(step.Options))
		if !ok {
			res.Abandoned = true
			break
		}
		if idx == step.Answer {
			res.Correct++
			r.sink.Success(orDefault(step.Success, "Correct approach!"))
		} else {
			r.sink.Error(orDefault(step.Failure, "Not the best approach."))
			r.sink.Note("Better: " + step.Options[step.Answer])
		}
		if step.Explanation != "" {
			r.sink.Note("💬 " + step.Explanation)
		}
	}

	if !res.Abandoned {
		res.Passed = res.Total > 0 && 100*res.Correct >= ScenarioPassPercent*res.Total
		r.sink.Heading("Scenario Complete")
		r.sink.Status(fmt.Sprintf("Steps correct: %d/%d (%d%%)", res.Correct, res.Total, res.Percent()))
		if res.Passed {
			r.ledger.CompleteScenario(ctx, c.ID)
			r.sink.Success("Scenario passed!")
		} else {
			r.sink.Note(fmt.Sprintf("Try again to pass this scenario (need %d%%+)", ScenarioPassPercent))
		}
	}

	r.log.Info("scenario run finished",
		zap.String("scenario", c.ID),
		zap.Int("correct", res.Correct),
		zap.Bool("passed", res.Passed),
		zap.Bool("abandoned", res.Abandoned))
	r.journalRun(ctx, store.RunEventData{
		RunID:   res.RunID,
		Kind:    store.RunScenario,
		Subject: c.ID,
		Correct: res.Correct,
		Total:   res.Total,
		Elapsed: r.now().Sub(start),
		Passed:  res.Passed,
		Quit:    res.Abandoned,
	})
	return res
}

// choose reads a 1-based option number and returns it 0-based.
func (r *Runner) choose(n int) (int, bool) {
	for {
		resp, err := r.read("Your choice")
		if err != nil {
			return 0, false
		}
		idx, convErr := strconv.Atoi(resp)
		if convErr == nil && idx >= 1 && idx <= n {
			return idx - 1, true
		}
		r.sink.Note(fmt.Sprintf("Enter 1-%d", n))
	}
}

// RunArena asks for a free-text workflow and passes it when every required
// token appears. A pass completes the scenario named by the title.
func (r *Runner) RunArena(ctx context.Context, a ArenaChallenge) bool {
	start := r.now()
	r.sink.Heading("📋 " + a.Title)
	if a.Difficulty != "" {
		r.sink.Difficulty(a.Difficulty)
	}
	r.sink.Status(a.Prompt)

	answer, err := r.read("Your command/shortcut workflow")
	abandoned := err != nil
	matched := 0
	passed := false
	if !abandoned {
		matched = len(a.Matched(answer))
		passed = matched == len(a.Required)
		if passed {
			r.sink.Success("Mission cleared!")
			r.ledger.CompleteScenario(ctx, a.Title)
		} else {
			r.sink.Error("Not enough key moves included.")
			r.sink.Note("Needed: " + strings.Join(a.Required, ", "))
			r.sink.Note("Reference: " + a.ModelAnswer)
		}
	}

	r.journalRun(ctx, store.RunEventData{
		RunID:   newRunID(),
		Kind:    store.RunArena,
		Subject: a.Title,
		Correct: matched,
		Total:   len(a.Required),
		Elapsed: r.now().Sub(start),
		Passed:  passed,
		Quit:    abandoned,
	})
	return passed
}

// RunExam plays qz as the final exam. The exam is graded against every
// question, so quitting early counts the rest as wrong.
func (r *Runner) RunExam(ctx context.Context, qz Quiz, passPercent int) Result {
	if passPercent <= 0 {
		passPercent = DefaultExamPercent
	}
	res := r.play(ctx, qz)

	res.Passed = r.ledger.CompleteExam(ctx, res.Correct, res.Total, passPercent)
	if res.Passed {
		r.sink.Success("🎓 CERTIFICATION EARNED: CLI Master")
	} else if !res.Quit {
		r.sink.Note(fmt.Sprintf("Score %d%%+ to earn certification. Keep training!", passPercent))
	}

	r.journalRun(ctx, store.RunEventData{
		RunID:   res.RunID,
		Kind:    store.RunExam,
		Subject: qz.ID,
		Correct: res.Correct,
		Total:   res.Total,
		Elapsed: res.Elapsed,
		Passed:  res.Passed,
		Quit:    res.Quit,
	})
	return res
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

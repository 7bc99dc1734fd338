package quiz

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/climastery/internal/store"
)

// Points shown for a correct answer, with and without a hint.
const (
	PointsCorrect = 15
	PointsHinted  = 8
)

// StreakDisplayMin is the in-run streak at which the streak badge shows.
const StreakDisplayMin = 3

// Result summarizes a quiz run.
type Result struct {
	RunID     string
	QuizID    string
	Correct   int
	Attempted int
	Total     int
	Hinted    int
	Elapsed   time.Duration
	Quit      bool
	Passed    bool
}

// Percent returns the floor percentage of correct answers over the quiz
// length, 0 for an empty quiz.
func (r Result) Percent() int {
	if r.Total <= 0 {
		return 0
	}
	return 100 * r.Correct / r.Total
}

// Grade returns the grade band for a percentage score.
func Grade(pct int) string {
	switch {
	case pct >= 100:
		return "PERFECT! 🌟"
	case pct >= 80:
		return "Excellent! 🎉"
	case pct >= 60:
		return "Good job! 👍"
	case pct >= 40:
		return "Keep practicing! 📚"
	default:
		return "Review the material! 📖"
	}
}

// RunQuiz plays every question of qz, reporting each answer to the ledger
// and the final score through CompleteQuiz. Quitting reports the score
// against the questions answered so far.
func (r *Runner) RunQuiz(ctx context.Context, qz Quiz) Result {
	res := r.play(ctx, qz)
	r.journalRun(ctx, store.RunEventData{
		RunID:   res.RunID,
		Kind:    store.RunQuiz,
		Subject: qz.ID,
		Correct: res.Correct,
		Total:   res.Attempted,
		Elapsed: res.Elapsed,
		Passed:  !res.Quit && res.Total > 0 && res.Correct == res.Total,
		Quit:    res.Quit,
	})
	return res
}

func (r *Runner) play(ctx context.Context, qz Quiz) Result {
	questions := make([]Question, len(qz.Questions))
	copy(questions, qz.Questions)
	if !r.noShuffle {
		r.rng.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	res := Result{RunID: newRunID(), QuizID: qz.ID, Total: len(questions)}
	m := &machine{observe: r.onPhase}
	start := r.now()
	streak := 0

	r.sink.Heading("🎯 " + qz.Title)
	r.sink.Note("Answer the following questions to test your knowledge.")
	r.sink.Note("Type the number of your answer, or 'h' for a hint, 'q' to quit.")

	for i, q := range questions {
		m.enter(PhasePresenting, i)
		r.present(q, i+1, len(questions), streak)

		m.enter(PhaseAnswering, i)
		correct, hinted, err := r.answer(q)
		if err != nil {
			m.enter(PhaseQuit, i)
			res.Quit = true
			break
		}

		m.enter(PhaseScored, i)
		res.Attempted++
		if hinted {
			res.Hinted++
		}
		if correct {
			res.Correct++
			streak++
			r.ledger.RecordCorrect(ctx)
		} else {
			streak = 0
			r.ledger.RecordIncorrect(ctx)
		}
		r.feedback(q, correct, hinted)
	}
	if !m.phase.Terminal() {
		m.enter(PhaseFinished, len(questions))
	}

	res.Elapsed = r.now().Sub(start)
	if res.Quit {
		r.sink.Note(fmt.Sprintf("Quiz ended early: %d of %d answered.", res.Attempted, res.Total))
	} else {
		r.summarize(res)
	}

	elapsed := res.Elapsed
	r.ledger.CompleteQuiz(ctx, qz.ID, res.Correct, res.Attempted, &elapsed)
	r.log.Info("quiz run finished",
		zap.String("quiz", qz.ID),
		zap.Int("correct", res.Correct),
		zap.Int("attempted", res.Attempted),
		zap.Bool("quit", res.Quit))
	return res
}

func (r *Runner) present(q Question, n, total, streak int) {
	r.sink.Rule()
	header := fmt.Sprintf("Question %d/%d", n, total)
	if q.Difficulty != "" {
		header += fmt.Sprintf("  (%s)", q.Difficulty)
	}
	if streak >= StreakDisplayMin {
		header += fmt.Sprintf("  🔥 Streak: %d", streak)
	}
	r.sink.Status(header)

	switch q.Kind {
	case KindScenario:
		r.sink.Status("📋 Scenario:")
		for _, line := range strings.Split(q.Narrative, "\n") {
			r.sink.Status("  " + line)
		}
		r.sink.Status(q.Prompt)
		r.sink.Options(q.Choices)
	case KindChoice:
		r.sink.Status(q.Prompt)
		r.sink.Options(q.Choices)
	case KindFillIn:
		r.sink.Status(q.Prompt)
	}
}

// answer reads until a resolving response. Invalid responses re-prompt.
func (r *Runner) answer(q Question) (correct, hinted bool, err error) {
	prompt := "Your answer"
	if q.Kind == KindFillIn {
		prompt = "Type your answer"
	}
	for {
		resp, err := r.read(prompt)
		if err != nil {
			return false, hinted, err
		}
		if resp == "h" && q.HasHint() {
			r.sink.Tip(q.Hint)
			hinted = true
			continue
		}

		switch q.Kind {
		case KindFillIn:
			if resp == "" {
				r.sink.Note("Type an answer, 'h' for hint, or 'q' to quit")
				continue
			}
			return q.Accepts(resp), hinted, nil
		case KindChoice, KindScenario:
			idx, convErr := strconv.Atoi(resp)
			if convErr == nil && idx >= 1 && idx <= len(q.Choices) {
				return idx-1 == q.Answer, hinted, nil
			}
			r.sink.Note(fmt.Sprintf("Enter 1-%d, 'h' for hint, or 'q' to quit", len(q.Choices)))
		}
	}
}

func (r *Runner) feedback(q Question, correct, hinted bool) {
	switch {
	case correct && q.Kind == KindFillIn:
		r.sink.Success("Correct!")
	case correct:
		points := PointsCorrect
		if hinted {
			points = PointsHinted
		}
		r.sink.Success(fmt.Sprintf("Correct! (+%d XP)", points))
	case q.Kind == KindFillIn:
		r.sink.Error("The answer was: " + q.CorrectText())
	default:
		r.sink.Error("Wrong! The answer was: " + q.CorrectText())
	}
	if q.Explanation != "" {
		r.sink.Note("💬 " + q.Explanation)
	}
}

func (r *Runner) summarize(res Result) {
	pct := res.Percent()
	r.sink.Heading("📊 Results")
	r.sink.Status(fmt.Sprintf("Score: %d/%d (%d%%)", res.Correct, res.Total, pct))
	r.sink.Status("Grade: " + Grade(pct))
	r.sink.Status(fmt.Sprintf("Time:  %ds", int(res.Elapsed.Seconds())))
}

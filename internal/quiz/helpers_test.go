package quiz

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/climastery/internal/store"
)

// fakeLedger records scoring calls.
type fakeLedger struct {
	calls     []string
	quizzes   []string
	elapsed   []*time.Duration
	scenarios []string
	examPass  bool
}

func (f *fakeLedger) RecordCorrect(_ context.Context)   { f.calls = append(f.calls, "correct") }
func (f *fakeLedger) RecordIncorrect(_ context.Context) { f.calls = append(f.calls, "incorrect") }

func (f *fakeLedger) CompleteQuiz(_ context.Context, id string, correct, total int, elapsed *time.Duration) {
	f.quizzes = append(f.quizzes, fmt.Sprintf("%s %d/%d", id, correct, total))
	f.elapsed = append(f.elapsed, elapsed)
}

func (f *fakeLedger) CompleteScenario(_ context.Context, id string) {
	f.scenarios = append(f.scenarios, id)
}

func (f *fakeLedger) CompleteExam(_ context.Context, correct, total, passPercent int) bool {
	f.examPass = total > 0 && 100*correct >= passPercent*total
	f.calls = append(f.calls, fmt.Sprintf("exam %d/%d@%d", correct, total, passPercent))
	return f.examPass
}

// fakeSink records every line with a tag.
type fakeSink struct {
	lines []string
}

func (s *fakeSink) add(tag, msg string)     { s.lines = append(s.lines, tag+": "+msg) }
func (s *fakeSink) Heading(title string)    { s.add("heading", title) }
func (s *fakeSink) Rule()                   { s.add("rule", "") }
func (s *fakeSink) Status(msg string)       { s.add("status", msg) }
func (s *fakeSink) Note(msg string)         { s.add("note", msg) }
func (s *fakeSink) Success(msg string)      { s.add("success", msg) }
func (s *fakeSink) Error(msg string)        { s.add("error", msg) }
func (s *fakeSink) Tip(msg string)          { s.add("tip", msg) }
func (s *fakeSink) Difficulty(level string) { s.add("difficulty", level) }
func (s *fakeSink) Options(opts []string)   { s.add("options", strings.Join(opts, "|")) }

func (s *fakeSink) has(line string) bool {
	for _, l := range s.lines {
		if l == line {
			return true
		}
	}
	return false
}

func (s *fakeSink) count(prefix string) int {
	n := 0
	for _, l := range s.lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

// scriptInput replays fixed responses and then reports end of input.
type scriptInput struct {
	lines   []string
	prompts []string
	err     error
}

func (in *scriptInput) ReadLine(prompt string) (string, error) {
	in.prompts = append(in.prompts, prompt)
	if len(in.lines) == 0 {
		if in.err != nil {
			return "", in.err
		}
		return "", io.EOF
	}
	line := in.lines[0]
	in.lines = in.lines[1:]
	return line, nil
}

// memJournal records run events.
type memJournal struct {
	runs []store.RunEventData
}

func (m *memJournal) AppendProgressEvent(_ context.Context, _ store.ProgressEventData) error {
	return nil
}
func (m *memJournal) AppendRunEvent(_ context.Context, data store.RunEventData) error {
	m.runs = append(m.runs, data)
	return nil
}
func (m *memJournal) QueryProgressEvents(_ context.Context, _ store.QueryOpts) ([]store.ProgressEventRecord, error) {
	return nil, nil
}
func (m *memJournal) QueryRunEvents(_ context.Context, _ store.QueryOpts) ([]store.RunEventRecord, error) {
	return nil, nil
}
func (m *memJournal) RunSummaries(_ context.Context) ([]store.RunSummary, error) { return nil, nil }

// stepClock advances by step on every reading.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type harness struct {
	runner  *Runner
	ledger  *fakeLedger
	sink    *fakeSink
	input   *scriptInput
	journal *memJournal
	phases  []string
}

func newHarness(t *testing.T, lines ...string) *harness {
	t.Helper()
	h := &harness{
		ledger:  &fakeLedger{},
		sink:    &fakeSink{},
		input:   &scriptInput{lines: lines},
		journal: &memJournal{},
	}
	clock := &stepClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), step: 4 * time.Second}
	h.runner = NewRunner(Options{
		Ledger:    h.ledger,
		Sink:      h.sink,
		Input:     h.input,
		Journal:   h.journal,
		NoShuffle: true,
		Now:       clock.Now,
		OnPhase: func(p Phase, q int) {
			h.phases = append(h.phases, fmt.Sprintf("%s:%d", p, q))
		},
	})
	return h
}

func sampleQuiz() Quiz {
	return Quiz{
		ID:    "modes",
		Title: "Modes Quiz",
		Questions: []Question{
			{
				Kind:        KindChoice,
				Prompt:      "Which shortcut cycles modes?",
				Choices:     []string{"Ctrl+M", "Shift+Tab", "Alt+M"},
				Answer:      1,
				Difficulty:  "beginner",
				Hint:        "It involves Tab",
				Explanation: "Shift+Tab cycles through modes.",
			},
			{
				Kind:   KindFillIn,
				Prompt: "Type the shell bypass prefix:",
				Accept: []string{"!"},
				Hint:   "One character",
			},
			{
				Kind:      KindScenario,
				Narrative: "You are at 90% context.\nYou just finished a module.",
				Prompt:    "What do you do?",
				Choices:   []string{"/clear", "/compact"},
				Answer:    1,
			},
		},
	}
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// Package quiz runs quizzes, scenario challenges, arena challenges and the
// final exam against line-based input, scoring answers through a ledger.
package quiz

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind discriminates question variants.
type Kind int

const (
	KindChoice Kind = iota
	KindFillIn
	KindScenario
)

var kindNames = map[Kind]string{
	KindChoice:   "choice",
	KindFillIn:   "fillin",
	KindScenario: "scenario",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses the textual kind used in content files.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown question kind %q", s)
}

// Question is one quiz item. Which fields apply depends on Kind:
// choice and scenario questions use Choices and Answer, fill-in questions
// use Accept, and scenario questions add a Narrative.
type Question struct {
	Kind        Kind
	Prompt      string
	Narrative   string
	Choices     []string
	Answer      int
	Accept      []string
	Explanation string
	Difficulty  string
	Hint        string
}

// HasHint reports whether a hint can be revealed. Scenario questions
// never offer one.
func (q Question) HasHint() bool {
	return q.Kind != KindScenario && q.Hint != ""
}

// Accepts reports whether a fill-in response matches an accepted answer,
// ignoring case and surrounding whitespace.
func (q Question) Accepts(response string) bool {
	r := normalize(response)
	return slices.ContainsFunc(q.Accept, func(a string) bool {
		return normalize(a) == r
	})
}

// CorrectText returns the text shown when the learner missed the question.
func (q Question) CorrectText() string {
	switch q.Kind {
	case KindFillIn:
		if len(q.Accept) > 0 {
			return q.Accept[0]
		}
		return ""
	case KindChoice, KindScenario:
		if q.Answer >= 0 && q.Answer < len(q.Choices) {
			return q.Choices[q.Answer]
		}
	}
	return ""
}

// Validate checks the question is answerable.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.New("empty prompt")
	}
	switch q.Kind {
	case KindScenario:
		if strings.TrimSpace(q.Narrative) == "" {
			return errors.New("scenario question without narrative")
		}
		fallthrough
	case KindChoice:
		if len(q.Choices) < 2 {
			return fmt.Errorf("need at least 2 choices, got %d", len(q.Choices))
		}
		if q.Answer < 0 || q.Answer >= len(q.Choices) {
			return fmt.Errorf("answer index %d out of range [0,%d)", q.Answer, len(q.Choices))
		}
	case KindFillIn:
		if !slices.ContainsFunc(q.Accept, func(a string) bool { return normalize(a) != "" }) {
			return errors.New("fill-in question without an accepted answer")
		}
	default:
		return fmt.Errorf("unknown kind %v", q.Kind)
	}
	return nil
}

// Quiz is an ordered set of questions.
type Quiz struct {
	ID        string
	Title     string
	Questions []Question
}

// Validate checks every question.
func (qz Quiz) Validate() error {
	if qz.ID == "" {
		return errors.New("quiz without id")
	}
	if len(qz.Questions) == 0 {
		return fmt.Errorf("quiz %s: no questions", qz.ID)
	}
	var errs []error
	for i, q := range qz.Questions {
		if err := q.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("quiz %s question %d: %w", qz.ID, i+1, err))
		}
	}
	return errors.Join(errs...)
}

// Step is one decision point of a scenario challenge.
type Step struct {
	Prompt      string
	Options     []string
	Answer      int
	Success     string
	Failure     string
	Explanation string
}

// Challenge is a multi-step scenario played in fixed order.
type Challenge struct {
	ID          string
	Title       string
	Description string
	Difficulty  string
	Steps       []Step
}

// Validate checks every step.
func (c Challenge) Validate() error {
	if c.ID == "" {
		return errors.New("challenge without id")
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("challenge %s: no steps", c.ID)
	}
	var errs []error
	for i, s := range c.Steps {
		switch {
		case len(s.Options) < 2:
			errs = append(errs, fmt.Errorf("challenge %s step %d: need at least 2 options", c.ID, i+1))
		case s.Answer < 0 || s.Answer >= len(s.Options):
			errs = append(errs, fmt.Errorf("challenge %s step %d: answer index %d out of range", c.ID, i+1, s.Answer))
		}
	}
	return errors.Join(errs...)
}

// ArenaChallenge is a free-text workflow challenge. An answer passes when
// it mentions every required token.
type ArenaChallenge struct {
	Title       string
	Difficulty  string
	Prompt      string
	Required    []string
	ModelAnswer string
}

// Validate checks the challenge can be passed.
func (a ArenaChallenge) Validate() error {
	if a.Title == "" {
		return errors.New("arena challenge without title")
	}
	if len(a.Required) == 0 {
		return fmt.Errorf("arena challenge %q: no required tokens", a.Title)
	}
	return nil
}

// Matched returns the required tokens found in answer, case-insensitively.
func (a ArenaChallenge) Matched(answer string) []string {
	lowered := strings.ToLower(answer)
	var out []string
	for _, tok := range a.Required {
		if strings.Contains(lowered, strings.ToLower(tok)) {
			out = append(out, tok)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

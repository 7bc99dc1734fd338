package achievements

import (
	"strings"
	"time"
)

// Set is a read-only view over a string set.
type Set map[string]struct{}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// HasAll reports whether every id is present.
func (s Set) HasAll(ids ...string) bool {
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// CountPrefix counts members starting with prefix.
func (s Set) CountPrefix(prefix string) int {
	n := 0
	for id := range s {
		if strings.HasPrefix(id, prefix) {
			n++
		}
	}
	return n
}

// QuizResult describes the quiz completion being evaluated.
type QuizResult struct {
	Correct int
	Total   int
	Elapsed *time.Duration

	// PassPercent is the minimum score percentage that counts as a pass.
	PassPercent int
}

// Perfect reports a full score on a non-empty quiz.
func (q *QuizResult) Perfect() bool {
	return q != nil && q.Total > 0 && q.Correct == q.Total
}

// Percent returns the floor percentage score, 0 for an empty quiz.
func (q *QuizResult) Percent() int {
	if q == nil || q.Total <= 0 {
		return 0
	}
	return 100 * q.Correct / q.Total
}

// Passed reports whether the exact score ratio reaches PassPercent.
func (q *QuizResult) Passed() bool {
	return q != nil && q.Total > 0 && 100*q.Correct >= q.PassPercent*q.Total
}

// Facts is the state an evaluation reads. Nil sets and results read as
// empty, so a rule over missing data is simply not met.
type Facts struct {
	Lessons   Set
	Quizzes   Set
	Scenarios Set
	Sections  Set
	Unlocked  Set

	QuizStreak int
	BestStreak int

	Level    int
	MaxLevel int

	// LastQuiz is set when evaluating a quiz completion.
	LastQuiz *QuizResult

	// LastExam is set when evaluating a final exam result.
	LastExam *QuizResult
}

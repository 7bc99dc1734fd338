package progress

import (
	"maps"
	"slices"

	"github.com/abhisek/climastery/internal/achievements"
	"github.com/abhisek/climastery/internal/store"
)

// State is the learner's progress aggregate.
type State struct {
	XP    int
	Level int

	Lessons      achievements.Set
	Quizzes      achievements.Set
	Scenarios    achievements.Set
	Achievements achievements.Set
	Sections     achievements.Set

	QuizStreak    int
	BestStreak    int
	TotalAnswered int
	TotalCorrect  int
}

func newState() State {
	return State{
		Lessons:      achievements.Set{},
		Quizzes:      achievements.Set{},
		Scenarios:    achievements.Set{},
		Achievements: achievements.Set{},
		Sections:     achievements.Set{},
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := s
	c.Lessons = maps.Clone(s.Lessons)
	c.Quizzes = maps.Clone(s.Quizzes)
	c.Scenarios = maps.Clone(s.Scenarios)
	c.Achievements = maps.Clone(s.Achievements)
	c.Sections = maps.Clone(s.Sections)
	return c
}

func (s State) record() *store.ProgressRecord {
	rec := &store.ProgressRecord{
		XP:                     s.XP,
		Level:                  s.Level,
		CompletedLessons:       members(s.Lessons),
		CompletedQuizzes:       members(s.Quizzes),
		CompletedScenarios:     members(s.Scenarios),
		Achievements:           members(s.Achievements),
		QuizStreak:             s.QuizStreak,
		BestStreak:             s.BestStreak,
		TotalQuestionsAnswered: s.TotalAnswered,
		TotalCorrect:           s.TotalCorrect,
		SectionsVisited:        members(s.Sections),
	}
	return rec
}

func stateFromRecord(rec *store.ProgressRecord) State {
	return State{
		XP:            rec.XP,
		Level:         rec.Level,
		Lessons:       toSet(rec.CompletedLessons),
		Quizzes:       toSet(rec.CompletedQuizzes),
		Scenarios:     toSet(rec.CompletedScenarios),
		Achievements:  toSet(rec.Achievements),
		Sections:      toSet(rec.SectionsVisited),
		QuizStreak:    rec.QuizStreak,
		BestStreak:    rec.BestStreak,
		TotalAnswered: rec.TotalQuestionsAnswered,
		TotalCorrect:  rec.TotalCorrect,
	}
}

func members(s achievements.Set) []string {
	return slices.Sorted(maps.Keys(s))
}

func toSet(ids []string) achievements.Set {
	s := make(achievements.Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

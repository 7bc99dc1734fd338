package store

import (
	"slices"
)

// ProgressRecord is the persisted form of learner progress. Sets are stored
// as sorted string lists. Missing fields decode to their zero value.
type ProgressRecord struct {
	XP                     int      `json:"xp"`
	Level                  int      `json:"level"`
	CompletedLessons       []string `json:"completed_lessons"`
	CompletedQuizzes       []string `json:"completed_quizzes"`
	CompletedScenarios     []string `json:"completed_scenarios"`
	Achievements           []string `json:"achievements"`
	QuizStreak             int      `json:"quiz_streak"`
	BestStreak             int      `json:"best_streak"`
	TotalQuestionsAnswered int      `json:"total_questions_answered"`
	TotalCorrect           int      `json:"total_correct"`
	SectionsVisited        []string `json:"sections_visited"`
}

// Normalize sorts and deduplicates every list and replaces nil lists with
// empty ones so the encoded form is stable.
func (r *ProgressRecord) Normalize() {
	for _, l := range []*[]string{
		&r.CompletedLessons,
		&r.CompletedQuizzes,
		&r.CompletedScenarios,
		&r.Achievements,
		&r.SectionsVisited,
	} {
		*l = sortedUnique(*l)
	}
}

func sortedUnique(in []string) []string {
	out := make([]string, 0, len(in))
	out = append(out, in...)
	slices.Sort(out)
	return slices.Compact(out)
}

// progressSchema constrains the progress file. Unknown fields are allowed so
// older binaries can read newer files.
const progressSchema = `{
  "type": "object",
  "properties": {
    "xp": {"type": "integer", "minimum": 0},
    "level": {"type": "integer", "minimum": 0},
    "completed_lessons": {"$ref": "#/$defs/ids"},
    "completed_quizzes": {"$ref": "#/$defs/ids"},
    "completed_scenarios": {"$ref": "#/$defs/ids"},
    "achievements": {"$ref": "#/$defs/ids"},
    "quiz_streak": {"type": "integer", "minimum": 0},
    "best_streak": {"type": "integer", "minimum": 0},
    "total_questions_answered": {"type": "integer", "minimum": 0},
    "total_correct": {"type": "integer", "minimum": 0},
    "sections_visited": {"$ref": "#/$defs/ids"}
  },
  "$defs": {
    "ids": {
      "type": ["array", "null"],
      "items": {"type": "string"}
    }
  }
}`

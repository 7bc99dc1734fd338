package curriculum

import (
	"fmt"

	"github.com/abhisek/climastery/internal/quiz"
)

// File-level shapes of the YAML content. They are converted to the quiz
// package's types on load.

type fileModule struct {
	ID       string       `yaml:"id"`
	Title    string       `yaml:"title"`
	Section  string       `yaml:"section"`
	Marker   string       `yaml:"marker"`
	Summary  string       `yaml:"summary"`
	Lessons  []fileLesson `yaml:"lessons"`
	Quiz     fileQuiz     `yaml:"quiz"`
	Scenario fileScenario `yaml:"scenario"`
}

type fileLesson struct {
	ID         string   `yaml:"id"`
	Title      string   `yaml:"title"`
	Difficulty string   `yaml:"difficulty"`
	Intro      string   `yaml:"intro"`
	Tip        string   `yaml:"tip"`
	Pages      []Page   `yaml:"pages"`
	Covers     []string `yaml:"covers"`
}

type fileQuiz struct {
	ID        string         `yaml:"id"`
	Title     string         `yaml:"title"`
	Questions []fileQuestion `yaml:"questions"`
}

type fileQuestion struct {
	Kind        string   `yaml:"kind"`
	Prompt      string   `yaml:"prompt"`
	Narrative   string   `yaml:"narrative"`
	Choices     []string `yaml:"choices"`
	Answer      int      `yaml:"answer"`
	Accept      []string `yaml:"accept"`
	Explanation string   `yaml:"explanation"`
	Difficulty  string   `yaml:"difficulty"`
	Hint        string   `yaml:"hint"`
}

type fileScenario struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Difficulty  string     `yaml:"difficulty"`
	Steps       []fileStep `yaml:"steps"`
}

type fileStep struct {
	Prompt      string   `yaml:"prompt"`
	Options     []string `yaml:"options"`
	Answer      int      `yaml:"answer"`
	Success     string   `yaml:"success"`
	Failure     string   `yaml:"failure"`
	Explanation string   `yaml:"explanation"`
}

func (fm fileModule) module() (Module, error) {
	m := Module{
		ID:      fm.ID,
		Title:   fm.Title,
		Section: fm.Section,
		Marker:  fm.Marker,
		Summary: fm.Summary,
	}
	for _, l := range fm.Lessons {
		m.Lessons = append(m.Lessons, Lesson(l))
	}
	q, err := fm.Quiz.quiz()
	if err != nil {
		return Module{}, err
	}
	m.Quiz = q
	m.Scenario = fm.Scenario.challenge()
	return m, nil
}

func (fq fileQuiz) quiz() (quiz.Quiz, error) {
	q := quiz.Quiz{ID: fq.ID, Title: fq.Title}
	for i, fqq := range fq.Questions {
		kind, err := quiz.ParseKind(fqq.Kind)
		if err != nil {
			return quiz.Quiz{}, fmt.Errorf("quiz %s question %d: %w", fq.ID, i+1, err)
		}
		q.Questions = append(q.Questions, quiz.Question{
			Kind:        kind,
			Prompt:      fqq.Prompt,
			Narrative:   fqq.Narrative,
			Choices:     fqq.Choices,
			Answer:      fqq.Answer,
			Accept:      fqq.Accept,
			Explanation: fqq.Explanation,
			Difficulty:  fqq.Difficulty,
			Hint:        fqq.Hint,
		})
	}
	return q, nil
}

func (sc fileScenario) challenge() quiz.Challenge {
	c := quiz.Challenge{
		ID:          sc.ID,
		Title:       sc.Title,
		Description: sc.Description,
		Difficulty:  sc.Difficulty,
	}
	for _, s := range sc.Steps {
		c.Steps = append(c.Steps, quiz.Step(s))
	}
	return c
}

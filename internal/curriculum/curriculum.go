// Package curriculum loads the embedded training content: levels,
// achievements, modules with their lessons, quizzes and scenarios, the
// arena challenges, the final exam and the quick reference.
package curriculum

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/climastery/internal/achievements"
	"github.com/abhisek/climastery/internal/progress"
	"github.com/abhisek/climastery/internal/quiz"
)

//go:embed content
var content embed.FS

// Curriculum is the complete, immutable training content.
type Curriculum struct {
	Title   string
	Tagline string

	Levels  *progress.LevelTable
	Catalog *achievements.Catalog

	Modules   []Module
	Arena     []quiz.ArenaChallenge
	Exam      Exam
	Reference Reference
}

// Module bundles the lessons, quiz and scenario of one content area.
type Module struct {
	ID      string
	Title   string
	Section string
	Marker  string
	Summary string

	Lessons  []Lesson
	Quiz     quiz.Quiz
	Scenario quiz.Challenge
}

// Lesson is a paged walkthrough.
type Lesson struct {
	ID         string
	Title      string
	Difficulty string
	Intro      string
	Tip        string
	Pages      []Page

	// Covers lists additional lesson ids completed with this one.
	Covers []string
}

// CompletedIDs returns every lesson id recorded when the lesson finishes.
func (l Lesson) CompletedIDs() []string {
	return append([]string{l.ID}, l.Covers...)
}

// Page is one screen of a lesson.
type Page struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Exam is the final certification quiz.
type Exam struct {
	Quiz        quiz.Quiz
	PassPercent int
}

// Module returns the module with id.
func (c *Curriculum) Module(id string) (*Module, bool) {
	for i := range c.Modules {
		if c.Modules[i].ID == id {
			return &c.Modules[i], true
		}
	}
	return nil, false
}

// Load reads the embedded content.
func Load() (*Curriculum, error) {
	sub, err := fs.Sub(content, "content")
	if err != nil {
		return nil, fmt.Errorf("open embedded content: %w", err)
	}
	return LoadFS(sub)
}

// LoadFS reads content laid out like the embedded tree from fsys.
func LoadFS(fsys fs.FS) (*Curriculum, error) {
	var index struct {
		Title   string   `yaml:"title"`
		Tagline string   `yaml:"tagline"`
		Modules []string `yaml:"modules"`
	}
	if err := decode(fsys, "curriculum.yaml", &index); err != nil {
		return nil, err
	}

	c := &Curriculum{Title: index.Title, Tagline: index.Tagline}

	var levels struct {
		Levels []struct {
			Threshold   int    `yaml:"threshold"`
			Title       string `yaml:"title"`
			Description string `yaml:"description"`
		} `yaml:"levels"`
	}
	if err := decode(fsys, "levels.yaml", &levels); err != nil {
		return nil, err
	}
	lvls := make([]progress.Level, 0, len(levels.Levels))
	for _, l := range levels.Levels {
		lvls = append(lvls, progress.Level{Threshold: l.Threshold, Title: l.Title, Description: l.Description})
	}
	table, err := progress.NewLevelTable(lvls)
	if err != nil {
		return nil, fmt.Errorf("levels.yaml: %w", err)
	}
	c.Levels = table

	var achs struct {
		Achievements []struct {
			ID          string `yaml:"id"`
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
			Bonus       int    `yaml:"bonus"`
		} `yaml:"achievements"`
	}
	if err := decode(fsys, "achievements.yaml", &achs); err != nil {
		return nil, err
	}
	defs := make([]achievements.Definition, 0, len(achs.Achievements))
	for _, a := range achs.Achievements {
		defs = append(defs, achievements.Definition(a))
	}
	catalog, err := achievements.NewCatalog(defs)
	if err != nil {
		return nil, fmt.Errorf("achievements.yaml: %w", err)
	}
	c.Catalog = catalog

	for _, id := range index.Modules {
		name := path.Join("modules", id+".yaml")
		var fm fileModule
		if err := decode(fsys, name, &fm); err != nil {
			return nil, err
		}
		m, err := fm.module()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		c.Modules = append(c.Modules, m)
	}

	var arena struct {
		Challenges []struct {
			Title       string   `yaml:"title"`
			Difficulty  string   `yaml:"difficulty"`
			Prompt      string   `yaml:"prompt"`
			Required    []string `yaml:"required"`
			ModelAnswer string   `yaml:"model_answer"`
		} `yaml:"challenges"`
	}
	if err := decode(fsys, "arena.yaml", &arena); err != nil {
		return nil, err
	}
	for _, a := range arena.Challenges {
		c.Arena = append(c.Arena, quiz.ArenaChallenge(a))
	}

	var exam struct {
		ID          string         `yaml:"id"`
		Title       string         `yaml:"title"`
		PassPercent int            `yaml:"pass_percent"`
		Questions   []fileQuestion `yaml:"questions"`
	}
	if err := decode(fsys, "exam.yaml", &exam); err != nil {
		return nil, err
	}
	eq, err := fileQuiz{ID: exam.ID, Title: exam.Title, Questions: exam.Questions}.quiz()
	if err != nil {
		return nil, fmt.Errorf("exam.yaml: %w", err)
	}
	c.Exam = Exam{Quiz: eq, PassPercent: exam.PassPercent}

	if err := decode(fsys, "reference.yaml", &c.Reference); err != nil {
		return nil, err
	}
	return c, nil
}

func decode(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

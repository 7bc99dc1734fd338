package curriculum

import (
	"errors"
	"fmt"

	"github.com/abhisek/climastery/internal/achievements"
)

// Validate checks the content for structural problems, reference
// coverage gaps and mismatches with the achievement rules.
func (c *Curriculum) Validate() error {
	var errs []error

	lessonIDs := make(map[string]bool)
	scenarioIDs := make(map[string]bool)
	sections := make(map[string]bool)
	for _, m := range c.Modules {
		if len(m.Lessons) == 0 {
			errs = append(errs, fmt.Errorf("module %s: no lessons", m.ID))
		}
		for _, l := range m.Lessons {
			if len(l.Pages) == 0 {
				errs = append(errs, fmt.Errorf("module %s lesson %s: no pages", m.ID, l.ID))
			}
			for _, id := range l.CompletedIDs() {
				if lessonIDs[id] {
					errs = append(errs, fmt.Errorf("module %s: lesson id %s completed twice", m.ID, id))
				}
				lessonIDs[id] = true
			}
		}
		if m.Marker != "" && !lessonIDs[m.Marker] {
			errs = append(errs, fmt.Errorf("module %s: marker %s is not completed by any lesson", m.ID, m.Marker))
		}
		if err := m.Quiz.Validate(); err != nil {
			errs = append(errs, err)
		}
		if err := m.Scenario.Validate(); err != nil {
			errs = append(errs, err)
		}
		scenarioIDs[m.Scenario.ID] = true
		sections[m.Section] = true
	}

	for _, id := range achievements.ModuleMarkers {
		if !lessonIDs[id] {
			errs = append(errs, fmt.Errorf("no lesson completes module marker %s", id))
		}
	}
	for _, id := range achievements.ModuleScenarios {
		if !scenarioIDs[id] {
			errs = append(errs, fmt.Errorf("no module scenario %s", id))
		}
	}
	for _, id := range achievements.RequiredSections {
		if !sections[id] {
			errs = append(errs, fmt.Errorf("no module visits section %s", id))
		}
	}

	for _, a := range c.Arena {
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.Exam.Quiz.Validate(); err != nil {
		errs = append(errs, err)
	}
	if p := c.Exam.PassPercent; p <= 0 || p > 100 {
		errs = append(errs, fmt.Errorf("exam pass percent %d out of range", p))
	}

	if err := achievements.NewEngine(achievements.DefaultRules()).Validate(c.Catalog); err != nil {
		errs = append(errs, err)
	}
	for _, p := range c.Reference.CheckCoverage().Problems() {
		errs = append(errs, errors.New(p))
	}
	return errors.Join(errs...)
}

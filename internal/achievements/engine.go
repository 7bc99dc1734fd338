// Package achievements holds the achievement catalog and the declarative
// rules that decide when each achievement unlocks.
package achievements

import (
	"fmt"
	"strings"
)

// Trigger identifies the ledger event that caused an evaluation.
type Trigger uint16

const (
	OnLesson Trigger = 1 << iota
	OnQuiz
	OnStreak
	OnScenario
	OnSection
	OnLevel
	OnModuleCheck
	OnExam
)

var triggerNames = []struct {
	t    Trigger
	name string
}{
	{OnLesson, "lesson"},
	{OnQuiz, "quiz"},
	{OnStreak, "streak"},
	{OnScenario, "scenario"},
	{OnSection, "section"},
	{OnLevel, "level"},
	{OnModuleCheck, "module_check"},
	{OnExam, "exam"},
}

// String returns the trigger names joined by "|".
func (t Trigger) String() string {
	var parts []string
	for _, tn := range triggerNames {
		if t&tn.t != 0 {
			parts = append(parts, tn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Rule unlocks achievement ID when one of its triggers fires and When holds.
type Rule struct {
	ID   string
	On   Trigger
	When func(Facts) bool
}

// Engine evaluates rules against ledger facts.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine over rules, evaluated in order.
func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Evaluate returns the ids of rules matching trigger whose condition holds
// and which are not already unlocked, in rule order.
func (e *Engine) Evaluate(trigger Trigger, f Facts) []string {
	var ids []string
	for _, r := range e.rules {
		if r.On&trigger == 0 || r.When == nil || f.Unlocked.Has(r.ID) {
			continue
		}
		if r.When(f) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Validate reports rules that reference achievements missing from catalog
// or that are declared more than once.
func (e *Engine) Validate(c *Catalog) error {
	var errs []string
	seen := make(map[string]bool, len(e.rules))
	for _, r := range e.rules {
		if seen[r.ID] {
			errs = append(errs, fmt.Sprintf("rule %q declared twice", r.ID))
		}
		seen[r.ID] = true
		if !c.Has(r.ID) {
			errs = append(errs, fmt.Sprintf("rule %q has no catalog entry", r.ID))
		}
		if r.When == nil {
			errs = append(errs, fmt.Sprintf("rule %q has no condition", r.ID))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("achievement rules invalid:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

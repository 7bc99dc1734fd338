package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/abhisek/climastery/internal/curriculum"
	"github.com/abhisek/climastery/internal/ui/menu"
	"github.com/abhisek/climastery/internal/ui/prompt"
)

// action is a menu entry. A nil run marks a spacer.
type action struct {
	label string
	run   func(ctx context.Context) error
}

func items(actions []action) []menu.Item {
	out := make([]menu.Item, len(actions))
	for i, a := range actions {
		out[i] = menu.Item{Label: a.label}
	}
	return out
}

// errLeave unwinds the menu stack when the user quits from the main menu.
var errLeave = errors.New("leave")

// pick shows a menu. ok is false when the user backs out or input ends;
// err is set only for interrupts and picker failures.
func (s *Session) pick(title string, list []menu.Item) (idx int, ok bool, err error) {
	idx, err = s.Menu.Pick(title, list)
	switch {
	case err == nil:
		return idx, true, nil
	case errors.Is(err, menu.ErrBack), errors.Is(err, io.EOF):
		return -1, false, nil
	default:
		return -1, false, err
	}
}

// loop shows the menu built by build until the user backs out.
func (s *Session) loop(ctx context.Context, title string, header func(), build func() []action) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if header != nil {
			header()
		}
		actions := build()
		idx, ok, err := s.pick(title, items(actions))
		if err != nil || !ok {
			return err
		}
		if run := actions[idx].run; run != nil {
			if err := run(ctx); err != nil {
				return err
			}
		}
	}
}

// Run shows the splash screen and the main menu until the user quits.
func (s *Session) Run(ctx context.Context) error {
	s.Log.Info("training started")
	s.splash()

	err := s.loop(ctx, "Select module", s.levelLine, s.mainMenu)
	switch {
	case errors.Is(err, errLeave):
		err = nil
	case errors.Is(err, context.Canceled):
		err = ErrInterrupted
	}
	if err == nil {
		s.UI.Blank()
		s.UI.Status("Thanks for training! Keep practicing! 🚀")
		s.UI.Blank()
	}
	s.Log.Info("training ended", zap.Error(err))
	return err
}

func (s *Session) splash() {
	s.UI.Banner(s.Content.Title, s.Content.Tagline)

	info := s.Ledger.LevelInfo()
	if info.XP > 0 {
		s.UI.Status(fmt.Sprintf("Welcome back, %s!", info.Title))
		s.UI.Note(fmt.Sprintf("Level %d • %d XP • %d achievements",
			info.Level, info.XP, s.Ledger.Stats().AchievementsUnlocked))
	} else {
		s.UI.Status("Welcome to " + s.Content.Title + " training!")
		s.UI.Note("Master every feature of the GitHub Copilot CLI.")
	}
	s.UI.Blank()
	s.UI.Note("Type a number to select, 'q' to go back at any time.")
}

func (s *Session) levelLine() {
	info := s.Ledger.LevelInfo()
	s.UI.Blank()
	s.UI.Status(fmt.Sprintf("⭐ Level %d: %s  (%d XP)", info.Level, info.Title, info.XP))
	s.UI.ProgressBar("", info.XPInLevel, info.XPNeeded)
}

func (s *Session) mainMenu() []action {
	var actions []action
	for i := range s.Content.Modules {
		m := &s.Content.Modules[i]
		label := m.Title
		if m.Summary != "" {
			label += " · " + m.Summary
		}
		if s.Ledger.HasLesson(m.Marker) {
			label = "✅ " + label
		}
		actions = append(actions, action{label, func(ctx context.Context) error { return s.runModule(ctx, m) }})
	}
	stats := s.Ledger.Stats()
	return append(actions,
		action{"🏟️  Scenario Arena · real-world challenges", s.arena},
		action{},
		action{"📊 Dashboard & Progress", s.dashboard},
		action{fmt.Sprintf("🏆 Achievements (%d/%d)", stats.AchievementsUnlocked, stats.AchievementsTotal), s.achievements},
		action{"📋 Quick Reference Card", s.reference},
		action{"📤 Export Reference Cheatsheet", s.export},
		action{"🎓 Final Exam · CLI Wizard Certification", s.exam},
		action{},
		action{"🔄 Reset Progress", s.reset},
		action{"🚪 Quit", func(context.Context) error { return errLeave }},
	)
}

func (s *Session) runModule(ctx context.Context, m *curriculum.Module) error {
	s.Ledger.VisitSection(ctx, m.Section)
	s.Log.Debug("module entered", zap.String("module", m.ID))

	header := func() {
		s.UI.Blank()
		s.UI.Heading(m.Title)
		if m.Summary != "" {
			s.UI.Status(m.Summary)
		}
	}
	build := func() []action {
		var actions []action
		for i := range m.Lessons {
			l := &m.Lessons[i]
			label := "🎓 " + l.Title
			if s.Ledger.HasLesson(l.ID) {
				label += " ✅"
			}
			actions = append(actions, action{label, func(ctx context.Context) error { return s.lesson(ctx, l) }})
		}
		scenario := "🧩 Scenario: " + m.Scenario.Title
		if s.Ledger.HasScenario(m.Scenario.ID) {
			scenario += " ✅"
		}
		return append(actions,
			action{},
			action{"🎯 Quiz: " + m.Quiz.Title, func(ctx context.Context) error { return s.quiz(ctx, m) }},
			action{scenario, func(ctx context.Context) error { return s.scenario(ctx, m) }},
			action{"📋 Quick Reference", s.reference},
		)
	}
	return s.loop(ctx, "Choose activity", header, build)
}

// lesson pages through l. Leaving before the last page records nothing.
func (s *Session) lesson(ctx context.Context, l *curriculum.Lesson) error {
	s.UI.Blank()
	s.UI.Heading("🎓 " + l.Title)
	s.UI.Difficulty(l.Difficulty)
	if l.Intro != "" {
		s.UI.Blank()
		s.UI.Status(l.Intro)
	}

	for i, p := range l.Pages {
		s.UI.InfoBox(p.Title, p.Body)
		s.UI.Note(fmt.Sprintf("Page %d of %d", i+1, len(l.Pages)))
		if !prompt.Pause(s.In) {
			s.Log.Debug("lesson abandoned", zap.String("lesson", l.ID), zap.Int("page", i+1))
			return nil
		}
	}
	if l.Tip != "" {
		s.UI.Tip(l.Tip)
	}

	for _, id := range l.CompletedIDs() {
		s.Ledger.CompleteLesson(ctx, id)
	}
	s.Ledger.CheckModuleAchievements(ctx)
	s.UI.Success("Lesson complete: " + l.Title)
	prompt.Pause(s.In)
	return nil
}

func (s *Session) quiz(ctx context.Context, m *curriculum.Module) error {
	s.Runner.RunQuiz(ctx, m.Quiz)
	prompt.Pause(s.In)
	return nil
}

func (s *Session) scenario(ctx context.Context, m *curriculum.Module) error {
	if res := s.Runner.RunScenario(ctx, m.Scenario); res.Passed {
		s.Ledger.CheckModuleAchievements(ctx)
	}
	prompt.Pause(s.In)
	return nil
}

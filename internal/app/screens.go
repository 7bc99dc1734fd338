package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/climastery/internal/curriculum"
	"github.com/abhisek/climastery/internal/progress"
	"github.com/abhisek/climastery/internal/ui/menu"
	"github.com/abhisek/climastery/internal/ui/prompt"
	"github.com/abhisek/climastery/internal/ui/render"
)

// ShowDashboard prints level, stats and per-module completion.
func ShowDashboard(ui *render.Terminal, l *progress.Ledger, c *curriculum.Curriculum) {
	info := l.LevelInfo()
	stats := l.Stats()

	ui.Blank()
	ui.Heading(fmt.Sprintf("📊 Your Dashboard · Level %d: %s", info.Level, info.Title))
	ui.Blank()
	ui.ProgressBar("⭐ XP", info.XPInLevel, info.XPNeeded)
	ui.Note(fmt.Sprintf("Total: %d XP | Next level: %d XP", info.XP, info.NextXP))
	ui.Blank()

	ui.Status(fmt.Sprintf("📚 Lessons completed:     %d", stats.Lessons))
	ui.Status(fmt.Sprintf("🎯 Quizzes completed:     %d", stats.Quizzes))
	ui.Status(fmt.Sprintf("🧩 Scenarios completed:   %d", stats.Scenarios))
	ui.Status(fmt.Sprintf("📊 Quiz accuracy:         %d%% (%d questions)", stats.AccuracyPercent, stats.TotalAnswered))
	ui.Status(fmt.Sprintf("🔥 Best streak:           %d", stats.BestStreak))
	ui.Status(fmt.Sprintf("🏆 Achievements:          %d/%d", stats.AchievementsUnlocked, stats.AchievementsTotal))
	ui.Blank()

	ui.Rule()
	ui.Blank()
	ui.Status("Module Progress:")
	for _, m := range c.Modules {
		icon := "⬜"
		if l.HasLesson(m.Marker) {
			icon = "✅"
		}
		ui.Status(fmt.Sprintf("  %s %s", icon, m.Title))
	}
	ui.Blank()
}

// ShowAchievements prints the catalog with unlock state.
func ShowAchievements(ui *render.Terminal, l *progress.Ledger, c *curriculum.Curriculum) {
	ui.Blank()
	ui.Heading("🏆 Achievements")
	ui.Blank()

	unlocked := 0
	for _, d := range c.Catalog.All() {
		if l.HasAchievement(d.ID) {
			unlocked++
			ui.Status("🏆 " + d.Name)
		} else {
			ui.Status("🔒 " + d.Name)
		}
		ui.Note(fmt.Sprintf(" %s (+%d XP)", d.Description, d.Bonus))
	}
	ui.Blank()
	ui.Status(fmt.Sprintf("Unlocked: %d/%d", unlocked, c.Catalog.Len()))
	ui.Blank()
}

// ShowCommands prints every slash command by category.
func ShowCommands(ui *render.Terminal, ref curriculum.Reference) {
	for _, cat := range ref.Commands {
		ui.Blank()
		ui.Status(cat.Name)
		for _, e := range cat.Entries {
			ui.Command(e.Keys, e.Description)
		}
	}
	ui.Blank()
}

// ShowShortcuts prints every keyboard shortcut by category.
func ShowShortcuts(ui *render.Terminal, ref curriculum.Reference) {
	for _, cat := range ref.Shortcuts {
		ui.Blank()
		ui.Status(cat.Name)
		for _, e := range cat.Entries {
			ui.Shortcut(e.Keys, e.Description)
		}
	}
	ui.Blank()
}

func (s *Session) dashboard(context.Context) error {
	ShowDashboard(s.UI, s.Ledger, s.Content)
	prompt.Pause(s.In)
	return nil
}

func (s *Session) achievements(context.Context) error {
	ShowAchievements(s.UI, s.Ledger, s.Content)
	prompt.Pause(s.In)
	return nil
}

func (s *Session) reference(ctx context.Context) error {
	ref := s.Content.Reference
	header := func() {
		s.UI.Blank()
		s.UI.Heading("📋 Quick Reference Card")
	}
	build := func() []action {
		actions := []action{
			{"📝 All Slash Commands", func(context.Context) error {
				ShowCommands(s.UI, ref)
				prompt.Pause(s.In)
				return nil
			}},
			{"⌨️  All Keyboard Shortcuts", func(context.Context) error {
				ShowShortcuts(s.UI, ref)
				prompt.Pause(s.In)
				return nil
			}},
		}
		for _, card := range ref.Cards {
			actions = append(actions, action{card.Title, func(context.Context) error {
				s.UI.InfoBox(card.Title, strings.Join(card.Lines, "\n"))
				prompt.Pause(s.In)
				return nil
			}})
		}
		return actions
	}
	return s.loop(ctx, "Select reference", header, build)
}

func (s *Session) arena(ctx context.Context) error {
	header := func() {
		s.UI.Blank()
		s.UI.Heading("🏟️  Scenario Arena · Real-World Challenges")
		s.UI.Status("Type your command/shortcut workflow to solve each scenario.")
	}
	build := func() []action {
		actions := make([]action, 0, len(s.Content.Arena))
		for _, a := range s.Content.Arena {
			icon := "⬜"
			if s.Ledger.HasScenario(a.Title) {
				icon = "✅"
			}
			label := fmt.Sprintf("%s [%s] %s", icon, a.Difficulty, a.Title)
			actions = append(actions, action{label, func(ctx context.Context) error {
				s.Runner.RunArena(ctx, a)
				prompt.Pause(s.In)
				return nil
			}})
		}
		return actions
	}
	return s.loop(ctx, "Select scenario", header, build)
}

func (s *Session) export(ctx context.Context) error {
	if err := WriteReference(s.Content, s.ExportPath); err != nil {
		s.Log.Warn("export failed", zap.String("path", s.ExportPath), zap.Error(err))
		s.UI.Error("Export failed: " + err.Error())
		prompt.Pause(s.In)
		return nil
	}
	s.Ledger.AddXP(ctx, ExportXP, "Exported reference cheatsheet")
	s.UI.Success("Reference exported to: " + s.ExportPath)
	prompt.Pause(s.In)
	return nil
}

func (s *Session) exam(ctx context.Context) error {
	exam := s.Content.Exam

	s.UI.Blank()
	s.UI.Heading("🎓 FINAL EXAM · CLI Mastery Certification")
	s.UI.Difficulty("expert")
	s.UI.Blank()
	s.UI.Status(fmt.Sprintf("%d questions across ALL modules.", len(exam.Quiz.Questions)))
	s.UI.Status(fmt.Sprintf("Score %d%%+ to earn the CLI Wizard certification.", exam.PassPercent))

	_, ok, err := s.pick("Ready?", []menu.Item{{Label: "Begin Final Exam"}})
	if err != nil || !ok {
		return err
	}

	s.Runner.RunExam(ctx, exam.Quiz, exam.PassPercent)
	prompt.Pause(s.In)
	return nil
}

func (s *Session) reset(ctx context.Context) error {
	s.UI.Warning("This erases ALL progress: XP, lessons, quizzes and achievements.")
	if !prompt.ConfirmExact(s.In, "Type 'reset' to confirm", "reset") {
		s.UI.Note("Reset cancelled.")
		return nil
	}
	s.Ledger.Reset(ctx)
	s.UI.Success("Progress reset.")
	prompt.Pause(s.In)
	return nil
}

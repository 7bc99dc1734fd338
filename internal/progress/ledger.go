// Package progress owns the learner's XP, level, streaks, completions and
// unlocked achievements. Every mutation goes through a Ledger, which
// evaluates achievement rules and writes the state through to storage.
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/climastery/internal/achievements"
	"github.com/abhisek/climastery/internal/store"
)

// XP awards for completions.
const (
	LessonXP         = 20
	QuizXPPerCorrect = 15
	ScenarioXP       = 30
)

// DefaultExamPercent is the final exam pass mark.
const DefaultExamPercent = 80

// Notifier receives fire-and-forget progress events for display.
type Notifier interface {
	XPAwarded(amount int, reason string)
	LevelUp(oldLevel, newLevel int, title string)
	AchievementUnlocked(name, description string)
}

type nopNotifier struct{}

func (nopNotifier) XPAwarded(int, string)              {}
func (nopNotifier) LevelUp(int, int, string)           {}
func (nopNotifier) AchievementUnlocked(string, string) {}

// Options configures a Ledger. Levels and Catalog are required.
type Options struct {
	Levels  *LevelTable
	Catalog *achievements.Catalog

	// Rules defaults to the built-in rule set.
	Rules *achievements.Engine

	// Persister receives the state after every mutation. Nil keeps progress
	// in memory only.
	Persister store.ProgressStore

	// Notifier defaults to a no-op.
	Notifier Notifier

	// Journal, when set, receives an event per ledger change.
	Journal store.EventRepo

	// Logger defaults to a no-op.
	Logger *zap.Logger
}

// Ledger is the single source of truth for learner progress. It is not
// safe for concurrent use.
type Ledger struct {
	levels    *LevelTable
	catalog   *achievements.Catalog
	rules     *achievements.Engine
	persister store.ProgressStore
	notify    Notifier
	journal   store.EventRepo
	log       *zap.Logger

	state State
}

// New returns a ledger holding the default state. Call Load to restore
// saved progress.
func New(opts Options) (*Ledger, error) {
	if opts.Levels == nil {
		return nil, errors.New("progress: level table is required")
	}
	if opts.Catalog == nil {
		return nil, errors.New("progress: achievement catalog is required")
	}
	l := &Ledger{
		levels:    opts.Levels,
		catalog:   opts.Catalog,
		rules:     opts.Rules,
		persister: opts.Persister,
		notify:    opts.Notifier,
		journal:   opts.Journal,
		log:       opts.Logger,
		state:     newState(),
	}
	if l.rules == nil {
		l.rules = achievements.NewEngine(achievements.DefaultRules())
	}
	if l.notify == nil {
		l.notify = nopNotifier{}
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	return l, nil
}

// Load replaces the in-memory state with the saved one. Missing or
// unusable storage leaves the default state in place.
func (l *Ledger) Load(ctx context.Context) {
	if l.persister == nil {
		return
	}
	rec, err := l.persister.LoadProgress(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		l.log.Debug("no saved progress, starting fresh")
		return
	case err != nil:
		l.log.Warn("saved progress unreadable, starting fresh", zap.Error(err))
		return
	}
	l.state = stateFromRecord(rec)
	l.repair()
	l.log.Debug("progress loaded",
		zap.Int("xp", l.state.XP),
		zap.Int("level", l.state.Level),
		zap.Int("achievements", len(l.state.Achievements)))
}

// repair restores invariants a hand-edited record may violate.
func (l *Ledger) repair() {
	s := &l.state
	if s.BestStreak < s.QuizStreak {
		s.BestStreak = s.QuizStreak
	}
	if s.TotalCorrect > s.TotalAnswered {
		s.TotalAnswered = s.TotalCorrect
	}
	for id := range s.Achievements {
		if !l.catalog.Has(id) {
			l.log.Warn("dropping unknown achievement from saved progress", zap.String("id", id))
			delete(s.Achievements, id)
		}
	}
}

// AddXP awards amount XP and announces any level-up. Reaching the final
// level unlocks the graduation achievement. Non-positive amounts are
// ignored.
func (l *Ledger) AddXP(ctx context.Context, amount int, reason string) {
	l.addXP(ctx, amount, reason)
	l.persist(ctx)
}

func (l *Ledger) addXP(ctx context.Context, amount int, reason string) {
	if amount <= 0 {
		l.log.Debug("ignoring non-positive xp award", zap.Int("amount", amount), zap.String("reason", reason))
		return
	}
	s := &l.state
	s.XP += amount
	l.notify.XPAwarded(amount, reason)
	l.record(ctx, store.EventXP, "", amount, reason)

	old := s.Level
	next := l.levels.LevelOf(s.XP)
	if next <= old {
		return
	}
	s.Level = next
	title := l.levels.At(next).Title
	l.notify.LevelUp(old, next, title)
	l.record(ctx, store.EventLevelUp, title, next, fmt.Sprintf("%d -> %d", old, next))
	l.log.Info("level up", zap.Int("from", old), zap.Int("to", next), zap.String("title", title))

	if next >= l.levels.Max() {
		l.evaluate(ctx, achievements.OnLevel, nil)
	}
}

// CompleteLesson marks a lesson done and awards lesson XP once.
func (l *Ledger) CompleteLesson(ctx context.Context, id string) {
	s := &l.state
	if s.Lessons.Has(id) {
		return
	}
	s.Lessons[id] = struct{}{}
	l.record(ctx, store.EventLesson, id, 0, "")
	l.addXP(ctx, LessonXP, "Completed lesson: "+id)
	l.evaluate(ctx, achievements.OnLesson, nil)
	l.persist(ctx)
}

// CompleteQuiz records a finished quiz run and awards XP per correct
// answer. A nil elapsed means the run was not timed.
func (l *Ledger) CompleteQuiz(ctx context.Context, id string, correct, total int, elapsed *time.Duration) {
	if total < 0 {
		total = 0
	}
	correct = min(max(correct, 0), total)

	s := &l.state
	s.Quizzes[id] = struct{}{}
	s.TotalAnswered += total
	s.TotalCorrect += correct
	l.record(ctx, store.EventQuiz, id, correct, fmt.Sprintf("%d/%d", correct, total))

	l.addXP(ctx, correct*QuizXPPerCorrect, fmt.Sprintf("Quiz: %d/%d correct", correct, total))
	l.evaluate(ctx, achievements.OnQuiz, func(f *achievements.Facts) {
		f.LastQuiz = &achievements.QuizResult{Correct: correct, Total: total, Elapsed: elapsed}
	})
	l.persist(ctx)
}

// CompleteExam evaluates a final exam score. Reaching passPercent unlocks
// graduation. A passPercent of zero uses DefaultExamPercent.
func (l *Ledger) CompleteExam(ctx context.Context, correct, total, passPercent int) bool {
	if passPercent <= 0 {
		passPercent = DefaultExamPercent
	}
	exam := &achievements.QuizResult{Correct: correct, Total: total, PassPercent: passPercent}
	l.evaluate(ctx, achievements.OnExam, func(f *achievements.Facts) {
		f.LastExam = exam
	})
	l.persist(ctx)
	return exam.Passed()
}

// RecordCorrect extends the answer streak.
func (l *Ledger) RecordCorrect(ctx context.Context) {
	s := &l.state
	s.QuizStreak++
	if s.QuizStreak > s.BestStreak {
		s.BestStreak = s.QuizStreak
	}
	l.evaluate(ctx, achievements.OnStreak, nil)
	l.persist(ctx)
}

// RecordIncorrect breaks the answer streak.
func (l *Ledger) RecordIncorrect(ctx context.Context) {
	l.state.QuizStreak = 0
	l.persist(ctx)
}

// CompleteScenario marks a scenario done and awards scenario XP once.
func (l *Ledger) CompleteScenario(ctx context.Context, id string) {
	s := &l.state
	if s.Scenarios.Has(id) {
		return
	}
	s.Scenarios[id] = struct{}{}
	l.record(ctx, store.EventScenario, id, 0, "")
	l.addXP(ctx, ScenarioXP, "Scenario completed: "+id)
	l.evaluate(ctx, achievements.OnScenario, nil)
	l.persist(ctx)
}

// VisitSection records that a training section was opened.
func (l *Ledger) VisitSection(ctx context.Context, id string) {
	s := &l.state
	if !s.Sections.Has(id) {
		s.Sections[id] = struct{}{}
		l.record(ctx, store.EventSection, id, 0, "")
	}
	l.evaluate(ctx, achievements.OnSection, nil)
	l.persist(ctx)
}

// Unlock grants an achievement and its bonus XP. Unknown or already
// unlocked ids are ignored. The bonus does not trigger a level check;
// the next XP award picks it up.
func (l *Ledger) Unlock(ctx context.Context, id string) {
	if l.unlock(ctx, id) {
		l.persist(ctx)
	}
}

func (l *Ledger) unlock(ctx context.Context, id string) bool {
	s := &l.state
	if s.Achievements.Has(id) {
		return false
	}
	def, ok := l.catalog.Lookup(id)
	if !ok {
		l.log.Debug("ignoring unknown achievement", zap.String("id", id))
		return false
	}
	s.Achievements[id] = struct{}{}
	s.XP += def.Bonus
	l.notify.AchievementUnlocked(def.Name, def.Description)
	l.record(ctx, store.EventAchievement, id, def.Bonus, def.Name)
	l.log.Info("achievement unlocked", zap.String("id", id), zap.Int("bonus", def.Bonus))
	return true
}

// CheckModuleAchievements evaluates the module completion rules.
func (l *Ledger) CheckModuleAchievements(ctx context.Context) {
	if l.evaluate(ctx, achievements.OnModuleCheck, nil) > 0 {
		l.persist(ctx)
	}
}

// Reset discards all progress and saves the empty state.
func (l *Ledger) Reset(ctx context.Context) {
	l.state = newState()
	l.record(ctx, store.EventReset, "", 0, "")
	l.log.Info("progress reset")
	l.persist(ctx)
}

// evaluate unlocks every rule that fires for trigger and returns how many
// unlocked.
func (l *Ledger) evaluate(ctx context.Context, trigger achievements.Trigger, with func(*achievements.Facts)) int {
	f := l.facts()
	if with != nil {
		with(&f)
	}
	n := 0
	for _, id := range l.rules.Evaluate(trigger, f) {
		if l.unlock(ctx, id) {
			n++
		}
	}
	return n
}

func (l *Ledger) facts() achievements.Facts {
	s := &l.state
	return achievements.Facts{
		Lessons:    s.Lessons,
		Quizzes:    s.Quizzes,
		Scenarios:  s.Scenarios,
		Sections:   s.Sections,
		Unlocked:   s.Achievements,
		QuizStreak: s.QuizStreak,
		BestStreak: s.BestStreak,
		Level:      s.Level,
		MaxLevel:   l.levels.Max(),
	}
}

func (l *Ledger) persist(ctx context.Context) {
	if l.persister == nil {
		return
	}
	if err := l.persister.SaveProgress(ctx, l.state.record()); err != nil {
		l.log.Warn("failed to save progress", zap.Error(err))
	}
}

func (l *Ledger) record(ctx context.Context, kind, subject string, amount int, detail string) {
	if l.journal == nil {
		return
	}
	err := l.journal.AppendProgressEvent(ctx, store.ProgressEventData{
		Kind:    kind,
		Subject: subject,
		Amount:  amount,
		Detail:  detail,
	})
	if err != nil {
		l.log.Warn("failed to journal progress event", zap.String("kind", kind), zap.Error(err))
	}
}

package progress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/climastery/internal/achievements"
	"github.com/abhisek/climastery/internal/store"
)

var referenceCatalog = []achievements.Definition{
	{ID: "first_lesson", Name: "First Steps", Bonus: 10},
	{ID: "slash_beginner", Name: "Command Curious", Bonus: 25},
	{ID: "slash_master", Name: "Slash Surgeon", Bonus: 100},
	{ID: "shortcut_student", Name: "Key Listener", Bonus: 25},
	{ID: "shortcut_master", Name: "Keyboard Ninja", Bonus: 100},
	{ID: "mode_explorer", Name: "Mode Shifter", Bonus: 50},
	{ID: "agent_aware", Name: "Agent Handler", Bonus: 75},
	{ID: "skill_builder", Name: "Skill Crafter", Bonus: 75},
	{ID: "mcp_integrator", Name: "Protocol Master", Bonus: 75},
	{ID: "advanced_user", Name: "Power User", Bonus: 100},
	{ID: "config_guru", Name: "Config Guru", Bonus: 75},
	{ID: "quiz_perfect", Name: "Flawless", Bonus: 50},
	{ID: "quiz_streak_3", Name: "Hat Trick", Bonus: 30},
	{ID: "quiz_streak_5", Name: "On Fire", Bonus: 50},
	{ID: "quiz_streak_10", Name: "Unstoppable", Bonus: 100},
	{ID: "all_modules", Name: "Completionist", Bonus: 200},
	{ID: "scenario_solver", Name: "Problem Solver", Bonus: 40},
	{ID: "scenario_master", Name: "Scenario Ace", Bonus: 150},
	{ID: "speed_demon", Name: "Speed Demon", Bonus: 50},
	{ID: "explorer", Name: "Explorer", Bonus: 30},
	{ID: "graduated", Name: "CLI Wizard Graduate", Bonus: 500},
}

// memPersister implements store.ProgressStore in memory.
type memPersister struct {
	rec   *store.ProgressRecord
	saves int
	fail  error
}

func (m *memPersister) LoadProgress(_ context.Context) (*store.ProgressRecord, error) {
	if m.rec == nil {
		return nil, store.ErrNotFound
	}
	return m.rec, nil
}

func (m *memPersister) SaveProgress(_ context.Context, rec *store.ProgressRecord) error {
	m.saves++
	if m.fail != nil {
		return m.fail
	}
	m.rec = rec
	return nil
}

// recordingNotifier captures notifications.
type recordingNotifier struct {
	xp       []string
	levelUps []string
	unlocked []string
}

func (r *recordingNotifier) XPAwarded(amount int, reason string) {
	r.xp = append(r.xp, fmt.Sprintf("%d %s", amount, reason))
}

func (r *recordingNotifier) LevelUp(oldLevel, newLevel int, title string) {
	r.levelUps = append(r.levelUps, fmt.Sprintf("%d->%d %s", oldLevel, newLevel, title))
}

func (r *recordingNotifier) AchievementUnlocked(name, _ string) {
	r.unlocked = append(r.unlocked, name)
}

// memJournal implements store.EventRepo for ledger tests.
type memJournal struct {
	events []store.ProgressEventData
	fail   error
}

func (m *memJournal) AppendProgressEvent(_ context.Context, data store.ProgressEventData) error {
	if m.fail != nil {
		return m.fail
	}
	m.events = append(m.events, data)
	return nil
}
func (m *memJournal) AppendRunEvent(_ context.Context, _ store.RunEventData) error { return nil }
func (m *memJournal) QueryProgressEvents(_ context.Context, _ store.QueryOpts) ([]store.ProgressEventRecord, error) {
	return nil, nil
}
func (m *memJournal) QueryRunEvents(_ context.Context, _ store.QueryOpts) ([]store.RunEventRecord, error) {
	return nil, nil
}
func (m *memJournal) RunSummaries(_ context.Context) ([]store.RunSummary, error) { return nil, nil }

func (m *memJournal) kinds() []string {
	var out []string
	for _, e := range m.events {
		out = append(out, e.Kind)
	}
	return out
}

type fixture struct {
	ledger  *Ledger
	store   *memPersister
	notify  *recordingNotifier
	journal *memJournal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	levels, err := NewLevelTable(referenceLevels())
	require.NoError(t, err)
	catalog, err := achievements.NewCatalog(referenceCatalog)
	require.NoError(t, err)

	f := &fixture{
		store:   &memPersister{},
		notify:  &recordingNotifier{},
		journal: &memJournal{},
	}
	f.ledger, err = New(Options{
		Levels:    levels,
		Catalog:   catalog,
		Persister: f.store,
		Notifier:  f.notify,
		Journal:   f.journal,
	})
	require.NoError(t, err)
	return f
}

func TestNew_RequiresTables(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestLedger_AddXPLevelInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.AddXP(ctx, 150, "x")

	info := f.ledger.LevelInfo()
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, "Apprentice", info.Title)
	assert.Equal(t, 150, info.XP)
	assert.Equal(t, 300, info.NextXP)
	assert.Equal(t, 50, info.XPInLevel)
	assert.Equal(t, 200, info.XPNeeded)
	assert.Equal(t, 150, info.Remaining())
	assert.Equal(t, []string{"0->1 Apprentice"}, f.notify.levelUps)
	assert.Equal(t, 1, f.store.saves)
}

func TestLedger_AddXPNonPositiveIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.AddXP(ctx, 0, "nothing")
	f.ledger.AddXP(ctx, -40, "negative")

	assert.Equal(t, 0, f.ledger.State().XP)
	assert.Empty(t, f.notify.xp)
}

func TestLedger_PerfectFastQuiz(t *testing.T) {
	f := newFixture(t)
	elapsed := 10 * time.Second

	f.ledger.CompleteQuiz(context.Background(), "q1", 5, 5, &elapsed)

	st := f.ledger.State()
	assert.Equal(t, 175, st.XP)
	assert.True(t, st.Achievements.HasAll("quiz_perfect", "speed_demon"))
	assert.True(t, st.Quizzes.Has("q1"))
	assert.Equal(t, []string{"75 Quiz: 5/5 correct"}, f.notify.xp)
	assert.Equal(t, []string{"Flawless", "Speed Demon"}, f.notify.unlocked)
}

func TestLedger_CompleteQuizVariants(t *testing.T) {
	slow := 45 * time.Second
	fast := 5 * time.Second

	tests := []struct {
		name    string
		correct int
		total   int
		elapsed *time.Duration
		wantXP  int
		want    []string
	}{
		{"perfect untimed", 3, 3, nil, 45 + 50, []string{"quiz_perfect"}},
		{"perfect slow", 3, 3, &slow, 45 + 50, []string{"quiz_perfect"}},
		{"imperfect fast", 2, 3, &fast, 30, nil},
		{"empty quiz", 0, 0, &fast, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ledger.CompleteQuiz(context.Background(), "q", tt.correct, tt.total, tt.elapsed)

			st := f.ledger.State()
			assert.Equal(t, tt.wantXP, st.XP)
			assert.ElementsMatch(t, tt.want, members(st.Achievements))
		})
	}
}

func TestLedger_CompleteQuizClampsCounters(t *testing.T) {
	f := newFixture(t)

	f.ledger.CompleteQuiz(context.Background(), "q", 9, 4, nil)

	st := f.ledger.State()
	assert.Equal(t, 4, st.TotalCorrect)
	assert.Equal(t, 4, st.TotalAnswered)
}

func TestLedger_StreakAchievements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for range 10 {
		f.ledger.RecordCorrect(ctx)
	}

	st := f.ledger.State()
	assert.Equal(t, 10, st.QuizStreak)
	assert.Equal(t, 10, st.BestStreak)
	assert.True(t, st.Achievements.HasAll("quiz_streak_3", "quiz_streak_5", "quiz_streak_10"))
	assert.Equal(t, 30+50+100, st.XP)
}

func TestLedger_StreakInvariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seq := "CCICCCCIICC"
	run, best := 0, 0
	for _, c := range seq {
		if c == 'C' {
			f.ledger.RecordCorrect(ctx)
			run++
			best = max(best, run)
		} else {
			f.ledger.RecordIncorrect(ctx)
			run = 0
		}
		st := f.ledger.State()
		require.GreaterOrEqual(t, st.BestStreak, st.QuizStreak)
		require.Equal(t, best, st.BestStreak)
		require.Equal(t, run, st.QuizStreak)
	}
}

func TestLedger_Accuracy(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 0, f.ledger.Stats().AccuracyPercent)

	f.ledger.CompleteQuiz(context.Background(), "q", 7, 10, nil)

	stats := f.ledger.Stats()
	assert.Equal(t, 70, stats.AccuracyPercent)
	assert.Equal(t, 10, stats.TotalAnswered)
	assert.Equal(t, 1, stats.Quizzes)
	assert.Equal(t, len(referenceCatalog), stats.AchievementsTotal)
}

func TestLedger_AccuracyFloors(t *testing.T) {
	f := newFixture(t)

	f.ledger.CompleteQuiz(context.Background(), "q", 2, 3, nil)

	assert.Equal(t, 66, f.ledger.Stats().AccuracyPercent)
}

func TestLedger_Explorer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sections := append([]string{}, achievements.RequiredSections...)
	sections = append(sections, "modes", "agents", "slash_commands")
	for i := len(sections) - 1; i >= 0; i-- {
		f.ledger.VisitSection(ctx, sections[i])
	}

	st := f.ledger.State()
	assert.Len(t, st.Sections, 8)
	assert.True(t, st.Achievements.Has("explorer"))
	assert.Equal(t, 30, st.XP)
	assert.Equal(t, []string{"Explorer"}, f.notify.unlocked)
}

func TestLedger_UnlockUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.ledger.AddXP(ctx, 40, "seed")
	before := f.ledger.State()

	f.ledger.Unlock(ctx, "not_a_real_id")

	assert.Empty(t, cmp.Diff(before, f.ledger.State()))
}

func TestLedger_UnlockIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.Unlock(ctx, "explorer")
	f.ledger.Unlock(ctx, "explorer")

	assert.Equal(t, 30, f.ledger.State().XP)
	assert.Equal(t, []string{"Explorer"}, f.notify.unlocked)
	assert.True(t, f.ledger.HasAchievement("explorer"))
}

func TestLedger_CompleteLessonIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.CompleteLesson(ctx, "modes")
	once := f.ledger.State()
	f.ledger.CompleteLesson(ctx, "modes")

	assert.Empty(t, cmp.Diff(once, f.ledger.State()))
	assert.Equal(t, 20+10, once.XP)
	assert.True(t, once.Achievements.Has("first_lesson"))
	assert.True(t, f.ledger.HasLesson("modes"))
}

func TestLedger_FirstLessonOnlyOnFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.CompleteLesson(ctx, "a")
	f.ledger.Reset(ctx)
	f.ledger.CompleteLesson(ctx, "b")
	f.ledger.CompleteLesson(ctx, "c")

	assert.Equal(t, 20+10+20, f.ledger.State().XP)
}

func TestLedger_CompleteScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.CompleteScenario(ctx, "slash_workflow")
	f.ledger.CompleteScenario(ctx, "slash_workflow")
	f.ledger.CompleteScenario(ctx, "mcp_setup")

	st := f.ledger.State()
	assert.Equal(t, 30+40+30, st.XP)
	assert.Len(t, st.Scenarios, 2)
	assert.True(t, f.ledger.HasScenario("mcp_setup"))
	assert.Contains(t, f.notify.xp, "30 Scenario completed: slash_workflow")
}

func TestLedger_BonusDoesNotLevelUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.AddXP(ctx, 90, "seed")
	f.ledger.Unlock(ctx, "graduated")

	st := f.ledger.State()
	assert.Equal(t, 590, st.XP)
	assert.Equal(t, 0, st.Level)
	assert.Empty(t, f.notify.levelUps)

	f.ledger.AddXP(ctx, 10, "next")

	assert.Equal(t, 3, f.ledger.State().Level)
	assert.Equal(t, []string{"0->3 Practitioner"}, f.notify.levelUps)
}

func TestLedger_MaxLevelGraduates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.AddXP(ctx, 5000, "grind")

	info := f.ledger.LevelInfo()
	assert.Equal(t, 9, info.Level)
	assert.Equal(t, "CLI Wizard", info.Title)
	assert.True(t, f.ledger.HasAchievement("graduated"))
	assert.Equal(t, 5500, info.XP)
	assert.Equal(t, info.XP, info.NextXP)
	assert.Equal(t, 0, info.Remaining())
}

func TestLedger_CompleteExam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.False(t, f.ledger.CompleteExam(ctx, 15, 20, 0))
	assert.False(t, f.ledger.HasAchievement("graduated"))

	assert.True(t, f.ledger.CompleteExam(ctx, 16, 20, 0))
	assert.True(t, f.ledger.HasAchievement("graduated"))
	assert.Equal(t, 500, f.ledger.State().XP)
}

func TestLedger_CheckModuleAchievements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"slash_essential", "slash_1", "slash_2", "slash_3", "slash_4", "slash_commands"} {
		f.ledger.CompleteLesson(ctx, id)
	}
	saves := f.store.saves
	f.ledger.CheckModuleAchievements(ctx)

	st := f.ledger.State()
	assert.True(t, st.Achievements.HasAll("slash_beginner", "slash_master"))
	assert.False(t, st.Achievements.Has("all_modules"))
	assert.Equal(t, saves+1, f.store.saves)

	f.ledger.CheckModuleAchievements(ctx)
	assert.Equal(t, saves+1, f.store.saves, "nothing new unlocked, nothing saved")
}

func TestLedger_Reset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.ledger.CompleteLesson(ctx, "modes")
	f.ledger.RecordCorrect(ctx)

	f.ledger.Reset(ctx)

	assert.Empty(t, cmp.Diff(newState(), f.ledger.State()))
	require.NotNil(t, f.store.rec)
	assert.Equal(t, 0, f.store.rec.XP)
	assert.Empty(t, f.store.rec.CompletedLessons)
}

func TestLedger_SaveFailureKeepsMemoryState(t *testing.T) {
	f := newFixture(t)
	f.store.fail = errors.New("disk full")

	f.ledger.AddXP(context.Background(), 30, "x")

	assert.Equal(t, 30, f.ledger.State().XP)
	assert.Nil(t, f.store.rec)
}

func TestLedger_Journal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.CompleteLesson(ctx, "modes")

	assert.Equal(t, []string{
		store.EventLesson, store.EventXP, store.EventAchievement,
	}, f.journal.kinds())
	assert.Equal(t, "first_lesson", f.journal.events[2].Subject)
	assert.Equal(t, 10, f.journal.events[2].Amount)
}

func TestLedger_JournalFailureIgnored(t *testing.T) {
	f := newFixture(t)
	f.journal.fail = errors.New("locked")

	f.ledger.CompleteScenario(context.Background(), "mcp_setup")

	assert.Equal(t, 70, f.ledger.State().XP)
}

func TestLedger_LoadMissing(t *testing.T) {
	f := newFixture(t)

	f.ledger.Load(context.Background())

	assert.Empty(t, cmp.Diff(newState(), f.ledger.State()))
}

func TestLedger_LoadRepairs(t *testing.T) {
	f := newFixture(t)
	f.store.rec = &store.ProgressRecord{
		XP:                     40,
		QuizStreak:             4,
		BestStreak:             2,
		TotalQuestionsAnswered: 1,
		TotalCorrect:           3,
		Achievements:           []string{"explorer", "retired_badge"},
	}

	f.ledger.Load(context.Background())

	st := f.ledger.State()
	assert.Equal(t, 4, st.BestStreak)
	assert.Equal(t, 3, st.TotalAnswered)
	assert.Equal(t, []string{"explorer"}, members(st.Achievements))
}

func TestLedger_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	ctx := context.Background()

	first := newFixture(t)
	first.ledger.persister = store.NewFileStore(path)
	elapsed := 12 * time.Second
	first.ledger.CompleteLesson(ctx, "modes")
	first.ledger.CompleteQuiz(ctx, "modes", 4, 5, &elapsed)
	first.ledger.RecordCorrect(ctx)
	first.ledger.RecordCorrect(ctx)
	first.ledger.RecordIncorrect(ctx)
	first.ledger.CompleteScenario(ctx, "mode_selection")
	first.ledger.VisitSection(ctx, "modes")

	second := newFixture(t)
	second.ledger.persister = store.NewFileStore(path)
	second.ledger.Load(ctx)

	if diff := cmp.Diff(first.ledger.State(), second.ledger.State()); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLedger_CorruptFileRecovers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f := newFixture(t)
	f.ledger.persister = store.NewFileStore(path)
	f.ledger.Load(context.Background())

	assert.Empty(t, cmp.Diff(newState(), f.ledger.State()))
}

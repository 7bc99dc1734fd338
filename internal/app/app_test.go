package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/climastery/internal/config"
	"github.com/abhisek/climastery/internal/store"
)

// Main menu numbers: modules 1-8, arena 9, dashboard 10, achievements 11,
// reference 12, export 13, exam 14, reset 15, quit 16.
const modesModule = "3\n"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DataDir = t.TempDir()
	cfg.Storage.Journal = false
	cfg.UI.Menu = config.MenuPlain
	cfg.UI.Color = false
	cfg.Quiz.Shuffle = false
	return cfg
}

func openSession(t *testing.T, cfg *config.Config, input string) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s, err := Open(context.Background(), Env{
		Config: cfg,
		In:     strings.NewReader(input),
		Out:    &out,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, &out
}

func run(t *testing.T, cfg *config.Config, input string) (*Session, string) {
	t.Helper()
	s, out := openSession(t, cfg, input)
	require.NoError(t, s.Run(context.Background()))
	return s, out.String()
}

func TestOpen_RequiresConfig(t *testing.T) {
	_, err := Open(context.Background(), Env{})
	assert.Error(t, err)
}

func TestRun_QuitFromMenu(t *testing.T) {
	for _, input := range []string{"q\n", "16\n", ""} {
		_, out := run(t, testConfig(t), input)
		assert.Contains(t, out, "Copilot CLI Mastery")
		assert.Contains(t, out, "Welcome to Copilot CLI Mastery training!")
		assert.Contains(t, out, "Thanks for training!", "input %q", input)
	}
}

func TestRun_LessonCompletes(t *testing.T) {
	cfg := testConfig(t)
	// module, lesson 1, three pages, post-lesson pause, back, quit.
	s, out := run(t, cfg, modesModule+"1\n\n\n\n\nq\nq\n")

	assert.True(t, s.Ledger.HasLesson("modes"))
	assert.True(t, s.Ledger.HasAchievement("first_lesson"))
	assert.True(t, s.Ledger.State().Sections.Has("modes"))
	assert.Contains(t, out, "Page 3 of 3")
	assert.Contains(t, out, "⭐ +20 XP · Completed lesson: modes")
	assert.Contains(t, out, "Lesson complete: The Three Modes")

	// Progress survives a restart.
	again, out2 := run(t, cfg, "q\n")
	assert.True(t, again.Ledger.HasLesson("modes"))
	assert.Equal(t, s.Ledger.State().XP, again.Ledger.State().XP)
	assert.Contains(t, out2, "Welcome back")
}

func TestRun_LessonAbandonedAtEOF(t *testing.T) {
	s, out := run(t, testConfig(t), modesModule+"1\n\n")

	assert.False(t, s.Ledger.HasLesson("modes"))
	assert.True(t, s.Ledger.State().Sections.Has("modes"), "entering the module still counts as a visit")
	assert.Contains(t, out, "Page 2 of 3")
	assert.NotContains(t, out, "Lesson complete")
}

func TestRun_ScenarioPasses(t *testing.T) {
	s, out := run(t, testConfig(t), modesModule+"3\n2\n1\n3\n1\n2\n\nq\nq\n")

	assert.True(t, s.Ledger.HasScenario("mode_selection"))
	assert.Contains(t, out, "Steps correct: 5/5 (100%)")
	assert.Contains(t, out, "Scenario passed!")
	assert.Equal(t, 1, s.Ledger.Stats().Scenarios)
}

func TestRun_Export(t *testing.T) {
	s, out := run(t, testConfig(t), "13\n\nq\n")

	data, err := os.ReadFile(s.ExportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SLASH COMMANDS")
	assert.Contains(t, string(data), "KEYBOARD SHORTCUTS")
	assert.Equal(t, ExportXP, s.Ledger.State().XP)
	assert.Contains(t, out, "Reference exported to: "+s.ExportPath)
}

func TestRun_Reset(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		s, out := openSession(t, testConfig(t), "15\nreset\n\nq\n")
		s.Ledger.AddXP(context.Background(), 150, "seed")

		require.NoError(t, s.Run(context.Background()))
		assert.Zero(t, s.Ledger.State().XP)
		assert.Contains(t, out.String(), "Progress reset.")
	})

	t.Run("declined", func(t *testing.T) {
		s, out := openSession(t, testConfig(t), "15\ny\nq\n")
		s.Ledger.AddXP(context.Background(), 150, "seed")

		require.NoError(t, s.Run(context.Background()))
		assert.Equal(t, 150, s.Ledger.State().XP)
		assert.Contains(t, out.String(), "Reset cancelled.")
	})
}

func TestRun_DashboardAndAchievements(t *testing.T) {
	s, out := run(t, testConfig(t), "10\n\n11\n\nq\n")

	assert.Contains(t, out, "📊 Your Dashboard · Level 0")
	assert.Contains(t, out, "Module Progress:")
	assert.Contains(t, out, "⬜ Interaction Modes")
	assert.Contains(t, out, "🔒 ")
	assert.Contains(t, out, fmt.Sprintf("Unlocked: 0/%d", s.Content.Catalog.Len()))
}

func TestRun_ReferenceMenu(t *testing.T) {
	_, out := run(t, testConfig(t), "12\n1\n\n2\n\n0\nq\n")

	assert.Contains(t, out, "📋 Quick Reference Card")
	assert.Contains(t, out, "/help")
	assert.Contains(t, out, "Shift+Tab")
}

func TestRun_ExamDeclined(t *testing.T) {
	s, out := run(t, testConfig(t), "14\n0\nq\n")

	assert.Contains(t, out, "FINAL EXAM")
	assert.Contains(t, out, "Score 80%+ to earn the CLI Wizard certification.")
	assert.Zero(t, s.Ledger.Stats().TotalAnswered)
}

func TestRun_ArenaWithJournal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.Journal = true

	s, out := run(t, cfg, "9\n1\n/streamer-mode on, /diff then /review\n\n0\nq\n")

	title := s.Content.Arena[0].Title
	assert.True(t, s.Ledger.HasScenario(title))
	assert.Contains(t, out, "Mission cleared!")

	require.NotNil(t, s.Journal)
	sums, err := s.Journal.RunSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, store.RunArena, sums[0].Kind)
	assert.Equal(t, title, sums[0].Subject)
	assert.Equal(t, 1, sums[0].Passes)

	_, err = os.Stat(cfg.ProgressPath())
	assert.True(t, os.IsNotExist(err), "sqlite backend writes no progress file")

	require.NoError(t, s.Close())
	again, _ := run(t, cfg, "q\n")
	assert.True(t, again.Ledger.HasScenario(title))
}

func TestRun_InterruptedInput(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	var out bytes.Buffer
	s, err := Open(ctx, Env{Config: cfg, In: pr, Out: &out})
	require.NoError(t, err)
	defer s.Close()
	s.Ledger.AddXP(context.Background(), 40, "before interrupt")

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()
	cancel()

	require.ErrorIs(t, <-errc, ErrInterrupted)
	require.NoError(t, s.Close())
	assert.NotContains(t, out.String(), "Thanks for training!")

	entries, err := os.ReadDir(cfg.Storage.DataDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}

	again, _ := openSession(t, cfg, "q\n")
	assert.Equal(t, 40, again.Ledger.State().XP)
}

func TestOpen_CorruptJournalFallsBack(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Storage.Backend = backend
			cfg.Storage.Journal = true
			require.NoError(t, os.WriteFile(cfg.JournalPath(), bytes.Repeat([]byte("not sqlite "), 512), 0o644))

			s, _ := openSession(t, cfg, "")
			assert.Nil(t, s.Journal)
			assert.Zero(t, s.Ledger.State().XP)

			s.Ledger.AddXP(context.Background(), 10, "test")
			_, err := os.Stat(cfg.ProgressPath())
			assert.NoError(t, err, "progress falls back to the file store")
		})
	}
}

func TestWriteReference(t *testing.T) {
	s, _ := openSession(t, testConfig(t), "")
	path := t.TempDir() + "/nested/ref.txt"

	require.NoError(t, WriteReference(s.Content, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), s.Content.Title))
}

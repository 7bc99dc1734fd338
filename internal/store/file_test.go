package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "progress.json"))

	_, err := fs.LoadProgress(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.json")
	fs := NewFileStore(path)
	ctx := context.Background()

	in := &ProgressRecord{
		XP:                     175,
		Level:                  1,
		CompletedLessons:       []string{"slash_basics", "modes", "slash_basics"},
		CompletedQuizzes:       []string{"slash_quiz"},
		CompletedScenarios:     nil,
		Achievements:           []string{"speed_demon", "quiz_perfect", "first_lesson"},
		QuizStreak:             2,
		BestStreak:             10,
		TotalQuestionsAnswered: 12,
		TotalCorrect:           9,
		SectionsVisited:        []string{"modes"},
	}
	require.NoError(t, fs.SaveProgress(ctx, in))

	got, err := fs.LoadProgress(ctx)
	require.NoError(t, err)

	want := &ProgressRecord{
		XP:                     175,
		Level:                  1,
		CompletedLessons:       []string{"modes", "slash_basics"},
		CompletedQuizzes:       []string{"slash_quiz"},
		CompletedScenarios:     []string{},
		Achievements:           []string{"first_lesson", "quiz_perfect", "speed_demon"},
		QuizStreak:             2,
		BestStreak:             10,
		TotalQuestionsAnswered: 12,
		TotalCorrect:           9,
		SectionsVisited:        []string{"modes"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// The caller's record is not reordered by saving.
	assert.Equal(t, "speed_demon", in.Achievements[0])
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(filepath.Join(dir, "progress.json"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, fs.SaveProgress(ctx, &ProgressRecord{XP: i}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "progress.json", entries[0].Name())
}

func TestFileStore_MissingFieldsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"xp": 40, "achievements": ["first_lesson"]}`), 0o644))

	got, err := NewFileStore(path).LoadProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, got.XP)
	assert.Equal(t, 0, got.Level)
	assert.Equal(t, []string{"first_lesson"}, got.Achievements)
	assert.Empty(t, got.CompletedLessons)
	assert.Equal(t, 0, got.BestStreak)
}

func TestFileStore_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"not json", "{{{ nope"},
		{"truncated", `{"xp": 10, "level":`},
		{"array root", `[1, 2, 3]`},
		{"negative xp", `{"xp": -5}`},
		{"string xp", `{"xp": "lots"}`},
		{"fractional level", `{"level": 1.5}`},
		{"non-string ids", `{"completed_lessons": [1, 2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "progress.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := NewFileStore(path).LoadProgress(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorrupt), "want ErrCorrupt, got %v", err)
		})
	}
}

func TestFileStore_NullListsAccepted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"xp": 1, "completed_lessons": null}`), 0o644))

	got, err := NewFileStore(path).LoadProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.CompletedLessons)
}

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceLevels() []Level {
	return []Level{
		{0, "Newcomer", "Just getting started"},
		{100, "Apprentice", "Learning the basics"},
		{300, "Navigator", "Finding your way around"},
		{600, "Practitioner", "Developing real skills"},
		{1000, "Specialist", "Deep knowledge forming"},
		{1500, "Expert", "Mastering advanced features"},
		{2200, "Virtuoso", "Orchestrating complex workflows"},
		{3000, "Architect", "Designing powerful solutions"},
		{4000, "Grandmaster", "Peak mastery achieved"},
		{5000, "CLI Wizard", "You ARE the CLI"},
	}
}

func TestLevelTable_LevelOf(t *testing.T) {
	table, err := NewLevelTable(referenceLevels())
	require.NoError(t, err)

	tests := []struct {
		xp   int
		want int
	}{
		{-5, 0},
		{0, 0},
		{99, 0},
		{100, 1},
		{150, 1},
		{299, 1},
		{300, 2},
		{4999, 8},
		{5000, 9},
		{1 << 30, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.LevelOf(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelTable_Monotonic(t *testing.T) {
	table, err := NewLevelTable(referenceLevels())
	require.NoError(t, err)

	prev := table.LevelOf(0)
	for xp := 1; xp <= 6000; xp++ {
		cur := table.LevelOf(xp)
		require.GreaterOrEqual(t, cur, prev, "xp=%d", xp)
		prev = cur
	}
}

func TestLevelTable_TwoEntries(t *testing.T) {
	table, err := NewLevelTable([]Level{{0, "Start", ""}, {10, "Done", ""}})
	require.NoError(t, err)

	assert.Equal(t, 1, table.Max())
	assert.Equal(t, 0, table.LevelOf(9))
	assert.Equal(t, 1, table.LevelOf(10))
	assert.Equal(t, "Done", table.At(7).Title)
	assert.Equal(t, "Start", table.At(-1).Title)
}

func TestNewLevelTable_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		levels []Level
		want   string
	}{
		{"too few", []Level{{0, "Only", ""}}, "need at least 2 levels"},
		{"nonzero start", []Level{{5, "A", ""}, {10, "B", ""}}, "threshold must be 0"},
		{"not increasing", []Level{{0, "A", ""}, {10, "B", ""}, {10, "C", ""}}, "level 2: threshold 10 not above 10"},
		{"empty title", []Level{{0, "A", ""}, {10, "", ""}}, "level 1: empty title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLevelTable(tt.levels)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

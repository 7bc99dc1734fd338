package progress

import (
	"fmt"
	"sort"
	"strings"
)

// Level is one tier of the level table.
type Level struct {
	Threshold   int
	Title       string
	Description string
}

// LevelTable maps cumulative XP to a level index.
type LevelTable struct {
	levels []Level
}

// NewLevelTable validates levels: at least two entries, the first at
// threshold 0, thresholds strictly increasing, titles non-empty.
func NewLevelTable(levels []Level) (*LevelTable, error) {
	var errs []string
	if len(levels) < 2 {
		errs = append(errs, fmt.Sprintf("need at least 2 levels, got %d", len(levels)))
	}
	for i, lv := range levels {
		if i == 0 && lv.Threshold != 0 {
			errs = append(errs, fmt.Sprintf("level 0: threshold must be 0, got %d", lv.Threshold))
		}
		if i > 0 && lv.Threshold <= levels[i-1].Threshold {
			errs = append(errs, fmt.Sprintf("level %d: threshold %d not above %d", i, lv.Threshold, levels[i-1].Threshold))
		}
		if lv.Title == "" {
			errs = append(errs, fmt.Sprintf("level %d: empty title", i))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("level table invalid:\n  %s", strings.Join(errs, "\n  "))
	}

	t := &LevelTable{levels: make([]Level, len(levels))}
	copy(t.levels, levels)
	return t, nil
}

// LevelOf returns the highest index whose threshold is at most xp.
func (t *LevelTable) LevelOf(xp int) int {
	i := sort.Search(len(t.levels), func(i int) bool {
		return t.levels[i].Threshold > xp
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// At returns level i, clamped to the table bounds.
func (t *LevelTable) At(i int) Level {
	return t.levels[t.clamp(i)]
}

// Max returns the index of the final level.
func (t *LevelTable) Max() int {
	return len(t.levels) - 1
}

// Len returns the number of levels.
func (t *LevelTable) Len() int {
	return len(t.levels)
}

// All returns a copy of every level in order.
func (t *LevelTable) All() []Level {
	out := make([]Level, len(t.levels))
	copy(out, t.levels)
	return out
}

func (t *LevelTable) clamp(i int) int {
	switch {
	case i < 0:
		return 0
	case i > t.Max():
		return t.Max()
	}
	return i
}

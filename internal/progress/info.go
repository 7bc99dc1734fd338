package progress

// LevelInfo describes the learner's position in the level table.
type LevelInfo struct {
	Level       int
	Title       string
	Description string
	XP          int
	NextXP      int
	XPInLevel   int
	XPNeeded    int
}

// Remaining returns the XP left before the next level, 0 at the top.
func (i LevelInfo) Remaining() int {
	return max(i.NextXP-i.XP, 0)
}

// Stats summarizes learner activity.
type Stats struct {
	Lessons              int
	Quizzes              int
	Scenarios            int
	AchievementsUnlocked int
	AchievementsTotal    int
	AccuracyPercent      int
	BestStreak           int
	TotalAnswered        int
}

// LevelInfo reports the stored level and the XP span to the next one. At
// the final level NextXP equals XP.
func (l *Ledger) LevelInfo() LevelInfo {
	s := &l.state
	idx := min(max(s.Level, 0), l.levels.Max())
	cur := l.levels.At(idx)

	next := s.XP
	if idx < l.levels.Max() {
		next = l.levels.At(idx + 1).Threshold
	}
	return LevelInfo{
		Level:       s.Level,
		Title:       cur.Title,
		Description: cur.Description,
		XP:          s.XP,
		NextXP:      next,
		XPInLevel:   s.XP - cur.Threshold,
		XPNeeded:    next - cur.Threshold,
	}
}

// Stats reports counts and answer accuracy.
func (l *Ledger) Stats() Stats {
	s := &l.state
	acc := 0
	if s.TotalAnswered > 0 {
		acc = 100 * s.TotalCorrect / s.TotalAnswered
	}
	return Stats{
		Lessons:              len(s.Lessons),
		Quizzes:              len(s.Quizzes),
		Scenarios:            len(s.Scenarios),
		AchievementsUnlocked: len(s.Achievements),
		AchievementsTotal:    l.catalog.Len(),
		AccuracyPercent:      acc,
		BestStreak:           s.BestStreak,
		TotalAnswered:        s.TotalAnswered,
	}
}

// State returns a copy of the current progress.
func (l *Ledger) State() State {
	return l.state.Clone()
}

// Levels returns the level table.
func (l *Ledger) Levels() *LevelTable {
	return l.levels
}

// HasLesson reports whether lesson id is complete.
func (l *Ledger) HasLesson(id string) bool {
	return l.state.Lessons.Has(id)
}

// HasScenario reports whether scenario id is complete.
func (l *Ledger) HasScenario(id string) bool {
	return l.state.Scenarios.Has(id)
}

// HasAchievement reports whether achievement id is unlocked.
func (l *Ledger) HasAchievement(id string) bool {
	return l.state.Achievements.Has(id)
}

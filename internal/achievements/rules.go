package achievements

import "time"

// RequiredSections must all be visited to unlock "explorer".
var RequiredSections = []string{
	"slash_commands", "keyboard_shortcuts", "modes", "agents",
	"skills", "mcp", "advanced", "configuration",
}

// ModuleMarkers are the lesson ids recorded when a module's final lesson
// is completed.
var ModuleMarkers = []string{
	"slash_commands", "keyboard_shortcuts", "modes", "agents",
	"skills", "mcp", "advanced", "config",
}

// ModuleScenarios are the per-module scenario challenge ids.
var ModuleScenarios = []string{
	"slash_workflow", "shortcuts_efficiency", "mode_selection",
	"agent_orchestration", "skill_workflow", "mcp_setup",
	"expert_workflow", "config_setup",
}

// SpeedDemonLimit is the elapsed time a perfect quiz must beat.
const SpeedDemonLimit = 30 * time.Second

// DefaultRules returns every unlock condition. Rule ids are catalog ids.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "first_lesson", On: OnLesson, When: func(f Facts) bool {
			return len(f.Lessons) == 1
		}},
		{ID: "quiz_perfect", On: OnQuiz, When: func(f Facts) bool {
			return f.LastQuiz.Perfect()
		}},
		{ID: "speed_demon", On: OnQuiz, When: func(f Facts) bool {
			q := f.LastQuiz
			return q.Perfect() && q.Elapsed != nil && *q.Elapsed < SpeedDemonLimit
		}},
		{ID: "quiz_streak_3", On: OnStreak, When: streakAtLeast(3)},
		{ID: "quiz_streak_5", On: OnStreak, When: streakAtLeast(5)},
		{ID: "quiz_streak_10", On: OnStreak, When: streakAtLeast(10)},
		{ID: "scenario_solver", On: OnScenario, When: func(f Facts) bool {
			return len(f.Scenarios) == 1
		}},
		{ID: "explorer", On: OnSection, When: func(f Facts) bool {
			return f.Sections.HasAll(RequiredSections...)
		}},
		{ID: "graduated", On: OnLevel | OnExam, When: func(f Facts) bool {
			atMax := f.MaxLevel > 0 && f.Level >= f.MaxLevel
			return atMax || f.LastExam.Passed()
		}},

		// Module checks run after a module's lessons complete.
		{ID: "slash_beginner", On: OnModuleCheck, When: lessonPrefixAtLeast("slash_", 5)},
		{ID: "shortcut_student", On: OnModuleCheck, When: lessonPrefixAtLeast("keys_", 5)},
		{ID: "mode_explorer", On: OnModuleCheck, When: lessonDone("modes")},
		{ID: "agent_aware", On: OnModuleCheck, When: lessonDone("agents")},
		{ID: "skill_builder", On: OnModuleCheck, When: lessonDone("skills")},
		{ID: "mcp_integrator", On: OnModuleCheck, When: lessonDone("mcp")},
		{ID: "advanced_user", On: OnModuleCheck, When: lessonDone("advanced")},
		{ID: "config_guru", On: OnModuleCheck, When: lessonDone("config")},
		{ID: "slash_master", On: OnModuleCheck, When: lessonDone("slash_commands")},
		{ID: "shortcut_master", On: OnModuleCheck, When: lessonDone("keyboard_shortcuts")},
		{ID: "scenario_master", On: OnModuleCheck, When: func(f Facts) bool {
			return f.Scenarios.HasAll(ModuleScenarios...)
		}},
		{ID: "all_modules", On: OnModuleCheck, When: func(f Facts) bool {
			return f.Lessons.HasAll(ModuleMarkers...)
		}},
	}
}

func streakAtLeast(n int) func(Facts) bool {
	return func(f Facts) bool { return f.QuizStreak >= n }
}

func lessonPrefixAtLeast(prefix string, n int) func(Facts) bool {
	return func(f Facts) bool { return f.Lessons.CountPrefix(prefix) >= n }
}

func lessonDone(id string) func(Facts) bool {
	return func(f Facts) bool { return f.Lessons.Has(id) }
}

// Package render writes the training UI to a terminal. Terminal is the
// rendering sink for both the progress ledger and the assessment runner.
package render

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/climastery/internal/ui/components"
	"github.com/abhisek/climastery/internal/ui/theme"
)

// DefaultWidth is the column width rules and boxes are drawn to.
const DefaultWidth = 72

// Terminal renders styled lines to a writer. Colors are downsampled to what
// the writer supports, so a pipe or buffer receives plain text.
type Terminal struct {
	w      io.Writer
	styles theme.Styles
	width  int
}

// New returns a Terminal writing to w.
func New(w io.Writer, color bool) *Terminal {
	return &Terminal{
		w:      w,
		styles: theme.New(color),
		width:  DefaultWidth,
	}
}

// Styles returns the styles in use.
func (t *Terminal) Styles() theme.Styles {
	return t.styles
}

// Writer returns the underlying writer.
func (t *Terminal) Writer() io.Writer {
	return t.w
}

func (t *Terminal) println(a ...any) {
	_, _ = lipgloss.Fprintln(t.w, a...)
}

// Blank prints an empty line.
func (t *Terminal) Blank() {
	t.println()
}

// Status prints a plain message.
func (t *Terminal) Status(msg string) {
	t.println("  " + t.styles.Body.Render(msg))
}

// Note prints a dimmed, indented message.
func (t *Terminal) Note(msg string) {
	t.println("    " + t.styles.Dim.Render(msg))
}

// Success prints a success notice.
func (t *Terminal) Success(msg string) {
	t.println()
	t.println("  " + t.styles.Correct.Render("✅ "+msg))
}

// Error prints an error notice.
func (t *Terminal) Error(msg string) {
	t.println()
	t.println("  " + t.styles.Incorrect.Render("❌ "+msg))
}

// Warning prints a warning notice.
func (t *Terminal) Warning(msg string) {
	t.println()
	t.println("  " + t.styles.Incorrect.Render("⚠️  WARNING:") + " " + t.styles.Body.Render(msg))
}

// Tip prints a tip.
func (t *Terminal) Tip(msg string) {
	t.println()
	t.println("  " + t.styles.Tip.Render("💡 TIP:") + " " + t.styles.Body.Render(msg))
}

// Heading prints title centered in a heavy rule.
func (t *Terminal) Heading(title string) {
	t.println(t.fancyRule(title, t.styles.Title))
}

// Rule prints a thin horizontal rule.
func (t *Terminal) Rule() {
	t.println(t.styles.Rule.Render(strings.Repeat("─", t.width)))
}

func (t *Terminal) fancyRule(label string, st lipgloss.Style) string {
	if label == "" {
		return st.Render(strings.Repeat("━", t.width))
	}
	label = " " + label + " "
	side := max(0, (t.width-lipgloss.Width(label))/2)
	rest := max(0, t.width-side-lipgloss.Width(label))
	return st.Render(strings.Repeat("━", side) + label + strings.Repeat("━", rest))
}

func (t *Terminal) centered(s string) string {
	pad := max(0, (t.width-lipgloss.Width(s))/2)
	return strings.Repeat(" ", pad) + s
}

// Difficulty prints a difficulty tag with its marker.
func (t *Terminal) Difficulty(level string) {
	if level == "" {
		return
	}
	t.println("  " + theme.DifficultyIcon(level) + " " + t.styles.Difficulty(level).Render(strings.ToUpper(level)))
}

// Options prints a numbered option list.
func (t *Terminal) Options(opts []string) {
	for i, o := range opts {
		t.println(fmt.Sprintf("    %s %s", t.styles.Selected.Render(fmt.Sprintf("%d.", i+1)), t.styles.Body.Render(o)))
	}
}

// XPAwarded announces an XP award.
func (t *Terminal) XPAwarded(amount int, reason string) {
	line := "  " + t.styles.XP.Render(fmt.Sprintf("⭐ +%d XP", amount))
	if reason != "" {
		line += " " + t.styles.Dim.Render("· "+reason)
	}
	t.println(line)
}

// LevelUp announces a level change.
func (t *Terminal) LevelUp(oldLevel, newLevel int, title string) {
	t.println()
	t.println(t.fancyRule("LEVEL UP!", t.styles.Trophy))
	t.println(t.centered(t.styles.Trophy.Render(fmt.Sprintf("Level %d → Level %d", oldLevel, newLevel))))
	t.println(t.centered(t.styles.Title.Render(title)))
	t.println(t.fancyRule("", t.styles.Trophy))
	t.println()
}

// AchievementUnlocked announces an achievement.
func (t *Terminal) AchievementUnlocked(name, description string) {
	t.println()
	t.println("  " + t.styles.Trophy.Render("🏆 ACHIEVEMENT UNLOCKED: "+name))
	if description != "" {
		t.println("     " + t.styles.Dim.Render(description))
	}
	t.println()
}

// Box prints text inside a rounded border, wrapped to the terminal width.
func (t *Terminal) Box(text string) {
	t.println(t.styles.Card.Width(t.width).Render(text))
}

// InfoBox prints a titled box.
func (t *Terminal) InfoBox(title, body string) {
	content := lipgloss.JoinVertical(lipgloss.Left,
		t.styles.Title.Render(title),
		t.styles.Rule.Render(strings.Repeat("─", max(0, t.width-4))),
		body,
	)
	t.println()
	t.println(t.styles.Card.Width(t.width).Render(content))
}

// ProgressBar prints a labelled progress bar.
func (t *Terminal) ProgressBar(label string, current, total int) {
	bar := components.NewProgressBar(label, current, total, 30, t.styles)
	t.println("  " + bar.View())
}

// Scenario prints a scenario header and its description.
func (t *Terminal) Scenario(title, description string) {
	t.println()
	t.println("  " + t.styles.Title.Render("📋 SCENARIO: "+title))
	t.println()
	for line := range strings.SplitSeq(description, "\n") {
		t.println("    " + t.styles.Body.Render(line))
	}
	t.println()
}

// Command prints a slash command and its description.
func (t *Terminal) Command(cmd, description string) {
	t.println("  " + t.styles.Command.Render(cmd))
	if description != "" {
		t.println("    " + t.styles.Dim.Render(description))
	}
}

// Shortcut prints a key combination and what it does.
func (t *Terminal) Shortcut(keys, description string) {
	t.println("  " + t.styles.Shortcut.Render(fmt.Sprintf("%-22s", keys)) + " " + t.styles.Body.Render(description))
}

// Banner prints the title screen.
func (t *Terminal) Banner(title, tagline string) {
	t.println()
	t.println(t.fancyRule("", t.styles.Title))
	t.println(t.centered(t.styles.Title.Render(title)))
	if tagline != "" {
		t.println(t.centered(t.styles.Subtitle.Render(tagline)))
	}
	t.println(t.fancyRule("", t.styles.Title))
	t.println()
}

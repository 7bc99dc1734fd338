// Package theme holds the climastery color palette and lipgloss styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Gold      = lipgloss.Color("#FACC15") // Yellow
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Expert    = lipgloss.Color("#E879F9") // Fuchsia
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Styles is the set of styles a renderer draws with. The zero value renders
// text unchanged.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Body      lipgloss.Style
	Dim       lipgloss.Style
	Rule      lipgloss.Style
	Selected  lipgloss.Style
	Correct   lipgloss.Style
	Incorrect lipgloss.Style
	Tip       lipgloss.Style
	XP        lipgloss.Style
	Trophy    lipgloss.Style
	Command   lipgloss.Style
	Shortcut  lipgloss.Style
	Card      lipgloss.Style
	Filled    lipgloss.Style
	Empty     lipgloss.Style

	difficulty map[string]lipgloss.Style
}

// New returns the themed styles, or unstyled ones when colored is false.
func New(colored bool) Styles {
	plain := lipgloss.NewStyle()
	if !colored {
		card := plain.Border(lipgloss.RoundedBorder()).Padding(0, 1)
		return Styles{
			Title:     plain,
			Subtitle:  plain,
			Body:      plain,
			Dim:       plain,
			Rule:      plain,
			Selected:  plain,
			Correct:   plain,
			Incorrect: plain,
			Tip:       plain,
			XP:        plain,
			Trophy:    plain,
			Command:   plain,
			Shortcut:  plain,
			Card:      card,
			Filled:    plain,
			Empty:     plain,
		}
	}

	fg := func(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return Styles{
		Title:     fg(Primary).Bold(true),
		Subtitle:  fg(TextDim).Italic(true),
		Body:      fg(Text),
		Dim:       fg(TextDim),
		Rule:      fg(Border),
		Selected:  fg(Primary).Bold(true),
		Correct:   fg(Success).Bold(true),
		Incorrect: fg(Error).Bold(true),
		Tip:       fg(Gold).Bold(true),
		XP:        fg(Expert).Bold(true),
		Trophy:    fg(Gold).Bold(true),
		Command:   fg(Success).Bold(true),
		Shortcut:  fg(Gold).Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1),
		Filled: fg(Secondary),
		Empty:  fg(Border),
		difficulty: map[string]lipgloss.Style{
			"beginner":     fg(Success).Bold(true),
			"intermediate": fg(Gold).Bold(true),
			"advanced":     fg(Error).Bold(true),
			"expert":       fg(Expert).Bold(true),
		},
	}
}

// Difficulty returns the style for a difficulty tag.
func (s Styles) Difficulty(level string) lipgloss.Style {
	if st, ok := s.difficulty[level]; ok {
		return st
	}
	return s.Body
}

// DifficultyIcon returns the marker shown before a difficulty tag.
func DifficultyIcon(level string) string {
	switch level {
	case "beginner":
		return "🟢"
	case "intermediate":
		return "🟡"
	case "advanced":
		return "🔴"
	case "expert":
		return "💎"
	default:
		return "⚪"
	}
}

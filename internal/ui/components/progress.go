package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/climastery/internal/ui/theme"
)

// ProgressBar displays a horizontal block progress bar with a count.
type ProgressBar struct {
	Label   string
	Current int
	Total   int
	Width   int
	Styles  theme.Styles
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, current, total, width int, styles theme.Styles) ProgressBar {
	return ProgressBar{
		Label:   label,
		Current: current,
		Total:   total,
		Width:   width,
		Styles:  styles,
	}
}

// Percent returns the floor percentage, 0 when Total is not positive.
func (p ProgressBar) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return 100 * p.clamped() / p.Total
}

func (p ProgressBar) clamped() int {
	return max(0, min(p.Current, p.Total))
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	width := max(p.Width, 4)

	filled := 0
	if p.Total > 0 {
		filled = width * p.clamped() / p.Total
	}

	bar := p.Styles.Filled.Render(strings.Repeat("█", filled)) +
		p.Styles.Empty.Render(strings.Repeat("░", width-filled))

	var b strings.Builder
	if p.Label != "" {
		b.WriteString(p.Label)
		b.WriteString(" ")
	}
	b.WriteString(bar)
	fmt.Fprintf(&b, " %d%% (%d/%d)", p.Percent(), p.Current, p.Total)
	return b.String()
}

package layout

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/abhisek/climastery/internal/ui/theme"
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Hints collects the help text of the enabled bindings.
func Hints(bindings ...key.Binding) []KeyHint {
	hints := make([]KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		if h.Key == "" {
			continue
		}
		hints = append(hints, KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}

// RenderFooter renders key hints on one indented line.
func RenderFooter(hints []KeyHint, styles theme.Styles) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, styles.Body.Render(h.Key)+" "+styles.Dim.Render(h.Description))
	}
	return "  " + strings.Join(parts, styles.Dim.Render(" · "))
}

// RenderFrame composes a title, body and footer separated by blank lines.
// Empty parts are skipped.
func RenderFrame(title, body, footer string, styles theme.Styles) string {
	var b strings.Builder
	b.WriteString("\n")
	if title != "" {
		b.WriteString("  " + styles.Title.Render(title) + "\n\n")
	}
	b.WriteString(body)
	if footer != "" {
		b.WriteString("\n" + footer + "\n")
	}
	return b.String()
}

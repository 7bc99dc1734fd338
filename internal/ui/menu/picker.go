// Package menu asks the user to choose from a list, either with an
// arrow-key TUI or a numbered prompt.
package menu

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/term"

	"github.com/abhisek/climastery/internal/ui/components"
	"github.com/abhisek/climastery/internal/ui/layout"
	"github.com/abhisek/climastery/internal/ui/prompt"
	"github.com/abhisek/climastery/internal/ui/theme"
)

var (
	// ErrBack is returned when the user leaves the menu without choosing.
	ErrBack = errors.New("menu: back")

	// ErrInterrupted is returned when the user presses ctrl+c in the TUI
	// or the input reader is interrupted.
	ErrInterrupted = prompt.ErrInterrupted
)

// Styles accepted by New.
const (
	StyleAuto  = "auto"
	StyleTUI   = "tui"
	StylePlain = "plain"
)

// Item is one menu entry. An empty label is a spacer.
type Item = components.MenuItem

// Picker chooses an item and returns its index. It returns ErrBack when the
// user backs out, and io.EOF when input has ended.
type Picker interface {
	Pick(title string, items []Item) (int, error)
}

// New returns the picker for style. lines reads plain choices; in and out
// are the raw streams the TUI runs on. Auto selects the TUI only when both
// in and out are terminals.
func New(style string, lines prompt.Reader, in io.Reader, out io.Writer, color bool) Picker {
	styles := theme.New(color)
	plain := &Plain{In: lines, Out: out, Styles: styles}
	tui := &TUI{In: in, Out: out, Styles: styles}

	switch style {
	case StyleTUI:
		return tui
	case StylePlain:
		return plain
	default:
		if isTerminal(in) && isTerminal(out) {
			return tui
		}
		return plain
	}
}

// isTerminal reports whether v is a file descriptor attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(f.Fd())
}

// Plain prints a numbered list and reads the choice as a line.
type Plain struct {
	In     prompt.Reader
	Out    io.Writer
	Styles theme.Styles
}

// Pick implements Picker. "0", "q" and "b" go back; anything else that is
// not a selectable number re-prompts.
func (p *Plain) Pick(title string, items []Item) (int, error) {
	idx := make(map[int]int)
	num := 0

	lipgloss.Fprintln(p.Out)
	if title != "" {
		lipgloss.Fprintln(p.Out, "  "+p.Styles.Title.Render(title))
		lipgloss.Fprintln(p.Out)
	}
	for i, item := range items {
		if item.Label == "" {
			lipgloss.Fprintln(p.Out)
			continue
		}
		num++
		line := fmt.Sprintf("  %d. %s", num, item.Label)
		if item.Disabled {
			lipgloss.Fprintln(p.Out, p.Styles.Dim.Render(line))
			continue
		}
		idx[num] = i
		lipgloss.Fprintln(p.Out, p.Styles.Body.Render(line))
	}
	lipgloss.Fprintln(p.Out, p.Styles.Dim.Render("  0. ← Back"))
	lipgloss.Fprintln(p.Out)

	for {
		choice, err := p.In.ReadLine("Choose")
		if err != nil {
			return -1, err
		}
		switch choice {
		case "0", "q", "b":
			return -1, ErrBack
		}
		if n, err := strconv.Atoi(choice); err == nil {
			if i, ok := idx[n]; ok {
				return i, nil
			}
		}
		lipgloss.Fprintln(p.Out, p.Styles.Dim.Render(fmt.Sprintf("  Enter 1-%d or 0 to go back", num)))
	}
}

// TUI runs a Bubble Tea program around components.Menu for each pick.
type TUI struct {
	// In defaults to stdin when nil.
	In     io.Reader
	Out    io.Writer
	Styles theme.Styles
}

// Pick implements Picker.
func (p *TUI) Pick(title string, items []Item) (int, error) {
	opts := []tea.ProgramOption{tea.WithOutput(p.Out)}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}

	final, err := tea.NewProgram(newModel(title, items, p.Styles), opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return -1, ErrInterrupted
		}
		return -1, fmt.Errorf("run menu: %w", err)
	}
	return final.(model).result()
}

type model struct {
	title string
	menu  components.Menu
}

func newModel(title string, items []Item, styles theme.Styles) model {
	return model{title: title, menu: components.NewMenu(items, styles)}
}

func (m model) Init() tea.Cmd {
	return m.menu.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m model) View() tea.View {
	if m.menu.Done() {
		return tea.NewView("")
	}
	return tea.NewView(m.render())
}

func (m model) render() string {
	k := m.menu.Keys
	footer := layout.RenderFooter(layout.Hints(k.Up, k.Down, k.Choose, k.Back), m.menu.Styles)
	return layout.RenderFrame(m.title, m.menu.View(), footer, m.menu.Styles)
}

func (m model) result() (int, error) {
	switch {
	case m.menu.Interrupted:
		return -1, ErrInterrupted
	case m.menu.Chosen >= 0:
		return m.menu.Chosen, nil
	default:
		return -1, ErrBack
	}
}

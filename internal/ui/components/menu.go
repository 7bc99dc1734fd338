package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/climastery/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu. An item with an
// empty label renders as a blank spacer and cannot be selected.
type MenuItem struct {
	Label    string
	Disabled bool
}

func (i MenuItem) selectable() bool {
	return i.Label != "" && !i.Disabled
}

// MenuKeys are the menu's key bindings.
type MenuKeys struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// DefaultMenuKeys returns the standard bindings.
func DefaultMenuKeys() MenuKeys {
	return MenuKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Choose: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "select")),
		Back:   key.NewBinding(key.WithKeys("esc", "q", "0"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// Menu is a vertical navigation menu. Digits jump straight to the numbered
// item.
type Menu struct {
	Items    []MenuItem
	Selected int
	Keys     MenuKeys
	Styles   theme.Styles

	// Chosen is the index picked with Choose, or -1.
	Chosen int
	// Back is set when the user backs out.
	Back bool
	// Interrupted is set on ctrl+c.
	Interrupted bool
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem, styles theme.Styles) Menu {
	selected := 0
	for i, item := range items {
		if item.selectable() {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
		Keys:     DefaultMenuKeys(),
		Styles:   styles,
		Chosen:   -1,
	}
}

// Done reports whether the menu has resolved.
func (m Menu) Done() bool {
	return m.Chosen >= 0 || m.Back || m.Interrupted
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and quits once the menu resolves.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, m.Keys.Quit):
		m.Interrupted = true
	case key.Matches(kmsg, m.Keys.Back):
		m.Back = true
	case key.Matches(kmsg, m.Keys.Up):
		for i := m.Selected - 1; i >= 0; i-- {
			if m.Items[i].selectable() {
				m.Selected = i
				break
			}
		}
	case key.Matches(kmsg, m.Keys.Down):
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if m.Items[i].selectable() {
				m.Selected = i
				break
			}
		}
	case key.Matches(kmsg, m.Keys.Choose):
		if m.Selected >= 0 && m.Selected < len(m.Items) && m.Items[m.Selected].selectable() {
			m.Chosen = m.Selected
		}
	default:
		if n, err := strconv.Atoi(kmsg.String()); err == nil {
			if i, ok := m.indexOf(n); ok {
				m.Selected = i
				m.Chosen = i
			}
		}
	}

	if m.Done() {
		return m, tea.Quit
	}
	return m, nil
}

// indexOf maps a 1-based item number, which skips spacers, to an index.
func (m Menu) indexOf(n int) (int, bool) {
	num := 0
	for i, item := range m.Items {
		if item.Label == "" {
			continue
		}
		num++
		if num == n {
			return i, item.selectable()
		}
	}
	return 0, false
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	num := 0
	for i, item := range m.Items {
		if item.Label == "" {
			b.WriteString("\n")
			continue
		}
		num++
		label := strconv.Itoa(num) + ". " + item.Label
		switch {
		case i == m.Selected:
			b.WriteString(m.Styles.Selected.Render("  ▸ " + label))
		case item.Disabled:
			b.WriteString(m.Styles.Dim.Render("    " + label))
		default:
			b.WriteString(m.Styles.Body.Render("    " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

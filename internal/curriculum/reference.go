package curriculum

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Reference is the quick reference card content.
type Reference struct {
	Commands  []Category `yaml:"commands"`
	Shortcuts []Category `yaml:"shortcuts"`
	Cards     []Card     `yaml:"cards"`
	Coverage  Coverage   `yaml:"coverage"`
}

// Category groups reference entries.
type Category struct {
	Name    string  `yaml:"category"`
	Entries []Entry `yaml:"entries"`
}

// Entry is one command or shortcut with its description.
type Entry struct {
	Keys        string `yaml:"keys"`
	Description string `yaml:"description"`
}

// Card is a short reference panel.
type Card struct {
	Title string   `yaml:"title"`
	Lines []string `yaml:"lines"`
}

// Coverage lists the commands and shortcuts the reference must document.
// Aliases map entry keys to their canonical shortcut spelling.
type Coverage struct {
	Commands  []string          `yaml:"commands"`
	Shortcuts []string          `yaml:"shortcuts"`
	Aliases   map[string]string `yaml:"aliases"`
}

// CoverageReport is the outcome of a coverage check.
type CoverageReport struct {
	Commands         int
	Shortcuts        int
	MissingCommands  []string
	MissingShortcuts []string
}

// OK reports whether nothing is missing.
func (r CoverageReport) OK() bool {
	return len(r.MissingCommands) == 0 && len(r.MissingShortcuts) == 0
}

// Problems describes each gap, one line per kind.
func (r CoverageReport) Problems() []string {
	var out []string
	if n := len(r.MissingCommands); n > 0 {
		out = append(out, fmt.Sprintf("Missing slash commands (%d): %s", n, strings.Join(r.MissingCommands, ", ")))
	}
	if n := len(r.MissingShortcuts); n > 0 {
		out = append(out, fmt.Sprintf("Missing shortcuts (%d): %s", n, strings.Join(r.MissingShortcuts, ", ")))
	}
	return out
}

// DocumentedCommands returns every slash command named by a command entry.
// Entries such as "/exit or /quit" name more than one.
func (r Reference) DocumentedCommands() map[string]bool {
	found := make(map[string]bool)
	for _, cat := range r.Commands {
		for _, e := range cat.Entries {
			for part := range strings.SplitSeq(strings.ReplaceAll(e.Keys, " or ", ","), ",") {
				part = strings.TrimSpace(part)
				if strings.HasPrefix(part, "/") {
					found[part] = true
				}
			}
		}
	}
	return found
}

// DocumentedShortcuts returns every shortcut in its canonical spelling.
func (r Reference) DocumentedShortcuts() map[string]bool {
	found := make(map[string]bool)
	for _, cat := range r.Shortcuts {
		for _, e := range cat.Entries {
			keys := e.Keys
			if canon, ok := r.Coverage.Aliases[keys]; ok {
				keys = canon
			}
			found[keys] = true
		}
	}
	return found
}

// CheckCoverage compares the documented entries with the expected lists.
func (r Reference) CheckCoverage() CoverageReport {
	cmds := r.DocumentedCommands()
	keys := r.DocumentedShortcuts()
	rep := CoverageReport{
		Commands:  len(r.Coverage.Commands),
		Shortcuts: len(r.Coverage.Shortcuts),
	}
	for _, c := range r.Coverage.Commands {
		if !cmds[c] {
			rep.MissingCommands = append(rep.MissingCommands, c)
		}
	}
	for _, k := range r.Coverage.Shortcuts {
		if !keys[k] {
			rep.MissingShortcuts = append(rep.MissingShortcuts, k)
		}
	}
	slices.Sort(rep.MissingCommands)
	slices.Sort(rep.MissingShortcuts)
	return rep
}

// ExportReference writes the plain-text cheatsheet.
func (c *Curriculum) ExportReference(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s — Quick Reference Cheatsheet\n", c.Title)
	fmt.Fprintf(bw, "%s\n\n", strings.Repeat("=", 50))

	section := func(title string, cats []Category, width int) {
		fmt.Fprintf(bw, "%s\n%s\n", title, strings.Repeat("-", 40))
		for _, cat := range cats {
			fmt.Fprintf(bw, "\n%s\n", cat.Name)
			for _, e := range cat.Entries {
				fmt.Fprintf(bw, "  %-*s %s\n", width, e.Keys, e.Description)
			}
		}
	}
	section("SLASH COMMANDS", c.Reference.Commands, 24)
	bw.WriteString("\n\n")
	section("KEYBOARD SHORTCUTS", c.Reference.Shortcuts, 22)

	return bw.Flush()
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
type Theme struct {
	Name                                   string
	Title, Muted, Success, Warning, Danger lipgloss.TerminalColor
	Accent                                 lipgloss.TerminalColor
	BoxUnchecked, BoxChecked               string
	SymDone, SymFail                       string
	Border                                 lipgloss.Border
	Monochrome                             bool
}

// Themes lists the names accepted by LookupTheme.
var Themes = []string{"classic", "neon", "mono"}

// LookupTheme returns the named theme; unknown names fall back to classic.
func LookupTheme(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		return Theme{
			Name: "neon",
			Title: lipgloss.Color("13"), Muted: lipgloss.Color("8"), Accent: lipgloss.Color("14"),
			Success: lipgloss.Color("10"), Warning: lipgloss.Color("11"), Danger: lipgloss.Color("13"),
			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymFail: "✖",
			Border: lipgloss.RoundedBorder(),
		}
	case "mono":
		return Theme{
			Name: "mono",
			Title: lipgloss.NoColor{}, Muted: lipgloss.NoColor{}, Accent: lipgloss.NoColor{},
			Success: lipgloss.NoColor{}, Warning: lipgloss.NoColor{}, Danger: lipgloss.NoColor{},
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymFail: "!",
			Border:     lipgloss.ASCIIBorder(),
			Monochrome: true,
		}
	default: // classic
		return Theme{
			Name: "classic",
			Title: lipgloss.Color("15"), Muted: lipgloss.Color("8"), Accent: lipgloss.Color("12"),
			Success: lipgloss.Color("2"), Warning: lipgloss.Color("11"), Danger: lipgloss.Color("9"),
			BoxUnchecked: "☐", BoxChecked: "☑",
			SymDone: "✔", SymFail: "✖",
			Border: lipgloss.NormalBorder(),
		}
	}
}

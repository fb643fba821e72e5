package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/muesli/termenv"
)

// ColorMode controls whether escape sequences are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Role names what a piece of text means; the theme decides how it looks.
type Role int

const (
	RolePlain Role = iota
	RoleTitle
	RoleMuted
	RoleAccent
	RoleSuccess
	RoleWarning
	RoleDanger
)

// Palette renders decorated text for one output. Decoration never changes
// the visible characters, only the escape sequences around them.
type Palette struct {
	theme  Theme
	styles map[Role]lipgloss.Style
	frame  lipgloss.Style
}

// NewPalette builds a palette for w. With ColorAuto the profile is detected
// from w; web clients get ColorAlways because the browser terminal renders
// ANSI regardless of where the server runs.
func NewPalette(theme Theme, w io.Writer, mode ColorMode) *Palette {
	r := lipgloss.NewRenderer(w)
	switch {
	case theme.Monochrome || mode == ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case mode == ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	}

	p := &Palette{
		theme: theme,
		styles: map[Role]lipgloss.Style{
			RolePlain:   r.NewStyle(),
			RoleTitle:   r.NewStyle().Bold(true).Foreground(theme.Title),
			RoleMuted:   r.NewStyle().Foreground(theme.Muted),
			RoleAccent:  r.NewStyle().Foreground(theme.Accent),
			RoleSuccess: r.NewStyle().Foreground(theme.Success),
			RoleWarning: r.NewStyle().Foreground(theme.Warning),
			RoleDanger:  r.NewStyle().Foreground(theme.Danger),
		},
	}
	p.frame = r.NewStyle().
		Border(theme.Border).
		BorderForeground(theme.Muted).
		Padding(0, 1)
	return p
}

// Plain returns a palette that never emits escape sequences.
func Plain() *Palette {
	return NewPalette(LookupTheme("classic"), io.Discard, ColorNever)
}

func (p *Palette) Theme() Theme { return p.theme }

// Colorize decorates text for role.
func (p *Palette) Colorize(text string, role Role) string {
	st, ok := p.styles[role]
	if !ok || text == "" {
		return text
	}
	// Render per line so trailing newlines stay outside the escapes.
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		if ln != "" {
			lines[i] = st.Render(ln)
		}
	}
	return strings.Join(lines, "\n")
}

// Option renders a menu entry as "[key]: label".
func (p *Palette) Option(key, label string) string {
	return fmt.Sprintf("%s: %s", p.Colorize("["+key+"]", RoleSuccess), label)
}

// Todo renders "[index]: description - Active|Completed". An index below 1
// omits the prefix, which is how the selected todo is shown.
func (p *Palette) Todo(index int, td model.Todo) string {
	role := RoleSuccess
	if td.Completed {
		role = RoleDanger
	}
	prefix := ""
	if index > 0 {
		prefix = p.Colorize(fmt.Sprintf("[%d]", index), role) + ": "
	}
	return fmt.Sprintf("%s%s - %s", prefix, td.Description, p.Colorize(td.Status(), role))
}

// StatusText renders a completion status label.
func (p *Palette) StatusText(completed bool) string {
	if completed {
		return p.Colorize("Completed", RoleDanger)
	}
	return p.Colorize("Active", RoleSuccess)
}

// Panel draws a framed box around lines using the theme border.
func (p *Palette) Panel(lines []string) string {
	return p.frame.Render(strings.Join(lines, "\n"))
}

// ProgressBar renders a bar with a done/total counter.
func (p *Palette) ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return p.Colorize(bar, RoleSuccess) + fmt.Sprintf(" %d/%d", done, total)
}

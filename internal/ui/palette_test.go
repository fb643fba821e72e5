package ui

import (
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/stretchr/testify/require"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

func TestPlainPaletteEmitsNoEscapes(t *testing.T) {
	p := Plain()
	td := model.Todo{ID: "1", Description: "Buy milk"}

	require.Equal(t, "[1]: Buy milk - Active", p.Todo(1, td))
	require.Equal(t, "Buy milk - Active", p.Todo(0, td))
	require.Equal(t, "[2]: Add a todo", p.Option("2", "Add a todo"))

	td.Completed = true
	require.Equal(t, "[3]: Buy milk - Completed", p.Todo(3, td))
}

func TestForcedColorKeepsVisibleText(t *testing.T) {
	p := NewPalette(LookupTheme("classic"), io.Discard, ColorAlways)
	td := model.Todo{ID: "1", Description: "Buy milk", Completed: true}

	out := p.Todo(1, td)
	require.NotEqual(t, stripANSI(out), out, "expected escape sequences")
	require.Equal(t, "[1]: Buy milk - Completed", stripANSI(out))
}

func TestColorizeKeepsNewlinesOutsideEscapes(t *testing.T) {
	p := NewPalette(LookupTheme("classic"), io.Discard, ColorAlways)
	out := p.Colorize("\nHello\n\n", RoleWarning)

	require.True(t, strings.HasPrefix(out, "\n"))
	require.True(t, strings.HasSuffix(out, "\n\n"))
	require.Equal(t, "\nHello\n\n", stripANSI(out))
}

func TestMonoThemeDisablesColor(t *testing.T) {
	p := NewPalette(LookupTheme("mono"), io.Discard, ColorAlways)
	require.Equal(t, "Completed", p.StatusText(true))
	require.Equal(t, "x", p.Theme().SymDone)
}

func TestLookupThemeFallsBackToClassic(t *testing.T) {
	require.Equal(t, "classic", LookupTheme("unknown").Name)
	require.Equal(t, "neon", LookupTheme(" NEON ").Name)
}

func TestProgressBar(t *testing.T) {
	p := Plain()
	require.Equal(t, "█████░░░░░ 1/2", p.ProgressBar(1, 2, 10))
	require.Equal(t, "░░░░░ 0/1", p.ProgressBar(0, 0, 1))
}

func TestPanelFramesEveryLine(t *testing.T) {
	p := Plain()
	out := p.Panel([]string{"a", "bb"})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], "a")
	require.Contains(t, lines[2], "bb")
}

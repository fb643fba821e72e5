package ui

import (
	"fmt"
	"io"
)

// Fail writes a failure status line to w, coloured when w is a terminal.
func Fail(w io.Writer, msg string) {
	p := NewPalette(LookupTheme("classic"), w, ColorAuto)
	fmt.Fprintln(w, p.Colorize(p.theme.SymFail+" "+msg, RoleDanger))
}

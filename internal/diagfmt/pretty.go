package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"codedom/internal/diag"
)

// Pretty writes one line per diagnostic in bag order:
//
//	<path>:<line>:<col>: <severity> <CODE>: <message>
//
// followed by indented notes when ShowNotes is set. Diagnostics without a
// file show their subject instead.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	shown := len(items)
	if opts.Max > 0 && shown > opts.Max {
		shown = opts.Max
	}
	for _, d := range items[:shown] {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprint(location(d.Primary, opts.PathMode, opts.BaseDir)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"),
				location(n.Location, opts.PathMode, opts.BaseDir), n.Msg)
		}
	}
	if hidden := len(items) - shown; hidden > 0 {
		fmt.Fprintf(w, "... and %d more\n", hidden)
	}
}

func location(l diag.Location, mode PathMode, base string) string {
	l.File = formatPath(l.File, mode, base)
	return l.String()
}

type palette struct {
	loc, code, note      *color.Color
	info, warning, error *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		loc:     color.New(color.Bold),
		code:    color.New(color.FgCyan),
		note:    color.New(color.FgBlue, color.Bold),
		info:    color.New(color.FgGreen),
		warning: color.New(color.FgYellow, color.Bold),
		error:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.loc, p.code, p.note, p.info, p.warning, p.error} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.error
	case diag.SevWarning:
		return p.warning
	default:
		return p.info
	}
}

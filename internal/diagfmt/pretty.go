package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"sluice/internal/diag"
)

// Pretty renders diagnostics in a human-readable form, one per line:
//
//	<func>/op<N>: <SEV> <CODE>: <message>
//
// followed by indented notes when opts.ShowNotes is set. It walks
// bag.Items() as-is; callers that want stable output should Sort the
// bag first.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	items := bag.Items()
	shown := len(items)
	if opts.Max > 0 && shown > opts.Max {
		shown = opts.Max
	}
	for _, d := range items[:shown] {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			d.Ref, severityLabel(d.Severity, opts.Color), d.Code, d.Message)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s: %s\n", n.Ref, n.Msg)
		}
	}
	if hidden := len(items) - shown; hidden > 0 {
		fmt.Fprintf(w, "... and %d more diagnostics\n", hidden)
	}
}

func severityLabel(s diag.Severity, colorize bool) string {
	if !colorize {
		return s.String()
	}
	switch s {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(s.String())
	case diag.SevWarning:
		return color.New(color.FgYellow).Sprint(s.String())
	default:
		return color.New(color.FgCyan).Sprint(s.String())
	}
}

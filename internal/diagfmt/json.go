package diagfmt

import (
	"encoding/json"
	"io"

	"sluice/internal/diag"
)

// RefJSON names an operation inside a function for JSON output.
type RefJSON struct {
	Func string `json:"func"`
	Op   int32  `json:"op,omitempty"`
}

// NoteJSON is an attached note in JSON output.
type NoteJSON struct {
	Message string  `json:"message"`
	Ref     RefJSON `json:"ref"`
}

// DiagnosticJSON is one diagnostic in JSON output.
type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	Ref      RefJSON    `json:"ref"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON report.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Total       int              `json:"total"`
	Truncated   bool             `json:"truncated,omitempty"`
}

// JSON renders the bag as an indented JSON report.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	items := bag.Items()
	shown := len(items)
	if opts.Max > 0 && shown > opts.Max {
		shown = opts.Max
	}
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, shown),
		Total:       len(items),
		Truncated:   shown < len(items),
	}
	for _, d := range items[:shown] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
			Ref:      RefJSON{Func: d.Ref.Func, Op: d.Ref.Op},
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message: n.Msg,
					Ref:     RefJSON{Func: n.Ref.Func, Op: n.Ref.Op},
				})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

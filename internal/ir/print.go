package ir

import (
	"fmt"
	"io"
	"strings"
)

// DumpModule writes a human-readable representation of a module.
func DumpModule(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	fmt.Fprintf(w, "funcs=%d\n", len(m.Funcs))
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := DumpFunc(w, f); err != nil {
			return err
		}
	}
	return nil
}

// DumpFunc writes a human-readable representation of one function.
func DumpFunc(w io.Writer, f *Func) error {
	var sig strings.Builder
	for i, v := range f.Params() {
		if i > 0 {
			sig.WriteString(", ")
		}
		fmt.Fprintf(&sig, "%%v%d: %s", v, f.Values[v].Type)
	}
	var res strings.Builder
	for i, t := range f.Results {
		if i > 0 {
			res.WriteString(", ")
		}
		res.WriteString(t.String())
	}
	if res.Len() == 0 {
		fmt.Fprintf(w, "\nfn %s(%s):\n", f.Name, sig.String())
	} else {
		fmt.Fprintf(w, "\nfn %s(%s) -> %s:\n", f.Name, sig.String(), res.String())
	}
	return dumpBlock(w, f, f.Entry, 1)
}

func dumpBlock(w io.Writer, f *Func, b BlockID, depth int) error {
	indent := strings.Repeat("  ", depth)
	blk := &f.Blocks[b]
	if blk.Parent.IsValid() {
		var params strings.Builder
		for i, v := range blk.Params {
			if i > 0 {
				params.WriteString(", ")
			}
			fmt.Fprintf(&params, "%%v%d: %s", v, f.Values[v].Type)
		}
		fmt.Fprintf(w, "%sbb%d(%s):\n", indent, b, params.String())
	} else {
		fmt.Fprintf(w, "%sbb%d:\n", indent, b)
	}
	for _, id := range blk.Ops {
		op := &f.Ops[id]
		fmt.Fprintf(w, "%s  %s", indent, formatOp(f, op))
		if op.Body.IsValid() {
			fmt.Fprintf(w, " {\n")
			if err := dumpBlock(w, f, op.Body, depth+2); err != nil {
				return err
			}
			fmt.Fprintf(w, "%s  }\n", indent)
		} else {
			fmt.Fprintf(w, "\n")
		}
	}
	return nil
}

func formatOp(f *Func, op *Op) string {
	var sb strings.Builder
	if len(op.Results) > 0 {
		for i, r := range op.Results {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%%v%d: %s", r, f.Values[r].Type)
		}
		sb.WriteString(" = ")
	}
	sb.WriteString(op.Kind.String())
	if op.Label != "" {
		fmt.Fprintf(&sb, " @%s", op.Label)
	}
	if len(op.Operands) > 0 {
		sb.WriteString(" ")
		for i, v := range op.Operands {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%%v%d", v)
		}
	}
	return sb.String()
}

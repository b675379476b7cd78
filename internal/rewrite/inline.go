package rewrite

import (
	"fmt"

	"sluice/internal/ir"
)

// InlineBody moves the operations of a region body into the parent
// block immediately before op at, substituting each body parameter
// with the corresponding argument value. The body terminator is erased
// after its operands are captured; they are returned so the caller can
// rewire the region's results. The emptied body block stays in the
// arena, detached.
func InlineBody(f *ir.Func, body ir.BlockID, at ir.OpID, args []ir.ValueID) ([]ir.ValueID, error) {
	blk := f.Block(body)
	if len(args) != len(blk.Params) {
		return nil, fmt.Errorf("rewrite: inline bb%d: %d args for %d parameters", body, len(args), len(blk.Params))
	}
	term := f.Terminator(body)
	if !term.IsValid() {
		return nil, fmt.Errorf("rewrite: inline bb%d: unterminated body", body)
	}

	outs := make([]ir.ValueID, len(f.Op(term).Operands))
	copy(outs, f.Op(term).Operands)
	if err := f.EraseOp(term); err != nil {
		return nil, err
	}
	for i, p := range blk.Params {
		f.ReplaceAllUses(p, args[i])
	}
	f.MoveRangeBefore(at, body, 0, len(blk.Ops))

	// Terminator operands may name substituted parameters.
	for i, v := range outs {
		for j, p := range blk.Params {
			if v == p {
				outs[i] = args[j]
			}
		}
	}
	return outs, nil
}

package streamify

import "sluice/internal/ir"

// definingTokenCast returns the cast producing v from a (chain, queue)
// operand pair, or NoOpID when v denotes anything else.
func definingTokenCast(f *ir.Func, v ir.ValueID) ir.OpID {
	val := f.Value(v)
	if val.Type != ir.TypeToken || !val.Producer.IsValid() {
		return ir.NoOpID
	}
	op := f.Op(val.Producer)
	if op.Kind != ir.OpCast || len(op.Operands) != 2 {
		return ir.NoOpID
	}
	if f.Value(op.Operands[0]).Type != ir.TypeChain ||
		f.Value(op.Operands[1]).Type != ir.TypeQueue {
		return ir.NoOpID
	}
	return val.Producer
}

// eraseIfUnused erases a detachable op once nothing consumes its
// results. Used for casts adopted by wait and yield lowering.
func eraseIfUnused(f *ir.Func, op ir.OpID) {
	for _, r := range f.Op(op).Results {
		if len(f.Value(r).Uses) > 0 {
			return
		}
	}
	_ = f.EraseOp(op)
}

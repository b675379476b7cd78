package streamify

import "sluice/internal/ir"

// lowerDeviceOps binds device operations inside async region bodies to
// the region's queue: each gets (queue, chain) operands appended and a
// chain result, and the region terminator is re-threaded to the last
// chain. This establishes the total order over side effects within the
// region while leaving cross-region ordering to events.
func lowerDeviceOps(f *ir.Func) bool {
	changed := false
	for _, b := range f.AttachedBlocks() {
		blk := f.Block(b)
		if !blk.Parent.IsValid() || f.Op(blk.Parent).Kind != ir.OpAsyncExecute {
			continue
		}
		term := f.Terminator(b)
		if !term.IsValid() || len(f.Op(term).Operands) == 0 {
			continue
		}
		queue := blk.Params[1]
		chain := f.Op(term).Operands[0]
		lowered := false
		for _, id := range append([]ir.OpID(nil), blk.Ops...) {
			op := f.Op(id)
			if !op.Kind.IsDeviceOp() || deviceLowered(f, id) {
				continue
			}
			f.AddOperand(id, queue)
			f.AddOperand(id, chain)
			chain = f.AddResult(id, ir.TypeChain)
			lowered = true
		}
		if lowered {
			f.SetOperand(term, 0, chain)
			changed = true
		}
	}
	return changed
}

// deviceLowered reports whether a device op already carries its
// (queue, chain) suffix, making the rewrite idempotent within bodies
// that survive across attempts.
func deviceLowered(f *ir.Func, id ir.OpID) bool {
	op := f.Op(id)
	n := len(op.Operands)
	return n >= 2 &&
		f.Value(op.Operands[n-2]).Type == ir.TypeQueue &&
		f.Value(op.Operands[n-1]).Type == ir.TypeChain &&
		len(op.Results) > 0 &&
		f.Value(op.Results[len(op.Results)-1]).Type == ir.TypeChain
}

package streamify

import "sluice/internal/ir"

// wrapAsyncExec partitions every block into maximal runs of
// consecutive legal operations and wraps each run into an async
// region. Blocks already nested inside async regions are skipped, so
// a second attempt never nests regions. Reports whether any region
// was formed.
func wrapAsyncExec(f *ir.Func, target Target) bool {
	changed := false
	for _, b := range f.AttachedBlocks() {
		if f.EnclosingAsync(b).IsValid() {
			continue
		}
		if wrapBlock(f, b, target) {
			changed = true
		}
	}
	return changed
}

// wrapBlock scans ops in program order and, on each transition from a
// legal to an illegal op (or block end), wraps the preceding legal run.
func wrapBlock(f *ir.Func, b ir.BlockID, target Target) bool {
	type run struct{ start, end int } // [start, end)
	var runs []run
	open := -1
	ops := f.Block(b).Ops
	for i, id := range ops {
		if target.IsLegal(f, id) {
			if open < 0 {
				open = i
			}
			continue
		}
		if open >= 0 {
			runs = append(runs, run{open, i})
			open = -1
		}
	}
	if open >= 0 {
		runs = append(runs, run{open, len(ops)})
	}

	// Materialize back to front so earlier run indices stay valid.
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		first := f.Block(b).Ops[r.start]
		async := f.InsertBefore(first, ir.OpAsyncExecute, nil, ir.TypeToken)
		body := f.NewBlock(async)
		f.Op(async).Body = body
		chain := f.AddBlockParam(body, ir.TypeChain)
		f.AddBlockParam(body, ir.TypeQueue)
		f.MoveRange(body, b, r.start+1, r.end+1)
		f.Append(body, ir.OpReturn, []ir.ValueID{chain})
	}
	return len(runs) > 0
}

// bindAsyncRegions gives every unbound top-level async region an input
// token: a cast packaging the function's (chain, queue) parameters,
// inserted immediately before the region. The enclosing function must
// already be in target signature form.
func bindAsyncRegions(f *ir.Func) bool {
	if !Converted(f) {
		return false
	}
	chain := f.Params()[0]
	queue := f.Params()[1]
	changed := false
	for _, b := range f.AttachedBlocks() {
		if f.EnclosingAsync(b).IsValid() {
			continue
		}
		for _, id := range append([]ir.OpID(nil), f.Block(b).Ops...) {
			if f.Op(id).Kind != ir.OpAsyncExecute || len(f.Op(id).Operands) > 0 {
				continue
			}
			cast := f.InsertBefore(id, ir.OpCast, []ir.ValueID{chain, queue}, ir.TypeToken)
			f.AddOperand(id, f.Op(cast).Results[0])
			changed = true
		}
	}
	return changed
}

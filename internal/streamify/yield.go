package streamify

import (
	"sluice/internal/ir"
	"sluice/internal/rewrite"
)

// lowerYield makes yielded values queue-independent: each token
// operand (a cast of a (chain, queue) pair) is replaced with an event
// recorded on that queue against that chain. A consumer on an
// unrelated queue can then wait on the event. A yield with no token
// operand is a non-match, not an error.
func lowerYield(f *ir.Func, id ir.OpID) (bool, error) {
	changed := false
	for i := 0; i < len(f.Op(id).Operands); i++ {
		v := f.Op(id).Operands[i]
		cast := definingTokenCast(f, v)
		if !cast.IsValid() {
			continue
		}
		chain := f.Op(cast).Operands[0]
		queue := f.Op(cast).Operands[1]

		ctxOp := f.InsertBefore(id, ir.OpQueueContext, []ir.ValueID{queue}, ir.TypeContext)
		ctx := f.Op(ctxOp).Results[0]
		evOp := f.InsertBefore(id, ir.OpEventCreate, []ir.ValueID{ctx}, ir.TypeEvent)
		ev := f.Op(evOp).Results[0]
		f.InsertBefore(id, ir.OpEventRecord, []ir.ValueID{ev, queue, chain}, ir.TypeChain)

		f.SetOperand(id, i, ev)
		eraseIfUnused(f, cast)
		changed = true
	}
	if !changed {
		return false, rewrite.NotifyMatchFailure(f, id, "no cast to token operand")
	}
	return true, nil
}

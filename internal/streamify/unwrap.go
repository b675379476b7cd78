package streamify

import (
	"sluice/internal/ir"
	"sluice/internal/rewrite"
)

// unwrapAsyncExec inlines an async region's body into the parent block
// and erases the wrapper. The region's input token must come from a
// cast of a (chain, queue) pair; the body parameters are substituted
// with that pair, and the result token is re-cast from the body's
// final chain and the same queue:
//
//	%t0 = cast %ch0, %q0
//	%t1 = async.execute [%t0] { bb(%c: chain, %q: queue): ... return %cn }
//
// becomes
//
//	... body ops using %ch0 and %q0 ...
//	%t1 = cast %cn, %q0
func unwrapAsyncExec(f *ir.Func, id ir.OpID) (bool, error) {
	op := f.Op(id)
	if len(op.Operands) == 0 || len(op.Results) == 0 {
		return false, rewrite.NotifyMatchFailure(f, id, "no operands or no result")
	}
	if len(op.Results) != 1 || f.Value(op.Results[0]).Type != ir.TypeToken {
		return false, rewrite.NotifyMatchFailure(f, id, "expected single token result")
	}
	cast := definingTokenCast(f, op.Operands[0])
	if !cast.IsValid() {
		return false, rewrite.NotifyMatchFailure(f, id, "expected cast to token")
	}
	body := op.Body
	if !body.IsValid() {
		return false, rewrite.NotifyMatchFailure(f, id, "region has no body")
	}
	term := f.Terminator(body)
	if !term.IsValid() || f.Op(term).Kind != ir.OpReturn {
		return false, rewrite.NotifyMatchFailure(f, id, "body does not end in plain return")
	}

	chain := f.Op(cast).Operands[0]
	queue := f.Op(cast).Operands[1]
	result := f.Op(id).Results[0]

	outs, err := rewrite.InlineBody(f, body, id, []ir.ValueID{chain, queue})
	if err != nil {
		return false, err
	}
	newCast := f.InsertBefore(id, ir.OpCast, []ir.ValueID{outs[0], queue}, ir.TypeToken)
	f.ReplaceAllUses(result, f.Op(newCast).Results[0])

	f.Op(id).Body = ir.NoBlockID
	if err := f.EraseOp(id); err != nil {
		return false, err
	}
	eraseIfUnused(f, cast)
	return true, nil
}

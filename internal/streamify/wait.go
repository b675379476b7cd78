package streamify

import (
	"sluice/internal/ir"
	"sluice/internal/rewrite"
)

// lowerWait lowers one wait operation into explicit queue and event
// operations.
//
// Operands are classified as events or as at most one token (a cast of
// a (chain, queue) pair denoting the ambient context at the point the
// token was produced). A token operand supersedes the function's
// (chain, queue) parameters as the ambient pair. If the wait requests
// an async handle from inside an async region, a fresh queue is
// derived from the ambient queue's context, synchronized against the
// point of creation when no event operands were supplied. Every event
// is then waited on, threading the chain, and the wait is replaced by
// a token cast (async form) or spliced into the terminator (sync
// form).
func lowerWait(f *ir.Func, id ir.OpID) (bool, error) {
	// The enclosing function must already be in target form with a
	// terminator returning a chain.
	if !Converted(f) {
		return false, rewrite.NotifyMatchFailure(f, id, "not in func with chain and queue argument")
	}
	term := f.Terminator(f.Entry)
	if !term.IsValid() || len(f.Op(term).Operands) == 0 ||
		f.Value(f.Op(term).Operands[0]).Type != ir.TypeChain {
		return false, rewrite.NotifyMatchFailure(f, id, "not in func returning chain")
	}

	chain := f.Params()[0]
	queue := f.Params()[1]

	var events []ir.ValueID
	tokenCast := ir.NoOpID
	for _, v := range f.Op(id).Operands {
		if f.Value(v).Type == ir.TypeEvent {
			events = append(events, v)
			continue
		}
		cast := definingTokenCast(f, v)
		if !cast.IsValid() {
			return false, rewrite.NotifyMatchFailure(f, id, "expected event or cast to token")
		}
		if tokenCast.IsValid() {
			return false, &attemptError{rewrite.NotifyMatchFailure(f, id, "more than one token operand")}
		}
		tokenCast = cast
		chain = f.Op(cast).Operands[0]
		queue = f.Op(cast).Operands[1]
	}

	isAsync := len(f.Op(id).Results) == 1 && f.Value(f.Op(id).Results[0]).Type == ir.TypeToken

	if !isAsync {
		// A sync wait is erased outright, so its results must be dead
		// before the first insertion; otherwise a failed erase would
		// leave the splice behind.
		for _, r := range f.Op(id).Results {
			if len(f.Value(r).Uses) > 0 {
				return false, rewrite.NotifyMatchFailure(f, id, "wait result still has uses")
			}
		}
	}

	if isAsync && f.EnclosingAsync(f.Op(id).Block).IsValid() {
		// Async wait inside an async region: run downstream work on a
		// queue of its own.
		newChain := f.InsertBefore(id, ir.OpNewChain, nil, ir.TypeChain)
		chain = f.Op(newChain).Results[0]
		ctxOp := f.InsertBefore(id, ir.OpQueueContext, []ir.ValueID{queue}, ir.TypeContext)
		ctx := f.Op(ctxOp).Results[0]
		if len(events) == 0 {
			// No events from dependent regions; synchronize the new
			// queue with the ambient one.
			evOp := f.InsertBefore(id, ir.OpEventCreate, []ir.ValueID{ctx}, ir.TypeEvent)
			ev := f.Op(evOp).Results[0]
			rec := f.InsertBefore(id, ir.OpEventRecord, []ir.ValueID{ev, queue, chain}, ir.TypeChain)
			chain = f.Op(rec).Results[0]
			events = append(events, ev)
		}
		queueOp := f.InsertBefore(id, ir.OpQueueCreate, []ir.ValueID{ctx}, ir.TypeQueue)
		queue = f.Op(queueOp).Results[0]
	}

	// Synchronize the queue with every event, threading the chain.
	for _, ev := range events {
		wop := f.InsertBefore(id, ir.OpQueueWait, []ir.ValueID{queue, ev, chain}, ir.TypeChain)
		chain = f.Op(wop).Results[0]
	}

	if isAsync {
		cast := f.InsertBefore(id, ir.OpCast, []ir.ValueID{chain, queue}, ir.TypeToken)
		f.ReplaceAllUses(f.Op(id).Results[0], f.Op(cast).Results[0])
		if err := f.EraseOp(id); err != nil {
			return false, err
		}
	} else {
		// A sync wait only synchronizes its operands with the
		// function's queue; host synchronization is the caller's
		// business. The dependent chain flows to the terminator.
		f.SetOperand(term, 0, chain)
		if err := f.EraseOp(id); err != nil {
			return false, err
		}
	}
	if tokenCast.IsValid() {
		eraseIfUnused(f, tokenCast)
	}
	return true, nil
}

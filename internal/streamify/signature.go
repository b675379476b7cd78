package streamify

import (
	"sluice/internal/ir"
	"sluice/internal/rewrite"
)

// rewriteSignature converts a function's external contract to the
// target form: (chain, queue) parameters prepended and a single chain
// result. The terminator returns the chain parameter unchanged; later
// rewrites splice internal synchronization into it. A function with
// pre-existing results signals a classifier or ordering error upstream
// and fails the whole attempt.
func rewriteSignature(f *ir.Func) (bool, error) {
	if len(f.Results) > 0 {
		return false, &attemptError{rewrite.NotifyMatchFailure(f, ir.NoOpID, "expected no result")}
	}
	term := f.Terminator(f.Entry)
	if !term.IsValid() || f.Op(term).Kind != ir.OpReturn {
		return false, rewrite.NotifyMatchFailure(f, ir.NoOpID, "entry block does not end in return")
	}

	chain := f.InsertBlockParam(f.Entry, 0, ir.TypeChain)
	f.InsertBlockParam(f.Entry, 1, ir.TypeQueue)
	f.Results = []ir.Type{ir.TypeChain}
	f.AddOperand(term, chain)
	return true, nil
}

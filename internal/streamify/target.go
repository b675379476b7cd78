package streamify

import "sluice/internal/ir"

// Target is the legality classifier the conversion consults. Legal
// reports whether an operation may be scheduled inside an async
// region. It must be a pure predicate, evaluable in any order; the
// conversion calls it once per operation per attempt.
type Target struct {
	Legal func(f *ir.Func, op ir.OpID) bool
}

// IsLegal applies the classifier. Structural operations (terminators,
// async regions) are never legal regardless of the classifier, so a
// region can never swallow its own boundary.
func (t Target) IsLegal(f *ir.Func, op ir.OpID) bool {
	kind := f.Op(op).Kind
	if kind.IsTerminator() || kind == ir.OpAsyncExecute {
		return false
	}
	return t.Legal != nil && t.Legal(f, op)
}

// Converted reports whether a function already has the target
// signature: parameter 0 a chain, parameter 1 a queue, and exactly one
// chain result. Such functions are fixed points of the conversion and
// are left untouched.
func Converted(f *ir.Func) bool {
	params := f.ParamTypes()
	return len(f.Results) == 1 &&
		f.Results[0] == ir.TypeChain &&
		len(params) >= 2 &&
		params[0] == ir.TypeChain &&
		params[1] == ir.TypeQueue
}

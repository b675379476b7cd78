package diag

import "fmt"

// OpRef names an operation inside a function without holding a graph
// pointer, so diagnostics stay valid across rollbacks.
type OpRef struct {
	Func string
	Op   int32
}

// NoOp marks a diagnostic about a whole function.
const NoOp int32 = -1

func (r OpRef) String() string {
	if r.Op == NoOp {
		return r.Func
	}
	return fmt.Sprintf("%s/op%d", r.Func, r.Op)
}

type Note struct {
	Ref OpRef
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Ref      OpRef
	Notes    []Note
}

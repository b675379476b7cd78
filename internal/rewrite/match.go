package rewrite

import (
	"errors"
	"fmt"

	"sluice/internal/diag"
	"sluice/internal/ir"
)

// MatchError is the structured failure a rewrite rule returns when its
// precondition is unmet. It is local: the surrounding attempt keeps
// trying other rules and operations.
type MatchError struct {
	Ref    diag.OpRef
	Reason string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Ref, e.Reason)
}

// NotifyMatchFailure builds a MatchError for an op of f.
func NotifyMatchFailure(f *ir.Func, op ir.OpID, reason string) *MatchError {
	ref := diag.OpRef{Func: f.Name, Op: diag.NoOp}
	if op.IsValid() {
		ref.Op = int32(op)
	}
	return &MatchError{Ref: ref, Reason: reason}
}

// AsMatchFailure extracts a MatchError from err, if it carries one.
func AsMatchFailure(err error) (*MatchError, bool) {
	var me *MatchError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

package streamify

import (
	"sluice/internal/diag"
	"sluice/internal/ir"
	"sluice/internal/rewrite"
)

// Convert rewrites one function for concurrent execution across
// hardware queues: legal runs are wrapped into async regions, the
// signature gains ambient (chain, queue) context, device ops are bound
// to queues, wait and yield boundaries are lowered to explicit queue
// and event operations, and regions are inlined back. The whole
// attempt is transactional: on any structural violation the function
// is left bit-for-bit as it was.
//
// Reports whether the function changed. Declined rules end up in bag
// as informational diagnostics; hard violations as errors.
func Convert(f *ir.Func, target Target, bag *diag.Bag) (bool, error) {
	if Converted(f) {
		return false, nil
	}
	tx := rewrite.Begin(f)

	if wrapAsyncExec(f, target) {
		tx.MarkChanged()
	}

	sigOK, err := rewriteSignature(f)
	switch {
	case err != nil && IsAttemptFailure(err):
		return abort(f, tx, bag, diag.AttemptHasResults, err)
	case err != nil:
		// A function without a return terminator is not convertible;
		// decline the whole attempt without failing it.
		reportDecline(bag, diag.RuleNoReturnTerminator, err)
		tx.Fail()
		tx.Finish()
		return false, nil
	}
	if sigOK {
		tx.MarkChanged()
	}

	if bindAsyncRegions(f) {
		tx.MarkChanged()
	}
	if lowerDeviceOps(f) {
		tx.MarkChanged()
	}

	// Wait, yield and unwrap enable each other (an unwrapped region
	// turns its token into a cast a later wait can adopt), so run them
	// to a fixed point. Declines are only reported once no rule makes
	// progress.
	for {
		progress := false
		scratch := diag.NewBag(bag.Cap())

		for _, id := range opsOfKind(f, ir.OpWait) {
			changed, err := lowerWait(f, id)
			if err != nil && IsAttemptFailure(err) {
				return abort(f, tx, bag, diag.AttemptTokenConflict, err)
			}
			if err != nil {
				reportDecline(scratch, diag.RuleNotInConvertedFunc, err)
				continue
			}
			if changed {
				progress = true
			}
		}
		for _, id := range opsOfKind(f, ir.OpYield) {
			changed, err := lowerYield(f, id)
			if err != nil {
				reportDecline(scratch, diag.RuleNoTokenOperand, err)
				continue
			}
			if changed {
				progress = true
			}
		}
		for _, id := range opsOfKind(f, ir.OpAsyncExecute) {
			changed, err := unwrapAsyncExec(f, id)
			if err != nil {
				reportDecline(scratch, diag.RuleNotUnwrappable, err)
				continue
			}
			if changed {
				progress = true
			}
		}

		if !progress {
			bag.Merge(scratch)
			break
		}
		tx.MarkChanged()
	}

	if err := ir.ValidateFunc(f); err != nil {
		return abort(f, tx, bag, diag.AttemptBadOperand, err)
	}
	if !tx.Changed() {
		tx.Finish()
		bag.Add(diag.Diagnostic{
			Severity: diag.SevInfo,
			Code:     diag.AttemptNoProgress,
			Message:  "no rewrite applied",
			Ref:      diag.OpRef{Func: f.Name, Op: diag.NoOp},
		})
		return false, nil
	}
	tx.Finish()
	return true, nil
}

func opsOfKind(f *ir.Func, kind ir.OpKind) []ir.OpID {
	var out []ir.OpID
	for _, b := range f.AttachedBlocks() {
		for _, id := range f.Block(b).Ops {
			if f.Op(id).Kind == kind {
				out = append(out, id)
			}
		}
	}
	return out
}

func reportDecline(bag *diag.Bag, code diag.Code, err error) {
	me, ok := rewrite.AsMatchFailure(err)
	if !ok {
		return
	}
	bag.Add(diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     code,
		Message:  me.Reason,
		Ref:      me.Ref,
	})
}

func abort(f *ir.Func, tx *rewrite.Tx, bag *diag.Bag, code diag.Code, err error) (bool, error) {
	msg := err.Error()
	ref := diag.OpRef{Func: f.Name, Op: diag.NoOp}
	if me, ok := rewrite.AsMatchFailure(err); ok {
		msg = me.Reason
		ref = me.Ref
	}
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: code, Message: msg, Ref: ref})
	tx.Fail()
	tx.Finish()
	return false, err
}

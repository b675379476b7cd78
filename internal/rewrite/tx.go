package rewrite

import (
	"sluice/internal/ir"
)

// Tx is a speculative rewrite attempt over one function. Mutations go
// directly to the function; Begin takes a snapshot, and Finish either
// keeps the mutations or restores the snapshot bit-for-bit. Callers
// therefore never observe a half-rewritten function.
type Tx struct {
	target *ir.Func
	snap   *ir.Func
	ok     bool
	failed bool
	done   bool
}

// Begin opens a speculative attempt on f.
func Begin(f *ir.Func) *Tx {
	return &Tx{target: f, snap: f.Clone()}
}

// MarkChanged records that a sub-rewrite succeeded. A Tx with no
// successful sub-rewrite rolls back on Finish.
func (t *Tx) MarkChanged() {
	t.ok = true
}

// Changed reports whether any sub-rewrite succeeded so far.
func (t *Tx) Changed() bool {
	return t.ok
}

// Fail forces the attempt to roll back regardless of progress.
func (t *Tx) Fail() {
	t.failed = true
}

// Finish completes the attempt: commit when at least one sub-rewrite
// succeeded and none failed hard, rollback otherwise. Reports whether
// the mutations were kept. A finished Tx is inert.
func (t *Tx) Finish() bool {
	if t.done {
		return t.ok && !t.failed
	}
	t.done = true
	if t.ok && !t.failed {
		t.snap = nil
		return true
	}
	*t.target = *t.snap
	t.snap = nil
	return false
}

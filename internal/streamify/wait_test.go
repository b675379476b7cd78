package streamify

import (
	"slices"
	"testing"

	"sluice/internal/ir"
)

// waitFixture builds a converted-form function with one async region
// whose body holds a wait over the given entry-level events. The wait
// produces a token when async is set.
func waitFixture(events int, async bool) (*ir.Func, ir.OpID, ir.BlockID) {
	f := ir.NewFunc("f")
	chain := f.AddBlockParam(f.Entry, ir.TypeChain)
	queue := f.AddBlockParam(f.Entry, ir.TypeQueue)
	f.Results = []ir.Type{ir.TypeChain}

	var evs []ir.ValueID
	if events > 0 {
		ctxOp := f.Append(f.Entry, ir.OpQueueContext, []ir.ValueID{queue}, ir.TypeContext)
		ctx := f.Op(ctxOp).Results[0]
		for i := 0; i < events; i++ {
			ev := f.Append(f.Entry, ir.OpEventCreate, []ir.ValueID{ctx}, ir.TypeEvent)
			evs = append(evs, f.Op(ev).Results[0])
		}
	}

	asyncOp := f.Append(f.Entry, ir.OpAsyncExecute, nil, ir.TypeToken)
	body := f.NewBlock(asyncOp)
	f.Op(asyncOp).Body = body
	bodyChain := f.AddBlockParam(body, ir.TypeChain)
	f.AddBlockParam(body, ir.TypeQueue)

	var results []ir.Type
	if async {
		results = append(results, ir.TypeToken)
	}
	wait := f.Append(body, ir.OpWait, evs, results...)
	f.Append(body, ir.OpReturn, []ir.ValueID{bodyChain})

	f.Append(f.Entry, ir.OpReturn, []ir.ValueID{chain})
	return f, wait, body
}

func TestWaitWithEventsDerivesNewQueue(t *testing.T) {
	f, wait, body := waitFixture(2, true)

	changed, err := lowerWait(f, wait)
	if err != nil || !changed {
		t.Fatalf("lower: changed=%v err=%v", changed, err)
	}

	want := []ir.OpKind{
		ir.OpNewChain, ir.OpQueueContext, ir.OpQueueCreate,
		ir.OpQueueWait, ir.OpQueueWait, ir.OpCast, ir.OpReturn,
	}
	if got := blockKinds(f, body); !slices.Equal(got, want) {
		t.Fatalf("body kinds = %v, want %v", got, want)
	}

	// Both waits target the freshly created queue, not the ambient one.
	ops := f.Block(body).Ops
	newQueue := f.Op(ops[2]).Results[0]
	for _, id := range ops[3:5] {
		if got := f.Op(id).Operands[0]; got != newQueue {
			t.Fatalf("queue.wait on %d, want new queue %d", got, newQueue)
		}
	}
	// The replacement token packages the threaded chain and new queue.
	cast := ops[5]
	if got := f.Op(cast).Operands[1]; got != newQueue {
		t.Fatalf("cast queue = %d, want %d", got, newQueue)
	}
	if got := f.Op(cast).Operands[0]; got != f.Op(ops[4]).Results[0] {
		t.Fatalf("cast chain = %d, want last queue.wait chain", got)
	}
}

func TestWaitWithoutEventsSynchronizesCreation(t *testing.T) {
	f, wait, body := waitFixture(0, true)

	changed, err := lowerWait(f, wait)
	if err != nil || !changed {
		t.Fatalf("lower: changed=%v err=%v", changed, err)
	}

	want := []ir.OpKind{
		ir.OpNewChain, ir.OpQueueContext, ir.OpEventCreate, ir.OpEventRecord,
		ir.OpQueueCreate, ir.OpQueueWait, ir.OpCast, ir.OpReturn,
	}
	if got := blockKinds(f, body); !slices.Equal(got, want) {
		t.Fatalf("body kinds = %v, want %v", got, want)
	}

	// The synthesized event is recorded on the ambient queue and
	// waited on by the new one.
	ops := f.Block(body).Ops
	record := f.Op(ops[3])
	if got := record.Operands[1]; got != f.Params()[1] {
		t.Fatalf("event recorded on queue %d, want the ambient queue", got)
	}
	qwait := f.Op(ops[5])
	if got := qwait.Operands[0]; got != f.Op(ops[4]).Results[0] {
		t.Fatalf("queue.wait on %d, want the new queue", got)
	}
	if got := qwait.Operands[1]; got != f.Op(ops[2]).Results[0] {
		t.Fatalf("queue.wait waits on %d, want the synthesized event", got)
	}
}

func TestSyncWaitThreadsTerminator(t *testing.T) {
	f := ir.NewFunc("f")
	chain := f.AddBlockParam(f.Entry, ir.TypeChain)
	queue := f.AddBlockParam(f.Entry, ir.TypeQueue)
	f.Results = []ir.Type{ir.TypeChain}
	ctxOp := f.Append(f.Entry, ir.OpQueueContext, []ir.ValueID{queue}, ir.TypeContext)
	evOp := f.Append(f.Entry, ir.OpEventCreate, []ir.ValueID{f.Op(ctxOp).Results[0]}, ir.TypeEvent)
	wait := f.Append(f.Entry, ir.OpWait, []ir.ValueID{f.Op(evOp).Results[0]})
	term := f.Append(f.Entry, ir.OpReturn, []ir.ValueID{chain})

	changed, err := lowerWait(f, wait)
	if err != nil || !changed {
		t.Fatalf("lower: changed=%v err=%v", changed, err)
	}

	want := []ir.OpKind{ir.OpQueueContext, ir.OpEventCreate, ir.OpQueueWait, ir.OpReturn}
	if got := blockKinds(f, f.Entry); !slices.Equal(got, want) {
		t.Fatalf("entry kinds = %v, want %v", got, want)
	}
	qwait := f.Block(f.Entry).Ops[2]
	if got := f.Op(term).Operands[0]; got != f.Op(qwait).Results[0] {
		t.Fatalf("terminator returns %d, want the dependent chain %d", got, f.Op(qwait).Results[0])
	}
	if err := ir.ValidateFunc(f); err != nil {
		t.Fatalf("lowered function invalid: %v", err)
	}
}

func TestSyncWaitDeclinesWhenResultInUse(t *testing.T) {
	f := ir.NewFunc("f")
	chain := f.AddBlockParam(f.Entry, ir.TypeChain)
	queue := f.AddBlockParam(f.Entry, ir.TypeQueue)
	f.Results = []ir.Type{ir.TypeChain}
	ctxOp := f.Append(f.Entry, ir.OpQueueContext, []ir.ValueID{queue}, ir.TypeContext)
	evOp := f.Append(f.Entry, ir.OpEventCreate, []ir.ValueID{f.Op(ctxOp).Results[0]}, ir.TypeEvent)
	wait := f.Append(f.Entry, ir.OpWait, []ir.ValueID{f.Op(evOp).Results[0]}, ir.TypeEvent)
	f.Append(f.Entry, ir.OpEventRecord, []ir.ValueID{f.Op(wait).Results[0], queue, chain}, ir.TypeChain)
	f.Append(f.Entry, ir.OpReturn, []ir.ValueID{chain})
	before := dumpFunc(t, f)

	changed, err := lowerWait(f, wait)
	if err == nil || IsAttemptFailure(err) {
		t.Fatalf("want rule decline, got %v", err)
	}
	if changed {
		t.Fatalf("declined rule reported a change")
	}
	// A decline must leave no trace: no spliced queue.wait, no rewired
	// terminator.
	if got := dumpFunc(t, f); got != before {
		t.Fatalf("declined rule mutated the function:\n%s", got)
	}
}

func TestWaitAdoptsTokenAmbientPair(t *testing.T) {
	f := convertedFixture("f")
	term := f.Terminator(f.Entry)
	ncOp := f.InsertBefore(term, ir.OpNewChain, nil, ir.TypeChain)
	cast := f.InsertBefore(term, ir.OpCast, []ir.ValueID{f.Op(ncOp).Results[0], f.Params()[1]}, ir.TypeToken)
	wait := f.InsertBefore(term, ir.OpWait, []ir.ValueID{f.Op(cast).Results[0]}, ir.TypeToken)

	changed, err := lowerWait(f, wait)
	if err != nil || !changed {
		t.Fatalf("lower: changed=%v err=%v", changed, err)
	}

	// The wait collapses to a fresh cast of the adopted pair; the
	// adopted cast dies with its only consumer.
	want := []ir.OpKind{ir.OpNewChain, ir.OpCast, ir.OpReturn}
	if got := blockKinds(f, f.Entry); !slices.Equal(got, want) {
		t.Fatalf("entry kinds = %v, want %v", got, want)
	}
	newCast := f.Block(f.Entry).Ops[1]
	if got := f.Op(newCast).Operands; !slices.Equal(got, []ir.ValueID{f.Op(ncOp).Results[0], f.Params()[1]}) {
		t.Fatalf("cast operands = %v, want the adopted pair", got)
	}
	if f.Op(cast).Block.IsValid() {
		t.Fatalf("adopted cast not erased")
	}
}

func TestWaitRejectsTwoTokenOperands(t *testing.T) {
	f := convertedFixture("f")
	term := f.Terminator(f.Entry)
	c1 := f.InsertBefore(term, ir.OpCast, []ir.ValueID{f.Params()[0], f.Params()[1]}, ir.TypeToken)
	c2 := f.InsertBefore(term, ir.OpCast, []ir.ValueID{f.Params()[0], f.Params()[1]}, ir.TypeToken)
	wait := f.InsertBefore(term, ir.OpWait, []ir.ValueID{f.Op(c1).Results[0], f.Op(c2).Results[0]}, ir.TypeToken)

	_, err := lowerWait(f, wait)
	if err == nil || !IsAttemptFailure(err) {
		t.Fatalf("want attempt failure, got %v", err)
	}
}

func TestWaitDeclinesUnknownOperand(t *testing.T) {
	f := convertedFixture("f")
	term := f.Terminator(f.Entry)
	a := f.InsertBefore(term, ir.OpAlloc, nil, ir.TypeBuffer)
	wait := f.InsertBefore(term, ir.OpWait, []ir.ValueID{f.Op(a).Results[0]}, ir.TypeToken)

	_, err := lowerWait(f, wait)
	if err == nil || IsAttemptFailure(err) {
		t.Fatalf("want rule decline, got %v", err)
	}
}

func TestWaitDeclinesOutsideConvertedFunc(t *testing.T) {
	f := ir.NewFunc("f")
	wait := f.Append(f.Entry, ir.OpWait, nil, ir.TypeToken)
	f.Append(f.Entry, ir.OpReturn, nil)

	_, err := lowerWait(f, wait)
	if err == nil || IsAttemptFailure(err) {
		t.Fatalf("want rule decline, got %v", err)
	}
}

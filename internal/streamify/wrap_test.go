package streamify

import (
	"slices"
	"testing"

	"sluice/internal/ir"
)

func TestWrapBlockFormsMaximalRuns(t *testing.T) {
	f := ir.NewFunc("f")
	a := f.Append(f.Entry, ir.OpAlloc, nil, ir.TypeBuffer)
	buf := f.Op(a).Results[0]
	f.Append(f.Entry, ir.OpMemcpy, []ir.ValueID{buf, buf})
	f.Append(f.Entry, ir.OpLaunch, nil)
	f.Append(f.Entry, ir.OpMemset, []ir.ValueID{buf})
	f.Append(f.Entry, ir.OpReturn, nil)

	if !wrapAsyncExec(f, deviceVocab()) {
		t.Fatalf("nothing wrapped")
	}

	want := []ir.OpKind{ir.OpAsyncExecute, ir.OpLaunch, ir.OpAsyncExecute, ir.OpReturn}
	if got := blockKinds(f, f.Entry); !slices.Equal(got, want) {
		t.Fatalf("entry kinds = %v, want %v", got, want)
	}

	first := f.Block(f.Entry).Ops[0]
	body := f.Op(first).Body
	if got := blockKinds(f, body); !slices.Equal(got, []ir.OpKind{ir.OpAlloc, ir.OpMemcpy, ir.OpReturn}) {
		t.Fatalf("first region kinds = %v", got)
	}
	params := f.Block(body).Params
	if len(params) != 2 || f.Value(params[0]).Type != ir.TypeChain || f.Value(params[1]).Type != ir.TypeQueue {
		t.Fatalf("region params = %v", params)
	}
	term := f.Terminator(body)
	if got := f.Op(term).Operands; !slices.Equal(got, []ir.ValueID{params[0]}) {
		t.Fatalf("region terminator returns %v, want chain parameter", got)
	}
}

func TestWrapSkipsRegionBodies(t *testing.T) {
	f := ir.NewFunc("f")
	async := f.Append(f.Entry, ir.OpAsyncExecute, nil, ir.TypeToken)
	body := f.NewBlock(async)
	f.Op(async).Body = body
	chain := f.AddBlockParam(body, ir.TypeChain)
	f.AddBlockParam(body, ir.TypeQueue)
	f.Append(body, ir.OpAlloc, nil, ir.TypeBuffer)
	f.Append(body, ir.OpReturn, []ir.ValueID{chain})
	f.Append(f.Entry, ir.OpReturn, nil)

	if wrapAsyncExec(f, deviceVocab()) {
		t.Fatalf("legal ops inside a region must not be re-wrapped")
	}
}

func TestWrapIgnoresIllegalOnlyBlock(t *testing.T) {
	f := ir.NewFunc("f")
	f.Append(f.Entry, ir.OpLaunch, nil)
	f.Append(f.Entry, ir.OpReturn, nil)

	if wrapAsyncExec(f, deviceVocab()) {
		t.Fatalf("no legal run, nothing to wrap")
	}
}

func TestBindAsyncRegionsPackagesAmbientPair(t *testing.T) {
	f := convertedFixture("f")
	term := f.Terminator(f.Entry)
	async := f.InsertBefore(term, ir.OpAsyncExecute, nil, ir.TypeToken)
	body := f.NewBlock(async)
	f.Op(async).Body = body
	bodyChain := f.AddBlockParam(body, ir.TypeChain)
	f.AddBlockParam(body, ir.TypeQueue)
	f.Append(body, ir.OpReturn, []ir.ValueID{bodyChain})

	if !bindAsyncRegions(f) {
		t.Fatalf("unbound region not bound")
	}

	ops := f.Op(async).Operands
	if len(ops) != 1 {
		t.Fatalf("region operands = %v, want one token", ops)
	}
	cast := definingTokenCast(f, ops[0])
	if !cast.IsValid() {
		t.Fatalf("region input is not a (chain, queue) cast")
	}
	if got := f.Op(cast).Operands; !slices.Equal(got, []ir.ValueID{f.Params()[0], f.Params()[1]}) {
		t.Fatalf("cast packages %v, want the function parameters", got)
	}

	if bindAsyncRegions(f) {
		t.Fatalf("bound region re-bound")
	}
}

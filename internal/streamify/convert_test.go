package streamify

import (
	"slices"
	"strings"
	"testing"

	"sluice/internal/diag"
	"sluice/internal/ir"
)

// convertedFixture builds an empty function already in target form.
func convertedFixture(name string) *ir.Func {
	f := ir.NewFunc(name)
	chain := f.AddBlockParam(f.Entry, ir.TypeChain)
	f.AddBlockParam(f.Entry, ir.TypeQueue)
	f.Results = []ir.Type{ir.TypeChain}
	f.Append(f.Entry, ir.OpReturn, []ir.ValueID{chain})
	return f
}

func blockKinds(f *ir.Func, b ir.BlockID) []ir.OpKind {
	var out []ir.OpKind
	for _, id := range f.Block(b).Ops {
		out = append(out, f.Op(id).Kind)
	}
	return out
}

func dumpFunc(t *testing.T, f *ir.Func) string {
	t.Helper()
	var sb strings.Builder
	if err := ir.DumpFunc(&sb, f); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return sb.String()
}

// deviceVocab marks every kind but launch legal, forcing a split
// around kernel launches.
func deviceVocab() Target {
	v := &Vocabulary{Ops: map[ir.OpKind]bool{
		ir.OpAlloc:  true,
		ir.OpMemcpy: true,
		ir.OpMemset: true,
	}}
	return v.Target()
}

func TestConvertDeclinesFunctionWithoutReturn(t *testing.T) {
	f := ir.NewFunc("f")
	f.Append(f.Entry, ir.OpYield, nil)
	before := dumpFunc(t, f)

	bag := diag.NewBag(16)
	changed, err := Convert(f, deviceVocab(), bag)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if changed {
		t.Fatalf("unconvertible function reported as changed")
	}
	if bag.HasErrors() {
		t.Fatalf("decline escalated to an error: %v", bag.Items())
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.RuleNoReturnTerminator {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing decline diagnostic, got %v", bag.Items())
	}
	if got := dumpFunc(t, f); got != before {
		t.Fatalf("declined attempt mutated the function:\n%s", got)
	}
}

func TestConvertExtractsMaximalRuns(t *testing.T) {
	f := ir.NewFunc("work")
	a := f.Append(f.Entry, ir.OpAlloc, nil, ir.TypeBuffer)
	buf := f.Op(a).Results[0]
	b := f.Append(f.Entry, ir.OpMemcpy, []ir.ValueID{buf, buf})
	c := f.Append(f.Entry, ir.OpLaunch, nil)
	d := f.Append(f.Entry, ir.OpMemset, []ir.ValueID{buf})
	f.Append(f.Entry, ir.OpReturn, nil)

	bag := diag.NewBag(16)
	changed, err := Convert(f, deviceVocab(), bag)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !changed {
		t.Fatalf("convert reported no change")
	}
	if err := ir.ValidateFunc(f); err != nil {
		t.Fatalf("converted function invalid: %v", err)
	}

	// The two legal runs around the launch come back inlined, each
	// closed by a token cast; the launch stays untouched between them.
	want := []ir.OpKind{ir.OpAlloc, ir.OpMemcpy, ir.OpCast, ir.OpLaunch, ir.OpMemset, ir.OpCast, ir.OpReturn}
	if got := blockKinds(f, f.Entry); !slices.Equal(got, want) {
		t.Fatalf("entry kinds = %v, want %v\n%s", got, want, dumpFunc(t, f))
	}

	if !Converted(f) {
		t.Fatalf("signature not in target form: %s", dumpFunc(t, f))
	}

	queue := f.Params()[1]
	for _, id := range []ir.OpID{a, b, d} {
		op := f.Op(id)
		n := len(op.Operands)
		if n < 2 || op.Operands[n-2] != queue {
			t.Fatalf("%s not bound to the function queue: %v", op.Kind, op.Operands)
		}
		if f.Value(op.Operands[n-1]).Type != ir.TypeChain {
			t.Fatalf("%s missing chain operand", op.Kind)
		}
		if f.Value(op.Results[len(op.Results)-1]).Type != ir.TypeChain {
			t.Fatalf("%s missing chain result", op.Kind)
		}
	}
	if got := len(f.Op(c).Operands); got != 0 {
		t.Fatalf("illegal launch gained %d operands", got)
	}

	// The run's chain threads through it: memcpy consumes alloc's
	// chain result.
	allocChain := f.Op(a).Results[len(f.Op(a).Results)-1]
	if ops := f.Op(b).Operands; ops[len(ops)-1] != allocChain {
		t.Fatalf("memcpy chain operand = %v, want %d", ops, allocChain)
	}
}

func TestConvertRewritesEmptyFunction(t *testing.T) {
	f := ir.NewFunc("empty")
	f.Append(f.Entry, ir.OpReturn, nil)

	bag := diag.NewBag(16)
	changed, err := Convert(f, deviceVocab(), bag)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !changed {
		t.Fatalf("signature rewrite should count as change")
	}
	if !Converted(f) {
		t.Fatalf("not in target form: %s", dumpFunc(t, f))
	}
	term := f.Terminator(f.Entry)
	if got := f.Op(term).Operands; !slices.Equal(got, []ir.ValueID{f.Params()[0]}) {
		t.Fatalf("terminator returns %v, want the chain parameter", got)
	}
}

func TestConvertIsIdempotent(t *testing.T) {
	f := ir.NewFunc("work")
	a := f.Append(f.Entry, ir.OpAlloc, nil, ir.TypeBuffer)
	f.Append(f.Entry, ir.OpMemset, []ir.ValueID{f.Op(a).Results[0]})
	f.Append(f.Entry, ir.OpReturn, nil)

	bag := diag.NewBag(16)
	if _, err := Convert(f, deviceVocab(), bag); err != nil {
		t.Fatalf("first convert: %v", err)
	}
	once := dumpFunc(t, f)

	changed, err := Convert(f, deviceVocab(), bag)
	if err != nil {
		t.Fatalf("second convert: %v", err)
	}
	if changed {
		t.Fatalf("second convert reported change")
	}
	if got := dumpFunc(t, f); got != once {
		t.Fatalf("second convert changed the graph:\nonce:\n%s\ntwice:\n%s", once, got)
	}
}

func TestConvertRollsBackFunctionWithResults(t *testing.T) {
	f := ir.NewFunc("bad")
	f.Results = []ir.Type{ir.TypeBuffer}
	a := f.Append(f.Entry, ir.OpAlloc, nil, ir.TypeBuffer)
	f.Append(f.Entry, ir.OpReturn, []ir.ValueID{f.Op(a).Results[0]})
	before := dumpFunc(t, f)

	bag := diag.NewBag(16)
	changed, err := Convert(f, deviceVocab(), bag)
	if err == nil {
		t.Fatalf("want attempt failure")
	}
	if changed {
		t.Fatalf("failed convert reported change")
	}
	if !bag.HasErrors() {
		t.Fatalf("attempt failure not reported as error diagnostic")
	}
	if got := dumpFunc(t, f); got != before {
		t.Fatalf("rollback did not restore graph:\nbefore:\n%s\nafter:\n%s", before, got)
	}
}

func TestConvertSkipsConvertedFunction(t *testing.T) {
	f := convertedFixture("done")
	bag := diag.NewBag(16)
	changed, err := Convert(f, deviceVocab(), bag)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if changed {
		t.Fatalf("fixed point reported change")
	}
	if bag.Len() != 0 {
		t.Fatalf("fixed point produced diagnostics: %v", bag.Items())
	}
}

package ir

import "slices"

// Func is a top-level region. Parameters are the entry block's
// parameters; Results lists the function result types.
type Func struct {
	Name    string
	Results []Type
	Entry   BlockID

	// Arenas. IDs index into these slices and stay stable across
	// rewrites; detached entries are skipped by consumers.
	Ops    []Op
	Blocks []Block
	Values []Value
}

// NewFunc creates an empty function with an entry block.
func NewFunc(name string) *Func {
	f := &Func{Name: name}
	f.Entry = f.NewBlock(NoOpID)
	return f
}

// Op returns the arena entry for id. It panics on out-of-range IDs,
// which always indicate a rewrite bug.
func (f *Func) Op(id OpID) *Op { return &f.Ops[id] }

// Block returns the arena entry for id.
func (f *Func) Block(id BlockID) *Block { return &f.Blocks[id] }

// Value returns the arena entry for id.
func (f *Func) Value(id ValueID) *Value { return &f.Values[id] }

// Params returns the entry block parameters.
func (f *Func) Params() []ValueID {
	return f.Blocks[f.Entry].Params
}

// ParamTypes returns the entry block parameter types.
func (f *Func) ParamTypes() []Type {
	params := f.Params()
	out := make([]Type, len(params))
	for i, v := range params {
		out[i] = f.Values[v].Type
	}
	return out
}

// Terminator returns the last op of a block, or NoOpID if the block is
// empty or does not end in a terminator kind.
func (f *Func) Terminator(b BlockID) OpID {
	ops := f.Blocks[b].Ops
	if len(ops) == 0 {
		return NoOpID
	}
	last := ops[len(ops)-1]
	if !f.Ops[last].Kind.IsTerminator() {
		return NoOpID
	}
	return last
}

// EnclosingAsync returns the innermost OpAsyncExecute whose region
// contains block b, or NoOpID when b is not nested in one.
func (f *Func) EnclosingAsync(b BlockID) OpID {
	for b.IsValid() {
		parent := f.Blocks[b].Parent
		if !parent.IsValid() {
			return NoOpID
		}
		if f.Ops[parent].Kind == OpAsyncExecute {
			return parent
		}
		b = f.Ops[parent].Block
	}
	return NoOpID
}

// Clone returns a deep copy sharing no mutable state with f.
func (f *Func) Clone() *Func {
	out := &Func{
		Name:    f.Name,
		Results: slices.Clone(f.Results),
		Entry:   f.Entry,
		Ops:     slices.Clone(f.Ops),
		Blocks:  slices.Clone(f.Blocks),
		Values:  slices.Clone(f.Values),
	}
	for i := range out.Ops {
		out.Ops[i].Operands = slices.Clone(out.Ops[i].Operands)
		out.Ops[i].Results = slices.Clone(out.Ops[i].Results)
	}
	for i := range out.Blocks {
		out.Blocks[i].Params = slices.Clone(out.Blocks[i].Params)
		out.Blocks[i].Ops = slices.Clone(out.Blocks[i].Ops)
	}
	for i := range out.Values {
		out.Values[i].Uses = slices.Clone(out.Values[i].Uses)
	}
	return out
}

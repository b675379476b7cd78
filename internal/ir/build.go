package ir

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// NewBlock appends a block to the arena. parent is the op owning the
// block as a region body, or NoOpID for the entry block.
func (f *Func) NewBlock(parent OpID) BlockID {
	id := BlockID(arenaSlot(len(f.Blocks)))
	f.Blocks = append(f.Blocks, Block{ID: id, Parent: parent})
	return id
}

// arenaSlot narrows a slice length to the ID width, panicking if the
// arena outgrows int32.
func arenaSlot(n int) int32 {
	slot, err := safecast.Conv[int32](n)
	if err != nil {
		panic(fmt.Sprintf("ir: arena overflow: %v", err))
	}
	return slot
}

// AddBlockParam appends a parameter of type t to block b.
func (f *Func) AddBlockParam(b BlockID, t Type) ValueID {
	v := f.newValue(t, NoOpID, b)
	f.Blocks[b].Params = append(f.Blocks[b].Params, v)
	return v
}

// InsertBlockParam inserts a parameter of type t at position at.
func (f *Func) InsertBlockParam(b BlockID, at int, t Type) ValueID {
	v := f.newValue(t, NoOpID, b)
	f.Blocks[b].Params = slices.Insert(f.Blocks[b].Params, at, v)
	return v
}

func (f *Func) newValue(t Type, producer OpID, defBlock BlockID) ValueID {
	id := ValueID(arenaSlot(len(f.Values)))
	f.Values = append(f.Values, Value{ID: id, Type: t, Producer: producer, DefBlock: defBlock})
	return id
}

func (f *Func) newOp(kind OpKind, operands []ValueID, resultTypes []Type) OpID {
	id := OpID(arenaSlot(len(f.Ops)))
	op := Op{
		ID:       id,
		Kind:     kind,
		Operands: slices.Clone(operands),
		Body:     NoBlockID,
		Block:    NoBlockID,
	}
	for _, t := range resultTypes {
		op.Results = append(op.Results, f.newValue(t, id, NoBlockID))
	}
	f.Ops = append(f.Ops, op)
	for _, v := range operands {
		f.addUse(v, id)
	}
	return id
}

// Append creates an op at the end of block b and returns its ID.
func (f *Func) Append(b BlockID, kind OpKind, operands []ValueID, resultTypes ...Type) OpID {
	id := f.newOp(kind, operands, resultTypes)
	f.Ops[id].Block = b
	f.Blocks[b].Ops = append(f.Blocks[b].Ops, id)
	return id
}

// InsertBefore creates an op immediately before an attached op.
func (f *Func) InsertBefore(before OpID, kind OpKind, operands []ValueID, resultTypes ...Type) OpID {
	b := f.Ops[before].Block
	if !b.IsValid() {
		panic(fmt.Sprintf("ir: insert before detached op %d", before))
	}
	at := f.OpIndex(before)
	id := f.newOp(kind, operands, resultTypes)
	f.Ops[id].Block = b
	f.Blocks[b].Ops = slices.Insert(f.Blocks[b].Ops, at, id)
	return id
}

// OpIndex returns the position of an op within its owning block.
func (f *Func) OpIndex(op OpID) int {
	b := f.Ops[op].Block
	for i, id := range f.Blocks[b].Ops {
		if id == op {
			return i
		}
	}
	panic(fmt.Sprintf("ir: op %d not found in block %d", op, b))
}

// EraseOp detaches an op from its block and drops its operand uses.
// Fails if any result still has uses.
func (f *Func) EraseOp(id OpID) error {
	op := &f.Ops[id]
	for _, r := range op.Results {
		if n := len(f.Values[r].Uses); n > 0 {
			return fmt.Errorf("ir: erase %s op %d: result %%v%d has %d uses", op.Kind, id, r, n)
		}
	}
	if op.Block.IsValid() {
		blk := &f.Blocks[op.Block]
		at := f.OpIndex(id)
		blk.Ops = slices.Delete(blk.Ops, at, at+1)
	}
	for _, v := range op.Operands {
		f.removeUse(v, id)
	}
	op.Operands = nil
	op.Block = NoBlockID
	return nil
}

// SetOperand rewires one operand of an op, keeping use lists in sync.
func (f *Func) SetOperand(op OpID, idx int, v ValueID) {
	old := f.Ops[op].Operands[idx]
	if old == v {
		return
	}
	f.removeUse(old, op)
	f.Ops[op].Operands[idx] = v
	f.addUse(v, op)
}

// ReplaceAllUses rewires every consumer of old to use new instead.
func (f *Func) ReplaceAllUses(old, new ValueID) {
	if old == new {
		return
	}
	uses := f.Values[old].Uses
	f.Values[old].Uses = nil
	for _, user := range uses {
		operands := f.Ops[user].Operands
		for i, v := range operands {
			if v == old {
				operands[i] = new
			}
		}
		f.addUse(new, user)
	}
}

// MoveRange detaches ops [from, to) of src and appends them to dst in
// order. Def-use edges are untouched: values stay valid across blocks
// until validation.
func (f *Func) MoveRange(dst, src BlockID, from, to int) {
	moved := slices.Clone(f.Blocks[src].Ops[from:to])
	f.Blocks[src].Ops = slices.Delete(f.Blocks[src].Ops, from, to)
	for _, id := range moved {
		f.Ops[id].Block = dst
	}
	f.Blocks[dst].Ops = append(f.Blocks[dst].Ops, moved...)
}

// AddOperand appends an operand to an op, keeping use lists in sync.
func (f *Func) AddOperand(op OpID, v ValueID) {
	f.Ops[op].Operands = append(f.Ops[op].Operands, v)
	f.addUse(v, op)
}

// AddResult appends a result of type t to an op.
func (f *Func) AddResult(op OpID, t Type) ValueID {
	v := f.newValue(t, op, NoBlockID)
	f.Ops[op].Results = append(f.Ops[op].Results, v)
	return v
}

// MoveRangeBefore detaches ops [from, to) of src and splices them
// immediately before an attached op.
func (f *Func) MoveRangeBefore(before OpID, src BlockID, from, to int) {
	dst := f.Ops[before].Block
	if !dst.IsValid() {
		panic(fmt.Sprintf("ir: move before detached op %d", before))
	}
	moved := slices.Clone(f.Blocks[src].Ops[from:to])
	f.Blocks[src].Ops = slices.Delete(f.Blocks[src].Ops, from, to)
	for _, id := range moved {
		f.Ops[id].Block = dst
	}
	at := f.OpIndex(before)
	f.Blocks[dst].Ops = slices.Insert(f.Blocks[dst].Ops, at, moved...)
}

func (f *Func) addUse(v ValueID, op OpID) {
	f.Values[v].Uses = append(f.Values[v].Uses, op)
}

func (f *Func) removeUse(v ValueID, op OpID) {
	uses := f.Values[v].Uses
	for i, u := range uses {
		if u == op {
			f.Values[v].Uses = slices.Delete(uses, i, i+1)
			return
		}
	}
}

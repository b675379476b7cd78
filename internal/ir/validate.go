package ir

import (
	"errors"
	"fmt"
)

// Validate checks module structural invariants.
// Returns an error joining every violation found.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := ValidateFunc(f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateFunc checks one function.
func ValidateFunc(f *Func) error {
	var errs []error
	if err := validateTerminators(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateOperandRanges(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateDefUse(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateRegions(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateVisibility(f); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// AttachedBlocks returns blocks reachable from the entry through
// region bodies of attached ops, outer blocks first.
func (f *Func) AttachedBlocks() []BlockID {
	out := []BlockID{f.Entry}
	for i := 0; i < len(out); i++ {
		for _, id := range f.Blocks[out[i]].Ops {
			if body := f.Ops[id].Body; body.IsValid() {
				out = append(out, body)
			}
		}
	}
	return out
}

func validateTerminators(f *Func) error {
	var errs []error
	for _, b := range f.AttachedBlocks() {
		term := f.Terminator(b)
		if !term.IsValid() {
			errs = append(errs, fmt.Errorf("bb%d: unterminated block", b))
			continue
		}
		for i, id := range f.Blocks[b].Ops {
			op := &f.Ops[id]
			if op.Kind.IsTerminator() && i != len(f.Blocks[b].Ops)-1 {
				errs = append(errs, fmt.Errorf("bb%d: %s op %d before end of block", b, op.Kind, id))
			}
		}
		if b == f.Entry {
			n := len(f.Ops[term].Operands)
			if n != len(f.Results) {
				errs = append(errs, fmt.Errorf("bb%d: terminator has %d operands, function declares %d results", b, n, len(f.Results)))
			}
		}
	}
	return errors.Join(errs...)
}

func validateOperandRanges(f *Func) error {
	var errs []error
	valueExists := func(v ValueID) bool {
		return v >= 0 && int(v) < len(f.Values)
	}
	for _, b := range f.AttachedBlocks() {
		for _, id := range f.Blocks[b].Ops {
			op := &f.Ops[id]
			for i, v := range op.Operands {
				if !valueExists(v) {
					errs = append(errs, fmt.Errorf("op %d: operand %d references value %d out of range", id, i, v))
				}
			}
			if op.Block != b {
				errs = append(errs, fmt.Errorf("op %d: owner bb%d does not match containing bb%d", id, op.Block, b))
			}
		}
	}
	return errors.Join(errs...)
}

// validateDefUse checks that operand occurrences and use lists mirror
// each other exactly.
func validateDefUse(f *Func) error {
	var errs []error

	attached := make(map[OpID]bool)
	for _, b := range f.AttachedBlocks() {
		for _, id := range f.Blocks[b].Ops {
			attached[id] = true
		}
	}

	operandCount := make(map[ValueID]map[OpID]int)
	for id := range attached {
		for _, v := range f.Ops[id].Operands {
			if v < 0 || int(v) >= len(f.Values) {
				continue
			}
			if operandCount[v] == nil {
				operandCount[v] = make(map[OpID]int)
			}
			operandCount[v][id]++
		}
	}

	for i := range f.Values {
		v := &f.Values[i]
		useCount := make(map[OpID]int)
		for _, u := range v.Uses {
			useCount[u]++
		}
		for op, n := range useCount {
			if !attached[op] {
				errs = append(errs, fmt.Errorf("value %%v%d: use list names detached op %d", v.ID, op))
				continue
			}
			if operandCount[v.ID][op] != n {
				errs = append(errs, fmt.Errorf("value %%v%d: %d use entries for op %d, %d operand occurrences", v.ID, n, op, operandCount[v.ID][op]))
			}
		}
		for op, n := range operandCount[v.ID] {
			if useCount[op] != n {
				errs = append(errs, fmt.Errorf("value %%v%d: op %d consumes it %d times but has %d use entries", v.ID, op, n, useCount[op]))
			}
		}
	}
	return errors.Join(errs...)
}

// validateRegions checks async region shape: parent op kind, body
// block parameters (chain, queue), and a terminator whose operand 0 is
// chain-typed.
func validateRegions(f *Func) error {
	var errs []error
	for _, b := range f.AttachedBlocks() {
		blk := &f.Blocks[b]
		if !blk.Parent.IsValid() {
			continue
		}
		parent := &f.Ops[blk.Parent]
		if parent.Kind != OpAsyncExecute {
			errs = append(errs, fmt.Errorf("bb%d: region parent op %d is %s, want async.execute", b, parent.ID, parent.Kind))
			continue
		}
		if parent.Body != b {
			errs = append(errs, fmt.Errorf("bb%d: parent op %d body is bb%d", b, parent.ID, parent.Body))
		}
		if len(blk.Params) != 2 ||
			f.Values[blk.Params[0]].Type != TypeChain ||
			f.Values[blk.Params[1]].Type != TypeQueue {
			errs = append(errs, fmt.Errorf("bb%d: async region must take (chain, queue) parameters", b))
		}
		term := f.Terminator(b)
		if !term.IsValid() {
			continue
		}
		operands := f.Ops[term].Operands
		if len(operands) == 0 || f.Values[operands[0]].Type != TypeChain {
			errs = append(errs, fmt.Errorf("bb%d: async region terminator must carry a chain as operand 0", b))
		}
	}
	return errors.Join(errs...)
}

// validateVisibility checks that consumers only reference values
// defined in their own block or an enclosing one, and that same-block
// producers come first.
func validateVisibility(f *Func) error {
	var errs []error

	pos := make(map[OpID]int)
	for _, b := range f.AttachedBlocks() {
		for i, id := range f.Blocks[b].Ops {
			pos[id] = i
		}
	}

	defBlock := func(v ValueID) BlockID {
		val := &f.Values[v]
		if val.Producer.IsValid() {
			return f.Ops[val.Producer].Block
		}
		return val.DefBlock
	}
	visible := func(from, def BlockID) bool {
		for from.IsValid() {
			if from == def {
				return true
			}
			parent := f.Blocks[from].Parent
			if !parent.IsValid() {
				return false
			}
			from = f.Ops[parent].Block
		}
		return false
	}

	for _, b := range f.AttachedBlocks() {
		for _, id := range f.Blocks[b].Ops {
			op := &f.Ops[id]
			for _, v := range op.Operands {
				if v < 0 || int(v) >= len(f.Values) {
					continue
				}
				db := defBlock(v)
				if !db.IsValid() {
					errs = append(errs, fmt.Errorf("op %d: operand %%v%d has no defining block", id, v))
					continue
				}
				if !visible(b, db) {
					errs = append(errs, fmt.Errorf("op %d in bb%d: operand %%v%d defined in non-enclosing bb%d", id, b, v, db))
					continue
				}
				producer := f.Values[v].Producer
				if db == b && producer.IsValid() && pos[producer] >= pos[id] {
					errs = append(errs, fmt.Errorf("op %d in bb%d: operand %%v%d produced later in the block", id, b, v))
				}
			}
		}
	}
	return errors.Join(errs...)
}

package streamify

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"sluice/internal/ir"
)

// Vocabulary is the set of operation kinds eligible for scheduling
// inside async regions. Loaded from a TOML file of the form:
//
//	[legality]
//	ops = ["alloc", "memcpy", "launch"]
type Vocabulary struct {
	Ops map[ir.OpKind]bool
}

type vocabFile struct {
	Legality struct {
		Ops []string `toml:"ops"`
	} `toml:"legality"`
}

// DefaultVocabulary marks every device operation legal.
func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{Ops: make(map[ir.OpKind]bool)}
	for _, k := range []ir.OpKind{ir.OpAlloc, ir.OpFree, ir.OpMemcpy, ir.OpMemset, ir.OpLaunch} {
		v.Ops[k] = true
	}
	return v
}

// LoadVocabulary reads a vocabulary from a TOML file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	var file vocabFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, err
	}
	return vocabularyOf(&file)
}

// ParseVocabulary reads a vocabulary from TOML data.
func ParseVocabulary(data string) (*Vocabulary, error) {
	var file vocabFile
	if _, err := toml.Decode(data, &file); err != nil {
		return nil, err
	}
	return vocabularyOf(&file)
}

func vocabularyOf(file *vocabFile) (*Vocabulary, error) {
	v := &Vocabulary{Ops: make(map[ir.OpKind]bool)}
	for _, name := range file.Legality.Ops {
		kind, ok := ir.ParseOpKind(name)
		if !ok {
			return nil, fmt.Errorf("streamify: unknown op kind %q in legality vocabulary", name)
		}
		v.Ops[kind] = true
	}
	return v, nil
}

// Target builds the legality classifier for this vocabulary.
func (v *Vocabulary) Target() Target {
	return Target{
		Legal: func(f *ir.Func, op ir.OpID) bool {
			return v.Ops[f.Op(op).Kind]
		},
	}
}

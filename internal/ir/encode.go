package ir

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the arena layout changes.
const codecSchemaVersion uint16 = 1

type moduleFile struct {
	Schema uint16
	Module *Module
}

// EncodeModule writes a module in msgpack interchange form.
func EncodeModule(w io.Writer, m *Module) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&moduleFile{Schema: codecSchemaVersion, Module: m})
}

// DecodeModule reads a module written by EncodeModule.
func DecodeModule(r io.Reader) (*Module, error) {
	var file moduleFile
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, err
	}
	if file.Schema != codecSchemaVersion {
		return nil, fmt.Errorf("ir: module schema %d, this build reads %d", file.Schema, codecSchemaVersion)
	}
	if file.Module == nil {
		return nil, fmt.Errorf("ir: empty module payload")
	}
	return file.Module, nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"sluice/internal/ir"
)

// loadModule reads a msgpack-encoded module from disk.
func loadModule(path string) (*ir.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open module: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close %s: %v\n", path, cerr)
		}
	}()
	m, err := ir.DecodeModule(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}

// saveModule writes a msgpack-encoded module atomically: encode to a
// sibling temp file, then rename over the target.
func saveModule(path string, m *ir.Module) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sluice-*.mp")
	if err != nil {
		return fmt.Errorf("create temp module: %w", err)
	}
	tmpName := tmp.Name()
	if err := ir.EncodeModule(tmp, m); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("encode module: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp module: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

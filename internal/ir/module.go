package ir

// Module is an ordered collection of functions.
type Module struct {
	Funcs []*Func
}

// Lookup returns the function with the given name, or nil.
func (m *Module) Lookup(name string) *Func {
	for _, f := range m.Funcs {
		if f != nil && f.Name == name {
			return f
		}
	}
	return nil
}

package symbols

// Checkpoint is a saved view of one frame, used to undo a rejected chunk.
type Checkpoint struct {
	variables map[string]*Variable
	values    map[*Variable]Variable
	functions map[string][]*Function
	types     map[string]*TypeDecl
	methods   map[*TypeDecl][]*Function
}

// Checkpoint records the bindings of s. Variables are copied by value so
// that later type refinements are undone as well.
func (s *SymbolTable) Checkpoint() *Checkpoint {
	cp := &Checkpoint{
		variables: make(map[string]*Variable, len(s.variables)),
		values:    make(map[*Variable]Variable, len(s.variables)),
		functions: make(map[string][]*Function, len(s.functions)),
		types:     make(map[string]*TypeDecl, len(s.types)),
		methods:   make(map[*TypeDecl][]*Function, len(s.types)),
	}
	for name, v := range s.variables {
		cp.variables[name] = v
		cp.values[v] = *v
	}
	for name, fns := range s.functions {
		cp.functions[name] = append([]*Function(nil), fns...)
	}
	for name, t := range s.types {
		cp.types[name] = t
		cp.methods[t] = append([]*Function(nil), t.Methods...)
	}
	return cp
}

// Restore puts s back in the state recorded by cp.
func (s *SymbolTable) Restore(cp *Checkpoint) {
	s.variables = make(map[string]*Variable, len(cp.variables))
	for name, v := range cp.variables {
		*v = cp.values[v]
		s.variables[name] = v
	}
	s.functions = make(map[string][]*Function, len(cp.functions))
	for name, fns := range cp.functions {
		s.functions[name] = append([]*Function(nil), fns...)
	}
	s.types = make(map[string]*TypeDecl, len(cp.types))
	for name, t := range cp.types {
		t.Methods = append([]*Function(nil), cp.methods[t]...)
		s.types[name] = t
	}
}

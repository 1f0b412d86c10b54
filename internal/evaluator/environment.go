package evaluator

import "sort"

type binding struct {
	value   Object
	mutable bool
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*binding)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Environment is one runtime frame. Function calls start from a frame with
// no outer frame.
type Environment struct {
	store map[string]*binding
	outer *Environment
}

func (e *Environment) Get(name string) (Object, bool) {
	if b, ok := e.store[name]; ok {
		return b.value, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Define creates a binding in this frame, shadowing outer ones.
func (e *Environment) Define(name string, val Object, mutable bool) Object {
	e.store[name] = &binding{value: val, mutable: mutable}
	return val
}

// Assign updates the innermost binding called name. ok is false when no
// binding exists; mutable is false when it exists but is immutable.
func (e *Environment) Assign(name string, val Object) (ok, mutable bool) {
	for env := e; env != nil; env = env.outer {
		if b, found := env.store[name]; found {
			if !b.mutable {
				return true, false
			}
			b.value = val
			return true, true
		}
	}
	return false, false
}

// Names returns the bindings of this frame, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns the visible bindings, inner frames shadowing outer ones.
func (e *Environment) Snapshot() map[string]Object {
	out := make(map[string]Object)
	var frames []*Environment
	for env := e; env != nil; env = env.outer {
		frames = append(frames, env)
	}
	for i := len(frames) - 1; i >= 0; i-- {
		for name, b := range frames[i].store {
			out[name] = b.value
		}
	}
	return out
}

// SavedFrame is a copy of the binding set of one frame.
type SavedFrame map[string]*binding

// Bindings returns a copy of the binding set of this frame.
func (e *Environment) Bindings() SavedFrame {
	saved := make(SavedFrame, len(e.store))
	for name, b := range e.store {
		saved[name] = b
	}
	return saved
}

// Reset drops bindings created since saved was taken. Assignments to
// bindings that already existed are kept.
func (e *Environment) Reset(saved SavedFrame) {
	e.store = make(map[string]*binding, len(saved))
	for name, b := range saved {
		e.store[name] = b
	}
}

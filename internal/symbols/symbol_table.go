// Package symbols holds the static view of jinko scopes: frames of variable
// bindings, overload sets and type declarations, plus the cache of
// monomorphized generic functions.
package symbols

import (
	"sort"

	"github.com/jinko-lang/jinko/internal/typesystem"
)

// SymbolTable is one lexical frame. Frames form a stack through outer.
type SymbolTable struct {
	variables map[string]*Variable
	functions map[string][]*Function
	types     map[string]*TypeDecl
	typeVars  map[string]typesystem.Type
	outer     *SymbolTable
	scopeType ScopeType
	module    string
}

// NewSymbolTable creates the top-level frame of a module.
func NewSymbolTable(module string) *SymbolTable {
	return &SymbolTable{
		variables: make(map[string]*Variable),
		functions: make(map[string][]*Function),
		types:     make(map[string]*TypeDecl),
		scopeType: ScopeGlobal,
		module:    module,
	}
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType) *SymbolTable {
	st := NewSymbolTable(outer.module)
	st.outer = outer
	st.scopeType = scopeType
	return st
}

// Outer returns the outer scope symbol table
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

func (s *SymbolTable) Module() string {
	return s.module
}

func (s *SymbolTable) IsGlobalScope() bool {
	return s.scopeType == ScopeGlobal
}

// InFunction reports whether s is, or is nested in, a function frame.
func (s *SymbolTable) InFunction() bool {
	for t := s; t != nil; t = t.outer {
		if t.scopeType == ScopeFunction {
			return true
		}
	}
	return false
}

func (s *SymbolTable) DefineVariable(v *Variable) {
	if s.scopeType == ScopeGlobal {
		v.Module = s.module
	}
	s.variables[v.Name] = v
}

// DefineFunction appends fn to the overload set for its name.
func (s *SymbolTable) DefineFunction(fn *Function) {
	s.functions[fn.Name] = append(s.functions[fn.Name], fn)
}

func (s *SymbolTable) DefineType(t *TypeDecl) {
	s.types[t.Name] = t
}

// BindTypeVar makes a generic parameter name resolvable in this frame.
func (s *SymbolTable) BindTypeVar(name string, t typesystem.Type) {
	if s.typeVars == nil {
		s.typeVars = make(map[string]typesystem.Type)
	}
	s.typeVars[name] = t
}

// Binding is the result of a name lookup: either a variable or an overload
// set, from the frame that defines the name.
type Binding struct {
	Variable  *Variable
	Functions []*Function
	Scope     *SymbolTable
}

func (b Binding) Found() bool {
	return b.Variable != nil || len(b.Functions) > 0
}

// Lookup walks from the innermost frame outwards and returns the first frame
// defining name, as a variable or as an overload set. Variables of frames
// outside the enclosing function are not visible.
func (s *SymbolTable) Lookup(name string) Binding {
	crossed := false
	for t := s; t != nil; t = t.outer {
		if !crossed {
			if v, ok := t.variables[name]; ok {
				return Binding{Variable: v, Scope: t}
			}
		}
		if fns := t.functions[name]; len(fns) > 0 {
			return Binding{Functions: fns, Scope: t}
		}
		if t.scopeType == ScopeFunction {
			crossed = true
		}
	}
	return Binding{}
}

// LookupVariable returns the innermost visible variable called name.
func (s *SymbolTable) LookupVariable(name string) (*Variable, bool) {
	b := s.Lookup(name)
	return b.Variable, b.Variable != nil
}

// LookupFunctions returns the overload set of the innermost frame defining
// name, unless a variable shadows it.
func (s *SymbolTable) LookupFunctions(name string) []*Function {
	return s.Lookup(name).Functions
}

// Variable returns a binding of this frame only.
func (s *SymbolTable) Variable(name string) (*Variable, bool) {
	v, ok := s.variables[name]
	return v, ok
}

// Functions returns the overload set of this frame only.
func (s *SymbolTable) Functions(name string) []*Function {
	return s.functions[name]
}

// FunctionNames lists the overload set names of this frame, sorted.
func (s *SymbolTable) FunctionNames() []string {
	names := make([]string, 0, len(s.functions))
	for name := range s.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReplaceFunction swaps old for replacement in this frame's overload set.
func (s *SymbolTable) ReplaceFunction(old, replacement *Function) bool {
	fns := s.functions[old.Name]
	for i, fn := range fns {
		if fn == old {
			fns[i] = replacement
			return true
		}
	}
	return false
}

// ResolveType finds a type declaration visible from this frame.
func (s *SymbolTable) ResolveType(name string) (*TypeDecl, bool) {
	for t := s; t != nil; t = t.outer {
		if decl, ok := t.types[name]; ok {
			return decl, true
		}
	}
	return nil, false
}

// LocalType returns a type declared in this frame only.
func (s *SymbolTable) LocalType(name string) (*TypeDecl, bool) {
	decl, ok := s.types[name]
	return decl, ok
}

// TypeDecls returns the type declarations of this frame, sorted by name.
func (s *SymbolTable) TypeDecls() []*TypeDecl {
	out := make([]*TypeDecl, 0, len(s.types))
	for _, t := range s.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ResolveTypeVar finds a generic parameter bound in an enclosing frame.
func (s *SymbolTable) ResolveTypeVar(name string) (typesystem.Type, bool) {
	for t := s; t != nil; t = t.outer {
		if tv, ok := t.typeVars[name]; ok {
			return tv, true
		}
	}
	return nil, false
}

package modules

import (
	"fmt"
	"sort"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/symbols"
)

// IncludeState tracks the one-way progress of a module's registration.
type IncludeState int

const (
	NotStarted IncludeState = iota
	InProgress
	Done
)

func (s IncludeState) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Done:
		return "done"
	}
	return fmt.Sprintf("IncludeState(%d)", int(s))
}

// Module represents a loaded unit consisting of one or more source files.
type Module struct {
	Name string
	// Key identifies the module in the Table: the absolute path of its
	// source file or directory.
	Key         string
	Dir         string // directory used to resolve the module's own includes
	Files       []*ast.Program
	SymbolTable *symbols.SymbolTable
	// Imports maps qualifiers to the modules visible from this one.
	// Only modules that finished loading are recorded.
	Imports map[string]*Module
	// ImportOrder lists Imports in include order.
	ImportOrder []*Module
	Tests       []*symbols.Function

	state IncludeState
}

func NewModule(name, key, dir string) *Module {
	return &Module{
		Name:        name,
		Key:         key,
		Dir:         dir,
		SymbolTable: symbols.NewSymbolTable(name),
		Imports:     make(map[string]*Module),
	}
}

func (m *Module) State() IncludeState {
	return m.state
}

// Begin moves the module from NotStarted to InProgress.
func (m *Module) Begin() error {
	if m.state != NotStarted {
		return fmt.Errorf("module %s: cannot begin loading in state %s", m.Name, m.state)
	}
	m.state = InProgress
	return nil
}

// Finish moves the module from InProgress to Done.
func (m *Module) Finish() error {
	if m.state != InProgress {
		return fmt.Errorf("module %s: cannot finish loading in state %s", m.Name, m.state)
	}
	m.state = Done
	return nil
}

// Import makes dep reachable through qualifier. Importing the same module
// twice is a no-op.
func (m *Module) Import(qualifier string, dep *Module) {
	if existing, ok := m.Imports[qualifier]; ok && existing == dep {
		return
	}
	m.Imports[qualifier] = dep
	for _, d := range m.ImportOrder {
		if d == dep {
			return
		}
	}
	m.ImportOrder = append(m.ImportOrder, dep)
}

// Qualifiers returns the import qualifiers, sorted.
func (m *Module) Qualifiers() []string {
	out := make([]string, 0, len(m.Imports))
	for q := range m.Imports {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

// Table is the arena of modules of one run, keyed by source location.
type Table struct {
	modules map[string]*Module
	order   []*Module
}

func NewTable() *Table {
	return &Table{modules: make(map[string]*Module)}
}

func (t *Table) Get(key string) (*Module, bool) {
	m, ok := t.modules[key]
	return m, ok
}

// Add registers a module. A module already present under the same key is
// returned instead.
func (t *Table) Add(m *Module) *Module {
	if existing, ok := t.modules[m.Key]; ok {
		return existing
	}
	t.modules[m.Key] = m
	t.order = append(t.order, m)
	return m
}

// Modules returns the modules in registration order.
func (t *Table) Modules() []*Module {
	return t.order
}

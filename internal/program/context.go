// Package program holds the state shared by elaboration and evaluation of
// one run: the module table, the instantiation cache and the side tables
// the analyzer fills for the evaluator.
package program

import (
	"log/slog"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/config"
	"github.com/jinko-lang/jinko/internal/modules"
	"github.com/jinko-lang/jinko/internal/symbols"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

type CallKind int

const (
	CallDirect    CallKind = iota // statically bound function
	CallIndirect                  // variable holding a function value
	CallConstruct                 // record type constructor
	CallAlias                     // `Meters(3)`, identity on the alias target
)

// CallBinding is the resolution of one call expression.
type CallBinding struct {
	Kind   CallKind
	Target *symbols.Function
	Type   *symbols.TypeDecl
	// Coerce marks arguments wrapped into Some before the call.
	Coerce []bool
}

type AssignKind int

const (
	AssignDeclare AssignKind = iota
	AssignUpdate
)

// Info is filled by the analyzer and read by the evaluator.
type Info struct {
	Types    map[ast.Node]typesystem.Type
	Calls    map[*ast.Call]*CallBinding
	Assigns  map[*ast.Assignment]AssignKind
	Includes map[*ast.Include]*modules.Module
	// Globals records identifiers reading a top-level variable of an
	// included module.
	Globals map[*ast.Identifier]*modules.Module
	// Refs records identifiers denoting a function value.
	Refs   map[*ast.Identifier]*symbols.Function
	Fields map[*ast.FieldAccess]int
}

func NewInfo() *Info {
	return &Info{
		Types:    make(map[ast.Node]typesystem.Type),
		Calls:    make(map[*ast.Call]*CallBinding),
		Assigns:  make(map[*ast.Assignment]AssignKind),
		Includes: make(map[*ast.Include]*modules.Module),
		Globals:  make(map[*ast.Identifier]*modules.Module),
		Refs:     make(map[*ast.Identifier]*symbols.Function),
		Fields:   make(map[*ast.FieldAccess]int),
	}
}

// TypeOf returns the recorded static type of n, or nil.
func (i *Info) TypeOf(n ast.Node) typesystem.Type {
	return i.Types[n]
}

// Options configures a run.
type Options struct {
	MaxDepth     int
	IncludePaths []string
	TestMode     bool
	FailFast     bool
	Logger       *slog.Logger
}

// Context is created once per run.
type Context struct {
	Modules   *modules.Table
	Instances *symbols.Instances
	Loader    *modules.Loader
	Info      *Info
	Logger    *slog.Logger

	Main    *modules.Module
	Builtin *modules.Module

	MaxDepth int
	TestMode bool
	FailFast bool
}

func NewContext(opts Options) *Context {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = config.DefaultMaxDepth
	}
	loader := modules.NewLoader(opts.IncludePaths, opts.Logger)
	return &Context{
		Modules:   modules.NewTable(),
		Instances: symbols.NewInstances(),
		Loader:    loader,
		Info:      NewInfo(),
		Logger:    loader.Logger,
		MaxDepth:  opts.MaxDepth,
		TestMode:  opts.TestMode,
		FailFast:  opts.FailFast,
	}
}

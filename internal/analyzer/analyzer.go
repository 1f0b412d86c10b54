// Package analyzer elaborates parsed jinko modules before anything runs:
// it resolves includes, registers declarations, types every instruction,
// binds every call to one function and monomorphizes generic functions.
package analyzer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/config"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/modules"
	"github.com/jinko-lang/jinko/internal/program"
	"github.com/jinko-lang/jinko/internal/symbols"
	"github.com/jinko-lang/jinko/internal/token"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

// maxInstantiationDepth bounds generic instantiations nested inside the
// elaboration of other instantiations.
const maxInstantiationDepth = 128

type loopState struct {
	broken bool
}

// Analyzer performs semantic analysis over the modules of one run.
type Analyzer struct {
	ctx  *program.Context
	info *program.Info

	module *modules.Module
	scope  *symbols.SymbolTable
	fn     *symbols.Function // function whose body is elaborated, nil at top level
	loops  []*loopState
	audit  int

	owners    map[*symbols.Function]*modules.Module
	records   map[typesystem.TCon]*symbols.TypeDecl
	resolving map[*symbols.TypeDecl]bool
	instDepth int
}

func New(ctx *program.Context) *Analyzer {
	return &Analyzer{
		ctx:       ctx,
		info:      ctx.Info,
		owners:    make(map[*symbols.Function]*modules.Module),
		records:   make(map[typesystem.TCon]*symbols.TypeDecl),
		resolving: make(map[*symbols.TypeDecl]bool),
	}
}

// LoadFile elaborates the entry module read from path.
func (a *Analyzer) LoadFile(path string) (*modules.Module, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.LoadSource(path, string(content))
}

// LoadSource elaborates the entry module from source text. Includes are
// resolved relative to the directory of file.
func (a *Analyzer) LoadSource(file, source string) (*modules.Module, error) {
	if err := a.loadBuiltin(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	main := a.ctx.Modules.Add(modules.NewModule(config.MainModuleName, abs, filepath.Dir(abs)))
	a.ctx.Main = main

	prog, err := modules.ParseSource(file, source)
	if err != nil {
		return main, err
	}
	return main, a.loadUnit(main, []*ast.Program{prog})
}

// StartSession prepares an empty main module fed through AnalyzeChunk.
func (a *Analyzer) StartSession(dir string) (*modules.Module, error) {
	if err := a.loadBuiltin(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	main := a.ctx.Modules.Add(modules.NewModule(config.ReplModuleName, filepath.Join(abs, "<repl>"), abs))
	a.ctx.Main = main
	if err := a.loadUnit(main, nil); err != nil {
		return nil, err
	}
	return main, nil
}

// AnalyzeChunk elaborates one more program into the main module and
// returns the type of its trailing expression.
func (a *Analyzer) AnalyzeChunk(prog *ast.Program) (typesystem.Type, error) {
	main := a.ctx.Main
	if main == nil {
		return nil, errors.New("analyzer: no main module")
	}
	cp := a.Checkpoint()
	main.Files = append(main.Files, prog)
	if err := a.elaborate(main, []*ast.Program{prog}); err != nil {
		a.Rollback(cp)
		return nil, err
	}
	if prog.Value == nil {
		return typesystem.Void, nil
	}
	return a.info.TypeOf(prog.Value), nil
}

// ChunkCheckpoint is the state of the main module before a chunk.
type ChunkCheckpoint struct {
	symbols     *symbols.Checkpoint
	files       int
	tests       int
	imports     map[string]*modules.Module
	importOrder int
}

// Checkpoint records the main module so that a chunk can be undone.
func (a *Analyzer) Checkpoint() *ChunkCheckpoint {
	main := a.ctx.Main
	imports := make(map[string]*modules.Module, len(main.Imports))
	for k, m := range main.Imports {
		imports[k] = m
	}
	return &ChunkCheckpoint{
		symbols:     main.SymbolTable.Checkpoint(),
		files:       len(main.Files),
		tests:       len(main.Tests),
		imports:     imports,
		importOrder: len(main.ImportOrder),
	}
}

// Rollback drops everything a chunk added to the main module. Modules the
// chunk loaded stay in the table, unreferenced by main.
func (a *Analyzer) Rollback(cp *ChunkCheckpoint) {
	main := a.ctx.Main
	main.SymbolTable.Restore(cp.symbols)
	main.Files = main.Files[:cp.files]
	main.Tests = main.Tests[:cp.tests]
	main.Imports = cp.imports
	main.ImportOrder = main.ImportOrder[:cp.importOrder]
}

func (a *Analyzer) loadUnit(m *modules.Module, files []*ast.Program) error {
	if err := m.Begin(); err != nil {
		return err
	}
	m.Files = append(m.Files, files...)
	if err := a.elaborate(m, files); err != nil {
		return err
	}
	return m.Finish()
}

// elaborate runs the declaration phases and then types the top-level
// instructions of files in order.
func (a *Analyzer) elaborate(m *modules.Module, files []*ast.Program) error {
	return a.inModule(m, func() error {
		for _, f := range files {
			for _, n := range f.Instructions {
				if inc, ok := n.(*ast.Include); ok {
					if err := a.include(inc); err != nil {
						return err
					}
				}
			}
		}

		decls, err := a.declare(files)
		if err != nil {
			return err
		}
		for _, fn := range decls {
			if err := a.functionBody(fn); err != nil {
				return err
			}
		}

		for _, f := range files {
			if _, err := a.sequence(f.Instructions, f.Value, false); err != nil {
				return err
			}
		}
		return nil
	})
}

// inModule runs f with m's top-level frame as the current scope, restoring
// the previous state afterwards.
func (a *Analyzer) inModule(m *modules.Module, f func() error) error {
	module, scope, fn, loops, audit := a.module, a.scope, a.fn, a.loops, a.audit
	defer func() {
		a.module, a.scope, a.fn, a.loops, a.audit = module, scope, fn, loops, audit
	}()
	a.module, a.scope, a.fn, a.loops, a.audit = m, m.SymbolTable, nil, nil, 0
	return f()
}

func (a *Analyzer) pushScope(scopeType symbols.ScopeType) func() {
	outer := a.scope
	a.scope = symbols.NewEnclosedSymbolTable(outer, scopeType)
	return func() { a.scope = outer }
}

func (a *Analyzer) errorf(code diagnostics.ErrorCode, n ast.Node, format string, args ...interface{}) *diagnostics.DiagnosticError {
	return diagnostics.Errorf(code, n.GetToken(), format, args...).InFile(ast.LocationOf(n).File)
}

func (a *Analyzer) errorAt(code diagnostics.ErrorCode, tok token.Token, at ast.Node, format string, args ...interface{}) *diagnostics.DiagnosticError {
	return diagnostics.Errorf(code, tok, format, args...).InFile(ast.LocationOf(at).File)
}

func (a *Analyzer) record(n ast.Node, t typesystem.Type) typesystem.Type {
	a.info.Types[n] = t
	return t
}

func typeList(types []typesystem.Type) string {
	s := ""
	for i, t := range types {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return fmt.Sprintf("(%s)", s)
}

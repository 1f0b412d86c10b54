package analyzer

import (
	"fmt"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/symbols"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

// declare registers the type and function declarations of files into the
// current module. It returns the functions whose bodies must be elaborated
// now: every non-generic function, plus tests and mocks in test mode.
// Generic bodies are elaborated per instantiation.
func (a *Analyzer) declare(files []*ast.Program) ([]*symbols.Function, error) {
	var typeDecls []*ast.TypeDecl
	var funcDecls []*ast.FunctionDecl
	for _, f := range files {
		for _, n := range f.Instructions {
			switch d := n.(type) {
			case *ast.TypeDecl:
				typeDecls = append(typeDecls, d)
			case *ast.FunctionDecl:
				funcDecls = append(funcDecls, d)
			}
		}
	}

	// Pass 1: names, so fields and signatures may refer to any type of the unit
	for _, td := range typeDecls {
		if _, exists := a.scope.LocalType(td.Name); exists {
			return nil, a.errorf(diagnostics.ErrA003, td, "type %s is already declared in module %s", td.Name, a.module.Name)
		}
		a.scope.DefineType(&symbols.TypeDecl{Name: td.Name, Module: a.module.Name, ModuleKey: a.module.Key, Decl: td})
	}

	// Pass 2: fields and alias targets
	for _, td := range typeDecls {
		decl, _ := a.scope.LocalType(td.Name)
		if err := a.resolveTypeBody(decl); err != nil {
			return nil, err
		}
	}

	// Pass 3: signatures
	var pending []*symbols.Function
	addPending := func(fn *symbols.Function) {
		if fn.Body != nil && !fn.IsGeneric() {
			pending = append(pending, fn)
		}
	}

	for _, td := range typeDecls {
		decl, _ := a.scope.LocalType(td.Name)
		for _, md := range td.Methods {
			fn, err := a.signature(md, decl)
			if err != nil {
				return nil, err
			}
			if err := a.defineFunction(fn); err != nil {
				return nil, err
			}
			decl.Methods = append(decl.Methods, fn)
			addPending(fn)
		}
	}

	var mocks []*symbols.Function
	for _, fd := range funcDecls {
		fn, err := a.signature(fd, nil)
		if err != nil {
			return nil, err
		}
		switch fd.Flavor {
		case ast.FlavorTest:
			if !a.ctx.TestMode {
				continue
			}
			if len(fn.Params) > 0 || fn.IsGeneric() || !typesystem.IsVoid(fn.Return) {
				return nil, a.errorf(diagnostics.ErrA003, fd, "test %s must take no parameters and return nothing", fd.Name)
			}
			a.module.Tests = append(a.module.Tests, fn)
			pending = append(pending, fn)
		case ast.FlavorMock:
			if a.ctx.TestMode {
				mocks = append(mocks, fn)
			}
		default:
			if err := a.defineFunction(fn); err != nil {
				return nil, err
			}
			if fn.Receiver != nil {
				if decl := a.localDeclFor(fn.Receiver); decl != nil {
					decl.Methods = append(decl.Methods, fn)
				}
			}
			addPending(fn)
		}
	}

	// Pass 4: mocks replace the function they shadow, for this run only
	for _, mock := range mocks {
		if err := a.applyMock(mock); err != nil {
			return nil, err
		}
		addPending(mock)
	}

	return pending, nil
}

// defineFunction adds fn to the overload set of the current frame. A second
// declaration with the same signature in one module is rejected.
func (a *Analyzer) defineFunction(fn *symbols.Function) error {
	for _, prev := range a.scope.Functions(fn.Name) {
		if !prev.SameSignature(fn) {
			continue
		}
		loc := ast.LocationOf(prev.Decl)
		return a.errorf(diagnostics.ErrA003, fn.Decl, "%s is already declared in module %s", fn.Signature(), a.module.Name).
			WithNotes(fmt.Sprintf("previous declaration at %s:%d:%d", loc.File, loc.Line, loc.Column))
	}
	a.scope.DefineFunction(fn)
	return nil
}

// signature builds the symbol for a function declaration. owner is the
// type whose block declares it, if any.
func (a *Analyzer) signature(fd *ast.FunctionDecl, owner *symbols.TypeDecl) (*symbols.Function, error) {
	fn := &symbols.Function{
		Name:     fd.Name,
		Module:   a.module.Name,
		Generics: fd.Generics,
		Flavor:   fd.Flavor,
		Decl:     fd,
		Body:     fd.Body,
	}

	sc := symbols.NewEnclosedSymbolTable(a.scope, symbols.ScopeFunction)
	seen := make(map[string]bool, len(fd.Generics))
	for _, g := range fd.Generics {
		if seen[g] {
			return nil, a.errorf(diagnostics.ErrA003, fd, "duplicate type parameter %s in %s", g, fd.Name)
		}
		seen[g] = true
		sc.BindTypeVar(g, typesystem.TVar{Name: g})
	}

	params := fd.Params
	if fd.Receiver != nil {
		params = append([]*ast.Parameter{fd.Receiver}, params...)
	}
	names := make(map[string]bool, len(params))
	for _, p := range params {
		if names[p.Name] {
			return nil, a.errorAt(diagnostics.ErrA003, p.Token, fd, "duplicate parameter %s in %s", p.Name, fd.Name)
		}
		names[p.Name] = true
		t, err := a.resolveType(p.Type, sc, fd)
		if err != nil {
			return nil, err
		}
		if !typesystem.IsSomething(t) {
			return nil, a.errorAt(diagnostics.ErrA003, p.Token, fd, "parameter %s cannot have type %s", p.Name, t)
		}
		fn.Params = append(fn.Params, symbols.Param{Name: p.Name, Type: t})
	}

	ret, err := a.resolveType(fd.ReturnType, sc, fd)
	if err != nil {
		return nil, err
	}
	fn.Return = ret

	switch {
	case fd.Receiver != nil:
		fn.Receiver = fn.Params[0].Type
	case owner != nil && len(fn.Params) > 0 && typesystem.Equal(fn.Params[0].Type, owner.Type()):
		fn.Receiver = fn.Params[0].Type
	}

	if fd.Flavor == ast.FlavorExt && fd.Body != nil {
		return nil, a.errorf(diagnostics.ErrA003, fd, "ext func %s cannot have a body", fd.Name)
	}
	if fd.Flavor != ast.FlavorExt && fd.Body == nil {
		return nil, a.errorf(diagnostics.ErrA003, fd, "function %s has no body", fd.Name)
	}

	a.owners[fn] = a.module
	return fn, nil
}

// localDeclFor returns the type declared in the current module that t
// denotes, including aliases onto t.
func (a *Analyzer) localDeclFor(t typesystem.Type) *symbols.TypeDecl {
	for _, decl := range a.module.SymbolTable.TypeDecls() {
		if typesystem.Equal(decl.Type(), t) {
			return decl
		}
	}
	return nil
}

func (a *Analyzer) applyMock(mock *symbols.Function) error {
	tables := []*symbols.SymbolTable{a.module.SymbolTable}
	for _, dep := range a.module.ImportOrder {
		tables = append(tables, dep.SymbolTable)
	}
	if a.ctx.Builtin != nil && a.ctx.Builtin != a.module {
		tables = append(tables, a.ctx.Builtin.SymbolTable)
	}

	for _, table := range tables {
		for _, target := range table.Functions(mock.Name) {
			if !target.SameSignature(mock) {
				continue
			}
			table.ReplaceFunction(target, mock)
			mock.Receiver = target.Receiver
			a.ctx.Logger.Debug("mock installed", "function", target.Signature(), "module", a.module.Name)
			return nil
		}
	}
	return a.errorf(diagnostics.ErrA006, mock.Decl, "mock %s does not match any declared function", mock.Name)
}

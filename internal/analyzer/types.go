package analyzer

import (
	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/symbols"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

// resolveType converts an annotation into a type. A nil annotation is void.
// at locates errors.
func (a *Analyzer) resolveType(te *ast.TypeExpr, scope *symbols.SymbolTable, at ast.Node) (typesystem.Type, error) {
	if te == nil {
		return typesystem.Void, nil
	}
	if te.Resolved != nil {
		return te.Resolved, nil
	}

	if te.Func {
		params := make([]typesystem.Type, len(te.Params))
		for i, p := range te.Params {
			t, err := a.resolveType(p, scope, at)
			if err != nil {
				return nil, err
			}
			params[i] = t
		}
		ret, err := a.resolveType(te.Return, scope, at)
		if err != nil {
			return nil, err
		}
		return typesystem.TFunc{Params: params, ReturnType: ret}, nil
	}

	args := make([]typesystem.Type, len(te.Args))
	for i, arg := range te.Args {
		t, err := a.resolveType(arg, scope, at)
		if err != nil {
			return nil, err
		}
		if !typesystem.IsSomething(t) {
			return nil, a.errorAt(diagnostics.ErrA003, arg.Token, at, "%s cannot be used as a type argument", t)
		}
		args[i] = t
	}

	if te.Qualifier == "" {
		if tv, ok := scope.ResolveTypeVar(te.Name); ok {
			if len(args) > 0 {
				return nil, a.errorAt(diagnostics.ErrA003, te.Token, at, "type parameter %s takes no arguments", te.Name)
			}
			return tv, nil
		}
		switch te.Name {
		case typesystem.OptionName, typesystem.ArrayName:
			if len(args) != 1 {
				return nil, a.errorAt(diagnostics.ErrA003, te.Token, at, "%s expects 1 type argument, found %d", te.Name, len(args))
			}
			if te.Name == typesystem.OptionName {
				return typesystem.OptionOf(args[0]), nil
			}
			return typesystem.ArrayOf(args[0]), nil
		}
		if prim, ok := typesystem.Primitive(te.Name); ok {
			if len(args) > 0 {
				return nil, a.errorAt(diagnostics.ErrA003, te.Token, at, "type %s takes no arguments", te.Name)
			}
			return prim, nil
		}
	}

	decl, err := a.lookupTypeDecl(te.Qualifier, te.Name, scope, at, te)
	if err != nil {
		return nil, err
	}
	if decl == nil {
		name := te.Name
		if te.Qualifier != "" {
			name = te.Qualifier + "::" + name
		}
		return nil, a.errorAt(diagnostics.ErrA004, te.Token, at, "unknown type %s", name)
	}
	if len(args) > 0 {
		return nil, a.errorAt(diagnostics.ErrA003, te.Token, at, "type %s takes no arguments", te.Name)
	}
	if err := a.resolveTypeBody(decl); err != nil {
		return nil, err
	}
	return decl.Type(), nil
}

// lookupTypeDecl finds a declared type by optional module qualifier and
// name. The current scope wins over included modules; a name declared by
// several included modules is ambiguous.
func (a *Analyzer) lookupTypeDecl(qualifier, name string, scope *symbols.SymbolTable, at ast.Node, te *ast.TypeExpr) (*symbols.TypeDecl, error) {
	if qualifier != "" {
		table := a.moduleTable(qualifier)
		if table == nil {
			return nil, nil
		}
		decl, _ := table.LocalType(name)
		return decl, nil
	}

	if decl, ok := scope.ResolveType(name); ok {
		return decl, nil
	}
	var found []*symbols.TypeDecl
	for _, dep := range a.module.ImportOrder {
		if decl, ok := dep.SymbolTable.LocalType(name); ok {
			found = append(found, decl)
		}
	}
	if len(found) > 1 {
		notes := make([]string, len(found))
		for i, d := range found {
			notes[i] = "candidate: " + d.Module + "::" + d.Name
		}
		tok := at.GetToken()
		if te != nil {
			tok = te.Token
		}
		return nil, a.errorAt(diagnostics.ErrA005, tok, at, "type %s is declared by several included modules", name).WithNotes(notes...)
	}
	if len(found) == 1 {
		return found[0], nil
	}
	return nil, nil
}

// moduleTable returns the top-level frame reachable through qualifier from
// the current module.
func (a *Analyzer) moduleTable(qualifier string) *symbols.SymbolTable {
	if dep, ok := a.module.Imports[qualifier]; ok {
		return dep.SymbolTable
	}
	if qualifier == a.module.Name {
		return a.module.SymbolTable
	}
	if a.ctx.Builtin != nil && qualifier == a.ctx.Builtin.Name {
		return a.ctx.Builtin.SymbolTable
	}
	return nil
}

// resolveTypeBody fills in the fields or alias target of decl on first use.
func (a *Analyzer) resolveTypeBody(decl *symbols.TypeDecl) error {
	td := decl.Decl
	if td == nil || decl.Alias != nil || decl.Fields != nil {
		return nil
	}
	if td.Alias == nil && len(td.Fields) == 0 {
		a.records[typesystem.TCon{Name: decl.Name, Module: decl.ModuleKey}] = decl
		return nil
	}
	if a.resolving[decl] {
		if td.Alias != nil {
			return a.errorf(diagnostics.ErrA003, td, "type alias %s refers to itself", decl.Name)
		}
		// A record may refer to itself through its fields.
		return nil
	}
	a.resolving[decl] = true
	defer delete(a.resolving, decl)

	scope := a.module.SymbolTable

	if td.Alias != nil {
		t, err := a.resolveType(td.Alias, scope, td)
		if err != nil {
			return err
		}
		if !typesystem.IsSomething(t) {
			return a.errorf(diagnostics.ErrA003, td, "type %s cannot alias %s", decl.Name, t)
		}
		decl.Alias = t
		return nil
	}

	fields := make([]symbols.Param, 0, len(td.Fields))
	seen := make(map[string]bool, len(td.Fields))
	for _, f := range td.Fields {
		t, err := a.resolveType(f.Type, scope, td)
		if err != nil {
			return err
		}
		if !typesystem.IsSomething(t) {
			return a.errorAt(diagnostics.ErrA003, f.Token, td, "field %s cannot have type %s", f.Name, t)
		}
		if seen[f.Name] {
			return a.errorAt(diagnostics.ErrA003, f.Token, td, "duplicate field %s in type %s", f.Name, decl.Name)
		}
		seen[f.Name] = true
		fields = append(fields, symbols.Param{Name: f.Name, Type: t})
	}
	decl.Fields = fields
	a.records[typesystem.TCon{Name: decl.Name, Module: decl.ModuleKey}] = decl
	return nil
}

// recordDecl returns the record declaration for a user type.
func (a *Analyzer) recordDecl(t typesystem.Type) (*symbols.TypeDecl, bool) {
	con, ok := t.(typesystem.TCon)
	if !ok || con.Module == "" {
		return nil, false
	}
	decl, ok := a.records[con]
	return decl, ok
}

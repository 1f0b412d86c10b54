package analyzer

import (
	"errors"
	"fmt"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/program"
	"github.com/jinko-lang/jinko/internal/symbols"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

// Per-parameter compatibility, best first.
type paramMatch int

const (
	matchExact paramMatch = iota
	matchWrap
	matchGeneric
)

type failure int

const (
	failNone failure = iota
	failArity
	failType
	failInference // type parameter conflict or left unbound
)

type candidate struct {
	fn       *symbols.Function
	coerce   []bool
	typeArgs []typesystem.Type
	generic  int
	wraps    int
}

func (c *candidate) less(o *candidate) bool {
	if c.generic != o.generic {
		return c.generic < o.generic
	}
	return c.wraps < o.wraps
}

func (c *candidate) same(o *candidate) bool {
	return c.generic == o.generic && c.wraps == o.wraps
}

// call resolves a call expression to exactly one target and returns its
// result type.
func (a *Analyzer) call(c *ast.Call) (typesystem.Type, error) {
	args := c.Arguments()
	argTypes := make([]typesystem.Type, len(args))
	for i, arg := range args {
		t, err := a.expr(arg)
		if err != nil {
			return nil, err
		}
		if typesystem.IsVoid(t) {
			return nil, a.errorf(diagnostics.ErrA003, arg, "argument %d of %s has no value", i+1, c.Name)
		}
		argTypes[i] = t
	}

	explicit := make([]typesystem.Type, len(c.TypeArgs))
	for i, te := range c.TypeArgs {
		t, err := a.resolveType(te, a.scope, c)
		if err != nil {
			return nil, err
		}
		explicit[i] = t
	}

	if c.Qualifier != "" {
		return a.qualifiedCall(c, argTypes, explicit)
	}

	var shadowing []*symbols.Function
	if c.Receiver == nil {
		b := a.scope.Lookup(c.Name)
		if b.Variable != nil {
			return a.indirectCall(c, b.Variable, argTypes)
		}
		shadowing = b.Functions
	} else {
		// dot-sugar never calls variables
		shadowing = a.module.SymbolTable.Functions(c.Name)
	}

	pool := a.pool(c.Name, shadowing)
	if len(pool) == 0 {
		if decl, err := a.lookupTypeDecl("", c.Name, a.scope, c, nil); err != nil {
			return nil, err
		} else if decl != nil && c.Receiver == nil {
			return a.construct(c, decl, argTypes, explicit)
		}
		return nil, a.errorf(diagnostics.ErrA004, c, "unknown function %s", c.Name)
	}
	return a.dispatch(c, pool, argTypes, explicit)
}

// pool gathers the candidates for an unqualified name: the overload set of
// the innermost frame defining it, every included module's set and the
// builtin prelude.
func (a *Analyzer) pool(name string, local []*symbols.Function) []*symbols.Function {
	seen := make(map[*symbols.Function]bool)
	var out []*symbols.Function
	add := func(fns []*symbols.Function) {
		for _, fn := range fns {
			if !seen[fn] {
				seen[fn] = true
				out = append(out, fn)
			}
		}
	}
	add(local)
	for _, dep := range a.module.ImportOrder {
		add(dep.SymbolTable.Functions(name))
	}
	if a.ctx.Builtin != nil {
		add(a.ctx.Builtin.SymbolTable.Functions(name))
	}
	return out
}

// qualifiedCall handles `M::f(args)` for a module qualifier and
// `T::m(args)` for a type qualifier.
func (a *Analyzer) qualifiedCall(c *ast.Call, argTypes, explicit []typesystem.Type) (typesystem.Type, error) {
	if table := a.moduleTable(c.Qualifier); table != nil {
		if pool := table.Functions(c.Name); len(pool) > 0 {
			return a.dispatch(c, pool, argTypes, explicit)
		}
		if decl, ok := table.LocalType(c.Name); ok {
			if err := a.resolveTypeBody(decl); err != nil {
				return nil, err
			}
			return a.construct(c, decl, argTypes, explicit)
		}
		return nil, a.errorf(diagnostics.ErrA004, c, "unknown function %s::%s", c.Qualifier, c.Name)
	}

	decl, err := a.lookupTypeDecl("", c.Qualifier, a.scope, c, nil)
	if err != nil {
		return nil, err
	}
	if decl == nil {
		return nil, a.errorf(diagnostics.ErrA004, c, "unknown module or type %s", c.Qualifier)
	}
	pool := decl.MethodsNamed(c.Name)
	if len(pool) == 0 {
		return nil, a.errorf(diagnostics.ErrA004, c, "type %s has no method %s", decl.Name, c.Name)
	}
	return a.dispatch(c, pool, argTypes, explicit)
}

// dispatch picks one function of pool for the argument types.
func (a *Analyzer) dispatch(c *ast.Call, pool []*symbols.Function, argTypes, explicit []typesystem.Type) (typesystem.Type, error) {
	var survivors []*candidate
	var arity, inference int
	var inferErr error

	for _, fn := range pool {
		cand, fail, err := a.match(fn, argTypes, explicit)
		switch fail {
		case failNone:
			survivors = append(survivors, cand)
		case failArity:
			arity++
		case failInference:
			inference++
			if inferErr == nil {
				inferErr = err
			}
		}
	}

	if len(survivors) == 0 {
		switch {
		case arity == len(pool):
			if len(pool) == 1 {
				return nil, a.errorf(diagnostics.ErrA002, c, "%s expects %d arguments, found %d", c.Name, len(pool[0].Params), len(argTypes)).
					WithNotes(signatures(pool)...)
			}
			return nil, a.errorf(diagnostics.ErrA002, c, "no overload of %s takes %d arguments", c.Name, len(argTypes)).
				WithNotes(signatures(pool)...)
		case inference > 0 && inference+arity == len(pool):
			return nil, a.errorf(diagnostics.ErrA003, c, "in call to %s: %v", c.Name, inferErr).
				WithNotes(signatures(pool)...)
		}
		return nil, a.errorf(diagnostics.ErrA006, c, "no function %s matches argument types %s", c.Name, typeList(argTypes)).
			WithNotes(signatures(pool)...)
	}

	if c.Receiver != nil {
		survivors = preferMethods(survivors, argTypes)
	}

	best := []*candidate{survivors[0]}
	for _, cand := range survivors[1:] {
		switch {
		case cand.less(best[0]):
			best = []*candidate{cand}
		case cand.same(best[0]):
			best = append(best, cand)
		}
	}
	if len(best) > 1 {
		fns := make([]*symbols.Function, len(best))
		for i, b := range best {
			fns[i] = b.fn
		}
		return nil, a.errorf(diagnostics.ErrA005, c, "call to %s is ambiguous", c.Name).WithNotes(signatures(fns)...)
	}

	chosen := best[0]
	target := chosen.fn
	if target.IsGeneric() {
		inst, err := a.instantiate(target, chosen.typeArgs, c)
		if err != nil {
			return nil, err
		}
		target = inst
	}

	a.info.Calls[c] = &program.CallBinding{Kind: program.CallDirect, Target: target, Coerce: chosen.coerce}
	return target.Return, nil
}

// match checks fn against the argument types.
func (a *Analyzer) match(fn *symbols.Function, argTypes, explicit []typesystem.Type) (*candidate, failure, error) {
	if len(fn.Params) != len(argTypes) {
		return nil, failArity, nil
	}
	if len(explicit) > 0 && len(explicit) != len(fn.Generics) {
		return nil, failType, nil
	}

	subst := typesystem.Subst{}
	for i, t := range explicit {
		subst[fn.Generics[i]] = t
	}

	cand := &candidate{fn: fn, coerce: make([]bool, len(argTypes))}
	for i, p := range fn.Params {
		m, err := matchParam(p.Type, argTypes[i], subst)
		if err != nil {
			var conflict *typesystem.ConflictError
			if errors.As(err, &conflict) {
				return nil, failInference, err
			}
			return nil, failType, err
		}
		switch m {
		case matchWrap:
			cand.wraps++
			cand.coerce[i] = true
		case matchGeneric:
			cand.generic++
		}
	}

	if fn.IsGeneric() {
		args, err := typesystem.Resolve(fn.Generics, subst)
		if err != nil {
			return nil, failInference, err
		}
		cand.typeArgs = args
	}
	return cand, failNone, nil
}

// matchParam classifies how an argument of type arg fits param, binding the
// type parameters of param in subst.
func matchParam(param, arg typesystem.Type, subst typesystem.Subst) (paramMatch, error) {
	_, argIsOption := typesystem.OptionElem(arg)

	if len(param.FreeTypeVariables()) == 0 {
		if typesystem.Accepts(param, arg) {
			return matchExact, nil
		}
		if elem, ok := typesystem.OptionElem(param); ok && !argIsOption && typesystem.Accepts(elem, arg) {
			return matchWrap, nil
		}
		return 0, fmt.Errorf("expected %s, found %s", param, arg)
	}

	trial := copySubst(subst)
	err := typesystem.Match(param, arg, trial)
	if err == nil {
		commit(subst, trial)
		return matchGeneric, nil
	}
	var conflict *typesystem.ConflictError
	if errors.As(err, &conflict) {
		return 0, err
	}
	if elem, ok := typesystem.OptionElem(param); ok && !argIsOption {
		trial = copySubst(subst)
		if werr := typesystem.Match(elem, arg, trial); werr == nil {
			commit(subst, trial)
			return matchWrap, nil
		} else if errors.As(werr, &conflict) {
			return 0, werr
		}
	}
	return 0, err
}

// preferMethods keeps only the methods declared on the receiver's type when
// there are any among the survivors. Only dot calls name a receiver.
func preferMethods(survivors []*candidate, argTypes []typesystem.Type) []*candidate {
	if len(argTypes) == 0 {
		return survivors
	}
	var methods []*candidate
	for _, c := range survivors {
		if c.fn.Receiver == nil {
			continue
		}
		if typesystem.Match(c.fn.Receiver, argTypes[0], typesystem.Subst{}) == nil {
			methods = append(methods, c)
		}
	}
	if len(methods) == 0 || len(methods) == len(survivors) {
		return survivors
	}
	return methods
}

func copySubst(s typesystem.Subst) typesystem.Subst {
	out := make(typesystem.Subst, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func commit(dst, src typesystem.Subst) {
	for k, v := range src {
		dst[k] = v
	}
}

// indirectCall calls the function value held by a variable.
func (a *Analyzer) indirectCall(c *ast.Call, v *symbols.Variable, argTypes []typesystem.Type) (typesystem.Type, error) {
	ft, ok := v.Type.(typesystem.TFunc)
	if !ok {
		return nil, a.errorf(diagnostics.ErrA003, c, "%s is a variable of type %s, not a function", c.Name, v.Type)
	}
	if len(c.TypeArgs) > 0 {
		return nil, a.errorf(diagnostics.ErrA003, c, "function value %s takes no type arguments", c.Name)
	}
	if len(ft.Params) != len(argTypes) {
		return nil, a.errorf(diagnostics.ErrA002, c, "%s expects %d arguments, found %d", c.Name, len(ft.Params), len(argTypes))
	}
	coerce := make([]bool, len(argTypes))
	for i, p := range ft.Params {
		m, err := matchParam(p, argTypes[i], typesystem.Subst{})
		if err != nil || m == matchGeneric {
			return nil, a.errorf(diagnostics.ErrA003, c.Args[i], "argument %d of %s: expected %s, found %s", i+1, c.Name, p, argTypes[i])
		}
		coerce[i] = m == matchWrap
	}
	a.info.Calls[c] = &program.CallBinding{Kind: program.CallIndirect, Coerce: coerce}
	return ft.ReturnType, nil
}

// construct builds an instance of a record type, or converts to an alias.
func (a *Analyzer) construct(c *ast.Call, decl *symbols.TypeDecl, argTypes, explicit []typesystem.Type) (typesystem.Type, error) {
	if len(explicit) > 0 {
		return nil, a.errorf(diagnostics.ErrA003, c, "type %s takes no type arguments", decl.Name)
	}

	if decl.IsAlias() {
		if len(argTypes) != 1 {
			return nil, a.errorf(diagnostics.ErrA002, c, "%s expects 1 argument, found %d", decl.Name, len(argTypes))
		}
		if !typesystem.Accepts(decl.Alias, argTypes[0]) {
			return nil, a.errorf(diagnostics.ErrA003, c, "%s wraps %s, found %s", decl.Name, decl.Alias, argTypes[0])
		}
		a.info.Calls[c] = &program.CallBinding{Kind: program.CallAlias, Type: decl, Coerce: make([]bool, 1)}
		return decl.Alias, nil
	}

	if len(decl.Fields) != len(argTypes) {
		return nil, a.errorf(diagnostics.ErrA002, c, "%s has %d fields, found %d arguments", decl.Name, len(decl.Fields), len(argTypes))
	}
	coerce := make([]bool, len(argTypes))
	for i, f := range decl.Fields {
		m, err := matchParam(f.Type, argTypes[i], typesystem.Subst{})
		if err != nil {
			return nil, a.errorf(diagnostics.ErrA003, c.Args[i], "field %s of %s: %v", f.Name, decl.Name, err)
		}
		coerce[i] = m == matchWrap
	}
	a.info.Calls[c] = &program.CallBinding{Kind: program.CallConstruct, Type: decl, Coerce: coerce}
	return decl.Type(), nil
}

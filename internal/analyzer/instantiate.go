package analyzer

import (
	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/symbols"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

// instantiate returns the monomorphized copy of generic for args, creating
// and elaborating it on first use. The instance is cached before its body is
// elaborated so that recursive calls resolve to it.
func (a *Analyzer) instantiate(generic *symbols.Function, args []typesystem.Type, at *ast.Call) (*symbols.Function, error) {
	if inst, ok := a.ctx.Instances.Lookup(generic, args); ok {
		return inst, nil
	}
	if a.instDepth >= maxInstantiationDepth {
		return nil, a.errorf(diagnostics.ErrA003, at, "instantiation of %s is nested too deeply", generic.Signature())
	}

	subst := make(typesystem.Subst, len(args))
	for i, name := range generic.Generics {
		subst[name] = args[i]
	}

	inst := &symbols.Function{
		Name:     generic.Name,
		Module:   generic.Module,
		Return:   generic.Return.Apply(subst),
		Flavor:   generic.Flavor,
		Decl:     generic.Decl,
		Origin:   generic,
		TypeArgs: args,
	}
	for _, p := range generic.Params {
		inst.Params = append(inst.Params, symbols.Param{Name: p.Name, Type: p.Type.Apply(subst)})
	}
	if generic.Receiver != nil {
		inst.Receiver = generic.Receiver.Apply(subst)
	}
	if generic.Body != nil {
		inst.Body = ast.CloneBlock(generic.Body, typeParamRewriter(subst))
	}

	inst = a.ctx.Instances.Store(inst)
	if owner, ok := a.owners[generic]; ok {
		a.owners[inst] = owner
	}
	a.ctx.Logger.Debug("instantiated generic function", "generic", generic.Signature(), "instance", inst.Signature())

	if inst.Body == nil {
		return inst, nil
	}
	a.instDepth++
	defer func() { a.instDepth-- }()
	if err := a.functionBody(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// typeParamRewriter replaces annotations naming a type parameter by the
// concrete type bound to it.
func typeParamRewriter(subst typesystem.Subst) ast.TypeRewriter {
	return func(te *ast.TypeExpr) *ast.TypeExpr {
		if te.Func || te.Qualifier != "" || len(te.Args) > 0 || te.Resolved != nil {
			return nil
		}
		if t, ok := subst[te.Name]; ok {
			return ast.ResolvedTypeExpr(te.Token, t)
		}
		return nil
	}
}

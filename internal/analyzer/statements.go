package analyzer

import (
	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/config"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/program"
	"github.com/jinko-lang/jinko/internal/symbols"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

// sequence types an instruction list and its trailing value. Every
// instruction but the trailing one must not produce a value, unless
// audited.
func (a *Analyzer) sequence(instructions []ast.Node, value ast.Expression, audit bool) (typesystem.Type, error) {
	if audit {
		a.audit++
		defer func() { a.audit-- }()
	}

	diverges := false
	for _, n := range instructions {
		t, err := a.instruction(n)
		if err != nil {
			return nil, err
		}
		if typesystem.IsNever(t) {
			diverges = true
		}
		if typesystem.IsSomething(t) && a.audit == 0 {
			return nil, a.errorf(diagnostics.ErrA001, n, "value of type %s is never used", t)
		}
	}

	if value != nil {
		return a.expr(value)
	}
	if diverges {
		return typesystem.Never, nil
	}
	return typesystem.Void, nil
}

func (a *Analyzer) instruction(n ast.Node) (typesystem.Type, error) {
	switch n := n.(type) {
	case *ast.FunctionDecl, *ast.TypeDecl, *ast.Include:
		// handled by the declaration phases
		return typesystem.Void, nil
	case *ast.Assignment:
		return a.assignment(n)
	case *ast.Return:
		return a.returnStatement(n)
	case *ast.Break:
		if len(a.loops) == 0 {
			return nil, a.errorf(diagnostics.ErrA007, n, "break outside of a loop")
		}
		a.loops[len(a.loops)-1].broken = true
		return a.record(n, typesystem.Never), nil
	case *ast.Continue:
		if len(a.loops) == 0 {
			return nil, a.errorf(diagnostics.ErrA007, n, "continue outside of a loop")
		}
		return a.record(n, typesystem.Never), nil
	case *ast.Loop:
		return a.loop(n)
	case *ast.Directive:
		return a.directive(n)
	case ast.Expression:
		return a.expr(n)
	}
	return nil, a.errorf(diagnostics.ErrA003, n, "unexpected instruction %T", n)
}

func (a *Analyzer) assignment(n *ast.Assignment) (typesystem.Type, error) {
	t, err := a.expr(n.Value)
	if err != nil {
		return nil, err
	}
	if typesystem.IsVoid(t) {
		return nil, a.errorf(diagnostics.ErrA003, n.Value, "cannot assign a value of type void to %s", n.Name)
	}

	if v, ok := a.scope.LookupVariable(n.Name); ok && !n.Mutable {
		a.info.Assigns[n] = program.AssignUpdate
		// Updating an immutable binding fails when it runs.
		if v.Mutable && !typesystem.IsNever(t) {
			switch {
			case typesystem.Accepts(v.Type, t):
			case typesystem.Accepts(t, v.Type):
				v.Type = t
			default:
				return nil, a.errorf(diagnostics.ErrA003, n, "cannot assign a value of type %s to %s of type %s", t, n.Name, v.Type)
			}
		}
		return a.record(n, typesystem.Void), nil
	}

	a.info.Assigns[n] = program.AssignDeclare
	a.scope.DefineVariable(&symbols.Variable{Name: n.Name, Type: t, Mutable: n.Mutable})
	return a.record(n, typesystem.Void), nil
}

func (a *Analyzer) returnStatement(n *ast.Return) (typesystem.Type, error) {
	if a.fn == nil {
		return nil, a.errorf(diagnostics.ErrA007, n, "return outside of a function")
	}
	want := a.fn.Return
	if n.Value == nil {
		if !typesystem.IsVoid(want) {
			return nil, a.errorf(diagnostics.ErrA003, n, "%s must return a value of type %s", a.fn.Name, want)
		}
		return a.record(n, typesystem.Never), nil
	}

	t, err := a.expr(n.Value)
	if err != nil {
		return nil, err
	}
	if typesystem.IsVoid(want) {
		if typesystem.IsSomething(t) {
			return nil, a.errorf(diagnostics.ErrA003, n.Value, "%s returns nothing, found a value of type %s", a.fn.Name, t)
		}
	} else if !typesystem.Accepts(want, t) {
		return nil, a.errorf(diagnostics.ErrA003, n.Value, "%s returns %s, found %s", a.fn.Name, want, t)
	}
	return a.record(n, typesystem.Never), nil
}

func (a *Analyzer) loop(n *ast.Loop) (typesystem.Type, error) {
	defer a.pushScope(symbols.ScopeBlock)()

	switch n.Loop {
	case ast.LoopWhile:
		t, err := a.expr(n.Cond)
		if err != nil {
			return nil, err
		}
		if !typesystem.Accepts(typesystem.Bool, t) {
			return nil, a.errorf(diagnostics.ErrA003, n.Cond, "while condition must be bool, found %s", t)
		}
	case ast.LoopFor:
		t, err := a.expr(n.Cond)
		if err != nil {
			return nil, err
		}
		var elem typesystem.Type
		if e, ok := typesystem.ArrayElem(t); ok {
			elem = e
		} else if typesystem.Equal(t, typesystem.String) {
			elem = typesystem.Char
		} else {
			return nil, a.errorf(diagnostics.ErrA003, n.Cond, "cannot iterate over a value of type %s", t)
		}
		a.scope.DefineVariable(&symbols.Variable{Name: n.Var, Type: elem})
	}

	state := &loopState{}
	a.loops = append(a.loops, state)
	body, err := a.expr(n.Body)
	a.loops = a.loops[:len(a.loops)-1]
	if err != nil {
		return nil, err
	}
	if typesystem.IsSomething(body) && a.audit == 0 {
		return nil, a.errorf(diagnostics.ErrA001, n.Body.Value, "value of type %s is never used", body)
	}

	if n.Loop == ast.LoopForever && !state.broken {
		return a.record(n, typesystem.Never), nil
	}
	return a.record(n, typesystem.Void), nil
}

func (a *Analyzer) directive(n *ast.Directive) (typesystem.Type, error) {
	switch n.Name {
	case config.DumpDirective:
		if len(n.Args) != 0 {
			return nil, a.errorf(diagnostics.ErrA002, n, "@%s expects no arguments, found %d", n.Name, len(n.Args))
		}
		return a.record(n, typesystem.Void), nil
	case config.QuitDirective:
		if len(n.Args) > 1 {
			return nil, a.errorf(diagnostics.ErrA002, n, "@%s expects at most 1 argument, found %d", n.Name, len(n.Args))
		}
		for _, arg := range n.Args {
			t, err := a.expr(arg)
			if err != nil {
				return nil, err
			}
			if !typesystem.Accepts(typesystem.Int, t) {
				return nil, a.errorf(diagnostics.ErrA003, arg, "@%s expects an int exit code, found %s", n.Name, t)
			}
		}
		return a.record(n, typesystem.Never), nil
	}
	return nil, a.errorf(diagnostics.ErrA004, n, "unknown directive @%s", n.Name)
}

// functionBody elaborates fn's body in the frame of its declaring module.
func (a *Analyzer) functionBody(fn *symbols.Function) error {
	owner, ok := a.owners[fn]
	if !ok {
		owner = a.module
	}
	return a.inModule(owner, func() error {
		a.fn = fn
		defer a.pushScope(symbols.ScopeFunction)()
		for _, p := range fn.Params {
			a.scope.DefineVariable(&symbols.Variable{Name: p.Name, Type: p.Type})
		}

		body, err := a.expr(fn.Body)
		if err != nil {
			return err
		}

		switch {
		case typesystem.IsNever(body):
		case typesystem.IsVoid(fn.Return):
			if typesystem.IsSomething(body) && a.audit == 0 {
				return a.errorf(diagnostics.ErrA001, fn.Body.Value, "value of type %s is never used: %s returns nothing", body, fn.Name)
			}
		case fn.Body.Value == nil:
			return a.errorf(diagnostics.ErrA003, fn.Body, "%s must return a value of type %s", fn.Name, fn.Return)
		case !typesystem.Accepts(fn.Return, body):
			return a.errorf(diagnostics.ErrA003, fn.Body.Value, "%s returns %s, found %s", fn.Name, fn.Return, body)
		}
		return nil
	})
}

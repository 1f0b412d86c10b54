package analyzer

import (
	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/symbols"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

// expr types an expression and records the result.
func (a *Analyzer) expr(e ast.Expression) (typesystem.Type, error) {
	var t typesystem.Type
	var err error

	switch e := e.(type) {
	case *ast.Literal:
		t, err = a.literal(e)
	case *ast.NoneLiteral:
		t = typesystem.OptionOf(typesystem.TUnknown{})
	case *ast.ArrayLiteral:
		t, err = a.arrayLiteral(e)
	case *ast.BinaryOp:
		t, err = a.binary(e)
	case *ast.UnaryOp:
		t, err = a.unary(e)
	case *ast.If:
		t, err = a.ifExpression(e)
	case *ast.Block:
		t, err = a.block(e)
	case *ast.Identifier:
		t, err = a.identifier(e)
	case *ast.FieldAccess:
		t, err = a.fieldAccess(e)
	case *ast.Call:
		t, err = a.call(e)
	default:
		return nil, a.errorf(diagnostics.ErrA003, e, "unexpected expression %T", e)
	}
	if err != nil {
		return nil, err
	}
	return a.record(e, t), nil
}

func (a *Analyzer) literal(l *ast.Literal) (typesystem.Type, error) {
	switch l.Value.(type) {
	case int64:
		return typesystem.Int, nil
	case float64:
		return typesystem.Float, nil
	case bool:
		return typesystem.Bool, nil
	case string:
		return typesystem.String, nil
	case rune:
		return typesystem.Char, nil
	}
	return nil, a.errorf(diagnostics.ErrA003, l, "unsupported literal %v", l.Value)
}

func (a *Analyzer) arrayLiteral(arr *ast.ArrayLiteral) (typesystem.Type, error) {
	var elem typesystem.Type = typesystem.TUnknown{}
	for i, e := range arr.Elements {
		t, err := a.expr(e)
		if err != nil {
			return nil, err
		}
		if !typesystem.IsSomething(t) {
			return nil, a.errorf(diagnostics.ErrA003, e, "array element has no value")
		}
		if i == 0 {
			elem = t
			continue
		}
		joined, ok := typesystem.Join(elem, t)
		if !ok {
			return nil, a.errorf(diagnostics.ErrA003, e, "array element of type %s in an array of %s", t, elem)
		}
		elem = joined
	}
	return typesystem.ArrayOf(elem), nil
}

func (a *Analyzer) binary(b *ast.BinaryOp) (typesystem.Type, error) {
	left, err := a.expr(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := a.expr(b.Right)
	if err != nil {
		return nil, err
	}

	mismatch := func() error {
		return a.errorf(diagnostics.ErrA003, b, "operator %s cannot be applied to %s and %s", b.Operator, left, right)
	}

	switch b.Operator {
	case "&&", "||":
		if !typesystem.Accepts(typesystem.Bool, left) || !typesystem.Accepts(typesystem.Bool, right) {
			return nil, mismatch()
		}
		return typesystem.Bool, nil

	case "==", "!=":
		if !typesystem.IsSomething(left) && !typesystem.IsSomething(right) {
			return nil, mismatch()
		}
		if _, ok := typesystem.Join(left, right); !ok {
			return nil, mismatch()
		}
		return typesystem.Bool, nil

	case "<", "<=", ">", ">=":
		for _, t := range []typesystem.Type{typesystem.Int, typesystem.Float, typesystem.Char, typesystem.String} {
			if typesystem.Accepts(t, left) && typesystem.Accepts(t, right) {
				return typesystem.Bool, nil
			}
		}
		return nil, mismatch()

	case "+", "-", "*", "/", "%":
		if b.Operator == "+" && typesystem.Accepts(typesystem.String, left) && typesystem.Accepts(typesystem.String, right) {
			return typesystem.String, nil
		}
		for _, t := range []typesystem.Type{typesystem.Int, typesystem.Float} {
			if b.Operator == "%" && t == typesystem.Float {
				break
			}
			if typesystem.Accepts(t, left) && typesystem.Accepts(t, right) {
				return t, nil
			}
		}
		return nil, mismatch()
	}
	return nil, a.errorf(diagnostics.ErrA003, b, "unknown operator %s", b.Operator)
}

func (a *Analyzer) unary(u *ast.UnaryOp) (typesystem.Type, error) {
	t, err := a.expr(u.Operand)
	if err != nil {
		return nil, err
	}
	switch u.Operator {
	case "!":
		if typesystem.Accepts(typesystem.Bool, t) {
			return typesystem.Bool, nil
		}
	case "-":
		if typesystem.IsNumeric(t) {
			return t, nil
		}
	}
	return nil, a.errorf(diagnostics.ErrA003, u, "operator %s cannot be applied to %s", u.Operator, t)
}

func (a *Analyzer) ifExpression(n *ast.If) (typesystem.Type, error) {
	cond, err := a.expr(n.Condition)
	if err != nil {
		return nil, err
	}
	if !typesystem.Accepts(typesystem.Bool, cond) {
		return nil, a.errorf(diagnostics.ErrA003, n.Condition, "if condition must be bool, found %s", cond)
	}

	then, err := a.expr(n.Then)
	if err != nil {
		return nil, err
	}
	if n.Else == nil {
		if typesystem.IsSomething(then) && a.audit == 0 {
			return nil, a.errorf(diagnostics.ErrA001, n.Then.Value, "value of type %s is never used: if without else produces nothing", then)
		}
		return typesystem.Void, nil
	}

	other, err := a.expr(n.Else)
	if err != nil {
		return nil, err
	}
	if typesystem.IsNever(then) && typesystem.IsNever(other) {
		return typesystem.Never, nil
	}
	joined, ok := typesystem.Join(then, other)
	if !ok {
		return nil, a.errorf(diagnostics.ErrA003, n, "if branches have incompatible types %s and %s", then, other)
	}
	return joined, nil
}

func (a *Analyzer) block(b *ast.Block) (typesystem.Type, error) {
	defer a.pushScope(symbols.ScopeBlock)()
	return a.sequence(b.Instructions, b.Value, b.Audit)
}

// identifier types a variable read or a function used as a value.
func (a *Analyzer) identifier(id *ast.Identifier) (typesystem.Type, error) {
	if id.Qualifier != "" {
		table := a.moduleTable(id.Qualifier)
		if table == nil {
			return nil, a.errorf(diagnostics.ErrA004, id, "unknown module %s", id.Qualifier)
		}
		if v, ok := table.Variable(id.Name); ok && !a.scope.InFunction() {
			if dep, ok := a.module.Imports[id.Qualifier]; ok {
				a.info.Globals[id] = dep
			}
			return v.Type, nil
		}
		return a.functionRef(id, table.Functions(id.Name))
	}

	b := a.scope.Lookup(id.Name)
	if b.Variable != nil {
		return b.Variable.Type, nil
	}

	if !a.scope.InFunction() {
		var owners []string
		var found *symbols.Variable
		for _, dep := range a.module.ImportOrder {
			if v, ok := dep.SymbolTable.Variable(id.Name); ok {
				if found == nil {
					found = v
					a.info.Globals[id] = dep
				}
				owners = append(owners, dep.Name+"::"+id.Name)
			}
		}
		if len(owners) > 1 {
			delete(a.info.Globals, id)
			return nil, a.errorf(diagnostics.ErrA005, id, "%s is declared by several included modules", id.Name).WithNotes(owners...)
		}
		if found != nil {
			return found.Type, nil
		}
	}

	return a.functionRef(id, a.pool(id.Name, b.Functions))
}

// functionRef types a function name used as a value. Only a single,
// non-generic function can be referenced.
func (a *Analyzer) functionRef(id *ast.Identifier, fns []*symbols.Function) (typesystem.Type, error) {
	switch {
	case len(fns) == 0:
		return nil, a.errorf(diagnostics.ErrA004, id, "unknown identifier %s", qualifiedName(id.Qualifier, id.Name))
	case len(fns) > 1:
		return nil, a.errorf(diagnostics.ErrA005, id, "%s names several functions", id.Name).WithNotes(signatures(fns)...)
	case fns[0].IsGeneric():
		return nil, a.errorf(diagnostics.ErrA003, id, "generic function %s cannot be used as a value", fns[0].Signature())
	}
	a.info.Refs[id] = fns[0]
	return fns[0].Type(), nil
}

func (a *Analyzer) fieldAccess(f *ast.FieldAccess) (typesystem.Type, error) {
	t, err := a.expr(f.Object)
	if err != nil {
		return nil, err
	}
	decl, ok := a.recordDecl(t)
	if !ok {
		return nil, a.errorf(diagnostics.ErrA003, f, "value of type %s has no fields", t)
	}
	i, field, ok := decl.Field(f.Field)
	if !ok {
		return nil, a.errorf(diagnostics.ErrA004, f, "type %s has no field %s", decl.Name, f.Field)
	}
	a.info.Fields[f] = i
	return field.Type, nil
}

func qualifiedName(qualifier, name string) string {
	if qualifier == "" {
		return name
	}
	return qualifier + "::" + name
}

func signatures(fns []*symbols.Function) []string {
	out := make([]string, len(fns))
	for i, fn := range fns {
		out[i] = "candidate: " + fn.Signature()
	}
	return out
}

package evaluator

import (
	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/diagnostics"
)

func (e *Evaluator) evalLiteral(l *ast.Literal) Object {
	switch v := l.Value.(type) {
	case int64:
		return &Integer{Value: v}
	case float64:
		return &Float{Value: v}
	case bool:
		return nativeBool(v)
	case string:
		return &String{Value: v}
	case rune:
		return &Char{Value: v}
	}
	return newError(diagnostics.ErrR006, "unsupported literal %v", l.Value)
}

func (e *Evaluator) evalIf(n *ast.If, env *Environment) Object {
	cond := e.Eval(n.Condition, env)
	if unwinds(cond) {
		return cond
	}
	b, ok := cond.(*Boolean)
	if !ok {
		return newError(diagnostics.ErrR006, "if condition is not a bool: %s", cond.Inspect())
	}
	if b.Value {
		res := e.Eval(n.Then, env)
		if n.Else == nil && !unwinds(res) {
			return UNIT
		}
		return res
	}
	if n.Else != nil {
		return e.Eval(n.Else, env)
	}
	return UNIT
}

func (e *Evaluator) evalUnary(u *ast.UnaryOp, env *Environment) Object {
	operand := e.Eval(u.Operand, env)
	if unwinds(operand) {
		return operand
	}
	switch u.Operator {
	case "!":
		if b, ok := operand.(*Boolean); ok {
			return nativeBool(!b.Value)
		}
	case "-":
		switch o := operand.(type) {
		case *Integer:
			return &Integer{Value: -o.Value}
		case *Float:
			return &Float{Value: -o.Value}
		}
	}
	return newError(diagnostics.ErrR006, "operator %s cannot be applied to %s", u.Operator, operand.Inspect())
}

func (e *Evaluator) evalBinary(b *ast.BinaryOp, env *Environment) Object {
	left := e.Eval(b.Left, env)
	if unwinds(left) {
		return left
	}

	switch b.Operator {
	case "&&", "||":
		l, ok := left.(*Boolean)
		if !ok {
			return newError(diagnostics.ErrR006, "operator %s expects bool operands", b.Operator)
		}
		if (b.Operator == "&&" && !l.Value) || (b.Operator == "||" && l.Value) {
			return l
		}
		right := e.Eval(b.Right, env)
		if unwinds(right) {
			return right
		}
		if _, ok := right.(*Boolean); !ok {
			return newError(diagnostics.ErrR006, "operator %s expects bool operands", b.Operator)
		}
		return right
	}

	right := e.Eval(b.Right, env)
	if unwinds(right) {
		return right
	}
	return applyOperator(b.Operator, left, right)
}

func applyOperator(op string, left, right Object) Object {
	switch op {
	case "==":
		return nativeBool(ObjectsEqual(left, right))
	case "!=":
		return nativeBool(!ObjectsEqual(left, right))
	}

	switch l := left.(type) {
	case *Integer:
		if r, ok := right.(*Integer); ok {
			return integerOperator(op, l.Value, r.Value)
		}
	case *Float:
		if r, ok := right.(*Float); ok {
			return floatOperator(op, l.Value, r.Value)
		}
	case *String:
		if r, ok := right.(*String); ok {
			if op == "+" {
				return &String{Value: l.Value + r.Value}
			}
			if res, ok := compare(op, l.Value, r.Value); ok {
				return res
			}
		}
	case *Char:
		if r, ok := right.(*Char); ok {
			if res, ok := compare(op, l.Value, r.Value); ok {
				return res
			}
		}
	}
	return newError(diagnostics.ErrR006, "operator %s cannot be applied to %s and %s", op, left.Inspect(), right.Inspect())
}

func integerOperator(op string, l, r int64) Object {
	switch op {
	case "+":
		return &Integer{Value: l + r}
	case "-":
		return &Integer{Value: l - r}
	case "*":
		return &Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newError(diagnostics.ErrR002, "division by zero")
		}
		return &Integer{Value: l / r}
	case "%":
		if r == 0 {
			return newError(diagnostics.ErrR002, "division by zero")
		}
		return &Integer{Value: l % r}
	}
	if res, ok := compare(op, l, r); ok {
		return res
	}
	return newError(diagnostics.ErrR006, "unknown integer operator %s", op)
}

func floatOperator(op string, l, r float64) Object {
	switch op {
	case "+":
		return &Float{Value: l + r}
	case "-":
		return &Float{Value: l - r}
	case "*":
		return &Float{Value: l * r}
	case "/":
		if r == 0 {
			return newError(diagnostics.ErrR002, "division by zero")
		}
		return &Float{Value: l / r}
	case "%":
		return newError(diagnostics.ErrR006, "operator %% is not defined on floats")
	}
	if res, ok := compare(op, l, r); ok {
		return res
	}
	return newError(diagnostics.ErrR006, "unknown float operator %s", op)
}

type ordered interface {
	~int64 | ~float64 | ~string | ~rune
}

func compare[T ordered](op string, l, r T) (Object, bool) {
	switch op {
	case "<":
		return nativeBool(l < r), true
	case "<=":
		return nativeBool(l <= r), true
	case ">":
		return nativeBool(l > r), true
	case ">=":
		return nativeBool(l >= r), true
	}
	return nil, false
}

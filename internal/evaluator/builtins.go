package evaluator

import (
	"fmt"
	"math"

	"github.com/jinko-lang/jinko/internal/diagnostics"
)

// Builtin is the native implementation of an `ext func`. Overloads sharing
// a name share one implementation switching on the argument values.
type Builtin struct {
	Name string
	Fn   func(e *Evaluator, args ...Object) Object
}

// Builtins returns the natives backing the prelude.
func Builtins() map[string]*Builtin {
	list := []*Builtin{
		{Name: "print", Fn: builtinPrint},
		{Name: "println", Fn: builtinPrintln},
		{Name: "to_string", Fn: builtinToString},
		{Name: "assert", Fn: builtinAssert},
		{Name: "assert_eq", Fn: builtinAssertEq},
		{Name: "Some", Fn: builtinSome},
		{Name: "unwrap", Fn: builtinUnwrap},
		{Name: "unwrap_or", Fn: builtinUnwrapOr},
		{Name: "is_some", Fn: builtinIsSome},
		{Name: "is_none", Fn: builtinIsNone},
		{Name: "len", Fn: builtinLen},
		{Name: "get", Fn: builtinGet},
		{Name: "push", Fn: builtinPush},
		{Name: "range", Fn: builtinRange},
		{Name: "to_int", Fn: builtinToInt},
		{Name: "to_float", Fn: builtinToFloat},
	}
	out := make(map[string]*Builtin, len(list))
	for _, b := range list {
		out[b.Name] = b
	}
	return out
}

func arityError(name string, want int, args []Object) *Error {
	return newError(diagnostics.ErrR006, "%s expects %d arguments, got %d", name, want, len(args))
}

func builtinPrint(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("print", 1, args)
	}
	fmt.Fprint(e.Out, Display(args[0]))
	return UNIT
}

func builtinPrintln(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("println", 1, args)
	}
	fmt.Fprintln(e.Out, Display(args[0]))
	return UNIT
}

func builtinToString(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("to_string", 1, args)
	}
	return &String{Value: Display(args[0])}
}

func builtinAssert(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("assert", 1, args)
	}
	b, ok := args[0].(*Boolean)
	if !ok {
		return newError(diagnostics.ErrR006, "assert expects a bool, got %s", args[0].Inspect())
	}
	if !b.Value {
		return newError(diagnostics.ErrR005, "assertion failed")
	}
	return UNIT
}

func builtinAssertEq(e *Evaluator, args ...Object) Object {
	if len(args) != 2 {
		return arityError("assert_eq", 2, args)
	}
	if !ObjectsEqual(args[0], args[1]) {
		return newError(diagnostics.ErrR005, "assertion failed: left %s, right %s", args[0].Inspect(), args[1].Inspect())
	}
	return UNIT
}

func builtinSome(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("Some", 1, args)
	}
	return &Option{Value: args[0]}
}

func optionArg(name string, obj Object) (*Option, *Error) {
	opt, ok := obj.(*Option)
	if !ok {
		return nil, newError(diagnostics.ErrR006, "%s expects an Option, got %s", name, obj.Inspect())
	}
	return opt, nil
}

func builtinUnwrap(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("unwrap", 1, args)
	}
	opt, err := optionArg("unwrap", args[0])
	if err != nil {
		return err
	}
	if !opt.IsSome() {
		return newError(diagnostics.ErrR001, "unwrap called on None")
	}
	return opt.Value
}

func builtinUnwrapOr(e *Evaluator, args ...Object) Object {
	if len(args) != 2 {
		return arityError("unwrap_or", 2, args)
	}
	opt, err := optionArg("unwrap_or", args[0])
	if err != nil {
		return err
	}
	if !opt.IsSome() {
		return args[1]
	}
	return opt.Value
}

func builtinIsSome(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("is_some", 1, args)
	}
	opt, err := optionArg("is_some", args[0])
	if err != nil {
		return err
	}
	return nativeBool(opt.IsSome())
}

func builtinIsNone(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("is_none", 1, args)
	}
	opt, err := optionArg("is_none", args[0])
	if err != nil {
		return err
	}
	return nativeBool(!opt.IsSome())
}

func builtinLen(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("len", 1, args)
	}
	switch v := args[0].(type) {
	case *String:
		return &Integer{Value: int64(len([]rune(v.Value)))}
	case *Array:
		return &Integer{Value: int64(len(v.Elements))}
	}
	return newError(diagnostics.ErrR006, "len expects a string or an array, got %s", args[0].Inspect())
}

func builtinGet(e *Evaluator, args ...Object) Object {
	if len(args) != 2 {
		return arityError("get", 2, args)
	}
	arr, ok1 := args[0].(*Array)
	idx, ok2 := args[1].(*Integer)
	if !ok1 || !ok2 {
		return newError(diagnostics.ErrR006, "get expects an array and an int")
	}
	if idx.Value < 0 || idx.Value >= int64(len(arr.Elements)) {
		return NONE
	}
	return &Option{Value: arr.Elements[idx.Value]}
}

func builtinPush(e *Evaluator, args ...Object) Object {
	if len(args) != 2 {
		return arityError("push", 2, args)
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return newError(diagnostics.ErrR006, "push expects an array, got %s", args[0].Inspect())
	}
	arr.Elements = append(arr.Elements, args[1])
	return UNIT
}

func builtinRange(e *Evaluator, args ...Object) Object {
	if len(args) != 2 {
		return arityError("range", 2, args)
	}
	from, ok1 := args[0].(*Integer)
	to, ok2 := args[1].(*Integer)
	if !ok1 || !ok2 {
		return newError(diagnostics.ErrR006, "range expects two ints")
	}
	arr := &Array{}
	for i := from.Value; i < to.Value; i++ {
		arr.Elements = append(arr.Elements, &Integer{Value: i})
	}
	return arr
}

func builtinToInt(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("to_int", 1, args)
	}
	switch v := args[0].(type) {
	case *Float:
		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) || v.Value >= math.MaxInt64 || v.Value < math.MinInt64 {
			return newError(diagnostics.ErrR006, "cannot convert %s to int", v.Inspect())
		}
		return &Integer{Value: int64(v.Value)}
	case *Char:
		return &Integer{Value: int64(v.Value)}
	}
	return newError(diagnostics.ErrR006, "to_int expects a float or a char, got %s", args[0].Inspect())
}

func builtinToFloat(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return arityError("to_float", 1, args)
	}
	i, ok := args[0].(*Integer)
	if !ok {
		return newError(diagnostics.ErrR006, "to_float expects an int, got %s", args[0].Inspect())
	}
	return &Float{Value: float64(i.Value)}
}

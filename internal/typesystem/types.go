package typesystem

import (
	"sort"
	"strings"
)

// Type is the interface for all static types of jinko values.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// Subst maps type variable names to types.
type Subst map[string]Type

// TVar is a generic type parameter (e.g. T in func id[T](x: T) -> T).
type TVar struct {
	Name string
}

func (t TVar) String() string { return t.Name }

func (t TVar) Apply(s Subst) Type {
	if replacement, ok := s[t.Name]; ok {
		if tv, ok := replacement.(TVar); ok && tv.Name == t.Name {
			return t
		}
		return replacement
	}
	return t
}

func (t TVar) FreeTypeVariables() []TVar { return []TVar{t} }

// TCon is a type constant: a primitive or a user declared type.
// Module is the key of the declaring module, empty for primitives.
type TCon struct {
	Name   string
	Module string
}

func (t TCon) String() string { return t.Name }

func (t TCon) Apply(s Subst) Type { return t }

func (t TCon) FreeTypeVariables() []TVar { return nil }

// TApp is a type constructor applied to arguments, e.g. Option[int].
type TApp struct {
	Constructor TCon
	Args        []Type
}

func (t TApp) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Constructor.String() + "[" + strings.Join(args, ", ") + "]"
}

func (t TApp) Apply(s Subst) Type {
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Apply(s)
	}
	return TApp{Constructor: t.Constructor, Args: args}
}

func (t TApp) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, a := range t.Args {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TFunc is the type of a function value.
type TFunc struct {
	Params     []Type
	ReturnType Type
}

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return "func(" + strings.Join(params, ", ") + ") -> " + t.ReturnType.String()
}

func (t TFunc) Apply(s Subst) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Apply(s)
	}
	return TFunc{Params: params, ReturnType: t.ReturnType.Apply(s)}
}

func (t TFunc) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// TUnknown stands for a component not fixed by the expression itself,
// such as the element of `[]` or the payload of `None`.
type TUnknown struct{}

func (TUnknown) String() string             { return "?" }
func (t TUnknown) Apply(Subst) Type         { return t }
func (TUnknown) FreeTypeVariables() []TVar { return nil }

const (
	IntName    = "int"
	FloatName  = "float"
	BoolName   = "bool"
	StringName = "string"
	CharName   = "char"
	VoidName   = "void"
	NeverName  = "never"
	OptionName = "Option"
	ArrayName  = "Array"
)

var (
	Int    = TCon{Name: IntName}
	Float  = TCon{Name: FloatName}
	Bool   = TCon{Name: BoolName}
	String = TCon{Name: StringName}
	Char   = TCon{Name: CharName}
	Void   = TCon{Name: VoidName}
	// Never is the type of instructions that do not complete (return, break).
	Never = TCon{Name: NeverName}
)

var primitives = map[string]TCon{
	IntName:    Int,
	FloatName:  Float,
	BoolName:   Bool,
	StringName: String,
	CharName:   Char,
	VoidName:   Void,
}

// Primitive returns the builtin type constant named name.
func Primitive(name string) (TCon, bool) {
	t, ok := primitives[name]
	return t, ok
}

func OptionOf(t Type) TApp {
	return TApp{Constructor: TCon{Name: OptionName}, Args: []Type{t}}
}

func ArrayOf(t Type) TApp {
	return TApp{Constructor: TCon{Name: ArrayName}, Args: []Type{t}}
}

// OptionElem returns T for Option[T].
func OptionElem(t Type) (Type, bool) {
	if app, ok := t.(TApp); ok && app.Constructor.Name == OptionName && app.Constructor.Module == "" && len(app.Args) == 1 {
		return app.Args[0], true
	}
	return nil, false
}

// ArrayElem returns T for Array[T].
func ArrayElem(t Type) (Type, bool) {
	if app, ok := t.(TApp); ok && app.Constructor.Name == ArrayName && app.Constructor.Module == "" && len(app.Args) == 1 {
		return app.Args[0], true
	}
	return nil, false
}

func IsVoid(t Type) bool {
	c, ok := t.(TCon)
	return ok && c == Void
}

func IsNever(t Type) bool {
	c, ok := t.(TCon)
	return ok && c == Never
}

// IsSomething reports whether a value of type t must be consumed.
func IsSomething(t Type) bool {
	return t != nil && !IsVoid(t) && !IsNever(t)
}

func IsNumeric(t Type) bool {
	return Equal(t, Int) || Equal(t, Float)
}

// Equal is structural type identity.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case TVar:
		y, ok := b.(TVar)
		return ok && x.Name == y.Name
	case TCon:
		y, ok := b.(TCon)
		return ok && x == y
	case TApp:
		y, ok := b.(TApp)
		if !ok || x.Constructor != y.Constructor || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case TFunc:
		y, ok := b.(TFunc)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return Equal(x.ReturnType, y.ReturnType)
	case TUnknown:
		_, ok := b.(TUnknown)
		return ok
	}
	return false
}

// Accepts reports whether a value of type actual may be used where expected
// is required without any coercion. Unknown components of actual (from `None`
// or `[]`) are accepted by any corresponding component, and Never is
// accepted everywhere.
func Accepts(expected, actual Type) bool {
	if IsNever(actual) {
		return true
	}
	if _, ok := actual.(TUnknown); ok {
		return true
	}
	switch x := expected.(type) {
	case TApp:
		y, ok := actual.(TApp)
		if !ok || x.Constructor != y.Constructor || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Accepts(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case TFunc:
		y, ok := actual.(TFunc)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return Accepts(x.ReturnType, y.ReturnType)
	}
	return Equal(expected, actual)
}

// Join returns the type both a and b can be used as, for if/else branches
// and array elements. ok is false when they are incompatible.
func Join(a, b Type) (Type, bool) {
	switch {
	case IsNever(a):
		return b, true
	case IsNever(b):
		return a, true
	case Accepts(a, b):
		if IsComplete(a) || !IsComplete(b) {
			return a, true
		}
		return b, true
	case Accepts(b, a):
		return b, true
	}
	return nil, false
}

// IsComplete reports whether t contains no unknown components.
func IsComplete(t Type) bool {
	switch x := t.(type) {
	case TUnknown:
		return false
	case TApp:
		for _, a := range x.Args {
			if !IsComplete(a) {
				return false
			}
		}
	case TFunc:
		for _, p := range x.Params {
			if !IsComplete(p) {
				return false
			}
		}
		return IsComplete(x.ReturnType)
	}
	return true
}

func uniqueTVars(vars []TVar) []TVar {
	if len(vars) < 2 {
		return vars
	}
	seen := make(map[string]bool, len(vars))
	out := vars[:0:0]
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	return out
}

// Key renders a list of types for instantiation cache keys.
func Key(types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = qualified(t)
	}
	return strings.Join(parts, ",")
}

// qualified is String with user types prefixed by their module, so two
// modules declaring the same type name produce distinct keys.
func qualified(t Type) string {
	switch x := t.(type) {
	case TCon:
		if x.Module != "" {
			return x.Module + "::" + x.Name
		}
		return x.Name
	case TApp:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = qualified(a)
		}
		return qualified(x.Constructor) + "[" + strings.Join(args, ",") + "]"
	case TFunc:
		params := make([]string, len(x.Params))
		for i, p := range x.Params {
			params[i] = qualified(p)
		}
		return "func(" + strings.Join(params, ",") + ")->" + qualified(x.ReturnType)
	}
	return t.String()
}

// SortedKeys returns the substitution's variable names in order.
func (s Subst) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

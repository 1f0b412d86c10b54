package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jinko-lang/jinko/internal/symbols"
)

type ObjectType string

const (
	UNIT_OBJ            = "UNIT"
	INTEGER_OBJ         = "INTEGER"
	FLOAT_OBJ           = "FLOAT"
	BOOLEAN_OBJ         = "BOOLEAN"
	STRING_OBJ          = "STRING"
	CHAR_OBJ            = "CHAR"
	OPTION_OBJ          = "OPTION"
	ARRAY_OBJ           = "ARRAY"
	FUNCTION_OBJ        = "FUNCTION"
	INSTANCE_OBJ        = "INSTANCE"
	ERROR_OBJ           = "ERROR"
	RETURN_VALUE_OBJ    = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ = "CONTINUE_SIGNAL"
	QUIT_OBJ            = "QUIT"
)

// Object is a runtime value or a control signal.
type Object interface {
	Type() ObjectType
	Inspect() string
}

var (
	UNIT  = &Unit{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NONE  = &Option{}
)

func nativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// Unit is the value of void instructions.
type Unit struct{}

func (u *Unit) Type() ObjectType { return UNIT_OBJ }
func (u *Unit) Inspect() string  { return "()" }

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string {
	s := strconv.FormatFloat(f.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return strconv.Quote(s.Value) }

type Char struct {
	Value rune
}

func (c *Char) Type() ObjectType { return CHAR_OBJ }
func (c *Char) Inspect() string  { return strconv.QuoteRune(c.Value) }

// Option is Some(Value), or None when Value is nil.
type Option struct {
	Value Object
}

func (o *Option) Type() ObjectType { return OPTION_OBJ }
func (o *Option) Inspect() string {
	if o.Value == nil {
		return "None"
	}
	return "Some(" + o.Value.Inspect() + ")"
}

func (o *Option) IsSome() bool { return o.Value != nil }

// Array is shared by reference: push is visible through every binding.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FunctionRef is a function used as a value.
type FunctionRef struct {
	Fn *symbols.Function
}

func (f *FunctionRef) Type() ObjectType { return FUNCTION_OBJ }
func (f *FunctionRef) Inspect() string  { return "func " + f.Fn.Signature() }

// Instance is a value of a record type.
type Instance struct {
	Decl   *symbols.TypeDecl
	Fields []Object
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string {
	parts := make([]string, len(i.Fields))
	for n, f := range i.Fields {
		parts[n] = fmt.Sprintf("%s: %s", i.Decl.Fields[n].Name, f.Inspect())
	}
	return i.Decl.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Display renders a value the way print shows it: strings and chars
// without quotes.
func Display(obj Object) string {
	switch o := obj.(type) {
	case *String:
		return o.Value
	case *Char:
		return string(o.Value)
	}
	return obj.Inspect()
}

// ObjectsEqual is structural equality of values.
func ObjectsEqual(a, b Object) bool {
	switch x := a.(type) {
	case *Unit:
		_, ok := b.(*Unit)
		return ok
	case *Integer:
		y, ok := b.(*Integer)
		return ok && x.Value == y.Value
	case *Float:
		y, ok := b.(*Float)
		return ok && x.Value == y.Value
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *Char:
		y, ok := b.(*Char)
		return ok && x.Value == y.Value
	case *Option:
		y, ok := b.(*Option)
		if !ok || x.IsSome() != y.IsSome() {
			return false
		}
		return !x.IsSome() || ObjectsEqual(x.Value, y.Value)
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !ObjectsEqual(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *FunctionRef:
		y, ok := b.(*FunctionRef)
		return ok && x.Fn == y.Fn
	case *Instance:
		y, ok := b.(*Instance)
		if !ok || x.Decl != y.Decl {
			return false
		}
		for i := range x.Fields {
			if !ObjectsEqual(x.Fields[i], y.Fields[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// ExitCode converts the final value of a program to a process exit code.
func ExitCode(obj Object) int {
	switch o := obj.(type) {
	case *Integer:
		return int(o.Value)
	case *Boolean:
		if o.Value {
			return 1
		}
		return 0
	case *Char:
		return int(o.Value)
	case *Float:
		return int(o.Value)
	}
	return 0
}

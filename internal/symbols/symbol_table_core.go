package symbols

import (
	"fmt"
	"strings"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

type ScopeType int

const (
	ScopeGlobal   ScopeType = iota // module top level
	ScopeFunction                  // function body; outer variables are invisible
	ScopeBlock
)

// Variable is a static binding.
type Variable struct {
	Name    string
	Type    typesystem.Type
	Mutable bool
	// Module is set for bindings in a module's top-level frame.
	Module string
}

type Param struct {
	Name string
	Type typesystem.Type
}

// Function is a function declaration registered in an overload set.
type Function struct {
	Name     string
	Module   string
	Params   []Param
	Generics []string
	Return   typesystem.Type
	// Receiver is set for methods declared in a type block or with an
	// explicit receiver. It equals the type of the first parameter.
	Receiver typesystem.Type
	Flavor   ast.FunctionFlavor
	Decl     *ast.FunctionDecl
	Body     *ast.Block

	// Origin and TypeArgs are set on monomorphized instances.
	Origin   *Function
	TypeArgs []typesystem.Type
}

func (f *Function) QualifiedName() string {
	return f.Module + "::" + f.Name
}

func (f *Function) IsGeneric() bool {
	return len(f.Generics) > 0
}

func (f *Function) IsMethod() bool {
	return f.Receiver != nil
}

func (f *Function) IsNative() bool {
	return f.Flavor == ast.FlavorExt
}

// Type is the function value type of f.
func (f *Function) Type() typesystem.TFunc {
	params := make([]typesystem.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return typesystem.TFunc{Params: params, ReturnType: f.Return}
}

// Signature renders f as `module::name[T](int, T) -> T`.
func (f *Function) Signature() string {
	var sb strings.Builder
	sb.WriteString(f.QualifiedName())
	if len(f.TypeArgs) > 0 {
		args := make([]string, len(f.TypeArgs))
		for i, a := range f.TypeArgs {
			args[i] = a.String()
		}
		fmt.Fprintf(&sb, "[%s]", strings.Join(args, ", "))
	} else if len(f.Generics) > 0 {
		fmt.Fprintf(&sb, "[%s]", strings.Join(f.Generics, ", "))
	}
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type.String()
	}
	fmt.Fprintf(&sb, "(%s) -> %s", strings.Join(params, ", "), f.Return)
	return sb.String()
}

// SameSignature reports whether g declares the same parameter and return
// types as f.
func (f *Function) SameSignature(g *Function) bool {
	if len(f.Params) != len(g.Params) || len(f.Generics) != len(g.Generics) {
		return false
	}
	for i := range f.Params {
		if !typesystem.Equal(f.Params[i].Type, g.Params[i].Type) {
			return false
		}
	}
	return typesystem.Equal(f.Return, g.Return)
}

// TypeDecl is a declared record type or alias.
type TypeDecl struct {
	Name   string
	Module string
	Fields  []Param
	Methods []*Function
	// Alias is the target of `type X as target`. X is then a synonym of
	// the target and its methods are extension methods on it.
	Alias typesystem.Type
	Decl  *ast.TypeDecl

	// ModuleKey is the unique key of the declaring module.
	ModuleKey string
}

// Type is the static type denoted by the declaration's name.
func (t *TypeDecl) Type() typesystem.Type {
	if t.Alias != nil {
		return t.Alias
	}
	return typesystem.TCon{Name: t.Name, Module: t.ModuleKey}
}

func (t *TypeDecl) IsAlias() bool {
	return t.Alias != nil
}

// Field returns the position and declaration of a field.
func (t *TypeDecl) Field(name string) (int, Param, bool) {
	for i, f := range t.Fields {
		if f.Name == name {
			return i, f, true
		}
	}
	return -1, Param{}, false
}

// MethodsNamed returns the methods of t called name.
func (t *TypeDecl) MethodsNamed(name string) []*Function {
	var out []*Function
	for _, m := range t.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

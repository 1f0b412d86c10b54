package ast

import (
	"strings"

	"github.com/jinko-lang/jinko/internal/token"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

// TypeExpr is a type annotation as written in source.
// int, Option[T], geo::Point, func(int, int) -> bool
type TypeExpr struct {
	Token     token.Token
	Qualifier string
	Name      string
	Args      []*TypeExpr
	Func      bool
	Params    []*TypeExpr // func types only
	Return    *TypeExpr   // func types only, nil for void
	// Resolved is set when the annotation was produced from a known type,
	// e.g. when a generic body is monomorphized.
	Resolved typesystem.Type
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "void"
	}
	if t.Resolved != nil {
		return t.Resolved.String()
	}
	if t.Func {
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		return "func(" + strings.Join(params, ", ") + ") -> " + t.Return.String()
	}
	name := t.Name
	if t.Qualifier != "" {
		name = t.Qualifier + "::" + name
	}
	if len(t.Args) == 0 {
		return name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return name + "[" + strings.Join(args, ", ") + "]"
}

// ResolvedTypeExpr wraps an already known type as an annotation.
func ResolvedTypeExpr(tok token.Token, t typesystem.Type) *TypeExpr {
	return &TypeExpr{Token: tok, Name: t.String(), Resolved: t}
}

package ast

import (
	"github.com/jinko-lang/jinko/internal/token"
)

// Assignment declares a binding or updates an existing one.
// [mut] x = value
type Assignment struct {
	Span
	Name    string
	Mutable bool
	Value   Expression
}

func (a *Assignment) Kind() Kind      { return KindStatement }
func (a *Assignment) statementNode() {}

// FunctionFlavor distinguishes the declaration forms sharing FunctionDecl.
type FunctionFlavor int

const (
	FlavorFunc FunctionFlavor = iota
	FlavorTest
	FlavorMock
	FlavorExt
)

func (f FunctionFlavor) String() string {
	switch f {
	case FlavorTest:
		return "test"
	case FlavorMock:
		return "mock"
	case FlavorExt:
		return "ext func"
	}
	return "func"
}

type Parameter struct {
	Token token.Token
	Name  string
	Type  *TypeExpr
}

// FunctionDecl represents a function definition.
// func name[T](a: T) -> T { body }
// func (self: Point) name() -> int { body }
// test name() { body }
// mock name(a: int) -> int { body }
// ext func name(a: int) -> int;
type FunctionDecl struct {
	Span
	Flavor     FunctionFlavor
	Name       string
	Generics   []string
	Receiver   *Parameter // explicit receiver form
	Params     []*Parameter
	ReturnType *TypeExpr // nil for void
	Body       *Block    // nil for ext
}

func (fd *FunctionDecl) Kind() Kind      { return KindStatement }
func (fd *FunctionDecl) statementNode() {}

// TypeDecl declares a record type or an alias onto an existing type.
// type Point(x: int, y: int) { func ... }
// type Meters as int { func ... }
type TypeDecl struct {
	Span
	Name    string
	Fields  []*Parameter
	Alias   *TypeExpr
	Methods []*FunctionDecl
}

func (td *TypeDecl) Kind() Kind      { return KindStatement }
func (td *TypeDecl) statementNode() {}

// Include loads another module.
// incl path/to/name [as alias]
type Include struct {
	Span
	Path  []string
	Alias string
}

func (i *Include) Kind() Kind      { return KindStatement }
func (i *Include) statementNode() {}

// Qualifier is the name calls use to reach the included module.
func (i *Include) Qualifier() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Path[len(i.Path)-1]
}

type Return struct {
	Span
	Value Expression // nil for a bare return
}

func (r *Return) Kind() Kind      { return KindStatement }
func (r *Return) statementNode() {}

type Break struct {
	Span
}

func (b *Break) Kind() Kind      { return KindStatement }
func (b *Break) statementNode() {}

type Continue struct {
	Span
}

func (c *Continue) Kind() Kind      { return KindStatement }
func (c *Continue) statementNode() {}

type LoopKind int

const (
	LoopForever LoopKind = iota
	LoopWhile
	LoopFor
)

// Loop covers `loop {}`, `while cond {}` and `for x in iter {}`.
type Loop struct {
	Span
	Loop LoopKind
	Var  string     // for loops only
	Cond Expression // while condition or for iterable
	Body *Block
}

func (l *Loop) Kind() Kind      { return KindStatement }
func (l *Loop) statementNode() {}

// Directive is an interpreter directive such as @dump() or @quit(3).
type Directive struct {
	Span
	Name string
	Args []Expression
}

func (d *Directive) Kind() Kind      { return KindStatement }
func (d *Directive) statementNode() {}

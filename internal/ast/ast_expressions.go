package ast

// Call covers the three call forms.
// f(args)            bare
// M::f(args)         qualified by module or type
// recv.f(args)       dot-sugar
// f[int](args)       explicit type arguments
type Call struct {
	Span
	Name      string
	Qualifier string
	Receiver  Expression
	TypeArgs  []*TypeExpr
	Args      []Expression
}

func (c *Call) Kind() Kind       { return KindExpression }
func (c *Call) expressionNode() {}

// Arguments returns the receiver, if any, followed by the explicit arguments.
func (c *Call) Arguments() []Expression {
	if c.Receiver == nil {
		return c.Args
	}
	args := make([]Expression, 0, len(c.Args)+1)
	args = append(args, c.Receiver)
	return append(args, c.Args...)
}

// Literal holds an int64, float64, bool, string or rune.
type Literal struct {
	Span
	Value interface{}
}

func (l *Literal) Kind() Kind       { return KindExpression }
func (l *Literal) expressionNode() {}

type NoneLiteral struct {
	Span
}

func (n *NoneLiteral) Kind() Kind       { return KindExpression }
func (n *NoneLiteral) expressionNode() {}

type ArrayLiteral struct {
	Span
	Elements []Expression
}

func (a *ArrayLiteral) Kind() Kind       { return KindExpression }
func (a *ArrayLiteral) expressionNode() {}

type BinaryOp struct {
	Span
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryOp) Kind() Kind       { return KindExpression }
func (b *BinaryOp) expressionNode() {}

type UnaryOp struct {
	Span
	Operator string
	Operand  Expression
}

func (u *UnaryOp) Kind() Kind       { return KindExpression }
func (u *UnaryOp) expressionNode() {}

// If is an expression; without an else branch it is void.
type If struct {
	Span
	Condition Expression
	Then      *Block
	Else      Expression // *Block or *If, nil when absent
}

func (i *If) Kind() Kind       { return KindExpression }
func (i *If) expressionNode() {}

// Block is a braced instruction sequence. Value is the trailing expression
// not terminated by `;`.
type Block struct {
	Span
	Instructions []Node
	Value        Expression
	Audit        bool // audit { } suspends the discarded value check
}

func (b *Block) Kind() Kind       { return KindExpression }
func (b *Block) expressionNode() {}

// All returns the instructions followed by the trailing value.
func (b *Block) All() []Node {
	if b.Value == nil {
		return b.Instructions
	}
	return append(b.Instructions[:len(b.Instructions):len(b.Instructions)], b.Value)
}

// Identifier references a variable or a function, optionally qualified
// by a module name (M::x).
type Identifier struct {
	Span
	Qualifier string
	Name      string
}

func (i *Identifier) Kind() Kind       { return KindExpression }
func (i *Identifier) expressionNode() {}

// FieldAccess reads a field of a type instance: p.x
type FieldAccess struct {
	Span
	Object Expression
	Field  string
}

func (f *FieldAccess) Kind() Kind       { return KindExpression }
func (f *FieldAccess) expressionNode() {}

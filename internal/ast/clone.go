package ast

import "fmt"

// TypeRewriter returns a replacement for a type annotation, or nil to keep
// (a copy of) the original.
type TypeRewriter func(*TypeExpr) *TypeExpr

// CloneBlock deep-copies a block. Every type annotation inside it is passed
// through rewrite.
func CloneBlock(b *Block, rewrite TypeRewriter) *Block {
	if b == nil {
		return nil
	}
	c := &cloner{rewrite: rewrite}
	return c.block(b)
}

// CloneType deep-copies a type annotation through rewrite.
func CloneType(t *TypeExpr, rewrite TypeRewriter) *TypeExpr {
	c := &cloner{rewrite: rewrite}
	return c.typ(t)
}

type cloner struct {
	rewrite TypeRewriter
}

func (c *cloner) typ(t *TypeExpr) *TypeExpr {
	if t == nil {
		return nil
	}
	if c.rewrite != nil {
		if r := c.rewrite(t); r != nil {
			return r
		}
	}
	out := *t
	out.Args = c.types(t.Args)
	out.Params = c.types(t.Params)
	out.Return = c.typ(t.Return)
	return &out
}

func (c *cloner) types(ts []*TypeExpr) []*TypeExpr {
	if ts == nil {
		return nil
	}
	out := make([]*TypeExpr, len(ts))
	for i, t := range ts {
		out[i] = c.typ(t)
	}
	return out
}

func (c *cloner) params(ps []*Parameter) []*Parameter {
	if ps == nil {
		return nil
	}
	out := make([]*Parameter, len(ps))
	for i, p := range ps {
		out[i] = c.param(p)
	}
	return out
}

func (c *cloner) param(p *Parameter) *Parameter {
	if p == nil {
		return nil
	}
	return &Parameter{Token: p.Token, Name: p.Name, Type: c.typ(p.Type)}
}

func (c *cloner) block(b *Block) *Block {
	if b == nil {
		return nil
	}
	out := &Block{Span: b.Span, Audit: b.Audit}
	out.Instructions = make([]Node, len(b.Instructions))
	for i, n := range b.Instructions {
		out.Instructions[i] = c.node(n)
	}
	out.Value = c.expr(b.Value)
	return out
}

func (c *cloner) exprs(es []Expression) []Expression {
	if es == nil {
		return nil
	}
	out := make([]Expression, len(es))
	for i, e := range es {
		out[i] = c.expr(e)
	}
	return out
}

func (c *cloner) expr(e Expression) Expression {
	if e == nil {
		return nil
	}
	return c.node(e).(Expression)
}

func (c *cloner) node(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *Assignment:
		return &Assignment{Span: n.Span, Name: n.Name, Mutable: n.Mutable, Value: c.expr(n.Value)}
	case *FunctionDecl:
		return &FunctionDecl{
			Span:       n.Span,
			Flavor:     n.Flavor,
			Name:       n.Name,
			Generics:   append([]string(nil), n.Generics...),
			Receiver:   c.param(n.Receiver),
			Params:     c.params(n.Params),
			ReturnType: c.typ(n.ReturnType),
			Body:       c.block(n.Body),
		}
	case *TypeDecl:
		out := &TypeDecl{Span: n.Span, Name: n.Name, Fields: c.params(n.Fields), Alias: c.typ(n.Alias)}
		for _, m := range n.Methods {
			out.Methods = append(out.Methods, c.node(m).(*FunctionDecl))
		}
		return out
	case *Include:
		return &Include{Span: n.Span, Path: append([]string(nil), n.Path...), Alias: n.Alias}
	case *Return:
		return &Return{Span: n.Span, Value: c.expr(n.Value)}
	case *Break:
		return &Break{Span: n.Span}
	case *Continue:
		return &Continue{Span: n.Span}
	case *Loop:
		return &Loop{Span: n.Span, Loop: n.Loop, Var: n.Var, Cond: c.expr(n.Cond), Body: c.block(n.Body)}
	case *Directive:
		return &Directive{Span: n.Span, Name: n.Name, Args: c.exprs(n.Args)}
	case *Call:
		return &Call{
			Span:      n.Span,
			Name:      n.Name,
			Qualifier: n.Qualifier,
			Receiver:  c.expr(n.Receiver),
			TypeArgs:  c.types(n.TypeArgs),
			Args:      c.exprs(n.Args),
		}
	case *Literal:
		return &Literal{Span: n.Span, Value: n.Value}
	case *NoneLiteral:
		return &NoneLiteral{Span: n.Span}
	case *ArrayLiteral:
		return &ArrayLiteral{Span: n.Span, Elements: c.exprs(n.Elements)}
	case *BinaryOp:
		return &BinaryOp{Span: n.Span, Operator: n.Operator, Left: c.expr(n.Left), Right: c.expr(n.Right)}
	case *UnaryOp:
		return &UnaryOp{Span: n.Span, Operator: n.Operator, Operand: c.expr(n.Operand)}
	case *If:
		return &If{Span: n.Span, Condition: c.expr(n.Condition), Then: c.block(n.Then), Else: c.expr(n.Else)}
	case *Block:
		return c.block(n)
	case *Identifier:
		return &Identifier{Span: n.Span, Qualifier: n.Qualifier, Name: n.Name}
	case *FieldAccess:
		return &FieldAccess{Span: n.Span, Object: c.expr(n.Object), Field: n.Field}
	}
	panic(fmt.Sprintf("ast: cannot clone %T", n))
}

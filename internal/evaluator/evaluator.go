// Package evaluator walks elaborated jinko instructions. Every call, field
// access and include has been resolved by the analyzer; the evaluator only
// reads those bindings from program.Info.
package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/modules"
	"github.com/jinko-lang/jinko/internal/program"
	"github.com/jinko-lang/jinko/internal/symbols"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

type Evaluator struct {
	ctx  *program.Context
	info *program.Info
	Out  io.Writer

	globals  map[*modules.Module]*Environment
	executed map[*modules.Module]bool
	natives  map[string]*Builtin
	depth    int
}

func New(ctx *program.Context, out io.Writer) *Evaluator {
	if out == nil {
		out = os.Stdout
	}
	e := &Evaluator{
		ctx:      ctx,
		info:     ctx.Info,
		Out:      out,
		globals:  make(map[*modules.Module]*Environment),
		executed: make(map[*modules.Module]bool),
		natives:  make(map[string]*Builtin),
	}
	for name, b := range Builtins() {
		e.natives[name] = b
	}
	return e
}

// RegisterNative binds an `ext func` name to a Go implementation.
func (e *Evaluator) RegisterNative(b *Builtin) {
	e.natives[b.Name] = b
}

// GlobalEnv returns the top-level frame of m.
func (e *Evaluator) GlobalEnv(m *modules.Module) *Environment {
	env, ok := e.globals[m]
	if !ok {
		env = NewEnvironment()
		e.globals[m] = env
	}
	return env
}

// RunModule executes the top-level instructions of m once and returns the
// value of the trailing expression of its last file.
func (e *Evaluator) RunModule(m *modules.Module) Object {
	if e.executed[m] {
		return UNIT
	}
	e.executed[m] = true

	env := e.GlobalEnv(m)
	var result Object = UNIT
	for _, f := range m.Files {
		result = e.EvalProgram(f, env)
		if unwinds(result) {
			return result
		}
	}
	return result
}

// EvalProgram runs the includes of p first, then its other instructions in
// order, matching the order of elaboration.
func (e *Evaluator) EvalProgram(p *ast.Program, env *Environment) Object {
	for _, n := range p.Instructions {
		if inc, ok := n.(*ast.Include); ok {
			if res := e.evalInclude(inc); unwinds(res) {
				return res
			}
		}
	}
	for _, n := range p.Instructions {
		if _, ok := n.(*ast.Include); ok {
			continue
		}
		if res := e.Eval(n, env); unwinds(res) {
			return res
		}
	}
	if p.Value != nil {
		return e.Eval(p.Value, env)
	}
	return UNIT
}

func (e *Evaluator) evalInclude(inc *ast.Include) Object {
	dep, ok := e.info.Includes[inc]
	if !ok {
		return newError(diagnostics.ErrR006, "include %s was not resolved", inc.Qualifier())
	}
	res := e.RunModule(dep)
	if aborts(res) {
		return res
	}
	// the trailing value of an included module is ignored
	return UNIT
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	obj := e.evalCore(node, env)
	if err, ok := obj.(*Error); ok && err.Line == 0 {
		loc := ast.LocationOf(node)
		err.File, err.Line, err.Column = loc.File, loc.Line, loc.Column
	}
	return obj
}

func (e *Evaluator) evalCore(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	// Statements
	case *ast.Assignment:
		return e.evalAssignment(node, env)
	case *ast.FunctionDecl, *ast.TypeDecl:
		return UNIT
	case *ast.Include:
		return e.evalInclude(node)
	case *ast.Return:
		if node.Value == nil {
			return &ReturnValue{Value: UNIT}
		}
		val := e.Eval(node.Value, env)
		if unwinds(val) {
			return val
		}
		return &ReturnValue{Value: val}
	case *ast.Break:
		return &BreakSignal{}
	case *ast.Continue:
		return &ContinueSignal{}
	case *ast.Loop:
		return e.evalLoop(node, env)
	case *ast.Directive:
		return e.evalDirective(node, env)

	// Expressions
	case *ast.Literal:
		return e.evalLiteral(node)
	case *ast.NoneLiteral:
		return NONE
	case *ast.ArrayLiteral:
		elements, errObj := e.evalExpressions(node.Elements, nil, env)
		if errObj != nil {
			return errObj
		}
		return &Array{Elements: elements}
	case *ast.BinaryOp:
		return e.evalBinary(node, env)
	case *ast.UnaryOp:
		return e.evalUnary(node, env)
	case *ast.If:
		return e.evalIf(node, env)
	case *ast.Block:
		return e.evalBlock(node, env)
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.FieldAccess:
		return e.evalFieldAccess(node, env)
	case *ast.Call:
		return e.evalCall(node, env)
	}
	return newError(diagnostics.ErrR006, "cannot evaluate %T", node)
}

func (e *Evaluator) evalBlock(b *ast.Block, env *Environment) Object {
	return e.evalSequence(b.Instructions, b.Value, NewEnclosedEnvironment(env))
}

func (e *Evaluator) evalSequence(instructions []ast.Node, value ast.Expression, env *Environment) Object {
	for _, n := range instructions {
		if res := e.Eval(n, env); unwinds(res) {
			return res
		}
	}
	if value != nil {
		return e.Eval(value, env)
	}
	return UNIT
}

func (e *Evaluator) evalAssignment(n *ast.Assignment, env *Environment) Object {
	val := e.Eval(n.Value, env)
	if unwinds(val) {
		return val
	}
	if e.info.Assigns[n] == program.AssignUpdate {
		found, mutable := env.Assign(n.Name, val)
		switch {
		case !found:
			return newError(diagnostics.ErrR006, "assignment to undefined variable %s", n.Name)
		case !mutable:
			return newError(diagnostics.ErrR003, "cannot assign twice to immutable variable %s", n.Name)
		}
		return UNIT
	}
	env.Define(n.Name, val, n.Mutable)
	return UNIT
}

func (e *Evaluator) evalIdentifier(id *ast.Identifier, env *Environment) Object {
	if dep, ok := e.info.Globals[id]; ok {
		if val, ok := e.GlobalEnv(dep).Get(id.Name); ok {
			return val
		}
		return newError(diagnostics.ErrR006, "%s::%s is not initialized", dep.Name, id.Name)
	}
	if fn, ok := e.info.Refs[id]; ok {
		return &FunctionRef{Fn: fn}
	}
	if val, ok := env.Get(id.Name); ok {
		return val
	}
	return newError(diagnostics.ErrR006, "undefined variable %s", id.Name)
}

func (e *Evaluator) evalFieldAccess(f *ast.FieldAccess, env *Environment) Object {
	obj := e.Eval(f.Object, env)
	if unwinds(obj) {
		return obj
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return newError(diagnostics.ErrR006, "field access on %s", obj.Inspect())
	}
	i, ok := e.info.Fields[f]
	if !ok || i >= len(inst.Fields) {
		return newError(diagnostics.ErrR006, "type %s has no field %s", inst.Decl.Name, f.Field)
	}
	return inst.Fields[i]
}

// evalExpressions evaluates arguments left to right, wrapping those marked
// in coerce into Some.
func (e *Evaluator) evalExpressions(exprs []ast.Expression, coerce []bool, env *Environment) ([]Object, Object) {
	out := make([]Object, len(exprs))
	for i, x := range exprs {
		val := e.Eval(x, env)
		if unwinds(val) {
			return nil, val
		}
		if i < len(coerce) && coerce[i] {
			val = &Option{Value: val}
		}
		out[i] = val
	}
	return out, nil
}

func (e *Evaluator) evalCall(c *ast.Call, env *Environment) Object {
	binding, ok := e.info.Calls[c]
	if !ok {
		return newError(diagnostics.ErrR006, "call to %s was not resolved", c.Name)
	}
	args, errObj := e.evalExpressions(c.Arguments(), binding.Coerce, env)
	if errObj != nil {
		return errObj
	}

	switch binding.Kind {
	case program.CallDirect:
		return e.ApplyFunction(binding.Target, args, c)
	case program.CallIndirect:
		val, ok := env.Get(c.Name)
		if !ok {
			return newError(diagnostics.ErrR006, "undefined variable %s", c.Name)
		}
		ref, ok := val.(*FunctionRef)
		if !ok {
			return newError(diagnostics.ErrR006, "%s is not a function", c.Name)
		}
		return e.ApplyFunction(ref.Fn, args, c)
	case program.CallConstruct:
		return &Instance{Decl: binding.Type, Fields: args}
	case program.CallAlias:
		return args[0]
	}
	return newError(diagnostics.ErrR006, "unknown call kind for %s", c.Name)
}

// ApplyFunction runs fn on already evaluated arguments. Function bodies
// start from an empty frame: module variables are not visible.
func (e *Evaluator) ApplyFunction(fn *symbols.Function, args []Object, at ast.Node) Object {
	if e.depth >= e.ctx.MaxDepth {
		return newError(diagnostics.ErrR004, "maximum call depth of %d exceeded calling %s", e.ctx.MaxDepth, fn.QualifiedName())
	}
	e.depth++
	defer func() { e.depth-- }()

	var result Object
	if fn.IsNative() {
		result = e.callNative(fn, args)
	} else {
		env := NewEnvironment()
		for i, p := range fn.Params {
			env.Define(p.Name, args[i], false)
		}
		result = e.Eval(fn.Body, env)
		if rv, ok := result.(*ReturnValue); ok {
			result = rv.Value
		}
	}

	if err, ok := result.(*Error); ok {
		frame := StackFrame{Name: fn.QualifiedName()}
		if at != nil {
			loc := ast.LocationOf(at)
			frame.File, frame.Line, frame.Column = loc.File, loc.Line, loc.Column
		}
		err.StackTrace = append(err.StackTrace, frame)
		return err
	}
	if typesystem.IsVoid(fn.Return) && !aborts(result) {
		return UNIT
	}
	return result
}

func (e *Evaluator) callNative(fn *symbols.Function, args []Object) Object {
	b, ok := e.natives[fn.Name]
	if !ok {
		return newError(diagnostics.ErrR006, "no native implementation for ext func %s", fn.Name)
	}
	return b.Fn(e, args...)
}

// QuitError is returned by Outcome when the program ran @quit.
type QuitError struct {
	Code int
}

func (q *QuitError) Error() string {
	return fmt.Sprintf("quit with exit code %d", q.Code)
}

// Outcome separates the final object of a run into a value or an error.
func Outcome(obj Object) (Object, error) {
	switch o := obj.(type) {
	case *Error:
		return nil, o.Diagnostic()
	case *Quit:
		return nil, &QuitError{Code: o.Code}
	case *ReturnValue:
		return o.Value, nil
	}
	return obj, nil
}

package evaluator

import (
	"fmt"
	"sort"

	"github.com/davecgh/go-spew/spew"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/config"
	"github.com/jinko-lang/jinko/internal/diagnostics"
)

func (e *Evaluator) evalLoop(n *ast.Loop, env *Environment) Object {
	switch n.Loop {
	case ast.LoopFor:
		iter := e.Eval(n.Cond, env)
		if unwinds(iter) {
			return iter
		}
		var items []Object
		switch it := iter.(type) {
		case *Array:
			// iterate over the elements present when the loop starts
			items = append([]Object(nil), it.Elements...)
		case *String:
			for _, r := range it.Value {
				items = append(items, &Char{Value: r})
			}
		default:
			return newError(diagnostics.ErrR006, "cannot iterate over %s", iter.Inspect())
		}
		for _, item := range items {
			frame := NewEnclosedEnvironment(env)
			frame.Define(n.Var, item, false)
			if stop, out := loopControl(e.Eval(n.Body, frame)); stop {
				return out
			}
		}

	case ast.LoopWhile:
		for {
			cond := e.Eval(n.Cond, env)
			if unwinds(cond) {
				return cond
			}
			b, ok := cond.(*Boolean)
			if !ok {
				return newError(diagnostics.ErrR006, "while condition is not a bool: %s", cond.Inspect())
			}
			if !b.Value {
				break
			}
			if stop, out := loopControl(e.Eval(n.Body, env)); stop {
				return out
			}
		}

	default:
		for {
			if stop, out := loopControl(e.Eval(n.Body, env)); stop {
				return out
			}
		}
	}
	return UNIT
}

// loopControl interprets the result of one loop iteration.
func loopControl(res Object) (bool, Object) {
	switch res.(type) {
	case *BreakSignal:
		return true, UNIT
	case *ContinueSignal:
		return false, nil
	}
	if unwinds(res) {
		return true, res
	}
	return false, nil
}

func (e *Evaluator) evalDirective(d *ast.Directive, env *Environment) Object {
	switch d.Name {
	case config.DumpDirective:
		e.dump(env)
		return UNIT
	case config.QuitDirective:
		code := 0
		if len(d.Args) == 1 {
			val := e.Eval(d.Args[0], env)
			if unwinds(val) {
				return val
			}
			code = ExitCode(val)
		}
		return &Quit{Code: code}
	}
	return newError(diagnostics.ErrR006, "unknown directive @%s", d.Name)
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// dump writes the bindings visible from env.
func (e *Evaluator) dump(env *Environment) {
	snapshot := env.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(e.Out, "@dump: %d bindings\n", len(names))
	for _, name := range names {
		fmt.Fprintf(e.Out, "%s = ", name)
		dumpConfig.Fdump(e.Out, plain(snapshot[name]))
	}
}

// plain converts an object to Go values for dumping.
func plain(obj Object) interface{} {
	switch o := obj.(type) {
	case *Unit:
		return struct{}{}
	case *Integer:
		return o.Value
	case *Float:
		return o.Value
	case *Boolean:
		return o.Value
	case *String:
		return o.Value
	case *Char:
		return o.Value
	case *Option:
		if !o.IsSome() {
			return nil
		}
		return []interface{}{plain(o.Value)}
	case *Array:
		out := make([]interface{}, len(o.Elements))
		for i, el := range o.Elements {
			out[i] = plain(el)
		}
		return out
	case *Instance:
		out := make(map[string]interface{}, len(o.Fields))
		for i, f := range o.Fields {
			out[o.Decl.Fields[i].Name] = plain(f)
		}
		return out
	}
	return obj.Inspect()
}

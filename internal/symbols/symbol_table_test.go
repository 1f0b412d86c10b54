package symbols

import (
	"testing"

	"github.com/jinko-lang/jinko/internal/typesystem"
)

func fn(module, name string, ret typesystem.Type, params ...typesystem.Type) *Function {
	f := &Function{Name: name, Module: module, Return: ret}
	for i, p := range params {
		f.Params = append(f.Params, Param{Name: string(rune('a' + i)), Type: p})
	}
	return f
}

func TestLookupShadowing(t *testing.T) {
	global := NewSymbolTable("main")
	add := fn("main", "add", typesystem.Int, typesystem.Int, typesystem.Int)
	global.DefineFunction(add)
	global.DefineVariable(&Variable{Name: "x", Type: typesystem.Int})

	block := NewEnclosedSymbolTable(global, ScopeBlock)
	block.DefineVariable(&Variable{Name: "add", Type: typesystem.Bool})

	b := block.Lookup("add")
	if b.Variable == nil || len(b.Functions) != 0 {
		t.Fatalf("inner variable should shadow the outer overload set, got %+v", b)
	}
	if fns := global.LookupFunctions("add"); len(fns) != 1 || fns[0] != add {
		t.Fatalf("global lookup should find the overload set")
	}

	v, ok := block.LookupVariable("x")
	if !ok || v.Module != "main" {
		t.Fatalf("global variable should be visible from a block, got %+v", v)
	}
}

func TestFunctionFrameHidesOuterVariables(t *testing.T) {
	global := NewSymbolTable("main")
	global.DefineVariable(&Variable{Name: "x", Type: typesystem.Int})
	global.DefineFunction(fn("main", "f", typesystem.Void))

	body := NewEnclosedSymbolTable(global, ScopeFunction)
	inner := NewEnclosedSymbolTable(body, ScopeBlock)
	body.DefineVariable(&Variable{Name: "p", Type: typesystem.Int})

	if _, ok := inner.LookupVariable("x"); ok {
		t.Fatalf("module variable must not be visible inside a function")
	}
	if _, ok := inner.LookupVariable("p"); !ok {
		t.Fatalf("parameter should be visible in nested blocks")
	}
	if len(inner.LookupFunctions("f")) != 1 {
		t.Fatalf("functions stay visible inside function bodies")
	}
	if !inner.InFunction() || global.InFunction() {
		t.Fatalf("InFunction mismatch")
	}
}

func TestBlockBindingsDoNotLeak(t *testing.T) {
	global := NewSymbolTable("main")
	block := NewEnclosedSymbolTable(global, ScopeBlock)
	block.DefineVariable(&Variable{Name: "tmp", Type: typesystem.Int})
	if _, ok := global.LookupVariable("tmp"); ok {
		t.Fatalf("binding leaked out of its block")
	}
}

func TestResolveType(t *testing.T) {
	global := NewSymbolTable("geo")
	point := &TypeDecl{Name: "Point", Module: "geo", ModuleKey: "/src/geo.jk", Fields: []Param{{Name: "x", Type: typesystem.Int}}}
	meters := &TypeDecl{Name: "Meters", Module: "geo", Alias: typesystem.Int}
	global.DefineType(point)
	global.DefineType(meters)

	block := NewEnclosedSymbolTable(global, ScopeBlock)
	got, ok := block.ResolveType("Point")
	if !ok || got != point {
		t.Fatalf("type not resolved through outer frames")
	}
	if !typesystem.Equal(point.Type(), typesystem.TCon{Name: "Point", Module: "/src/geo.jk"}) {
		t.Fatalf("unexpected record type %v", point.Type())
	}
	if !typesystem.Equal(meters.Type(), typesystem.Int) {
		t.Fatalf("alias should denote its target, got %v", meters.Type())
	}
	if i, f, ok := point.Field("x"); !ok || i != 0 || f.Name != "x" {
		t.Fatalf("field lookup failed")
	}
}

func TestSignature(t *testing.T) {
	T := typesystem.TVar{Name: "T"}
	generic := fn("main", "id", T, T)
	generic.Generics = []string{"T"}
	if got := generic.Signature(); got != "main::id[T](T) -> T" {
		t.Fatalf("unexpected signature %s", got)
	}

	instance := fn("main", "id", typesystem.Int, typesystem.Int)
	instance.Origin = generic
	instance.TypeArgs = []typesystem.Type{typesystem.Int}
	if got := instance.Signature(); got != "main::id[int](int) -> int" {
		t.Fatalf("unexpected signature %s", got)
	}
}

func TestInstancesIdentity(t *testing.T) {
	T := typesystem.TVar{Name: "T"}
	generic := fn("main", "id", T, T)
	generic.Generics = []string{"T"}

	cache := NewInstances()
	args := []typesystem.Type{typesystem.Int}
	if _, ok := cache.Lookup(generic, args); ok {
		t.Fatalf("empty cache should miss")
	}

	first := &Function{Name: "id", Module: "main", Origin: generic, TypeArgs: args}
	if got := cache.Store(first); got != first {
		t.Fatalf("first store should keep the instance")
	}
	second := &Function{Name: "id", Module: "main", Origin: generic, TypeArgs: []typesystem.Type{typesystem.Int}}
	if got := cache.Store(second); got != first {
		t.Fatalf("second store should return the cached instance")
	}
	got, ok := cache.Lookup(generic, []typesystem.Type{typesystem.Int})
	if !ok || got != first {
		t.Fatalf("lookup should return the identical cached instance")
	}
	if _, ok := cache.Lookup(generic, []typesystem.Type{typesystem.String}); ok {
		t.Fatalf("different type arguments must not share an instance")
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 instance, got %d", cache.Len())
	}
}

func TestInstancesKeyedByDeclaration(t *testing.T) {
	T := typesystem.TVar{Name: "T"}
	left := fn("util", "pick", typesystem.Int, T)
	left.Generics = []string{"T"}
	right := fn("util", "pick", typesystem.Int, T)
	right.Generics = []string{"T"}
	if left.Signature() != right.Signature() {
		t.Fatalf("setup: signatures should match")
	}

	cache := NewInstances()
	args := []typesystem.Type{typesystem.Int}
	a := cache.Store(&Function{Name: "pick", Module: "util", Origin: left, TypeArgs: args})
	b := cache.Store(&Function{Name: "pick", Module: "util", Origin: right, TypeArgs: args})
	if a == b {
		t.Fatalf("generics from different modules must not share an instance")
	}
	if got, _ := cache.Lookup(right, args); got != b {
		t.Fatalf("lookup returned the instance of another declaration")
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 instances, got %d", cache.Len())
	}
}

func TestReplaceFunction(t *testing.T) {
	global := NewSymbolTable("main")
	orig := fn("main", "f", typesystem.Int, typesystem.Int)
	global.DefineFunction(orig)
	mock := fn("main", "f", typesystem.Int, typesystem.Int)
	if !orig.SameSignature(mock) {
		t.Fatalf("signatures should match")
	}
	if !global.ReplaceFunction(orig, mock) {
		t.Fatalf("replace failed")
	}
	if global.Functions("f")[0] != mock {
		t.Fatalf("overload set not updated")
	}
}

func TestRestoreUndoesLaterDefinitions(t *testing.T) {
	st := NewSymbolTable("repl")
	x := &Variable{Name: "x", Type: typesystem.Int}
	st.DefineVariable(x)
	point := &TypeDecl{Name: "Point", Module: "repl"}
	st.DefineType(point)
	st.DefineFunction(fn("repl", "f", typesystem.Int))

	cp := st.Checkpoint()
	x.Type = typesystem.Bool
	st.DefineVariable(&Variable{Name: "z", Type: typesystem.Int})
	st.DefineFunction(fn("repl", "f", typesystem.Int, typesystem.Int))
	st.DefineType(&TypeDecl{Name: "Line", Module: "repl"})
	point.Methods = append(point.Methods, fn("repl", "norm", typesystem.Int))
	st.Restore(cp)

	if _, ok := st.LookupVariable("z"); ok {
		t.Fatalf("z should be gone after restore")
	}
	if v, ok := st.LookupVariable("x"); !ok || !typesystem.Equal(v.Type, typesystem.Int) {
		t.Fatalf("x should be back to int, got %+v", v)
	}
	if fns := st.Functions("f"); len(fns) != 1 {
		t.Fatalf("expected one overload of f, got %d", len(fns))
	}
	if _, ok := st.LocalType("Line"); ok {
		t.Fatalf("Line should be gone after restore")
	}
	if len(point.Methods) != 0 {
		t.Fatalf("Point should have no methods, got %d", len(point.Methods))
	}
}

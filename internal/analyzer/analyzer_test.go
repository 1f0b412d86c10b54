package analyzer_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jinko-lang/jinko/internal/analyzer"
	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/logging"
	"github.com/jinko-lang/jinko/internal/modules"
	"github.com/jinko-lang/jinko/internal/program"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

func analyzeIn(t *testing.T, dir, src string, testMode bool) (*program.Context, *modules.Module, error) {
	t.Helper()
	ctx := program.NewContext(program.Options{Logger: logging.Discard(), TestMode: testMode})
	m, err := analyzer.New(ctx).LoadSource(filepath.Join(dir, "main.jk"), src)
	return ctx, m, err
}

func analyze(t *testing.T, src string) (*program.Context, *modules.Module, error) {
	t.Helper()
	return analyzeIn(t, t.TempDir(), src, false)
}

func mustAnalyze(t *testing.T, src string) (*program.Context, *modules.Module) {
	t.Helper()
	ctx, m, err := analyze(t, src)
	require.NoError(t, err)
	return ctx, m
}

func diagnostic(t *testing.T, err error) *diagnostics.DiagnosticError {
	t.Helper()
	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag), "expected a diagnostic, got %v", err)
	return diag
}

func writeModule(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

func TestElaborationErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
	}{
		{"discarded call", "func f() -> int { 1 }\nf();\n0", diagnostics.ErrA001},
		{"discarded literal", "1;\n2", diagnostics.ErrA001},
		{"if without else yields a value", "if true { 1 }\n0", diagnostics.ErrA001},
		{"void function with trailing value", "func f() { 1 }", diagnostics.ErrA001},
		{"arity", "func f(a: int) -> int { a }\nf(1, 2)", diagnostics.ErrA002},
		{"operands", "x = 1;\nx + \"s\"", diagnostics.ErrA003},
		{"missing return value", "func f() -> int { }", diagnostics.ErrA003},
		{"float modulo", "1.5 % 2.0", diagnostics.ErrA003},
		{"inference conflict", "func same[T](a: T, b: T) -> T { a }\nsame(1, \"s\")", diagnostics.ErrA003},
		{"unbound type parameter", "func none[T]() -> int { 0 }\nnone()", diagnostics.ErrA003},
		{"unknown identifier", "y", diagnostics.ErrA004},
		{"unknown function", "g(1)", diagnostics.ErrA004},
		{"block bindings end with the block", "{\n inner = 1;\n}\ninner", diagnostics.ErrA004},
		{"functions do not see module variables", "x = 1;\nfunc f() -> int { x }\nf()", diagnostics.ErrA004},
		{"ambiguous overloads", "func f[T](a: T, b: int) -> int { 1 }\nfunc f[U](a: int, b: U) -> int { 2 }\nf(1, 2)", diagnostics.ErrA005},
		{"duplicate declaration", "func f(a: int) -> int { 1 }\nfunc f(a: int) -> int { 2 }\nf(1)", diagnostics.ErrA003},
		{"no matching overload", "func f(a: int) -> int { a }\nf(true)", diagnostics.ErrA006},
		{"break outside loop", "break;\n0", diagnostics.ErrA007},
		{"return at top level", "return 1;", diagnostics.ErrA007},
		{"missing module", "incl nowhere;\n0", diagnostics.ErrM001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := analyze(t, tt.src)
			diag := diagnostic(t, err)
			require.Equal(t, tt.code, diag.Code, diag.Error())
			require.NotZero(t, diag.Line, diag.Error())
		})
	}
}

func TestStatementsMayBeDiscarded(t *testing.T) {
	mustAnalyze(t, `
mut x = 1;
x = 2;
println(x);
audit {
    3;
}
loop { break }
while x < 10 { x = x + 1; }
for c in "ab" { println(c); }
x
`)
}

func TestDotSugarResolvesLikeBareCall(t *testing.T) {
	ctx, m := mustAnalyze(t, `
func add(a: int, b: int) -> int { a + b }
func add(a: float, b: float) -> float { a + b }
x = 1;
add(x, 2) == x.add(2)
`)
	cmp := m.Files[0].Value.(*ast.BinaryOp)
	bare := ctx.Info.Calls[cmp.Left.(*ast.Call)]
	dot := ctx.Info.Calls[cmp.Right.(*ast.Call)]
	require.NotNil(t, bare)
	require.NotNil(t, dot)
	require.Same(t, bare.Target, dot.Target)
	require.True(t, typesystem.Equal(typesystem.Int, bare.Target.Return))
}

func TestGenericInstancesAreShared(t *testing.T) {
	ctx, m := mustAnalyze(t, `
func id[T](x: T) -> T { x }
a = id(1);
b = id(2);
c = id("s");
d = 3.id();
a + b + d
`)
	calls := make([]*program.CallBinding, 0, 4)
	for _, n := range m.Files[0].Instructions {
		if as, ok := n.(*ast.Assignment); ok {
			calls = append(calls, ctx.Info.Calls[as.Value.(*ast.Call)])
		}
	}
	require.Len(t, calls, 4)
	require.Same(t, calls[0].Target, calls[1].Target)
	require.Same(t, calls[0].Target, calls[3].Target)
	require.NotSame(t, calls[0].Target, calls[2].Target)

	var ids int
	for _, inst := range ctx.Instances.All() {
		if inst.Name == "id" {
			ids++
			require.False(t, inst.IsGeneric())
		}
	}
	require.Equal(t, 2, ids)
}

func TestOptionCoercion(t *testing.T) {
	ctx, m := mustAnalyze(t, `
func or_zero(v: Option[int]) -> int { unwrap_or(v, 0) }
or_zero(4)
`)
	call := ctx.Info.Calls[m.Files[0].Value.(*ast.Call)]
	require.Equal(t, []bool{true}, call.Coerce)
}

func TestExactMatchBeatsCoercion(t *testing.T) {
	ctx, m := mustAnalyze(t, `
func pick(v: int) -> int { 1 }
func pick(v: Option[int]) -> int { 2 }
pick(5)
`)
	call := ctx.Info.Calls[m.Files[0].Value.(*ast.Call)]
	require.Equal(t, []bool{false}, call.Coerce)
	require.Equal(t, "int", call.Target.Params[0].Type.String())
}

func TestMethodsAndQualifiedTypeCalls(t *testing.T) {
	ctx, m := mustAnalyze(t, `
type Point(x: int, y: int) {
    func sum(self: Point) -> int { self.x + self.y }
}
func (self: Point) scaled(k: int) -> Point { Point(self.x * k, self.y * k) }
p = Point(1, 2);
p.scaled(3).sum() == Point::sum(p)
`)
	cmp := m.Files[0].Value.(*ast.BinaryOp)
	dot := ctx.Info.Calls[cmp.Left.(*ast.Call)]
	qualified := ctx.Info.Calls[cmp.Right.(*ast.Call)]
	require.Same(t, dot.Target, qualified.Target)
	require.True(t, dot.Target.IsMethod())
}

func TestAliasMethodsOnPrimitives(t *testing.T) {
	mustAnalyze(t, `
type Meters as int {
    func double(self: Meters) -> Meters { self + self }
}
x = 21;
x.double()
`)
}

func TestReceiverMethodPreferredOverFreeFunction(t *testing.T) {
	ctx, m := mustAnalyze(t, `
type Box(v: int) {
    func show(self: Box) -> int { self.v }
}
func show[T](value: T) -> int { 0 }
b = Box(7);
b.show()
`)
	call := ctx.Info.Calls[m.Files[0].Value.(*ast.Call)]
	require.True(t, call.Target.IsMethod())
}

func TestBareCallTreatsMethodsAsPlainOverloads(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "shapes.jk", "type Box(v: int) {\n    func show(self: Box) -> int { 1 }\n}\n")

	_, _, err := analyzeIn(t, dir, "incl shapes;\nfunc show(b: Box) -> int { 2 }\nshow(Box(7))", false)
	diag := diagnostic(t, err)
	require.Equal(t, diagnostics.ErrA005, diag.Code)
	require.Len(t, diag.Notes, 2)

	ctx, m, err := analyzeIn(t, dir, "incl shapes;\nfunc show(b: Box) -> int { 2 }\nb = Box(7);\nb.show()", false)
	require.NoError(t, err)
	call := ctx.Info.Calls[m.Files[0].Value.(*ast.Call)]
	require.True(t, call.Target.IsMethod())
}

func TestDuplicateDeclarationPointsAtPrevious(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"free functions", "func f(a: int) -> int { 1 }\n\nfunc f(a: int) -> int { 2 }\nf(1)"},
		{"method and free function", "type Box(v: int) {\n    func show(self: Box) -> int { 1 }\n}\nfunc show(b: Box) -> int { 2 }\n0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := analyze(t, tt.src)
			diag := diagnostic(t, err)
			require.Equal(t, diagnostics.ErrA003, diag.Code)
			require.Len(t, diag.Notes, 1)
			require.Contains(t, diag.Notes[0], "previous declaration at")
		})
	}
}

func TestSameNamedModulesKeepSeparateInstances(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, sub), 0o755))
	}
	writeModule(t, dir, filepath.Join("a", "util.jk"), "func pick[T](value: T) -> int { 1 }\n")
	writeModule(t, dir, filepath.Join("b", "util.jk"), "func pick[T](value: T) -> int { 2 }\n")

	ctx, m, err := analyzeIn(t, dir, "incl a/util;\nincl b/util as u2;\nutil::pick(0) * 10 + u2::pick(0)", false)
	require.NoError(t, err)
	sum := m.Files[0].Value.(*ast.BinaryOp)
	left := ctx.Info.Calls[sum.Left.(*ast.BinaryOp).Left.(*ast.Call)].Target
	right := ctx.Info.Calls[sum.Right.(*ast.Call)].Target
	require.NotSame(t, left, right)
	require.Equal(t, int64(1), left.Body.Value.(*ast.Literal).Value)
	require.Equal(t, int64(2), right.Body.Value.(*ast.Literal).Value)
}

func TestQualifiedCallsAcrossModules(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "left.jk", "func name(x: int) -> int { x }\n")
	writeModule(t, dir, "right.jk", "func name(x: int) -> int { x * 10 }\n")

	_, _, err := analyzeIn(t, dir, "incl left;\nincl right;\nname(1)", false)
	diag := diagnostic(t, err)
	require.Equal(t, diagnostics.ErrA005, diag.Code)
	require.Len(t, diag.Notes, 2)

	ctx, m, err := analyzeIn(t, dir, "incl left;\nincl right as r;\nleft::name(1) + r::name(2)", false)
	require.NoError(t, err)
	sum := m.Files[0].Value.(*ast.BinaryOp)
	left := ctx.Info.Calls[sum.Left.(*ast.Call)].Target
	right := ctx.Info.Calls[sum.Right.(*ast.Call)].Target
	require.Equal(t, "left", left.Module)
	require.Equal(t, "right", right.Module)
}

func TestInclusionCycleRegistersOnce(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.jk", "incl b;\nfunc ping() -> int { 0 }\n")
	writeModule(t, dir, "b.jk", "incl a;\nfunc pong() -> int { 0 }\n")

	ctx, _, err := analyzeIn(t, dir, "incl a;\nincl b;\nping() + pong()", false)
	require.NoError(t, err)
	require.Len(t, ctx.Modules.Modules(), 4)
	for _, mod := range ctx.Modules.Modules() {
		require.Equal(t, modules.Done, mod.State(), mod.Name)
	}
}

func TestTestsAndMocksOnlyInTestMode(t *testing.T) {
	src := `
func seed() -> int { 7 }
mock seed() -> int { 1 }
test seeded() { assert_eq(seed(), 1) }
seed()
`
	ctx, m, err := analyzeIn(t, t.TempDir(), src, false)
	require.NoError(t, err)
	require.Empty(t, m.Tests)
	target := ctx.Info.Calls[m.Files[0].Value.(*ast.Call)].Target
	require.Equal(t, int64(7), target.Body.Value.(*ast.Literal).Value)

	ctx, m, err = analyzeIn(t, t.TempDir(), src, true)
	require.NoError(t, err)
	require.Len(t, m.Tests, 1)
	target = ctx.Info.Calls[m.Files[0].Value.(*ast.Call)].Target
	require.Equal(t, int64(1), target.Body.Value.(*ast.Literal).Value)
}

func TestVoidArgumentRejected(t *testing.T) {
	_, _, err := analyze(t, "func f(a: int) -> int { a }\nf(println(1))")
	require.Equal(t, diagnostics.ErrA003, diagnostic(t, err).Code)
}

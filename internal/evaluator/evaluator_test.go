package evaluator_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jinko-lang/jinko/internal/analyzer"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/evaluator"
	"github.com/jinko-lang/jinko/internal/logging"
	"github.com/jinko-lang/jinko/internal/program"
)

type result struct {
	value evaluator.Object
	err   error
	out   string
}

func runWith(t *testing.T, opts program.Options, src string) result {
	t.Helper()
	opts.Logger = logging.Discard()
	ctx := program.NewContext(opts)
	main, err := analyzer.New(ctx).LoadSource(filepath.Join(t.TempDir(), "main.jk"), src)
	require.NoError(t, err, "elaboration failed")

	var out bytes.Buffer
	e := evaluator.New(ctx, &out)
	value, err := evaluator.Outcome(e.RunModule(main))
	return result{value: value, err: err, out: out.String()}
}

func run(t *testing.T, src string) result {
	t.Helper()
	return runWith(t, program.Options{}, src)
}

func TestValues(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"arithmetic", "1 + 2 * 3 - 4 / 2", "5"},
		{"modulo", "17 % 5", "2"},
		{"float", "1.5 * 2.0", "3.0"},
		{"comparison", "3 <= 2 || 2 != 2", "false"},
		{"short circuit", "false && 1 / 0 == 0", "false"},
		{"if value", "x = if 1 < 2 { 10 } else { 20 };\nx", "10"},
		{"block value", "{ a = 2; a * a }", "4"},
		{"string", "to_string(12)", `"12"`},
		{"char", "'a'", "'a'"},
		{"option", "Some(3)", "Some(3)"},
		{"array", "[1, 2, 3]", "[1, 2, 3]"},
		{"record", "type P(x: int, y: int);\nP(1, 2)", "P(x: 1, y: 2)"},
		{"field", "type P(x: int, y: int);\np = P(1, 2);\np.y", "2"},
		{"alias", "type Meters as int;\nMeters(3) + 1", "4"},
		{"recursion", "func fact(n: int) -> int { if n <= 1 { 1 } else { n * fact(n - 1) } }\nfact(5)", "120"},
		{"early return", "func first(a: Array[int]) -> int { for x in a { if x > 1 { return x } } 0 }\nfirst([1, 5, 7])", "5"},
		{"generic", "func id[T](x: T) -> T { x }\nid(\"s\")", `"s"`},
		{"option coercion", "func or_zero(v: Option[int]) -> int { unwrap_or(v, 0) }\nor_zero(4)", "4"},
		{"function value", "func inc(n: int) -> int { n + 1 }\nfunc twice(f: func(int) -> int, x: int) -> int { f(f(x)) }\ntwice(inc, 1)", "3"},
		{"method", "type P(x: int) { func get(self: P) -> int { self.x } }\nP(9).get()", "9"},
		{"missing get", "get([1], 4)", "None"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.src)
			require.NoError(t, res.err)
			require.Equal(t, tt.want, res.value.Inspect())
		})
	}
}

func TestLoops(t *testing.T) {
	res := run(t, `
mut total = 0;
for i in range(0, 10) {
    if i % 2 == 0 { continue }
    if i > 7 { break }
    total = total + i;
}
mut n = 0;
while n < 3 { n = n + 1; }
loop {
    total = total + 100;
    break
}
total + n
`)
	require.NoError(t, res.err)
	require.Equal(t, "119", res.value.Inspect())
}

func TestArraysAreShared(t *testing.T) {
	res := run(t, `
a = [1];
b = a;
push(b, 2);
b.push(3);
len(a)
`)
	require.NoError(t, res.err)
	require.Equal(t, "3", res.value.Inspect())
}

func TestPrinting(t *testing.T) {
	res := run(t, `
println("hi");
print('x');
print(1.5);
println([1, 2]);
0
`)
	require.NoError(t, res.err)
	require.Equal(t, "hi\nx1.5[1, 2]\n", res.out)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
	}{
		{"unwrap none", "o = get([1], 3);\nunwrap(o)", diagnostics.ErrR001},
		{"integer division", "z = 0;\n1 / z", diagnostics.ErrR002},
		{"integer modulo", "z = 0;\n1 % z", diagnostics.ErrR002},
		{"float division", "1.0 / 0.0", diagnostics.ErrR002},
		{"immutable update", "x = 1;\nx = 2;\nx", diagnostics.ErrR003},
		{"unbounded recursion", "func f(n: int) -> int { f(n + 1) }\nf(0)", diagnostics.ErrR004},
		{"assert", "assert(1 == 2);\n0", diagnostics.ErrR005},
		{"assert_eq", "assert_eq(\"a\", \"b\");\n0", diagnostics.ErrR005},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runWith(t, program.Options{MaxDepth: 64}, tt.src)
			var diag *diagnostics.DiagnosticError
			require.True(t, errors.As(res.err, &diag), "got %v", res.err)
			require.Equal(t, tt.code, diag.Code)
			require.NotZero(t, diag.Line)
		})
	}
}

func TestStackTraceNotes(t *testing.T) {
	res := run(t, "func inner() -> int { unwrap(get([1], 9)) }\nfunc outer() -> int { inner() }\nouter()")
	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(res.err, &diag))
	require.Equal(t, diagnostics.ErrR001, diag.Code)
	require.Len(t, diag.Notes, 3)
	require.Contains(t, diag.Notes[0], "unwrap")
	require.Contains(t, diag.Notes[1], "inner")
	require.Contains(t, diag.Notes[2], "outer")
}

func TestQuit(t *testing.T) {
	res := run(t, "func stop() { @quit(7) }\nstop();\n1")
	var quit *evaluator.QuitError
	require.True(t, errors.As(res.err, &quit))
	require.Equal(t, 7, quit.Code)
}

func TestDump(t *testing.T) {
	res := run(t, "x = 3;\nname = \"jk\";\n@dump();\n0")
	require.NoError(t, res.err)
	require.Contains(t, res.out, "@dump: 2 bindings")
	require.Contains(t, res.out, "name = (string) (len=2) \"jk\"")
	require.Contains(t, res.out, "x = (int64) 3")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		obj  evaluator.Object
		want int
	}{
		{&evaluator.Integer{Value: 12}, 12},
		{evaluator.TRUE, 1},
		{evaluator.FALSE, 0},
		{&evaluator.Char{Value: 'A'}, 65},
		{&evaluator.Float{Value: 2.9}, 2},
		{&evaluator.String{Value: "7"}, 0},
		{evaluator.UNIT, 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, evaluator.ExitCode(tt.obj), tt.obj.Inspect())
	}
}

func TestObjectsEqual(t *testing.T) {
	a := &evaluator.Array{Elements: []evaluator.Object{&evaluator.Integer{Value: 1}, evaluator.NONE}}
	b := &evaluator.Array{Elements: []evaluator.Object{&evaluator.Integer{Value: 1}, &evaluator.Option{}}}
	require.True(t, evaluator.ObjectsEqual(a, b))
	require.False(t, evaluator.ObjectsEqual(&evaluator.Option{Value: evaluator.TRUE}, evaluator.NONE))
}

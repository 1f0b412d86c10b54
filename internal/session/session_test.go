package session

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/evaluator"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

func fixture(parts ...string) string {
	return filepath.Join(append([]string{"testdata"}, parts...)...)
}

func run(t *testing.T, path string) (*Session, evaluator.Object, error) {
	t.Helper()
	s := New(Options{Out: &bytes.Buffer{}})
	value, err := s.RunFile(path)
	return s, value, err
}

func TestIncludeScenarios(t *testing.T) {
	tests := []struct {
		name string
		path string
		want int
	}{
		{"simple variable", fixture("include_var", "main.jk"), 12},
		{"simple function", fixture("include_func", "main.jk"), 1},
		{"directory aggregation", fixture("include_dir", "main.jk"), 15},
		{"subfile within directory", fixture("include_subfile", "main.jk"), 59},
		{"cyclic pair", fixture("cycle", "main.jk"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, value, err := run(t, tt.path)
			require.NoError(t, err)
			require.Equal(t, tt.want, ExitStatus(value, err))
		})
	}
}

func TestCyclicPairRegistersEachModuleOnce(t *testing.T) {
	s, _, err := run(t, fixture("cycle", "main.jk"))
	require.NoError(t, err)

	names := map[string]int{}
	for _, m := range s.Ctx.Modules.Modules() {
		names[m.Name]++
	}
	require.Equal(t, map[string]int{"builtin": 1, "main": 1, "a": 1, "b": 1}, names)
}

func TestSubfileLoadsOnlyThatFile(t *testing.T) {
	s, _, err := run(t, fixture("include_subfile", "main.jk"))
	require.NoError(t, err)
	for _, m := range s.Ctx.Modules.Modules() {
		require.NotEqual(t, "lib", m.Name)
		require.Empty(t, m.SymbolTable.Functions("unreachable"), "module %s", m.Name)
	}
}

func TestAmbiguousAcrossModules(t *testing.T) {
	for _, file := range []string{"bare.jk", "dot.jk"} {
		t.Run(file, func(t *testing.T) {
			_, _, err := run(t, fixture("ambiguous", file))
			var diag *diagnostics.DiagnosticError
			require.True(t, errors.As(err, &diag), "got %v", err)
			require.Equal(t, diagnostics.ErrA005, diag.Code)
			require.Len(t, diag.Notes, 2)
			require.Equal(t, 106, ExitStatus(nil, err))
		})
	}

	_, value, err := run(t, fixture("ambiguous", "qualified.jk"))
	require.NoError(t, err)
	require.Equal(t, 21, ExitStatus(value, err))
}

func TestSameNamedModulesStayDistinct(t *testing.T) {
	s, value, err := run(t, fixture("same_name", "main.jk"))
	require.NoError(t, err)
	require.Equal(t, 12, ExitStatus(value, err))

	var picks int
	for _, inst := range s.Ctx.Instances.All() {
		if inst.Name == "pick" {
			picks++
		}
	}
	require.Equal(t, 2, picks)

	// a/util::Point and b/util::Point are different types
	_, _, err = run(t, fixture("same_name", "mixed.jk"))
	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag), "got %v", err)
	require.Equal(t, diagnostics.ErrA006, diag.Code)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		code    diagnostics.ErrorCode
		snippet string
	}{
		{"division by zero", "divide.jk", diagnostics.ErrR002, "half(10) / zero"},
		{"discarded value", "discard.jk", diagnostics.ErrA001, "answer();"},
		{"missing module", "not_found.jk", diagnostics.ErrM001, "incl nowhere;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, fixture("runtime", tt.file))
			var diag *diagnostics.DiagnosticError
			require.True(t, errors.As(err, &diag), "got %v", err)
			require.Equal(t, tt.code, diag.Code)
			require.Equal(t, tt.snippet, strings.TrimSpace(diag.Snippet))
			require.Equal(t, tt.code.ExitStatus(), ExitStatus(nil, err))
		})
	}
}

func TestRejectedProgramPrintsNothing(t *testing.T) {
	var out bytes.Buffer
	s := New(Options{Out: &out})
	_, err := s.RunSource(filepath.Join(t.TempDir(), "main.jk"), "println(1);\nfunc f() -> int { 1 }\nf();\n0")
	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag), "got %v", err)
	require.Equal(t, diagnostics.ErrA001, diag.Code)
	require.Empty(t, out.String())
}

func TestQuitDirective(t *testing.T) {
	_, value, err := run(t, fixture("runtime", "quit.jk"))
	var quit *evaluator.QuitError
	require.True(t, errors.As(err, &quit), "got %v", err)
	require.Nil(t, value)
	require.Equal(t, 10, ExitStatus(value, err))
}

func TestRunSourcePrints(t *testing.T) {
	var out bytes.Buffer
	s := New(Options{Out: &out})
	value, err := s.RunSource(filepath.Join(t.TempDir(), "main.jk"), `
type Point(x: int, y: int) {
    func sum(self: Point) -> int { self.x + self.y }
}

p = Point(3, 4);
println(p.sum());
print("done");
p.sum() == Point::sum(p)
`)
	require.NoError(t, err)
	require.Equal(t, 1, ExitStatus(value, err))
	require.Equal(t, "7\ndone", out.String())
}

func TestRunTests(t *testing.T) {
	s := New(Options{Out: &bytes.Buffer{}})
	report, err := s.RunTests(fixture("tests", "calc.jk"))
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	require.Len(t, report.Results, 4)

	status := map[string]diagnostics.ErrorCode{}
	for _, res := range report.Results {
		if res.Passed() {
			status[res.Name] = ""
			continue
		}
		status[res.Name] = res.Err.Code
	}
	require.Equal(t, map[string]diagnostics.ErrorCode{
		"doubles":      "",
		"uses_mock":    "",
		"fails":        diagnostics.ErrR005,
		"unwraps_none": diagnostics.ErrR001,
	}, status)
	require.Equal(t, 2, report.Failed())

	var buf bytes.Buffer
	report.Render(&buf)
	require.Contains(t, buf.String(), "unwraps_none")
	require.Contains(t, buf.String(), "2 passed, 2 failed")
}

func TestRunTestsFailFast(t *testing.T) {
	s := New(Options{Out: &bytes.Buffer{}, FailFast: true})
	report, err := s.RunTests(fixture("tests", "calc.jk"))
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	require.Equal(t, 1, report.Failed())
}

func TestMocksOnlyApplyInTestMode(t *testing.T) {
	_, value, err := run(t, fixture("tests", "calc.jk"))
	require.NoError(t, err)
	require.Equal(t, 7, ExitStatus(value, err))
}

func TestInteractiveSession(t *testing.T) {
	var out bytes.Buffer
	s := New(Options{Out: &out})
	require.NoError(t, s.Start(t.TempDir()))

	steps := []struct {
		src  string
		want string
		typ  typesystem.Type
		code diagnostics.ErrorCode
	}{
		{src: "x = 4;", want: "()", typ: typesystem.Void},
		{src: "func sq(n: int) -> int { n * n }", want: "()", typ: typesystem.Void},
		{src: "sq(x)", want: "16", typ: typesystem.Int},
		{src: "x.sq() + 1", want: "17", typ: typesystem.Int},
		{src: "y", code: diagnostics.ErrA004},
		{src: "x", want: "4", typ: typesystem.Int},
		// a chunk failing at run time binds nothing
		{src: "z = 1 / 0;", code: diagnostics.ErrR002},
		{src: "z", code: diagnostics.ErrA004},
		// a chunk failing elaboration drops its declarations
		{src: "func g() -> int { 1 }\ng();", code: diagnostics.ErrA001},
		{src: "func g() -> int { 2 }", want: "()", typ: typesystem.Void},
		{src: "g()", want: "2", typ: typesystem.Int},
		{src: "func sq(n: int) -> int { n }", code: diagnostics.ErrA003},
		{src: "sq(3)", want: "9", typ: typesystem.Int},
	}
	for _, step := range steps {
		value, typ, err := s.Eval("<repl>", step.src)
		if step.code != "" {
			var diag *diagnostics.DiagnosticError
			require.True(t, errors.As(err, &diag), "%s: %v", step.src, err)
			require.Equal(t, step.code, diag.Code, step.src)
			continue
		}
		require.NoError(t, err, step.src)
		require.Equal(t, step.want, value.Inspect(), step.src)
		require.True(t, typesystem.Equal(step.typ, typ), "%s: type %s", step.src, typ)
	}
}

func TestEvalBeforeStart(t *testing.T) {
	_, _, err := New(Options{}).Eval("<repl>", "1")
	require.Error(t, err)
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"x = 1;", false},
		{"func f() -> int {", true},
		{"func f() -> int {\n 1\n}", false},
		{"g(1,", true},
		{"[1, 2", true},
		{"}", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Incomplete(tt.src), tt.src)
	}
}

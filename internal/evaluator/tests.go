package evaluator

import (
	"time"

	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/symbols"
)

// TestResult is the outcome of one `test` declaration.
type TestResult struct {
	Module   string
	Name     string
	Err      *Error
	Duration time.Duration
}

func (r TestResult) Passed() bool {
	return r.Err == nil
}

// RunTest runs a test in isolation. A runtime error inside it is caught and
// reported as a failure; the caller decides whether to continue.
func (e *Evaluator) RunTest(test *symbols.Function) TestResult {
	depth := e.depth
	e.depth = 0
	defer func() { e.depth = depth }()

	start := time.Now()
	res := e.ApplyFunction(test, nil, test.Decl)
	result := TestResult{Module: test.Module, Name: test.Name, Duration: time.Since(start)}

	switch o := res.(type) {
	case *Error:
		result.Err = o
	case *Quit:
		result.Err = newError(diagnostics.ErrR006, "test stopped with @quit(%d)", o.Code)
	}
	return result
}

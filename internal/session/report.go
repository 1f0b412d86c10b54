package session

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/jinko-lang/jinko/internal/evaluator"
)

// TestReport collects the results of one `jinko test` run.
type TestReport struct {
	RunID   string
	Results []evaluator.TestResult
}

// Failed returns the number of failing tests.
func (r *TestReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// Render writes the report as a table followed by a summary line.
func (r *TestReport) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Module", "Test", "Status", "Time", "Detail"})
	table.SetAutoWrapText(false)
	for _, res := range r.Results {
		status, detail := "ok", ""
		if !res.Passed() {
			status = "FAIL"
			detail = fmt.Sprintf("%s %s", res.Err.Code, res.Err.Message)
		}
		table.Append([]string{res.Module, res.Name, status, res.Duration.Round(time.Microsecond).String(), detail})
	}
	table.Render()
	fmt.Fprintf(w, "run %s: %d passed, %d failed\n", r.RunID, len(r.Results)-r.Failed(), r.Failed())
}

// RunTests elaborates the program at path with tests and mocks enabled and
// runs every collected test. Top-level instructions are not executed. A
// runtime error inside a test is a failure; elaboration errors abort.
func (s *Session) RunTests(path string) (*TestReport, error) {
	content, err := readSource(path)
	if err != nil {
		return nil, err
	}
	s.Ctx.TestMode = true
	if _, err := s.load(path, content); err != nil {
		return nil, err
	}

	report := &TestReport{RunID: uuid.NewString()}
	log := s.Logger.With("run", report.RunID)
	for _, m := range s.Ctx.Modules.Modules() {
		for _, test := range m.Tests {
			res := s.Evaluator.RunTest(test)
			report.Results = append(report.Results, res)
			if res.Passed() {
				log.Debug("test passed", "module", res.Module, "test", res.Name)
				continue
			}
			log.Info("test failed", "module", res.Module, "test", res.Name, "code", res.Err.Code)
			if s.Ctx.FailFast {
				return report, nil
			}
		}
	}
	return report, nil
}

// Package session ties elaboration and evaluation together for one run of
// the interpreter: a script, a test run or an interactive session.
package session

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jinko-lang/jinko/internal/analyzer"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/evaluator"
	"github.com/jinko-lang/jinko/internal/logging"
	"github.com/jinko-lang/jinko/internal/modules"
	"github.com/jinko-lang/jinko/internal/program"
	"github.com/jinko-lang/jinko/internal/typesystem"
)

type Options struct {
	MaxDepth     int
	IncludePaths []string
	Logger       *slog.Logger
	// Out receives everything the program prints. Defaults to os.Stdout.
	Out      io.Writer
	TestMode bool
	FailFast bool
}

// Session owns the context of one run. It is not safe for concurrent use.
type Session struct {
	Ctx       *program.Context
	Analyzer  *analyzer.Analyzer
	Evaluator *evaluator.Evaluator
	Logger    *slog.Logger

	sources map[string]string
	started bool
}

func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	ctx := program.NewContext(program.Options{
		MaxDepth:     opts.MaxDepth,
		IncludePaths: opts.IncludePaths,
		TestMode:     opts.TestMode,
		FailFast:     opts.FailFast,
		Logger:       opts.Logger,
	})
	return &Session{
		Ctx:       ctx,
		Analyzer:  analyzer.New(ctx),
		Evaluator: evaluator.New(ctx, opts.Out),
		Logger:    opts.Logger,
		sources:   make(map[string]string),
	}
}

// RunFile elaborates and runs the program at path.
func (s *Session) RunFile(path string) (evaluator.Object, error) {
	content, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return s.RunSource(path, content)
}

// RunSource elaborates and runs source as the main module. Includes are
// resolved relative to the directory of file.
func (s *Session) RunSource(file, source string) (evaluator.Object, error) {
	main, err := s.load(file, source)
	if err != nil {
		return nil, err
	}
	s.Logger.Debug("running", "module", main.Name, "path", main.Key)
	value, err := evaluator.Outcome(s.Evaluator.RunModule(main))
	return value, s.annotate(err)
}

func (s *Session) load(file, source string) (*modules.Module, error) {
	s.remember(file, source)
	main, err := s.Analyzer.LoadSource(file, source)
	if err != nil {
		return nil, s.annotate(err)
	}
	return main, nil
}

func (s *Session) remember(file, source string) {
	if abs, err := filepath.Abs(file); err == nil {
		s.sources[abs] = source
	}
	s.sources[file] = source
}

// annotate fills the source snippet of diagnostics.
func (s *Session) annotate(err error) error {
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) || diag.Snippet != "" || diag.File == "" || diag.Line == 0 {
		return err
	}
	src, ok := s.sources[diag.File]
	if !ok {
		content, readErr := os.ReadFile(diag.File)
		if readErr != nil {
			return err
		}
		src = string(content)
		s.sources[diag.File] = src
	}
	diag.Snippet = diagnostics.SourceLine(src, diag.Line)
	return err
}

// Start prepares an empty main module rooted at dir for Eval.
func (s *Session) Start(dir string) error {
	if _, err := s.Analyzer.StartSession(dir); err != nil {
		return s.annotate(err)
	}
	s.started = true
	return nil
}

// Eval elaborates and runs one chunk of input against the persistent main
// module. Bindings and declarations of earlier chunks stay visible. A chunk
// that fails leaves no declaration or binding behind.
func (s *Session) Eval(file, src string) (evaluator.Object, typesystem.Type, error) {
	if !s.started {
		return nil, nil, errors.New("session: Eval before Start")
	}
	s.remember(file, src)
	prog, err := modules.ParseSource(file, src)
	if err != nil {
		return nil, nil, s.annotate(err)
	}
	cp := s.Analyzer.Checkpoint()
	typ, err := s.Analyzer.AnalyzeChunk(prog)
	if err != nil {
		return nil, nil, s.annotate(err)
	}
	env := s.Evaluator.GlobalEnv(s.Ctx.Main)
	bindings := env.Bindings()
	value, err := evaluator.Outcome(s.Evaluator.EvalProgram(prog, env))
	if err != nil {
		s.Analyzer.Rollback(cp)
		env.Reset(bindings)
		return nil, nil, s.annotate(err)
	}
	return value, typ, nil
}

// ExitStatus maps the outcome of a run to a process exit status.
func ExitStatus(value evaluator.Object, err error) int {
	if err == nil {
		if value == nil {
			return 0
		}
		return evaluator.ExitCode(value)
	}
	var quit *evaluator.QuitError
	if errors.As(err, &quit) {
		return quit.Code
	}
	var diag *diagnostics.DiagnosticError
	if errors.As(err, &diag) {
		return diag.Code.ExitStatus()
	}
	return diagnostics.ExitInternal
}

func readSource(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

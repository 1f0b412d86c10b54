package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-colorable"
	"gopkg.in/urfave/cli.v1"

	"github.com/jinko-lang/jinko/internal/config"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/evaluator"
	"github.com/jinko-lang/jinko/internal/logging"
	"github.com/jinko-lang/jinko/internal/session"
)

var (
	maxDepthFlag = cli.IntFlag{
		Name:  "max-depth",
		Usage: "maximum nested function calls before a stack overflow",
	}
	includeFlag = cli.StringSliceFlag{
		Name:  "include, I",
		Usage: "additional directory searched by incl",
	}
	colorFlag = cli.StringFlag{
		Name:  "color",
		Usage: "colour diagnostics: auto, always or never",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Usage: "interpreter log level: debug, info, warn or error",
	}
	failFastFlag = cli.BoolFlag{
		Name:  "fail-fast",
		Usage: "stop at the first failing test",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "jinko"
	app.Usage = "run jinko programs"
	app.Version = config.Version
	app.ArgsUsage = "<file.jk>"
	app.Flags = []cli.Flag{maxDepthFlag, includeFlag, colorFlag, logLevelFlag}
	app.Action = runCommand
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "Run a program; the exit status is its final value",
			ArgsUsage: "<file.jk>",
			Action:    runCommand,
		},
		{
			Name:      "test",
			Usage:     "Run the test declarations of a program",
			ArgsUsage: "<file.jk>",
			Flags:     []cli.Flag{failFastFlag},
			Action:    testCommand,
		},
		{
			Name:   "repl",
			Usage:  "Start an interactive session",
			Action: replCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.status)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(diagnostics.ExitInternal)
	}
}

// exitError carries the process status out of a command action.
type exitError struct {
	status int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.status)
}

func exitWith(status int) error {
	if status == 0 {
		return nil
	}
	return &exitError{status: status}
}

// settings merges jinko.yaml found above dir with the command line.
type settings struct {
	project *config.Project
	color   bool
	logger  *slog.Logger
	stderr  io.Writer
}

func loadSettings(c *cli.Context, dir string) (*settings, error) {
	project, path, err := config.DiscoverProject(dir)
	if err != nil {
		return nil, err
	}
	if c.GlobalIsSet(maxDepthFlag.Name) {
		project.MaxDepth = c.GlobalInt(maxDepthFlag.Name)
	}
	if includes := c.GlobalStringSlice("include"); len(includes) > 0 {
		project.IncludePaths = append(project.IncludePaths, includes...)
	}
	if c.GlobalIsSet(colorFlag.Name) {
		project.Color = c.GlobalString(colorFlag.Name)
	}
	if c.GlobalIsSet(logLevelFlag.Name) {
		project.LogLevel = c.GlobalString(logLevelFlag.Name)
	}

	level, err := logging.ParseLevel(project.LogLevel)
	if err != nil {
		return nil, err
	}
	stderr := colorable.NewColorableStderr()
	s := &settings{
		project: project,
		color:   diagnostics.ColorEnabled(diagnostics.ColorMode(project.Color), os.Stderr),
		logger:  logging.New(stderr, level),
		stderr:  stderr,
	}
	if path != "" {
		s.logger.Debug("project config loaded", "path", path)
	}
	return s, nil
}

func (s *settings) session(testMode bool) *session.Session {
	return session.New(session.Options{
		MaxDepth:     s.project.MaxDepth,
		IncludePaths: s.project.IncludePaths,
		Logger:       s.logger,
		Out:          colorable.NewColorableStdout(),
		TestMode:     testMode,
		FailFast:     s.project.Test.FailFast,
	})
}

// report prints err as a diagnostic when it carries one.
func (s *settings) report(err error) {
	var diag *diagnostics.DiagnosticError
	if errors.As(err, &diag) {
		diagnostics.NewRenderer(s.stderr, s.color).Render(diag)
		return
	}
	var quit *evaluator.QuitError
	if errors.As(err, &quit) {
		return
	}
	fmt.Fprintln(s.stderr, err)
}

func sourceArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected one source file, got %d arguments", c.NArg())
	}
	path := c.Args().First()
	if !config.HasSourceExt(path) {
		return "", fmt.Errorf("%s: not a %s source file", path, config.SourceFileExt)
	}
	return path, nil
}

func runCommand(c *cli.Context) error {
	if c.NArg() == 0 && c.Command.Name == "" {
		return cli.ShowAppHelp(c)
	}
	path, err := sourceArg(c)
	if err != nil {
		return err
	}
	s, err := loadSettings(c, filepath.Dir(path))
	if err != nil {
		return err
	}

	value, err := s.session(false).RunFile(path)
	if err != nil {
		s.report(err)
	}
	return exitWith(session.ExitStatus(value, err))
}

func testCommand(c *cli.Context) error {
	path, err := sourceArg(c)
	if err != nil {
		return err
	}
	s, err := loadSettings(c, filepath.Dir(path))
	if err != nil {
		return err
	}
	if c.Bool(failFastFlag.Name) {
		s.project.Test.FailFast = true
	}

	report, err := s.session(true).RunTests(path)
	if err != nil {
		s.report(err)
		return exitWith(session.ExitStatus(nil, err))
	}
	report.Render(colorable.NewColorableStdout())
	if report.Failed() > 0 {
		return exitWith(1)
	}
	return nil
}

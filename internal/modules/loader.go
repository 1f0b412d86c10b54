package modules

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/config"
	"github.com/jinko-lang/jinko/internal/lexer"
	"github.com/jinko-lang/jinko/internal/parser"
	"github.com/jinko-lang/jinko/internal/pipeline"
	"github.com/jinko-lang/jinko/internal/utils"
)

// NotFoundError is returned when no source matches an include path.
type NotFoundError struct {
	Path     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %s not found", e.Path)
}

// Source is a located module on disk.
type Source struct {
	Key   string // absolute path
	Name  string
	Dir   string // directory for nested includes
	IsDir bool
}

// Loader locates and parses module sources.
type Loader struct {
	IncludePaths []string
	Logger       *slog.Logger
}

func NewLoader(includePaths []string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	return &Loader{IncludePaths: includePaths, Logger: logger}
}

// Locate resolves an include path. The including module's directory is
// searched first, then the configured include paths. In each location a
// directory `<name>/` takes precedence over a file `<name>.jk`.
func (l *Loader) Locate(fromDir string, path []string) (Source, error) {
	bases := append([]string{fromDir}, l.IncludePaths...)
	var searched []string

	for _, base := range bases {
		dir, file := utils.IncludeCandidates(base, path)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return Source{}, err
			}
			return Source{Key: abs, Name: utils.ExtractModuleName(abs), Dir: abs, IsDir: true}, nil
		}
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(file)
			if err != nil {
				return Source{}, err
			}
			return Source{Key: abs, Name: utils.ExtractModuleName(abs), Dir: filepath.Dir(abs)}, nil
		}
		searched = append(searched, dir+string(filepath.Separator), file)
	}

	return Source{}, &NotFoundError{Path: strings.Join(path, "/"), Searched: searched}
}

// SourceFiles lists the files of a located module, sorted by name.
func (l *Loader) SourceFiles(src Source) ([]string, error) {
	if !src.IsDir {
		return []string{src.Key}, nil
	}
	entries, err := os.ReadDir(src.Key)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && config.HasSourceExt(e.Name()) {
			files = append(files, filepath.Join(src.Key, e.Name()))
		}
	}
	// Sort for deterministic processing order
	sort.Strings(files)
	return files, nil
}

// Parse reads and parses every file of a located module.
func (l *Loader) Parse(src Source) ([]*ast.Program, error) {
	files, err := l.SourceFiles(src)
	if err != nil {
		return nil, err
	}
	l.Logger.Debug("loading module", "module", src.Name, "path", src.Key, "files", len(files))

	programs := make([]*ast.Program, 0, len(files))
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		prog, err := ParseSource(file, string(content))
		if err != nil {
			return nil, err
		}
		programs = append(programs, prog)
	}
	return programs, nil
}

// ParseSource runs the front-end pipeline over one source text.
func ParseSource(file, source string) (*ast.Program, error) {
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(&pipeline.PipelineContext{FilePath: file, SourceCode: source})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ctx.AstRoot, nil
}

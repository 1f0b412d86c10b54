package analyzer

import (
	_ "embed"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/config"
	"github.com/jinko-lang/jinko/internal/modules"
)

//go:embed prelude.jk
var preludeSource string

const preludeFile = "<builtin>/prelude.jk"

// loadBuiltin registers the prelude module once per run.
func (a *Analyzer) loadBuiltin() error {
	if a.ctx.Builtin != nil {
		return nil
	}
	prog, err := modules.ParseSource(preludeFile, preludeSource)
	if err != nil {
		return err
	}
	m := a.ctx.Modules.Add(modules.NewModule(config.BuiltinModuleName, preludeFile, ""))
	a.ctx.Builtin = m
	return a.loadUnit(m, []*ast.Program{prog})
}

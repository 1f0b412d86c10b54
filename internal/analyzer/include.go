package analyzer

import (
	"errors"
	"strings"

	"github.com/jinko-lang/jinko/internal/ast"
	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/modules"
)

// include resolves `incl path [as alias]` for the current module. A module
// met while it is still loading is an inclusion cycle: the include is a
// no-op and the includer does not see the partial module.
func (a *Analyzer) include(inc *ast.Include) error {
	path := strings.Join(inc.Path, "/")
	src, err := a.ctx.Loader.Locate(a.module.Dir, inc.Path)
	if err != nil {
		var nf *modules.NotFoundError
		if errors.As(err, &nf) {
			notes := make([]string, len(nf.Searched))
			for i, s := range nf.Searched {
				notes[i] = "searched " + s
			}
			return a.errorf(diagnostics.ErrM001, inc, "module %s not found", path).WithNotes(notes...)
		}
		return a.errorf(diagnostics.ErrM001, inc, "cannot locate module %s: %v", path, err)
	}

	dep, ok := a.ctx.Modules.Get(src.Key)
	if !ok {
		dep = a.ctx.Modules.Add(modules.NewModule(src.Name, src.Key, src.Dir))
	}
	a.info.Includes[inc] = dep

	switch dep.State() {
	case modules.Done:
		a.module.Import(inc.Qualifier(), dep)
		return nil
	case modules.InProgress:
		a.ctx.Logger.Debug("inclusion cycle", "module", a.module.Name, "includes", dep.Name, "path", dep.Key)
		return nil
	}

	files, err := a.ctx.Loader.Parse(src)
	if err != nil {
		var de *diagnostics.DiagnosticError
		if errors.As(err, &de) {
			return de
		}
		return a.errorf(diagnostics.ErrM001, inc, "cannot load module %s: %v", path, err)
	}

	if err := a.loadUnit(dep, files); err != nil {
		return err
	}
	a.module.Import(inc.Qualifier(), dep)
	a.ctx.Logger.Debug("module included", "module", dep.Name, "into", a.module.Name, "qualifier", inc.Qualifier())
	return nil
}

package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode selects how Render decorates its output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ColorEnabled resolves a mode against the environment and the given file.
func ColorEnabled(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if f == nil {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

type Renderer struct {
	out     io.Writer
	code    *color.Color
	message *color.Color
	gutter  *color.Color
	caret   *color.Color
	note    *color.Color
}

func NewRenderer(out io.Writer, useColor bool) *Renderer {
	r := &Renderer{
		out:     out,
		code:    color.New(color.FgRed, color.Bold),
		message: color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed),
		note:    color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{r.code, r.message, r.gutter, r.caret, r.note} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Render prints a diagnostic with its location and the offending source line.
func (r *Renderer) Render(e *DiagnosticError) {
	r.code.Fprintf(r.out, "error[%s] %s", e.Code, e.Code.Name())
	r.message.Fprintf(r.out, ": %s\n", e.Message)

	if e.File != "" {
		if e.Line > 0 {
			r.gutter.Fprintf(r.out, "  --> ")
			fmt.Fprintf(r.out, "%s:%d:%d\n", e.File, e.Line, e.Column)
		} else {
			r.gutter.Fprintf(r.out, "  --> ")
			fmt.Fprintf(r.out, "%s\n", e.File)
		}
	}

	if e.Snippet != "" && e.Line > 0 {
		num := fmt.Sprintf("%d", e.Line)
		pad := strings.Repeat(" ", len(num))
		r.gutter.Fprintf(r.out, " %s |\n", pad)
		r.gutter.Fprintf(r.out, " %s | ", num)
		fmt.Fprintf(r.out, "%s\n", e.Snippet)
		r.gutter.Fprintf(r.out, " %s | ", pad)
		col := e.Column
		if col < 1 {
			col = 1
		}
		r.caret.Fprintf(r.out, "%s^\n", strings.Repeat(" ", col-1))
	}

	for _, note := range e.Notes {
		r.note.Fprintf(r.out, "  = note: ")
		fmt.Fprintf(r.out, "%s\n", note)
	}
}

// SourceLine returns the 1-based line of src, without its newline.
func SourceLine(src string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

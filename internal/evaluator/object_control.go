package evaluator

import (
	"fmt"
	"strings"

	"github.com/jinko-lang/jinko/internal/diagnostics"
)

// Error is a runtime failure propagating up to the nearest handler.
type Error struct {
	Code       diagnostics.ErrorCode
	Message    string
	File       string
	Line       int
	Column     int
	StackTrace []StackFrame
}

// StackFrame for error stack traces
type StackFrame struct {
	Name   string
	File   string
	Line   int
	Column int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	var sb strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&sb, "ERROR at %d:%d: %s", e.Line, e.Column, e.Message)
	} else {
		sb.WriteString("ERROR: " + e.Message)
	}
	for _, frame := range e.StackTrace {
		fmt.Fprintf(&sb, "\n  at %s:%d:%d (called %s)", frame.File, frame.Line, frame.Column, frame.Name)
	}
	return sb.String()
}

// Diagnostic converts the error for reporting.
func (e *Error) Diagnostic() *diagnostics.DiagnosticError {
	d := &diagnostics.DiagnosticError{
		Code:    e.Code,
		File:    e.File,
		Line:    e.Line,
		Column:  e.Column,
		Message: e.Message,
	}
	for _, frame := range e.StackTrace {
		d.Notes = append(d.Notes, fmt.Sprintf("in call to %s at %s:%d:%d", frame.Name, frame.File, frame.Line, frame.Column))
	}
	return d
}

func newError(code diagnostics.ErrorCode, format string, a ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func isError(obj Object) bool {
	return obj != nil && obj.Type() == ERROR_OBJ
}

type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string  { return "Break" }

type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "Continue" }

// Quit stops the whole program with an exit code.
type Quit struct {
	Code int
}

func (q *Quit) Type() ObjectType { return QUIT_OBJ }
func (q *Quit) Inspect() string  { return fmt.Sprintf("Quit(%d)", q.Code) }

// unwinds reports whether obj interrupts the instruction sequence.
func unwinds(obj Object) bool {
	switch obj.Type() {
	case ERROR_OBJ, RETURN_VALUE_OBJ, BREAK_SIGNAL_OBJ, CONTINUE_SIGNAL_OBJ, QUIT_OBJ:
		return true
	}
	return false
}

// aborts reports whether obj must propagate past function boundaries.
func aborts(obj Object) bool {
	t := obj.Type()
	return t == ERROR_OBJ || t == QUIT_OBJ
}

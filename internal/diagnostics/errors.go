package diagnostics

import (
	"fmt"
	"strings"

	"github.com/jinko-lang/jinko/internal/token"
)

type ErrorCode string

// Parse errors
const (
	ErrP001 ErrorCode = "P001" // syntax error
)

// Elaboration errors, reported before any instruction runs.
const (
	ErrA001 ErrorCode = "A001" // discarded value
	ErrA002 ErrorCode = "A002" // arity mismatch
	ErrA003 ErrorCode = "A003" // type mismatch
	ErrA004 ErrorCode = "A004" // unknown identifier
	ErrA005 ErrorCode = "A005" // ambiguous call
	ErrA006 ErrorCode = "A006" // no matching function
	ErrA007 ErrorCode = "A007" // misplaced control flow
)

// Module errors
const (
	ErrM001 ErrorCode = "M001" // module not found
)

// Runtime errors
const (
	ErrR001 ErrorCode = "R001" // null unwrap
	ErrR002 ErrorCode = "R002" // division by zero
	ErrR003 ErrorCode = "R003" // mutation of immutable binding
	ErrR004 ErrorCode = "R004" // stack overflow
	ErrR005 ErrorCode = "R005" // assertion failed
	ErrR006 ErrorCode = "R006" // generic runtime error (index out of range, bad conversion)
)

var errorNames = map[ErrorCode]string{
	ErrP001: "SyntaxError",
	ErrA001: "DiscardedValue",
	ErrA002: "ArityMismatch",
	ErrA003: "TypeMismatch",
	ErrA004: "UnknownIdentifier",
	ErrA005: "AmbiguousCall",
	ErrA006: "NoMatchingFunction",
	ErrA007: "MisplacedControl",
	ErrM001: "ModuleNotFound",
	ErrR001: "NullUnwrap",
	ErrR002: "DivisionByZero",
	ErrR003: "MutationOfImmutable",
	ErrR004: "StackOverflow",
	ErrR005: "AssertionFailed",
	ErrR006: "RuntimeError",
}

// Exit statuses per error class. Program results use 0-99 in practice, so
// interpreter failures live above that.
var exitStatuses = map[ErrorCode]int{
	ErrP001: 101,
	ErrA001: 102,
	ErrA002: 103,
	ErrA003: 104,
	ErrA004: 105,
	ErrA005: 106,
	ErrA006: 107,
	ErrA007: 108,
	ErrM001: 110,
	ErrR001: 120,
	ErrR002: 121,
	ErrR003: 122,
	ErrR004: 123,
	ErrR005: 124,
	ErrR006: 125,
}

// ExitInternal is used for failures that carry no diagnostic code.
const ExitInternal = 126

func (c ErrorCode) Name() string {
	if name, ok := errorNames[c]; ok {
		return name
	}
	return string(c)
}

func (c ErrorCode) ExitStatus() int {
	if status, ok := exitStatuses[c]; ok {
		return status
	}
	return ExitInternal
}

// IsRuntime reports whether the code is raised while instructions execute.
func (c ErrorCode) IsRuntime() bool {
	return strings.HasPrefix(string(c), "R")
}

type DiagnosticError struct {
	Code    ErrorCode
	File    string
	Line    int
	Column  int
	Snippet string // source line the error points at, filled by the session
	Message string
	Notes   []string
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(":")
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "%d:%d: ", e.Line, e.Column)
	} else if e.File != "" {
		sb.WriteString(" ")
	}
	fmt.Fprintf(&sb, "error[%s] %s: %s", e.Code, e.Code.Name(), e.Message)
	for _, note := range e.Notes {
		sb.WriteString("\n  note: ")
		sb.WriteString(note)
	}
	return sb.String()
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Line:    tok.Line,
		Column:  tok.Column,
		Message: msg,
	}
}

func Errorf(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return NewError(code, tok, fmt.Sprintf(format, args...))
}

// WithNotes appends notes and returns the receiver.
func (e *DiagnosticError) WithNotes(notes ...string) *DiagnosticError {
	e.Notes = append(e.Notes, notes...)
	return e
}

// InFile sets the file when it is not already known.
func (e *DiagnosticError) InFile(file string) *DiagnosticError {
	if e.File == "" {
		e.File = file
	}
	return e
}

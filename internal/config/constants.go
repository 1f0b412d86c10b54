package config

import "strings"

// Version is reported by `jinko --version`.
const Version = "0.3.0"

const SourceFileExt = ".jk"

// Project configuration file names, in lookup order.
var ProjectFileNames = []string{"jinko.yaml", "jinko.yml"}

// DefaultMaxDepth bounds nested function calls.
const DefaultMaxDepth = 10000

// Module names
const (
	MainModuleName    = "main"
	BuiltinModuleName = "builtin"
	ReplModuleName    = "repl"
)

// Directive names
const (
	DumpDirective = "dump"
	QuitDirective = "quit"
)

// Builtin function names the interpreter relies on.
const (
	SomeFuncName     = "Some"
	ToStringFuncName = "to_string"
	AssertFuncName   = "assert"
)

// SelfParamName is the conventional receiver parameter name.
const SelfParamName = "self"

func HasSourceExt(path string) bool {
	return strings.HasSuffix(path, SourceFileExt)
}

func TrimSourceExt(name string) string {
	return strings.TrimSuffix(name, SourceFileExt)
}

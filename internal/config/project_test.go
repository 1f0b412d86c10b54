package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseProject_Full(t *testing.T) {
	yaml := `
max_depth: 500
include_paths:
  - lib
  - /opt/jinko
color: never
log_level: debug
test:
  fail_fast: true
`
	p, err := ParseProject([]byte(yaml), "/work/jinko.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MaxDepth != 500 {
		t.Errorf("max_depth = %d, want 500", p.MaxDepth)
	}
	if len(p.IncludePaths) != 2 {
		t.Fatalf("expected 2 include paths, got %d", len(p.IncludePaths))
	}
	if p.IncludePaths[0] != filepath.Join("/work", "lib") {
		t.Errorf("relative include path not resolved: %q", p.IncludePaths[0])
	}
	if p.IncludePaths[1] != "/opt/jinko" {
		t.Errorf("absolute include path changed: %q", p.IncludePaths[1])
	}
	if p.Color != "never" || p.LogLevel != "debug" {
		t.Errorf("color/log_level = %q/%q", p.Color, p.LogLevel)
	}
	if !p.Test.FailFast {
		t.Errorf("test.fail_fast not parsed")
	}
}

func TestParseProject_Defaults(t *testing.T) {
	p, err := ParseProject([]byte("{}"), "jinko.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MaxDepth != DefaultMaxDepth {
		t.Errorf("max_depth = %d, want %d", p.MaxDepth, DefaultMaxDepth)
	}
	if p.Color != "auto" || p.LogLevel != "warn" {
		t.Errorf("defaults = %q/%q", p.Color, p.LogLevel)
	}
}

func TestParseProject_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative depth", "max_depth: -1"},
		{"bad color", "color: sometimes"},
		{"bad level", "log_level: loud"},
		{"empty include", "include_paths: ['']"},
		{"malformed", "max_depth: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseProject([]byte(tt.yaml), "jinko.yaml"); err == nil {
				t.Fatalf("expected error for %q", tt.yaml)
			}
		})
	}
}

func TestFindProject_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, "jinko.yaml")
	if err := os.WriteFile(cfgPath, []byte("max_depth: 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := FindProject(nested)
	if err != nil {
		t.Fatal(err)
	}
	if found != cfgPath {
		t.Fatalf("found %q, want %q", found, cfgPath)
	}

	p, path, err := DiscoverProject(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path != cfgPath || p.MaxDepth != 42 {
		t.Fatalf("unexpected project %+v from %q", p, path)
	}
}

func TestSourceExt(t *testing.T) {
	if !HasSourceExt("main.jk") || HasSourceExt("main.go") {
		t.Fatalf("HasSourceExt mismatch")
	}
	if TrimSourceExt("util.jk") != "util" {
		t.Fatalf("TrimSourceExt mismatch")
	}
}

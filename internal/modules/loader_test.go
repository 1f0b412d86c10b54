package modules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocatePrefersDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "util.jk"), "func f() -> int { 1 }")
	writeFile(t, filepath.Join(root, "util", "b.jk"), "func g() -> int { 2 }")
	writeFile(t, filepath.Join(root, "util", "a.jk"), "func h() -> int { 3 }")
	writeFile(t, filepath.Join(root, "util", "notes.txt"), "ignored")

	l := NewLoader(nil, nil)
	src, err := l.Locate(root, []string{"util"})
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if !src.IsDir || src.Name != "util" {
		t.Fatalf("expected directory module util, got %+v", src)
	}

	files, err := l.SourceFiles(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.jk" || filepath.Base(files[1]) != "b.jk" {
		t.Fatalf("expected sorted a.jk, b.jk, got %v", files)
	}

	progs, err := l.Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(progs) != 2 || len(progs[0].Instructions) != 1 {
		t.Fatalf("unexpected programs %+v", progs)
	}
}

func TestLocateNestedAndIncludePaths(t *testing.T) {
	root := t.TempDir()
	lib := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "sub.jk"), "")
	writeFile(t, filepath.Join(lib, "shared.jk"), "")

	l := NewLoader([]string{lib}, nil)

	src, err := l.Locate(root, []string{"pkg", "sub"})
	if err != nil {
		t.Fatalf("nested include: %v", err)
	}
	if src.IsDir || src.Name != "sub" || src.Dir != filepath.Join(root, "pkg") {
		t.Fatalf("unexpected source %+v", src)
	}

	src, err = l.Locate(root, []string{"shared"})
	if err != nil {
		t.Fatalf("include path: %v", err)
	}
	if src.Key != filepath.Join(lib, "shared.jk") {
		t.Fatalf("expected include path hit, got %s", src.Key)
	}
}

func TestLocateNotFound(t *testing.T) {
	root := t.TempDir()
	_, err := NewLoader(nil, nil).Locate(root, []string{"missing"})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Path != "missing" || len(nf.Searched) != 2 {
		t.Fatalf("unexpected error details %+v", nf)
	}
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	if _, err := ParseSource("bad.jk", "x = ;"); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestIncludeStateTransitions(t *testing.T) {
	m := NewModule("m", "/m.jk", "/")
	if m.State() != NotStarted {
		t.Fatalf("new module should be NotStarted")
	}
	if err := m.Finish(); err == nil {
		t.Fatalf("finishing before beginning must fail")
	}
	if err := m.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := m.Begin(); err == nil {
		t.Fatalf("beginning twice must fail")
	}
	if err := m.Finish(); err != nil {
		t.Fatal(err)
	}
	if m.State() != Done || m.State().String() != "done" {
		t.Fatalf("expected done, got %s", m.State())
	}
}

func TestTableKeepsFirstRegistration(t *testing.T) {
	table := NewTable()
	a := table.Add(NewModule("a", "/x/a.jk", "/x"))
	b := table.Add(NewModule("a", "/x/a.jk", "/x"))
	if a != b || len(table.Modules()) != 1 {
		t.Fatalf("same key must map to one module")
	}
	other := table.Add(NewModule("a", "/y/a.jk", "/y"))
	if other == a || len(table.Modules()) != 2 {
		t.Fatalf("different locations are different modules")
	}
}

func TestImportDeduplicates(t *testing.T) {
	m := NewModule("main", "/main.jk", "/")
	dep := NewModule("dep", "/dep.jk", "/")
	m.Import("dep", dep)
	m.Import("d", dep)
	m.Import("dep", dep)
	if len(m.ImportOrder) != 1 {
		t.Fatalf("expected one import, got %d", len(m.ImportOrder))
	}
	if got := m.Qualifiers(); len(got) != 2 || got[0] != "d" || got[1] != "dep" {
		t.Fatalf("unexpected qualifiers %v", got)
	}
}

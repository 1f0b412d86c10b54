package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jinko-lang/jinko/internal/token"
)

func TestErrorString(t *testing.T) {
	err := NewError(ErrA005, token.Token{Line: 3, Column: 7}, "ambiguous call to `add`").
		WithNotes("candidate: a::add(int, int) -> int", "candidate: b::add(int, int) -> int").
		InFile("main.jk")

	want := "main.jk:3:7: error[A005] AmbiguousCall: ambiguous call to `add`\n" +
		"  note: candidate: a::add(int, int) -> int\n" +
		"  note: candidate: b::add(int, int) -> int"
	if err.Error() != want {
		t.Fatalf("unexpected message:\n%s\nwant:\n%s", err.Error(), want)
	}
}

func TestInFileKeepsExistingFile(t *testing.T) {
	err := NewError(ErrP001, token.Token{Line: 1, Column: 1}, "x").InFile("a.jk").InFile("b.jk")
	if err.File != "a.jk" {
		t.Fatalf("expected a.jk, got %s", err.File)
	}
}

func TestExitStatusesAreDistinct(t *testing.T) {
	seen := map[int]ErrorCode{}
	for code := range errorNames {
		status := code.ExitStatus()
		if other, ok := seen[status]; ok {
			t.Fatalf("%s and %s share exit status %d", code, other, status)
		}
		if status == 0 || status == 1 {
			t.Fatalf("%s uses reserved exit status %d", code, status)
		}
		seen[status] = code
	}
	if ErrorCode("X999").ExitStatus() != ExitInternal {
		t.Fatalf("unknown codes should map to ExitInternal")
	}
}

func TestIsRuntime(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrP001, false},
		{ErrA001, false},
		{ErrM001, false},
		{ErrR001, true},
		{ErrR004, true},
	}
	for _, tt := range tests {
		if got := tt.code.IsRuntime(); got != tt.want {
			t.Errorf("%s.IsRuntime() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestRenderWithSnippet(t *testing.T) {
	src := "x = 1;\ny = x + true;\n"
	err := NewError(ErrA003, token.Token{Line: 2, Column: 5}, "operator + expects int operands").InFile("main.jk")
	err.Snippet = SourceLine(src, err.Line)

	var buf bytes.Buffer
	NewRenderer(&buf, false).Render(err)
	out := buf.String()

	for _, want := range []string{
		"error[A003] TypeMismatch: operator + expects int operands",
		"--> main.jk:2:5",
		" 2 | y = x + true;",
		"   |     ^",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q:\n%s", want, out)
		}
	}
}

func TestColorEnabledModes(t *testing.T) {
	if !ColorEnabled(ColorAlways, nil) {
		t.Fatalf("always should enable color")
	}
	if ColorEnabled(ColorNever, nil) {
		t.Fatalf("never should disable color")
	}
	if ColorEnabled(ColorAuto, nil) {
		t.Fatalf("auto without a file should disable color")
	}
}

func TestSourceLine(t *testing.T) {
	src := "a\r\nb\nc"
	if got := SourceLine(src, 1); got != "a" {
		t.Fatalf("got %q", got)
	}
	if got := SourceLine(src, 3); got != "c" {
		t.Fatalf("got %q", got)
	}
	if got := SourceLine(src, 4); got != "" {
		t.Fatalf("got %q", got)
	}
}

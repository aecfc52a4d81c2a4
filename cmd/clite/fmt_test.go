package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const unformatted = "fn main(): int {  \nreturn 1;\t \n}"

func TestFmtCommandRequiresPath(t *testing.T) {
	err := fmtCommand(nil)
	if err == nil {
		t.Fatalf("expected path required error")
	}
	if !strings.Contains(err.Error(), "path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFmtCommandCheckDetectsUnformattedFiles(t *testing.T) {
	path := writeSourceFile(t, unformatted)
	err := fmtCommand([]string{"-check", path})
	if err == nil {
		t.Fatalf("expected formatting check failure")
	}
	if !strings.Contains(err.Error(), "need formatting") {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestFmtCommandWriteFormatsFileInPlace(t *testing.T) {
	path := writeSourceFile(t, unformatted)
	if err := fmtCommand([]string{"-w", path}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}

	updated, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read formatted file: %v", err)
	}
	if got := string(updated); got != "fn main(): int {\n  return 1;\n}\n" {
		t.Fatalf("unexpected formatted output: %q", got)
	}
}

func TestFmtCommandPrintsFormattedOutput(t *testing.T) {
	path := writeSourceFile(t, unformatted)
	out, err := captureStdout(t, func() error {
		return fmtCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("fmt command failed: %v", err)
	}
	if out != "fn main(): int {\n  return 1;\n}\n" {
		t.Fatalf("unexpected stdout output: %q", out)
	}
}

func TestFmtCommandRejectsUnlexableSource(t *testing.T) {
	path := writeSourceFile(t, "let s: string = \"open;\n")
	err := fmtCommand([]string{"-w", path})
	if err == nil || !strings.Contains(err.Error(), "unterminated string literal") {
		t.Fatalf("expected lex error, got %v", err)
	}
}

func TestFmtCommandFormatsDirectories(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.cl")
	second := filepath.Join(root, "nested", "b.cl")
	ignored := filepath.Join(root, "notes.txt")
	if err := os.MkdirAll(filepath.Dir(second), 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}
	if err := os.WriteFile(first, []byte(unformatted), 0o644); err != nil {
		t.Fatalf("write first file: %v", err)
	}
	if err := os.WriteFile(second, []byte("fn f(): int {\n\t\treturn 2;\n}"), 0o644); err != nil {
		t.Fatalf("write second file: %v", err)
	}
	if err := os.WriteFile(ignored, []byte("left   \n"), 0o644); err != nil {
		t.Fatalf("write ignored file: %v", err)
	}

	if err := fmtCommand([]string{"-w", root}); err != nil {
		t.Fatalf("fmt directory failed: %v", err)
	}
	if err := fmtCommand([]string{"-check", root}); err != nil {
		t.Fatalf("expected no formatting diffs after write, got %v", err)
	}
	notes, err := os.ReadFile(ignored)
	if err != nil {
		t.Fatalf("read ignored file: %v", err)
	}
	if string(notes) != "left   \n" {
		t.Fatalf("non-source file was rewritten: %q", notes)
	}
}

func TestFormatSourceIndentation(t *testing.T) {
	source := `fn main(): int {
let total: int = 0;
for (let i: int = 0; i < 3; i = i + 1) {
if (i == 1) {
continue;
} else {
    total = total + i;
}
}
/* keep
      this */
let s: string = "{ not a brace";   // } nor this
return total;
}`
	want := `fn main(): int {
  let total: int = 0;
  for (let i: int = 0; i < 3; i = i + 1) {
    if (i == 1) {
      continue;
    } else {
      total = total + i;
    }
  }
  /* keep
      this */
  let s: string = "{ not a brace";   // } nor this
  return total;
}
`
	got, err := formatSource(source)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected formatting:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatSourceNormalizesLineEndings(t *testing.T) {
	got, err := formatSource("let x: int = 1;\r\nlet y: int = 2;\r\n\r\n\r\n")
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if got != "let x: int = 1;\nlet y: int = 2;\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func writeSourceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.cl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return path
}

package lint

import (
	"strings"
	"testing"
)

func lintSource(t *testing.T, source string) []Warning {
	t.Helper()
	warnings, err := Lint(source, Options{})
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	return warnings
}

func codes(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}

func expectWarnings(t *testing.T, source string, want ...string) {
	t.Helper()
	warnings := lintSource(t, source)
	if got := codes(warnings); got != strings.Join(want, "\n") {
		t.Fatalf("unexpected warnings:\n%s\nwant:\n%s", got, strings.Join(want, "\n"))
	}
}

func TestLintCleanProgram(t *testing.T) {
	source := `let total: int = 0;
fn add(a: int, b: int): int { return a + b; }
fn main(): int {
  for (let i: int = 0; i < 3; i = i + 1) {
    if (i == 1) continue;
    total = add(total, i);
  }
  while (total > 100) { total = total - 1; }
  print(total);
  return total;
}`
	expectWarnings(t, source)
}

func TestLintMissingSemicolon(t *testing.T) {
	expectWarnings(t, "let x: int = 1\nlet y: int = 2;",
		"1:1: W001 possible missing ';' at end of statement",
		"2:1: E002 expected \";\", got \"let\"",
	)
	expectWarnings(t, "fn main(): int { return 1 }",
		"1:18: W001 possible missing ';' at end of statement",
		"1:27: E002 expected \";\", got \"}\"",
	)
}

func TestLintMissingSemicolonBetweenCalls(t *testing.T) {
	warnings := lintSource(t, "print(1) print(2);")
	if len(warnings) == 0 || warnings[0].Code != "W001" || warnings[0].Column != 1 {
		t.Fatalf("expected W001 on the first call, got:\n%s", codes(warnings))
	}
}

func TestLintUndefinedVariables(t *testing.T) {
	expectWarnings(t, `fn main(): int { y = 1; return z; }`,
		"1:18: W002 assignment to undefined variable 'y'",
		"1:32: W002 use of undefined variable 'z'",
	)
}

func TestLintFunctionBodiesSeeLaterGlobals(t *testing.T) {
	expectWarnings(t, `fn main(): int { return later + helper(); }
let later: int = 1;
fn helper(): int { return later; }`)
}

func TestLintBlockScopesHideLocals(t *testing.T) {
	expectWarnings(t, `fn main(): int { { let x: int = 1; } if (true) let y: int = 2; return x + y; }`,
		"1:71: W002 use of undefined variable 'x'",
	)
}

func TestLintForIncrementSeesBodyBindings(t *testing.T) {
	expectWarnings(t, `fn main(): int { for (let i: int = 0; i < 3; i = i + step) let step: int = 1; return 0; }`)
}

func TestLintNestedFunctionsAndParams(t *testing.T) {
	expectWarnings(t, `fn outer(n: int): function {
  fn inner(): int { return n + count; }
  let count: int = 0;
  return inner;
}`)
}

func TestLintMissingColon(t *testing.T) {
	warnings := lintSource(t, "let x = 1;")
	if len(warnings) < 1 || warnings[0].Code != "W003" || warnings[0].Column != 5 {
		t.Fatalf("expected W003 at column 5, got:\n%s", codes(warnings))
	}
}

func TestLintUnbalancedDelimiters(t *testing.T) {
	warnings := lintSource(t, "fn main(): int { return (1 + 2; }\n)")
	var got []string
	for _, w := range warnings {
		if w.Code == "W004" {
			got = append(got, w.String())
		}
	}
	want := []string{
		"1:16: W004 unclosed '{'",
		"1:33: W004 unmatched '}'",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected delimiter warnings:\n%s", strings.Join(got, "\n"))
	}
}

func TestLintUnmatchedCloser(t *testing.T) {
	warnings := lintSource(t, "x = 1; }")
	found := false
	for _, w := range warnings {
		if w.Code == "W004" && w.Message == "unmatched '}'" && w.Column == 8 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unmatched '}' warning, got:\n%s", codes(warnings))
	}
}

func TestLintControlMissingParen(t *testing.T) {
	warnings := lintSource(t, "while true { }")
	if len(warnings) == 0 || warnings[0].Code != "W005" || warnings[0].Message != "expected '(' after 'while'" {
		t.Fatalf("expected W005, got:\n%s", codes(warnings))
	}
}

func TestLintUnreachableStatements(t *testing.T) {
	source := `fn main(): int {
  while (true) { break; print(1); }
  if (true) { return 1; } else { return 2; }
  print(3);
}`
	expectWarnings(t, source,
		"2:25: W006 unreachable statement",
		"4:3: W006 unreachable statement",
	)
}

func TestLintLexErrorDegrades(t *testing.T) {
	expectWarnings(t, "let x: int = 1;\n@",
		"2:1: E001 unexpected character '@'",
	)
}

func TestLintDisable(t *testing.T) {
	warnings, err := Lint(`fn main(): int { y = 1; return y; }`, Options{Disable: []string{"W002"}})
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got:\n%s", codes(warnings))
	}

	if _, err := Lint("", Options{Disable: []string{"W999"}}); err == nil {
		t.Fatalf("expected unknown rule error")
	}
}

func TestLintGlobals(t *testing.T) {
	warnings, err := Lint(`fn main(): int { return host(); }`, Options{Globals: []string{"host"}})
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected host to be known, got:\n%s", codes(warnings))
	}
}

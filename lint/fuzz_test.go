package lint

import "testing"

func FuzzLintDoesNotPanic(f *testing.F) {
	f.Add("")
	f.Add("fn main(): int { return 1 }")
	f.Add("let x = 1;\n}")
	f.Add("while true { break; print(1); }")
	f.Add("\"unterminated")

	f.Fuzz(func(t *testing.T, source string) {
		if _, err := Lint(source, Options{}); err != nil {
			t.Fatalf("lint returned error without disabled rules: %v", err)
		}
	})
}

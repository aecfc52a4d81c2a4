package clite

import (
	"io"
	"testing"
)

func benchmarkProgram(b *testing.B, source string) *Program {
	b.Helper()
	program, err := ParseSource(source)
	if err != nil {
		b.Fatalf("parse failed: %v", err)
	}
	return program
}

func BenchmarkExecutionArithmeticLoop(b *testing.B) {
	program := benchmarkProgram(b, `fn main(): int {
  let total: int = 0;
  for (let i: int = 0; i < 400; i = i + 1) {
    total = total + i;
  }
  return total;
}`)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := New(Config{Stdout: io.Discard}).Run(program, "main"); err != nil {
			b.Fatalf("run failed: %v", err)
		}
	}
}

func BenchmarkExecutionRecursiveCalls(b *testing.B) {
	program := benchmarkProgram(b, `fn fib(n: int): int {
  if (n < 2) { return n; }
  return fib(n - 1) + fib(n - 2);
}
fn main(): int { return fib(15); }`)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := New(Config{Stdout: io.Discard}).Run(program, "main"); err != nil {
			b.Fatalf("run failed: %v", err)
		}
	}
}

func BenchmarkParseSource(b *testing.B) {
	source := `fn add(a: int, b: int): int { return a + b; }
fn main(): int {
  let total: int = 0;
  while (total < 100) {
    if (total % 3 == 0) { total = add(total, 2); } else { total = total + 1; }
  }
  return total;
}`

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseSource(source); err != nil {
			b.Fatalf("parse failed: %v", err)
		}
	}
}

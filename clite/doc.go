// Package clite implements a small C-like scripting language. The package
// covers three stages:
//   - Tokenize turns source text into positioned tokens.
//   - Parse builds a closed AST by recursive descent with precedence climbing.
//   - Interpreter walks the AST with lexical scopes, closures, and
//     return/break/continue.
//
// Declarations look like `let x: int = 1;` and
// `fn add(a: int, b: int): int { return a + b; }`. Type annotations are
// recorded but never checked. Comments use `//` and `/* */`.
//
// Top-level functions are hoisted before any statement runs, so they may
// call each other regardless of order. The only builtin is print.
package clite

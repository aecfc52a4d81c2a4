package clite

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenizeKindsAndPositions(t *testing.T) {
	tokens, err := Tokenize("let x: int = 42;\nfn f(): float { return 1.5; }")
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}

	want := []Token{
		{Kind: TokenKeyword, Lexeme: "let", Pos: Position{Line: 1, Column: 1}},
		{Kind: TokenIdentifier, Lexeme: "x", Pos: Position{Line: 1, Column: 5}},
		{Kind: TokenPunctuation, Lexeme: ":", Pos: Position{Line: 1, Column: 6}},
		{Kind: TokenIdentifier, Lexeme: "int", Pos: Position{Line: 1, Column: 8}},
		{Kind: TokenOperator, Lexeme: "=", Pos: Position{Line: 1, Column: 12}},
		{Kind: TokenInt, Lexeme: "42", Pos: Position{Line: 1, Column: 14}},
		{Kind: TokenPunctuation, Lexeme: ";", Pos: Position{Line: 1, Column: 16}},
		{Kind: TokenKeyword, Lexeme: "fn", Pos: Position{Line: 2, Column: 1}},
		{Kind: TokenIdentifier, Lexeme: "f", Pos: Position{Line: 2, Column: 4}},
		{Kind: TokenPunctuation, Lexeme: "(", Pos: Position{Line: 2, Column: 5}},
		{Kind: TokenPunctuation, Lexeme: ")", Pos: Position{Line: 2, Column: 6}},
		{Kind: TokenPunctuation, Lexeme: ":", Pos: Position{Line: 2, Column: 7}},
		{Kind: TokenIdentifier, Lexeme: "float", Pos: Position{Line: 2, Column: 9}},
		{Kind: TokenPunctuation, Lexeme: "{", Pos: Position{Line: 2, Column: 15}},
		{Kind: TokenKeyword, Lexeme: "return", Pos: Position{Line: 2, Column: 17}},
		{Kind: TokenFloat, Lexeme: "1.5", Pos: Position{Line: 2, Column: 24}},
		{Kind: TokenPunctuation, Lexeme: ";", Pos: Position{Line: 2, Column: 27}},
		{Kind: TokenPunctuation, Lexeme: "}", Pos: Position{Line: 2, Column: 29}},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d: expected %v, got %v", i, want[i], tokens[i])
		}
	}
}

func TestTokenizeLongestOperatorMatch(t *testing.T) {
	tokens, err := Tokenize("a == b != c <= d >= e && f || g = h")
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	var ops []string
	for _, tok := range tokens {
		if tok.Kind == TokenOperator {
			ops = append(ops, tok.Lexeme)
		}
	}
	if got := strings.Join(ops, " "); got != "== != <= >= && || =" {
		t.Fatalf("unexpected operators: %s", got)
	}
}

func TestTokenizeDropsWhitespaceAndComments(t *testing.T) {
	source := "// leading\nx /* inline */ = 1; // trailing\n/* multi\nline */ y"
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	var lexemes []string
	for _, tok := range tokens {
		lexemes = append(lexemes, tok.Lexeme)
	}
	if got := strings.Join(lexemes, " "); got != "x = 1 ; y" {
		t.Fatalf("unexpected lexemes: %q", got)
	}
	if last := tokens[len(tokens)-1]; last.Pos.Line != 4 || last.Pos.Column != 9 {
		t.Fatalf("expected y at 4:9, got %s", last.Pos)
	}
}

func TestTokenizeLexemesReconstructSource(t *testing.T) {
	source := "fn main(): int {\n  let s: string = \"a\\\"b\";\n  return (1+2)*3;\n}\n"
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}

	lines := strings.Split(source, "\n")
	offsets := make([]int, len(lines))
	for i := 1; i < len(lines); i++ {
		offsets[i] = offsets[i-1] + len(lines[i-1]) + 1
	}
	for _, tok := range tokens {
		start := offsets[tok.Pos.Line-1] + tok.Pos.Column - 1
		if got := source[start : start+len(tok.Lexeme)]; got != tok.Lexeme {
			t.Fatalf("token %v does not match source span %q", tok, got)
		}
	}
}

func TestTokenizeStringKeepsRawEscapes(t *testing.T) {
	tokens, err := Tokenize(`"tab\there"`)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Kind != TokenString || tokens[0].Lexeme != `"tab\there"` {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		source string
		kinds  []TokenKind
	}{
		{"12", []TokenKind{TokenInt}},
		{"3.25", []TokenKind{TokenFloat}},
		{"1.", []TokenKind{TokenInt, TokenPunctuation}},
		{"1.x", []TokenKind{TokenInt, TokenPunctuation, TokenIdentifier}},
	}
	for _, tc := range tests {
		tokens, err := Tokenize(tc.source)
		if err != nil {
			t.Fatalf("%q: tokenize failed: %v", tc.source, err)
		}
		if len(tokens) != len(tc.kinds) {
			t.Fatalf("%q: expected %d tokens, got %v", tc.source, len(tc.kinds), tokens)
		}
		for i, kind := range tc.kinds {
			if tokens[i].Kind != kind {
				t.Fatalf("%q: token %d expected %s, got %s", tc.source, i, kind, tokens[i].Kind)
			}
		}
	}
}

func TestTokenizeKeywordsVersusIdentifiers(t *testing.T) {
	tokens, err := Tokenize("while whiley null nullable")
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	kinds := []TokenKind{TokenKeyword, TokenIdentifier, TokenKeyword, TokenIdentifier}
	for i, kind := range kinds {
		if tokens[i].Kind != kind {
			t.Fatalf("token %q expected %s, got %s", tokens[i].Lexeme, kind, tokens[i].Kind)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		pos    Position
		lexeme string
	}{
		{name: "unexpected character", source: "let x = 1;\n  @", pos: Position{Line: 2, Column: 3}, lexeme: "@"},
		{name: "unterminated string", source: `x = "abc`, pos: Position{Line: 1, Column: 5}, lexeme: `"`},
		{name: "newline in string", source: "x = \"ab\ncd\"", pos: Position{Line: 1, Column: 5}, lexeme: `"`},
		{name: "unterminated comment", source: "x /* never", pos: Position{Line: 1, Column: 3}, lexeme: "/*"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tokenize(tc.source)
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
			if syntaxErr.Pos != tc.pos {
				t.Fatalf("expected position %s, got %s", tc.pos, syntaxErr.Pos)
			}
			if syntaxErr.Lexeme != tc.lexeme {
				t.Fatalf("expected lexeme %q, got %q", tc.lexeme, syntaxErr.Lexeme)
			}
		})
	}
}

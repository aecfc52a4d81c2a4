package clite

import "fmt"

// TokenKind identifies the lexical category of a token.
type TokenKind int

const (
	TokenIdentifier TokenKind = iota
	TokenInt
	TokenFloat
	TokenString
	TokenKeyword
	TokenOperator
	TokenPunctuation
)

var tokenKindNames = map[TokenKind]string{
	TokenIdentifier:  "identifier",
	TokenInt:         "int",
	TokenFloat:       "float",
	TokenString:      "string",
	TokenKeyword:     "keyword",
	TokenOperator:    "operator",
	TokenPunctuation: "punctuation",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Position identifies a 1-based line and column in the source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token captures lexical information for the parser. Tokens are values and
// never mutated after the lexer produces them.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Pos    Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.Kind, t.Lexeme, t.Pos)
}

// Is reports whether the token has the given kind and lexeme.
func (t Token) Is(kind TokenKind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

func (t Token) operand() {}

// Keywords is the reserved word set. Identifiers spelled like one of these
// lex as TokenKeyword.
var Keywords = map[string]struct{}{
	"let":      {},
	"fn":       {},
	"if":       {},
	"else":     {},
	"while":    {},
	"for":      {},
	"return":   {},
	"break":    {},
	"continue": {},
	"true":     {},
	"false":    {},
	"null":     {},
	"struct":   {},
	"typedef":  {},
	"var":      {},
	"const":    {},
	"func":     {},
}

// operators is ordered by descending length so the lexer takes the longest match.
var operators = []string{
	"==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "->", "<<", ">>",
	"+", "-", "*", "/", "%", "<", ">", "=", "!", "&", "|", "^", "~", "?",
}

var punctuation = map[byte]struct{}{
	'(': {}, ')': {}, '{': {}, '}': {}, '[': {}, ']': {},
	';': {}, ',': {}, '.': {}, ':': {},
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	_, ok := Keywords[word]
	return ok
}

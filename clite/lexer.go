package clite

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	line   int
	column int

	tokens []Token
}

// Tokenize converts source text into its token stream. Whitespace and
// comments are dropped. The first character that cannot start a token aborts
// the scan with a *SyntaxError.
func Tokenize(source string) ([]Token, error) {
	l := &lexer{input: source, line: 1, column: 1}
	for l.offset < len(l.input) {
		if err := l.scan(); err != nil {
			return nil, err
		}
	}
	return l.tokens, nil
}

func (l *lexer) pos() Position {
	return Position{Line: l.line, Column: l.column}
}

func (l *lexer) rest() string {
	return l.input[l.offset:]
}

func (l *lexer) peek() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) peekAt(n int) rune {
	idx := l.offset
	for i := 0; ; i++ {
		if idx >= len(l.input) {
			return 0
		}
		r, w := utf8.DecodeRuneInString(l.input[idx:])
		if i == n {
			return r
		}
		idx += w
	}
}

func (l *lexer) advance() rune {
	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += w
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) emit(kind TokenKind, start int, pos Position) {
	l.tokens = append(l.tokens, Token{Kind: kind, Lexeme: l.input[start:l.offset], Pos: pos})
}

func (l *lexer) scan() error {
	ch := l.peek()
	start := l.offset
	pos := l.pos()

	switch {
	case ch == '\n':
		l.advance()
	case ch == ' ' || ch == '\t' || ch == '\r':
		for c := l.peek(); c == ' ' || c == '\t' || c == '\r'; c = l.peek() {
			l.advance()
		}
	case strings.HasPrefix(l.rest(), "//"):
		for l.offset < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
	case strings.HasPrefix(l.rest(), "/*"):
		end := strings.Index(l.rest()[2:], "*/")
		if end < 0 {
			return &SyntaxError{Pos: pos, Lexeme: "/*", Msg: "unterminated block comment"}
		}
		stop := l.offset + 2 + end + 2
		for l.offset < stop {
			l.advance()
		}
	case ch == '"':
		return l.readString(start, pos)
	case isDigit(ch):
		l.readNumber(start, pos)
	case isIdentifierStart(ch):
		for isIdentifierRune(l.peek()) {
			l.advance()
		}
		kind := TokenIdentifier
		if IsKeyword(l.input[start:l.offset]) {
			kind = TokenKeyword
		}
		l.emit(kind, start, pos)
	default:
		return l.readOperator(ch, start, pos)
	}
	return nil
}

// readString keeps the raw quoted text, escapes included; unescaping happens
// when the literal is evaluated.
func (l *lexer) readString(start int, pos Position) error {
	l.advance()
	for {
		switch l.peek() {
		case 0, '\n':
			if l.offset >= len(l.input) || l.peek() == '\n' {
				return &SyntaxError{Pos: pos, Lexeme: `"`, Msg: "unterminated string literal"}
			}
			l.advance()
		case '\\':
			l.advance()
			if l.offset >= len(l.input) {
				return &SyntaxError{Pos: pos, Lexeme: `"`, Msg: "unterminated string literal"}
			}
			l.advance()
		case '"':
			l.advance()
			l.emit(TokenString, start, pos)
			return nil
		default:
			l.advance()
		}
	}
}

// readNumber lexes an int, or a float when a '.' is followed by a digit.
// "1." is an int followed by a '.' punctuation token.
func (l *lexer) readNumber(start int, pos Position) {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
		l.emit(TokenFloat, start, pos)
		return
	}
	l.emit(TokenInt, start, pos)
}

func (l *lexer) readOperator(ch rune, start int, pos Position) error {
	rest := l.rest()
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			for l.offset < start+len(op) {
				l.advance()
			}
			l.emit(TokenOperator, start, pos)
			return nil
		}
	}
	if ch < utf8.RuneSelf {
		if _, ok := punctuation[byte(ch)]; ok {
			l.advance()
			l.emit(TokenPunctuation, start, pos)
			return nil
		}
	}
	return &SyntaxError{
		Pos:    pos,
		Lexeme: string(ch),
		Msg:    fmt.Sprintf("unexpected character %q", ch),
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierRune(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r)
}

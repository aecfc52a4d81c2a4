package lint

import "github.com/clite-lang/clite/clite"

var (
	terminatedKeywords = map[string]struct{}{
		"let": {}, "return": {}, "break": {}, "continue": {},
	}
	statementKeywords = map[string]struct{}{
		"let": {}, "fn": {}, "if": {}, "while": {}, "for": {},
		"return": {}, "break": {}, "continue": {}, "else": {},
	}
)

func isPunct(tok clite.Token, lexeme string) bool {
	return tok.Is(clite.TokenPunctuation, lexeme)
}

func needsTerminator(tok clite.Token) bool {
	switch tok.Kind {
	case clite.TokenKeyword:
		_, ok := terminatedKeywords[tok.Lexeme]
		return ok
	case clite.TokenIdentifier, clite.TokenInt, clite.TokenFloat, clite.TokenString:
		return true
	default:
		return false
	}
}

// missingSemicolons scans statements that start outside parentheses and
// reports those that reach a likely statement boundary before any ';'.
// Function headers are skipped up to their body '{'.
func missingSemicolons(tokens []clite.Token) []Warning {
	var out []Warning
	parenDepth := 0
	inHeader := false

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		switch {
		case isPunct(tok, "{"):
			inHeader = false
			i++
			continue
		case isPunct(tok, "}"):
			i++
			continue
		case isPunct(tok, "("):
			parenDepth++
		case isPunct(tok, ")"):
			parenDepth = max(0, parenDepth-1)
		}

		if parenDepth == 0 && !inHeader {
			if tok.Is(clite.TokenKeyword, "fn") {
				inHeader = true
				i++
				continue
			}
			if needsTerminator(tok) {
				next, found := scanStatementEnd(tokens, i+1)
				if !found {
					out = append(out, newWarning("W001", tok.Pos, "possible missing ';' at end of statement"))
				}
				i = max(i+1, next)
				continue
			}
		}
		i++
	}
	return out
}

// scanStatementEnd returns the index just past the terminating ';', or the
// index of the boundary token that ended the statement without one.
func scanStatementEnd(tokens []clite.Token, from int) (int, bool) {
	depth := 0
	prev := tokens[from-1]
	for j := from; j < len(tokens); j++ {
		tok := tokens[j]
		switch {
		case isPunct(tok, "("):
			depth++
		case isPunct(tok, ")"):
			depth = max(0, depth-1)
		}
		if depth == 0 {
			if isPunct(tok, ";") {
				return j + 1, true
			}
			if isStatementBoundary(tok, prev) {
				return j, false
			}
		}
		prev = tok
	}
	return len(tokens), false
}

func isStatementBoundary(tok, prev clite.Token) bool {
	if isPunct(tok, "{") || isPunct(tok, "}") {
		return true
	}
	if tok.Kind == clite.TokenKeyword {
		_, ok := statementKeywords[tok.Lexeme]
		return ok
	}
	// print(x) y = 1;
	return tok.Kind == clite.TokenIdentifier && isPunct(prev, ")")
}

func missingLetColons(tokens []clite.Token) []Warning {
	var out []Warning
	for i := 0; i+2 < len(tokens); i++ {
		if !tokens[i].Is(clite.TokenKeyword, "let") || tokens[i+1].Kind != clite.TokenIdentifier {
			continue
		}
		if !isPunct(tokens[i+2], ":") {
			out = append(out, newWarning("W003", tokens[i+1].Pos, "missing ':' in variable declaration"))
		}
	}
	return out
}

var closers = map[string]string{")": "(", "}": "{", "]": "["}

func unbalancedDelimiters(tokens []clite.Token) []Warning {
	var out []Warning
	var stack []clite.Token
	for _, tok := range tokens {
		if tok.Kind != clite.TokenPunctuation {
			continue
		}
		switch tok.Lexeme {
		case "(", "{", "[":
			stack = append(stack, tok)
		case ")", "}", "]":
			if len(stack) == 0 || stack[len(stack)-1].Lexeme != closers[tok.Lexeme] {
				out = append(out, newWarning("W004", tok.Pos, "unmatched '%s'", tok.Lexeme))
				continue
			}
			stack = stack[:len(stack)-1]
		}
	}
	for _, open := range stack {
		out = append(out, newWarning("W004", open.Pos, "unclosed '%s'", open.Lexeme))
	}
	return out
}

func controlMissingParens(tokens []clite.Token) []Warning {
	var out []Warning
	for i, tok := range tokens {
		if tok.Kind != clite.TokenKeyword {
			continue
		}
		switch tok.Lexeme {
		case "if", "while", "for":
			if i+1 >= len(tokens) || !isPunct(tokens[i+1], "(") {
				out = append(out, newWarning("W005", tok.Pos, "expected '(' after '%s'", tok.Lexeme))
			}
		}
	}
	return out
}

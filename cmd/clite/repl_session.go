package main

import (
	"bytes"
	"errors"
	"sort"
	"strings"

	"github.com/clite-lang/clite/clite"
)

var replBuiltins = []string{"print"}

// replSession is one interactive interpreter whose print output is captured
// per evaluation.
type replSession struct {
	interp *clite.Interpreter
	out    *bytes.Buffer
}

type replVar struct {
	name  string
	value clite.Value
}

func newREPLSession() *replSession {
	out := new(bytes.Buffer)
	return &replSession{
		interp: clite.New(clite.Config{Stdout: out}),
		out:    out,
	}
}

// eval runs input against the session. Printed text precedes the rendered
// result; a null result is omitted when something was printed.
func (s *replSession) eval(input string) (string, bool) {
	s.out.Reset()
	result, err := s.interp.Eval(withTerminator(input))
	printed := strings.TrimRight(s.out.String(), "\n")
	if err != nil {
		return joinOutput(printed, err.Error()), true
	}
	if result.IsNull() && printed != "" {
		return printed, false
	}
	return joinOutput(printed, result.String()), false
}

// vars lists user bindings sorted by name, builtins excluded.
func (s *replSession) vars() []replVar {
	globals := s.interp.Globals()
	out := make([]replVar, 0, len(globals))
	for name, val := range globals {
		if val.Kind() == clite.KindBuiltin {
			continue
		}
		out = append(out, replVar{name: name, value: val})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// completions returns the builtins, keywords and bindings starting with
// prefix, sorted and deduplicated.
func (s *replSession) completions(prefix string) []string {
	seen := make(map[string]struct{})
	add := func(word string) {
		if strings.HasPrefix(word, prefix) {
			seen[word] = struct{}{}
		}
	}
	for _, name := range replBuiltins {
		add(name)
	}
	for word := range clite.Keywords {
		add(word)
	}
	for _, v := range s.vars() {
		add(v.name)
	}
	out := make([]string, 0, len(seen))
	for word := range seen {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

func joinOutput(printed, tail string) string {
	if printed == "" {
		return tail
	}
	return printed + "\n" + tail
}

// withTerminator lets an expression be typed without its trailing ';'.
func withTerminator(input string) string {
	trimmed := strings.TrimRight(input, " \t\r\n")
	if trimmed == "" || strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
		return trimmed
	}
	return trimmed + ";"
}

// needsMoreInput reports whether src stops inside an open brace or paren, so
// a line-based prompt should keep reading.
func needsMoreInput(src string) bool {
	_, err := clite.ParseSource(src)
	var syntaxErr *clite.SyntaxError
	if !errors.As(err, &syntaxErr) || !syntaxErr.EOF {
		return false
	}
	tokens, err := clite.Tokenize(src)
	if err != nil {
		return false
	}
	depth := 0
	for _, tok := range tokens {
		if tok.Kind != clite.TokenPunctuation {
			continue
		}
		switch tok.Lexeme {
		case "(", "{":
			depth++
		case ")", "}":
			depth--
		}
	}
	return depth > 0
}

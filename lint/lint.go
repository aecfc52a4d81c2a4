// Package lint reports likely mistakes in clite source without running it.
//
// Token rules run on any source the lexer accepts. Rules that need the AST
// run only when the source parses; a failed parse becomes one E002 warning
// and the token rules still report.
package lint

import (
	"errors"
	"fmt"
	"sort"

	"github.com/clite-lang/clite/clite"
)

// Warning is one diagnostic at a 1-based line and column.
type Warning struct {
	Code    string
	Message string
	Line    int
	Column  int
}

func (w Warning) String() string {
	return fmt.Sprintf("%d:%d: %s %s", w.Line, w.Column, w.Code, w.Message)
}

// Rule describes one diagnostic code.
type Rule struct {
	Code    string
	Summary string
}

// Rules lists every code Lint can report.
var Rules = []Rule{
	{Code: "E001", Summary: "source could not be tokenized"},
	{Code: "E002", Summary: "source could not be parsed"},
	{Code: "W001", Summary: "possible missing ';' at end of statement"},
	{Code: "W002", Summary: "use of or assignment to an undefined variable"},
	{Code: "W003", Summary: "missing ':' in variable declaration"},
	{Code: "W004", Summary: "unmatched or unclosed delimiter"},
	{Code: "W005", Summary: "expected '(' after if, while or for"},
	{Code: "W006", Summary: "unreachable statement"},
}

// Options tunes a Lint run.
type Options struct {
	// Disable suppresses the listed codes.
	Disable []string
	// Globals names host bindings that exist before the script runs, in
	// addition to print.
	Globals []string
}

// Lint checks source and returns its warnings sorted by position. The error
// is non-nil only for invalid Options.
func Lint(source string, opts Options) ([]Warning, error) {
	disabled, err := opts.disabledCodes()
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	tokens, err := clite.Tokenize(source)
	if err != nil {
		warnings = append(warnings, syntaxWarning("E001", err))
		return filter(warnings, disabled), nil
	}

	warnings = append(warnings, missingSemicolons(tokens)...)
	warnings = append(warnings, missingLetColons(tokens)...)
	warnings = append(warnings, unbalancedDelimiters(tokens)...)
	warnings = append(warnings, controlMissingParens(tokens)...)

	program, err := clite.Parse(tokens)
	if err != nil {
		warnings = append(warnings, syntaxWarning("E002", err))
	} else {
		warnings = append(warnings, undefinedVariables(program, opts.Globals)...)
		warnings = append(warnings, unreachableStatements(program)...)
	}

	return filter(warnings, disabled), nil
}

func (opts Options) disabledCodes() (map[string]struct{}, error) {
	known := make(map[string]struct{}, len(Rules))
	for _, rule := range Rules {
		known[rule.Code] = struct{}{}
	}
	disabled := make(map[string]struct{}, len(opts.Disable))
	for _, code := range opts.Disable {
		if _, ok := known[code]; !ok {
			return nil, fmt.Errorf("lint: unknown rule %q", code)
		}
		disabled[code] = struct{}{}
	}
	return disabled, nil
}

func syntaxWarning(code string, err error) Warning {
	var syntaxErr *clite.SyntaxError
	if errors.As(err, &syntaxErr) {
		return Warning{Code: code, Message: syntaxErr.Msg, Line: syntaxErr.Pos.Line, Column: syntaxErr.Pos.Column}
	}
	return Warning{Code: code, Message: err.Error(), Line: 1, Column: 1}
}

func filter(warnings []Warning, disabled map[string]struct{}) []Warning {
	out := make([]Warning, 0, len(warnings))
	for _, w := range warnings {
		if _, off := disabled[w.Code]; off {
			continue
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		if out[i].Column != out[j].Column {
			return out[i].Column < out[j].Column
		}
		return out[i].Code < out[j].Code
	})
	return out
}

func newWarning(code string, pos clite.Position, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...), Line: pos.Line, Column: pos.Column}
}

package clite

import (
	"errors"
	"fmt"
	"strings"
)

// SyntaxError reports malformed input found by the lexer or the parser.
type SyntaxError struct {
	Pos Position
	// Lexeme is the offending character (lexer) or token text (parser).
	Lexeme string
	// Token is the unexpected token for parser failures; nil for lexer
	// failures and for a premature end of input.
	Token     *Token
	EOF       bool
	Msg       string
	CodeFrame string
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("syntax error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	if e.CodeFrame != "" {
		msg += "\n" + e.CodeFrame
	}
	return msg
}

func withCodeFrame(err error, source string) error {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.CodeFrame == "" {
		syntaxErr.CodeFrame = formatCodeFrame(source, syntaxErr.Pos)
	}
	return err
}

// fault is implemented by the typed runtime failures wrapped in RuntimeError.
type fault interface {
	error
	faultKind() string
}

// NameError reports a read of a name unbound in every reachable scope.
type NameError struct {
	Name string
}

func (e *NameError) Error() string     { return fmt.Sprintf("undefined variable '%s'", e.Name) }
func (e *NameError) faultKind() string { return "NameError" }

// ArityError reports a call with the wrong number of arguments.
type ArityError struct {
	Function string
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("function %s expected %d args, got %d", e.Function, e.Expected, e.Actual)
}
func (e *ArityError) faultKind() string { return "ArityError" }

// CallError reports an attempt to call a value that is not callable.
type CallError struct {
	Kind ValueKind
}

func (e *CallError) Error() string {
	return fmt.Sprintf("attempted to call a non-callable value of kind %s", e.Kind)
}
func (e *CallError) faultKind() string { return "CallError" }

// UnsupportedOperationError reports an operator applied to operand kinds it
// does not define. Right is unused for unary operators.
type UnsupportedOperationError struct {
	Operator string
	Left     ValueKind
	Right    ValueKind
	Unary    bool
}

func (e *UnsupportedOperationError) Error() string {
	if e.Unary {
		return fmt.Sprintf("unsupported operand kind for unary %s: %s", e.Operator, e.Left)
	}
	return fmt.Sprintf("unsupported operand kinds for %s: %s and %s", e.Operator, e.Left, e.Right)
}
func (e *UnsupportedOperationError) faultKind() string { return "UnsupportedOperationError" }

// ArithmeticError reports division or modulo by zero, integer overflow, an
// out-of-range literal, or an oversized string repetition.
type ArithmeticError struct {
	Msg string
}

func (e *ArithmeticError) Error() string     { return e.Msg }
func (e *ArithmeticError) faultKind() string { return "ArithmeticError" }

// RecursionError reports a call chain deeper than Config.RecursionLimit.
type RecursionError struct {
	Limit int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("maximum recursion depth %d exceeded", e.Limit)
}
func (e *RecursionError) faultKind() string { return "RecursionError" }

// ControlFlowError reports return/break/continue with no construct to catch it.
type ControlFlowError struct {
	Statement string
	Outside   string
}

func (e *ControlFlowError) Error() string {
	return fmt.Sprintf("'%s' outside %s", e.Statement, e.Outside)
}
func (e *ControlFlowError) faultKind() string { return "ControlFlowError" }

// StackFrame names a function and the position reached within it.
type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError is the single terminal failure surfaced by Run. Err holds the
// typed cause; use errors.As to inspect it.
type RuntimeError struct {
	Err       error
	Pos       Position
	CodeFrame string
	Frames    []StackFrame
}

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

func (re *RuntimeError) Error() string {
	var b strings.Builder
	if f, ok := re.Err.(fault); ok {
		b.WriteString(f.faultKind())
		b.WriteString(": ")
	}
	b.WriteString(re.Err.Error())
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 && frame.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

func (re *RuntimeError) Unwrap() error {
	return re.Err
}

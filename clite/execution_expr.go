package clite

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// evalOperand accepts either form the parser stores in a value position.
func (in *Interpreter) evalOperand(op Operand, env *Env) (Value, error) {
	switch v := op.(type) {
	case Token:
		return in.evalLiteral(v)
	case Expression:
		return in.evalExpression(v, env)
	default:
		panic(fmt.Sprintf("clite: unhandled operand %T", op))
	}
}

func (in *Interpreter) evalExpression(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return in.evalLiteral(e.Token)
	case *Identifier:
		val, ok := env.Get(e.Name)
		if !ok {
			return NewNull(), in.runtimeError(&NameError{Name: e.Name}, e.Pos())
		}
		return val, nil
	case *UnaryExpr:
		operand, err := in.evalExpression(e.Operand, env)
		if err != nil {
			return NewNull(), err
		}
		val, err := unaryOp(e.Operator, operand)
		if err != nil {
			return NewNull(), in.runtimeError(err, e.Pos())
		}
		return val, nil
	case *BinaryExpr:
		return in.evalBinary(e, env)
	case *CallExpr:
		return in.evalCall(e, env)
	default:
		panic(fmt.Sprintf("clite: unhandled expression %T", expr))
	}
}

func (in *Interpreter) evalBinary(expr *BinaryExpr, env *Env) (Value, error) {
	left, err := in.evalExpression(expr.Left, env)
	if err != nil {
		return NewNull(), err
	}

	switch expr.Operator {
	case "&&":
		if !left.Truthy() {
			return NewBool(false), nil
		}
		return in.evalTruthiness(expr.Right, env)
	case "||":
		if left.Truthy() {
			return NewBool(true), nil
		}
		return in.evalTruthiness(expr.Right, env)
	}

	right, err := in.evalExpression(expr.Right, env)
	if err != nil {
		return NewNull(), err
	}
	val, err := binaryOp(expr.Operator, left, right)
	if err != nil {
		return NewNull(), in.runtimeError(err, expr.Pos())
	}
	return val, nil
}

func (in *Interpreter) evalTruthiness(expr Expression, env *Env) (Value, error) {
	val, err := in.evalExpression(expr, env)
	if err != nil {
		return NewNull(), err
	}
	return NewBool(val.Truthy()), nil
}

func (in *Interpreter) evalCall(expr *CallExpr, env *Env) (Value, error) {
	callee, err := in.evalExpression(expr.Callee, env)
	if err != nil {
		return NewNull(), err
	}
	args := make([]Value, 0, len(expr.Args))
	for _, argExpr := range expr.Args {
		arg, err := in.evalExpression(argExpr, env)
		if err != nil {
			return NewNull(), err
		}
		args = append(args, arg)
	}
	return in.callValue(callee, args, expr.Pos())
}

func (in *Interpreter) callValue(callee Value, args []Value, pos Position) (Value, error) {
	switch callee.Kind() {
	case KindFunction:
		return in.callFunction(callee.Function(), args, pos)
	case KindBuiltin:
		builtin := callee.Builtin()
		val, err := builtin.Fn(in, args)
		if err != nil {
			return NewNull(), in.runtimeError(err, pos)
		}
		return val, nil
	default:
		return NewNull(), in.runtimeError(&CallError{Kind: callee.Kind()}, pos)
	}
}

// callFunction binds args in a fresh scope parented at the function's
// captured environment. A return ends the call; break and continue may not
// cross it.
func (in *Interpreter) callFunction(fn *Function, args []Value, pos Position) (Value, error) {
	if len(args) != len(fn.Params) {
		return NewNull(), in.runtimeError(&ArityError{Function: fn.Name, Expected: len(fn.Params), Actual: len(args)}, pos)
	}
	if err := in.pushFrame(fn.Name, pos); err != nil {
		return NewNull(), err
	}
	defer in.popFrame()

	callEnv := NewEnv(fn.Env)
	for i, param := range fn.Params {
		callEnv.Define(param.Name, args[i])
	}

	switch sig := in.execBlock(fn.Body, callEnv).(type) {
	case nil:
		return NewNull(), nil
	case *returnSignal:
		return sig.value, nil
	case *breakSignal:
		return NewNull(), in.runtimeError(&ControlFlowError{Statement: "break", Outside: "loop"}, sig.pos)
	case *continueSignal:
		return NewNull(), in.runtimeError(&ControlFlowError{Statement: "continue", Outside: "loop"}, sig.pos)
	default:
		return NewNull(), sig
	}
}

func (in *Interpreter) evalLiteral(tok Token) (Value, error) {
	switch tok.Kind {
	case TokenInt:
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return NewNull(), in.runtimeError(&ArithmeticError{Msg: fmt.Sprintf("integer literal %s out of range", tok.Lexeme)}, tok.Pos)
		}
		return NewInt(n), nil
	case TokenFloat:
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return NewNull(), in.runtimeError(&ArithmeticError{Msg: fmt.Sprintf("float literal %s out of range", tok.Lexeme)}, tok.Pos)
		}
		return NewFloat(f), nil
	case TokenString:
		return NewString(unescapeString(tok.Lexeme)), nil
	case TokenKeyword:
		switch tok.Lexeme {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		case "null":
			return NewNull(), nil
		}
	}
	panic(fmt.Sprintf("clite: token %s is not a literal", tok))
}

// unescapeString strips the quotes from a raw string lexeme and resolves
// backslash escapes. Unknown escapes are kept verbatim.
func unescapeString(raw string) string {
	body := raw
	if len(body) >= 2 && body[0] == '"' && body[len(body)-1] == '"' {
		body = body[1 : len(body)-1]
	}
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for len(body) > 0 {
		if strings.HasPrefix(body, `\'`) {
			b.WriteByte('\'')
			body = body[2:]
			continue
		}
		r, multibyte, tail, err := strconv.UnquoteChar(body, '"')
		if err != nil {
			b.WriteByte(body[0])
			body = body[1:]
			continue
		}
		if r < utf8.RuneSelf || !multibyte {
			b.WriteByte(byte(r))
		} else {
			b.WriteRune(r)
		}
		body = tail
	}
	return b.String()
}

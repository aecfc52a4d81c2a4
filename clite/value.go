package clite

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindFunction
	KindBuiltin
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a tagged runtime value. The zero Value is null.
type Value struct {
	kind ValueKind
	data any
}

// Function is a declared function closed over its defining environment.
// The captured Env stays reachable for as long as the Function is.
type Function struct {
	Name       string
	Params     []Param
	ReturnType string
	Body       *Block
	Env        *Env
	Pos        Position
}

// BuiltinFunc is a host-provided callable. It receives evaluated arguments.
type BuiltinFunc func(in *Interpreter, args []Value) (Value, error)

type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func NewNull() Value { return Value{kind: KindNull} }

func NewBool(b bool) Value { return Value{kind: KindBool, data: b} }

func NewInt(i int64) Value { return Value{kind: KindInt, data: i} }

func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }

func NewString(s string) Value { return Value{kind: KindString, data: s} }

func NewFunction(fn *Function) Value { return Value{kind: KindFunction, data: fn} }

func NewBuiltin(name string, fn BuiltinFunc) Value {
	return Value{kind: KindBuiltin, data: &Builtin{Name: name, Fn: fn}}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

func (v Value) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

func (v Value) Int() int64 {
	i, _ := v.data.(int64)
	return i
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	default:
		return 0
	}
}

func (v Value) Str() string {
	s, _ := v.data.(string)
	return s
}

func (v Value) Function() *Function {
	fn, _ := v.data.(*Function)
	return fn
}

func (v Value) Builtin() *Builtin {
	b, _ := v.data.(*Builtin)
	return b
}

func (v Value) isNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Truthy reports the value's truthiness: null, false, numeric zero and the
// empty string are falsy; everything else is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int() != 0
	case KindFloat:
		return v.Float() != 0
	case KindString:
		return v.Str() != ""
	default:
		return true
	}
}

// Equal compares by value. Numbers compare numerically across int and float;
// functions and builtins compare by identity; other mixed kinds are unequal.
func (v Value) Equal(other Value) bool {
	if v.isNumeric() && other.isNumeric() {
		if v.kind == KindInt && other.kind == KindInt {
			return v.Int() == other.Int()
		}
		return v.Float() == other.Float()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindString:
		return v.Str() == other.Str()
	case KindFunction:
		return v.Function() == other.Function()
	case KindBuiltin:
		return v.Builtin() == other.Builtin()
	default:
		return false
	}
}

// String renders the value the way print shows it.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case KindFloat:
		return formatFloat(v.Float())
	case KindString:
		return v.Str()
	case KindFunction:
		return fmt.Sprintf("<fn %s>", v.Function().Name)
	case KindBuiltin:
		return fmt.Sprintf("<builtin %s>", v.Builtin().Name)
	default:
		return "<unknown>"
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

package clite

import (
	"fmt"
	"strings"
)

func builtinPrint(in *Interpreter, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	if _, err := fmt.Fprintln(in.config.Stdout, strings.Join(parts, " ")); err != nil {
		return NewNull(), fmt.Errorf("print: %w", err)
	}
	return NewNull(), nil
}

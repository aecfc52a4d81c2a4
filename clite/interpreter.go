package clite

import (
	"io"
	"os"
	"sort"
)

// Config controls interpreter output and execution bounds.
type Config struct {
	Stdout         io.Writer
	RecursionLimit int
}

type callFrame struct {
	Function string
	Pos      Position
}

// Interpreter is one session: a global environment and the table of hoisted
// top-level functions. It is not safe for concurrent use.
type Interpreter struct {
	config    Config
	globals   *Env
	functions map[string]*Function
	callStack []callFrame
	source    string
}

// New constructs an Interpreter with defaults applied and print registered.
func New(cfg Config) *Interpreter {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 1000
	}

	in := &Interpreter{
		config:    cfg,
		globals:   NewEnv(nil),
		functions: make(map[string]*Function),
		callStack: make([]callFrame, 0, 8),
	}
	in.RegisterBuiltin("print", builtinPrint)
	return in
}

// RegisterBuiltin binds a host callable into the global environment.
func (in *Interpreter) RegisterBuiltin(name string, fn BuiltinFunc) {
	in.globals.Define(name, NewBuiltin(name, fn))
}

// Run hoists every top-level function, executes the remaining top-level
// statements in order, then invokes entry with no arguments when it names a
// declared function. The result is the entry's return value, or null.
func (in *Interpreter) Run(program *Program, entry string) (Value, error) {
	in.source = program.Source
	in.callStack = in.callStack[:0]
	in.hoist(program)

	for _, stmt := range program.Statements {
		if _, ok := stmt.(*FuncDecl); ok {
			continue
		}
		if err := in.execStatement(stmt, in.globals); err != nil {
			return NewNull(), in.escapedSignal(err)
		}
	}

	if entry == "" {
		return NewNull(), nil
	}
	fn, ok := in.functions[entry]
	if !ok {
		return NewNull(), nil
	}
	result, err := in.callFunction(fn, nil, fn.Pos)
	if err != nil {
		return NewNull(), in.escapedSignal(err)
	}
	return result, nil
}

// RunSource parses source and runs it against this session.
func (in *Interpreter) RunSource(source, entry string) (Value, error) {
	program, err := ParseSource(source)
	if err != nil {
		return NewNull(), err
	}
	return in.Run(program, entry)
}

// Run executes source in a fresh session with the default Config.
func Run(source, entry string) (Value, error) {
	return New(Config{}).RunSource(source, entry)
}

// Eval runs a source fragment against the persistent session and returns the
// value of its final statement when that statement is an expression.
func (in *Interpreter) Eval(source string) (Value, error) {
	program, err := ParseSource(source)
	if err != nil {
		return NewNull(), err
	}
	in.source = program.Source
	in.callStack = in.callStack[:0]
	in.hoist(program)

	result := NewNull()
	for _, stmt := range program.Statements {
		result = NewNull()
		switch s := stmt.(type) {
		case *FuncDecl:
			continue
		case *ExprStmt:
			val, err := in.evalExpression(s.Expr, in.globals)
			if err != nil {
				return NewNull(), in.escapedSignal(err)
			}
			result = val
		default:
			if err := in.execStatement(stmt, in.globals); err != nil {
				return NewNull(), in.escapedSignal(err)
			}
		}
	}
	return result, nil
}

// Globals returns a snapshot of the global bindings, builtins included.
func (in *Interpreter) Globals() map[string]Value {
	out := make(map[string]Value, len(in.globals.values))
	for name, val := range in.globals.values {
		out[name] = val
	}
	return out
}

// Functions lists the hoisted top-level functions sorted by name.
func (in *Interpreter) Functions() []*Function {
	out := make([]*Function, 0, len(in.functions))
	for _, fn := range in.functions {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (in *Interpreter) hoist(program *Program) {
	for _, stmt := range program.Statements {
		decl, ok := stmt.(*FuncDecl)
		if !ok {
			continue
		}
		fn := newFunction(decl, in.globals)
		in.functions[decl.Name] = fn
		in.globals.Define(decl.Name, NewFunction(fn))
	}
}

func newFunction(decl *FuncDecl, env *Env) *Function {
	return &Function{
		Name:       decl.Name,
		Params:     decl.Params,
		ReturnType: decl.ReturnType,
		Body:       decl.Body,
		Env:        env,
		Pos:        decl.Pos(),
	}
}

func (in *Interpreter) pushFrame(function string, pos Position) error {
	if in.config.RecursionLimit > 0 && len(in.callStack) >= in.config.RecursionLimit {
		return in.runtimeError(&RecursionError{Limit: in.config.RecursionLimit}, pos)
	}
	in.callStack = append(in.callStack, callFrame{Function: function, Pos: pos})
	return nil
}

func (in *Interpreter) popFrame() {
	if len(in.callStack) == 0 {
		return
	}
	in.callStack = in.callStack[:len(in.callStack)-1]
}

// runtimeError wraps a typed fault with its position, a code frame and the
// call stack as it stands at the failure site.
func (in *Interpreter) runtimeError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*RuntimeError); ok {
		return err
	}

	frames := make([]StackFrame, 0, len(in.callStack)+1)
	if len(in.callStack) > 0 {
		frames = append(frames, StackFrame{Function: in.callStack[len(in.callStack)-1].Function, Pos: pos})
		// Each call site lives in the caller's frame.
		for i := len(in.callStack) - 1; i >= 0; i-- {
			caller := "<script>"
			if i > 0 {
				caller = in.callStack[i-1].Function
			}
			frames = append(frames, StackFrame{Function: caller, Pos: in.callStack[i].Pos})
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: pos})
	}

	return &RuntimeError{
		Err:       err,
		Pos:       pos,
		CodeFrame: formatCodeFrame(in.source, pos),
		Frames:    frames,
	}
}

// escapedSignal turns a control-transfer signal that reached the top level
// into a ControlFlowError. Other errors pass through unchanged.
func (in *Interpreter) escapedSignal(err error) error {
	switch sig := err.(type) {
	case *returnSignal:
		return in.runtimeError(&ControlFlowError{Statement: "return", Outside: "function"}, sig.pos)
	case *breakSignal:
		return in.runtimeError(&ControlFlowError{Statement: "break", Outside: "loop"}, sig.pos)
	case *continueSignal:
		return in.runtimeError(&ControlFlowError{Statement: "continue", Outside: "loop"}, sig.pos)
	default:
		return err
	}
}

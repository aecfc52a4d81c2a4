package clite

import "fmt"

func (in *Interpreter) execStatement(stmt Statement, env *Env) error {
	switch s := stmt.(type) {
	case *Block:
		return in.execBlock(s, NewEnv(env))
	case *VarDecl:
		val, err := in.evalExpression(s.Init, env)
		if err != nil {
			return err
		}
		env.Define(s.Name, val)
		return nil
	case *FuncDecl:
		env.Define(s.Name, NewFunction(newFunction(s, env)))
		return nil
	case *AssignStmt:
		val, err := in.evalOperand(s.Value, env)
		if err != nil {
			return err
		}
		env.Assign(s.Name, val)
		return nil
	case *ExprStmt:
		_, err := in.evalExpression(s.Expr, env)
		return err
	case *IfStmt:
		return in.execIf(s, env)
	case *WhileStmt:
		return in.execWhile(s, env)
	case *ForStmt:
		return in.execFor(s, env)
	case *ReturnStmt:
		val := NewNull()
		if s.Value != nil {
			var err error
			val, err = in.evalOperand(s.Value, env)
			if err != nil {
				return err
			}
		}
		return &returnSignal{value: val, pos: s.Pos()}
	case *BreakStmt:
		return &breakSignal{pos: s.Pos()}
	case *ContinueStmt:
		return &continueSignal{pos: s.Pos()}
	default:
		panic(fmt.Sprintf("clite: unhandled statement %T", stmt))
	}
}

// execBlock runs statements in env, which the caller has already opened.
func (in *Interpreter) execBlock(block *Block, env *Env) error {
	for _, stmt := range block.Statements {
		if err := in.execStatement(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execIf(stmt *IfStmt, env *Env) error {
	cond, err := in.evalExpression(stmt.Condition, env)
	if err != nil {
		return err
	}
	if cond.Truthy() {
		return in.execStatement(stmt.Then, env)
	}
	if stmt.Else != nil {
		return in.execStatement(stmt.Else, env)
	}
	return nil
}

func (in *Interpreter) execWhile(stmt *WhileStmt, env *Env) error {
	for {
		cond, err := in.evalExpression(stmt.Condition, env)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			return nil
		}
		switch err := in.execStatement(stmt.Body, env); err.(type) {
		case nil, *continueSignal:
		case *breakSignal:
			return nil
		default:
			return err
		}
	}
}

func (in *Interpreter) execFor(stmt *ForStmt, env *Env) error {
	if err := in.execStatement(stmt.Init, env); err != nil {
		return err
	}
	for {
		cond, err := in.evalExpression(stmt.Condition, env)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			return nil
		}
		switch err := in.execForBody(stmt, env); err.(type) {
		case nil, *continueSignal:
		case *breakSignal:
			return nil
		default:
			return err
		}
	}
}

// execForBody runs one iteration. The increment runs on every exit path,
// including break and return; an increment failure replaces the body's result.
func (in *Interpreter) execForBody(stmt *ForStmt, env *Env) (err error) {
	defer func() {
		if incErr := in.execStatement(stmt.Increment, env); incErr != nil {
			err = incErr
		}
	}()
	return in.execStatement(stmt.Body, env)
}

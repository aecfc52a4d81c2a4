package lint

import (
	"fmt"

	"github.com/clite-lang/clite/clite"
)

// scopeWalker mirrors the interpreter's scoping: blocks open a scope, bare
// branches and for-loop init share the enclosing one, and assignment to an
// unknown name defines it locally. Function bodies are checked once the
// enclosing scope is complete, since they only run when called.
type scopeWalker struct {
	scopes  []map[string]struct{}
	pending [][]*clite.FuncDecl
	out     []Warning
}

func undefinedVariables(program *clite.Program, globals []string) []Warning {
	w := &scopeWalker{}
	w.push()
	w.define("print")
	for _, name := range globals {
		w.define(name)
	}
	for _, stmt := range program.Statements {
		if decl, ok := stmt.(*clite.FuncDecl); ok {
			w.define(decl.Name)
		}
	}
	w.visitStatements(program.Statements)
	w.pop()
	return w.out
}

func (w *scopeWalker) push() {
	w.scopes = append(w.scopes, make(map[string]struct{}))
	w.pending = append(w.pending, nil)
}

// pop checks functions declared in the closing scope, then discards it.
func (w *scopeWalker) pop() {
	top := len(w.pending) - 1
	for len(w.pending[top]) > 0 {
		decl := w.pending[top][0]
		w.pending[top] = w.pending[top][1:]
		w.visitFunction(decl)
	}
	w.scopes = w.scopes[:len(w.scopes)-1]
	w.pending = w.pending[:top]
}

func (w *scopeWalker) define(name string) {
	w.scopes[len(w.scopes)-1][name] = struct{}{}
}

func (w *scopeWalker) defined(name string) bool {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		if _, ok := w.scopes[i][name]; ok {
			return true
		}
	}
	return false
}

func (w *scopeWalker) visitFunction(decl *clite.FuncDecl) {
	w.push()
	for _, param := range decl.Params {
		w.define(param.Name)
	}
	w.visitStatements(decl.Body.Statements)
	w.pop()
}

func (w *scopeWalker) visitStatements(stmts []clite.Statement) {
	for _, stmt := range stmts {
		w.visitStatement(stmt)
	}
}

func (w *scopeWalker) visitStatement(stmt clite.Statement) {
	switch s := stmt.(type) {
	case *clite.Block:
		w.push()
		w.visitStatements(s.Statements)
		w.pop()
	case *clite.VarDecl:
		w.visitExpression(s.Init)
		w.define(s.Name)
	case *clite.FuncDecl:
		w.define(s.Name)
		top := len(w.pending) - 1
		w.pending[top] = append(w.pending[top], s)
	case *clite.AssignStmt:
		undefined := !w.defined(s.Name)
		w.visitOperand(s.Value)
		if undefined {
			w.out = append(w.out, newWarning("W002", s.Pos(), "assignment to undefined variable '%s'", s.Name))
			w.define(s.Name)
		}
	case *clite.ExprStmt:
		w.visitExpression(s.Expr)
	case *clite.IfStmt:
		w.visitExpression(s.Condition)
		w.visitStatement(s.Then)
		if s.Else != nil {
			w.visitStatement(s.Else)
		}
	case *clite.WhileStmt:
		w.visitExpression(s.Condition)
		w.visitStatement(s.Body)
	case *clite.ForStmt:
		w.visitStatement(s.Init)
		w.visitExpression(s.Condition)
		w.visitStatement(s.Body)
		w.visitStatement(s.Increment)
	case *clite.ReturnStmt:
		if s.Value != nil {
			w.visitOperand(s.Value)
		}
	case *clite.BreakStmt, *clite.ContinueStmt:
	default:
		panic(fmt.Sprintf("lint: unhandled statement %T", stmt))
	}
}

func (w *scopeWalker) visitOperand(op clite.Operand) {
	if expr, ok := op.(clite.Expression); ok {
		w.visitExpression(expr)
	}
}

func (w *scopeWalker) visitExpression(expr clite.Expression) {
	switch e := expr.(type) {
	case *clite.Identifier:
		if !w.defined(e.Name) {
			w.out = append(w.out, newWarning("W002", e.Pos(), "use of undefined variable '%s'", e.Name))
		}
	case *clite.UnaryExpr:
		w.visitExpression(e.Operand)
	case *clite.BinaryExpr:
		w.visitExpression(e.Left)
		w.visitExpression(e.Right)
	case *clite.CallExpr:
		w.visitExpression(e.Callee)
		for _, arg := range e.Args {
			w.visitExpression(arg)
		}
	}
}

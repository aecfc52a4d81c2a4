package clite

// Node is implemented by every AST node. The set of node types is closed:
// the marker methods are unexported so no other package can add variants.
type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

// Operand is what the evaluator accepts wherever a value is expected: either
// an Expression or, for bare-literal return/assignment values, the raw Token.
type Operand interface {
	operand()
}

type Expression interface {
	Node
	Operand
	exprNode()
}

type Program struct {
	Statements []Statement
	Source     string
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{Line: 1, Column: 1}
	}
	return p.Statements[0].Pos()
}

// Block is a brace-delimited statement list. Executing it opens a new scope;
// a bare statement used as an if/while/for branch does not.
type Block struct {
	Statements []Statement
	position   Position
}

func (s *Block) stmtNode()     {}
func (s *Block) Pos() Position { return s.position }

type VarDecl struct {
	Name     string
	TypeHint string
	Init     Expression
	position Position
}

func (s *VarDecl) stmtNode()     {}
func (s *VarDecl) Pos() Position { return s.position }

type Param struct {
	Name     string
	TypeHint string
}

type FuncDecl struct {
	Name       string
	Params     []Param
	ReturnType string
	Body       *Block
	position   Position
}

func (s *FuncDecl) stmtNode()     {}
func (s *FuncDecl) Pos() Position { return s.position }

type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement
	position  Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Condition Expression
	Body      Statement
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

// ForStmt is the desugared init/condition/increment loop.
type ForStmt struct {
	Init      Statement
	Condition Expression
	Increment Statement
	Body      Statement
	position  Position
}

func (s *ForStmt) stmtNode()     {}
func (s *ForStmt) Pos() Position { return s.position }

type ReturnStmt struct {
	Value    Operand
	position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.position }

type BreakStmt struct {
	position Position
}

func (s *BreakStmt) stmtNode()     {}
func (s *BreakStmt) Pos() Position { return s.position }

type ContinueStmt struct {
	position Position
}

func (s *ContinueStmt) stmtNode()     {}
func (s *ContinueStmt) Pos() Position { return s.position }

type AssignStmt struct {
	Name     string
	Value    Operand
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

type BinaryExpr struct {
	Operator string
	Left     Expression
	Right    Expression
	position Position
}

func (e *BinaryExpr) operand()      {}
func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator string
	Operand  Expression
	position Position
}

func (e *UnaryExpr) operand()      {}
func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.position }

type Literal struct {
	Token Token
}

func (e *Literal) operand()      {}
func (e *Literal) exprNode()     {}
func (e *Literal) Pos() Position { return e.Token.Pos }

type Identifier struct {
	Name     string
	position Position
}

func (e *Identifier) operand()      {}
func (e *Identifier) exprNode()     {}
func (e *Identifier) Pos() Position { return e.position }

type CallExpr struct {
	Callee   Expression
	Args     []Expression
	position Position
}

func (e *CallExpr) operand()      {}
func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }

// OperandPos returns the source position of an operand.
func OperandPos(o Operand) Position {
	switch v := o.(type) {
	case Token:
		return v.Pos
	case Expression:
		return v.Pos()
	default:
		return Position{}
	}
}

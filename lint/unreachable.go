package lint

import "github.com/clite-lang/clite/clite"

func unreachableStatements(program *clite.Program) []Warning {
	var out []Warning
	lintStatements(program.Statements, &out)
	return out
}

// lintStatements reports statements following one that always transfers
// control, and returns whether the list itself always does.
func lintStatements(statements []clite.Statement, warnings *[]Warning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, newWarning("W006", stmt.Pos(), "unreachable statement"))
			continue
		}
		if statementTerminates(stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(stmt clite.Statement, warnings *[]Warning) bool {
	switch typed := stmt.(type) {
	case *clite.ReturnStmt, *clite.BreakStmt, *clite.ContinueStmt:
		return true
	case *clite.Block:
		return lintStatements(typed.Statements, warnings)
	case *clite.IfStmt:
		thenTerminated := statementTerminates(typed.Then, warnings)
		if typed.Else == nil {
			return false
		}
		elseTerminated := statementTerminates(typed.Else, warnings)
		return thenTerminated && elseTerminated
	case *clite.WhileStmt:
		statementTerminates(typed.Body, warnings)
		return false
	case *clite.ForStmt:
		statementTerminates(typed.Body, warnings)
		return false
	case *clite.FuncDecl:
		lintStatements(typed.Body.Statements, warnings)
		return false
	default:
		return false
	}
}

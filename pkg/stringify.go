package minecode

import (
	"fmt"
	"strconv"
	"strings"
)

// StringifyAST renders prog as an indented S-expression.
func StringifyAST(prog *Program) string {
	return stringifyNode(prog)
}

func stringifyNode(generic Node) string {
	switch node := generic.(type) {
	case *Program:
		return fmt.Sprintf("(program\n%s)", indentString(stringifyStmts(node.Declarations)))
	case *Block:
		if len(node.Statements) == 0 {
			return "(block)"
		}

		return fmt.Sprintf("(block\n%s)", indentString(stringifyStmts(node.Statements)))
	case *FunctionDecl:
		params := make([]string, len(node.Params))
		for i, p := range node.Params {
			params[i] = p.Name
		}

		ret := "void"
		if node.ReturnType != nil {
			ret = node.ReturnType.Name
		}

		return fmt.Sprintf("(func %s (%s) %s %s)",
			node.Name,
			strings.Join(params, " "),
			ret,
			stringifyNode(node.Body))
	case *VariableDecl:
		out := "(var " + node.Name
		if node.Type != nil {
			out += " " + stringifyNode(node.Type)
		}
		if node.Value != nil {
			out += " " + stringifyNode(node.Value)
		}

		return out + ")"
	case *Assignment:
		return fmt.Sprintf("(= %s %s)", node.Name, stringifyNode(node.Value))
	case *If:
		out := fmt.Sprintf("(if %s %s", stringifyNode(node.Cond), stringifyNode(node.Then))
		if node.Else != nil {
			out += " " + stringifyNode(node.Else)
		}

		return out + ")"
	case *While:
		return fmt.Sprintf("(while %s %s)", stringifyNode(node.Cond), stringifyNode(node.Body))
	case *Return:
		if node.Value == nil {
			return "(return)"
		}

		return fmt.Sprintf("(return %s)", stringifyNode(node.Value))
	case *Print:
		return fmt.Sprintf("(print %s)", stringifyNode(node.Value))
	case *ExpressionStatement:
		return stringifyNode(node.Expr)
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", node.Operation, stringifyNode(node.Op1), stringifyNode(node.Op2))
	case *Identifier:
		return node.Name
	case *Literal:
		if node.Value.Kind == KindText {
			return strconv.Quote(node.Value.Text)
		}

		return node.Value.String()
	case *Call:
		args := make([]string, len(node.Args))
		for i, arg := range node.Args {
			args[i] = stringifyNode(arg)
		}

		if len(args) == 0 {
			return fmt.Sprintf("(%s)", node.Name)
		}

		return fmt.Sprintf("(%s %s)", node.Name, strings.Join(args, " "))
	case *TypeRef:
		return ":" + node.Kind.String()
	}

	return fmt.Sprintf("(unknown %T)", generic)
}

func stringifyStmts(stmts []Stmt) string {
	parts := make([]string, len(stmts))
	for i, stmt := range stmts {
		parts[i] = stringifyNode(stmt)
	}

	return strings.Join(parts, "\n")
}

func indentString(str string) string {
	if str == "" {
		return ""
	}

	lines := strings.Split(str, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}

	return strings.Join(lines, "\n")
}

package ast

import "hsl/internal/token"

// Node is the common part of expressions and statements.
type Node interface {
	// Pos returns the token that best locates the node in source.
	Pos() token.Token
}

type Expr interface {
	Node
	Accept(v ExprVisitor) (any, error)
}

type Stmt interface {
	Node
	Accept(v StmtVisitor) error
}

// ExtensionModule is the owner of custom nodes. The resolver and the
// interpreter look for their own capability interfaces on it.
type ExtensionModule interface {
	Name() string
}

// CustomExpr is an expression node contributed by an extension module.
type CustomExpr interface {
	Expr
	Module() ExtensionModule
}

// CustomStmt is a statement node contributed by an extension module.
type CustomStmt interface {
	Stmt
	Module() ExtensionModule
}

// Parameter is one entry of a parameter list.
type Parameter struct {
	Name token.Token
}

// ParamNames lists parameter names in declaration order.
func ParamNames(params []Parameter) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name.Text
	}
	return out
}

package ast

import "hsl/internal/token"

// LiteralExpr is a number, string, boolean or null literal.
type LiteralExpr struct {
	Token token.Token
	Value any // int64, float64, string, bool or nil
}

// VariableExpr reads a binding by name.
type VariableExpr struct {
	Name token.Token
}

// AssignExpr writes a binding. Op is '=' or a compound operator such as '+='.
type AssignExpr struct {
	Name  token.Token
	Op    token.Token
	Value Expr
}

// BinaryExpr covers arithmetic, equality and comparison operators.
type BinaryExpr struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// BitwiseExpr covers & | ^ << >> >>>.
type BitwiseExpr struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// LogicalExpr covers short-circuit && || and/or.
type LogicalExpr struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// UnaryExpr covers - ! ~.
type UnaryExpr struct {
	Operator token.Token
	Right    Expr
}

// IncrementExpr is ++ or -- applied to a variable, property or index target.
type IncrementExpr struct {
	Operator token.Token
	Target   Expr
	Prefix   bool
}

type GroupingExpr struct {
	Paren      token.Token
	Expression Expr
}

type CallExpr struct {
	Callee    Expr
	Paren     token.Token
	Arguments []Expr
}

// GetExpr is obj.name.
type GetExpr struct {
	Object Expr
	Name   token.Token
}

// SetExpr is obj.name = value (or a compound form).
type SetExpr struct {
	Object Expr
	Name   token.Token
	Op     token.Token
	Value  Expr
}

// IndexExpr is obj[index].
type IndexExpr struct {
	Object  Expr
	Bracket token.Token
	Index   Expr
}

// IndexSetExpr is obj[index] = value (or a compound form).
type IndexSetExpr struct {
	Object  Expr
	Bracket token.Token
	Index   Expr
	Op      token.Token
	Value   Expr
}

type ArrayExpr struct {
	Bracket  token.Token
	Elements []Expr
}

type ThisExpr struct {
	Keyword token.Token
}

// SuperExpr is super.method.
type SuperExpr struct {
	Keyword token.Token
	Method  token.Token
}

// TernaryExpr is cond ? a : b.
type TernaryExpr struct {
	Condition Expr
	Question  token.Token
	Then      Expr
	Else      Expr
}

// FunctionExpr is an anonymous function value.
type FunctionExpr struct {
	Keyword token.Token
	Params  []Parameter
	Body    []Stmt
}

// PrefixCallExpr applies a user-declared prefix function: `neg 5`.
type PrefixCallExpr struct {
	Operator token.Token
	Operand  Expr
}

// InfixCallExpr applies a user-declared infix function: `a max b`.
type InfixCallExpr struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (e *LiteralExpr) Pos() token.Token    { return e.Token }
func (e *VariableExpr) Pos() token.Token   { return e.Name }
func (e *AssignExpr) Pos() token.Token     { return e.Name }
func (e *BinaryExpr) Pos() token.Token     { return e.Operator }
func (e *BitwiseExpr) Pos() token.Token    { return e.Operator }
func (e *LogicalExpr) Pos() token.Token    { return e.Operator }
func (e *UnaryExpr) Pos() token.Token      { return e.Operator }
func (e *IncrementExpr) Pos() token.Token  { return e.Operator }
func (e *GroupingExpr) Pos() token.Token   { return e.Paren }
func (e *CallExpr) Pos() token.Token       { return e.Paren }
func (e *GetExpr) Pos() token.Token        { return e.Name }
func (e *SetExpr) Pos() token.Token        { return e.Name }
func (e *IndexExpr) Pos() token.Token      { return e.Bracket }
func (e *IndexSetExpr) Pos() token.Token   { return e.Bracket }
func (e *ArrayExpr) Pos() token.Token      { return e.Bracket }
func (e *ThisExpr) Pos() token.Token       { return e.Keyword }
func (e *SuperExpr) Pos() token.Token      { return e.Keyword }
func (e *TernaryExpr) Pos() token.Token    { return e.Question }
func (e *FunctionExpr) Pos() token.Token   { return e.Keyword }
func (e *PrefixCallExpr) Pos() token.Token { return e.Operator }
func (e *InfixCallExpr) Pos() token.Token  { return e.Operator }

func (e *LiteralExpr) Accept(v ExprVisitor) (any, error)    { return v.VisitLiteralExpr(e) }
func (e *VariableExpr) Accept(v ExprVisitor) (any, error)   { return v.VisitVariableExpr(e) }
func (e *AssignExpr) Accept(v ExprVisitor) (any, error)     { return v.VisitAssignExpr(e) }
func (e *BinaryExpr) Accept(v ExprVisitor) (any, error)     { return v.VisitBinaryExpr(e) }
func (e *BitwiseExpr) Accept(v ExprVisitor) (any, error)    { return v.VisitBitwiseExpr(e) }
func (e *LogicalExpr) Accept(v ExprVisitor) (any, error)    { return v.VisitLogicalExpr(e) }
func (e *UnaryExpr) Accept(v ExprVisitor) (any, error)      { return v.VisitUnaryExpr(e) }
func (e *IncrementExpr) Accept(v ExprVisitor) (any, error)  { return v.VisitIncrementExpr(e) }
func (e *GroupingExpr) Accept(v ExprVisitor) (any, error)   { return v.VisitGroupingExpr(e) }
func (e *CallExpr) Accept(v ExprVisitor) (any, error)       { return v.VisitCallExpr(e) }
func (e *GetExpr) Accept(v ExprVisitor) (any, error)        { return v.VisitGetExpr(e) }
func (e *SetExpr) Accept(v ExprVisitor) (any, error)        { return v.VisitSetExpr(e) }
func (e *IndexExpr) Accept(v ExprVisitor) (any, error)      { return v.VisitIndexExpr(e) }
func (e *IndexSetExpr) Accept(v ExprVisitor) (any, error)   { return v.VisitIndexSetExpr(e) }
func (e *ArrayExpr) Accept(v ExprVisitor) (any, error)      { return v.VisitArrayExpr(e) }
func (e *ThisExpr) Accept(v ExprVisitor) (any, error)       { return v.VisitThisExpr(e) }
func (e *SuperExpr) Accept(v ExprVisitor) (any, error)      { return v.VisitSuperExpr(e) }
func (e *TernaryExpr) Accept(v ExprVisitor) (any, error)    { return v.VisitTernaryExpr(e) }
func (e *FunctionExpr) Accept(v ExprVisitor) (any, error)   { return v.VisitFunctionExpr(e) }
func (e *PrefixCallExpr) Accept(v ExprVisitor) (any, error) { return v.VisitPrefixCallExpr(e) }
func (e *InfixCallExpr) Accept(v ExprVisitor) (any, error)  { return v.VisitInfixCallExpr(e) }

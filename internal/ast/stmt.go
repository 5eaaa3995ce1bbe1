package ast

import "hsl/internal/token"

// FunctionKind distinguishes how a declared function may be applied.
type FunctionKind uint8

const (
	FunctionPlain FunctionKind = iota
	FunctionPrefix
	FunctionInfix
	FunctionMethod
)

func (k FunctionKind) String() string {
	switch k {
	case FunctionPrefix:
		return "prefix"
	case FunctionInfix:
		return "infix"
	case FunctionMethod:
		return "method"
	}
	return "function"
}

type ExpressionStmt struct {
	Expression Expr
}

// VarStmt declares a binding; Final bindings cannot be reassigned.
type VarStmt struct {
	Keyword     token.Token
	Name        token.Token
	Initializer Expr // может быть nil
	Final       bool
}

type BlockStmt struct {
	Brace      token.Token
	Statements []Stmt
}

type IfStmt struct {
	Keyword   token.Token
	Condition Expr
	Then      Stmt
	Else      Stmt // может быть nil
}

type WhileStmt struct {
	Keyword   token.Token
	Condition Expr
	Body      Stmt
}

type DoWhileStmt struct {
	Keyword   token.Token
	Body      Stmt
	Condition Expr
}

// ForStmt is the C-style loop; every header part is optional.
type ForStmt struct {
	Keyword     token.Token
	Initializer Stmt
	Condition   Expr
	Increment   Expr
	Body        Stmt
}

// ForEachStmt iterates an array: for (var x in items) body.
type ForEachStmt struct {
	Keyword    token.Token
	Variable   token.Token
	Collection Expr
	Body       Stmt
}

// RepeatStmt runs Body Count times; Count is evaluated once.
type RepeatStmt struct {
	Keyword token.Token
	Count   Expr
	Body    *BlockStmt
}

type BreakStmt struct {
	Keyword token.Token
}

type ContinueStmt struct {
	Keyword token.Token
}

type ReturnStmt struct {
	Keyword token.Token
	Value   Expr // может быть nil
}

type FunctionStmt struct {
	Keyword token.Token
	Name    token.Token
	Params  []Parameter
	Body    []Stmt
	Kind    FunctionKind
}

type ConstructorStmt struct {
	Keyword token.Token
	Params  []Parameter
	Body    []Stmt
}

// NativeFunctionStmt binds Name to function Name of native module Module.
type NativeFunctionStmt struct {
	Keyword token.Token
	Module  token.Token
	Name    token.Token
	Params  []Parameter
}

type ClassStmt struct {
	Keyword     token.Token
	Name        token.Token
	Superclass  *VariableExpr // может быть nil
	Final       bool
	Fields      []*VarStmt
	Constructor *ConstructorStmt // может быть nil
	Methods     []*FunctionStmt
}

// UsingStmt makes a native module available as a value: using math;
type UsingStmt struct {
	Keyword token.Token
	Module  token.Token
}

func (s *ExpressionStmt) Pos() token.Token     { return s.Expression.Pos() }
func (s *VarStmt) Pos() token.Token            { return s.Name }
func (s *BlockStmt) Pos() token.Token          { return s.Brace }
func (s *IfStmt) Pos() token.Token             { return s.Keyword }
func (s *WhileStmt) Pos() token.Token          { return s.Keyword }
func (s *DoWhileStmt) Pos() token.Token        { return s.Keyword }
func (s *ForStmt) Pos() token.Token            { return s.Keyword }
func (s *ForEachStmt) Pos() token.Token        { return s.Keyword }
func (s *RepeatStmt) Pos() token.Token         { return s.Keyword }
func (s *BreakStmt) Pos() token.Token          { return s.Keyword }
func (s *ContinueStmt) Pos() token.Token       { return s.Keyword }
func (s *ReturnStmt) Pos() token.Token         { return s.Keyword }
func (s *FunctionStmt) Pos() token.Token       { return s.Name }
func (s *ConstructorStmt) Pos() token.Token    { return s.Keyword }
func (s *NativeFunctionStmt) Pos() token.Token { return s.Name }
func (s *ClassStmt) Pos() token.Token          { return s.Name }
func (s *UsingStmt) Pos() token.Token          { return s.Module }

func (s *ExpressionStmt) Accept(v StmtVisitor) error     { return v.VisitExpressionStmt(s) }
func (s *VarStmt) Accept(v StmtVisitor) error            { return v.VisitVarStmt(s) }
func (s *BlockStmt) Accept(v StmtVisitor) error          { return v.VisitBlockStmt(s) }
func (s *IfStmt) Accept(v StmtVisitor) error             { return v.VisitIfStmt(s) }
func (s *WhileStmt) Accept(v StmtVisitor) error          { return v.VisitWhileStmt(s) }
func (s *DoWhileStmt) Accept(v StmtVisitor) error        { return v.VisitDoWhileStmt(s) }
func (s *ForStmt) Accept(v StmtVisitor) error            { return v.VisitForStmt(s) }
func (s *ForEachStmt) Accept(v StmtVisitor) error        { return v.VisitForEachStmt(s) }
func (s *RepeatStmt) Accept(v StmtVisitor) error         { return v.VisitRepeatStmt(s) }
func (s *BreakStmt) Accept(v StmtVisitor) error          { return v.VisitBreakStmt(s) }
func (s *ContinueStmt) Accept(v StmtVisitor) error       { return v.VisitContinueStmt(s) }
func (s *ReturnStmt) Accept(v StmtVisitor) error         { return v.VisitReturnStmt(s) }
func (s *FunctionStmt) Accept(v StmtVisitor) error       { return v.VisitFunctionStmt(s) }
func (s *ConstructorStmt) Accept(v StmtVisitor) error    { return v.VisitConstructorStmt(s) }
func (s *NativeFunctionStmt) Accept(v StmtVisitor) error { return v.VisitNativeFunctionStmt(s) }
func (s *ClassStmt) Accept(v StmtVisitor) error          { return v.VisitClassStmt(s) }
func (s *UsingStmt) Accept(v StmtVisitor) error          { return v.VisitUsingStmt(s) }

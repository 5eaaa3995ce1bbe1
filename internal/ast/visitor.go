package ast

// ExprVisitor has one method per expression kind.
type ExprVisitor interface {
	VisitLiteralExpr(e *LiteralExpr) (any, error)
	VisitVariableExpr(e *VariableExpr) (any, error)
	VisitAssignExpr(e *AssignExpr) (any, error)
	VisitBinaryExpr(e *BinaryExpr) (any, error)
	VisitBitwiseExpr(e *BitwiseExpr) (any, error)
	VisitLogicalExpr(e *LogicalExpr) (any, error)
	VisitUnaryExpr(e *UnaryExpr) (any, error)
	VisitIncrementExpr(e *IncrementExpr) (any, error)
	VisitGroupingExpr(e *GroupingExpr) (any, error)
	VisitCallExpr(e *CallExpr) (any, error)
	VisitGetExpr(e *GetExpr) (any, error)
	VisitSetExpr(e *SetExpr) (any, error)
	VisitIndexExpr(e *IndexExpr) (any, error)
	VisitIndexSetExpr(e *IndexSetExpr) (any, error)
	VisitArrayExpr(e *ArrayExpr) (any, error)
	VisitThisExpr(e *ThisExpr) (any, error)
	VisitSuperExpr(e *SuperExpr) (any, error)
	VisitTernaryExpr(e *TernaryExpr) (any, error)
	VisitFunctionExpr(e *FunctionExpr) (any, error)
	VisitPrefixCallExpr(e *PrefixCallExpr) (any, error)
	VisitInfixCallExpr(e *InfixCallExpr) (any, error)
	VisitCustomExpr(e CustomExpr) (any, error)
}

// StmtVisitor has one method per statement kind.
type StmtVisitor interface {
	VisitExpressionStmt(s *ExpressionStmt) error
	VisitVarStmt(s *VarStmt) error
	VisitBlockStmt(s *BlockStmt) error
	VisitIfStmt(s *IfStmt) error
	VisitWhileStmt(s *WhileStmt) error
	VisitDoWhileStmt(s *DoWhileStmt) error
	VisitForStmt(s *ForStmt) error
	VisitForEachStmt(s *ForEachStmt) error
	VisitRepeatStmt(s *RepeatStmt) error
	VisitBreakStmt(s *BreakStmt) error
	VisitContinueStmt(s *ContinueStmt) error
	VisitReturnStmt(s *ReturnStmt) error
	VisitFunctionStmt(s *FunctionStmt) error
	VisitConstructorStmt(s *ConstructorStmt) error
	VisitNativeFunctionStmt(s *NativeFunctionStmt) error
	VisitClassStmt(s *ClassStmt) error
	VisitUsingStmt(s *UsingStmt) error
	VisitCustomStmt(s CustomStmt) error
}

// Package ast defines the syntax tree of HSL scripts.
//
// Expressions implement Expr and statements implement Stmt. Every node keeps
// the token it was parsed from so later phases can point at it. Phases walk
// the tree through ExprVisitor and StmtVisitor; each concrete node forwards
// Accept to exactly one visitor method.
//
// Extension modules contribute their own node types by implementing
// CustomExpr or CustomStmt. Those nodes dispatch to VisitCustomExpr and
// VisitCustomStmt, and the visitor then hands them to the owning module.
//
// Nodes are immutable after parsing. Pointer identity of an Expr is the key
// the resolver uses to annotate variable references.
package ast

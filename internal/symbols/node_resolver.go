package symbols

import "hsl/internal/ast"

// NodeResolver is implemented by extension modules that contribute custom
// nodes. The resolver hands the node back to its owning module, which uses
// the exported Resolver API (ResolveExpr, Enter, Declare, ResolveName, Error)
// to keep scope distances in step with its interpreter.
type NodeResolver interface {
	ResolveExpr(r *Resolver, e ast.CustomExpr) error
	ResolveStmt(r *Resolver, s ast.CustomStmt) error
}

package symbols

import (
	"fmt"

	"hsl/internal/ast"
	"hsl/internal/diag"
)

func (r *Resolver) VisitLiteralExpr(*ast.LiteralExpr) (any, error) { return nil, nil }

func (r *Resolver) VisitVariableExpr(e *ast.VariableExpr) (any, error) {
	if sym, ok := r.CurrentScope().Lookup(e.Name.Text); ok && !sym.Defined() {
		r.Error(e.Name, diag.ResSelfReference,
			fmt.Sprintf("Cannot read local variable '%s' in its own initializer.", e.Name.Text))
	}
	r.ResolveName(e, e.Name.Text)
	return nil, nil
}

func (r *Resolver) VisitAssignExpr(e *ast.AssignExpr) (any, error) {
	r.ResolveExpr(e.Value)
	if sym := r.ResolveName(e, e.Name.Text); sym != nil && sym.Final() {
		r.reportReassign(e.Name, sym)
	}
	return nil, nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.BinaryExpr) (any, error) {
	r.ResolveExpr(e.Left)
	r.ResolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitBitwiseExpr(e *ast.BitwiseExpr) (any, error) {
	r.ResolveExpr(e.Left)
	r.ResolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.LogicalExpr) (any, error) {
	r.ResolveExpr(e.Left)
	r.ResolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.UnaryExpr) (any, error) {
	r.ResolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitIncrementExpr(e *ast.IncrementExpr) (any, error) {
	r.ResolveExpr(e.Target)
	if v, ok := e.Target.(*ast.VariableExpr); ok {
		if sym, _ := r.Lookup(v.Name.Text); sym != nil && sym.Final() {
			r.reportReassign(v.Name, sym)
		}
	}
	return nil, nil
}

func (r *Resolver) VisitGroupingExpr(e *ast.GroupingExpr) (any, error) {
	r.ResolveExpr(e.Expression)
	return nil, nil
}

func (r *Resolver) VisitCallExpr(e *ast.CallExpr) (any, error) {
	r.ResolveExpr(e.Callee)
	for _, a := range e.Arguments {
		r.ResolveExpr(a)
	}
	r.checkNativeCall(e)
	return nil, nil
}

func (r *Resolver) VisitGetExpr(e *ast.GetExpr) (any, error) {
	r.ResolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitSetExpr(e *ast.SetExpr) (any, error) {
	r.ResolveExpr(e.Value)
	r.ResolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitIndexExpr(e *ast.IndexExpr) (any, error) {
	r.ResolveExpr(e.Object)
	r.ResolveExpr(e.Index)
	return nil, nil
}

func (r *Resolver) VisitIndexSetExpr(e *ast.IndexSetExpr) (any, error) {
	r.ResolveExpr(e.Value)
	r.ResolveExpr(e.Object)
	r.ResolveExpr(e.Index)
	return nil, nil
}

func (r *Resolver) VisitArrayExpr(e *ast.ArrayExpr) (any, error) {
	for _, el := range e.Elements {
		r.ResolveExpr(el)
	}
	return nil, nil
}

func (r *Resolver) VisitThisExpr(e *ast.ThisExpr) (any, error) {
	if r.class == classNone {
		r.Error(e.Keyword, diag.ResThisOutsideClass, "Cannot use 'this' outside of a class.")
		return nil, nil
	}
	r.ResolveName(e, "this")
	return nil, nil
}

func (r *Resolver) VisitSuperExpr(e *ast.SuperExpr) (any, error) {
	switch r.class {
	case classNone:
		r.Error(e.Keyword, diag.ResSuperMisuse, "Cannot use 'super' outside of a class.")
		return nil, nil
	case classPlain:
		r.Error(e.Keyword, diag.ResSuperMisuse, "Cannot use 'super' in a class with no superclass.")
		return nil, nil
	}
	r.ResolveName(e, "super")
	return nil, nil
}

func (r *Resolver) VisitTernaryExpr(e *ast.TernaryExpr) (any, error) {
	r.ResolveExpr(e.Condition)
	r.ResolveExpr(e.Then)
	r.ResolveExpr(e.Else)
	return nil, nil
}

func (r *Resolver) VisitFunctionExpr(e *ast.FunctionExpr) (any, error) {
	r.resolveFunction(e.Params, e.Body, fnLambda, e.Keyword)
	return nil, nil
}

func (r *Resolver) VisitPrefixCallExpr(e *ast.PrefixCallExpr) (any, error) {
	r.ResolveName(e, e.Operator.Text)
	r.ResolveExpr(e.Operand)
	return nil, nil
}

func (r *Resolver) VisitInfixCallExpr(e *ast.InfixCallExpr) (any, error) {
	r.ResolveName(e, e.Operator.Text)
	r.ResolveExpr(e.Left)
	r.ResolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitCustomExpr(e ast.CustomExpr) (any, error) {
	nr, ok := e.Module().(NodeResolver)
	if !ok {
		r.Error(e.Pos(), diag.ResUnsupportedExtension,
			fmt.Sprintf("Extension module '%s' cannot resolve its expressions.", e.Module().Name()))
		return nil, nil
	}
	if err := nr.ResolveExpr(r, e); err != nil {
		r.Error(e.Pos(), diag.ResExtensionError, err.Error())
	}
	return nil, nil
}

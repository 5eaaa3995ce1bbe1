package symbols

import (
	"fmt"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/token"
)

func (r *Resolver) VisitExpressionStmt(s *ast.ExpressionStmt) error {
	r.ResolveExpr(s.Expression)
	return nil
}

func (r *Resolver) VisitVarStmt(s *ast.VarStmt) error {
	var flags SymbolFlags
	if s.Final {
		flags |= SymbolFlagFinal
	}
	r.Declare(s.Name, SymbolVar, flags)
	r.ResolveExpr(s.Initializer)
	r.Define(s.Name.Text)
	return nil
}

func (r *Resolver) VisitBlockStmt(s *ast.BlockStmt) error {
	r.Enter(ScopeBlock, s.Brace.Span)
	r.ResolveStmts(s.Statements)
	r.Leave()
	return nil
}

func (r *Resolver) VisitIfStmt(s *ast.IfStmt) error {
	r.ResolveExpr(s.Condition)
	r.ResolveStmt(s.Then)
	r.ResolveStmt(s.Else)
	return nil
}

func (r *Resolver) VisitWhileStmt(s *ast.WhileStmt) error {
	r.ResolveExpr(s.Condition)
	r.loopBody(s.Body)
	return nil
}

func (r *Resolver) VisitDoWhileStmt(s *ast.DoWhileStmt) error {
	r.loopBody(s.Body)
	r.ResolveExpr(s.Condition)
	return nil
}

// VisitForStmt resolves the header in its own scope so the loop variable
// does not leak into the enclosing block.
func (r *Resolver) VisitForStmt(s *ast.ForStmt) error {
	r.Enter(ScopeLoop, s.Keyword.Span)
	r.ResolveStmt(s.Initializer)
	r.ResolveExpr(s.Condition)
	r.ResolveExpr(s.Increment)
	r.loopBody(s.Body)
	r.Leave()
	return nil
}

func (r *Resolver) VisitForEachStmt(s *ast.ForEachStmt) error {
	r.ResolveExpr(s.Collection)
	r.Enter(ScopeLoop, s.Keyword.Span)
	r.Declare(s.Variable, SymbolVar, SymbolFlagDefined)
	r.loopBody(s.Body)
	r.Leave()
	return nil
}

func (r *Resolver) VisitRepeatStmt(s *ast.RepeatStmt) error {
	r.ResolveExpr(s.Count)
	if s.Body != nil {
		r.loopBody(s.Body)
	}
	return nil
}

func (r *Resolver) loopBody(body ast.Stmt) {
	r.loops++
	r.ResolveStmt(body)
	r.loops--
}

func (r *Resolver) VisitBreakStmt(s *ast.BreakStmt) error {
	r.loopControl(s.Keyword)
	return nil
}

func (r *Resolver) VisitContinueStmt(s *ast.ContinueStmt) error {
	r.loopControl(s.Keyword)
	return nil
}

func (r *Resolver) loopControl(kw token.Token) {
	if !r.InLoop() {
		r.Error(kw, diag.ResLoopControlOutside, fmt.Sprintf("Cannot use '%s' outside of a loop.", kw.Text))
	}
}

func (r *Resolver) VisitReturnStmt(s *ast.ReturnStmt) error {
	switch {
	case r.fn == fnNone:
		r.Error(s.Keyword, diag.ResReturnOutside, "Cannot return from top-level code.")
	case r.fn == fnConstructor && s.Value != nil:
		r.Error(s.Keyword, diag.ResReturnFromConstructor, "Cannot return a value from a constructor.")
	}
	r.ResolveExpr(s.Value)
	return nil
}

func (r *Resolver) VisitFunctionStmt(s *ast.FunctionStmt) error {
	flags := SymbolFlagFinal | SymbolFlagDefined
	if s.Kind == ast.FunctionPrefix || s.Kind == ast.FunctionInfix {
		flags |= SymbolFlagOperator
	}
	// объявлена и определена сразу: тело может рекурсивно вызывать себя
	r.Declare(s.Name, SymbolFunction, flags)
	r.resolveFunction(s.Params, s.Body, fnFunction, s.Name)
	return nil
}

func (r *Resolver) VisitConstructorStmt(s *ast.ConstructorStmt) error {
	r.resolveFunction(s.Params, s.Body, fnConstructor, s.Keyword)
	return nil
}

// resolveFunction gives the body a fresh scope seeded with the parameters.
// Loop depth does not cross a function boundary.
func (r *Resolver) resolveFunction(params []ast.Parameter, body []ast.Stmt, kind functionKind, at token.Token) {
	enclosingFn, enclosingLoops := r.fn, r.loops
	r.fn, r.loops = kind, 0

	r.Enter(ScopeFunction, at.Span)
	for _, p := range params {
		r.Declare(p.Name, SymbolParam, SymbolFlagDefined)
	}
	r.ResolveStmts(body)
	r.Leave()

	r.fn, r.loops = enclosingFn, enclosingLoops
}

func (r *Resolver) VisitClassStmt(s *ast.ClassStmt) error {
	enclosing := r.class
	r.class = classPlain
	defer func() { r.class = enclosing }()

	r.Declare(s.Name, SymbolClass, SymbolFlagFinal|SymbolFlagDefined)

	if s.Superclass != nil {
		if s.Superclass.Name.Text == s.Name.Text {
			r.Error(s.Superclass.Name, diag.ResSelfInheritance, "A class can't inherit from itself.")
		} else {
			r.ResolveExpr(s.Superclass)
		}
		r.class = classSub
		r.Enter(ScopeSuper, s.Keyword.Span)
		r.CurrentScope().put(&Symbol{Name: "super", Kind: SymbolSuper, Flags: SymbolFlagFinal | SymbolFlagDefined})
		defer r.Leave()
	}

	r.Enter(ScopeClass, s.Name.Span)
	r.CurrentScope().put(&Symbol{Name: "this", Kind: SymbolThis, Flags: SymbolFlagFinal | SymbolFlagDefined})
	defer r.Leave()

	members := make(map[string]token.Token)
	member := func(what string, name token.Token) {
		if prev, dup := members[name.Text]; dup {
			r.errorAt(name, diag.ResRedeclared,
				fmt.Sprintf("%s '%s' is already declared in class '%s'.", what, name.Text, s.Name.Text)).
				WithNote(prev.Span, "previous declaration here").Emit()
			return
		}
		members[name.Text] = name
	}

	// инициализаторы полей видят this, как методы
	enclosingFn := r.fn
	r.fn = fnMethod
	for _, f := range s.Fields {
		member("Field", f.Name)
		r.ResolveExpr(f.Initializer)
	}
	r.fn = enclosingFn

	if s.Constructor != nil {
		r.resolveFunction(s.Constructor.Params, s.Constructor.Body, fnConstructor, s.Constructor.Keyword)
	}
	for _, m := range s.Methods {
		member("Method", m.Name)
		r.resolveFunction(m.Params, m.Body, fnMethod, m.Name)
	}
	return nil
}

func (r *Resolver) VisitCustomStmt(s ast.CustomStmt) error {
	nr, ok := s.Module().(NodeResolver)
	if !ok {
		r.Error(s.Pos(), diag.ResUnsupportedExtension,
			fmt.Sprintf("Extension module '%s' cannot resolve its statements.", s.Module().Name()))
		return nil
	}
	if err := nr.ResolveStmt(r, s); err != nil {
		r.Error(s.Pos(), diag.ResExtensionError, err.Error())
	}
	return nil
}

package parser

import (
	"hsl/internal/ast"
	"hsl/internal/token"
)

// condition parses `( expr )` after keyword.
func condition(p *Parser, v *StepValidator, keyword string) (ast.Expr, bool) {
	if _, ok := v.ExpectAfter(token.LParen, "'"+keyword+"'"); !ok {
		return nil, false
	}
	cond, ok := p.Expression()
	if !ok {
		return nil, false
	}
	if _, ok := v.ExpectAfter(token.RParen, keyword+" condition"); !ok {
		return nil, false
	}
	return cond, true
}

// fail converts a failed sub-parse into the (nil, true) strategy result.
func fail() (ast.Stmt, bool) { return nil, true }

type IfStatementParser struct{}

func (IfStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwIf) {
		return nil, false
	}
	kw := p.Advance()
	cond, ok := condition(p, v, "if")
	if !ok {
		return fail()
	}
	then, ok := p.Statement()
	if !ok {
		return fail()
	}
	stmt := &ast.IfStmt{Keyword: kw, Condition: cond, Then: then}
	if p.Match(token.KwElse) {
		els, ok := p.Statement()
		if !ok {
			return fail()
		}
		stmt.Else = els
	}
	return stmt, true
}

type WhileStatementParser struct{}

func (WhileStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwWhile) {
		return nil, false
	}
	kw := p.Advance()
	cond, ok := condition(p, v, "while")
	if !ok {
		return fail()
	}
	body, ok := p.Statement()
	if !ok {
		return fail()
	}
	return &ast.WhileStmt{Keyword: kw, Condition: cond, Body: body}, true
}

// DoWhileStatementParser handles `do body while (cond);`.
type DoWhileStatementParser struct{}

func (DoWhileStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwDo) {
		return nil, false
	}
	kw := p.Advance()
	body, ok := p.Statement()
	if !ok {
		return fail()
	}
	if _, ok := v.ExpectAfter(token.KwWhile, "do body"); !ok {
		return fail()
	}
	cond, ok := condition(p, v, "while")
	if !ok {
		return fail()
	}
	if _, ok := v.ExpectAfter(token.Semicolon, "do-while condition"); !ok {
		return fail()
	}
	return &ast.DoWhileStmt{Keyword: kw, Body: body, Condition: cond}, true
}

// ForStatementParser handles both `for (init; cond; step)` and `for (var x in xs)`.
type ForStatementParser struct{}

func (ForStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwFor) {
		return nil, false
	}
	kw := p.Advance()
	if _, ok := v.ExpectAfter(token.LParen, "'for'"); !ok {
		return fail()
	}

	if p.Check(token.KwVar) && p.PeekAt(1).Kind == token.Ident && p.PeekAt(2).Kind == token.KwIn {
		p.Advance()
		name := p.Advance()
		p.Advance() // in
		coll, ok := p.Expression()
		if !ok {
			return fail()
		}
		if _, ok := v.ExpectAfter(token.RParen, "for-in collection"); !ok {
			return fail()
		}
		body, ok := p.Statement()
		if !ok {
			return fail()
		}
		return &ast.ForEachStmt{Keyword: kw, Variable: name, Collection: coll, Body: body}, true
	}

	stmt := &ast.ForStmt{Keyword: kw}
	switch {
	case p.Match(token.Semicolon):
	case p.Check(token.KwVar):
		init, applies := VarStatementParser{}.Parse(p, v)
		if !applies || init == nil {
			return fail()
		}
		stmt.Initializer = init
	default:
		init, ok := p.expressionStatement()
		if !ok {
			return fail()
		}
		stmt.Initializer = init
	}
	if !p.Check(token.Semicolon) {
		cond, ok := p.Expression()
		if !ok {
			return fail()
		}
		stmt.Condition = cond
	}
	if _, ok := v.ExpectAfter(token.Semicolon, "loop condition"); !ok {
		return fail()
	}
	if !p.Check(token.RParen) {
		incr, ok := p.Expression()
		if !ok {
			return fail()
		}
		stmt.Increment = incr
	}
	if _, ok := v.ExpectAfter(token.RParen, "for clauses"); !ok {
		return fail()
	}
	body, ok := p.Statement()
	if !ok {
		return fail()
	}
	stmt.Body = body
	return stmt, true
}

// RepeatStatementParser handles `repeat (n) { ... }` and `repeat n { ... }`.
type RepeatStatementParser struct{}

func (RepeatStatementParser) Parse(p *Parser, _ *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwRepeat) {
		return nil, false
	}
	kw := p.Advance()
	count, ok := p.Expression()
	if !ok {
		return fail()
	}
	body, ok := p.Block()
	if !ok {
		return fail()
	}
	return &ast.RepeatStmt{Keyword: kw, Count: count, Body: body}, true
}

// LoopControlStatementParser handles `break;` and `continue;`.
type LoopControlStatementParser struct{}

func (LoopControlStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.CheckAny(token.KwBreak, token.KwContinue) {
		return nil, false
	}
	kw := p.Advance()
	if _, ok := v.ExpectAfter(token.Semicolon, "'"+kw.Text+"'"); !ok {
		return fail()
	}
	if kw.Kind == token.KwBreak {
		return &ast.BreakStmt{Keyword: kw}, true
	}
	return &ast.ContinueStmt{Keyword: kw}, true
}

type ReturnStatementParser struct{}

func (ReturnStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwReturn) {
		return nil, false
	}
	stmt := &ast.ReturnStmt{Keyword: p.Advance()}
	if !p.Check(token.Semicolon) && !p.Check(token.RBrace) {
		value, ok := p.Expression()
		if !ok {
			return fail()
		}
		stmt.Value = value
	}
	if !p.Check(token.RBrace) {
		if _, ok := v.ExpectAfter(token.Semicolon, "return value"); !ok {
			return fail()
		}
	}
	return stmt, true
}

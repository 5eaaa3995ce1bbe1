package parser

import (
	"hsl/internal/ast"
	"hsl/internal/token"
)

// StatementParser is one entry of the statement table. Parse returns
// applies=false, without consuming anything, when the current token is not
// its business. A strategy that applies but fails reports through the
// parser and returns (nil, true).
type StatementParser interface {
	Parse(p *Parser, v *StepValidator) (stmt ast.Stmt, applies bool)
}

// PrefixParser contributes a primary expression form with the same contract.
type PrefixParser interface {
	ParsePrefix(p *Parser, v *StepValidator) (expr ast.Expr, applies bool)
}

// StatementParserFunc adapts a function to StatementParser.
type StatementParserFunc func(p *Parser, v *StepValidator) (ast.Stmt, bool)

func (f StatementParserFunc) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) { return f(p, v) }

// PrefixParserFunc adapts a function to PrefixParser.
type PrefixParserFunc func(p *Parser, v *StepValidator) (ast.Expr, bool)

func (f PrefixParserFunc) ParsePrefix(p *Parser, v *StepValidator) (ast.Expr, bool) { return f(p, v) }

// DefaultStatementParsers returns a fresh copy of the built-in table in
// priority order. Callers may append extension strategies to it.
func DefaultStatementParsers() []StatementParser {
	return []StatementParser{
		BlockStatementParser{},
		VarStatementParser{},
		FinalStatementParser{},
		IfStatementParser{},
		WhileStatementParser{},
		DoWhileStatementParser{},
		ForStatementParser{},
		RepeatStatementParser{},
		LoopControlStatementParser{},
		ReturnStatementParser{},
		FunctionStatementParser{},
		ConstructorStatementParser{},
		NativeFunctionStatementParser{},
		ClassStatementParser{},
		UsingStatementParser{},
	}
}

// Declaration parses one statement through the strategy table, falling
// back to an expression statement. A lone ';' yields (nil, true).
func (p *Parser) Declaration() (ast.Stmt, bool) {
	if p.Match(token.Semicolon) {
		return nil, true
	}
	for _, sp := range p.stmts {
		mark := p.pos
		stmt, applies := sp.Parse(p, p.validator)
		if applies {
			return stmt, stmt != nil
		}
		p.pos = mark
	}
	return p.expressionStatement()
}

// Statement parses a statement used as the body of a control construct.
func (p *Parser) Statement() (ast.Stmt, bool) {
	stmt, ok := p.Declaration()
	if ok && stmt == nil {
		// пустое тело `while (x);`
		return &ast.BlockStmt{Brace: p.Previous()}, true
	}
	return stmt, ok
}

// Block parses `{ declarations }`; the current token must be '{'.
func (p *Parser) Block() (*ast.BlockStmt, bool) {
	brace, ok := p.validator.ExpectBefore(token.LBrace, "block")
	if !ok {
		return nil, false
	}
	block := &ast.BlockStmt{Brace: brace}
	for !p.Check(token.RBrace) && !p.AtEnd() {
		stmt, ok := p.Declaration()
		if !ok {
			p.synchronize()
			continue
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	if _, ok := p.validator.ExpectAfter(token.RBrace, "block"); !ok {
		return nil, false
	}
	return block, true
}

func (p *Parser) expressionStatement() (ast.Stmt, bool) {
	expr, ok := p.Expression()
	if !ok {
		return nil, false
	}
	// последний statement блока может обойтись без ';'
	if !p.Check(token.RBrace) {
		if _, ok := p.validator.ExpectAfter(token.Semicolon, "expression"); !ok {
			return nil, false
		}
	}
	return &ast.ExpressionStmt{Expression: expr}, true
}

// BlockStatementParser handles `{ ... }`.
type BlockStatementParser struct{}

func (BlockStatementParser) Parse(p *Parser, _ *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.LBrace) {
		return nil, false
	}
	block, ok := p.Block()
	if !ok {
		return nil, true
	}
	return block, true
}

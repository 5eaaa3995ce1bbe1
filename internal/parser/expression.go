package parser

import (
	"fmt"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/token"
)

const maxArguments = 255

// Expression parses a full expression, assignment included.
func (p *Parser) Expression() (ast.Expr, bool) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expr, bool) {
	left, ok := p.parseTernary()
	if !ok {
		return nil, false
	}
	if !p.Peek().Kind.IsAssignOp() {
		return left, true
	}
	op := p.Advance()
	value, ok := p.parseAssignment() // правоассоциативно
	if !ok {
		return nil, false
	}
	switch target := left.(type) {
	case *ast.VariableExpr:
		return &ast.AssignExpr{Name: target.Name, Op: op, Value: value}, true
	case *ast.GetExpr:
		return &ast.SetExpr{Object: target.Object, Name: target.Name, Op: op, Value: value}, true
	case *ast.IndexExpr:
		return &ast.IndexSetExpr{Object: target.Object, Bracket: target.Bracket, Index: target.Index, Op: op, Value: value}, true
	}
	// цель недопустима: репортим, но не теряем синхронизацию
	p.ErrorAt(op, diag.SynInvalidAssignment, "Invalid assignment target.")
	return left, true
}

func (p *Parser) parseTernary() (ast.Expr, bool) {
	cond, ok := p.parseBinary(precLogicalOr)
	if !ok || !p.Check(token.Question) {
		return cond, ok
	}
	q := p.Advance()
	then, ok := p.parseTernary()
	if !ok {
		return nil, false
	}
	if _, ok := p.validator.ExpectAfter(token.Colon, "then branch of conditional expression"); !ok {
		return nil, false
	}
	els, ok := p.parseTernary()
	if !ok {
		return nil, false
	}
	return &ast.TernaryExpr{Condition: cond, Question: q, Then: then, Else: els}, true
}

// parseBinary - precedence climbing по таблице из op_table.go.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		prec, class := p.binaryOperator(p.Peek())
		if class == opNone || prec < minPrec {
			return left, true
		}
		op := p.Advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return nil, false
		}
		switch class {
		case opLogical:
			left = &ast.LogicalExpr{Left: left, Operator: op, Right: right}
		case opBitwise:
			left = &ast.BitwiseExpr{Left: left, Operator: op, Right: right}
		case opInfixCall:
			left = &ast.InfixCallExpr{Left: left, Operator: op, Right: right}
		default:
			left = &ast.BinaryExpr{Left: left, Operator: op, Right: right}
		}
	}
}

func (p *Parser) parseUnary() (ast.Expr, bool) {
	tok := p.Peek()
	switch {
	case p.CheckAny(token.Bang, token.Minus, token.Tilde):
		p.Advance()
		right, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &ast.UnaryExpr{Operator: tok, Right: right}, true

	case p.CheckAny(token.PlusPlus, token.MinusMinus):
		p.Advance()
		target, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		if !assignable(target) {
			p.ErrorAt(tok, diag.SynInvalidAssignment, fmt.Sprintf("Invalid target for '%s'.", tok.Text))
		}
		return &ast.IncrementExpr{Operator: tok, Target: target, Prefix: true}, true

	case tok.Kind == token.Ident && p.functions.IsPrefix(tok.Text) && p.PeekAt(1).Kind != token.LParen:
		p.Advance()
		operand, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &ast.PrefixCallExpr{Operator: tok, Operand: operand}, true
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, bool) {
	expr, ok := p.parseCall()
	if !ok {
		return nil, false
	}
	if p.CheckAny(token.PlusPlus, token.MinusMinus) && assignable(expr) {
		op := p.Advance()
		return &ast.IncrementExpr{Operator: op, Target: expr}, true
	}
	return expr, true
}

func assignable(e ast.Expr) bool {
	switch e.(type) {
	case *ast.VariableExpr, *ast.GetExpr, *ast.IndexExpr:
		return true
	}
	return false
}

func (p *Parser) parseCall() (ast.Expr, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch {
		case p.Check(token.LParen):
			paren := p.Advance()
			args, ok := p.arguments()
			if !ok {
				return nil, false
			}
			expr = &ast.CallExpr{Callee: expr, Paren: paren, Arguments: args}
		case p.Check(token.Dot):
			p.Advance()
			name, ok := p.validator.ExpectIdent("property name after '.'")
			if !ok {
				return nil, false
			}
			expr = &ast.GetExpr{Object: expr, Name: name}
		case p.Check(token.LBracket):
			bracket := p.Advance()
			index, ok := p.Expression()
			if !ok {
				return nil, false
			}
			if _, ok := p.validator.ExpectAfter(token.RBracket, "index"); !ok {
				return nil, false
			}
			expr = &ast.IndexExpr{Object: expr, Bracket: bracket, Index: index}
		default:
			return expr, true
		}
	}
}

// arguments parses a call argument list; the '(' is already consumed.
func (p *Parser) arguments() ([]ast.Expr, bool) {
	var args []ast.Expr
	if !p.Check(token.RParen) {
		for {
			if len(args) >= maxArguments {
				p.Error(diag.SynTooManyParameters, fmt.Sprintf("Cannot have more than %d arguments.", maxArguments))
			}
			arg, ok := p.Expression()
			if !ok {
				return nil, false
			}
			args = append(args, arg)
			if !p.Match(token.Comma) {
				break
			}
		}
	}
	if _, ok := p.validator.ExpectAfter(token.RParen, "arguments"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	for _, pp := range p.prefixes {
		if expr, applies := pp.ParsePrefix(p, p.validator); applies {
			return expr, expr != nil
		}
	}

	tok := p.Peek()
	switch tok.Kind {
	case token.IntLit, token.FloatLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNull:
		p.Advance()
		return &ast.LiteralExpr{Token: tok, Value: tok.Literal}, true
	case token.Ident:
		p.Advance()
		return &ast.VariableExpr{Name: tok}, true
	case token.KwThis:
		p.Advance()
		return &ast.ThisExpr{Keyword: tok}, true
	case token.KwSuper:
		p.Advance()
		if _, ok := p.validator.ExpectAfter(token.Dot, "'super'"); !ok {
			return nil, false
		}
		method, ok := p.validator.ExpectIdent("superclass method name")
		if !ok {
			return nil, false
		}
		return &ast.SuperExpr{Keyword: tok, Method: method}, true
	case token.LParen:
		p.Advance()
		inner, ok := p.Expression()
		if !ok {
			return nil, false
		}
		if _, ok := p.validator.ExpectAfter(token.RParen, "expression"); !ok {
			return nil, false
		}
		return &ast.GroupingExpr{Paren: tok, Expression: inner}, true
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.KwFunction:
		return p.parseLambda()
	case token.Invalid:
		// уже зарепорчено лексером
		p.Advance()
		p.opts.CurrentErrors++
		return nil, false
	}
	p.Error(diag.SynExpectExpression, fmt.Sprintf("Expected expression, but found %s.", found(tok)))
	return nil, false
}

func (p *Parser) parseArrayLiteral() (ast.Expr, bool) {
	bracket := p.Advance()
	var elems []ast.Expr
	if !p.Check(token.RBracket) {
		for {
			el, ok := p.Expression()
			if !ok {
				return nil, false
			}
			elems = append(elems, el)
			if !p.Match(token.Comma) || p.Check(token.RBracket) {
				break
			}
		}
	}
	if _, ok := p.validator.ExpectAfter(token.RBracket, "array elements"); !ok {
		return nil, false
	}
	return &ast.ArrayExpr{Bracket: bracket, Elements: elems}, true
}

func (p *Parser) parseLambda() (ast.Expr, bool) {
	kw := p.Advance()
	params, ok := p.Parameters("function", maxArguments, token.LParen, token.RParen)
	if !ok {
		return nil, false
	}
	body, ok := p.functionBody("function")
	if !ok {
		return nil, false
	}
	return &ast.FunctionExpr{Keyword: kw, Params: params, Body: body}, true
}

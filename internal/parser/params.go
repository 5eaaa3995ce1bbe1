package parser

import (
	"fmt"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/token"
)

// Unlimited disables the arity check of Parameters.
const Unlimited = -1

// Parameters parses `open name, name, ... close` for construct. More than
// max parameters is reported as an error naming the construct; parsing
// continues so the rest of the declaration is still checked.
func (p *Parser) Parameters(construct string, max int, open, close token.Kind) ([]ast.Parameter, bool) {
	if _, ok := p.validator.ExpectBefore(open, construct+" parameters"); !ok {
		return nil, false
	}
	var params []ast.Parameter
	if !p.Check(close) {
		for {
			name, ok := p.validator.ExpectIdent("parameter name")
			if !ok {
				return nil, false
			}
			if max != Unlimited && len(params) == max {
				p.ErrorAt(name, diag.SynTooManyParameters,
					fmt.Sprintf("Cannot have more than %d parameters in %s.", max, construct))
			}
			params = append(params, ast.Parameter{Name: name})
			if !p.Match(token.Comma) {
				break
			}
		}
	}
	if _, ok := p.validator.ExpectAfter(close, construct+" parameters"); !ok {
		return nil, false
	}
	return params, true
}

// functionBody parses `{ ... }` and returns its statements.
func (p *Parser) functionBody(construct string) ([]ast.Stmt, bool) {
	if !p.Check(token.LBrace) {
		p.Error(diag.SynUnexpectedToken, fmt.Sprintf("Expected '{' before %s body, but found %s.", construct, found(p.Peek())))
		return nil, false
	}
	block, ok := p.Block()
	if !ok {
		return nil, false
	}
	return block.Statements, true
}

package parser

import (
	"hsl/internal/diag"
	"hsl/internal/source"
	"hsl/internal/token"
)

// diagnosticSpan - лучший span для диагностики: на EOF указываем сразу за последним токеном.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.ZeroideToEnd()
	}
	return peek.Span
}

// Error reports a syntax error at the current token. An Invalid token was
// already reported by the lexer, so nothing is added for it.
func (p *Parser) Error(code diag.Code, msg string) {
	if p.Check(token.Invalid) {
		p.opts.CurrentErrors++
		return
	}
	p.report(code, p.diagnosticSpan(), msg)
}

// ErrorAt reports a syntax error pointing at tok.
func (p *Parser) ErrorAt(tok token.Token, code diag.Code, msg string) {
	p.report(code, tok.Span, msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || (p.opts.MaxErrors > 0 && p.opts.CurrentErrors > p.opts.MaxErrors) {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
}

// statementStarters - токены, с которых может начаться следующий statement.
var statementStarters = []token.Kind{
	token.KwClass, token.KwFunction, token.KwVar, token.KwFinal, token.KwFor, token.KwIf,
	token.KwWhile, token.KwDo, token.KwReturn, token.KwRepeat, token.KwNative, token.KwUsing,
	token.KwPrefix, token.KwInfix, token.KwBreak, token.KwContinue,
}

// synchronize skips tokens until a statement boundary: just after ';', or
// before a token that starts a statement or closes a block.
func (p *Parser) synchronize() {
	if !p.AtEnd() {
		p.Advance()
	}
	for !p.AtEnd() {
		if p.Previous().Kind == token.Semicolon {
			return
		}
		if p.CheckAny(statementStarters...) || p.Check(token.RBrace) {
			return
		}
		p.Advance()
	}
}

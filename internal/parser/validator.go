package parser

import (
	"fmt"

	"hsl/internal/diag"
	"hsl/internal/token"
)

// StepValidator centralises "expect token X" checks so every strategy
// reports the same message shape: what was expected, where, and what was found.
type StepValidator struct {
	p *Parser
}

func codeFor(kind token.Kind) diag.Code {
	switch kind {
	case token.Semicolon:
		return diag.SynExpectSemicolon
	case token.RParen:
		return diag.SynUnclosedParen
	case token.RBrace:
		return diag.SynUnclosedBrace
	case token.RBracket:
		return diag.SynUnclosedBracket
	case token.Ident:
		return diag.SynExpectIdentifier
	default:
		return diag.SynUnexpectedToken
	}
}

func found(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return "'" + tok.Text + "'"
	}
	if tok.Text != "" {
		return "'" + tok.Text + "'"
	}
	return tok.Kind.Describe()
}

// Expect consumes a token of kind that belongs to construct.
func (v *StepValidator) Expect(kind token.Kind, construct string) (token.Token, bool) {
	return v.expect(kind, func() string {
		return fmt.Sprintf("Expected %s in %s, but found %s.", kind.Describe(), construct, found(v.p.Peek()))
	})
}

// ExpectAfter consumes a token of kind that must follow what.
func (v *StepValidator) ExpectAfter(kind token.Kind, what string) (token.Token, bool) {
	return v.expect(kind, func() string {
		return fmt.Sprintf("Expected %s after %s, but found %s.", kind.Describe(), what, found(v.p.Peek()))
	})
}

// ExpectBefore consumes a token of kind that must precede what.
func (v *StepValidator) ExpectBefore(kind token.Kind, what string) (token.Token, bool) {
	return v.expect(kind, func() string {
		return fmt.Sprintf("Expected %s before %s, but found %s.", kind.Describe(), what, found(v.p.Peek()))
	})
}

// ExpectIdent consumes an identifier naming a role, e.g. "variable name".
func (v *StepValidator) ExpectIdent(role string) (token.Token, bool) {
	return v.expect(token.Ident, func() string {
		return fmt.Sprintf("Expected %s, but found %s.", role, found(v.p.Peek()))
	})
}

func (v *StepValidator) expect(kind token.Kind, msg func() string) (token.Token, bool) {
	if v.p.Check(kind) {
		return v.p.Advance(), true
	}
	v.p.Error(codeFor(kind), msg())
	return token.Token{Kind: token.Invalid, Span: v.p.diagnosticSpan()}, false
}

package token

import (
	"hsl/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Literal any
	Line    int // 1-based
	Column  int // 1-based, in bytes
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, string, boolean, or null literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwVar && t.Kind <= KwNull
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind < kindCount
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Synthetic builds a token that does not come from source, e.g. the implicit
// "this" of a constructor body.
func Synthetic(kind Kind, text string, at Token) Token {
	return Token{Kind: kind, Span: at.Span, Text: text, Line: at.Line, Column: at.Column}
}

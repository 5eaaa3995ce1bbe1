package token_test

import (
	"testing"

	"hsl/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNull}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwVar, token.Plus, token.LParen}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.Plus, token.UShrAssign, token.Tilde, token.PlusPlus,
		token.Question, token.RBracket, token.LParen,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	if tok(token.KwNull).IsPunctOrOp() || tok(token.Ident).IsPunctOrOp() {
		t.Fatal("keywords and identifiers are not operators")
	}
}

func TestAssignOps(t *testing.T) {
	cases := map[token.Kind]token.Kind{
		token.Assign:      token.Invalid,
		token.PlusAssign:  token.Plus,
		token.ShlAssign:   token.Shl,
		token.UShrAssign:  token.UShr,
		token.CaretAssign: token.Caret,
	}
	for k, want := range cases {
		if !k.IsAssignOp() {
			t.Errorf("%v should be an assignment op", k)
		}
		if got := k.BinaryOf(); got != want {
			t.Errorf("%v.BinaryOf() = %v, want %v", k, got, want)
		}
	}
	if token.EqEq.IsAssignOp() {
		t.Error("== is not an assignment op")
	}
}

func TestDescribe(t *testing.T) {
	cases := map[token.Kind]string{
		token.Semicolon:  "';'",
		token.KwRepeat:   "'repeat'",
		token.EOF:        "end of file",
		token.Ident:      "identifier",
		token.UShrAssign: "'>>>='",
	}
	for k, want := range cases {
		if got := k.Describe(); got != want {
			t.Errorf("%v.Describe() = %q, want %q", k, got, want)
		}
	}
}

package token_test

import (
	"testing"

	"hsl/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	cases := map[string]token.Kind{
		"var":         token.KwVar,
		"final":       token.KwFinal,
		"repeat":      token.KwRepeat,
		"constructor": token.KwConstructor,
		"infix":       token.KwInfix,
		"null":        token.KwNull,
	}
	for word, want := range cases {
		got, ok := token.LookupKeyword(word)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v,%v; want %v", word, got, ok, want)
		}
	}
	for _, word := range []string{"Var", "REPEAT", "let", "fn", "repeat_"} {
		if _, ok := token.LookupKeyword(word); ok {
			t.Errorf("%q must not be a keyword", word)
		}
	}
	if len(token.Keywords()) != 27 {
		t.Errorf("unexpected keyword count %d", len(token.Keywords()))
	}
}

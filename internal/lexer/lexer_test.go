package lexer_test

import (
	"testing"

	"hsl/internal/diag"
	"hsl/internal/lexer"
	"hsl/internal/source"
	"hsl/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hsl", []byte(input))
	bag := diag.NewBag(50)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func expectTokens(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, bag := makeTestLexer(input)
	toks := lx.All()
	want = append(want, token.EOF)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %v, want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics %v", input, bag.Items())
	}
	return toks
}

func TestKeywordsAndIdents(t *testing.T) {
	toks := expectTokens(t, "final var repeatCount = repeat;",
		token.KwFinal, token.KwVar, token.Ident, token.Assign, token.KwRepeat, token.Semicolon)
	if toks[2].Text != "repeatCount" {
		t.Errorf("ident text = %q", toks[2].Text)
	}
	expectTokens(t, "имя _x x1", token.Ident, token.Ident, token.Ident)
}

func TestLongestMatchOperators(t *testing.T) {
	expectTokens(t, "a >>>= b >>> c >> d > e",
		token.Ident, token.UShrAssign, token.Ident, token.UShr, token.Ident,
		token.Shr, token.Ident, token.Gt, token.Ident)
	expectTokens(t, "x <<= 1 ^= ~y",
		token.Ident, token.ShlAssign, token.IntLit, token.CaretAssign, token.Tilde, token.Ident)
	expectTokens(t, "i++ + --j && k || !l",
		token.Ident, token.PlusPlus, token.Plus, token.MinusMinus, token.Ident,
		token.AndAnd, token.Ident, token.OrOr, token.Bang, token.Ident)
	expectTokens(t, "c ? a : b", token.Ident, token.Question, token.Ident, token.Colon, token.Ident)
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		value any
	}{
		{"42", token.IntLit, int64(42)},
		{"1_000", token.IntLit, int64(1000)},
		{"0x2A", token.IntLit, int64(42)},
		{"0b101", token.IntLit, int64(5)},
		{"0o17", token.IntLit, int64(15)},
		{"1.5", token.FloatLit, 1.5},
		{".25", token.FloatLit, 0.25},
		{"1e3", token.FloatLit, 1000.0},
		{"2.5E-1", token.FloatLit, 0.25},
	}
	for _, tt := range tests {
		toks := expectTokens(t, tt.input, tt.kind)
		if toks[0].Literal != tt.value {
			t.Errorf("%q: literal = %#v, want %#v", tt.input, toks[0].Literal, tt.value)
		}
	}
}

func TestMemberAccessOnNumberIsNotFraction(t *testing.T) {
	expectTokens(t, "1.foo", token.IntLit, token.Dot, token.Ident)
}

func TestStringLiterals(t *testing.T) {
	toks := expectTokens(t, `"a\tb\n\"q\" \x41\u{1F600}"`, token.StringLit)
	if want := "a\tb\n\"q\" A😀"; toks[0].Literal != want {
		t.Errorf("literal = %q, want %q", toks[0].Literal, want)
	}
	toks = expectTokens(t, "\"multi\nline\"", token.StringLit)
	if toks[0].Literal != "multi\nline" {
		t.Errorf("multiline literal = %q", toks[0].Literal)
	}
}

func TestBoolLiterals(t *testing.T) {
	toks := expectTokens(t, "true false null", token.KwTrue, token.KwFalse, token.KwNull)
	if toks[0].Literal != true || toks[1].Literal != false || toks[2].Literal != nil {
		t.Errorf("unexpected literals %v %v %v", toks[0].Literal, toks[1].Literal, toks[2].Literal)
	}
}

func TestCommentsBecomeTrivia(t *testing.T) {
	toks := expectTokens(t, "// head\nvar /* a /* nested */ b */ x; // tail",
		token.KwVar, token.Ident, token.Semicolon)
	if len(toks[0].Leading) != 2 || toks[0].Leading[0].Kind != token.TriviaLineComment {
		t.Fatalf("unexpected leading trivia on var: %+v", toks[0].Leading)
	}
	var sawBlock bool
	for _, tr := range toks[1].Leading {
		if tr.Kind == token.TriviaBlockComment && tr.Text == "/* a /* nested */ b */" {
			sawBlock = true
		}
	}
	if !sawBlock {
		t.Fatalf("nested block comment not kept: %+v", toks[1].Leading)
	}
	eof := toks[len(toks)-1]
	if len(eof.Leading) == 0 || !eof.Leading[len(eof.Leading)-1].IsComment() {
		t.Fatalf("trailing comment should attach to EOF: %+v", eof.Leading)
	}
}

func TestPositions(t *testing.T) {
	toks := expectTokens(t, "var a;\n  a = 2;", token.KwVar, token.Ident, token.Semicolon,
		token.Ident, token.Assign, token.IntLit, token.Semicolon)
	if toks[3].Line != 2 || toks[3].Column != 3 {
		t.Errorf("a on line 2: got %d:%d", toks[3].Line, toks[3].Column)
	}
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Errorf("var: got %d:%d", toks[0].Line, toks[0].Column)
	}
}

func TestLexicalErrorsContinue(t *testing.T) {
	lx, bag := makeTestLexer("var a = 1 # 2 @ \"open")
	toks := lx.All()
	got := kinds(toks)
	want := []token.Kind{token.KwVar, token.Ident, token.Assign, token.IntLit, token.Invalid,
		token.IntLit, token.Invalid, token.Invalid, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	codes := []diag.Code{diag.LexUnknownChar, diag.LexUnknownChar, diag.LexUnterminatedString}
	if bag.Len() != len(codes) {
		t.Fatalf("expected %d diagnostics, got %d: %v", len(codes), bag.Len(), bag.Items())
	}
	for i, c := range codes {
		if bag.Items()[i].Code != c {
			t.Errorf("diagnostic %d: got %s, want %s", i, bag.Items()[i].Code.ID(), c.ID())
		}
	}
	if bag.Items()[0].Message != "Unexpected character '#'." {
		t.Errorf("message = %q", bag.Items()[0].Message)
	}
}

func TestBadNumbersAndEscapes(t *testing.T) {
	cases := map[string]diag.Code{
		"0x":                      diag.LexBadNumber,
		"1e+":                     diag.LexBadNumber,
		"12abc":                   diag.LexBadNumber,
		"99999999999999999999":    diag.LexBadNumber,
		`"bad \q escape"`:         diag.LexBadEscape,
		"/* never closed":         diag.LexUnterminatedBlockComment,
		"\"\\u{110000}\"":         diag.LexBadEscape,
	}
	for input, code := range cases {
		lx, bag := makeTestLexer(input)
		lx.All()
		if bag.Len() == 0 || bag.Items()[0].Code != code {
			t.Errorf("%q: expected %s, got %v", input, code.ID(), bag.Items())
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if lx.Peek().Text != "a" || lx.Peek().Text != "a" {
		t.Fatal("Peek must be idempotent")
	}
	if lx.Next().Text != "a" || lx.Next().Text != "b" || lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatal("unexpected Next sequence")
	}
}

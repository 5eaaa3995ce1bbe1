package lexer

import (
	"fmt"

	"hsl/internal/diag"
	"hsl/internal/token"
)

// Жадность: сначала длинные последовательности, затем 1-символьные.
var multiCharOps = []struct {
	text string
	kind token.Kind
}{
	{">>>=", token.UShrAssign},
	{">>>", token.UShr},
	{"<<=", token.ShlAssign},
	{">>=", token.ShrAssign},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
}

var singleCharOps = [256]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'=': token.Assign, '!': token.Bang, '<': token.Lt, '>': token.Gt, '&': token.Amp,
	'|': token.Pipe, '^': token.Caret, '~': token.Tilde, '?': token.Question, ':': token.Colon,
	';': token.Semicolon, ',': token.Comma, '.': token.Dot, '(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace, '[': token.LBracket, ']': token.RBracket,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	for _, op := range multiCharOps {
		if lx.cursor.Match(op.text) {
			return emit(op.kind)
		}
	}

	ch := lx.cursor.Peek()
	if k := singleCharOps[ch]; k != token.Invalid {
		lx.cursor.Bump()
		return emit(k)
	}

	// неизвестный символ: съедаем руну целиком
	r, _ := lx.peekRune()
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("Unexpected character '%c'.", r))
	return lx.invalid(sp)
}

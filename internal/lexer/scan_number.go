package lexer

import (
	"strconv"
	"strings"

	"hsl/internal/diag"
	"hsl/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x..., 1.0, .5, 1e-3, 1.0e+10.
// Неверные формы - репорт через opts.Reporter и Invalid токен.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	base := 10

	digits := func(ok func(byte) bool) int {
		n := 0
		for ok(lx.cursor.Peek()) || (n > 0 && lx.cursor.Peek() == '_') {
			lx.cursor.Bump()
			n++
		}
		return n
	}

	switch {
	case lx.cursor.Peek() == '.':
		lx.cursor.Bump()
		kind = token.FloatLit
		digits(isDec)
	case lx.cursor.Peek() == '0' && isBasePrefix(lx.cursor.PeekAt(1)):
		lx.cursor.Bump()
		switch lx.cursor.Bump() {
		case 'b', 'B':
			base = 2
			if digits(func(b byte) bool { return b == '0' || b == '1' }) == 0 {
				return lx.badNumber(start, "expected binary digits after '0b'")
			}
		case 'o', 'O':
			base = 8
			if digits(func(b byte) bool { return b >= '0' && b <= '7' }) == 0 {
				return lx.badNumber(start, "expected octal digits after '0o'")
			}
		default:
			base = 16
			if digits(isHex) == 0 {
				return lx.badNumber(start, "expected hex digits after '0x'")
			}
		}
	default:
		digits(isDec)
		// дробная часть только если за точкой цифра: `1.foo` не число
		if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			kind = token.FloatLit
			digits(isDec)
		}
	}

	if base == 10 && (lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E') {
		kind = token.FloatLit
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if digits(isDec) == 0 {
			return lx.badNumber(start, "expected digit after exponent")
		}
	}

	// хвост вида 12abc - одна ошибка на весь фрагмент
	if isIdentContinueByte(lx.cursor.Peek()) && !lx.cursor.EOF() {
		for isIdentContinueByte(lx.cursor.Peek()) && !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
		return lx.badNumber(start, "invalid suffix on number literal")
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	clean := strings.ReplaceAll(text, "_", "")
	tok := token.Token{Kind: kind, Span: sp, Text: text}

	if kind == token.FloatLit {
		v, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return lx.badNumber(start, "malformed float literal")
		}
		tok.Literal = v
		return tok
	}
	if base != 10 {
		clean = clean[2:]
	}
	v, err := strconv.ParseInt(clean, base, 64)
	if err != nil {
		return lx.badNumber(start, "integer literal out of range")
	}
	tok.Literal = v
	return tok
}

func isBasePrefix(b byte) bool {
	switch b {
	case 'b', 'B', 'o', 'O', 'x', 'X':
		return true
	}
	return false
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return lx.invalid(sp)
}

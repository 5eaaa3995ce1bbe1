package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"hsl/internal/diag"
	"hsl/internal/token"
)

// scanString reads "..." with escapes \n \t \r \0 \\ \" \' \xNN \u{...}.
// Strings may span lines. A bad escape is reported and the token becomes Invalid,
// but scanning continues to the closing quote.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	var b strings.Builder
	bad := false
	for !lx.cursor.EOF() {
		c := lx.cursor.Peek()
		if c == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			if bad {
				return lx.invalid(sp)
			}
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp), Literal: b.String()}
		}
		if c != '\\' {
			b.WriteByte(lx.cursor.Bump())
			continue
		}
		escStart := lx.cursor.Mark()
		lx.cursor.Bump()
		if !lx.decodeEscape(&b) {
			bad = true
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "invalid escape sequence")
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "Unterminated string.")
	return lx.invalid(sp)
}

func (lx *Lexer) decodeEscape(b *strings.Builder) bool {
	switch lx.cursor.Bump() {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '0':
		b.WriteByte(0)
	case '\\':
		b.WriteByte('\\')
	case '"':
		b.WriteByte('"')
	case '\'':
		b.WriteByte('\'')
	case 'x':
		h1, h2 := lx.cursor.PeekAt(0), lx.cursor.PeekAt(1)
		if !isHex(h1) || !isHex(h2) {
			return false
		}
		lx.cursor.BumpN(2)
		v, _ := strconv.ParseUint(string([]byte{h1, h2}), 16, 8)
		b.WriteByte(byte(v))
	case 'u':
		if !lx.cursor.Eat('{') {
			return false
		}
		var hex []byte
		for isHex(lx.cursor.Peek()) && len(hex) < 6 {
			hex = append(hex, lx.cursor.Bump())
		}
		if len(hex) == 0 || !lx.cursor.Eat('}') {
			return false
		}
		v, err := strconv.ParseUint(string(hex), 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return false
		}
		b.WriteRune(rune(v))
	default:
		return false
	}
	return true
}

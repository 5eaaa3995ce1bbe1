package parser

import (
	"hsl/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет. Присваивание и тернарный
// оператор разбираются отдельно, выше этой таблицы.
const (
	precLowest         = 0
	precLogicalOr      = 2  // || or
	precLogicalAnd     = 3  // && and
	precEquality       = 4  // == !=
	precComparison     = 5  // < <= > >=
	precInfixCall      = 6  // a max b (user infix functions)
	precBitwiseOr      = 7  // |
	precBitwiseXor     = 8  // ^
	precBitwiseAnd     = 9  // &
	precShift          = 10 // << >> >>>
	precAdditive       = 11 // + -
	precMultiplicative = 12 // * / %
)

type opClass uint8

const (
	opNone opClass = iota
	opBinary
	opBitwise
	opLogical
	opInfixCall
)

// binaryOperator возвращает приоритет и класс оператора для текущего токена.
// Все бинарные операторы левоассоциативны.
func (p *Parser) binaryOperator(tok token.Token) (int, opClass) {
	switch tok.Kind {
	case token.OrOr, token.KwOr:
		return precLogicalOr, opLogical
	case token.AndAnd, token.KwAnd:
		return precLogicalAnd, opLogical
	case token.EqEq, token.BangEq:
		return precEquality, opBinary
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, opBinary
	case token.Pipe:
		return precBitwiseOr, opBitwise
	case token.Caret:
		return precBitwiseXor, opBitwise
	case token.Amp:
		return precBitwiseAnd, opBitwise
	case token.Shl, token.Shr, token.UShr:
		return precShift, opBitwise
	case token.Plus, token.Minus:
		return precAdditive, opBinary
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, opBinary
	case token.Ident:
		if p.functions.IsInfix(tok.Text) {
			return precInfixCall, opInfixCall
		}
	}
	return -1, opNone
}

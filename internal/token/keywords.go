package token

var keywords = map[string]Kind{
	"var":         KwVar,
	"final":       KwFinal,
	"function":    KwFunction,
	"native":      KwNative,
	"prefix":      KwPrefix,
	"infix":       KwInfix,
	"class":       KwClass,
	"extends":     KwExtends,
	"constructor": KwConstructor,
	"this":        KwThis,
	"super":       KwSuper,
	"if":          KwIf,
	"else":        KwElse,
	"while":       KwWhile,
	"do":          KwDo,
	"for":         KwFor,
	"in":          KwIn,
	"repeat":      KwRepeat,
	"break":       KwBreak,
	"continue":    KwContinue,
	"return":      KwReturn,
	"using":       KwUsing,
	"and":         KwAnd,
	"or":          KwOr,
	"true":        KwTrue,
	"false":       KwFalse,
	"null":        KwNull,
}

var spellings = func() map[Kind]string {
	m := map[Kind]string{
		Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", PlusPlus: "++",
		MinusMinus: "--", Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=",
		SlashAssign: "/=", PercentAssign: "%=", AmpAssign: "&=", PipeAssign: "|=",
		CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=", UShrAssign: ">>>=",
		EqEq: "==", Bang: "!", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
		Shl: "<<", Shr: ">>", UShr: ">>>", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~",
		AndAnd: "&&", OrOr: "||", Question: "?", Colon: ":", Semicolon: ";", Comma: ",",
		Dot: ".", LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[",
		RBracket: "]",
	}
	for word, k := range keywords {
		m[k] = word
	}
	return m
}()

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые - только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Keywords returns every reserved word; order is unspecified.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for w := range keywords {
		out = append(out, w)
	}
	return out
}

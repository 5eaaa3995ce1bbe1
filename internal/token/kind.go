package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token produced by the lexer.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a floating-point literal.
	FloatLit
	// StringLit represents a string literal.
	StringLit

	// KwVar represents the 'var' keyword.
	KwVar
	// KwFinal represents the 'final' keyword.
	KwFinal
	// KwFunction represents the 'function' keyword.
	KwFunction
	// KwNative represents the 'native' keyword.
	KwNative
	// KwPrefix represents the 'prefix' keyword.
	KwPrefix
	// KwInfix represents the 'infix' keyword.
	KwInfix
	// KwClass represents the 'class' keyword.
	KwClass
	// KwExtends represents the 'extends' keyword.
	KwExtends
	// KwConstructor represents the 'constructor' keyword.
	KwConstructor
	// KwThis represents the 'this' keyword.
	KwThis
	// KwSuper represents the 'super' keyword.
	KwSuper
	// KwIf represents the 'if' keyword.
	KwIf
	// KwElse represents the 'else' keyword.
	KwElse
	// KwWhile represents the 'while' keyword.
	KwWhile
	// KwDo represents the 'do' keyword.
	KwDo
	// KwFor represents the 'for' keyword.
	KwFor
	// KwIn represents the 'in' keyword.
	KwIn
	// KwRepeat represents the 'repeat' keyword.
	KwRepeat
	// KwBreak represents the 'break' keyword.
	KwBreak
	// KwContinue represents the 'continue' keyword.
	KwContinue
	// KwReturn represents the 'return' keyword.
	KwReturn
	// KwUsing represents the 'using' keyword.
	KwUsing
	// KwAnd represents the 'and' keyword.
	KwAnd
	// KwOr represents the 'or' keyword.
	KwOr
	// KwTrue represents the 'true' keyword.
	KwTrue
	// KwFalse represents the 'false' keyword.
	KwFalse
	// KwNull represents the 'null' keyword.
	KwNull

	Plus           // +
	Minus          // -
	Star           // *
	Slash          // /
	Percent        // %
	PlusPlus       // ++
	MinusMinus     // --
	Assign         // =
	PlusAssign     // +=
	MinusAssign    // -=
	StarAssign     // *=
	SlashAssign    // /=
	PercentAssign  // %=
	AmpAssign      // &=
	PipeAssign     // |=
	CaretAssign    // ^=
	ShlAssign      // <<=
	ShrAssign      // >>=
	UShrAssign     // >>>=
	EqEq           // ==
	Bang           // !
	BangEq         // !=
	Lt             // <
	LtEq           // <=
	Gt             // >
	GtEq           // >=
	Shl            // <<
	Shr            // >>
	UShr           // >>>
	Amp            // &
	Pipe           // |
	Caret          // ^
	Tilde          // ~
	AndAnd         // &&
	OrOr           // ||
	Question       // ?
	Colon          // :
	Semicolon      // ;
	Comma          // ,
	Dot            // .
	LParen         // (
	RParen         // )
	LBrace         // {
	RBrace         // }
	LBracket       // [
	RBracket       // ]
	kindCount
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	IntLit: "IntLit", FloatLit: "FloatLit", StringLit: "StringLit",
	KwVar: "KwVar", KwFinal: "KwFinal", KwFunction: "KwFunction", KwNative: "KwNative",
	KwPrefix: "KwPrefix", KwInfix: "KwInfix", KwClass: "KwClass", KwExtends: "KwExtends",
	KwConstructor: "KwConstructor", KwThis: "KwThis", KwSuper: "KwSuper", KwIf: "KwIf",
	KwElse: "KwElse", KwWhile: "KwWhile", KwDo: "KwDo", KwFor: "KwFor", KwIn: "KwIn",
	KwRepeat: "KwRepeat", KwBreak: "KwBreak", KwContinue: "KwContinue", KwReturn: "KwReturn",
	KwUsing: "KwUsing", KwAnd: "KwAnd", KwOr: "KwOr", KwTrue: "KwTrue", KwFalse: "KwFalse",
	KwNull: "KwNull",
	Plus: "Plus", Minus: "Minus", Star: "Star", Slash: "Slash", Percent: "Percent",
	PlusPlus: "PlusPlus", MinusMinus: "MinusMinus", Assign: "Assign",
	PlusAssign: "PlusAssign", MinusAssign: "MinusAssign", StarAssign: "StarAssign",
	SlashAssign: "SlashAssign", PercentAssign: "PercentAssign", AmpAssign: "AmpAssign",
	PipeAssign: "PipeAssign", CaretAssign: "CaretAssign", ShlAssign: "ShlAssign",
	ShrAssign: "ShrAssign", UShrAssign: "UShrAssign", EqEq: "EqEq", Bang: "Bang",
	BangEq: "BangEq", Lt: "Lt", LtEq: "LtEq", Gt: "Gt", GtEq: "GtEq", Shl: "Shl",
	Shr: "Shr", UShr: "UShr", Amp: "Amp", Pipe: "Pipe", Caret: "Caret", Tilde: "Tilde",
	AndAnd: "AndAnd", OrOr: "OrOr", Question: "Question", Colon: "Colon",
	Semicolon: "Semicolon", Comma: "Comma", Dot: "Dot", LParen: "LParen",
	RParen: "RParen", LBrace: "LBrace", RBrace: "RBrace", LBracket: "LBracket",
	RBracket: "RBracket",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsAssignOp reports whether k is '=' or a compound assignment operator.
func (k Kind) IsAssignOp() bool {
	return k >= Assign && k <= UShrAssign
}

// BinaryOf maps a compound assignment operator to its binary operator.
// '=' and non-assignment kinds map to Invalid.
func (k Kind) BinaryOf() Kind {
	switch k {
	case PlusAssign:
		return Plus
	case MinusAssign:
		return Minus
	case StarAssign:
		return Star
	case SlashAssign:
		return Slash
	case PercentAssign:
		return Percent
	case AmpAssign:
		return Amp
	case PipeAssign:
		return Pipe
	case CaretAssign:
		return Caret
	case ShlAssign:
		return Shl
	case ShrAssign:
		return Shr
	case UShrAssign:
		return UShr
	default:
		return Invalid
	}
}

// Describe renders k the way diagnostics quote it: the spelling for
// operators and keywords, a category name otherwise.
func (k Kind) Describe() string {
	switch k {
	case EOF:
		return "end of file"
	case Ident:
		return "identifier"
	case IntLit, FloatLit:
		return "number"
	case StringLit:
		return "string"
	case Invalid:
		return "invalid token"
	}
	if s, ok := spellings[k]; ok {
		return "'" + s + "'"
	}
	return k.String()
}

package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectExpression  Code = 2002
	SynExpectIdentifier  Code = 2003
	SynExpectSemicolon   Code = 2004
	SynUnclosedParen     Code = 2005
	SynUnclosedBrace     Code = 2006
	SynUnclosedBracket   Code = 2007
	SynTooManyParameters Code = 2008
	SynInvalidAssignment Code = 2009
	SynModifierNotHere   Code = 2010

	// Resolver
	ResInfo                  Code = 3000
	ResRedeclared            Code = 3001
	ResSelfReference         Code = 3002
	ResFinalReassign         Code = 3003
	ResLoopControlOutside    Code = 3004
	ResReturnOutside         Code = 3005
	ResReturnFromConstructor Code = 3006
	ResThisOutsideClass      Code = 3007
	ResSuperMisuse           Code = 3008
	ResSelfInheritance       Code = 3009
	ResUnknownModule         Code = 3010
	ResUnknownNative         Code = 3011
	ResNativeArity           Code = 3012
	ResUnsupportedExtension  Code = 3013
	ResExtensionError        Code = 3014
	ResShadowed              Code = 3015

	// Runtime
	RunInfo            Code = 4000
	RunUndefined       Code = 4001
	RunTypeMismatch    Code = 4002
	RunDivisionByZero  Code = 4003
	RunNotCallable     Code = 4004
	RunArity           Code = 4005
	RunStepLimit       Code = 4006
	RunCallDepth       Code = 4007
	RunUndefinedMember Code = 4008
	RunIndexRange      Code = 4009
	RunBadSuperclass   Code = 4010
	RunCancelled       Code = 4011
	RunStraySignal     Code = 4012
	RunAssertion       Code = 4013
	RunInvalidOperand  Code = 4014
	RunFinalReassign   Code = 4015
	RunInternal        Code = 4016

	// Native modules
	NatInfo            Code = 5000
	NatUnknownModule   Code = 5001
	NatUnknownFunction Code = 5002
	NatArity           Code = 5003
	NatFailed          Code = 5004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexBadEscape:                "Bad escape sequence",

		SynInfo:              "Syntax information",
		SynUnexpectedToken:   "Unexpected token",
		SynExpectExpression:  "Expected expression",
		SynExpectIdentifier:  "Expected identifier",
		SynExpectSemicolon:   "Expected semicolon",
		SynUnclosedParen:     "Unclosed parenthesis",
		SynUnclosedBrace:     "Unclosed brace",
		SynUnclosedBracket:   "Unclosed bracket",
		SynTooManyParameters: "Too many parameters",
		SynInvalidAssignment: "Invalid assignment target",
		SynModifierNotHere:   "Modifier not allowed here",

		ResInfo:                  "Resolver information",
		ResRedeclared:            "Name already declared in this scope",
		ResSelfReference:         "Variable read in its own initializer",
		ResFinalReassign:         "Cannot reassign final binding",
		ResLoopControlOutside:    "Loop control outside of a loop",
		ResReturnOutside:         "Return outside of a function",
		ResReturnFromConstructor: "Return value from constructor",
		ResThisOutsideClass:      "'this' outside of a class",
		ResSuperMisuse:           "Invalid use of 'super'",
		ResSelfInheritance:       "Class inherits from itself",
		ResUnknownModule:         "Unknown native module",
		ResUnknownNative:         "Unknown native function",
		ResNativeArity:           "Native function arity mismatch",
		ResUnsupportedExtension:  "Extension node cannot be resolved",
		ResExtensionError:        "Extension resolve error",
		ResShadowed:              "Declaration shadows an outer binding",

		RunInfo:            "Runtime information",
		RunUndefined:       "Undefined variable",
		RunTypeMismatch:    "Type mismatch",
		RunDivisionByZero:  "Division by zero",
		RunNotCallable:     "Value is not callable",
		RunArity:           "Wrong number of arguments",
		RunStepLimit:       "Step limit exceeded",
		RunCallDepth:       "Call depth exceeded",
		RunUndefinedMember: "Undefined property",
		RunIndexRange:      "Index out of range",
		RunBadSuperclass:   "Invalid superclass",
		RunCancelled:       "Execution cancelled",
		RunStraySignal:     "Control flow escaped its construct",
		RunAssertion:       "Assertion failed",
		RunInvalidOperand:  "Invalid operand",
		RunFinalReassign:   "Final field reassigned",
		RunInternal:        "Internal interpreter failure",

		NatInfo:            "Native information",
		NatUnknownModule:   "Unknown native module",
		NatUnknownFunction: "Unknown native function",
		NatArity:           "Native function arity mismatch",
		NatFailed:          "Native function failed",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RUN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("NAT%04d", ic)
	}
	return "E0000"
}

// Phase reports the pipeline phase a code belongs to.
func (c Code) Phase() Phase {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return PhaseLexical
	case ic >= 2000 && ic < 3000:
		return PhaseSyntax
	case ic >= 3000 && ic < 4000:
		return PhaseResolve
	case ic >= 4000 && ic < 5000:
		return PhaseRuntime
	case ic >= 5000 && ic < 6000:
		return PhaseNative
	}
	return PhaseUnknown
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

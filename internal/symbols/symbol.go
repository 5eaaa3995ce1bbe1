package symbols

import (
	"strings"

	"hsl/internal/native"
	"hsl/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVar
	SymbolParam
	SymbolFunction
	SymbolClass
	SymbolNative
	SymbolModule
	SymbolBuiltin
	SymbolThis
	SymbolSuper
)

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagFinal SymbolFlags = 1 << iota
	SymbolFlagDefined
	SymbolFlagBuiltin
	SymbolFlagOperator // prefix or infix function
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "variable"
	case SymbolParam:
		return "parameter"
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	case SymbolNative:
		return "native function"
	case SymbolModule:
		return "module"
	case SymbolBuiltin:
		return "builtin"
	case SymbolThis:
		return "this"
	case SymbolSuper:
		return "super"
	default:
		return "invalid"
	}
}

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	var out []string
	if f&SymbolFlagFinal != 0 {
		out = append(out, "final")
	}
	if f&SymbolFlagDefined != 0 {
		out = append(out, "defined")
	}
	if f&SymbolFlagBuiltin != 0 {
		out = append(out, "builtin")
	}
	if f&SymbolFlagOperator != 0 {
		out = append(out, "operator")
	}
	return out
}

func (f SymbolFlags) String() string {
	return strings.Join(f.Strings(), "|")
}

// Symbol is one compile-time binding.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Flags SymbolFlags
	Span  source.Span
	// Signature is set for native functions, Module for `using` imports.
	Signature *native.Signature
	Module    string
}

func (s *Symbol) Final() bool   { return s.Flags&SymbolFlagFinal != 0 }
func (s *Symbol) Defined() bool { return s.Flags&SymbolFlagDefined != 0 }
func (s *Symbol) Builtin() bool { return s.Flags&SymbolFlagBuiltin != 0 }

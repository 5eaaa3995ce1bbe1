package symbols

import (
	"hsl/internal/native"
	"hsl/internal/source"
)

// PreludeEntry describes a symbol injected into the global scope before
// source traversal: builtins, or globals kept from an earlier REPL input.
type PreludeEntry struct {
	Name      string
	Kind      SymbolKind
	Flags     SymbolFlags
	Span      source.Span
	Signature *native.Signature
	Module    string
}

// Builtins builds prelude entries for host-provided global functions.
func Builtins(names ...string) []PreludeEntry {
	out := make([]PreludeEntry, 0, len(names))
	for _, n := range names {
		out = append(out, PreludeEntry{Name: n, Kind: SymbolBuiltin, Flags: SymbolFlagBuiltin})
	}
	return out
}

func (r *Resolver) installPrelude(scope *Scope, entries []PreludeEntry) {
	for _, e := range entries {
		scope.put(&Symbol{
			Name:      e.Name,
			Kind:      e.Kind,
			Flags:     e.Flags | SymbolFlagDefined,
			Span:      e.Span,
			Signature: e.Signature,
			Module:    e.Module,
		})
	}
}

// Globals exports the global declarations of the last Resolve call so a
// later input can be resolved against them.
func (r *Resolver) Globals() []PreludeEntry {
	if len(r.scopes) == 0 {
		return nil
	}
	syms := r.scopes[0].Symbols()
	out := make([]PreludeEntry, 0, len(syms))
	for _, s := range syms {
		out = append(out, PreludeEntry{
			Name:      s.Name,
			Kind:      s.Kind,
			Flags:     s.Flags &^ SymbolFlagDefined,
			Span:      s.Span,
			Signature: s.Signature,
			Module:    s.Module,
		})
	}
	return out
}

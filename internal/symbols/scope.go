package symbols

import "hsl/internal/source"

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeGlobal             // top-level declarations, resolved dynamically
	ScopeFunction           // function, constructor or lambda parameters and body
	ScopeBlock              // generic block scope
	ScopeLoop               // for / for-in header
	ScopeClass              // holds 'this'
	ScopeSuper              // holds 'super'
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeLoop:
		return "loop"
	case ScopeClass:
		return "class"
	case ScopeSuper:
		return "super"
	default:
		return "invalid"
	}
}

// Scope models one compile-time scope. It mirrors a runtime VariableScope
// but holds declarations instead of values.
type Scope struct {
	Kind    ScopeKind
	Span    source.Span
	names   map[string]*Symbol
	ordered []*Symbol
}

func newScope(kind ScopeKind, span source.Span) *Scope {
	return &Scope{Kind: kind, Span: span, names: make(map[string]*Symbol)}
}

// Lookup returns the symbol declared in this scope under name.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	sym, ok := s.names[name]
	return sym, ok
}

// Symbols returns declarations in declaration order.
func (s *Scope) Symbols() []*Symbol {
	return s.ordered
}

func (s *Scope) put(sym *Symbol) {
	if _, exists := s.names[sym.Name]; !exists {
		s.ordered = append(s.ordered, sym)
	} else {
		for i, old := range s.ordered {
			if old.Name == sym.Name {
				s.ordered[i] = sym
				break
			}
		}
	}
	s.names[sym.Name] = sym
}

package interp

import (
	"maps"
	"slices"
)

// VariableScope is one runtime environment. Scopes form a chain through
// their enclosing scope; the root of the chain is the global scope.
type VariableScope struct {
	values    map[string]Value
	enclosing *VariableScope
}

func NewVariableScope(enclosing *VariableScope) *VariableScope {
	return &VariableScope{values: make(map[string]Value), enclosing: enclosing}
}

// Define binds name in this scope, replacing any previous binding here.
func (s *VariableScope) Define(name string, v Value) {
	s.values[name] = v
}

// Get searches the chain from this scope outwards.
func (s *VariableScope) Get(name string) (Value, bool) {
	for sc := s; sc != nil; sc = sc.enclosing {
		if v, ok := sc.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign updates the nearest existing binding. It never creates one.
func (s *VariableScope) Assign(name string, v Value) bool {
	for sc := s; sc != nil; sc = sc.enclosing {
		if _, ok := sc.values[name]; ok {
			sc.values[name] = v
			return true
		}
	}
	return false
}

// Ancestor walks distance scopes outwards; nil when the chain is shorter.
func (s *VariableScope) Ancestor(distance int) *VariableScope {
	sc := s
	for i := 0; i < distance && sc != nil; i++ {
		sc = sc.enclosing
	}
	return sc
}

// GetAt reads name exactly distance scopes out, without searching.
func (s *VariableScope) GetAt(distance int, name string) (Value, bool) {
	sc := s.Ancestor(distance)
	if sc == nil {
		return nil, false
	}
	v, ok := sc.values[name]
	return v, ok
}

// AssignAt writes name exactly distance scopes out if it is bound there.
func (s *VariableScope) AssignAt(distance int, name string, v Value) bool {
	sc := s.Ancestor(distance)
	if sc == nil {
		return false
	}
	if _, ok := sc.values[name]; !ok {
		return false
	}
	sc.values[name] = v
	return true
}

// Contains reports whether name is bound in this scope itself.
func (s *VariableScope) Contains(name string) bool {
	_, ok := s.values[name]
	return ok
}

func (s *VariableScope) Enclosing() *VariableScope {
	return s.enclosing
}

// Names lists the bindings of this scope, sorted.
func (s *VariableScope) Names() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Visible lists every name reachable from this scope, innermost first.
func (s *VariableScope) Visible() []string {
	seen := make(map[string]struct{})
	var out []string
	for sc := s; sc != nil; sc = sc.enclosing {
		for _, n := range sc.Names() {
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

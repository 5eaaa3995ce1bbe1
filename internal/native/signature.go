// Package native describes the functions that host modules expose to scripts.
package native

import (
	"fmt"
	"strings"
)

// Param documents one native parameter.
type Param struct {
	Name        string
	Description string
}

// Signature is the declared shape of one native function.
type Signature struct {
	Module      string
	Name        string
	Params      []Param
	Variadic    bool // last parameter may repeat zero or more times
	Description string
}

// Fn is a shortcut for building signatures from parameter names.
func Fn(module, name string, params ...string) Signature {
	sig := Signature{Module: module, Name: name}
	for _, p := range params {
		sig.Params = append(sig.Params, Param{Name: p})
	}
	return sig
}

// WithVariadic marks the last parameter as repeatable.
func (s Signature) WithVariadic() Signature {
	s.Variadic = true
	return s
}

// Describe attaches a one-line description.
func (s Signature) Describe(desc string) Signature {
	s.Description = desc
	return s
}

// Arity is the number of required arguments.
func (s Signature) Arity() int {
	if s.Variadic && len(s.Params) > 0 {
		return len(s.Params) - 1
	}
	return len(s.Params)
}

// Accepts reports whether a call with n arguments matches the signature.
func (s Signature) Accepts(n int) bool {
	if s.Variadic {
		return n >= s.Arity()
	}
	return n == len(s.Params)
}

// Expectation renders the accepted argument count for messages.
func (s Signature) Expectation() string {
	if s.Variadic {
		return fmt.Sprintf("at least %d", s.Arity())
	}
	return fmt.Sprintf("%d", len(s.Params))
}

func (s Signature) String() string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
		if s.Variadic && i == len(s.Params)-1 {
			names[i] += "..."
		}
	}
	return fmt.Sprintf("%s.%s(%s)", s.Module, s.Name, strings.Join(names, ", "))
}

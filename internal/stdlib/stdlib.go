// Package stdlib bundles the native modules and extensions shipped with the
// engine: math, strings, yaml, expr and the assert extension.
package stdlib

import (
	"fmt"

	"hsl/internal/diag"
	"hsl/internal/extension"
	"hsl/internal/interp"
	"hsl/internal/native"
	"hsl/internal/token"
)

// Names lists the bundled modules in registration order.
var Names = []string{"math", "strings", "yaml", "expr", "assert"}

// All returns a fresh instance of every bundled module.
func All() []extension.Module {
	return []extension.Module{
		NewMath(),
		NewStrings(),
		NewYAML(),
		NewExpr(),
		NewAssert(),
	}
}

// Registry builds a registry of the bundled modules, limited to enabled
// when it is non-empty.
func Registry(enabled ...string) (*extension.Registry, error) {
	r, err := extension.NewRegistry(All()...)
	if err != nil {
		return nil, err
	}
	if len(enabled) == 0 {
		return r, nil
	}
	return r.Only(enabled)
}

// table maps function names to implementations and derives the
// SupportedFunctions list from it.
type table struct {
	module string
	sigs   []native.Signature
	impls  map[string]impl
}

type impl func(in *interp.Interpreter, at token.Token, args []interp.Value) (interp.Value, error)

func newTable(module string) *table {
	return &table{module: module, impls: make(map[string]impl)}
}

func (t *table) add(sig native.Signature, fn impl) {
	sig.Module = t.module
	t.sigs = append(t.sigs, sig)
	t.impls[sig.Name] = fn
}

func (t *table) SupportedFunctions() []native.Signature {
	return t.sigs
}

func (t *table) Call(at token.Token, in *interp.Interpreter, fn string, args []interp.Value) (interp.Value, error) {
	f, ok := t.impls[fn]
	if !ok {
		return nil, fmt.Errorf("%s has no function %q", t.module, fn)
	}
	return f(in, at, args)
}

// args wraps positional arguments with typed accessors that report
// script-level type errors.
type args struct {
	in   *interp.Interpreter
	at   token.Token
	fn   string
	vals []interp.Value
}

func argsOf(in *interp.Interpreter, at token.Token, fn string, vals []interp.Value) args {
	return args{in: in, at: at, fn: fn, vals: vals}
}

func (a args) mismatch(i int, want string) error {
	return a.in.Errorf(a.at, diag.RunTypeMismatch, "%s() expects %s for argument %d, got %s.",
		a.fn, want, i+1, interp.TypeName(a.vals[i]))
}

func (a args) str(i int) (string, error) {
	s, ok := a.vals[i].(string)
	if !ok {
		return "", a.mismatch(i, "a string")
	}
	return s, nil
}

func (a args) float(i int) (float64, error) {
	switch n := a.vals[i].(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, a.mismatch(i, "a number")
}

func (a args) int(i int) (int64, error) {
	switch n := a.vals[i].(type) {
	case int64:
		return n, nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
	}
	return 0, a.mismatch(i, "an integer")
}

func (a args) array(i int) (*interp.Array, error) {
	arr, ok := a.vals[i].(*interp.Array)
	if !ok {
		return nil, a.mismatch(i, "an array")
	}
	return arr, nil
}

// Package extension describes modules that add syntax or native functions
// to the engine, and the registry that wires them into each phase.
//
// A module only has to implement Name. Every other capability is optional
// and discovered by interface assertion, so the core never special-cases a
// module:
//
//   - StatementProvider / PrefixProvider contribute parser strategies;
//   - symbols.NodeResolver resolves the custom nodes the module owns;
//   - interp.NodeInterpreter interprets them;
//   - interp.NativeModule exposes native functions under the module name.
package extension

import (
	"fmt"
	"slices"

	"hsl/internal/ast"
	"hsl/internal/interp"
	"hsl/internal/native"
	"hsl/internal/parser"
)

// Module is an extension module.
type Module interface {
	ast.ExtensionModule
}

// StatementProvider contributes statement strategies. They are tried after
// the built-in ones.
type StatementProvider interface {
	StatementParsers() []parser.StatementParser
}

// PrefixProvider contributes primary-expression strategies.
type PrefixProvider interface {
	PrefixParsers() []parser.PrefixParser
}

// Registry holds the modules enabled for one engine.
type Registry struct {
	modules []Module
	byName  map[string]Module
}

func NewRegistry(mods ...Module) (*Registry, error) {
	r := &Registry{byName: make(map[string]Module)}
	for _, m := range mods {
		if err := r.Add(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers m. Names must be unique.
func (r *Registry) Add(m Module) error {
	if m == nil || m.Name() == "" {
		return fmt.Errorf("extension: module without a name")
	}
	if _, dup := r.byName[m.Name()]; dup {
		return fmt.Errorf("extension: module %q registered twice", m.Name())
	}
	r.modules = append(r.modules, m)
	r.byName[m.Name()] = m
	return nil
}

// Get looks a module up by name.
func (r *Registry) Get(name string) (Module, bool) {
	if r == nil {
		return nil, false
	}
	m, ok := r.byName[name]
	return m, ok
}

// Names lists module names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.modules))
	for i, m := range r.modules {
		out[i] = m.Name()
	}
	return out
}

// Only returns a registry restricted to names, keeping registration order.
// Unknown names are an error.
func (r *Registry) Only(names []string) (*Registry, error) {
	out := &Registry{byName: make(map[string]Module)}
	for _, n := range names {
		if _, ok := r.Get(n); !ok {
			return nil, fmt.Errorf("extension: unknown module %q (available: %v)", n, r.Names())
		}
	}
	for _, m := range r.modules {
		if slices.Contains(names, m.Name()) {
			_ = out.Add(m)
		}
	}
	return out, nil
}

// ParserOptions extends base with the strategies of every module. Built-in
// statement parsers come first when base has none.
func (r *Registry) ParserOptions(base parser.Options) parser.Options {
	if base.Statements == nil {
		base.Statements = parser.DefaultStatementParsers()
	}
	if r == nil {
		return base
	}
	for _, m := range r.modules {
		if sp, ok := m.(StatementProvider); ok {
			base.Statements = append(base.Statements, sp.StatementParsers()...)
		}
		if pp, ok := m.(PrefixProvider); ok {
			base.Prefixes = append(base.Prefixes, pp.PrefixParsers()...)
		}
	}
	return base
}

// NativeModules returns the modules that expose native functions, keyed by
// module name.
func (r *Registry) NativeModules() map[string]interp.NativeModule {
	out := make(map[string]interp.NativeModule)
	if r == nil {
		return out
	}
	for _, m := range r.modules {
		if nm, ok := m.(interp.NativeModule); ok {
			out[m.Name()] = nm
		}
	}
	return out
}

// Catalog describes the native functions of every module for the resolver.
func (r *Registry) Catalog() *native.Catalog {
	return interp.CatalogOf(r.NativeModules())
}

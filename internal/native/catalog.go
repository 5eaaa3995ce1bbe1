package native

import (
	"slices"
	"sort"

	"github.com/sahilm/fuzzy"
)

// Catalog indexes signatures by module and function name. It is filled once
// before scripts are parsed and read-only afterwards.
type Catalog struct {
	modules map[string]map[string]Signature
}

func NewCatalog() *Catalog {
	return &Catalog{modules: make(map[string]map[string]Signature)}
}

// Add registers the functions of module. Signatures with an empty Module
// field inherit the module name.
func (c *Catalog) Add(module string, sigs []Signature) {
	fns, ok := c.modules[module]
	if !ok {
		fns = make(map[string]Signature, len(sigs))
		c.modules[module] = fns
	}
	for _, sig := range sigs {
		if sig.Module == "" {
			sig.Module = module
		}
		fns[sig.Name] = sig
	}
}

// HasModule reports whether module was registered.
func (c *Catalog) HasModule(module string) bool {
	if c == nil {
		return false
	}
	_, ok := c.modules[module]
	return ok
}

// Lookup finds the signature of module.function.
func (c *Catalog) Lookup(module, function string) (Signature, bool) {
	if c == nil {
		return Signature{}, false
	}
	sig, ok := c.modules[module][function]
	return sig, ok
}

// Modules lists registered module names in sorted order.
func (c *Catalog) Modules() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.modules))
	for name := range c.modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Functions lists the signatures of module sorted by name.
func (c *Catalog) Functions(module string) []Signature {
	if c == nil {
		return nil
	}
	fns := c.modules[module]
	out := make([]Signature, 0, len(fns))
	for _, sig := range fns {
		out = append(out, sig)
	}
	slices.SortFunc(out, func(a, b Signature) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// SuggestModule returns the closest registered module name to name, if any.
func (c *Catalog) SuggestModule(name string) (string, bool) {
	return Closest(name, c.Modules())
}

// SuggestFunction returns the closest function of module to name, if any.
func (c *Catalog) SuggestFunction(module, name string) (string, bool) {
	fns := c.Functions(module)
	names := make([]string, len(fns))
	for i, sig := range fns {
		names[i] = sig.Name
	}
	return Closest(name, names)
}

// Closest picks the best fuzzy match of word among candidates.
func Closest(word string, candidates []string) (string, bool) {
	if word == "" || len(candidates) == 0 {
		return "", false
	}
	matches := fuzzy.Find(word, candidates)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}

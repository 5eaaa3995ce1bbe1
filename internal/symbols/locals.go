package symbols

import "hsl/internal/ast"

// Global marks a reference that is looked up in the global scope at run time.
const Global = -1

// Locals records, for each resolved reference, how many scopes separate the
// use from its declaration (0 = innermost). References resolved to the global
// scope, or not found at all, are recorded as Global.
type Locals struct {
	depths map[ast.Expr]int
}

func NewLocals() *Locals {
	return &Locals{depths: make(map[ast.Expr]int)}
}

// Set records depth for expr, replacing any earlier record.
func (l *Locals) Set(expr ast.Expr, depth int) {
	l.depths[expr] = depth
}

// Depth returns the recorded depth of expr. A nil table knows nothing.
func (l *Locals) Depth(expr ast.Expr) (int, bool) {
	if l == nil {
		return 0, false
	}
	d, ok := l.depths[expr]
	return d, ok
}

func (l *Locals) Len() int {
	if l == nil {
		return 0
	}
	return len(l.depths)
}

// Merge copies every record of other into l.
func (l *Locals) Merge(other *Locals) {
	if other == nil {
		return
	}
	for e, d := range other.depths {
		l.depths[e] = d
	}
}

// Each visits every record; iteration order is unspecified.
func (l *Locals) Each(fn func(expr ast.Expr, depth int)) {
	if l == nil {
		return
	}
	for e, d := range l.depths {
		fn(e, d)
	}
}

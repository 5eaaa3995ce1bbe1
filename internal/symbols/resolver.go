package symbols

import (
	"fmt"
	"strings"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/native"
	"hsl/internal/source"
	"hsl/internal/token"
)

// Options configures resolver construction.
type Options struct {
	Reporter diag.Reporter
	// Natives validates native declarations and calls; nil skips those checks.
	Natives *native.Catalog
	Prelude []PreludeEntry
	// WarnShadowing reports local declarations hiding an outer binding.
	WarnShadowing bool
}

type functionKind uint8

const (
	fnNone functionKind = iota
	fnFunction
	fnMethod
	fnConstructor
	fnLambda
)

type classKind uint8

const (
	classNone classKind = iota
	classPlain
	classSub
)

// Resolver performs the static pass between parsing and interpretation:
// it computes scope distances for every variable reference and reports
// resolve errors. One Resolver may be reused; every Resolve call starts over.
type Resolver struct {
	opts   Options
	global *Scope
	scopes []*Scope
	locals *Locals
	fn     functionKind
	class  classKind
	loops  int
	errors int
}

// NewResolver creates a resolver with an empty global scope.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{opts: opts}
	r.reset()
	return r
}

func (r *Resolver) reset() {
	r.global = newScope(ScopeGlobal, source.Span{})
	r.installPrelude(r.global, r.opts.Prelude)
	r.scopes = append(r.scopes[:0], r.global)
	r.locals = NewLocals()
	r.fn, r.class, r.loops, r.errors = fnNone, classNone, 0, 0
}

// Resolve walks the program and returns its resolution table. Resolving the
// same statements twice yields identical tables.
func (r *Resolver) Resolve(stmts []ast.Stmt) *Locals {
	r.reset()
	r.ResolveStmts(stmts)
	return r.locals
}

// Errors reports how many resolve errors the last Resolve produced.
func (r *Resolver) Errors() int { return r.errors }

func (r *Resolver) HasErrors() bool { return r.errors > 0 }

// Natives returns the catalog used for native checks; may be nil.
func (r *Resolver) Natives() *native.Catalog { return r.opts.Natives }

// Locals exposes the table being filled, for extension resolvers.
func (r *Resolver) Locals() *Locals { return r.locals }

// ResolveStmts resolves statements in the current scope.
func (r *Resolver) ResolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.ResolveStmt(s)
	}
}

func (r *Resolver) ResolveStmt(s ast.Stmt) {
	if s == nil {
		return
	}
	_ = s.Accept(r)
}

func (r *Resolver) ResolveExpr(e ast.Expr) {
	if e == nil {
		return
	}
	_, _ = e.Accept(r)
}

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() *Scope {
	return r.scopes[len(r.scopes)-1]
}

// Enter pushes a child scope. Every Enter must be paired with Leave and
// must match one runtime scope created by the interpreter.
func (r *Resolver) Enter(kind ScopeKind, span source.Span) *Scope {
	scope := newScope(kind, span)
	r.scopes = append(r.scopes, scope)
	return scope
}

// Leave pops the current scope; the global scope is never popped.
func (r *Resolver) Leave() {
	if len(r.scopes) > 1 {
		r.scopes = r.scopes[:len(r.scopes)-1]
	}
}

// InLoop reports whether break/continue are legal here.
func (r *Resolver) InLoop() bool { return r.loops > 0 }

// Declare installs name into the current scope. Redeclaring a final
// binding is always an error; redeclaring a plain one is an error
// everywhere except the global scope.
func (r *Resolver) Declare(name token.Token, kind SymbolKind, flags SymbolFlags) *Symbol {
	scope := r.CurrentScope()
	if prev, ok := scope.Lookup(name.Text); ok {
		switch {
		case prev.Final():
			r.reportReassign(name, prev)
			return prev
		case scope.Kind != ScopeGlobal:
			msg := fmt.Sprintf("%s '%s' is already declared in this scope.", capitalize(prev.Kind.String()), name.Text)
			r.errorAt(name, diag.ResRedeclared, msg).WithNote(prev.Span, "previous declaration here").Emit()
			return prev
		}
		// глобальное переобъявление: обновляем запись, определённость сохраняем
		prev.Kind = kind
		prev.Flags = flags | prev.Flags&SymbolFlagDefined
		prev.Span = name.Span
		return prev
	}
	if r.opts.WarnShadowing && scope.Kind != ScopeGlobal {
		r.checkShadowing(name)
	}
	sym := &Symbol{Name: name.Text, Kind: kind, Flags: flags, Span: name.Span}
	scope.put(sym)
	return sym
}

// Define marks name in the current scope as initialised.
func (r *Resolver) Define(name string) {
	if sym, ok := r.CurrentScope().Lookup(name); ok {
		sym.Flags |= SymbolFlagDefined
	}
}

// Lookup finds the nearest declaration of name. The depth is Global when
// the name lives in the global scope or is not declared at all.
func (r *Resolver) Lookup(name string) (*Symbol, int) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if sym, ok := r.scopes[i].Lookup(name); ok {
			if i == 0 {
				return sym, Global
			}
			return sym, len(r.scopes) - 1 - i
		}
	}
	return nil, Global
}

// ResolveName records the distance of the reference expr to name.
func (r *Resolver) ResolveName(expr ast.Expr, name string) *Symbol {
	sym, depth := r.Lookup(name)
	r.locals.Set(expr, depth)
	return sym
}

// Error reports a resolve error at tok. Extension resolvers use it too.
func (r *Resolver) Error(tok token.Token, code diag.Code, msg string) {
	r.errorAt(tok, code, msg).Emit()
}

func (r *Resolver) errorAt(tok token.Token, code diag.Code, msg string) *diag.ReportBuilder {
	r.errors++
	return diag.ReportError(r.opts.Reporter, code, tok.Span, msg)
}

func (r *Resolver) reportReassign(at token.Token, sym *Symbol) {
	b := r.errorAt(at, diag.ResFinalReassign, fmt.Sprintf("Cannot reassign %s '%s'.", sym.Kind, sym.Name))
	if sym.Span != (source.Span{}) {
		b.WithNote(sym.Span, "declared final here")
	}
	b.Emit()
}

func (r *Resolver) checkShadowing(name token.Token) {
	if name.Text == "_" {
		return
	}
	for i := len(r.scopes) - 2; i >= 0; i-- {
		prev, ok := r.scopes[i].Lookup(name.Text)
		if !ok {
			continue
		}
		b := diag.ReportWarning(r.opts.Reporter, diag.ResShadowed, name.Span,
			fmt.Sprintf("Declaration of '%s' shadows previous binding.", name.Text))
		noteMsg := "previous declaration here"
		if prev.Builtin() {
			noteMsg = "built-in declaration here"
		}
		if prev.Span != (source.Span{}) {
			b.WithNote(prev.Span, noteMsg)
		}
		b.Emit()
		return
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

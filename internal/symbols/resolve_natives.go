package symbols

import (
	"fmt"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/native"
	"hsl/internal/token"
)

// VisitNativeFunctionStmt validates `native function mod.fn(params);`
// against the catalog and binds fn as a final name.
func (r *Resolver) VisitNativeFunctionStmt(s *ast.NativeFunctionStmt) error {
	sig := native.Fn(s.Module.Text, s.Name.Text, ast.ParamNames(s.Params)...)
	if cat := r.opts.Natives; cat != nil && r.checkModule(s.Module) {
		known, ok := cat.Lookup(s.Module.Text, s.Name.Text)
		switch {
		case !ok:
			r.unknownNative(s.Module.Text, s.Name)
		case !known.Accepts(len(s.Params)):
			r.Error(s.Name, diag.ResNativeArity, fmt.Sprintf(
				"Native function %s expects %s arguments, but was declared with %d.",
				known, known.Expectation(), len(s.Params)))
		default:
			sig = known
		}
	}
	sym := r.Declare(s.Name, SymbolNative, SymbolFlagFinal|SymbolFlagDefined)
	if sym.Kind == SymbolNative {
		sym.Signature = &sig
	}
	return nil
}

// VisitUsingStmt binds a module name so scripts can call mod.fn(...).
func (r *Resolver) VisitUsingStmt(s *ast.UsingStmt) error {
	if r.opts.Natives != nil {
		r.checkModule(s.Module)
	}
	sym := r.Declare(s.Module, SymbolModule, SymbolFlagFinal|SymbolFlagDefined)
	if sym.Kind == SymbolModule {
		sym.Module = s.Module.Text
	}
	return nil
}

func (r *Resolver) checkModule(mod token.Token) bool {
	cat := r.opts.Natives
	if cat.HasModule(mod.Text) {
		return true
	}
	msg := fmt.Sprintf("Unknown native module '%s'.", mod.Text)
	if s, ok := cat.SuggestModule(mod.Text); ok {
		msg += fmt.Sprintf(" Did you mean '%s'?", s)
	}
	r.Error(mod, diag.ResUnknownModule, msg)
	return false
}

func (r *Resolver) unknownNative(module string, name token.Token) {
	msg := fmt.Sprintf("Native module '%s' has no function '%s'.", module, name.Text)
	if s, ok := r.opts.Natives.SuggestFunction(module, name.Text); ok {
		msg += fmt.Sprintf(" Did you mean '%s'?", s)
	}
	r.Error(name, diag.ResUnknownNative, msg)
}

// checkNativeCall validates arity at call sites whose callee is statically
// known to be native: a declared native function, or mod.fn on a `using` import.
func (r *Resolver) checkNativeCall(call *ast.CallExpr) {
	var (
		sig *native.Signature
		at  token.Token
	)
	switch callee := call.Callee.(type) {
	case *ast.VariableExpr:
		sym, _ := r.Lookup(callee.Name.Text)
		if sym == nil || sym.Kind != SymbolNative {
			return
		}
		sig, at = sym.Signature, callee.Name
	case *ast.GetExpr:
		obj, ok := callee.Object.(*ast.VariableExpr)
		if !ok || r.opts.Natives == nil {
			return
		}
		sym, _ := r.Lookup(obj.Name.Text)
		if sym == nil || sym.Kind != SymbolModule || !r.opts.Natives.HasModule(sym.Module) {
			return
		}
		known, found := r.opts.Natives.Lookup(sym.Module, callee.Name.Text)
		if !found {
			r.unknownNative(sym.Module, callee.Name)
			return
		}
		sig, at = &known, callee.Name
	default:
		return
	}
	if sig == nil || sig.Accepts(len(call.Arguments)) {
		return
	}
	r.Error(at, diag.ResNativeArity, fmt.Sprintf(
		"Native function %s expects %s arguments, but got %d.",
		sig, sig.Expectation(), len(call.Arguments)))
}

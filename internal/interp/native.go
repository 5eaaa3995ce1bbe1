package interp

import (
	"errors"
	"fmt"
	"slices"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/native"
	"hsl/internal/token"
	"hsl/internal/trace"
)

// NativeModule is a host-provided library of functions.
type NativeModule interface {
	// Call runs function with already arity-checked arguments. Returned
	// errors that are not *RuntimeError or *NativeExecutionError are
	// wrapped as native failures at the call site.
	Call(at token.Token, in *Interpreter, function string, args []Value) (Value, error)
	SupportedFunctions() []native.Signature
}

// NodeInterpreter is implemented by extension modules that own custom
// nodes.
type NodeInterpreter interface {
	InterpretExpr(in *Interpreter, e ast.CustomExpr) (Value, error)
	InterpretStmt(in *Interpreter, s ast.CustomStmt) error
}

// ModuleValue is what `using m;` binds to m.
type ModuleValue struct {
	Name   string
	Module NativeModule
}

func (m *ModuleValue) String() string { return "<module " + m.Name + ">" }

// NativeFunction calls into a NativeModule.
type NativeFunction struct {
	Signature native.Signature
	Module    NativeModule
}

func (f *NativeFunction) Arity() int { return Variadic }

func (f *NativeFunction) String() string {
	return "<native " + f.Signature.Module + "." + f.Signature.Name + ">"
}

func (f *NativeFunction) Call(in *Interpreter, at token.Token, args []Value) (Value, error) {
	sig := f.Signature
	if !sig.Accepts(len(args)) {
		return nil, in.nativeError(at, diag.NatArity, sig.Module, sig.Name,
			fmt.Sprintf("expects %s arguments, but got %d", sig.Expectation(), len(args)), nil)
	}
	span := trace.Begin(in.tracer, trace.ScopeNode, "native:"+sig.Module+"."+sig.Name, trace.Parent(in.ctx))
	v, err := callModule(f.Module, at, in, sig.Name, args)
	if err != nil {
		span.End("error")
		return nil, in.wrapNative(at, sig, err)
	}
	span.End("")
	return Normalize(v), nil
}

// callModule turns a panicking module into an ordinary native failure.
func callModule(m NativeModule, at token.Token, in *Interpreter, fn string, args []Value) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return m.Call(at, in, fn, args)
}

func (in *Interpreter) wrapNative(at token.Token, sig native.Signature, err error) error {
	var rt *RuntimeError
	var ne *NativeExecutionError
	var cs *ControlSignal
	switch {
	case errors.As(err, &rt), errors.As(err, &ne), errors.As(err, &cs):
		return err
	}
	return in.nativeError(at, diag.NatFailed, sig.Module, sig.Name, err.Error(), err)
}

// supported finds fn among the functions m declares.
func supported(m NativeModule, fn string) (native.Signature, bool) {
	sigs := m.SupportedFunctions()
	i := slices.IndexFunc(sigs, func(s native.Signature) bool { return s.Name == fn })
	if i < 0 {
		return native.Signature{}, false
	}
	return sigs[i], true
}

// nativeFunction binds module.fn, failing on unknown modules or functions.
func (in *Interpreter) nativeFunction(module, fn token.Token) (*NativeFunction, error) {
	m, ok := in.modules[module.Text]
	if !ok {
		return nil, in.unknownModule(module)
	}
	return in.bindNative(module.Text, m, fn)
}

func (in *Interpreter) unknownModule(module token.Token) *NativeExecutionError {
	msg := fmt.Sprintf("Unknown native module '%s'.", module.Text)
	if s, ok := in.Catalog().SuggestModule(module.Text); ok {
		msg += fmt.Sprintf(" Did you mean '%s'?", s)
	}
	return in.nativeError(module, diag.NatUnknownModule, module.Text, "", msg, nil)
}

func (in *Interpreter) bindNative(module string, m NativeModule, fn token.Token) (*NativeFunction, error) {
	sig, ok := supported(m, fn.Text)
	if !ok {
		msg := fmt.Sprintf("Native module '%s' has no function '%s'.", module, fn.Text)
		names := make([]string, 0)
		for _, s := range m.SupportedFunctions() {
			names = append(names, s.Name)
		}
		if s, ok := native.Closest(fn.Text, names); ok {
			msg += fmt.Sprintf(" Did you mean '%s'?", s)
		}
		return nil, in.nativeError(fn, diag.NatUnknownFunction, module, "", msg, nil)
	}
	if sig.Module == "" {
		sig.Module = module
	}
	return &NativeFunction{Signature: sig, Module: m}, nil
}

func (in *Interpreter) moduleFunction(m *ModuleValue, name token.Token) (Value, error) {
	return in.bindNative(m.Name, m.Module, name)
}

// Normalize converts plain Go values a module may return into script
// values: sized ints become int64, slices become arrays and string-keyed
// maps become objects.
func Normalize(v any) Value {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint:
		if n, ok := toInt64(uint64(x)); ok {
			return n
		}
		return float64(x)
	case uint64:
		if n, ok := toInt64(x); ok {
			return n
		}
		return float64(x)
	case float32:
		return float64(x)
	case []any:
		elems := make([]Value, len(x))
		for i, el := range x {
			elems[i] = Normalize(el)
		}
		return NewArray(elems...)
	case []string:
		elems := make([]Value, len(x))
		for i, el := range x {
			elems[i] = el
		}
		return NewArray(elems...)
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, el := range x {
			fields[k] = Normalize(el)
		}
		return NewObject(fields)
	case map[any]any:
		fields := make(map[string]Value, len(x))
		for k, el := range x {
			fields[Stringify(Normalize(k))] = Normalize(el)
		}
		return NewObject(fields)
	}
	return v
}

func toInt64(u uint64) (int64, bool) {
	if u > 1<<63-1 {
		return 0, false
	}
	return asInt64(u), true
}

var _ Callable = (*NativeFunction)(nil)

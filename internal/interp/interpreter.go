package interp

import (
	"context"
	"fmt"
	"io"
	"os"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/native"
	"hsl/internal/symbols"
	"hsl/internal/token"
	"hsl/internal/trace"
)

// DefaultMaxCallDepth applies when Options.MaxCallDepth is zero.
const DefaultMaxCallDepth = 1024

// Options configures an Interpreter.
type Options struct {
	Stdout       io.Writer               // print/println target; os.Stdout when nil
	Modules      map[string]NativeModule // native modules by name
	MaxSteps     int                     // executed statements; 0 = unlimited
	MaxCallDepth int                     // nested calls; 0 = DefaultMaxCallDepth
	Tracer       trace.Tracer
}

// Interpreter walks resolved statements. It is not safe for concurrent use;
// a host runs one script at a time per interpreter.
type Interpreter struct {
	globals *VariableScope
	scope   *VariableScope
	locals  *symbols.Locals
	modules map[string]NativeModule

	frames   []BacktraceFrame
	maxDepth int
	maxSteps int
	steps    int

	done     <-chan struct{}
	ctx      context.Context
	out      io.Writer
	tracer   trace.Tracer
	progress *trace.Progress
	last     Value
	at       token.Token // token of the statement executing now
}

func New(opts Options) *Interpreter {
	in := &Interpreter{
		globals:  NewVariableScope(nil),
		locals:   symbols.NewLocals(),
		modules:  make(map[string]NativeModule, len(opts.Modules)),
		maxDepth: opts.MaxCallDepth,
		maxSteps: opts.MaxSteps,
		out:      opts.Stdout,
		tracer:   opts.Tracer,
		ctx:      context.Background(),
	}
	if in.maxDepth <= 0 {
		in.maxDepth = DefaultMaxCallDepth
	}
	if in.out == nil {
		in.out = os.Stdout
	}
	if in.tracer == nil {
		in.tracer = trace.Nop
	}
	in.scope = in.globals
	for name, m := range opts.Modules {
		in.modules[name] = m
	}
	installBuiltins(in.globals)
	return in
}

// Interpret executes a resolved program and returns the value of its last
// top-level expression statement. Locals are merged into the tables of
// earlier runs so a REPL can keep closures from previous lines working.
func (in *Interpreter) Interpret(ctx context.Context, stmts []ast.Stmt, locals *symbols.Locals) (_ Value, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	in.ctx, in.done = ctx, ctx.Done()
	in.locals.Merge(locals)
	in.scope = in.globals
	in.frames = in.frames[:0]
	in.last = nil
	in.progress = trace.ProgressFrom(ctx)

	span := trace.Begin(in.tracer, trace.ScopePhase, "interpret", trace.Parent(ctx))
	defer func() {
		in.progress.SetSteps(in.steps)
		span.WithSteps(in.steps).End("")
	}()
	defer func() {
		if r := recover(); r != nil {
			in.scope = in.globals
			err = in.errorf(in.at, diag.RunInternal, "Internal error: %v.", r)
		}
	}()

	for _, s := range stmts {
		if err := in.Execute(s); err != nil {
			if sig, ok := err.(*ControlSignal); ok {
				return nil, in.errorf(sig.Token, diag.RunStraySignal, "'%s' escaped to the top level.", sig.Kind)
			}
			return nil, err
		}
	}
	return in.last, nil
}

// Execute runs one statement. It counts steps and observes cancellation.
func (in *Interpreter) Execute(s ast.Stmt) error {
	if s == nil {
		return nil
	}
	in.steps++
	in.at = s.Pos()
	if in.steps&0xff == 0 {
		in.progress.SetSteps(in.steps)
	}
	if in.maxSteps > 0 && in.steps > in.maxSteps {
		return in.errorf(s.Pos(), diag.RunStepLimit, "Step limit of %d exceeded.", in.maxSteps)
	}
	if in.done != nil {
		select {
		case <-in.done:
			return in.errorf(s.Pos(), diag.RunCancelled, "Execution cancelled: %v.", in.ctx.Err())
		default:
		}
	}
	return s.Accept(in)
}

// ExecuteBlock runs stmts with env as the current scope and restores the
// previous scope afterwards, even on error.
func (in *Interpreter) ExecuteBlock(stmts []ast.Stmt, env *VariableScope) error {
	prev := in.scope
	in.scope = env
	defer func() { in.scope = prev }()
	for _, s := range stmts {
		if err := in.Execute(s); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate computes an expression in the current scope.
func (in *Interpreter) Evaluate(e ast.Expr) (Value, error) {
	if e == nil {
		return nil, nil
	}
	return e.Accept(in)
}

// EvaluateIn computes e with env as the current scope.
func (in *Interpreter) EvaluateIn(e ast.Expr, env *VariableScope) (Value, error) {
	prev := in.scope
	in.scope = env
	defer func() { in.scope = prev }()
	return in.Evaluate(e)
}

// Call invokes callee with already evaluated arguments.
func (in *Interpreter) Call(callee Value, at token.Token, args []Value) (Value, error) {
	fn, ok := callee.(Callable)
	if !ok {
		return nil, in.errorf(at, diag.RunNotCallable, "Value of type '%s' is not callable.", TypeName(callee))
	}
	if arity := fn.Arity(); arity != Variadic && arity != len(args) {
		return nil, in.errorf(at, diag.RunArity, "%s expects %d arguments, but got %d.", fn, arity, len(args))
	}
	if len(in.frames) >= in.maxDepth {
		return nil, in.errorf(at, diag.RunCallDepth, "Maximum call depth of %d exceeded.", in.maxDepth)
	}
	in.frames = append(in.frames, BacktraceFrame{Function: fn.String(), Call: at})
	defer func() { in.frames = in.frames[:len(in.frames)-1] }()
	return fn.Call(in, at, args)
}

// Globals is the root scope; hosts may predefine values there.
func (in *Interpreter) Globals() *VariableScope { return in.globals }

// Scope is the scope of the statement currently executing.
func (in *Interpreter) Scope() *VariableScope { return in.scope }

// Locals is the merged resolution table of every program run so far.
func (in *Interpreter) Locals() *symbols.Locals { return in.locals }

// Stdout is where print and println write.
func (in *Interpreter) Stdout() io.Writer { return in.out }

// Context is the context of the current Interpret call.
func (in *Interpreter) Context() context.Context { return in.ctx }

// Tracer returns the tracer native modules should report to.
func (in *Interpreter) Tracer() trace.Tracer { return in.tracer }

// Steps reports how many statements ran so far.
func (in *Interpreter) Steps() int { return in.steps }

// RegisterModule adds or replaces a native module.
func (in *Interpreter) RegisterModule(name string, m NativeModule) {
	in.modules[name] = m
}

// Module looks up a registered native module.
func (in *Interpreter) Module(name string) (NativeModule, bool) {
	m, ok := in.modules[name]
	return m, ok
}

// Catalog describes the registered modules for the resolver.
func (in *Interpreter) Catalog() *native.Catalog {
	return CatalogOf(in.modules)
}

// CatalogOf builds a resolver catalog from native modules.
func CatalogOf(modules map[string]NativeModule) *native.Catalog {
	cat := native.NewCatalog()
	for name, m := range modules {
		cat.Add(name, m.SupportedFunctions())
	}
	return cat
}

// lookUp reads a variable through its resolved distance. References the
// resolver never saw fall back to a search of the whole chain.
func (in *Interpreter) lookUp(name token.Token, expr ast.Expr) (Value, error) {
	depth, ok := in.locals.Depth(expr)
	switch {
	case ok && depth != symbols.Global:
		if v, found := in.scope.GetAt(depth, name.Text); found {
			return v, nil
		}
	case ok:
		if v, found := in.globals.Get(name.Text); found {
			return v, nil
		}
	default:
		if v, found := in.scope.Get(name.Text); found {
			return v, nil
		}
	}
	return nil, in.undefined(name)
}

func (in *Interpreter) assign(name token.Token, expr ast.Expr, v Value) error {
	depth, ok := in.locals.Depth(expr)
	var done bool
	switch {
	case ok && depth != symbols.Global:
		done = in.scope.AssignAt(depth, name.Text, v)
	case ok:
		done = in.globals.Assign(name.Text, v)
	default:
		done = in.scope.Assign(name.Text, v)
	}
	if !done {
		return in.undefined(name)
	}
	return nil
}

func (in *Interpreter) undefined(name token.Token) *RuntimeError {
	err := in.errorf(name, diag.RunUndefined, "Undefined variable '%s'.", name.Text)
	if s, ok := native.Closest(name.Text, in.scope.Visible()); ok && s != name.Text {
		err.Message += fmt.Sprintf(" Did you mean '%s'?", s)
	}
	return err
}

var (
	_ ast.ExprVisitor = (*Interpreter)(nil)
	_ ast.StmtVisitor = (*Interpreter)(nil)
)

package driver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/extension"
	"hsl/internal/interp"
	"hsl/internal/lexer"
	"hsl/internal/observ"
	"hsl/internal/parser"
	"hsl/internal/source"
	"hsl/internal/symbols"
	"hsl/internal/token"
	"hsl/internal/trace"
)

// DefaultMaxDiagnostics applies when Options.MaxDiagnostics is zero.
const DefaultMaxDiagnostics = 100

// Options configures one pipeline invocation.
type Options struct {
	MaxDiagnostics int
	MaxSteps       int // 0 = unlimited
	MaxCallDepth   int // 0 = interp.DefaultMaxCallDepth
	WarnShadowing  bool

	// Registry supplies extension syntax and native modules; nil runs the
	// bare language.
	Registry *extension.Registry
	Stdout   io.Writer

	Timings  bool
	Observer PhaseObserver
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// Result collects every artifact of a pipeline run. Later fields stay empty
// when an earlier phase fails.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Program []ast.Stmt
	Locals  *symbols.Locals
	Bag     *diag.Bag

	Value interp.Value
	// Err is the runtime or native failure, if any. Its diagnostic form is
	// also in Bag.
	Err    error
	Timing *observ.Report
}

// OK reports whether no phase produced an error.
func (r *Result) OK() bool {
	return r.Err == nil && !r.Bag.HasErrors()
}

// frontend is the state carried between inputs of one Session: declared
// prefix/infix functions and the globals seen so far.
type frontend struct {
	functions *parser.FunctionParserContext
	prelude   []symbols.PreludeEntry
}

func newFrontend() *frontend {
	return &frontend{
		functions: parser.NewFunctionParserContext(),
		prelude:   symbols.Builtins(interp.BuiltinNames...),
	}
}

// parse runs lex and parse. Lexical and syntax errors are reported
// together.
func (f *frontend) parse(p *phases, fs *source.FileSet, id source.FileID, opts Options) *Result {
	file := fs.Get(id)
	bag := diag.NewBag(opts.maxDiagnostics())
	rep := diag.BagReporter{Bag: bag}
	res := &Result{FileSet: fs, File: file, Bag: bag}

	done := p.begin("lex")
	res.Tokens = lexer.New(file, lexer.Options{Reporter: rep}).All()
	done(fmt.Sprintf("%d tokens", len(res.Tokens)))

	maxErrors, err := safecast.Conv[uint](opts.maxDiagnostics())
	if err != nil {
		maxErrors = 0
	}
	popts := opts.Registry.ParserOptions(parser.Options{
		Reporter:  rep,
		MaxErrors: maxErrors,
		Functions: f.functions,
	})
	done = p.begin("parse")
	res.Program, _ = parser.New(res.Tokens, popts).Parse()
	done(fmt.Sprintf("%d statements", len(res.Program)))
	return res
}

// analyze runs lex, parse and resolve. Interpretation is never attempted
// when it returns false.
func (f *frontend) analyze(p *phases, fs *source.FileSet, id source.FileID, opts Options) (*Result, bool) {
	res := f.parse(p, fs, id, opts)
	if res.Bag.HasErrors() {
		return res, false
	}

	done := p.begin("resolve")
	resolver := symbols.NewResolver(symbols.Options{
		Reporter:      diag.BagReporter{Bag: res.Bag},
		Natives:       opts.Registry.Catalog(),
		Prelude:       f.prelude,
		WarnShadowing: opts.WarnShadowing,
	})
	res.Locals = resolver.Resolve(res.Program)
	done("")
	if resolver.HasErrors() {
		return res, false
	}
	f.prelude = resolver.Globals()
	return res, true
}

// Check lexes, parses and resolves a loaded file without running it.
func Check(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) *Result {
	p := newPhases(ctx, opts)
	_, end := p.script(fs.Get(id).Path)
	defer end()
	res, _ := newFrontend().analyze(p, fs, id, opts)
	res.Timing = p.report()
	return res
}

// Run checks a loaded file and interprets it when checking succeeded.
func Run(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) *Result {
	p := newPhases(ctx, opts)
	sctx, end := p.script(fs.Get(id).Path)
	defer end()
	res, ok := newFrontend().analyze(p, fs, id, opts)
	if ok {
		in := newInterpreter(opts, p.tracer)
		done := p.time("interpret")
		res.Value, res.Err = in.Interpret(sctx, res.Program, res.Locals)
		done(fmt.Sprintf("%d steps", in.Steps()))
		recordFailure(res)
	}
	res.Timing = p.report()
	return res
}

// RunFile loads path and runs it.
func RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Run(ctx, fs, id, opts), nil
}

// RunSource runs an in-memory script named name.
func RunSource(ctx context.Context, name, src string, opts Options) *Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	return Run(ctx, fs, id, opts)
}

// CheckFile loads path and checks it.
func CheckFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Check(ctx, fs, id, opts), nil
}

func newInterpreter(opts Options, tracer trace.Tracer) *interp.Interpreter {
	return interp.New(interp.Options{
		Tracer:       tracer,
		Stdout:       opts.Stdout,
		Modules:      opts.Registry.NativeModules(),
		MaxSteps:     opts.MaxSteps,
		MaxCallDepth: opts.MaxCallDepth,
	})
}

// recordFailure converts the runtime failure of res into a diagnostic.
func recordFailure(res *Result) {
	if res.Err == nil {
		return
	}
	if d, ok := FailureDiagnostic(res.Err); ok {
		res.Bag.Merge(bagOf(d))
		return
	}
	res.Bag.Merge(bagOf(diag.NewError(diag.UnknownCode, source.Span{}, res.Err.Error())))
}

func bagOf(d diag.Diagnostic) *diag.Bag {
	b := diag.NewBag(1)
	b.Add(d)
	return b
}

// FailureDiagnostic converts a *RuntimeError or *NativeExecutionError into
// a diagnostic whose notes list the backtrace.
func FailureDiagnostic(err error) (diag.Diagnostic, bool) {
	var (
		code  diag.Code
		at    token.Token
		msg   string
		trace []interp.BacktraceFrame
	)
	var rt *interp.RuntimeError
	var ne *interp.NativeExecutionError
	switch {
	case errors.As(err, &rt):
		code, at, msg, trace = rt.Code, rt.Token, rt.Message, rt.Backtrace
	case errors.As(err, &ne):
		code, at, msg, trace = ne.Code, ne.Token, ne.Error(), ne.Backtrace
	default:
		return diag.Diagnostic{}, false
	}
	d := diag.NewError(code, at.Span, msg)
	for _, frame := range trace {
		d = d.WithNote(frame.Call.Span, frame.Function+" called here")
	}
	return d, true
}

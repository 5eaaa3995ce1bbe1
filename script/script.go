// Package script embeds the HSL engine in a Go program.
//
// An Engine keeps one interpreter alive between Eval calls, so globals and
// functions declared by one input stay visible to the next. Run executes a
// script against a fresh interpreter and shares nothing but the registered
// modules. Neither is safe for concurrent use of the same Engine; hosts
// that evaluate in parallel create one Engine per goroutine.
package script

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"hsl/internal/diag"
	"hsl/internal/driver"
	"hsl/internal/extension"
	"hsl/internal/interp"
	"hsl/internal/native"
	"hsl/internal/source"
	"hsl/internal/stdlib"
	"hsl/internal/token"
)

type (
	// Value is a script value: nil, bool, int64, float64, string or one of
	// the engine's reference types.
	Value = interp.Value
	// Interpreter is handed to native functions.
	Interpreter = interp.Interpreter
	// NativeModule exposes host functions under a module name.
	NativeModule = interp.NativeModule
	// Module is an extension module; it may also be a NativeModule.
	Module = extension.Module
	// Signature declares one native function.
	Signature = native.Signature
	// Token is the call site passed to native functions.
	Token = token.Token
)

// Fn declares a native function with fixed parameters.
var Fn = native.Fn

// Options configures an Engine.
type Options struct {
	// Stdout receives print and println output; os.Stdout when nil.
	Stdout io.Writer
	// Modules restricts the bundled modules; nil enables all of them.
	Modules []string
	// NoStdlib drops the bundled modules entirely.
	NoStdlib bool
	// Extensions are host modules registered after the bundled ones.
	Extensions []Module

	MaxSteps       int
	MaxCallDepth   int
	MaxDiagnostics int
	WarnShadowing  bool
}

// Engine evaluates scripts.
type Engine struct {
	opts    driver.Options
	session *driver.Session
}

// New builds an engine. Unknown module names and duplicate extensions are
// errors.
func New(ctx context.Context, opts Options) (*Engine, error) {
	reg, err := registry(opts)
	if err != nil {
		return nil, err
	}
	dopts := driver.Options{
		MaxDiagnostics: opts.MaxDiagnostics,
		MaxSteps:       opts.MaxSteps,
		MaxCallDepth:   opts.MaxCallDepth,
		WarnShadowing:  opts.WarnShadowing,
		Registry:       reg,
		Stdout:         opts.Stdout,
	}
	return &Engine{opts: dopts, session: driver.NewSession(ctx, dopts)}, nil
}

func registry(opts Options) (*extension.Registry, error) {
	var (
		reg *extension.Registry
		err error
	)
	if opts.NoStdlib {
		reg, err = extension.NewRegistry()
	} else {
		reg, err = stdlib.Registry(opts.Modules...)
	}
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	for _, m := range opts.Extensions {
		if err := reg.Add(m); err != nil {
			return nil, fmt.Errorf("script: %w", err)
		}
	}
	return reg, nil
}

// Eval runs src in the engine's persistent session and returns the value of
// its last expression statement. Any failure is an *Error. Inputs that fail
// to check leave the session unchanged.
func (e *Engine) Eval(ctx context.Context, src string) (Value, error) {
	return finish(e.session.Eval(ctx, src))
}

// Run executes src, named name in diagnostics, against a fresh interpreter.
func (e *Engine) Run(ctx context.Context, name, src string) (Value, error) {
	return finish(driver.RunSource(ctx, name, src, e.opts))
}

// Check lexes, parses and resolves src without running it. Warnings are
// included.
func (e *Engine) Check(ctx context.Context, src string) []Diagnostic {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<check>", []byte(src))
	res := driver.Check(ctx, fs, id, e.opts)
	return convert(res.Bag, fs)
}

// Define binds name in the session's global scope. Plain Go values are
// converted the way native return values are.
func (e *Engine) Define(name string, v any) {
	e.session.Interpreter().Globals().Define(name, interp.Normalize(v))
}

// Get reads a session global.
func (e *Engine) Get(name string) (Value, bool) {
	return e.session.Interpreter().Globals().Get(name)
}

// Modules lists the registered modules in registration order.
func (e *Engine) Modules() []string {
	return slices.Clone(e.opts.Registry.Names())
}

func finish(res *driver.Result) (Value, error) {
	if res.OK() {
		return res.Value, nil
	}
	return nil, &Error{Diagnostics: convert(res.Bag, res.FileSet), cause: res.Err}
}

// Stringify renders v the way println does.
func Stringify(v Value) string { return interp.Stringify(v) }

// Export converts v into plain Go data.
func Export(v Value) any { return interp.Export(v) }

// Diagnostic is one problem found while compiling or running a script.
type Diagnostic struct {
	Severity string `json:"severity"`
	// Phase is lexical, syntax, resolve or runtime. Native failures report
	// as runtime.
	Phase   string `json:"phase"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    uint32 `json:"line"`
	Column  uint32 `json:"column"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s %s %s: %s", d.Line, d.Column, d.Phase, d.Severity, d.Code, d.Message)
}

func convert(bag *diag.Bag, fs *source.FileSet) []Diagnostic {
	if bag == nil {
		return nil
	}
	bag.Sort()
	out := make([]Diagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		phase := d.Phase()
		if phase == diag.PhaseNative {
			phase = diag.PhaseRuntime
		}
		item := Diagnostic{
			Severity: d.Severity.Label(),
			Phase:    phase.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
		}
		if fs != nil && int(d.Primary.File) < fs.Len() {
			start, _ := fs.Resolve(d.Primary)
			item.Line, item.Column = start.Line, start.Col
		}
		out = append(out, item)
	}
	return out
}

// Error carries the diagnostics of a failed Eval or Run.
type Error struct {
	Diagnostics []Diagnostic
	cause       error
}

func (e *Error) Error() string {
	var errs []string
	for _, d := range e.Diagnostics {
		if d.Severity == "error" {
			errs = append(errs, d.String())
		}
	}
	if len(errs) == 0 && e.cause != nil {
		return e.cause.Error()
	}
	return strings.Join(errs, "\n")
}

// Unwrap returns the runtime failure, if the script got that far.
func (e *Error) Unwrap() error { return e.cause }

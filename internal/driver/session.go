package driver

import (
	"context"
	"fmt"
	"slices"

	"hsl/internal/interp"
	"hsl/internal/source"
	"hsl/internal/trace"
)

// Session evaluates a sequence of inputs against one interpreter, the way a
// REPL does: globals, prefix/infix declarations and finality carry over
// from one input to the next. Inputs that fail to check leave the globals
// untouched.
type Session struct {
	opts  Options
	fs    *source.FileSet
	front *frontend
	in    *interp.Interpreter
	count int
}

// NewSession creates a session; native calls report to the tracer of ctx.
func NewSession(ctx context.Context, opts Options) *Session {
	return &Session{
		opts:  opts,
		fs:    source.NewFileSet(),
		front: newFrontend(),
		in:    newInterpreter(opts, trace.FromContext(ctx)),
	}
}

// Eval runs one input. Result.Value is the value of its last expression
// statement.
func (s *Session) Eval(ctx context.Context, input string) *Result {
	s.count++
	id := s.fs.AddVirtual(fmt.Sprintf("<repl:%d>", s.count), []byte(input))
	p := newPhases(ctx, s.opts)

	// глобалы резолвера обновляются только при успешной проверке
	res, ok := s.front.analyze(p, s.fs, id, s.opts)
	if !ok {
		res.Timing = p.report()
		return res
	}
	done := p.time("interpret")
	res.Value, res.Err = s.in.Interpret(p.ctx, res.Program, res.Locals)
	done("")
	recordFailure(res)
	res.Timing = p.report()
	return res
}

// FileSet holds every input evaluated so far, for diagnostic rendering.
func (s *Session) FileSet() *source.FileSet { return s.fs }

// Interpreter exposes the session's interpreter to hosts that predefine
// globals or register modules.
func (s *Session) Interpreter() *interp.Interpreter { return s.in }

// Names lists the global names visible to the next input, sorted; the REPL
// completes against it.
func (s *Session) Names() []string {
	names := make([]string, 0, len(s.front.prelude))
	for _, e := range s.front.prelude {
		names = append(names, e.Name)
	}
	for _, m := range s.opts.Registry.Names() {
		if _, ok := s.in.Module(m); ok {
			names = append(names, m)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

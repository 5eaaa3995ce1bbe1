package interp

import (
	"fmt"
	"strings"

	"hsl/internal/diag"
	"hsl/internal/source"
	"hsl/internal/token"
)

// BacktraceFrame is one active call at the moment an error was raised.
type BacktraceFrame struct {
	Function string
	Call     token.Token // call site
}

// RuntimeError is a script-level failure raised while interpreting.
type RuntimeError struct {
	Code      diag.Code
	Token     token.Token // where it happened
	Message   string
	Backtrace []BacktraceFrame // innermost call first
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Phase is always runtime for these errors.
func (e *RuntimeError) Phase() diag.Phase { return e.Code.Phase() }

// FormatWithFiles renders the error with file:line:col locations.
func (e *RuntimeError) FormatWithFiles(files *source.FileSet) string {
	return formatFailure(e.Code, e.Message, e.Token, e.Backtrace, files)
}

// NativeExecutionError reports a failed native call: unknown module or
// function, arity mismatch, or an error returned by the module itself.
type NativeExecutionError struct {
	Code      diag.Code
	Module    string
	Function  string
	Token     token.Token
	Message   string
	Err       error // cause reported by the module, if any
	Backtrace []BacktraceFrame
}

func (e *NativeExecutionError) Error() string {
	if e.Function == "" {
		return e.Message
	}
	return fmt.Sprintf("%s.%s: %s", e.Module, e.Function, e.Message)
}

func (e *NativeExecutionError) Unwrap() error { return e.Err }

func (e *NativeExecutionError) Phase() diag.Phase { return e.Code.Phase() }

func (e *NativeExecutionError) FormatWithFiles(files *source.FileSet) string {
	return formatFailure(e.Code, e.Error(), e.Token, e.Backtrace, files)
}

// SignalKind enumerates non-local control transfers.
type SignalKind uint8

const (
	SignalReturn SignalKind = iota + 1
	SignalBreak
	SignalContinue
)

func (k SignalKind) String() string {
	switch k {
	case SignalReturn:
		return "return"
	case SignalBreak:
		return "break"
	case SignalContinue:
		return "continue"
	}
	return "unknown"
}

// ControlSignal unwinds the Go stack for return, break and continue. It is
// an error value only so it can travel through Execute; it is never a
// script failure unless it escapes its construct.
type ControlSignal struct {
	Kind  SignalKind
	Value Value // return value
	Token token.Token
}

func (s *ControlSignal) Error() string {
	return fmt.Sprintf("'%s' outside of its construct", s.Kind)
}

func formatFailure(code diag.Code, msg string, at token.Token, bt []BacktraceFrame, files *source.FileSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error %s: %s\n", code.ID(), msg)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(at.Span, files))
	sb.WriteString("\n")
	if len(bt) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range bt {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, frame.Function, formatSpan(frame.Call.Span, files))
		}
	}
	return sb.String()
}

// formatSpan formats a span as "file:line:col" or "<no-span>" if empty.
func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || (span.Start == 0 && span.End == 0 && span.File == 0) {
		return "<no-span>"
	}
	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}
	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

// errorf builds a RuntimeError at tok with the current backtrace.
func (in *Interpreter) errorf(tok token.Token, code diag.Code, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:      code,
		Token:     tok,
		Message:   fmt.Sprintf(format, args...),
		Backtrace: in.backtrace(),
	}
}

// Errorf is errorf for native modules and extension interpreters.
func (in *Interpreter) Errorf(tok token.Token, code diag.Code, format string, args ...any) error {
	return in.errorf(tok, code, format, args...)
}

func (in *Interpreter) nativeError(at token.Token, code diag.Code, module, function, msg string, cause error) *NativeExecutionError {
	return &NativeExecutionError{
		Code:      code,
		Module:    module,
		Function:  function,
		Token:     at,
		Message:   msg,
		Err:       cause,
		Backtrace: in.backtrace(),
	}
}

func (in *Interpreter) backtrace() []BacktraceFrame {
	if len(in.frames) == 0 {
		return nil
	}
	out := make([]BacktraceFrame, len(in.frames))
	for i := range in.frames {
		out[len(in.frames)-1-i] = in.frames[i]
	}
	return out
}

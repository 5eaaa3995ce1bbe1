// Package trace records spans for the HSL pipeline.
//
// Spans are grouped by scope: the driver command, one pipeline phase
// (lex, parse, resolve, interpret), one script file, and individual nodes
// such as native calls. The level decides which scopes reach the output.
// A Progress in the context lets the heartbeat say which script and phase
// is running and how many statements it has executed.
//
//	tr, _ := trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeStream})
//	ctx = trace.WithTracer(ctx, tr)
//
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", trace.Parent(ctx))
//	defer span.End("")
package trace

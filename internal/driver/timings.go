package driver

import (
	"context"
	"time"

	"hsl/internal/observ"
	"hsl/internal/trace"
)

// phases ties together the three ways a pipeline stage is observed: the
// phase timer, the tracer and the caller's PhaseObserver.
type phases struct {
	ctx      context.Context
	tracer   trace.Tracer
	parent   uint64
	progress *trace.Progress
	timer    *observ.Timer
	observer PhaseObserver
}

func newPhases(ctx context.Context, opts Options) *phases {
	p := &phases{
		ctx:      ctx,
		tracer:   trace.FromContext(ctx),
		parent:   trace.Parent(ctx),
		progress: trace.ProgressFrom(ctx),
		observer: opts.Observer,
	}
	if opts.Timings {
		p.timer = observ.NewTimer()
	}
	return p
}

// begin starts a traced phase; the returned func ends it with a note.
func (p *phases) begin(name string) func(note string) {
	span := trace.Begin(p.tracer, trace.ScopePhase, name, p.parent)
	done := p.time(name)
	return func(note string) {
		span.End(note)
		done(note)
	}
}

// time measures a phase that traces itself, such as the interpreter.
func (p *phases) time(name string) func(note string) {
	idx := -1
	if p.timer != nil {
		idx = p.timer.Begin(name)
	}
	started := time.Now()
	p.progress.Enter("", name)
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return func(note string) {
		if p.timer != nil {
			p.timer.End(idx, note)
		}
		if p.observer != nil {
			p.observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(started)})
		}
	}
}

// scriptContext opens the script-scope span that parents every phase of
// one file and returns the context carrying it.
func (p *phases) script(path string) (context.Context, func()) {
	span := trace.Begin(p.tracer, trace.ScopeScript, "script:"+path, p.parent)
	p.progress.Enter(path, "")
	if id := span.ID(); id != 0 {
		p.parent = id
		p.ctx = trace.WithParent(p.ctx, id)
	}
	return p.ctx, func() { span.End("") }
}

func (p *phases) report() *observ.Report {
	if p.timer == nil {
		return nil
	}
	r := p.timer.Report()
	return &r
}

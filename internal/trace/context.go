package trace

import "context"

// frame is everything tracing threads through a context: where events go,
// which span new spans hang under, and where the interpreter reports
// progress. Each With* call copies the frame and changes one field.
type frame struct {
	tracer   Tracer
	parent   uint64
	progress *Progress
}

type frameKey struct{}

func frameOf(ctx context.Context) frame {
	if ctx != nil {
		if f, ok := ctx.Value(frameKey{}).(frame); ok {
			return f
		}
	}
	return frame{tracer: Nop}
}

func with(ctx context.Context, change func(*frame)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	f := frameOf(ctx)
	change(&f)
	return context.WithValue(ctx, frameKey{}, f)
}

// FromContext returns the context's tracer, or Nop.
func FromContext(ctx context.Context) Tracer { return frameOf(ctx).tracer }

// WithTracer routes events of everything run under ctx to t.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return with(ctx, func(f *frame) { f.tracer = t })
}

// Parent is the span that new spans under ctx attach to; 0 at the root.
func Parent(ctx context.Context) uint64 { return frameOf(ctx).parent }

// WithParent makes span id the parent of spans begun under the result.
func WithParent(ctx context.Context, id uint64) context.Context {
	return with(ctx, func(f *frame) { f.parent = id })
}

// ProgressFrom returns the progress sink under ctx; nil when none is set,
// which every Progress method accepts.
func ProgressFrom(ctx context.Context) *Progress { return frameOf(ctx).progress }

// WithProgress lets the interpreter under ctx publish its position to p.
func WithProgress(ctx context.Context, p *Progress) context.Context {
	return with(ctx, func(f *frame) { f.progress = p })
}

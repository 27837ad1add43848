package trace

import (
	"context"
	"io"
)

type ctxKey int

const (
	tracerKey ctxKey = iota
	spanKey
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx; nil is stored as Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey, t)
}

// ParentID is the ID of the innermost span started with Start, or 0.
func ParentID(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(spanKey).(uint64); ok {
			return id
		}
	}
	return 0
}

// Start begins a span under the one in ctx and returns a context carrying
// it, so nested Start calls chain.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, ParentID(ctx))
	if span.ID() == 0 {
		return ctx, span
	}
	return context.WithValue(ctx, spanKey, span.ID()), span
}

// DumpOnFailure writes the retained events of the tracer in ctx to w. It is
// a no-op unless that tracer retains events.
func DumpOnFailure(ctx context.Context, w io.Writer) error {
	d, ok := FromContext(ctx).(Dumper)
	if !ok {
		return nil
	}
	return d.Dump(w, FormatText)
}

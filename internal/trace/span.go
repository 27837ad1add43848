package trace

import (
	"sync/atomic"
	"time"
)

// ids hands out both event sequence numbers and span IDs, so a span's ID is
// also the sequence number of its begin event.
var ids atomic.Uint64

func nextID() uint64 { return ids.Add(1) }

// Span is one traced operation. The zero Span (returned when the scope is
// filtered out) accepts every call and emits nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

var disabled = &Span{}

// Begin emits the begin event of a new span under parent (0 for a root).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !emits(t, scope) {
		return disabled
	}
	s := &Span{
		tracer:  t,
		id:      nextID(),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Seq:      s.id,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
	})
	return s
}

// Attr annotates the end event. Later values for the same key win.
func (s *Span) Attr(key, value string) *Span {
	if s.tracer == nil {
		return s
	}
	for i := range s.attrs {
		if s.attrs[i].Key == key {
			s.attrs[i].Value = value
			return s
		}
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

// End emits the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	return s.finish(detail, false)
}

// Fail ends the span with err as its detail and marks it failed. A nil err
// ends the span normally.
func (s *Span) Fail(err error) time.Duration {
	if err == nil {
		return s.finish("", false)
	}
	return s.finish(err.Error(), true)
}

func (s *Span) finish(detail string, failed bool) time.Duration {
	if s.tracer == nil {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.started)
	s.tracer.Emit(&Event{
		Time:     now,
		Seq:      nextID(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Failed:   failed,
		Elapsed:  elapsed,
		Attrs:    s.attrs,
	})
	s.tracer = nil
	return elapsed
}

// ID is 0 for a span that emits nothing.
func (s *Span) ID() uint64 { return s.id }

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !emits(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextID(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}

func emits(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().Records(scope)
}

package trace

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a liveness event every interval until stopped. In watch
// mode a heartbeat with no span end after it points at a stuck rebuild.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartHeartbeat returns nil when the tracer is disabled or interval <= 0;
// Stop on a nil Heartbeat is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for beat := 1; ; beat++ {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				t.Emit(&Event{
					Time:   now,
					Seq:    nextID(),
					Kind:   KindHeartbeat,
					Scope:  ScopeCommand,
					Name:   "heartbeat",
					Detail: "#" + strconv.Itoa(beat),
				})
			}
		}
	}()
	return h
}

// Stop ends the heartbeat and waits for its goroutine.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.cancel()
		<-h.done
	})
}

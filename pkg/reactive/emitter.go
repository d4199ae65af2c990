package reactive

import (
	"sync"

	"github.com/indulgent-dev/indulgent/pkg/metrics"
)

// Emitter is the batched notification primitive underlying signals.
//
// State machine: Idle -> Emit -> Pending(latest) -> flush -> Idle.
// A contiguous run of Emit calls schedules exactly one flush task; the
// flush delivers only the most recent value. Listener membership is
// resolved at flush time, so a listener removed before the flush never
// sees the value and a listener added after the triggering Emit does.
type Emitter struct {
	sched *Scheduler

	mu        sync.Mutex
	listeners []Dependent // registration order; delivery order too
	pending   bool
	hasLatest bool
	latest    any
}

// NewEmitter creates an emitter that schedules its flushes on sched.
// A nil sched selects the process-wide default scheduler.
func NewEmitter(sched *Scheduler) *Emitter {
	if sched == nil {
		sched = Default()
	}
	return &Emitter{sched: sched}
}

// Register adds a listener. Registering an already-present listener
// (same ID) is a no-op, so a listener never receives duplicate
// notifications for one flush.
func (e *Emitter) Register(d Dependent) {
	if d == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := d.ID()
	for _, existing := range e.listeners {
		if existing.ID() == id {
			return
		}
	}
	e.listeners = append(e.listeners, d)
}

// Unregister removes a listener, reporting whether it was present.
// Removal keeps registration order intact for the remaining listeners,
// and takes effect immediately: a pending flush will skip the removed
// listener.
func (e *Emitter) Unregister(d Dependent) bool {
	if d == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := d.ID()
	for i, existing := range e.listeners {
		if existing.ID() == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// UnregisterAll removes every listener.
func (e *Emitter) UnregisterAll() {
	e.mu.Lock()
	e.listeners = nil
	e.mu.Unlock()
}

// Listeners returns the number of registered listeners.
func (e *Emitter) Listeners() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Emit records v as the latest value and, if no flush is pending,
// schedules one. Later Emits before the flush replace the value.
func (e *Emitter) Emit(v any) {
	metrics.RecordSignalWrite()
	e.mu.Lock()
	e.latest = v
	e.hasLatest = true
	schedule := !e.pending
	if schedule {
		e.pending = true
	}
	e.mu.Unlock()

	if schedule {
		e.sched.Enqueue(e.flush)
	}
}

// flush delivers the latest value to the current listener set.
// Listeners run outside the lock, in registration order; an Emit from
// inside a listener starts a fresh Pending cycle.
func (e *Emitter) flush() {
	e.mu.Lock()
	if !e.hasLatest {
		// The state machine schedules a flush only after recording a
		// value, so this is a logic bug, not a runtime condition.
		e.mu.Unlock()
		panic("reactive: emitter flushed with no pending value")
	}
	v := e.latest
	e.latest = nil
	e.hasLatest = false
	e.pending = false
	snapshot := make([]Dependent, len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.Unlock()

	for _, d := range snapshot {
		d.Notify(v)
	}
}

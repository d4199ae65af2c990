package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive subscriber with no value: it runs a callback
// once synchronously at creation and re-runs it, coalesced per flush,
// whenever any signal read during its previous run changes. There is
// no equality gate; any upstream notification schedules a re-run.
type Effect struct {
	id    uint64
	sched *Scheduler

	fn func()

	sourcesMu sync.Mutex
	sources   []Source

	pending atomic.Bool
	stopped atomic.Bool
}

// NewEffect creates the effect and runs fn immediately, tracked, on
// the default scheduler.
func NewEffect(fn func()) *Effect {
	return NewEffectOn(nil, fn)
}

// NewEffectOn is NewEffect with an explicit scheduler.
func NewEffectOn(sched *Scheduler, fn func()) *Effect {
	if sched == nil {
		sched = Default()
	}
	e := &Effect{
		id:    nextID(),
		sched: sched,
		fn:    fn,
	}

	sources := Track(fn)
	e.sources = sources
	for _, src := range sources {
		src.RegisterDependent(e)
	}

	return e
}

// ID returns the unique identifier for this effect.
// Implements the Dependent interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// Notify schedules a re-run. Notifications from several upstream
// signals within one flush coalesce into a single run.
// Implements the Dependent interface.
func (e *Effect) Notify(any) {
	if e.stopped.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) {
		e.sched.Enqueue(e.rerun)
	}
}

// Stop detaches the effect from every upstream signal. It never runs
// again.
func (e *Effect) Stop() {
	if e.stopped.Swap(true) {
		return
	}

	e.sourcesMu.Lock()
	for _, src := range e.sources {
		src.UnregisterDependent(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// rerun executes the callback tracked and reconciles subscriptions the
// same way Computed does.
func (e *Effect) rerun() {
	e.pending.Store(false)
	if e.stopped.Load() {
		return
	}

	e.sourcesMu.Lock()
	for _, src := range e.sources {
		src.UnregisterDependent(e)
	}
	e.sourcesMu.Unlock()

	read := Track(e.fn)

	e.sourcesMu.Lock()
	e.sources = read
	e.sourcesMu.Unlock()
	for _, src := range read {
		src.RegisterDependent(e)
	}
}

var _ Dependent = (*Effect)(nil)

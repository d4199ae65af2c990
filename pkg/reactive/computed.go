package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a read-only signal derived from a pure function over
// other signals. It computes eagerly at construction, then recomputes
// at most once per flush when any of its upstream signals change.
//
// After every computation the subscribed-upstream set equals exactly
// the set of sources read during that computation: a branch that stops
// reading a signal stops the computed from hearing about it.
type Computed[T any] struct {
	id    uint64
	sched *Scheduler

	// inner holds the derived value and carries this computed's
	// downstream dependents, so the equality gate applies to the
	// derived value as well: an upstream change that produces the
	// same result notifies nobody.
	inner *Signal[T]

	compute func() T

	sourcesMu sync.Mutex
	sources   []Source

	pending  atomic.Bool
	disposed atomic.Bool
}

// NewComputed creates a computed signal on the default scheduler and
// runs compute once, tracked, to seed the value and subscriptions.
func NewComputed[T any](compute func() T) *Computed[T] {
	return NewComputedOn(nil, compute)
}

// NewComputedOn is NewComputed with an explicit scheduler.
func NewComputedOn[T any](sched *Scheduler, compute func() T) *Computed[T] {
	if sched == nil {
		sched = Default()
	}
	c := &Computed[T]{
		id:      nextID(),
		sched:   sched,
		compute: compute,
	}

	var first T
	sources := Track(func() { first = compute() })
	c.inner = NewSignalOn(sched, first)
	c.sources = sources
	for _, src := range sources {
		src.RegisterDependent(c)
	}

	return c
}

// Get returns the derived value. The read delegates to the internal
// signal and therefore participates in whatever tracking is active.
func (c *Computed[T]) Get() T {
	return c.inner.Get()
}

// Peek returns the derived value without reporting to any tracker.
func (c *Computed[T]) Peek() T {
	return c.inner.Peek()
}

// WithEquals replaces the equality gate on the derived value.
func (c *Computed[T]) WithEquals(fn func(T, T) bool) *Computed[T] {
	c.inner.WithEquals(fn)
	return c
}

// ID returns the unique identifier for this computed signal.
// Implements the Dependent interface.
func (c *Computed[T]) ID() uint64 {
	return c.id
}

// Notify schedules a recomputation. Multiple upstream notifications
// within one flush coalesce into a single recompute.
// Implements the Dependent interface.
func (c *Computed[T]) Notify(any) {
	if c.disposed.Load() {
		return
	}
	if c.pending.CompareAndSwap(false, true) {
		c.sched.Enqueue(c.recompute)
	}
}

// Load implements Source, delegating to the internal signal.
func (c *Computed[T]) Load() any {
	return c.inner.Load()
}

// RegisterDependent adds a downstream dependent.
func (c *Computed[T]) RegisterDependent(d Dependent) {
	c.inner.RegisterDependent(d)
}

// UnregisterDependent removes a downstream dependent.
func (c *Computed[T]) UnregisterDependent(d Dependent) bool {
	return c.inner.UnregisterDependent(d)
}

// UnregisterAllDependents removes every downstream dependent.
func (c *Computed[T]) UnregisterAllDependents() {
	c.inner.UnregisterAllDependents()
}

// Dispose detaches the computed from the graph entirely: upstream
// subscriptions are released and downstream dependents dropped.
// A disposed computed keeps its last value but never recomputes.
func (c *Computed[T]) Dispose() {
	if c.disposed.Swap(true) {
		return
	}

	c.sourcesMu.Lock()
	for _, src := range c.sources {
		src.UnregisterDependent(c)
	}
	c.sources = nil
	c.sourcesMu.Unlock()

	c.inner.UnregisterAllDependents()
}

// recompute re-runs the tracked computation and reconciles the
// subscription set: sources no longer read are unregistered, newly
// read sources registered.
func (c *Computed[T]) recompute() {
	c.pending.Store(false)
	if c.disposed.Load() {
		return
	}

	c.sourcesMu.Lock()
	for _, src := range c.sources {
		src.UnregisterDependent(c)
	}
	c.sourcesMu.Unlock()

	var next T
	read := Track(func() { next = c.compute() })

	c.sourcesMu.Lock()
	c.sources = read
	c.sourcesMu.Unlock()
	for _, src := range read {
		src.RegisterDependent(c)
	}

	// Equality gate lives in the inner signal: an unchanged derived
	// value notifies no downstream consumer.
	c.inner.Set(next)
}

var _ Source = (*Computed[int])(nil)
var _ Dependent = (*Computed[int])(nil)

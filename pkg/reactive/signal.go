package reactive

import (
	"fmt"
	"sync"
)

// Signal is a mutable reactive cell. Reads report to the active tracker
// so computed signals and effects can subscribe precisely; writes pass
// an equality gate, update the stored value synchronously, and enqueue
// a batched notification carrying the new value.
type Signal[T any] struct {
	id      uint64
	emitter *Emitter

	mu    sync.RWMutex
	value T

	// equal gates writes. nil selects deep-value equality.
	equal func(T, T) bool
}

// NewSignal creates a signal holding initial, batched on the default
// scheduler.
func NewSignal[T any](initial T) *Signal[T] {
	return NewSignalOn(nil, initial)
}

// NewSignalOn creates a signal whose notifications flush on sched.
// A nil sched selects the process-wide default.
func NewSignalOn[T any](sched *Scheduler, initial T) *Signal[T] {
	return &Signal[T]{
		id:      nextID(),
		emitter: NewEmitter(sched),
		value:   initial,
	}
}

// Get returns the current value, reporting the read to the active
// tracker if one is installed.
func (s *Signal[T]) Get() T {
	recordRead(s)
	return s.Peek()
}

// Peek returns the current value without reporting to any tracker.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores v and enqueues a batched notification, unless v is
// equality-equal to the current value, in which case nothing happens.
// The stored value is visible to synchronous Get calls immediately,
// before any listener runs.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	changed := !s.equals(s.value, v)
	if changed {
		s.value = v
	}
	s.mu.Unlock()

	if changed {
		s.emitter.Emit(v)
	}
}

// Update applies fn to the current value and Sets the result.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	changed := !s.equals(s.value, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if changed {
		s.emitter.Emit(next)
	}
}

// WithEquals replaces the equality gate. Useful when deep equality is
// too expensive or has the wrong semantics for T.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.id
}

// Load implements Source: a tracked, type-erased read.
func (s *Signal[T]) Load() any {
	recordRead(s)
	return s.Peek()
}

// Store implements Sink: a type-checked erased write through the same
// equality gate as Set. A nil value stores the zero value of T.
func (s *Signal[T]) Store(value any) error {
	if value == nil {
		var zero T
		s.Set(zero)
		return nil
	}
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("reactive: cannot store %T into Signal[%T]", value, s.Peek())
	}
	s.Set(v)
	return nil
}

// RegisterDependent adds d to the notification set. Idempotent.
func (s *Signal[T]) RegisterDependent(d Dependent) {
	s.emitter.Register(d)
}

// UnregisterDependent removes d, reporting whether it was present.
func (s *Signal[T]) UnregisterDependent(d Dependent) bool {
	return s.emitter.Unregister(d)
}

// UnregisterAllDependents removes every dependent. The emitter holds
// strong references to dependents, so teardown paths must call this to
// avoid leaks.
func (s *Signal[T]) UnregisterAllDependents() {
	s.emitter.UnregisterAll()
}

// Dependents returns the number of registered dependents.
func (s *Signal[T]) Dependents() int {
	return s.emitter.Listeners()
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

var _ Sink = (*Signal[int])(nil)

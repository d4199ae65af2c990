package reactive

import "sync/atomic"

// Dependent is anything that can be notified when a signal changes.
// Implemented by computed signals, effects, and the DOM binding layer's
// property writers.
type Dependent interface {
	// Notify delivers the latest value of the signal that changed.
	// Across multiple writes within one flush cycle only the final
	// value is delivered, exactly once.
	Notify(value any)

	// ID returns a unique identifier for this dependent.
	// Used for idempotent registration and removal.
	ID() uint64
}

// Source is the read capability of a reactive cell: a tracked read plus
// dependent management. Both signals and computed signals are Sources.
type Source interface {
	// Load returns the current value, reporting the read to the active
	// tracker if one is installed.
	Load() any

	// RegisterDependent adds a dependent; re-registering the same
	// dependent is a no-op.
	RegisterDependent(d Dependent)

	// UnregisterDependent removes a dependent, reporting whether it
	// was present.
	UnregisterDependent(d Dependent) bool

	// UnregisterAllDependents removes every dependent.
	UnregisterAllDependents()

	// ID returns a unique identifier for this source.
	ID() uint64
}

// Sink is the write capability. Signals are Sinks; computed signals are
// not, which lets callers check writability with a type assertion
// instead of probing for methods.
type Sink interface {
	Source

	// Store writes a type-erased value through the signal's equality
	// gate. Returns an error when the value's dynamic type does not
	// match the signal's element type.
	Store(value any) error
}

// globalIDCounter is the source of unique IDs for all reactive primitives.
var globalIDCounter uint64

// nextID returns the next unique ID for a reactive primitive.
// IDs are monotonically increasing and never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// funcDependent adapts a plain function to the Dependent interface.
type funcDependent struct {
	id uint64
	fn func(value any)
}

func (f *funcDependent) Notify(value any) { f.fn(value) }
func (f *funcDependent) ID() uint64       { return f.id }

// DependentFunc wraps fn as a Dependent with a fresh identity.
// Each call returns a distinct dependent, even for the same fn.
func DependentFunc(fn func(value any)) Dependent {
	return &funcDependent{id: nextID(), fn: fn}
}

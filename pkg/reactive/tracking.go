package reactive

import (
	"runtime"
	"sync"
)

// trackFrame collects the sources read during one tracked computation.
// Reads are deduplicated by source ID with insertion order preserved.
type trackFrame struct {
	seen  map[uint64]struct{}
	order []Source
}

func (f *trackFrame) record(s Source) {
	id := s.ID()
	if _, ok := f.seen[id]; ok {
		return
	}
	f.seen[id] = struct{}{}
	f.order = append(f.order, s)
}

// trackingContext holds the active track frame for a goroutine.
// The engine is cooperative and single-threaded per document, but
// keeping the slot goroutine-local means parallel tests cannot corrupt
// each other's capture lists.
type trackingContext struct {
	frame *trackFrame
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID extracts the current goroutine's ID from the runtime
// stack header ("goroutine <id> ..."). Implementation detail; never
// exposed.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current
// goroutine, creating one if needed.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// recordRead reports a source read to the active tracker, if any.
// Sources call this unconditionally on every tracked read; they never
// need to know who is tracking them.
func recordRead(s Source) {
	ctx := getTrackingContext()
	if ctx.frame != nil {
		ctx.frame.record(s)
	}
}

// Track runs fn with a fresh capture frame installed and returns every
// source whose value was read during fn, deduplicated, in read order.
// The previous frame (possibly none) is restored on all exit paths, so
// nested Track calls compose and a panicking fn cannot leak a frame.
func Track(fn func()) []Source {
	ctx := getTrackingContext()
	prev := ctx.frame
	frame := &trackFrame{seen: make(map[uint64]struct{})}
	ctx.frame = frame
	defer func() {
		ctx.frame = prev
	}()

	fn()
	return frame.order
}

// Untracked runs fn with tracking suspended: reads inside fn are not
// reported to any enclosing Track, Computed, or Effect.
func Untracked(fn func()) {
	ctx := getTrackingContext()
	prev := ctx.frame
	ctx.frame = nil
	defer func() {
		ctx.frame = prev
	}()

	fn()
}

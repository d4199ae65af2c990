package reactive

import (
	"sync"

	"github.com/indulgent-dev/indulgent/pkg/metrics"
)

// Scheduler is the cooperative task queue behind batched notification.
// Emitters enqueue exactly one flush task per burst of writes; Flush
// drains the queue in FIFO order, including tasks enqueued while
// draining. This mirrors a microtask queue: work scheduled during a
// flush still runs before Flush returns.
//
// There are no background goroutines. Nothing runs until Flush is
// called, which is what gives writes their "deferred, latest value
// only" semantics.
type Scheduler struct {
	mu    sync.Mutex
	queue []func()
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Enqueue appends a task to the queue. The task runs on the next Flush.
func (s *Scheduler) Enqueue(task func()) {
	s.mu.Lock()
	s.queue = append(s.queue, task)
	s.mu.Unlock()
}

// Flush runs queued tasks in FIFO order until the queue is empty.
// Tasks enqueued by running tasks are drained in the same call.
func (s *Scheduler) Flush() {
	drained := false
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			if drained {
				metrics.RecordFlush()
			}
			return
		}
		drained = true
		task := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		task()
	}
}

// Len returns the number of queued tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// defaultScheduler serves every primitive that is not given an explicit
// scheduler. One process-wide queue matches the one-microtask-queue
// model of the environment this engine targets.
var defaultScheduler = NewScheduler()

// Default returns the process-wide scheduler.
func Default() *Scheduler {
	return defaultScheduler
}

// Flush drains the process-wide scheduler.
func Flush() {
	defaultScheduler.Flush()
}

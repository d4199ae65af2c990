package reactive

import "testing"

func TestSchedulerFIFO(t *testing.T) {
	s := NewScheduler()
	var order []int

	s.Enqueue(func() { order = append(order, 1) })
	s.Enqueue(func() { order = append(order, 2) })
	s.Enqueue(func() { order = append(order, 3) })
	s.Flush()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected FIFO order, got %v", order)
	}
}

func TestSchedulerDrainsNestedEnqueues(t *testing.T) {
	s := NewScheduler()
	var order []string

	s.Enqueue(func() {
		order = append(order, "outer")
		s.Enqueue(func() {
			order = append(order, "inner")
		})
	})
	s.Flush()

	if len(order) != 2 || order[1] != "inner" {
		t.Errorf("tasks enqueued during a flush must run in the same flush, got %v", order)
	}
	if s.Len() != 0 {
		t.Errorf("queue should be empty, %d left", s.Len())
	}
}

func TestSchedulerFlushEmptyIsNoop(t *testing.T) {
	s := NewScheduler()
	s.Flush()
	if s.Len() != 0 {
		t.Errorf("unexpected queue length %d", s.Len())
	}
}

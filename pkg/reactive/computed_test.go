package reactive

import "testing"

func TestComputedEagerInitial(t *testing.T) {
	count := NewSignal(2)
	double := NewComputed(func() int { return count.Get() * 2 })

	if double.Get() != 4 {
		t.Errorf("computed must evaluate at construction, got %d", double.Get())
	}
}

func TestComputedRecomputesOnFlush(t *testing.T) {
	count := NewSignal(1)
	double := NewComputed(func() int { return count.Get() * 2 })

	count.Set(5)
	Flush()

	if double.Get() != 10 {
		t.Errorf("expected 10 after flush, got %d", double.Get())
	}
}

func TestComputedCoalescesUpstreamBursts(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(2)

	runs := 0
	sum := NewComputed(func() int {
		runs++
		return a.Get() + b.Get()
	})
	if runs != 1 {
		t.Fatalf("expected exactly one eager run, got %d", runs)
	}

	// Two upstream writes in one tick -> one recomputation.
	a.Set(10)
	b.Set(20)
	Flush()

	if runs != 2 {
		t.Errorf("expected one coalesced recompute, got %d total runs", runs)
	}
	if sum.Get() != 30 {
		t.Errorf("expected 30, got %d", sum.Get())
	}
}

func TestComputedPreciseDependencyTracking(t *testing.T) {
	useA := NewSignal(true)
	a := NewSignal("a")
	b := NewSignal("b")

	runs := 0
	pick := NewComputed(func() string {
		runs++
		if useA.Get() {
			return a.Get()
		}
		return b.Get()
	})
	if pick.Get() != "a" {
		t.Fatalf("expected a, got %q", pick.Get())
	}

	// While the condition reads a, writes to b must be invisible.
	b.Set("b2")
	Flush()
	if runs != 1 {
		t.Errorf("write to unread signal caused recompute (runs=%d)", runs)
	}

	// Flip the branch; now b is read and a is not.
	useA.Set(false)
	Flush()
	if pick.Get() != "b2" {
		t.Fatalf("expected b2, got %q", pick.Get())
	}
	runsAfterFlip := runs

	a.Set("a2")
	Flush()
	if runs != runsAfterFlip {
		t.Errorf("stale subscription: write to a recomputed after branch flip")
	}

	b.Set("b3")
	Flush()
	if pick.Get() != "b3" {
		t.Errorf("expected b3, got %q", pick.Get())
	}
}

func TestComputedEqualityGateDownstream(t *testing.T) {
	n := NewSignal(1)
	parity := NewComputed(func() string {
		if n.Get()%2 == 0 {
			return "even"
		}
		return "odd"
	})

	dep := newTestDependent()
	parity.RegisterDependent(dep)

	// Upstream changes but the derived value does not.
	n.Set(3)
	Flush()
	if dep.calls() != 0 {
		t.Errorf("unchanged derived value must not notify downstream, got %d", dep.calls())
	}

	n.Set(4)
	Flush()
	if dep.calls() != 1 {
		t.Errorf("expected 1 downstream notification, got %d", dep.calls())
	}
	if dep.last() != "even" {
		t.Errorf("expected even, got %v", dep.last())
	}
}

func TestComputedChains(t *testing.T) {
	count := NewSignal(1)
	double := NewComputed(func() int { return count.Get() * 2 })
	quad := NewComputed(func() int { return double.Get() * 2 })

	count.Set(3)
	Flush()

	if quad.Get() != 12 {
		t.Errorf("expected 12 through the chain, got %d", quad.Get())
	}
}

func TestComputedDispose(t *testing.T) {
	count := NewSignal(1)
	runs := 0
	double := NewComputed(func() int {
		runs++
		return count.Get() * 2
	})
	dep := newTestDependent()
	double.RegisterDependent(dep)

	double.Dispose()

	count.Set(5)
	Flush()

	if runs != 1 {
		t.Errorf("disposed computed recomputed (runs=%d)", runs)
	}
	if dep.calls() != 0 {
		t.Errorf("disposed computed notified downstream %d times", dep.calls())
	}
	if double.Peek() != 2 {
		t.Errorf("disposed computed should keep its last value, got %d", double.Peek())
	}
}

package reactive

import "testing"

func TestEffectRunsSynchronouslyAtCreation(t *testing.T) {
	count := NewSignal(1)
	runs := 0
	NewEffect(func() {
		runs++
		_ = count.Get()
	})

	if runs != 1 {
		t.Errorf("effect must run once at creation, got %d", runs)
	}
}

func TestEffectRerunsOnChange(t *testing.T) {
	count := NewSignal(1)
	var seen []int
	NewEffect(func() {
		seen = append(seen, count.Get())
	})

	count.Set(2)
	Flush()
	count.Set(3)
	Flush()

	if len(seen) != 3 || seen[2] != 3 {
		t.Errorf("expected runs with 1,2,3; got %v", seen)
	}
}

func TestEffectCoalescesMultipleUpstreams(t *testing.T) {
	first := NewSignal("Ada")
	last := NewSignal("Lovelace")

	runs := 0
	var full string
	NewEffect(func() {
		runs++
		full = first.Get() + " " + last.Get()
	})

	// Both set in the same tick: exactly one re-run after flush.
	first.Set("Grace")
	last.Set("Hopper")
	Flush()

	if runs != 2 {
		t.Errorf("expected 1 initial + 1 coalesced run, got %d", runs)
	}
	if full != "Grace Hopper" {
		t.Errorf("expected final values, got %q", full)
	}
}

func TestEffectPreciseResubscription(t *testing.T) {
	gate := NewSignal(true)
	a := NewSignal(1)
	b := NewSignal(2)

	runs := 0
	NewEffect(func() {
		runs++
		if gate.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
	})

	gate.Set(false)
	Flush()
	runsAfterFlip := runs

	a.Set(100)
	Flush()
	if runs != runsAfterFlip {
		t.Error("effect still subscribed to a signal it no longer reads")
	}

	b.Set(200)
	Flush()
	if runs != runsAfterFlip+1 {
		t.Errorf("effect missed a write to a signal it reads (runs=%d)", runs)
	}
}

func TestEffectStop(t *testing.T) {
	count := NewSignal(1)
	runs := 0
	e := NewEffect(func() {
		runs++
		_ = count.Get()
	})

	e.Stop()
	count.Set(2)
	Flush()

	if runs != 1 {
		t.Errorf("stopped effect re-ran (runs=%d)", runs)
	}
	if count.Dependents() != 0 {
		t.Errorf("stopped effect left %d subscriptions behind", count.Dependents())
	}
}

func TestEffectStopWhilePending(t *testing.T) {
	count := NewSignal(1)
	runs := 0
	e := NewEffect(func() {
		runs++
		_ = count.Get()
	})

	count.Set(2) // schedules a re-run
	e.Stop()
	Flush()

	if runs != 1 {
		t.Errorf("stop before flush must cancel the pending run (runs=%d)", runs)
	}
}

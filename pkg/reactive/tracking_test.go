package reactive

import "testing"

func TestTrackCapturesReadsInOrder(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(2)

	read := Track(func() {
		_ = b.Get()
		_ = a.Get()
		_ = b.Get() // duplicate, must not repeat
	})

	if len(read) != 2 {
		t.Fatalf("expected 2 captured sources, got %d", len(read))
	}
	if read[0].ID() != b.ID() || read[1].ID() != a.ID() {
		t.Error("capture must preserve first-read order")
	}
}

func TestTrackIgnoresPeek(t *testing.T) {
	a := NewSignal(1)

	read := Track(func() {
		_ = a.Peek()
	})
	if len(read) != 0 {
		t.Errorf("Peek must not be captured, got %d sources", len(read))
	}
}

func TestTrackNesting(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(2)

	var inner []Source
	outer := Track(func() {
		_ = a.Get()
		inner = Track(func() {
			_ = b.Get()
		})
	})

	if len(inner) != 1 || inner[0].ID() != b.ID() {
		t.Errorf("inner capture wrong: %d sources", len(inner))
	}
	// The outer frame must not absorb the inner frame's reads.
	if len(outer) != 1 || outer[0].ID() != a.ID() {
		t.Errorf("outer capture wrong: %d sources", len(outer))
	}
}

func TestTrackRestoresFrameOnPanic(t *testing.T) {
	a := NewSignal(1)

	func() {
		defer func() { _ = recover() }()
		Track(func() {
			panic("boom")
		})
	}()

	// If the panicking Track leaked its frame, this read would be
	// captured into it and the next Track would misbehave.
	_ = a.Get()

	read := Track(func() { _ = a.Get() })
	if len(read) != 1 {
		t.Errorf("tracking corrupted after panic: %d sources", len(read))
	}
}

func TestUntracked(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(2)

	read := Track(func() {
		_ = a.Get()
		Untracked(func() {
			_ = b.Get()
		})
	})

	if len(read) != 1 || read[0].ID() != a.ID() {
		t.Errorf("untracked read leaked into capture: %d sources", len(read))
	}
}

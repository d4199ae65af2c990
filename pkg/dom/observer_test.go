package dom

import (
	"testing"

	"github.com/indulgent-dev/indulgent/pkg/reactive"
)

func TestObserverDeliversOnFlush(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := NewDocumentOn(sched)
	body := doc.Body()

	var batches [][]MutationRecord
	doc.Observe(body, ObserveOptions{ChildList: true}, func(recs []MutationRecord) {
		batches = append(batches, recs)
	})

	a := NewElement("div")
	b := NewElement("div")
	body.AppendChild(a)
	body.AppendChild(b)

	if len(batches) != 0 {
		t.Fatal("records delivered before flush")
	}
	sched.Flush()

	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Fatalf("expected 2 records, got %d", len(batches[0]))
	}
	if batches[0][0].Added[0] != a || batches[0][1].Added[0] != b {
		t.Error("records out of order")
	}
}

func TestObserverSubtree(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := NewDocumentOn(sched)
	body := doc.Body()
	inner := NewElement("div")
	body.AppendChild(inner)
	sched.Flush()

	var shallow, deep int
	doc.Observe(body, ObserveOptions{ChildList: true}, func(recs []MutationRecord) {
		shallow += len(recs)
	})
	doc.Observe(body, ObserveOptions{ChildList: true, Subtree: true}, func(recs []MutationRecord) {
		deep += len(recs)
	})

	inner.AppendChild(NewElement("span"))
	sched.Flush()

	if shallow != 0 {
		t.Errorf("non-subtree observer saw %d records for a nested change", shallow)
	}
	if deep != 1 {
		t.Errorf("subtree observer saw %d records, want 1", deep)
	}
}

func TestObserverRemovalRecords(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := NewDocumentOn(sched)
	body := doc.Body()
	child := NewElement("div")
	body.AppendChild(child)
	sched.Flush()

	var removed []*Node
	doc.Observe(body, ObserveOptions{ChildList: true}, func(recs []MutationRecord) {
		for _, r := range recs {
			removed = append(removed, r.Removed...)
		}
	})

	body.RemoveChild(child)
	sched.Flush()

	if len(removed) != 1 || removed[0] != child {
		t.Errorf("removed = %v", removed)
	}
}

func TestObserverDisconnect(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := NewDocumentOn(sched)
	body := doc.Body()

	calls := 0
	o := doc.Observe(body, ObserveOptions{ChildList: true}, func([]MutationRecord) {
		calls++
	})

	body.AppendChild(NewElement("div"))
	o.Disconnect()
	sched.Flush()

	if calls != 0 {
		t.Errorf("disconnected observer delivered %d batches", calls)
	}
}

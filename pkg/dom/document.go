package dom

import (
	"github.com/indulgent-dev/indulgent/pkg/reactive"
)

// Document owns a node tree and the mutation observers watching it.
// Structural notifications are delivered through a reactive Scheduler,
// so observer callbacks run on flush, batched per observer, never
// inline with the mutation that produced them.
type Document struct {
	Root  *Node
	sched *reactive.Scheduler

	observers []*MutationObserver
}

// NewDocument creates a document with an html/head/body skeleton on
// the default scheduler.
func NewDocument() *Document {
	return NewDocumentOn(nil)
}

// NewDocumentOn is NewDocument with an explicit scheduler. A nil sched
// selects the process-wide default.
func NewDocumentOn(sched *reactive.Scheduler) *Document {
	if sched == nil {
		sched = reactive.Default()
	}
	d := &Document{
		Root:  &Node{Kind: KindDocument},
		sched: sched,
	}
	d.Root.doc = d

	html := NewElement("html")
	d.Root.AppendChild(html)
	html.AppendChild(NewElement("head"))
	html.AppendChild(NewElement("body"))
	return d
}

// Scheduler returns the scheduler mutation records flush on.
func (d *Document) Scheduler() *reactive.Scheduler {
	return d.sched
}

// Body returns the body element, or nil for documents without one.
func (d *Document) Body() *Node {
	return d.Root.ByTag("body")
}

// Head returns the head element, or nil for documents without one.
func (d *Document) Head() *Node {
	return d.Root.ByTag("head")
}

// recordMutation fans a structural change out to interested observers.
func (d *Document) recordMutation(target *Node, added, removed []*Node) {
	for _, o := range d.observers {
		o.consider(target, added, removed)
	}
}

// ObserveOptions selects which mutations an observer receives.
type ObserveOptions struct {
	// ChildList observes node insertion and removal on the root.
	ChildList bool

	// Subtree extends observation to all descendants of the root.
	Subtree bool
}

// MutationRecord describes one structural change.
type MutationRecord struct {
	Target  *Node
	Added   []*Node
	Removed []*Node
}

// MutationObserver receives batched structural-change notifications
// for a subtree.
type MutationObserver struct {
	doc      *Document
	root     *Node
	opts     ObserveOptions
	callback func([]MutationRecord)

	queue     []MutationRecord
	scheduled bool
	stopped   bool
}

// Observe registers a callback for structural changes under root.
// Records are queued and delivered on the next scheduler flush; each
// delivery carries every record queued since the last one.
func (d *Document) Observe(root *Node, opts ObserveOptions, callback func([]MutationRecord)) *MutationObserver {
	o := &MutationObserver{
		doc:      d,
		root:     root,
		opts:     opts,
		callback: callback,
	}
	d.observers = append(d.observers, o)
	return o
}

// Disconnect stops delivery, including any already-queued records.
func (o *MutationObserver) Disconnect() {
	o.stopped = true
	o.queue = nil
	for i, existing := range o.doc.observers {
		if existing == o {
			o.doc.observers = append(o.doc.observers[:i], o.doc.observers[i+1:]...)
			return
		}
	}
}

func (o *MutationObserver) consider(target *Node, added, removed []*Node) {
	if o.stopped || !o.opts.ChildList {
		return
	}
	if target != o.root && !(o.opts.Subtree && o.root.Contains(target)) {
		return
	}

	o.queue = append(o.queue, MutationRecord{Target: target, Added: added, Removed: removed})
	if !o.scheduled {
		o.scheduled = true
		o.doc.sched.Enqueue(o.deliver)
	}
}

func (o *MutationObserver) deliver() {
	o.scheduled = false
	if o.stopped || len(o.queue) == 0 {
		return
	}
	records := o.queue
	o.queue = nil
	o.callback(records)
}

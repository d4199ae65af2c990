package dom

// Event is delivered to listeners on dispatch.
type Event struct {
	Type   string
	Target *Node

	// Value carries event payload: the input's current value for
	// "input" events, the checked state for "change" events.
	Value any
}

// EventListener is the removable handle returned by AddEventListener.
type EventListener struct {
	Type string
	fn   func(*Event)
}

// AddEventListener attaches fn for events of the given type and
// returns a handle for removal. Listeners fire in attachment order.
func (n *Node) AddEventListener(typ string, fn func(*Event)) *EventListener {
	l := &EventListener{Type: typ, fn: fn}
	if n.listeners == nil {
		n.listeners = make(map[string][]*EventListener)
	}
	n.listeners[typ] = append(n.listeners[typ], l)
	return l
}

// RemoveEventListener detaches a previously added listener, reporting
// whether it was present.
func (n *Node) RemoveEventListener(l *EventListener) bool {
	if n.listeners == nil || l == nil {
		return false
	}
	list := n.listeners[l.Type]
	for i, existing := range list {
		if existing == l {
			n.listeners[l.Type] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners for the given type.
func (n *Node) ListenerCount(typ string) int {
	if n.listeners == nil {
		return 0
	}
	return len(n.listeners[typ])
}

// Dispatch fires an event at n and bubbles it to ancestors. Listener
// mutation during dispatch affects later events, not this one.
func (n *Node) Dispatch(typ string, value any) {
	ev := &Event{Type: typ, Target: n, Value: value}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.listeners == nil {
			continue
		}
		list := cur.listeners[typ]
		snapshot := make([]*EventListener, len(list))
		copy(snapshot, list)
		for _, l := range snapshot {
			l.fn(ev)
		}
	}
}

// DispatchInput simulates user input: stores the value property the
// way typing would, then fires an "input" event carrying it.
func (n *Node) DispatchInput(value string) {
	n.SetProperty("value", value)
	n.Dispatch("input", value)
}

// DispatchChange simulates toggling a checkbox: stores the checked
// property, then fires a "change" event carrying it.
func (n *Node) DispatchChange(checked bool) {
	n.SetProperty("checked", checked)
	n.Dispatch("change", checked)
}

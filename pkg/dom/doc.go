// Package dom provides the in-memory HTML document tree the binding
// layer renders against: ordered attributes, element properties, event
// listeners, and childList mutation observation delivered through the
// reactive scheduler.
//
// It is a server-side stand-in for a browser DOM, not a spec-complete
// one. It implements exactly the surface the binding and pre-render
// layers need: structural tree edits, a small property model
// (innerText, textContent, innerHTML, value, checked, ...), event
// dispatch with bubbling, and MutationObserver-style childList
// notifications.
package dom

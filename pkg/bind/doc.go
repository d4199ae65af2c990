// Package bind connects reactive sources to document elements through
// declarative binding attributes.
//
// Three attribute prefixes drive the binder: obind pushes source values
// into element properties, ibind pushes user input back into writable
// sources, and iobind does both. The property segment uses snake_case
// and maps onto the camelCase property model (obind:inner_text,
// iobind:value). Lists render through bind:for, which clones a template
// element once per array item and keeps the clones in step with the
// array source.
//
// Init scans a root once and then watches it through the document's
// mutation observer, so elements added later are bound on the next
// scheduler flush with no further calls.
package bind

// Package bindtest provides a test harness for binding-driven
// documents: parse markup, attach sources, simulate user interaction,
// and assert on the resulting tree without standing up a browser.
package bindtest

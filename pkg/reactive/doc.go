// Package reactive implements the dependency-tracking signal engine:
// signals, computed signals, effects, and the batched notification
// scheduler that coalesces a burst of writes into a single delivery.
//
// The model is single-threaded and cooperative. Writes never invoke
// listeners inline; they enqueue a flush on a Scheduler, and Flush
// drains the queue the way a JavaScript runtime drains its microtask
// queue. Reads performed inside Track, a Computed computation, or an
// Effect body are captured so the reader can be re-subscribed with
// precision after every run.
//
//	count := reactive.NewSignal(0)
//	double := reactive.NewComputed(func() int { return count.Get() * 2 })
//
//	count.Set(1)
//	count.Set(2)
//	reactive.Flush() // double recomputes once, sees 2
package reactive

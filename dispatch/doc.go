// SPDX-License-Identifier: EPL-2.0

// Package dispatch runs blocking codec calls off the event loop and brings
// their results back to it.
//
// A Loop is a run queue owned by whichever goroutine calls Run. A
// Dispatcher takes Requests, runs each work function once on a worker
// goroutine (bounded by a semaphore, four by default) and posts the
// completion back to the Loop, where the continuation runs once:
//
//	loop := dispatch.NewLoop()
//	d := dispatch.New(loop)
//
//	err := loop.Run(ctx, func() {
//		req := dispatch.NewRequest("encode", func() int {
//			return encodeChunk() // blocking
//		}, func(n int, err error) {
//			fmt.Println("wrote", n)
//		})
//		_ = dispatch.Submit(d, req)
//	})
//
// Run returns when nothing is left in flight. Go wraps the same machinery
// in a Future, which can be awaited from goroutines other than the loop
// goroutine while the loop is served with Serve.
//
// Completions arrive in the order work finishes, not in submission order.
// Nothing can be cancelled once submitted.
//
// A panic raised by a continuation is recovered, the request is cleaned up
// and the error is handed to the FatalHandler. With no handler installed
// Run stops and returns the error. A panic inside work is recovered too and
// delivered to the continuation as an error.
//
// Session guards a codec instance: one operation at a time, closed once.
// A second submission on a busy session is refused with ErrSessionBusy
// before anything is scheduled.
package dispatch

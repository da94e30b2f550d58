// SPDX-License-Identifier: EPL-2.0

package dispatch

import (
	"context"
	"testing"
	"time"
)

// runLoop runs main on a fresh loop and fails the test if it takes longer
// than a few seconds.
func runLoop(t *testing.T, loop *Loop, main func()) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := loop.Run(ctx, main)
	if ctx.Err() != nil {
		t.Fatalf("loop did not finish: %v", ctx.Err())
	}
	return err
}

func newTestDispatcher(opts ...Option) (*Loop, *Dispatcher) {
	loop := NewLoop()
	opts = append([]Option{WithMetrics(nil)}, opts...)
	return loop, New(loop, opts...)
}

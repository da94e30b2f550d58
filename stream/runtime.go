// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"

	"github.com/ik5/mp3bridge/dispatch"
	"golang.org/x/sync/errgroup"
)

// Runtime serves a dispatch loop on a background goroutine, so that
// streams can be used from ordinary goroutines.
type Runtime struct {
	d      *dispatch.Dispatcher
	cancel context.CancelFunc
	g      *errgroup.Group
	served chan struct{}
}

// Start runs a new loop until ctx is done or Stop is called.
func Start(ctx context.Context, opts ...dispatch.Option) *Runtime {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	loop := dispatch.NewLoop()
	d := dispatch.New(loop, opts...)
	served := make(chan struct{})
	g.Go(func() error {
		defer close(served)
		return loop.Serve(gctx)
	})

	return &Runtime{d: d, cancel: cancel, g: g, served: served}
}

func (r *Runtime) Dispatcher() *dispatch.Dispatcher { return r.d }

// Stop refuses new work, waits for the work in flight, lets the loop run
// every continuation already due and then stops it. It returns the error
// that ended the loop, if that was not Stop itself.
func (r *Runtime) Stop() error {
	r.d.Close()
	r.d.Wait()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-r.served:
			cancel()
		case <-ctx.Done():
		}
	}()
	_ = r.d.Loop().Drain(ctx)
	cancel()
	r.cancel()

	if err := r.g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

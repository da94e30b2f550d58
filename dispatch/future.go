// SPDX-License-Identifier: EPL-2.0

package dispatch

import (
	"context"
	"sync"

	"github.com/ik5/mp3bridge/errs"
)

// Future is a single shot result completed on the loop goroutine.
type Future[R any] struct {
	loop *Loop
	done chan struct{}
	once sync.Once

	mu    sync.Mutex
	val   R
	err   error
	thens []func(R, error)
}

func newFuture[R any](l *Loop) *Future[R] {
	return &Future[R]{
		loop: l,
		done: make(chan struct{}),
	}
}

// NewFuture returns a pending Future and the function that completes it.
// Bindings that need to wrap a continuation (to release a session first,
// say) hand resolve to their own Request.
func NewFuture[R any](l *Loop) (f *Future[R], resolve func(R, error)) {
	f = newFuture[R](l)
	return f, func(v R, err error) { f.complete(v, err) }
}

// Go submits work and returns a Future for its result.
func Go[R any](d *Dispatcher, op string, work func() R) (*Future[R], error) {
	if d == nil {
		return nil, errs.Invalid(op, "nil dispatcher")
	}

	f, resolve := NewFuture[R](d.Loop())
	if err := Submit(d, NewRequest(op, work, resolve)); err != nil {
		return nil, err
	}
	return f, nil
}

// complete stores the value once. Only the first call wins.
func (f *Future[R]) complete(v R, err error) bool {
	won := false
	f.once.Do(func() {
		won = true

		f.mu.Lock()
		f.val, f.err = v, err
		thens := f.thens
		f.thens = nil
		close(f.done)
		f.mu.Unlock()

		for _, fn := range thens {
			fn(v, err)
		}
	})
	return won
}

// Done is closed once the result is available.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Result returns the value without blocking, or ErrPending.
func (f *Future[R]) Result() (R, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.val, f.err
	default:
		var zero R
		return zero, ErrPending
	}
}

// Await blocks until the result is available or ctx is done. The loop
// goroutine completes futures, so Await refuses to run there.
func (f *Future[R]) Await(ctx context.Context) (R, error) {
	var zero R
	if f.loop != nil && f.loop.InLoop() {
		return zero, ErrAwaitInLoop
	}

	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Then runs fn on the loop goroutine with the result. Callbacks registered
// before completion run in registration order right after completion.
func (f *Future[R]) Then(fn func(R, error)) {
	f.mu.Lock()
	select {
	case <-f.done:
		v, err := f.val, f.err
		f.mu.Unlock()
		f.loop.Post(func() { fn(v, err) })
		return
	default:
	}
	f.thens = append(f.thens, fn)
	f.mu.Unlock()
}

// Resolved returns a Future that is already complete. Bindings use it to
// report results that need no worker, such as a rejected argument.
func Resolved[R any](l *Loop, v R, err error) *Future[R] {
	f := newFuture[R](l)
	f.complete(v, err)
	return f
}

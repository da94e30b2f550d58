// SPDX-License-Identifier: EPL-2.0

package dispatch

import (
	"sync/atomic"
	"time"

	"github.com/ik5/mp3bridge/errs"
	"go.uber.org/zap"
)

// State is the lifecycle position of a Request.
type State int32

const (
	StateCreated State = iota
	StateSubmitted
	StateRunning
	StateCompleted
	StateDelivered
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateSubmitted:
		return "submitted"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateDelivered:
		return "delivered"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Request is the per operation record. work runs once on a worker
// goroutine, after runs once on the loop goroutine with work's result.
// err passed to after is non-nil only when work panicked.
//
// A Request is single use. Everything work touches (session, views) must be
// left alone by other code until after has run.
type Request[R any] struct {
	op    string
	id    atomic.Uint64
	state atomic.Int32

	work  func() R
	after func(R, error)

	result R
	err    error
}

func NewRequest[R any](op string, work func() R, after func(R, error)) *Request[R] {
	return &Request[R]{
		op:    op,
		work:  work,
		after: after,
	}
}

func (r *Request[R]) Op() string   { return r.op }
func (r *Request[R]) ID() uint64   { return r.id.Load() }
func (r *Request[R]) State() State { return State(r.state.Load()) }

func (r *Request[R]) advance(from, to State) bool {
	return r.state.CompareAndSwap(int32(from), int32(to))
}

// Submit hands req to the worker pool and returns at once. Errors are
// reported synchronously and nothing is scheduled when one is returned.
func Submit[R any](d *Dispatcher, req *Request[R]) error {
	const op = "dispatch.Submit"

	switch {
	case d == nil:
		return errs.Invalid(op, "nil dispatcher")
	case req == nil:
		return errs.Invalid(op, "nil request")
	case req.work == nil:
		return errs.Invalid(op, "request %q has no work", req.op)
	case req.after == nil:
		return errs.Invalid(op, "request %q has no continuation", req.op)
	case d.closed.Load():
		return errs.New(errs.PhaseSubmit, errs.KindClosed).Op(req.op).Cause(ErrClosed).Build()
	}

	if !req.advance(StateCreated, StateSubmitted) {
		return errs.New(errs.PhaseSubmit, errs.KindState).
			Op(req.op).
			Detail("request is %s", req.State()).
			Cause(ErrRequestState).
			Build()
	}

	req.id.Store(d.seq.Add(1))
	d.loop.ref()
	d.wg.Add(1)
	d.metrics.submitted(req.op)
	d.log().Debug("submit", zap.String("op", req.op), zap.Uint64("request_id", req.ID()))

	go execute(d, req)

	return nil
}

func execute[R any](d *Dispatcher, req *Request[R]) {
	defer d.wg.Done()

	d.acquire()
	defer d.release()

	req.advance(StateSubmitted, StateRunning)

	start := time.Now()
	func() {
		defer func() {
			if r := recover(); r != nil {
				req.err = errs.Recovered(errs.PhaseWork, errs.KindPanic, req.op, r)
			}
		}()
		req.result = req.work()
	}()
	d.metrics.worked(req.op, time.Since(start))

	req.advance(StateRunning, StateCompleted)
	d.loop.post(func() error { return deliver(d, req) })
}

// deliver runs on the loop goroutine. The request is destroyed and its
// references dropped before any continuation failure is escalated.
func deliver[R any](d *Dispatcher, req *Request[R]) (err error) {
	after := req.after
	res, werr := req.result, req.err
	req.advance(StateCompleted, StateDelivered)

	defer func() {
		r := recover()

		var zero R
		req.work, req.after, req.result, req.err = nil, nil, zero, nil
		req.advance(StateDelivered, StateDestroyed)
		d.loop.unref()
		d.metrics.delivered(req.op, werr != nil)
		d.log().Debug("delivered", zap.String("op", req.op), zap.Uint64("request_id", req.ID()))

		if r != nil {
			err = errs.Recovered(errs.PhaseDeliver, errs.KindContinuation, req.op, r)
		}
	}()

	after(res, werr)
	return nil
}

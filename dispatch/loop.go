// SPDX-License-Identifier: EPL-2.0

package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ik5/mp3bridge/errs"
	"go.uber.org/zap"
)

// FatalHandler receives errors raised by continuations. Returning a non-nil
// error stops Loop.Run with that error; returning nil keeps the loop going.
type FatalHandler func(err error) error

type task func() error

// Loop is the single goroutine run queue on which continuations execute.
// The goroutine calling Run is the loop goroutine for that run.
type Loop struct {
	mu    sync.Mutex
	queue []task
	wake  chan struct{}

	// refs counts requests that will post back, plus Serve keepalives.
	refs    atomic.Int64
	running atomic.Bool
	gid     atomic.Uint64

	fatal   FatalHandler
	logger  *zap.Logger
	metrics *Metrics
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFatalHandler installs h for continuation failures.
func WithFatalHandler(h FatalHandler) LoopOption {
	return func(l *Loop) { l.fatal = h }
}

func WithLoopLogger(log *zap.Logger) LoopOption {
	return func(l *Loop) { l.logger = log }
}

func WithLoopMetrics(m *Metrics) LoopOption {
	return func(l *Loop) { l.metrics = m }
}

func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loop) log() *zap.Logger {
	if l.logger != nil {
		return l.logger
	}
	return Logger()
}

// Post schedules fn on the loop goroutine. It never blocks and may be
// called from any goroutine. A panic in fn goes to the fatal handler.
// Post does not keep an idle loop alive; callbacks posted after Run has
// returned wait for the next Run.
func (l *Loop) Post(fn func()) {
	l.post(func() error {
		fn()
		return nil
	})
}

func (l *Loop) post(t task) {
	l.mu.Lock()
	l.queue = append(l.queue, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Drain blocks until the loop has run every task queued so far, along with
// the tasks those queue in turn. It needs a running loop and must not be
// called from the loop goroutine.
func (l *Loop) Drain(ctx context.Context) error {
	if l.InLoop() {
		return ErrAwaitInLoop
	}

	done := make(chan struct{})
	var check func()
	check = func() {
		l.mu.Lock()
		more := len(l.queue) > 0
		l.mu.Unlock()

		if more {
			l.Post(check)
			return
		}
		close(done)
	}
	l.Post(check)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) take() []task {
	l.mu.Lock()
	defer l.mu.Unlock()

	q := l.queue
	l.queue = nil
	return q
}

func (l *Loop) requeue(rest []task) {
	if len(rest) == 0 {
		return
	}

	l.mu.Lock()
	l.queue = append(rest, l.queue...)
	l.mu.Unlock()
}

func (l *Loop) idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.queue) == 0 && l.refs.Load() == 0
}

func (l *Loop) ref()   { l.refs.Add(1) }
func (l *Loop) unref() { l.refs.Add(-1) }

// InLoop reports whether the caller runs on the loop goroutine.
func (l *Loop) InLoop() bool {
	id := l.gid.Load()
	return id != 0 && id == goid()
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Run executes main on the calling goroutine and then drains the queue
// until no request is outstanding, ctx is done, or the fatal handler stops
// the loop.
func (l *Loop) Run(ctx context.Context, main func()) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	l.gid.Store(goid())
	defer l.gid.Store(0)

	if main != nil {
		if err := l.call(func() error { main(); return nil }); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch := l.take()
		for i, t := range batch {
			if err := l.call(t); err != nil {
				l.requeue(batch[i+1:])
				return err
			}
		}
		if len(batch) > 0 {
			continue
		}

		if l.idle() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Serve runs the loop until ctx is done, even when nothing is in flight.
// It is meant for hosts that submit from other goroutines.
func (l *Loop) Serve(ctx context.Context) error {
	l.ref()
	defer l.unref()

	return l.Run(ctx, nil)
}

func (l *Loop) call(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Recovered(errs.PhaseDeliver, errs.KindContinuation, "loop", r)
		}
		if err != nil {
			err = l.escalate(err)
		}
	}()

	return t()
}

func (l *Loop) escalate(err error) error {
	l.metrics.fatal()
	l.log().Error("continuation failed", zap.Error(err))

	if l.fatal == nil {
		return err
	}
	return l.fatal(err)
}

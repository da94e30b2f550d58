// SPDX-License-Identifier: EPL-2.0

package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxWorkers matches the default size of a libuv thread pool.
const DefaultMaxWorkers = 4

// Dispatcher runs blocking work off the loop goroutine and posts the
// completions back to its Loop.
type Dispatcher struct {
	loop    *Loop
	sem     *semaphore.Weighted
	metrics *Metrics
	logger  *zap.Logger

	seq    atomic.Uint64
	closed atomic.Bool
	wg     sync.WaitGroup
}

type Option func(*Dispatcher)

// WithMaxWorkers bounds how many work functions run at once. n <= 0 removes
// the bound.
func WithMaxWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n <= 0 {
			d.sem = nil
			return
		}
		d.sem = semaphore.NewWeighted(int64(n))
	}
}

func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

func New(loop *Loop, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		loop:    loop,
		sem:     semaphore.NewWeighted(DefaultMaxWorkers),
		metrics: DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if loop.metrics == nil {
		loop.metrics = d.metrics
	}
	return d
}

func (d *Dispatcher) Loop() *Loop { return d.loop }

// Close stops accepting new requests. Requests already submitted still run
// and are delivered.
func (d *Dispatcher) Close() {
	d.closed.Store(true)
}

// Wait blocks until every submitted work function has returned. It does not
// wait for delivery, which needs the loop to run.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) log() *zap.Logger {
	if d.logger != nil {
		return d.logger
	}
	return Logger()
}

func (d *Dispatcher) acquire() {
	if d.sem != nil {
		// Background never cancels, so Acquire only returns once a slot is free.
		_ = d.sem.Acquire(context.Background(), 1)
	}
}

func (d *Dispatcher) release() {
	if d.sem != nil {
		d.sem.Release(1)
	}
}

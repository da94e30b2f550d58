// SPDX-License-Identifier: EPL-2.0

package dispatch

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ik5/mp3bridge/dispatch"

// Metrics holds the dispatcher instruments. A nil *Metrics records nothing.
type Metrics struct {
	// Submitted counts accepted submissions. Attribute: op.
	Submitted metric.Int64Counter

	// Completed counts delivered requests. Attributes: op, status (ok|panic).
	Completed metric.Int64Counter

	// Inflight tracks requests between submit and delivery.
	Inflight metric.Int64UpDownCounter

	// WorkDuration is the time spent inside work on the worker goroutine.
	WorkDuration metric.Float64Histogram

	// Fatal counts continuation failures escalated by the loop.
	Fatal metric.Int64Counter
}

// workBuckets are in seconds; codec calls on one chunk sit in the
// sub-millisecond to tens of milliseconds range.
var workBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5,
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Submitted, err = m.Int64Counter("mp3bridge.dispatch.submitted",
		metric.WithDescription("Requests accepted by the dispatcher."),
	); err != nil {
		return nil, err
	}
	if met.Completed, err = m.Int64Counter("mp3bridge.dispatch.completed",
		metric.WithDescription("Requests delivered back to the loop by op and status."),
	); err != nil {
		return nil, err
	}
	if met.Inflight, err = m.Int64UpDownCounter("mp3bridge.dispatch.inflight",
		metric.WithDescription("Requests submitted but not yet delivered."),
	); err != nil {
		return nil, err
	}
	if met.WorkDuration, err = m.Float64Histogram("mp3bridge.dispatch.work.duration",
		metric.WithDescription("Time spent in blocking work."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(workBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Fatal, err = m.Int64Counter("mp3bridge.dispatch.fatal",
		metric.WithDescription("Continuation failures escalated to the fatal handler."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments created on the global MeterProvider.
// Panics if instrument creation fails, which the global provider never does.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("dispatch: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func (m *Metrics) submitted(op string) {
	if m == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("op", op))
	m.Submitted.Add(ctx, 1, attrs)
	m.Inflight.Add(ctx, 1)
}

func (m *Metrics) worked(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.WorkDuration.Record(context.Background(), d.Seconds(),
		metric.WithAttributes(attribute.String("op", op)))
}

func (m *Metrics) delivered(op string, failed bool) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "panic"
	}
	ctx := context.Background()
	m.Completed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("status", status),
	))
	m.Inflight.Add(ctx, -1)
}

func (m *Metrics) fatal() {
	if m == nil {
		return
	}
	m.Fatal.Add(context.Background(), 1)
}

// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/errs"
)

func TestRuntime(t *testing.T) {
	t.Parallel()

	rt := Start(context.Background(), dispatch.WithMetrics(nil), dispatch.WithMaxWorkers(2))

	f, err := dispatch.Go(rt.Dispatcher(), "add", func() int { return 2 + 2 })
	if err != nil {
		t.Fatal(err)
	}
	if v, err := f.Await(context.Background()); v != 4 || err != nil {
		t.Errorf("Await() = %d, %v", v, err)
	}

	if err := rt.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}
	if _, err := dispatch.Go(rt.Dispatcher(), "late", func() int { return 0 }); !errors.Is(err, errs.Closed) {
		t.Errorf("submit after Stop = %v", err)
	}
}

func TestRuntimeParentCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	rt := Start(ctx)
	cancel()

	if err := rt.Stop(); err != nil {
		t.Errorf("Stop() after parent cancel = %v", err)
	}
}

func TestRuntimeStopDeliversPending(t *testing.T) {
	t.Parallel()

	rt := Start(context.Background(), dispatch.WithMetrics(nil))

	futures := make([]*dispatch.Future[int], 200)
	for i := range futures {
		f, err := dispatch.Go(rt.Dispatcher(), "sleep", func() int {
			time.Sleep(time.Millisecond)
			return i
		})
		if err != nil {
			t.Fatal(err)
		}
		futures[i] = f
	}

	if err := rt.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}

	for i, f := range futures {
		select {
		case <-f.Done():
		default:
			t.Fatalf("future %d not delivered after Stop", i)
		}
		if v, err := f.Result(); v != i || err != nil {
			t.Errorf("future %d = %d, %v", i, v, err)
		}
	}
}

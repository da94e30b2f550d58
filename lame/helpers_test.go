// SPDX-License-Identifier: EPL-2.0

package lame

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/ik5/mp3bridge/buffer"
	"github.com/ik5/mp3bridge/dispatch"
)

// fakeBackend writes frameBytes of 0xAB per encoded frame and keeps the
// PCM it was given.
type fakeBackend struct {
	frameBytes int
	fail       bool
	gate       chan struct{} // Encode blocks until it is closed
	engine     *fakeEngine
}

func (b *fakeBackend) Open(cfg EngineConfig) (Engine, error) {
	if b.fail {
		return nil, io.ErrClosedPipe
	}
	b.engine = &fakeEngine{cfg: cfg, frameBytes: b.frameBytes, gate: b.gate}
	return b.engine, nil
}

type fakeEngine struct {
	cfg        EngineConfig
	frameBytes int
	gate       chan struct{}
	pcm        []int16
	calls      int
}

func (e *fakeEngine) Encode(w io.Writer, pcm []int16) error {
	spf := 576
	if e.cfg.SampleRate >= 32000 {
		spf = 1152
	}
	if e.gate != nil {
		<-e.gate
	}
	frames := len(pcm) / (spf * e.cfg.Channels)
	e.pcm = append(e.pcm, pcm...)
	e.calls++
	_, err := w.Write(bytes.Repeat([]byte{0xAB}, frames*e.frameBytes))
	return err
}

// serve runs a loop in the background for the life of the test.
func serve(t *testing.T) *dispatch.Dispatcher {
	t.Helper()

	loop := dispatch.NewLoop()
	d := dispatch.New(loop, dispatch.WithMetrics(nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return d
}

func await[R any](t *testing.T, f *dispatch.Future[R], err error) R {
	t.Helper()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	v, err := f.Await(ctx)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	return v
}

// newFake returns an initialized handle on a fake backend.
func newFake(t *testing.T, frameBytes int, params map[string]float64) (*Handle, *fakeBackend) {
	t.Helper()

	b := &fakeBackend{frameBytes: frameBytes}
	h := InitWith(b)
	for name, v := range params {
		if code, err := h.Set(name, v); err != nil || code != 0 {
			t.Fatalf("Set(%s, %v) = %d, %v", name, v, code, err)
		}
	}
	if code, err := h.InitParams(); err != nil || code != 0 {
		t.Fatalf("InitParams() = %d, %v", code, err)
	}
	t.Cleanup(func() { _ = h.Close() })

	return h, b
}

func s16(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	buffer.PutInt16(out, samples)
	return out
}

func silence(frames, channels int) []byte {
	return make([]byte, frames*channels*2)
}

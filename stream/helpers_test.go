// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/ik5/mp3bridge/lame"
)

// recorder is a backend writing frameBytes per MPEG frame and keeping the
// PCM it was handed.
type recorder struct {
	frameBytes int
	pcm        []int16
}

func (r *recorder) Open(cfg lame.EngineConfig) (lame.Engine, error) {
	spf := 576
	if cfg.SampleRate >= 32000 {
		spf = 1152
	}
	return engineFunc(func(w io.Writer, pcm []int16) error {
		r.pcm = append(r.pcm, pcm...)
		frames := len(pcm) / (spf * cfg.Channels)
		_, err := w.Write(bytes.Repeat([]byte{0x55}, frames*r.frameBytes))
		return err
	}), nil
}

type engineFunc func(io.Writer, []int16) error

func (f engineFunc) Encode(w io.Writer, pcm []int16) error { return f(w, pcm) }

func start(t *testing.T) *Runtime {
	t.Helper()

	rt := Start(context.Background())
	t.Cleanup(func() {
		if err := rt.Stop(); err != nil {
			t.Errorf("Stop() = %v", err)
		}
	})
	return rt
}

// writeIn writes b to w in pieces of n bytes.
func writeIn(t *testing.T, w io.Writer, b []byte, n int) {
	t.Helper()

	for off := 0; off < len(b); off += n {
		if _, err := w.Write(b[off:min(off+n, len(b))]); err != nil {
			t.Fatalf("Write at %d: %v", off, err)
		}
	}
}

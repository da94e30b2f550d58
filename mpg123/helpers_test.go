// SPDX-License-Identifier: EPL-2.0

package mpg123

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/lame"
	"github.com/ik5/mp3bridge/mpeg"
)

// encodeMP3 returns frames MPEG frames of a 440 Hz stereo tone at rate.
func encodeMP3(t *testing.T, rate, frames int) []byte {
	t.Helper()

	eng, err := lame.Shine{}.Open(lame.EngineConfig{SampleRate: rate, Channels: 2, Bitrate: 128})
	if err != nil {
		t.Fatal(err)
	}

	pcm := make([]int16, frames*1152*2)
	for i := range len(pcm) / 2 {
		s := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		pcm[2*i], pcm[2*i+1] = s, s
	}

	var out bytes.Buffer
	if err := eng.Encode(&out, pcm); err != nil {
		t.Fatal(err)
	}
	if err := eng.(lame.Flusher).Flush(&out); err != nil {
		t.Fatal(err)
	}
	return out.Bytes()
}

// countFrames parses an MPEG stream and returns its frame count.
func countFrames(t *testing.T, b []byte) int {
	t.Helper()

	stats, err := mpeg.NewParser(bytes.NewReader(b), nil).Parse()
	if err != nil {
		t.Fatal(err)
	}
	return stats.Frames
}

// readAll reads until NeedMore and returns the PCM byte count and the
// rates announced with NewFormat.
func readAll(t *testing.T, d *decoder, chunk int) (total int, rates []int) {
	t.Helper()

	out := make([]byte, chunk)
	for range 100000 {
		code, n, nf := d.read(out)
		total += n
		switch code {
		case NewFormat:
			if !nf || n != 0 {
				t.Fatalf("NewFormat with flag %v and %d bytes", nf, n)
			}
			rates = append(rates, d.format.Rate)
		case OK:
		case NeedMore:
			return total, rates
		default:
			t.Fatalf("read = %d (%s)", code, PlainStrerror(code))
		}
	}
	t.Fatal("read never asked for more input")
	return 0, nil
}

func openDecoder(t *testing.T) *decoder {
	t.Helper()

	d := newDecoder(DefaultDecoder)
	if code := d.openFeed(); code != OK {
		t.Fatal(code)
	}
	return d
}

func newHandle(t *testing.T) *Handle {
	t.Helper()

	Init()
	h, code := New("")
	if code != OK {
		t.Fatalf("New() code = %d", code)
	}
	if code, err := h.OpenFeed(); code != OK || err != nil {
		t.Fatalf("OpenFeed() = %d, %v", code, err)
	}
	t.Cleanup(func() { _ = h.Delete() })

	return h
}

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

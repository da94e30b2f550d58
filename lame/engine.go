// SPDX-License-Identifier: EPL-2.0

package lame

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/braheezy/shine-mp3/pkg/mp3"
	"github.com/ik5/mp3bridge/mpeg"
)

// EngineConfig is the output format fixed by InitParams.
type EngineConfig struct {
	SampleRate int
	Channels   int
	Bitrate    int // kbps
}

// Engine compresses PCM into MP3 frames.
type Engine interface {
	// Encode takes a whole number of frames of interleaved PCM in the
	// configured layout and writes the MP3 bytes to w.
	Encode(w io.Writer, pcm []int16) error
}

// Flusher is implemented by engines that hold back part of the last frame.
// Flush writes it out and starts a new stream.
type Flusher interface {
	Flush(w io.Writer) error
}

// Backend opens an Engine for a handle once its parameters are frozen.
type Backend interface {
	Open(cfg EngineConfig) (Engine, error)
}

// Shine is the default backend. It always runs the encoder in stereo and
// writes mono input as two identical channels, since the mono path of the
// shine encoder produces broken frames.
type Shine struct{}

func (Shine) Open(cfg EngineConfig) (Engine, error) {
	if !outputRate(cfg.SampleRate) {
		return nil, fmt.Errorf("lame: shine cannot encode at %d Hz", cfg.SampleRate)
	}
	if cfg.Channels != 1 && cfg.Channels != 2 {
		return nil, fmt.Errorf("lame: shine cannot encode %d channels", cfg.Channels)
	}

	e := &shineEngine{cfg: cfg, frameSize: 576}
	if cfg.SampleRate >= 32000 {
		e.frameSize = 1152
	}
	if err := e.open(); err != nil {
		return nil, err
	}
	return e, nil
}

type shineEngine struct {
	cfg       EngineConfig
	frameSize int
	enc       *mp3.Encoder
	track     frameTracker

	// buf is the stereo PCM handed to shine. Shine steps its read pointers
	// one sample past the data, so buf always has a frame of spare room.
	buf []int16
}

// open starts a fresh shine encoder at the configured bitrate. Shine's
// constructor fixes 128 kbps, so the slot fields derived from it are
// computed again.
func (e *shineEngine) open() error {
	ver := mpeg.Version2
	if e.cfg.SampleRate >= 32000 {
		ver = mpeg.Version1
	}
	i := slices.Index(mpeg.Bitrates(ver, mpeg.Layer3), e.cfg.Bitrate)
	if i < 0 {
		return fmt.Errorf("lame: shine cannot encode %d kbps at %d Hz", e.cfg.Bitrate, e.cfg.SampleRate)
	}

	enc := mp3.NewEncoder(e.cfg.SampleRate, 2)
	m := &enc.Mpeg
	m.Bitrate = int64(e.cfg.Bitrate)
	m.BitrateIndex = int64(i + 1)

	slots := float64(m.GranulesPerFrame*mp3.GRANULE_SIZE) / float64(e.cfg.SampleRate) *
		float64(e.cfg.Bitrate*1000) / float64(m.BitsPerSlot)
	m.WholeSlotsPerFrame = int64(slots)
	m.FracSlotsPerFrame = slots - float64(m.WholeSlotsPerFrame)
	m.Slot_lag = -m.FracSlotsPerFrame
	m.Padding = 0

	e.enc = enc
	e.track = frameTracker{}
	return nil
}

// stage copies pcm into buf as stereo and returns the filled part.
func (e *shineEngine) stage(pcm []int16) []int16 {
	n := len(pcm)
	if e.cfg.Channels == 1 {
		n *= 2
	}
	spare := 2 * e.frameSize
	e.buf = slices.Grow(e.buf[:0], n+spare)[:n]
	clear(e.buf[n : n+spare])

	if e.cfg.Channels == 1 {
		for i, s := range pcm {
			e.buf[2*i], e.buf[2*i+1] = s, s
		}
	} else {
		copy(e.buf, pcm)
	}
	return e.buf
}

func (e *shineEngine) Encode(w io.Writer, pcm []int16) error {
	tw := trackingWriter{w: w, t: &e.track}
	if err := e.enc.Write(tw, e.stage(pcm)); err != nil {
		return fmt.Errorf("lame: shine encode: %w", err)
	}
	return nil
}

// Flush completes the last frame. Shine keeps up to three bytes of it in
// its bit cache until the next frame is coded, so one frame of silence is
// coded into a scratch buffer and only those bytes are kept. The encoder
// is then replaced, leaving nothing cached for the next stream.
func (e *shineEngine) Flush(w io.Writer) error {
	left := e.track.left
	if left == 0 || e.track.lost {
		return nil
	}

	var scratch bytes.Buffer
	if err := e.enc.Write(&scratch, e.stage(make([]int16, e.frameSize*e.cfg.Channels))); err != nil {
		return fmt.Errorf("lame: shine flush: %w", err)
	}
	tail := make([]byte, left)
	copy(tail, scratch.Bytes())
	if _, err := w.Write(tail); err != nil {
		return err
	}

	return e.open()
}

// frameTracker follows MPEG frame boundaries through a byte stream, so
// the bytes still owed to the current frame are known.
type frameTracker struct {
	hdr  [mpeg.HeaderSize]byte
	nh   int
	left int
	lost bool
}

func (t *frameTracker) observe(p []byte) {
	for len(p) > 0 && !t.lost {
		if t.left > 0 {
			k := min(t.left, len(p))
			t.left -= k
			p = p[k:]
			continue
		}

		k := copy(t.hdr[t.nh:], p)
		t.nh += k
		p = p[k:]
		if t.nh < len(t.hdr) {
			return
		}
		t.nh = 0

		h, err := mpeg.ParseHeader(t.hdr[:])
		if err != nil || h.FrameSize() < len(t.hdr) {
			t.lost = true
			return
		}
		t.left = h.FrameSize() - len(t.hdr)
	}
}

type trackingWriter struct {
	w io.Writer
	t *frameTracker
}

func (tw trackingWriter) Write(p []byte) (int, error) {
	n, err := tw.w.Write(p)
	tw.t.observe(p[:n])
	return n, err
}

// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/ik5/mp3bridge/buffer"
	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/lame"
	"go.uber.org/zap"
)

// maxBlock caps the frames handed to one encode call.
const maxBlock = 1 << 14

// drainRetries bounds how often a -1 result is retried with a doubled
// output buffer.
const drainRetries = 8

// EncoderConfig describes the PCM written to an Encoder.
type EncoderConfig struct {
	SampleRate int
	Channels   int
	Format     buffer.SampleFormat

	// Params are extra encoder parameters by name, applied in name order.
	Params map[string]float64
	// Setup, when set, runs after Params and before the parameters are
	// frozen.
	Setup func(*lame.Handle) error

	// Tag is written as ID3v2 before the audio and ID3v1 after it.
	Tag *lame.Tag

	Backend lame.Backend // nil means lame.Shine
}

// Encoder is an io.WriteCloser that turns PCM into MP3. Writes may end in
// the middle of a sample frame; the rest is kept for the next Write.
type Encoder struct {
	ctx context.Context
	d   *dispatch.Dispatcher
	h   *lame.Handle
	w   io.Writer
	cfg EncoderConfig

	align  int // bytes per sample frame
	rem    []byte
	out    []byte
	closed bool
}

// NewEncoder configures an encoder handle and writes the ID3v2 tag when
// one is set. ctx bounds every wait on the dispatcher.
func NewEncoder(ctx context.Context, d *dispatch.Dispatcher, w io.Writer, cfg EncoderConfig) (*Encoder, error) {
	if !cfg.Format.Valid() {
		return nil, fmt.Errorf("stream: unknown sample format %d", int(cfg.Format))
	}
	if cfg.Channels != 1 && cfg.Channels != 2 {
		return nil, fmt.Errorf("stream: %d channels, want 1 or 2", cfg.Channels)
	}

	var h *lame.Handle
	if cfg.Backend != nil {
		h = lame.InitWith(cfg.Backend)
	} else {
		h = lame.Init()
	}

	e := &Encoder{
		ctx:   ctx,
		d:     d,
		h:     h,
		w:     w,
		cfg:   cfg,
		align: cfg.Channels * cfg.Format.Size(),
	}
	if err := e.setup(); err != nil {
		_ = h.Close()
		return nil, err
	}
	return e, nil
}

func (e *Encoder) setup() error {
	for _, p := range []struct {
		name string
		v    int
	}{
		{"in_samplerate", e.cfg.SampleRate},
		{"num_channels", e.cfg.Channels},
	} {
		if code, err := e.h.SetInt(p.name, p.v); err != nil {
			return err
		} else if code != 0 {
			return fmt.Errorf("stream: %s = %d rejected", p.name, p.v)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(e.cfg.Params)) {
		v := e.cfg.Params[name]
		if code, err := e.h.Set(name, v); err != nil {
			return err
		} else if code != 0 {
			return fmt.Errorf("stream: %s = %v rejected", name, v)
		}
	}

	if e.cfg.Setup != nil {
		if err := e.cfg.Setup(e.h); err != nil {
			return err
		}
	}

	if code, err := e.h.InitParams(); err != nil {
		return err
	} else if code != 0 {
		return ErrInitParams
	}

	if e.cfg.Tag == nil {
		return nil
	}
	if err := e.h.SetTag(*e.cfg.Tag); err != nil {
		return err
	}
	return e.writeTag(e.h.GetID3v2Tag)
}

// Handle exposes the encoder, for reading parameters.
func (e *Encoder) Handle() *lame.Handle { return e.h }

func (e *Encoder) Write(p []byte) (int, error) {
	if e.closed {
		return 0, ErrClosed
	}
	n := len(p)

	if len(e.rem) > 0 {
		need := e.align - len(e.rem)
		if len(p) < need {
			e.rem = append(e.rem, p...)
			return n, nil
		}
		e.rem = append(e.rem, p[:need]...)
		if err := e.encode(e.rem, 1); err != nil {
			return 0, err
		}
		e.rem = e.rem[:0]
		p = p[need:]
	}

	for len(p) >= e.align {
		frames := min(len(p)/e.align, maxBlock)
		if err := e.encode(p[:frames*e.align], frames); err != nil {
			return n - len(p), err
		}
		p = p[frames*e.align:]
	}
	e.rem = append(e.rem, p...)

	return n, nil
}

// Close flushes the encoder, writes the ID3v1 tag and releases the handle.
// A trailing partial sample frame is dropped.
func (e *Encoder) Close() error {
	if e.closed {
		return ErrClosed
	}
	e.closed = true

	err := e.flush()
	if err == nil && e.cfg.Tag != nil {
		err = e.writeTag(e.h.GetID3v1Tag)
	}
	if cerr := e.h.Close(); err == nil {
		err = cerr
	}
	return err
}

func (e *Encoder) encode(pcm []byte, frames int) error {
	const op = "encode"

	code, err := e.call(lame.EstimateOutput(frames), func(out buffer.View) (*dispatch.Future[int], error) {
		return lame.EncodeBufferInterleaved(e.d, e.h, buffer.Whole(pcm), e.cfg.Format, frames, out)
	})
	if err != nil {
		return err
	}
	return e.emit(op, code)
}

func (e *Encoder) flush() error {
	code, err := e.call(lame.FlushSize, func(out buffer.View) (*dispatch.Future[int], error) {
		return lame.EncodeFlushNogap(e.d, e.h, out)
	})
	if err != nil {
		return err
	}
	return e.emit("flush", code)
}

// call runs one encoder call with an output buffer of size bytes. When the
// output does not fit, the kept output is drained into a larger buffer.
func (e *Encoder) call(size int, submit func(buffer.View) (*dispatch.Future[int], error)) (int, error) {
	code, err := e.await(size, submit)
	for retry := 0; err == nil && code == lame.CodeBufferTooSmall; retry++ {
		if retry == drainRetries {
			return 0, ErrNoProgress
		}
		size *= 2
		Logger().Debug("output buffer too small, draining", zap.Int("size", size))
		code, err = e.await(size, func(out buffer.View) (*dispatch.Future[int], error) {
			return lame.EncodeBufferInterleaved(e.d, e.h, buffer.View{}, e.cfg.Format, 0, out)
		})
	}
	return code, err
}

func (e *Encoder) await(size int, submit func(buffer.View) (*dispatch.Future[int], error)) (int, error) {
	if cap(e.out) < size {
		e.out = make([]byte, size)
	}
	e.out = e.out[:size]

	f, err := submit(buffer.Whole(e.out))
	if err != nil {
		return 0, err
	}
	return f.Await(e.ctx)
}

func (e *Encoder) emit(op string, code int) error {
	if err := lame.CheckCode(op, code); err != nil {
		return err
	}
	if code == 0 {
		return nil
	}
	if _, err := e.w.Write(e.out[:code]); err != nil {
		return fmt.Errorf("stream: writing mp3: %w", err)
	}
	return nil
}

func (e *Encoder) writeTag(get func([]byte) (int, error)) error {
	n, err := get(nil)
	if err != nil || n == 0 {
		return err
	}
	buf := make([]byte, n)
	if _, err := get(buf); err != nil {
		return err
	}
	if _, err := e.w.Write(buf); err != nil {
		return fmt.Errorf("stream: writing tag: %w", err)
	}
	return nil
}

// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/ik5/mp3bridge/buffer"
	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/mpg123"
	"go.uber.org/zap"
)

// DefaultChunkSize is the PCM buffer size of a Decoder.
const DefaultChunkSize = 32 * 1024

type DecoderConfig struct {
	Decoder   string // "" picks mpg123.DefaultDecoder
	ChunkSize int    // 0 means DefaultChunkSize

	// OnFormat runs whenever the stream announces a new output format,
	// before any PCM of that format is written.
	OnFormat func(mpg123.Format)
}

// Decoder is an io.WriteCloser taking MP3 bytes and writing signed 16 bit
// stereo PCM to the underlying writer.
type Decoder struct {
	ctx context.Context
	d   *dispatch.Dispatcher
	h   *mpg123.Handle
	w   io.Writer
	cfg DecoderConfig

	out    []byte
	format mpg123.Format
	closed bool
}

func NewDecoder(ctx context.Context, d *dispatch.Dispatcher, w io.Writer, cfg DecoderConfig) (*Decoder, error) {
	if code := mpg123.Init(); code != mpg123.OK {
		return nil, &mpg123.CodeError{Op: "init", Code: code}
	}
	h, code := mpg123.New(cfg.Decoder)
	if h == nil {
		return nil, &mpg123.CodeError{Op: "new", Code: code}
	}
	if code, err := h.OpenFeed(); err != nil || code != mpg123.OK {
		_ = h.Delete()
		if err == nil {
			err = &mpg123.CodeError{Op: "open_feed", Code: code}
		}
		return nil, err
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	return &Decoder{
		ctx: ctx,
		d:   d,
		h:   h,
		w:   w,
		cfg: cfg,
		out: make([]byte, size),
	}, nil
}

// Format is the current output format, zero until the first frame.
func (dec *Decoder) Format() mpg123.Format { return dec.format }

// Handle exposes the decoder, for tags and statistics.
func (dec *Decoder) Handle() *mpg123.Handle { return dec.h }

// Write feeds p and writes out everything that can be decoded so far.
func (dec *Decoder) Write(p []byte) (int, error) {
	if dec.closed {
		return 0, ErrClosed
	}

	in := buffer.Whole(p)
	for {
		f, err := mpg123.Decode(dec.d, dec.h, in, buffer.Whole(dec.out))
		if err != nil {
			return 0, err
		}
		res, err := f.Await(dec.ctx)
		if err != nil {
			return 0, err
		}
		// p is fed once, later rounds only read
		in = buffer.View{}

		if res.Size > 0 {
			if _, err := dec.w.Write(dec.out[:res.Size]); err != nil {
				return len(p), fmt.Errorf("stream: writing pcm: %w", err)
			}
		}

		switch res.Code {
		case mpg123.NewFormat:
			if err := dec.newFormat(); err != nil {
				return len(p), err
			}
		case mpg123.OK:
		case mpg123.NeedMore, mpg123.Done:
			return len(p), nil
		default:
			return len(p), &mpg123.CodeError{Op: "decode", Code: res.Code}
		}
	}
}

func (dec *Decoder) newFormat() error {
	f, code, err := dec.h.GetFormat()
	if err != nil {
		return err
	}
	if code != mpg123.OK {
		return &mpg123.CodeError{Op: "getformat", Code: code}
	}

	dec.format = f
	Logger().Debug("decoder format", zap.Int("rate", f.Rate), zap.Int("channels", f.Channels))
	if dec.cfg.OnFormat != nil {
		dec.cfg.OnFormat(f)
	}
	return nil
}

// Close releases the decoder handle.
func (dec *Decoder) Close() error {
	if dec.closed {
		return ErrClosed
	}
	dec.closed = true
	return dec.h.Delete()
}

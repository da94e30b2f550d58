// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	"encoding/binary"
	"errors"
	"fmt"

	goaudio "github.com/go-audio/audio"
)

// BitDepth is the sample size a Writer takes and writes.
const BitDepth = 16

// maxChunk bounds the samples converted per encoder write.
const maxChunk = 8192

var (
	ErrLayout        = errors.New("invalid layout")
	ErrNoFormat      = errors.New("format not set")
	ErrFormatChanged = errors.New("format changed after samples were written")
	ErrWriterClosed  = errors.New("writer closed")
)

// Encoder is the writing side of wav.Encoder and aiff.Encoder.
type Encoder interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// Writer turns interleaved signed 16 bit little endian PCM into calls on
// an Encoder. The format may be set late, as long as it is set before the
// first sample, which suits decoders that learn it from the stream.
type Writer struct {
	open     func(rate, channels int) Encoder
	enc      Encoder
	rate     int
	channels int
	wrote    bool
	closed   bool

	rem []byte
	buf goaudio.IntBuffer
}

// NewWriter returns a Writer that calls open once the format is known.
func NewWriter(open func(rate, channels int) Encoder) *Writer {
	return &Writer{open: open}
}

// Format returns the layout, zero until SetFormat.
func (w *Writer) Format() (rate, channels int) { return w.rate, w.channels }

// SetFormat fixes the layout. Setting the same layout again is a no-op;
// changing it after samples were written is an error.
func (w *Writer) SetFormat(rate, channels int) error {
	switch {
	case w.closed:
		return ErrWriterClosed
	case rate <= 0 || channels <= 0:
		return fmt.Errorf("%w: %d Hz, %d channels", ErrLayout, rate, channels)
	case w.enc != nil && rate == w.rate && channels == w.channels:
		return nil
	case w.wrote:
		return ErrFormatChanged
	}

	w.rate, w.channels = rate, channels
	w.enc = w.open(rate, channels)
	w.buf.Format = &goaudio.Format{NumChannels: channels, SampleRate: rate}
	w.buf.SourceBitDepth = BitDepth
	return nil
}

// Write takes any number of bytes; a partial frame waits for the next
// call.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	if w.enc == nil {
		return 0, ErrNoFormat
	}

	data := p
	if len(w.rem) > 0 {
		data = append(w.rem, p...)
		w.rem = nil
	}

	frame := 2 * w.channels
	whole := len(data) / frame * frame
	if whole < len(data) {
		w.rem = append([]byte(nil), data[whole:]...)
	}

	for off := 0; off < whole; {
		n := min((whole-off)/2, maxChunk/w.channels*w.channels)
		if err := w.writeSamples(data[off : off+2*n]); err != nil {
			return 0, err
		}
		off += 2 * n
	}
	return len(p), nil
}

func (w *Writer) writeSamples(b []byte) error {
	n := len(b) / 2
	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]
	for i := range n {
		w.buf.Data[i] = int(int16(binary.LittleEndian.Uint16(b[2*i:])))
	}

	w.wrote = true
	if err := w.enc.Write(&w.buf); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return nil
}

// Close finishes the file through the Encoder. A Writer that never learned
// its format has nothing to finish and reports ErrNoFormat.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true

	if w.enc == nil {
		return ErrNoFormat
	}
	if !w.wrote {
		// the encoders write their header with the first buffer
		w.buf.Data = w.buf.Data[:0]
		if err := w.enc.Write(&w.buf); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// PutS16 lays samples out as little endian bytes, the input of Write.
func PutS16(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

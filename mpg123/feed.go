// SPDX-License-Identifier: EPL-2.0

package mpg123

import (
	"bytes"
	"errors"
	"fmt"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/mp3bridge/mpeg"
	"go.uber.org/zap"
)

// Output is always two channels of 16 bit samples.
const (
	outChannels    = 2
	bytesPerSample = 2 * outChannels
	maxFramePCM    = 1152 * bytesPerSample
)

// Format is the negotiated output format.
type Format struct {
	Rate     int
	Channels int
	Encoding int
}

// decoder is the feed engine behind a Handle. Only the goroutine holding
// the session touches it.
type decoder struct {
	name string
	open bool

	scan   mpeg.Scanner
	held   *mpeg.Token // a frame waiting behind a format change
	format Format

	// backend reads whole frames from src, one per call.
	backend *gomp3.Decoder
	src     bytes.Buffer
	scratch []byte
	pcm     bytes.Buffer

	v1, v2  []byte
	frames  int
	dropped int
}

func newDecoder(name string) *decoder {
	return &decoder{name: name}
}

// openFeed starts a new stream, dropping whatever the last one left.
func (d *decoder) openFeed() int {
	d.reset()
	d.open = true
	return OK
}

func (d *decoder) reset() {
	d.scan.Reset()
	d.held = nil
	d.format = Format{}
	d.backend = nil
	d.src.Reset()
	d.pcm.Reset()
	d.v1, d.v2 = nil, nil
	d.frames, d.dropped = 0, 0
}

func (d *decoder) close() {
	d.reset()
	d.open = false
}

func (d *decoder) feed(in []byte) int {
	if !d.open {
		return ERR
	}
	_, _ = d.scan.Write(in)
	return OK
}

// read fills out with decoded PCM. It stops with NewFormat and no output
// before the first frame of a new format, and with NeedMore once the fed
// input runs out.
func (d *decoder) read(out []byte) (code, n int, newFormat bool) {
	if !d.open {
		return ERR, 0, false
	}

	for {
		if d.pcm.Len() > 0 {
			c, _ := d.pcm.Read(out[n:])
			n += c
		}
		if n == len(out) {
			return OK, n, false
		}

		tok, ok := d.next()
		if !ok {
			return NeedMore, n, false
		}

		if tok.Header.SampleRate != d.format.Rate {
			d.held = &tok
			if n > 0 {
				return OK, n, false
			}
			d.setFormat(tok.Header)
			return NewFormat, 0, true
		}

		if err := d.decodeFrame(tok); err != nil {
			Logger().Warn("frame dropped",
				zap.String("decoder", d.name),
				zap.Int64("offset", tok.Offset),
				zap.Error(err),
			)
			return ERR, n, false
		}
	}
}

// decode feeds in and reads into out in one step.
func (d *decoder) decode(in, out []byte) (code, n int, newFormat bool) {
	if code := d.feed(in); code != OK {
		return code, 0, false
	}
	return d.read(out)
}

// next returns the next frame the backend can decode, collecting tags on
// the way.
func (d *decoder) next() (mpeg.Token, bool) {
	if d.held != nil {
		tok := *d.held
		d.held = nil
		return tok, true
	}

	for {
		tok, ok := d.scan.Next()
		if !ok {
			return mpeg.Token{}, false
		}

		switch {
		case tok.Kind == mpeg.TokenID3v2:
			d.v2 = tok.Data
		case tok.Kind == mpeg.TokenID3v1:
			d.v1 = tok.Data
		case tok.Header.Layer != mpeg.Layer3 || tok.Header.Version == mpeg.Version25:
			d.dropped++
			Logger().Debug("unsupported frame skipped", zap.Stringer("header", tok.Header))
		default:
			return tok, true
		}
	}
}

func (d *decoder) setFormat(h mpeg.Header) {
	d.format = Format{Rate: h.SampleRate, Channels: outChannels, Encoding: EncSigned16}
	// The bit reservoir does not carry over a format change.
	d.backend = nil
	d.src.Reset()
	Logger().Debug("new format", zap.String("decoder", d.name), zap.Stringer("header", h))
}

func (d *decoder) decodeFrame(tok mpeg.Token) (err error) {
	defer func() {
		if err != nil {
			d.backend = nil
			d.src.Reset()
		}
	}()

	d.src.Write(tok.Data[:backendFrameSize(tok.Header, len(tok.Data))])

	if d.backend == nil {
		dec, err := gomp3.NewDecoder(&d.src)
		if err != nil {
			return fmt.Errorf("mpg123: starting backend: %w", err)
		}
		d.backend = dec
	}

	if d.scratch == nil {
		d.scratch = make([]byte, maxFramePCM)
	}
	n, err := d.backend.Read(d.scratch)
	if err != nil {
		return fmt.Errorf("mpg123: decoding frame: %w", err)
	}
	if d.src.Len() != 0 {
		return errors.New("mpg123: backend left part of a frame unread")
	}

	d.pcm.Write(d.scratch[:n])
	d.frames++

	return nil
}

// backendFrameSize is the frame length the backend reads for h. It can be
// one byte short of the real length on padded low rate frames, and the
// backend would take that byte as the start of the next frame.
func backendFrameSize(h mpeg.Header, have int) int {
	pad := 0
	if h.Padding {
		pad = 1
	}
	size := 144*h.Bitrate*1000/h.SampleRate + pad
	if h.Version != mpeg.Version1 {
		size >>= 1
	}
	return min(size, have)
}

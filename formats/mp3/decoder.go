// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/mpg123"
	"github.com/ik5/mp3bridge/stream"
)

var (
	ErrNoFrames      = errors.New("mp3: no decodable frames")
	ErrFormatChanged = errors.New("mp3: output format changed mid stream")
)

// readSize is how much input is fed per round.
const readSize = 16 * 1024

// Decoder opens MP3 streams through the mpg123 feed decoder. Every call
// waits on the dispatcher, so its loop must be served elsewhere.
type Decoder struct {
	ctx context.Context
	d   *dispatch.Dispatcher
	cfg stream.DecoderConfig
}

func NewDecoder(ctx context.Context, d *dispatch.Dispatcher, cfg stream.DecoderConfig) *Decoder {
	return &Decoder{ctx: ctx, d: d, cfg: cfg}
}

// Decode feeds r until the first PCM is out, so the Source knows its
// layout, and picks up any ID3v2 tag met on the way.
func (dec *Decoder) Decode(r io.Reader) (audio.Source, error) {
	s := &source{r: r, in: make([]byte, readSize), cut: -1}

	cfg := dec.cfg
	cfg.OnFormat = s.onFormat
	sd, err := stream.NewDecoder(dec.ctx, dec.d, &s.pcm, cfg)
	if err != nil {
		return nil, err
	}
	s.dec = sd

	for s.pcm.Len() == 0 && !s.eof {
		if err := s.fill(); err != nil {
			_ = sd.Close()
			return nil, err
		}
	}
	if s.format.Rate == 0 {
		_ = sd.Close()
		return nil, ErrNoFrames
	}

	s.tags, err = readTags(dec.ctx, dec.d, sd.Handle())
	if err != nil {
		_ = sd.Close()
		return nil, err
	}
	return s, nil
}

func readTags(ctx context.Context, d *dispatch.Dispatcher, h *mpg123.Handle) (audio.Tags, error) {
	f, err := mpg123.ID3(d, h)
	if err != nil {
		return audio.Tags{}, err
	}
	res, err := f.Await(ctx)
	if err != nil {
		return audio.Tags{}, err
	}

	return res.Tags(), nil
}

type source struct {
	r   io.Reader
	in  []byte
	dec *stream.Decoder
	eof bool

	pcm    bytes.Buffer
	format mpg123.Format
	// cut is how many bytes of pcm belong to the first format once a
	// second one was announced, -1 before that.
	cut  int
	tags audio.Tags
}

func (s *source) onFormat(f mpg123.Format) {
	switch {
	case s.format.Rate == 0:
		s.format = f
	case f != s.format && s.cut < 0:
		s.cut = s.pcm.Len()
	}
}

// fill feeds one read of input.
func (s *source) fill() error {
	n, err := s.r.Read(s.in)
	if n > 0 {
		if _, werr := s.dec.Write(s.in[:n]); werr != nil {
			return fmt.Errorf("mp3: decode: %w", werr)
		}
	}
	switch {
	case errors.Is(err, io.EOF):
		s.eof = true
	case err != nil:
		return fmt.Errorf("mp3: read: %w", err)
	}
	return nil
}

func (s *source) SampleRate() int  { return s.format.Rate }
func (s *source) Channels() int    { return s.format.Channels }
func (s *source) BufSize() int     { return stream.DefaultChunkSize / 2 }
func (s *source) Tags() audio.Tags { return s.tags }

func (s *source) Close() error {
	return s.dec.Close()
}

func (s *source) available() int {
	if s.cut >= 0 {
		return s.cut
	}
	return s.pcm.Len()
}

// ReadSamples hands out whole frames. A stream that changes its rate or
// layout ends with ErrFormatChanged after the last sample of the first
// format.
func (s *source) ReadSamples(dst []float32) (int, error) {
	ch := s.format.Channels
	want := len(dst) / ch * ch
	if want == 0 {
		if len(dst) == 0 {
			return 0, nil
		}
		return 0, io.ErrShortBuffer
	}

	for s.cut < 0 && s.pcm.Len() < 2*want && !s.eof {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}

	n := min(s.available()/2, want)
	n -= n % ch
	if n == 0 {
		if s.cut >= 0 {
			return 0, ErrFormatChanged
		}
		return 0, io.EOF
	}

	raw := s.pcm.Next(2 * n)
	for i := range n {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(raw[2*i:]))) / 32768
	}
	if s.cut >= 0 {
		s.cut -= 2 * n
	}
	return n, nil
}

// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the go-audio container decoders, which hand out
// integer PCM, to audio.Source.
package intpcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/mp3bridge/audio"
)

// DefaultBufSize is the BufSize hint, in samples.
const DefaultBufSize = 4096

var ErrBitDepth = errors.New("unsupported bit depth")

// Reader is the PCM side of wav.Decoder and aiff.Decoder.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Format describes the integers a Reader yields.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
	// Unsigned8 marks 8 bit samples stored with a 128 offset (WAV).
	// Otherwise 8 bit values are two's complement bytes (AIFF).
	Unsigned8 bool
}

// Source is an audio.Source over a Reader.
type Source struct {
	r     Reader
	f     Format
	scale float32
	buf   goaudio.IntBuffer
	tags  audio.Tags
}

func New(r Reader, f Format, tags audio.Tags) (*Source, error) {
	scale := goaudio.IntMaxSignedValue(f.BitDepth)
	if scale == 0 {
		return nil, fmt.Errorf("%w: %d", ErrBitDepth, f.BitDepth)
	}
	if f.Channels < 1 || f.SampleRate < 1 {
		return nil, fmt.Errorf("invalid layout: %d Hz, %d channels", f.SampleRate, f.Channels)
	}

	return &Source{
		r:     r,
		f:     f,
		scale: float32(scale + 1),
		buf: goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
			SourceBitDepth: f.BitDepth,
		},
		tags: tags,
	}, nil
}

func (s *Source) SampleRate() int  { return s.f.SampleRate }
func (s *Source) Channels() int    { return s.f.Channels }
func (s *Source) BufSize() int     { return DefaultBufSize / s.f.Channels * s.f.Channels }
func (s *Source) Close() error     { return nil }
func (s *Source) Tags() audio.Tags { return s.tags }

// ReadSamples returns whole frames only. A dst shorter than one frame is
// an error.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) / s.f.Channels * s.f.Channels
	if want == 0 {
		if len(dst) == 0 {
			return 0, nil
		}
		return 0, io.ErrShortBuffer
	}

	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.r.PCMBuffer(&s.buf)
	n -= n % s.f.Channels
	if n <= 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		if s.f.BitDepth == 8 {
			v = byte8(v, s.f.Unsigned8)
		}
		dst[i] = float32(v) / s.scale
	}
	return n, err
}

func byte8(v int, unsigned bool) int {
	if unsigned {
		return v - 128
	}
	return int(int8(uint8(v)))
}

// SPDX-License-Identifier: EPL-2.0

// Package audiotest generates synthetic PCM for tests.
package audiotest

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/ik5/mp3bridge/utils"
)

// Wave returns the value of a channel at a frame index, in [-1,1].
type Wave func(frame, channel int) float32

func Silence() Wave {
	return func(int, int) float32 { return 0 }
}

func Constant(v float32) Wave {
	return func(int, int) float32 { return v }
}

// Sine is a tone of freq Hz at rate, equal on every channel.
func Sine(rate int, freq float64, amp float32) Wave {
	return func(frame, _ int) float32 {
		return amp * float32(math.Sin(2*math.Pi*freq*float64(frame)/float64(rate)))
	}
}

// Source plays a Wave for a fixed number of frames. It satisfies
// audio.Source without importing it.
type Source struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Wave
	bufSize  int
}

func NewSource(rate, channels, frames int, w Wave) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, wave: w, bufSize: 4096}
}

// WithBufSize changes the BufSize hint.
func (s *Source) WithBufSize(n int) *Source {
	s.bufSize = n
	return s
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return s.bufSize }
func (s *Source) Close() error    { return nil }

// Rewind starts the wave over.
func (s *Source) Rewind() { s.pos = 0 }

// ReadSamples writes whole frames only. The last call returns io.EOF along
// with its samples.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.wave(s.pos+f, ch)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}

// S16 renders frames of w as interleaved little endian 16 bit PCM.
func S16(w Wave, channels, frames int) []byte {
	out := make([]byte, 0, frames*channels*2)
	for f := range frames {
		for ch := range channels {
			out = binary.LittleEndian.AppendUint16(out, uint16(utils.Float32ToInt16(w(f, ch))))
		}
	}
	return out
}

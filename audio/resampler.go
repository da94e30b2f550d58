// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"github.com/ik5/mp3bridge/utils"
)

// Resampler converts interleaved float32 PCM between sample rates with
// cubic interpolation. Input is pushed in chunks of any size; the four
// frame history carries over between calls.
//
// When downsampling a one-pole low-pass runs over the input first.
type Resampler struct {
	channels int
	srcRate  int
	dstRate  int
	ratio    float64 // source frames per output frame

	// hist[1] and hist[2] bracket the output position.
	hist  [4][]float32
	count int
	pos   float64
	tail  []float32

	useFilter   bool
	filterAlpha float32
	filterState []float32
}

func NewResampler(channels, srcRate, dstRate int) (*Resampler, error) {
	if channels <= 0 {
		return nil, ErrInvalidLayout
	}
	if srcRate <= 0 || dstRate <= 0 {
		return nil, ErrInvalidRate
	}

	r := &Resampler{
		channels:    channels,
		srcRate:     srcRate,
		dstRate:     dstRate,
		ratio:       float64(srcRate) / float64(dstRate),
		tail:        make([]float32, channels),
		filterState: make([]float32, channels),
	}
	if r.ratio > 1 {
		r.useFilter = true
		r.filterAlpha = 0.5
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r, nil
}

func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) SourceRate() int { return r.srcRate }
func (r *Resampler) TargetRate() int { return r.dstRate }

// Passthrough reports whether both rates are equal; Process then copies.
func (r *Resampler) Passthrough() bool { return r.srcRate == r.dstRate }

// Process appends the output for src to dst and returns it. len(src) must
// be a multiple of the channel count.
func (r *Resampler) Process(dst, src []float32) ([]float32, error) {
	if len(src)%r.channels != 0 {
		return dst, ErrInvalidDstSize
	}
	if r.Passthrough() {
		return append(dst, src...), nil
	}

	for i := 0; i < len(src); i += r.channels {
		dst = r.push(dst, src[i:i+r.channels])
	}
	return dst, nil
}

// Flush drains the history by repeating the last input frame, then resets
// the Resampler for a new stream.
func (r *Resampler) Flush(dst []float32) []float32 {
	if r.count > 0 && !r.Passthrough() {
		last := r.hist[r.count-1]
		copy(r.tail, last)
		dst = r.push(dst, r.tail)
		dst = r.push(dst, r.tail)
	}
	r.Reset()
	return dst
}

// Reset forgets all history.
func (r *Resampler) Reset() {
	r.count = 0
	r.pos = 0
	clear(r.filterState)
}

func (r *Resampler) push(dst, frame []float32) []float32 {
	if r.useFilter {
		if r.count == 0 {
			copy(r.filterState, frame)
		}
		for c := range r.channels {
			r.filterState[c] = r.filterAlpha*frame[c] + (1-r.filterAlpha)*r.filterState[c]
		}
		frame = r.filterState
	}

	switch {
	case r.count == 0:
		// The first frame also stands in for the one before it.
		copy(r.hist[0], frame)
		copy(r.hist[1], frame)
		r.count = 2
		return dst
	case r.count < 4:
		copy(r.hist[r.count], frame)
		r.count++
		if r.count < 4 {
			return dst
		}
	default:
		h0 := r.hist[0]
		r.hist[0], r.hist[1], r.hist[2] = r.hist[1], r.hist[2], r.hist[3]
		r.hist[3] = h0
		copy(r.hist[3], frame)
	}

	for r.pos < 1 {
		x := float32(r.pos)
		for c := range r.channels {
			dst = append(dst, utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x))
		}
		r.pos += r.ratio
	}
	r.pos--

	return dst
}

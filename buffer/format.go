// SPDX-License-Identifier: EPL-2.0

package buffer

import (
	"encoding/binary"
	"math"

	"github.com/ik5/mp3bridge/errs"
	"github.com/ik5/mp3bridge/utils"
)

// SampleFormat tags the layout of interleaved PCM inside a View.
type SampleFormat int

const (
	FormatS16     SampleFormat = iota // native short int, little endian
	FormatFloat32                     // IEEE float in [-1,1]
	FormatFloat64                     // IEEE double in [-1,1]
)

// Size in bytes of one sample.
func (f SampleFormat) Size() int {
	switch f {
	case FormatS16:
		return 2
	case FormatFloat32:
		return 4
	case FormatFloat64:
		return 8
	default:
		return 0
	}
}

func (f SampleFormat) String() string {
	switch f {
	case FormatS16:
		return "s16le"
	case FormatFloat32:
		return "f32le"
	case FormatFloat64:
		return "f64le"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the known tags.
func (f SampleFormat) Valid() bool {
	return f.Size() > 0
}

// CheckSamples verifies that v holds at least count frames of the given
// channel count in format f.
func CheckSamples(op string, v View, f SampleFormat, channels, count int) error {
	if !f.Valid() {
		return errs.Invalid(op, "unknown sample format %d", int(f))
	}
	if channels <= 0 {
		return errs.Invalid(op, "channels must be positive, got %d", channels)
	}
	if count < 0 {
		return errs.Invalid(op, "sample count must not be negative, got %d", count)
	}
	if count > math.MaxInt/(channels*f.Size()) {
		return errs.Invalid(op, "sample count %d overflows", count)
	}

	need := count * channels * f.Size()
	if need > v.Len() {
		return errs.Bounds(op, v.Offset(), need, v.Offset()+v.Len())
	}

	return nil
}

// ToInt16 decodes n interleaved values of format f from src into dst, which
// must hold n values. Float input is clamped to [-1,1].
func ToInt16(dst []int16, src []byte, f SampleFormat, n int) {
	switch f {
	case FormatS16:
		for i := range n {
			dst[i] = int16(binary.LittleEndian.Uint16(src[2*i:]))
		}
	case FormatFloat32:
		for i := range n {
			dst[i] = utils.Float32ToInt16(math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:])))
		}
	case FormatFloat64:
		for i := range n {
			dst[i] = utils.Float32ToInt16(float32(math.Float64frombits(binary.LittleEndian.Uint64(src[8*i:]))))
		}
	}
}

// PutInt16 writes samples as little endian shorts into dst.
func PutInt16(dst []byte, samples []int16) int {
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(s))
	}
	return len(samples) * 2
}

// ToFloat32 decodes n interleaved values of format f from src into dst.
// Shorts map to [-1,1), doubles are clamped to [-1,1].
func ToFloat32(dst []float32, src []byte, f SampleFormat, n int) {
	switch f {
	case FormatS16:
		for i := range n {
			dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(src[2*i:])))
		}
	case FormatFloat32:
		for i := range n {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
		}
	case FormatFloat64:
		for i := range n {
			dst[i] = utils.Float64ToFloat32(math.Float64frombits(binary.LittleEndian.Uint64(src[8*i:])))
		}
	}
}

// PutFloat32 writes samples as little endian IEEE floats into dst.
func PutFloat32(dst []byte, samples []float32) int {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(s))
	}
	return len(samples) * 4
}

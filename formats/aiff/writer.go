// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/mp3bridge/internal/intpcm"
)

// Writer turns interleaved signed 16 bit little endian PCM into a big
// endian AIFF file. The format may be set after construction but before
// the first sample.
type Writer struct {
	*intpcm.Writer
}

// NewWriter returns a Writer on ws. rate and channels may both be zero
// and set later with SetFormat. Close does not close ws.
func NewWriter(ws io.WriteSeeker, rate, channels int) (*Writer, error) {
	w := &Writer{intpcm.NewWriter(func(rate, channels int) intpcm.Encoder {
		return aiff.NewEncoder(ws, rate, intpcm.BitDepth, channels)
	})}

	if rate != 0 || channels != 0 {
		if err := w.SetFormat(rate, channels); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// WriteAIFF16 writes interleaved samples as a complete 16 bit AIFF file.
func WriteAIFF16(ws io.WriteSeeker, rate, channels int, samples []int16) error {
	w, err := NewWriter(ws, rate, channels)
	if err != nil {
		return err
	}
	if _, err := w.Write(intpcm.PutS16(samples)); err != nil {
		return err
	}
	return w.Close()
}

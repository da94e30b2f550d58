// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"io"

	"github.com/go-audio/wav"
	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/internal/intpcm"
)

// Writer turns interleaved signed 16 bit little endian PCM into a WAV
// file. The format may be set after construction but before the first
// sample.
type Writer struct {
	*intpcm.Writer
	tags audio.Tags
}

// encoder writes the INFO list on Close.
type encoder struct {
	*wav.Encoder
	tags *audio.Tags
}

func (e encoder) Close() error {
	e.Metadata = metadataFrom(*e.tags)
	return e.Encoder.Close()
}

// NewWriter returns a Writer on ws. rate and channels may both be zero
// and set later with SetFormat. Close does not close ws.
func NewWriter(ws io.WriteSeeker, rate, channels int) (*Writer, error) {
	w := &Writer{}
	w.Writer = intpcm.NewWriter(func(rate, channels int) intpcm.Encoder {
		return encoder{
			Encoder: wav.NewEncoder(ws, rate, intpcm.BitDepth, channels, formatPCM),
			tags:    &w.tags,
		}
	})

	if rate != 0 || channels != 0 {
		if err := w.SetFormat(rate, channels); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// SetTags stores t in the INFO list written by Close.
func (w *Writer) SetTags(t audio.Tags) { w.tags = t }

// WriteWAV16 writes interleaved samples as a complete 16 bit WAV file.
func WriteWAV16(ws io.WriteSeeker, rate, channels int, samples []int16) error {
	w, err := NewWriter(ws, rate, channels)
	if err != nil {
		return err
	}
	if _, err := w.Write(intpcm.PutS16(samples)); err != nil {
		return err
	}
	return w.Close()
}

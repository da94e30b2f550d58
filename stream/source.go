// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/buffer"
	"github.com/ik5/mp3bridge/lame"
)

// EncoderConfigFor returns a float32 configuration matching src. Tags the
// source's container carried become the ID3 tag.
func EncoderConfigFor(src audio.Source) EncoderConfig {
	cfg := EncoderConfig{
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
		Format:     buffer.FormatFloat32,
	}
	if tags := audio.TagsOf(src); !tags.Empty() {
		t := lame.Tag(tags)
		cfg.Tag = &t
	}
	return cfg
}

// CopySource reads src to its end and writes the samples to enc, which
// must take float32 input of the same layout. It returns the number of
// sample frames copied.
func CopySource(enc *Encoder, src audio.Source) (int64, error) {
	if enc.cfg.Format != buffer.FormatFloat32 {
		return 0, fmt.Errorf("stream: source copy needs float32 input, encoder takes %s", enc.cfg.Format)
	}
	if src.Channels() != enc.cfg.Channels {
		return 0, fmt.Errorf("stream: source has %d channels, encoder %d", src.Channels(), enc.cfg.Channels)
	}

	samples := make([]float32, max(src.BufSize(), src.Channels()))
	raw := make([]byte, 4*len(samples))
	var frames int64

	for {
		n, err := src.ReadSamples(samples)
		if n > 0 {
			m := buffer.PutFloat32(raw, samples[:n])
			if _, werr := enc.Write(raw[:m]); werr != nil {
				return frames, werr
			}
			frames += int64(n / src.Channels())
		}
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, fmt.Errorf("stream: reading source: %w", err)
		}
	}
}

// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/internal/intpcm"
)

type Decoder struct{}

// Decode parses the COMM chunk of r and returns a Source over the sound
// data. go-audio needs to seek, so a plain reader is buffered whole.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotAiffFile, err)
		}
		return nil, ErrNotAiffFile
	}

	src, err := intpcm.New(dec, intpcm.Format{
		SampleRate: dec.SampleRate,
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}, tagsFrom(dec.Comments))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}
	return src, nil
}

// tagsFrom keeps the COMT chunk as the comment. AIFF has no other field
// go-audio reads.
func tagsFrom(comments []string) audio.Tags {
	var kept []string
	for _, c := range comments {
		if c = strings.TrimSpace(c); c != "" {
			kept = append(kept, c)
		}
	}
	return audio.Tags{Comment: strings.Join(kept, "; ")}
}

// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/internal/intpcm"
)

const formatPCM = 1

type Decoder struct{}

// Decode reads the header and the INFO list of r and returns a Source
// positioned on the samples. go-audio needs to seek, so a plain reader is
// buffered whole.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrOnlyPCMSupported, dec.WavAudioFormat)
	}

	dec.ReadMetadata()
	if err := dec.Rewind(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	src, err := intpcm.New(dec, intpcm.Format{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Unsigned8:  true,
	}, tagsFrom(dec.Metadata))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}
	return src, nil
}

func tagsFrom(m *wav.Metadata) audio.Tags {
	if m == nil {
		return audio.Tags{}
	}
	t := audio.Tags{
		Title:   m.Title,
		Artist:  m.Artist,
		Album:   m.Product,
		Year:    m.CreationDate,
		Comment: m.Comments,
		Genre:   m.Genre,
	}
	// ICRD is a date; ID3v1 keeps only the year
	if len(t.Year) > 4 {
		t.Year = t.Year[:4]
	}
	if n, err := strconv.Atoi(strings.TrimSpace(m.TrackNbr)); err == nil {
		t.Track = n
	}
	return t
}

func metadataFrom(t audio.Tags) *wav.Metadata {
	if t.Empty() {
		return nil
	}
	m := &wav.Metadata{
		Title:        t.Title,
		Artist:       t.Artist,
		Product:      t.Album,
		CreationDate: t.Year,
		Comments:     t.Comment,
		Genre:        t.Genre,
		Software:     "mp3bridge",
	}
	if t.Track > 0 {
		m.TrackNbr = strconv.Itoa(t.Track)
	}
	return m
}

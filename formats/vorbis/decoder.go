// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ik5/mp3bridge/audio"
	"github.com/jfreymuth/oggvorbis"
)

var ErrNotVorbis = errors.New("not an Ogg Vorbis stream")

// oggReader is the part of oggvorbis.Reader a source needs.
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read returns values, not frames, always a multiple of Channels.
	Read([]float32) (int, error)
}

type source struct {
	dec  oggReader
	tags audio.Tags
}

func (s *source) SampleRate() int  { return s.dec.SampleRate() }
func (s *source) Channels() int    { return s.dec.Channels() }
func (s *source) Close() error     { return nil }
func (s *source) Tags() audio.Tags { return s.tags }

func (s *source) BufSize() int {
	return 4096 / s.Channels() * s.Channels()
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst) < s.Channels() {
		return 0, io.ErrShortBuffer
	}

	n, err := s.dec.Read(dst)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbis, err)
	}

	return &source{
		dec:  dec,
		tags: ParseComments(dec.CommentHeader().Comments),
	}, nil
}

// ParseComments maps Vorbis comments (KEY=value, keys case insensitive)
// onto Tags. The first value of a key wins.
func ParseComments(comments []string) audio.Tags {
	var t audio.Tags
	set := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}

	for _, c := range comments {
		key, v, ok := strings.Cut(c, "=")
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)

		switch strings.ToUpper(key) {
		case "TITLE":
			set(&t.Title, v)
		case "ARTIST":
			set(&t.Artist, v)
		case "ALBUM":
			set(&t.Album, v)
		case "DATE", "YEAR":
			if len(v) > 4 {
				v = v[:4]
			}
			set(&t.Year, v)
		case "GENRE":
			set(&t.Genre, v)
		case "COMMENT", "DESCRIPTION":
			set(&t.Comment, v)
		case "TRACKNUMBER":
			// "3/12" counts too
			num, _, _ := strings.Cut(v, "/")
			if n, err := strconv.Atoi(num); err == nil && t.Track == 0 {
				t.Track = n
			}
		}
	}
	return t
}

// SPDX-License-Identifier: EPL-2.0

package lame

import (
	"bytes"
	"strconv"

	"github.com/bogem/id3v2/v2"
	"github.com/ik5/mp3bridge/mpeg"
)

// Tag holds the fields written to the ID3 tags.
type Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Track   int
	Genre   string // name or decimal ID3v1 id
}

func (t Tag) empty() bool {
	return t == Tag{}
}

// SetTag replaces the tag fields. An empty Tag removes the tags.
func (h *Handle) SetTag(t Tag) error {
	return h.do("id3tag_set", func(e *encoder) {
		e.tag = t
		e.hasTag = !t.empty()
	})
}

// GetID3v1Tag writes the 128 byte ID3v1.1 tag into buf and returns its
// size. When buf is too small nothing is written and the needed size is
// returned; 0 means there is no tag.
func (h *Handle) GetID3v1Tag(buf []byte) (int, error) {
	var n int
	err := h.do("lame_get_id3v1_tag", func(e *encoder) {
		if !e.hasTag {
			return
		}
		n = mpeg.ID3v1Size
		if len(buf) < n {
			return
		}
		raw := e.tag.id3v1().Encode()
		copy(buf, raw[:])
	})
	return n, err
}

// GetID3v2Tag behaves like GetID3v1Tag for an ID3v2.4 tag.
func (h *Handle) GetID3v2Tag(buf []byte) (int, error) {
	var (
		n    int
		werr error
	)
	err := h.do("lame_get_id3v2_tag", func(e *encoder) {
		if !e.hasTag {
			return
		}
		var raw []byte
		raw, werr = e.tag.id3v2()
		n = len(raw)
		if len(buf) >= n {
			copy(buf, raw)
		}
	})
	if err != nil {
		return 0, err
	}
	return n, werr
}

func (t Tag) id3v1() mpeg.ID3v1 {
	genre := byte(255)
	if id, ok := mpeg.GenreID(t.Genre); ok {
		genre = id
	}
	return mpeg.ID3v1{
		Title:   t.Title,
		Artist:  t.Artist,
		Album:   t.Album,
		Year:    t.Year,
		Comment: t.Comment,
		Track:   t.Track,
		Genre:   genre,
	}
}

func (t Tag) id3v2() ([]byte, error) {
	tag := id3v2.NewEmptyTag()
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if t.Title != "" {
		tag.SetTitle(t.Title)
	}
	if t.Artist != "" {
		tag.SetArtist(t.Artist)
	}
	if t.Album != "" {
		tag.SetAlbum(t.Album)
	}
	if t.Year != "" {
		tag.SetYear(t.Year)
	}
	if t.Genre != "" {
		genre := t.Genre
		if id, err := strconv.Atoi(genre); err == nil && id >= 0 && id < 256 {
			if name := mpeg.GenreName(byte(id)); name != "" {
				genre = name
			}
		}
		tag.SetGenre(genre)
	}
	if t.Track > 0 {
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), tag.DefaultEncoding(), strconv.Itoa(t.Track))
	}
	if t.Comment != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding: tag.DefaultEncoding(),
			Language: "eng",
			Text:     t.Comment,
		})
	}

	var b bytes.Buffer
	if _, err := tag.WriteTo(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

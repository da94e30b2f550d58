// SPDX-License-Identifier: EPL-2.0

package mpg123

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/mpeg"
	"go.uber.org/zap"
)

// TagV1 is an ID3v1 block met in the stream. Raw holds the 128 bytes as
// they were read.
type TagV1 struct {
	mpeg.ID3v1
	Raw []byte
}

// TagV2 is an ID3v2 tag met in the stream. The common text frames are
// decoded when the tag version is supported; Raw always holds the whole
// tag including its header.
type TagV2 struct {
	Version byte
	Title   string
	Artist  string
	Album   string
	Year    string
	Genre   string
	Comment string
	Track   int
	Raw     []byte
}

// ID3Result is the payload of an ID3 call. A nil tag was not seen.
type ID3Result struct {
	Code int
	V1   *TagV1
	V2   *TagV2
}

func parseV1(raw []byte) *TagV1 {
	t, err := mpeg.ParseID3v1(raw)
	if err != nil {
		return &TagV1{Raw: raw}
	}
	return &TagV1{ID3v1: t, Raw: raw}
}

func parseV2(raw []byte) *TagV2 {
	out := &TagV2{Raw: raw}
	if len(raw) > 3 {
		out.Version = raw[3]
	}

	tag, err := id3v2.ParseReader(bytes.NewReader(raw), id3v2.Options{Parse: true})
	if err != nil {
		Logger().Debug("id3v2 kept raw", zap.Error(err))
		return out
	}

	out.Version = tag.Version()
	out.Title = tag.Title()
	out.Artist = tag.Artist()
	out.Album = tag.Album()
	out.Year = tag.Year()
	out.Genre = tag.Genre()
	track := tag.GetTextFrame(tag.CommonID("Track number/Position in set")).Text
	if n, err := strconv.Atoi(strings.SplitN(track, "/", 2)[0]); err == nil {
		out.Track = n
	}
	for _, f := range tag.GetFrames(tag.CommonID("Comments")) {
		if c, ok := f.(id3v2.CommentFrame); ok {
			out.Comment = c.Text
			break
		}
	}

	return out
}

// Tags merges what was seen into audio.Tags. ID3v2 fields win; ID3v1
// fills the gaps.
func (r ID3Result) Tags() audio.Tags {
	var t audio.Tags
	if v2 := r.V2; v2 != nil {
		t = audio.Tags{
			Title:   v2.Title,
			Artist:  v2.Artist,
			Album:   v2.Album,
			Year:    v2.Year,
			Comment: v2.Comment,
			Track:   v2.Track,
			Genre:   v2.Genre,
		}
	}
	if v1 := r.V1; v1 != nil {
		fill := func(dst *string, v string) {
			if *dst == "" {
				*dst = v
			}
		}
		fill(&t.Title, v1.Title)
		fill(&t.Artist, v1.Artist)
		fill(&t.Album, v1.Album)
		fill(&t.Year, v1.Year)
		fill(&t.Comment, v1.Comment)
		fill(&t.Genre, mpeg.GenreName(v1.Genre))
		if t.Track == 0 {
			t.Track = v1.Track
		}
	}
	return t
}

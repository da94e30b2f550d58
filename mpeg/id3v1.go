// SPDX-License-Identifier: EPL-2.0

package mpeg

import (
	"bytes"
	"strconv"
	"strings"
)

// ID3v1 is the fixed 128 byte trailer tag, with the v1.1 track number.
type ID3v1 struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Track   int  // 0 means absent
	Genre   byte // 255 means unset
}

// Encode lays the tag out in its 128 byte form. Fields are truncated to
// their slots; a track number shortens the comment to 28 bytes.
func (t ID3v1) Encode() [ID3v1Size]byte {
	var out [ID3v1Size]byte
	copy(out[0:3], "TAG")
	copy(out[3:33], t.Title)
	copy(out[33:63], t.Artist)
	copy(out[63:93], t.Album)
	copy(out[93:97], t.Year)

	if t.Track > 0 && t.Track < 256 {
		copy(out[97:125], t.Comment)
		out[125] = 0
		out[126] = byte(t.Track)
	} else {
		copy(out[97:127], t.Comment)
	}
	out[127] = t.Genre

	return out
}

// ParseID3v1 decodes a 128 byte block starting with "TAG".
func ParseID3v1(b []byte) (ID3v1, error) {
	if len(b) < ID3v1Size || !bytes.HasPrefix(b, []byte("TAG")) {
		return ID3v1{}, ErrNotID3v1
	}

	t := ID3v1{
		Title:  field(b[3:33]),
		Artist: field(b[33:63]),
		Album:  field(b[63:93]),
		Year:   field(b[93:97]),
		Genre:  b[127],
	}
	if b[125] == 0 && b[126] != 0 {
		t.Comment = field(b[97:125])
		t.Track = int(b[126])
	} else {
		t.Comment = field(b[97:127])
	}

	return t, nil
}

func field(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), " ")
}

// genres is the original ID3v1 genre list.
var genres = [...]string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel", "Noise",
	"AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic", "Darkwave",
	"Techno-Industrial", "Electronic", "Pop-Folk", "Eurodance", "Dream",
	"Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40", "Christian Rap",
	"Pop/Funk", "Jungle", "Native American", "Cabaret", "New Wave",
	"Psychadelic", "Rave", "Showtunes", "Trailer", "Lo-Fi", "Tribal",
	"Acid Punk", "Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll",
	"Hard Rock",
}

// GenreName returns the name of a genre id, or "" when unknown.
func GenreName(id byte) string {
	if int(id) < len(genres) {
		return genres[id]
	}
	return ""
}

// GenreID looks a genre up by name (case insensitive) or by decimal id.
func GenreID(name string) (byte, bool) {
	if n, err := strconv.Atoi(name); err == nil {
		if n >= 0 && n < 256 {
			return byte(n), true
		}
		return 0, false
	}
	for i, g := range genres {
		if strings.EqualFold(g, name) {
			return byte(i), true
		}
	}
	return 0, false
}

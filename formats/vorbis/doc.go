// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis with github.com/jfreymuth/oggvorbis.
//
// The Source it returns yields interleaved float32 samples and implements
// audio.Tagged: the stream's comment header (TITLE, ARTIST, ALBUM, DATE,
// TRACKNUMBER, GENRE, COMMENT) is mapped onto audio.Tags.
package vorbis

// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files with github.com/go-audio/wav.
//
// Decoder accepts integer PCM at 8, 16, 24 or 32 bits and any rate and
// channel count. The INFO list, when present, is exposed through
// audio.Tagged so an encoder can carry it over to ID3:
//
//	src, err := wav.Decoder{}.Decode(f)
//	tags := audio.TagsOf(src)
//
// Writer goes the other way for signed 16 bit little endian PCM, the
// output of the MP3 decoder. Its format can be set after construction,
// once the stream has announced it:
//
//	w, _ := wav.NewWriter(out, 0, 0)
//	cfg.OnFormat = func(f mpg123.Format) { w.SetFormat(f.Rate, f.Channels) }
//
// go-audio needs an io.ReadSeeker to read and an io.WriteSeeker to write.
// A plain io.Reader is read into memory first.
package wav

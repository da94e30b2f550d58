// SPDX-License-Identifier: EPL-2.0

// Package mp3 exposes MP3 files as audio.Source, so they can be
// re-encoded like any other input.
//
// Decoding goes through the mpg123 binding in feed mode: input is read in
// chunks, fed through a stream.Decoder and the signed 16 bit output is
// converted to float32. The dispatcher handed to NewDecoder must have its
// loop served by another goroutine, as with stream.Start:
//
//	rt := stream.Start(ctx)
//	defer rt.Stop()
//	registry.Register("mp3", mp3.NewDecoder(ctx, rt.Dispatcher(), stream.DecoderConfig{}))
//
// The output is always stereo. The first ID3v2 tag of the stream (or an
// ID3v1 tag when the stream is short enough to reach it) is available
// through audio.TagsOf.
package mp3

// SPDX-License-Identifier: EPL-2.0

// Package mp3bridge converts between PCM and MP3 without blocking the
// caller's event loop.
//
// Codec calls run on a bounded pool of worker goroutines and complete on a
// single loop goroutine (see package dispatch). Buffers handed to a call
// are pinned until the call completes (package buffer), and each codec
// instance allows one call at a time.
//
// # Layers
//
//   - lame and mpg123: encoder and decoder handles, with synchronous
//     accessors and asynchronous encode, flush, feed, read and ID3 calls.
//   - stream: io.WriteCloser adapters over those calls.
//   - formats/wav, formats/aiff, formats/vorbis, formats/mp3: audio.Source
//     decoders and PCM writers for common containers.
//   - config: YAML profiles for the encoder, decoder, pool and logger.
//
// # Quick Start
//
// Encode a WAV file to MP3:
//
//	in, _ := os.Open("take.wav")
//	src, _ := wav.Decoder{}.Decode(in)
//	out, _ := os.Create("take.mp3")
//	frames, err := mp3bridge.Encode(ctx, out, src, nil)
//
// And back:
//
//	w, _ := wav.NewWriter(outFile, 0, 0)
//	format, err := mp3bridge.Decode(ctx, w, mp3File, cfg)
//	_ = w.Close()
//
// Decode calls SetFormat on the sink before the PCM of each format and,
// for a *wav.Writer, stores the ID3 tags as RIFF INFO.
//
// The cmd/mp3bridge command wraps both directions.
package mp3bridge

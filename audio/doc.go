// SPDX-License-Identifier: EPL-2.0

// Package audio holds the PCM plumbing shared by the codec bindings and the
// file formats.
//
// Source is a pull stream of interleaved float32 samples in [-1,1]. File
// decoders in the formats packages implement it and register themselves in
// a Registry under a format key:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Decode("wav", f)
//
// Resampler and Downmix are push style. The encoder binding feeds them the
// chunks its callers hand over, so neither needs a Source:
//
//	r, _ := audio.NewResampler(2, 44100, 48000)
//	out, _ = r.Process(out, chunk)
//	out = r.Flush(out)
//
// Resampling uses Catmull-Rom cubic interpolation over a four frame window.
// A one-pole low-pass runs ahead of it when the rate goes down.
package audio

// SPDX-License-Identifier: EPL-2.0

// Package lame is the encoder binding. It keeps the shape of the LAME C
// API (a handle, a table of get/set parameters, lame_init_params, and the
// two blocking encode calls) and runs the blocking calls through a
// dispatch.Dispatcher.
//
//	h := lame.Init()
//	h.SetInt("in_samplerate", 48000)
//	h.SetInt("num_channels", 2)
//	if code, _ := h.InitParams(); code != 0 {
//		// configuration rejected
//	}
//
//	f, err := lame.EncodeBufferInterleaved(d, h, pcm, buffer.FormatS16, n, out)
//	written, _ := f.Await(ctx)
//
// Return codes are passed through as data: a non-negative count of bytes
// written, or -1 (output buffer too small), -2, -3 (lame_init_params() not
// called) or -4. Go errors only report misuse of the binding, such as an
// out of bounds view, an unknown parameter or a busy handle.
//
// Encoded output that does not fit into the caller's buffer is kept and
// the call returns -1. The input is always consumed; a later call with
// more room, or with zero samples, drains the kept output.
//
// Encoding runs on the shine encoder. Resampling to the output rate,
// stereo to mono downmix and the scale factors are applied before it.
package lame

// SPDX-License-Identifier: EPL-2.0

// Package buffer describes caller owned memory that crosses the dispatch
// boundary.
//
// A View never copies. The worker goroutine reads from and writes into the
// exact bytes the caller allocated, so the caller must leave a viewed slice
// alone until the operation that received it has completed. Offsets are
// validated once, when the View is built, and never trusted afterwards.
//
//	out := make([]byte, 8192)
//	v, err := buffer.NewView(out, 512, 4096) // bytes 512..4607
//
// SampleFormat tags the PCM layout of an input View for the encoder binding.
package buffer

// SPDX-License-Identifier: EPL-2.0

// Package aiff reads and writes uncompressed AIFF and little endian AIFF-C
// ("sowt") with github.com/go-audio/aiff.
//
// Decoder hands out float32 samples in [-1,1] for 8, 16, 24 and 32 bit
// files. Comments from a COMT chunk become the comment tag. Writer and
// WriteAIFF16 produce 16 bit files from little endian PCM, the output of
// the MP3 decoder.
package aiff

// SPDX-License-Identifier: EPL-2.0

// Package stream wraps the encoder and decoder bindings in io.WriteCloser
// types.
//
// Every codec call goes through a dispatch.Dispatcher and is awaited, so
// the streams must be used from goroutines other than the loop goroutine.
// Start gives a loop served in the background for that purpose:
//
//	rt := stream.Start(ctx)
//	defer rt.Stop()
//
//	enc, err := stream.NewEncoder(ctx, rt.Dispatcher(), out, stream.EncoderConfig{
//		SampleRate: 44100,
//		Channels:   2,
//		Format:     buffer.FormatS16,
//	})
//
// Negative codes from the bindings come back as *lame.CodeError and
// *mpg123.CodeError.
package stream

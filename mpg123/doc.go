// SPDX-License-Identifier: EPL-2.0

// Package mpg123 is a feed based MP3 decoder with the call surface of
// libmpg123.
//
// A Handle is created with New after Init, put into feed mode with
// OpenFeed, and driven with Feed, Read and Decode. Those run on a worker
// goroutine through a dispatch.Dispatcher and report to the loop
// goroutine, either through a continuation (the *Func forms) or a
// dispatch.Future. Status codes such as NeedMore and NewFormat are data in
// the result, never errors; errors are kept for misuse of the binding,
// such as a nil view or a handle that is busy or deleted.
//
// Output is signed 16 bit little endian stereo. Mono streams are written
// with both channels equal. Only Layer III frames of MPEG-1 and MPEG-2 are
// decoded; other frames are counted in Stats and skipped.
package mpg123

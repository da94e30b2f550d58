// SPDX-License-Identifier: EPL-2.0

// Package mpeg parses the framing of MPEG audio streams: frame headers,
// ID3v2 blocks at the front and the ID3v1 trailer.
//
// Scanner is incremental. Bytes are written as they arrive and Next hands
// out complete tokens, which is what the decoder binding needs to give its
// backend whole frames only. Parser drives a Scanner from an io.Reader and
// reports each piece to a Handler.
//
// Frame sizes follow the standard formulas:
//
//	Layer I:    (12 * bitrate / rate + padding) * 4
//	Layer II:   144 * bitrate / rate + padding
//	Layer III:  144 * bitrate / rate + padding   (MPEG1)
//	            72 * bitrate / rate + padding    (MPEG2, MPEG2.5)
package mpeg

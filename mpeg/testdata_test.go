// SPDX-License-Identifier: EPL-2.0

package mpeg

// frame builds a frame with a valid header and a zero body.
func frame(h Header) []byte {
	hdr := h.Encode()
	out := make([]byte, h.FrameSize())
	copy(out, hdr[:])
	return out
}

func mustHeader(version Version, layer Layer, bitrateIndex, rate int, padding bool, mode ChannelMode) Header {
	h := Header{
		Version:      version,
		Layer:        layer,
		BitrateIndex: bitrateIndex,
		SampleRate:   rate,
		Padding:      padding,
		Mode:         mode,
	}
	hdr := h.Encode()
	parsed, err := ParseHeader(hdr[:])
	if err != nil {
		panic(err)
	}
	return parsed
}

func id3v2Block(body int) []byte {
	b := make([]byte, 10+body)
	copy(b, "ID3")
	b[3] = 4
	b[6] = byte(body >> 21 & 0x7F)
	b[7] = byte(body >> 14 & 0x7F)
	b[8] = byte(body >> 7 & 0x7F)
	b[9] = byte(body & 0x7F)
	return b
}

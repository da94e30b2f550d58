// SPDX-License-Identifier: EPL-2.0

package mpeg

import (
	"encoding/binary"
	"fmt"
)

// Version is the two bit MPEG audio version id.
type Version int

const (
	Version25       Version = 0
	VersionReserved Version = 1
	Version2        Version = 2
	Version1        Version = 3
)

func (v Version) String() string {
	switch v {
	case Version1:
		return "MPEG1"
	case Version2:
		return "MPEG2"
	case Version25:
		return "MPEG2.5"
	default:
		return "reserved"
	}
}

// Layer is the two bit layer id. Layer III is encoded as 1.
type Layer int

const (
	LayerReserved Layer = 0
	Layer3        Layer = 1
	Layer2        Layer = 2
	Layer1        Layer = 3
)

func (l Layer) String() string {
	switch l {
	case Layer1:
		return "Layer1"
	case Layer2:
		return "Layer2"
	case Layer3:
		return "Layer3"
	default:
		return "reserved"
	}
}

// ChannelMode values match the header bits and LAME's MPEG_mode.
type ChannelMode int

const (
	Stereo ChannelMode = iota
	JointStereo
	DualChannel
	Mono
)

func (m ChannelMode) String() string {
	switch m {
	case Stereo:
		return "Stereo"
	case JointStereo:
		return "J-Stereo"
	case DualChannel:
		return "Dual"
	case Mono:
		return "Mono"
	default:
		return "unknown"
	}
}

// HeaderSize is the length of the frame header word.
const HeaderSize = 4

var (
	bitratesV1L1 = [15]int{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448}
	bitratesV1L2 = [15]int{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384}
	bitratesV1L3 = [15]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
	bitratesV2L1 = [15]int{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256}
	bitratesV2L3 = [15]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}

	sampleRates = [3]int{44100, 48000, 32000}
)

// Header is a decoded frame header.
type Header struct {
	Version       Version
	Layer         Layer
	Protected     bool // a CRC16 follows the header
	BitrateIndex  int
	Bitrate       int // kbps
	SampleRate    int // Hz
	Padding       bool
	Private       bool
	Mode          ChannelMode
	ModeExtension int
	Copyright     bool
	Original      bool
	Emphasis      int
}

// IsSync reports whether b starts with the 11 bit frame sync.
func IsSync(b []byte) bool {
	return len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0
}

// ParseHeader decodes the first four bytes of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	if !IsSync(b) {
		return Header{}, ErrNoSync
	}

	w := binary.BigEndian.Uint32(b)
	h := Header{
		Version:       Version((w >> 19) & 3),
		Layer:         Layer((w >> 17) & 3),
		Protected:     w&0x00010000 == 0,
		BitrateIndex:  int((w >> 12) & 0xF),
		Padding:       w&0x00000200 != 0,
		Private:       w&0x00000100 != 0,
		Mode:          ChannelMode((w >> 6) & 3),
		ModeExtension: int((w >> 4) & 3),
		Copyright:     w&0x00000008 != 0,
		Original:      w&0x00000004 != 0,
		Emphasis:      int(w & 3),
	}

	if h.Version == VersionReserved {
		return Header{}, ErrReservedVersion
	}
	if h.Layer == LayerReserved {
		return Header{}, ErrReservedLayer
	}
	switch h.BitrateIndex {
	case 0:
		return Header{}, ErrFreeFormat
	case 15:
		return Header{}, ErrBadBitrate
	}
	if h.Emphasis == 2 {
		return Header{}, ErrReservedEmphasis
	}

	srIndex := int((w >> 10) & 3)
	if srIndex == 3 {
		return Header{}, ErrBadSampleRate
	}
	h.SampleRate = sampleRates[srIndex]
	switch h.Version {
	case Version2:
		h.SampleRate >>= 1
	case Version25:
		h.SampleRate >>= 2
	}

	h.Bitrate = bitrateTable(h.Version, h.Layer)[h.BitrateIndex]

	return h, nil
}

func bitrateTable(v Version, l Layer) [15]int {
	if v == Version1 {
		switch l {
		case Layer1:
			return bitratesV1L1
		case Layer2:
			return bitratesV1L2
		default:
			return bitratesV1L3
		}
	}
	if l == Layer1 {
		return bitratesV2L1
	}
	return bitratesV2L3
}

// Bitrates lists the valid bitrates in kbps for a version and layer.
func Bitrates(v Version, l Layer) []int {
	t := bitrateTable(v, l)
	return append([]int(nil), t[1:]...)
}

// SamplesPerFrame is the PCM frame count carried by one MPEG frame.
func (h Header) SamplesPerFrame() int {
	switch {
	case h.Layer == Layer1:
		return 384
	case h.Layer == Layer2 || h.Version == Version1:
		return 1152
	default:
		return 576
	}
}

// FrameSize is the full frame length in bytes, header included.
func (h Header) FrameSize() int {
	if h.SampleRate == 0 {
		return 0
	}
	br := h.Bitrate * 1000

	if h.Layer == Layer1 {
		size := 12 * br / h.SampleRate
		if h.Padding {
			size++
		}
		return size * 4
	}

	size := h.SamplesPerFrame() / 8 * br / h.SampleRate
	if h.Padding {
		size++
	}
	return size
}

func (h Header) Channels() int {
	if h.Mode == Mono {
		return 1
	}
	return 2
}

// Encode packs h back into a header word. Derived fields (Bitrate,
// SampleRate) are ignored in favour of BitrateIndex and the sample rate
// index recovered from SampleRate.
func (h Header) Encode() [HeaderSize]byte {
	w := uint32(0xFFE00000)
	w |= uint32(h.Version&3) << 19
	w |= uint32(h.Layer&3) << 17
	if !h.Protected {
		w |= 0x00010000
	}
	w |= uint32(h.BitrateIndex&0xF) << 12

	rate := h.SampleRate
	switch h.Version {
	case Version2:
		rate <<= 1
	case Version25:
		rate <<= 2
	}
	srIndex := 3
	for i, r := range sampleRates {
		if r == rate {
			srIndex = i
		}
	}
	w |= uint32(srIndex) << 10

	if h.Padding {
		w |= 0x00000200
	}
	if h.Private {
		w |= 0x00000100
	}
	w |= uint32(h.Mode&3) << 6
	w |= uint32(h.ModeExtension&3) << 4
	if h.Copyright {
		w |= 0x00000008
	}
	if h.Original {
		w |= 0x00000004
	}
	w |= uint32(h.Emphasis & 3)

	var out [HeaderSize]byte
	binary.BigEndian.PutUint32(out[:], w)
	return out
}

func (h Header) String() string {
	return fmt.Sprintf("%s %s %dkbps %dHz %s", h.Version, h.Layer, h.Bitrate, h.SampleRate, h.Mode)
}

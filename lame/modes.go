// SPDX-License-Identifier: EPL-2.0

package lame

// MPEGMode is LAME's channel mode.
type MPEGMode int

const (
	Stereo MPEGMode = iota
	JointStereo
	DualChannel
	Mono
	NotSet
)

func (m MPEGMode) String() string {
	switch m {
	case Stereo:
		return "stereo"
	case JointStereo:
		return "j-stereo"
	case DualChannel:
		return "dual-ch"
	case Mono:
		return "single-ch"
	case NotSet:
		return "not set"
	default:
		return "unknown"
	}
}

// VBRMode is LAME's rate control mode.
type VBRMode int

const (
	VBROff VBRMode = iota
	VBRMT
	VBRRH
	VBRABR
	VBRMTRH

	VBRDefault = VBRMTRH
)

func (v VBRMode) String() string {
	switch v {
	case VBROff:
		return "cbr"
	case VBRMT, VBRRH, VBRMTRH:
		return "vbr"
	case VBRABR:
		return "abr"
	default:
		return "unknown"
	}
}

// ParseMode accepts the names printed by String and the common aliases
// "joint" and "mono".
func ParseMode(s string) (MPEGMode, bool) {
	switch s {
	case "stereo":
		return Stereo, true
	case "j-stereo", "joint":
		return JointStereo, true
	case "dual-ch":
		return DualChannel, true
	case "single-ch", "mono":
		return Mono, true
	case "not set", "":
		return NotSet, true
	}
	return NotSet, false
}

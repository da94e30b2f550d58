// SPDX-License-Identifier: EPL-2.0

package lame

import "math"

// flags mirrors the settable part of lame_global_flags.
type flags struct {
	numSamples       uint32
	inSampleRate     int
	numChannels      int
	scale            float64
	scaleLeft        float64
	scaleRight       float64
	outSampleRate    int
	analysis         int
	writeVBRTag      int
	quality          int
	mode             MPEGMode
	forceMS          int
	freeFormat       int
	brate            int
	compressionRatio float64
	copyright        int
	original         int
	errorProtection  int
	extension        int
	strictISO        int
	disableReservoir int
	quantComp        int
	quantCompShort   int
	expNspsytune     int
	vbr              VBRMode
	vbrQ             int
	vbrQuality       float64
	vbrMeanBitrate   int
	vbrMinBitrate    int
	vbrMaxBitrate    int
	vbrHardMin       int
	lowpassFreq      int
	lowpassWidth     int
	highpassFreq     int
	highpassWidth    int
	decodeOnly       int
}

func defaultFlags() flags {
	return flags{
		numSamples:     math.MaxUint32,
		inSampleRate:   44100,
		numChannels:    2,
		scale:          1,
		scaleLeft:      1,
		scaleRight:     1,
		writeVBRTag:    1,
		quality:        3,
		mode:           NotSet,
		original:       1,
		strictISO:      2,
		quantComp:      -1,
		quantCompShort: -1,
		vbrQ:           4,
		vbrQuality:     4,
		vbrMeanBitrate: 128,
		lowpassWidth:   -1,
		highpassWidth:  -1,
	}
}

// Kind is the value type of a parameter.
type Kind int

const (
	KindInt Kind = iota
	KindUint
	KindFloat
	KindMode
	KindVBR
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindMode:
		return "mode"
	case KindVBR:
		return "vbr"
	default:
		return "unknown"
	}
}

// Param describes one accessor pair.
type Param struct {
	Name     string
	Kind     Kind
	ReadOnly bool
}

type accessor struct {
	Param
	get func(*encoder) float64
	set func(*encoder, float64) int // native status
}

func intParam(name string, field func(*flags) *int) accessor {
	return accessor{
		Param: Param{Name: name, Kind: KindInt},
		get:   func(e *encoder) float64 { return float64(*field(&e.gf)) },
		set: func(e *encoder, v float64) int {
			*field(&e.gf) = int(v)
			return 0
		},
	}
}

// boolParam only takes 0 or 1.
func boolParam(name string, field func(*flags) *int) accessor {
	a := intParam(name, field)
	a.set = func(e *encoder, v float64) int {
		if v != 0 && v != 1 {
			return -1
		}
		*field(&e.gf) = int(v)
		return 0
	}
	return a
}

// rangeParam clamps into [lo,hi] and reports -1 when it had to.
func rangeParam(name string, lo, hi int, field func(*flags) *int) accessor {
	a := intParam(name, field)
	a.set = func(e *encoder, v float64) int {
		n, ret := int(v), 0
		if n < lo {
			n, ret = lo, -1
		} else if n > hi {
			n, ret = hi, -1
		}
		*field(&e.gf) = n
		return ret
	}
	return a
}

func floatParam(name string, field func(*flags) *float64) accessor {
	return accessor{
		Param: Param{Name: name, Kind: KindFloat},
		get:   func(e *encoder) float64 { return *field(&e.gf) },
		set: func(e *encoder, v float64) int {
			*field(&e.gf) = v
			return 0
		},
	}
}

func readOnly(name string, get func(*encoder) float64) accessor {
	return accessor{
		Param: Param{Name: name, Kind: KindInt, ReadOnly: true},
		get:   get,
	}
}

var accessors = []accessor{
	{
		Param: Param{Name: "num_samples", Kind: KindUint},
		get:   func(e *encoder) float64 { return float64(e.gf.numSamples) },
		set: func(e *encoder, v float64) int {
			if v < 0 || v > math.MaxUint32 {
				return -1
			}
			e.gf.numSamples = uint32(v)
			return 0
		},
	},
	intParam("in_samplerate", func(f *flags) *int { return &f.inSampleRate }),
	{
		Param: Param{Name: "num_channels", Kind: KindInt},
		get:   func(e *encoder) float64 { return float64(e.gf.numChannels) },
		set: func(e *encoder, v float64) int {
			if v < 1 || v > 2 {
				return -1
			}
			e.gf.numChannels = int(v)
			return 0
		},
	},
	floatParam("scale", func(f *flags) *float64 { return &f.scale }),
	floatParam("scale_left", func(f *flags) *float64 { return &f.scaleLeft }),
	floatParam("scale_right", func(f *flags) *float64 { return &f.scaleRight }),
	{
		Param: Param{Name: "out_samplerate", Kind: KindInt},
		get:   func(e *encoder) float64 { return float64(e.gf.outSampleRate) },
		set: func(e *encoder, v float64) int {
			if v != 0 && !outputRate(int(v)) {
				return -1
			}
			e.gf.outSampleRate = int(v)
			return 0
		},
	},
	boolParam("analysis", func(f *flags) *int { return &f.analysis }),
	boolParam("bWriteVbrTag", func(f *flags) *int { return &f.writeVBRTag }),
	rangeParam("quality", 0, 9, func(f *flags) *int { return &f.quality }),
	{
		Param: Param{Name: "mode", Kind: KindMode},
		get:   func(e *encoder) float64 { return float64(e.gf.mode) },
		set: func(e *encoder, v float64) int {
			if v < float64(Stereo) || v > float64(NotSet) {
				return -1
			}
			e.gf.mode = MPEGMode(v)
			return 0
		},
	},
	boolParam("force_ms", func(f *flags) *int { return &f.forceMS }),
	boolParam("free_format", func(f *flags) *int { return &f.freeFormat }),
	intParam("brate", func(f *flags) *int { return &f.brate }),
	floatParam("compression_ratio", func(f *flags) *float64 { return &f.compressionRatio }),
	boolParam("copyright", func(f *flags) *int { return &f.copyright }),
	boolParam("original", func(f *flags) *int { return &f.original }),
	boolParam("error_protection", func(f *flags) *int { return &f.errorProtection }),
	boolParam("extension", func(f *flags) *int { return &f.extension }),
	intParam("strict_ISO", func(f *flags) *int { return &f.strictISO }),
	boolParam("disable_reservoir", func(f *flags) *int { return &f.disableReservoir }),
	intParam("quant_comp", func(f *flags) *int { return &f.quantComp }),
	intParam("quant_comp_short", func(f *flags) *int { return &f.quantCompShort }),
	intParam("exp_nspsytune", func(f *flags) *int { return &f.expNspsytune }),
	{
		Param: Param{Name: "VBR", Kind: KindVBR},
		get:   func(e *encoder) float64 { return float64(e.gf.vbr) },
		set: func(e *encoder, v float64) int {
			if v < float64(VBROff) || v > float64(VBRMTRH) {
				return -1
			}
			e.gf.vbr = VBRMode(v)
			return 0
		},
	},
	rangeParam("VBR_q", 0, 9, func(f *flags) *int { return &f.vbrQ }),
	{
		Param: Param{Name: "VBR_quality", Kind: KindFloat},
		get:   func(e *encoder) float64 { return e.gf.vbrQuality },
		set: func(e *encoder, v float64) int {
			ret := 0
			if v < 0 {
				v, ret = 0, -1
			} else if v > 9.999 {
				v, ret = 9.999, -1
			}
			e.gf.vbrQuality = v
			e.gf.vbrQ = int(v)
			return ret
		},
	},
	intParam("VBR_mean_bitrate_kbps", func(f *flags) *int { return &f.vbrMeanBitrate }),
	intParam("VBR_min_bitrate_kbps", func(f *flags) *int { return &f.vbrMinBitrate }),
	intParam("VBR_max_bitrate_kbps", func(f *flags) *int { return &f.vbrMaxBitrate }),
	boolParam("VBR_hard_min", func(f *flags) *int { return &f.vbrHardMin }),
	intParam("lowpassfreq", func(f *flags) *int { return &f.lowpassFreq }),
	intParam("lowpasswidth", func(f *flags) *int { return &f.lowpassWidth }),
	intParam("highpassfreq", func(f *flags) *int { return &f.highpassFreq }),
	intParam("highpasswidth", func(f *flags) *int { return &f.highpassWidth }),
	boolParam("decode_only", func(f *flags) *int { return &f.decodeOnly }),

	readOnly("framesize", func(e *encoder) float64 { return float64(e.cfg.frameSize) }),
	readOnly("frameNum", func(e *encoder) float64 { return float64(e.frames) }),
	readOnly("version", func(e *encoder) float64 { return float64(e.cfg.version) }),
}

var accessorIndex = func() map[string]*accessor {
	m := make(map[string]*accessor, len(accessors))
	for i := range accessors {
		m[accessors[i].Name] = &accessors[i]
	}
	return m
}()

// Params lists every parameter in table order.
func Params() []Param {
	out := make([]Param, len(accessors))
	for i, a := range accessors {
		out[i] = a.Param
	}
	return out
}

// LookupParam describes the parameter called name.
func LookupParam(name string) (Param, bool) {
	a, ok := accessorIndex[name]
	if !ok {
		return Param{}, false
	}
	return a.Param, true
}

// ParamNames lists the parameter names in table order.
func ParamNames() []string {
	names := make([]string, 0, len(accessors))
	for _, a := range accessors {
		names = append(names, a.Name)
	}
	return names
}

// SPDX-License-Identifier: EPL-2.0

package lame

import (
	"bytes"
	"slices"

	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/buffer"
	"github.com/ik5/mp3bridge/mpeg"
	"github.com/ik5/mp3bridge/utils"
	"go.uber.org/zap"
)

// Output sample rates the encoder can produce, lowest first.
var outputRates = []int{16000, 22050, 24000, 32000, 44100, 48000}

func outputRate(rate int) bool {
	return slices.Contains(outputRates, rate)
}

// pickRate chooses the output rate for an input rate: the rate itself when
// it can be encoded, otherwise the next one up.
func pickRate(in int) int {
	for _, r := range outputRates {
		if r >= in {
			return r
		}
	}
	return outputRates[len(outputRates)-1]
}

// setup is the configuration frozen by InitParams.
type setup struct {
	inRate      int
	outRate     int
	inChannels  int
	outChannels int
	mode        MPEGMode
	bitrate     int
	frameSize   int // PCM frames per MPEG frame
	version     int // 1 for MPEG-1, 0 for MPEG-2
	gains       [2]float32
	scaled      bool
	downmix     bool
}

// encoder is the state behind one Handle. Only the goroutine holding the
// session touches it.
type encoder struct {
	backend Backend
	gf      flags
	tag     Tag
	hasTag  bool

	ready  bool
	cfg    setup
	engine Engine
	rs     *audio.Resampler
	frames int

	pcm     []int16 // encoder input waiting for a whole frame
	pending bytes.Buffer

	in    []float32
	mix   []float32
	res   []float32
	short []int16
}

func newEncoder(b Backend) *encoder {
	return &encoder{backend: b, gf: defaultFlags()}
}

func (e *encoder) close() {
	e.engine = nil
	e.rs = nil
	e.pcm = nil
	e.pending.Reset()
	e.ready = false
}

// initParams validates the flags and freezes them. 0 on success, -1 when
// the configuration cannot be encoded.
func (e *encoder) initParams() int {
	gf := &e.gf
	log := Logger()

	if gf.inSampleRate <= 0 || gf.numChannels < 1 || gf.numChannels > 2 {
		log.Debug("init_params rejected", zap.Int("in_samplerate", gf.inSampleRate), zap.Int("num_channels", gf.numChannels))
		return -1
	}

	cfg := setup{
		inRate:     gf.inSampleRate,
		outRate:    gf.outSampleRate,
		inChannels: gf.numChannels,
		mode:       gf.mode,
	}
	if cfg.outRate == 0 {
		cfg.outRate = pickRate(cfg.inRate)
	}
	if !outputRate(cfg.outRate) {
		return -1
	}

	if cfg.inChannels == 1 {
		cfg.mode = Mono
	} else if cfg.mode == NotSet {
		cfg.mode = JointStereo
	}
	cfg.outChannels = 2
	if cfg.mode == Mono {
		cfg.outChannels = 1
	}
	cfg.downmix = cfg.inChannels == 2 && cfg.outChannels == 1

	ver := mpeg.Version2
	cfg.frameSize = 576
	if cfg.outRate >= 32000 {
		ver = mpeg.Version1
		cfg.frameSize = 1152
		cfg.version = 1
	}

	cfg.bitrate = gf.brate
	if cfg.bitrate == 0 {
		cfg.bitrate = 128
	}
	if !slices.Contains(mpeg.Bitrates(ver, mpeg.Layer3), cfg.bitrate) {
		log.Debug("init_params rejected", zap.Int("brate", cfg.bitrate), zap.Int("out_samplerate", cfg.outRate))
		return -1
	}

	cfg.gains = [2]float32{float32(gf.scale * gf.scaleLeft), float32(gf.scale * gf.scaleRight)}
	if cfg.inChannels == 1 {
		cfg.gains[1] = cfg.gains[0]
	}
	cfg.scaled = cfg.gains != [2]float32{1, 1}

	engine, err := e.backend.Open(EngineConfig{
		SampleRate: cfg.outRate,
		Channels:   cfg.outChannels,
		Bitrate:    cfg.bitrate,
	})
	if err != nil {
		log.Debug("init_params backend failed", zap.Error(err))
		return -1
	}

	e.rs = nil
	if cfg.inRate != cfg.outRate {
		e.rs, err = audio.NewResampler(cfg.outChannels, cfg.inRate, cfg.outRate)
		if err != nil {
			return -1
		}
	}

	e.cfg = cfg
	e.engine = engine
	e.frames = 0
	e.pcm = e.pcm[:0]
	e.pending.Reset()
	e.ready = true

	// The frozen values are readable through the accessors.
	gf.outSampleRate = cfg.outRate
	gf.mode = cfg.mode
	gf.brate = cfg.bitrate
	gf.compressionRatio = float64(cfg.outRate*16*cfg.outChannels) / (1000 * float64(cfg.bitrate))

	log.Debug("init_params",
		zap.Int("in_samplerate", cfg.inRate),
		zap.Int("out_samplerate", cfg.outRate),
		zap.Int("channels", cfg.outChannels),
		zap.Stringer("mode", cfg.mode),
		zap.Int("brate", cfg.bitrate),
	)

	return 0
}

// inputChannels is the interleave width encode calls read.
func (e *encoder) inputChannels() int {
	if e.ready {
		return e.cfg.inChannels
	}
	return e.gf.numChannels
}

// plain reports whether short input can go straight to the engine.
func (e *encoder) plain() bool {
	return !e.cfg.scaled && !e.cfg.downmix && e.rs == nil
}

// encodeInterleaved consumes nsamples frames from src and copies whatever
// MP3 output is ready into out. Output that does not fit stays pending and
// -1 is returned.
func (e *encoder) encodeInterleaved(src []byte, f buffer.SampleFormat, nsamples int, out []byte) int {
	if !e.ready {
		return CodeNotInitialized
	}

	if nsamples > 0 {
		n := nsamples * e.cfg.inChannels
		if f == buffer.FormatS16 && e.plain() {
			e.short = slices.Grow(e.short[:0], n)[:n]
			buffer.ToInt16(e.short, src, f, n)
			e.pcm = append(e.pcm, e.short...)
		} else {
			e.in = slices.Grow(e.in[:0], n)[:n]
			buffer.ToFloat32(e.in, src, f, n)
			e.process(e.in)
		}
	}

	if err := e.encodeFrames(); err != nil {
		Logger().Error("engine failed", zap.Error(err))
		return CodePsychoAcoustic
	}
	return e.drain(out)
}

// flushNogap pads the last partial frame with silence, encodes it and
// readies the encoder for the next track.
func (e *encoder) flushNogap(out []byte) int {
	if !e.ready {
		return CodeNotInitialized
	}

	if e.rs != nil {
		e.res = e.rs.Flush(e.res[:0])
		e.appendFloat(e.res)
	}
	block := e.cfg.frameSize * e.cfg.outChannels
	if rem := len(e.pcm) % block; rem != 0 {
		e.pcm = append(e.pcm, make([]int16, block-rem)...)
	}

	if err := e.encodeFrames(); err != nil {
		Logger().Error("engine failed", zap.Error(err))
		return CodePsychoAcoustic
	}
	e.pcm = e.pcm[:0]
	if f, ok := e.engine.(Flusher); ok {
		if err := f.Flush(&e.pending); err != nil {
			Logger().Error("engine flush failed", zap.Error(err))
			return CodePsychoAcoustic
		}
	}

	return e.drain(out)
}

func (e *encoder) process(x []float32) {
	if e.cfg.scaled {
		ch := e.cfg.inChannels
		for i := range x {
			x[i] *= e.cfg.gains[i%ch]
		}
	}
	if e.cfg.downmix {
		e.mix, _ = audio.Downmix(e.mix[:0], x, e.cfg.inChannels)
		x = e.mix
	}
	if e.rs != nil {
		e.res, _ = e.rs.Process(e.res[:0], x)
		x = e.res
	}
	e.appendFloat(x)
}

func (e *encoder) appendFloat(x []float32) {
	for _, s := range x {
		e.pcm = append(e.pcm, utils.Float32ToInt16(s))
	}
}

// encodeFrames hands every whole frame of buffered PCM to the engine.
func (e *encoder) encodeFrames() error {
	block := e.cfg.frameSize * e.cfg.outChannels
	whole := len(e.pcm) / block * block
	if whole == 0 {
		return nil
	}

	if err := e.engine.Encode(&e.pending, e.pcm[:whole]); err != nil {
		return err
	}
	e.frames += whole / block
	e.pcm = append(e.pcm[:0], e.pcm[whole:]...)

	return nil
}

func (e *encoder) drain(out []byte) int {
	if e.pending.Len() > len(out) {
		return CodeBufferTooSmall
	}
	n, _ := e.pending.Read(out)
	return n
}

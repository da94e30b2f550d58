// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/lame"
	"github.com/ik5/mp3bridge/stream"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ApplyEncoder pushes the encoder section through the parameter table of
// h. It must run before InitParams.
func (e Encoder) ApplyEncoder(h *lame.Handle) error {
	type setting struct {
		name string
		v    float64
	}
	var set []setting

	if e.OutSampleRate != 0 {
		set = append(set, setting{"out_samplerate", float64(e.OutSampleRate)})
	}
	if e.Mode != "" {
		m, ok := lame.ParseMode(e.Mode)
		if !ok {
			return fmt.Errorf("config: mode %q is invalid", e.Mode)
		}
		set = append(set, setting{"mode", float64(m)})
	}
	if e.Bitrate != 0 {
		set = append(set, setting{"brate", float64(e.Bitrate)})
	}
	if e.Quality != nil {
		set = append(set, setting{"quality", float64(*e.Quality)})
	}
	if e.Scale != 0 {
		set = append(set, setting{"scale", e.Scale})
	}
	for _, name := range slices.Sorted(maps.Keys(e.Params)) {
		set = append(set, setting{name, e.Params[name]})
	}

	for _, s := range set {
		code, err := h.Set(s.name, s.v)
		if err != nil {
			return fmt.Errorf("config: setting %s: %w", s.name, err)
		}
		if code != 0 {
			return fmt.Errorf("config: encoder rejected %s = %v", s.name, s.v)
		}
	}
	return nil
}

// LameTag returns the tag to write, or nil when every field is empty.
func (t Tag) LameTag() *lame.Tag {
	if t == (Tag{}) {
		return nil
	}
	lt := lame.Tag(t)
	return &lt
}

// Merge overlays the non-empty fields of t on base.
func (t Tag) Merge(base *lame.Tag) *lame.Tag {
	if base == nil {
		return t.LameTag()
	}
	out := *base
	over := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	over(&out.Title, t.Title)
	over(&out.Artist, t.Artist)
	over(&out.Album, t.Album)
	over(&out.Year, t.Year)
	over(&out.Comment, t.Comment)
	over(&out.Genre, t.Genre)
	if t.Track != 0 {
		out.Track = t.Track
	}
	return &out
}

// EncoderConfig completes base, which describes the input, with the
// encoder section. Tag fields set in the profile replace the ones carried
// by the input.
func (c *Config) EncoderConfig(base stream.EncoderConfig) stream.EncoderConfig {
	base.Setup = c.Encoder.ApplyEncoder
	base.Tag = c.Encoder.Tag.Merge(base.Tag)
	return base
}

func (c *Config) DecoderConfig() stream.DecoderConfig {
	return stream.DecoderConfig{
		Decoder:   c.Decoder.Name,
		ChunkSize: c.Decoder.ChunkSize,
	}
}

func (c *Config) DispatchOptions(log *zap.Logger) []dispatch.Option {
	return []dispatch.Option{
		dispatch.WithMaxWorkers(c.Dispatch.MaxWorkers),
		dispatch.WithLogger(log),
	}
}

// Build creates the logger described by l.
func (l Logging) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("config: logging level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/ik5/mp3bridge/lame"
	"github.com/ik5/mp3bridge/mpeg"
	"github.com/ik5/mp3bridge/mpg123"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Load reads and validates the profile at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a profile over Default and validates it. Unknown
// keys are an error. An empty document yields Default.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem in cfg, joined.
func Validate(cfg *Config) error {
	var errs []error

	e := cfg.Encoder
	if e.OutSampleRate != 0 && !slices.Contains([]int{16000, 22050, 24000, 32000, 44100, 48000}, e.OutSampleRate) {
		errs = append(errs, fmt.Errorf("encoder.out_sample_rate %d is not an MP3 output rate", e.OutSampleRate))
	}
	if _, ok := lame.ParseMode(e.Mode); !ok {
		errs = append(errs, fmt.Errorf("encoder.mode %q is invalid; valid values: stereo, j-stereo, dual-ch, single-ch", e.Mode))
	}
	if e.Bitrate != 0 && !validBitrate(e.Bitrate) {
		errs = append(errs, fmt.Errorf("encoder.bitrate %d is not a Layer III bitrate", e.Bitrate))
	}
	if e.Quality != nil && (*e.Quality < 0 || *e.Quality > 9) {
		errs = append(errs, fmt.Errorf("encoder.quality %d is out of range [0, 9]", *e.Quality))
	}
	if e.Scale < 0 {
		errs = append(errs, fmt.Errorf("encoder.scale %.2f is negative", e.Scale))
	}
	for _, name := range slices.Sorted(maps.Keys(e.Params)) {
		p, ok := lame.LookupParam(name)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("encoder.params.%s is not an encoder parameter", name))
		case p.ReadOnly:
			errs = append(errs, fmt.Errorf("encoder.params.%s is read only", name))
		}
	}
	if e.Tag.Track < 0 || e.Tag.Track > 255 {
		errs = append(errs, fmt.Errorf("encoder.tag.track %d is out of range [0, 255]", e.Tag.Track))
	}

	if !slices.Contains(mpg123.Decoders(), cfg.Decoder.Name) {
		errs = append(errs, fmt.Errorf("decoder.name %q is unknown; valid values: %v", cfg.Decoder.Name, mpg123.Decoders()))
	}
	if cfg.Decoder.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("decoder.chunk_size %d is negative", cfg.Decoder.ChunkSize))
	}

	if cfg.Dispatch.MaxWorkers < 0 {
		errs = append(errs, fmt.Errorf("dispatch.max_workers %d is negative", cfg.Dispatch.MaxWorkers))
	}

	if _, err := zapcore.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level %q is invalid; valid values: debug, info, warn, error", cfg.Logging.Level))
	}

	return errors.Join(errs...)
}

func validBitrate(kbps int) bool {
	return slices.Contains(mpeg.Bitrates(mpeg.Version1, mpeg.Layer3), kbps) ||
		slices.Contains(mpeg.Bitrates(mpeg.Version2, mpeg.Layer3), kbps)
}

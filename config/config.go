// SPDX-License-Identifier: EPL-2.0

// Package config loads mp3bridge profiles from YAML.
package config

import (
	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/mpg123"
	"github.com/ik5/mp3bridge/stream"
)

// Config is a whole profile. Fields left out of the YAML keep the values
// of Default.
type Config struct {
	Encoder  Encoder  `yaml:"encoder"`
	Decoder  Decoder  `yaml:"decoder"`
	Dispatch Dispatch `yaml:"dispatch"`
	Logging  Logging  `yaml:"logging"`
}

// Encoder holds encoder parameters. Input rate and channel count come from
// the audio being encoded, not from the profile.
type Encoder struct {
	OutSampleRate int     `yaml:"out_sample_rate"` // 0 lets the encoder pick
	Mode          string  `yaml:"mode"`            // stereo, j-stereo, dual-ch, single-ch
	Bitrate       int     `yaml:"bitrate"`         // kbps, 0 means 128
	Quality       *int    `yaml:"quality"`         // 0 best .. 9 fastest
	Scale         float64 `yaml:"scale"`           // 0 leaves the input level alone

	// Params sets any other encoder parameter by name.
	Params map[string]float64 `yaml:"params"`

	Tag Tag `yaml:"tag"`
}

type Tag struct {
	Title   string `yaml:"title"`
	Artist  string `yaml:"artist"`
	Album   string `yaml:"album"`
	Year    string `yaml:"year"`
	Comment string `yaml:"comment"`
	Track   int    `yaml:"track"`
	Genre   string `yaml:"genre"`
}

type Decoder struct {
	Name      string `yaml:"name"`
	ChunkSize int    `yaml:"chunk_size"`
}

type Dispatch struct {
	// MaxWorkers bounds concurrent codec calls. 0 removes the bound.
	MaxWorkers int `yaml:"max_workers"`
}

type Logging struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the profile used when no file is given.
func Default() *Config {
	return &Config{
		Decoder: Decoder{
			Name:      mpg123.DefaultDecoder,
			ChunkSize: stream.DefaultChunkSize,
		},
		Dispatch: Dispatch{MaxWorkers: dispatch.DefaultMaxWorkers},
		Logging:  Logging{Level: "info"},
	}
}

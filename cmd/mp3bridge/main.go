// SPDX-License-Identifier: EPL-2.0

// Command mp3bridge encodes audio files to MP3 and decodes MP3 to WAV or
// AIFF.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ik5/mp3bridge"
	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/config"
	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/formats/aiff"
	"github.com/ik5/mp3bridge/formats/mp3"
	"github.com/ik5/mp3bridge/formats/vorbis"
	"github.com/ik5/mp3bridge/formats/wav"
	"github.com/ik5/mp3bridge/lame"
	"github.com/ik5/mp3bridge/mpeg"
	"github.com/ik5/mp3bridge/mpg123"
	"github.com/ik5/mp3bridge/stream"
	"go.uber.org/zap"
)

// errUsage reports a command line that names no valid command or misses a
// required flag.
var errUsage = errors.New("invalid usage")

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: mp3bridge encode -in <file.{wav|aif|ogg|mp3}> -out <file.mp3> [-config profile.yaml]")
	fmt.Fprintln(os.Stderr, "       mp3bridge decode -in <file.mp3> -out <file.{wav|aif}> [-config profile.yaml]")
	fmt.Fprintln(os.Stderr, "       mp3bridge info <file.mp3>")
	fmt.Fprintln(os.Stderr, "       mp3bridge decoders")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Stdout, os.Args[1:])
	switch {
	case errors.Is(err, errUsage):
		usage()
		os.Exit(2)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch cmd, args := args[0], args[1:]; cmd {
	case "encode":
		return encode(ctx, args)
	case "decode":
		return decode(ctx, args)
	case "info":
		return info(stdout, args)
	case "decoders":
		for _, name := range mpg123.Decoders() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	default:
		return errUsage
	}
}

// setup loads the profile and installs its logger in every package.
func setup(path string) (*config.Config, *zap.Logger, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, nil, err
		}
	}

	log, err := cfg.Logging.Build()
	if err != nil {
		return nil, nil, err
	}
	dispatch.SetLogger(log)
	lame.SetLogger(log)
	mpg123.SetLogger(log)
	stream.SetLogger(log)

	return cfg, log, nil
}

func ext(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func encode(ctx context.Context, args []string) (err error) {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	var (
		in      = fs.String("in", "", "Input file")
		out     = fs.String("out", "", "Output MP3 file")
		profile = fs.String("config", "", "YAML profile")
		bitrate = fs.Int("bitrate", 0, "Bitrate in kbps, overrides the profile")
		mode    = fs.String("mode", "", "stereo, j-stereo, dual-ch or single-ch")
		rate    = fs.Int("rate", 0, "Output sample rate in Hz")
		title   = fs.String("title", "", "ID3 title")
		artist  = fs.String("artist", "", "ID3 artist")
		album   = fs.String("album", "", "ID3 album")
	)
	if err := fs.Parse(args); err != nil || *in == "" || *out == "" {
		return errUsage
	}

	cfg, log, err := setup(*profile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if *bitrate != 0 {
		cfg.Encoder.Bitrate = *bitrate
	}
	if *mode != "" {
		cfg.Encoder.Mode = *mode
	}
	if *rate != 0 {
		cfg.Encoder.OutSampleRate = *rate
	}
	for dst, v := range map[*string]string{
		&cfg.Encoder.Tag.Title:  *title,
		&cfg.Encoder.Tag.Artist: *artist,
		&cfg.Encoder.Tag.Album:  *album,
	} {
		if v != "" {
			*dst = v
		}
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// MP3 input is decoded on its own loop, the encoder runs another.
	rt := stream.Start(ctx, cfg.DispatchOptions(log)...)
	defer func() { err = errors.Join(err, rt.Stop()) }()

	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("mp3", mp3.NewDecoder(ctx, rt.Dispatcher(), cfg.DecoderConfig()))

	inFile, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer inFile.Close()

	src, err := reg.Decode(ext(*in), inFile)
	if err != nil {
		return err
	}
	defer src.Close()

	outFile, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, outFile.Close()) }()

	frames, err := mp3bridge.Encode(ctx, outFile, src, cfg)
	if err != nil {
		return err
	}

	log.Info("encoded",
		zap.String("in", *in),
		zap.String("out", *out),
		zap.Int64("frames", frames),
		zap.Int("rate", src.SampleRate()),
		zap.Int("channels", src.Channels()),
	)
	return nil
}

// pcmWriter is a PCM sink that must be closed to finish its header.
type pcmWriter interface {
	mp3bridge.PCMSink
	io.Closer
}

func decode(ctx context.Context, args []string) (err error) {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	var (
		in      = fs.String("in", "", "Input MP3 file")
		out     = fs.String("out", "", "Output WAV or AIFF file")
		profile = fs.String("config", "", "YAML profile")
		name    = fs.String("decoder", "", "Decoder name, see mp3bridge decoders")
	)
	if err := fs.Parse(args); err != nil || *in == "" || *out == "" {
		return errUsage
	}

	cfg, log, err := setup(*profile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if *name != "" {
		cfg.Decoder.Name = *name
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	inFile, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer inFile.Close()

	outFile, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, outFile.Close()) }()

	var w pcmWriter
	switch ext(*out) {
	case "wav":
		w, err = wav.NewWriter(outFile, 0, 0)
	case "aif", "aiff":
		w, err = aiff.NewWriter(outFile, 0, 0)
	default:
		return fmt.Errorf("unsupported output format: %q", ext(*out))
	}
	if err != nil {
		return err
	}

	format, err := mp3bridge.Decode(ctx, w, inFile, cfg)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	log.Info("decoded",
		zap.String("in", *in),
		zap.String("out", *out),
		zap.Int("rate", format.Rate),
		zap.Int("channels", format.Channels),
	)
	return nil
}

func info(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var first *mpeg.Header
	stats, err := mpeg.NewParser(f, mpeg.HandlerFuncs{
		Header: func(h mpeg.Header, _ []byte) {
			if first == nil {
				first = &h
			}
		},
	}).Parse()
	if err != nil {
		return err
	}
	if first == nil {
		return errors.New("no MPEG frames found")
	}

	fmt.Fprintf(w, "File:     %s\n", args[0])
	fmt.Fprintf(w, "Format:   %s\n", first)
	fmt.Fprintf(w, "Frames:   %d\n", stats.Frames)
	fmt.Fprintf(w, "Duration: %s\n", stats.Duration())
	fmt.Fprintf(w, "Skipped:  %d bytes\n", stats.Skipped)
	fmt.Fprintf(w, "ID3v1:    %t\n", stats.HasID3v1)
	fmt.Fprintf(w, "ID3v2:    %t\n", stats.HasID3v2)
	return nil
}

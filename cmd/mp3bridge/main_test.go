// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/mp3bridge/formats/wav"
	"github.com/ik5/mp3bridge/mpg123"
)

func writeTone(t *testing.T, path string, rate, frames int) {
	t.Helper()

	samples := make([]int16, 2*frames)
	for i := range frames {
		v := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		samples[2*i], samples[2*i+1] = v, v
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := wav.WriteWAV16(f, rate, 2, samples); err != nil {
		t.Fatal(err)
	}
}

func TestRunPipeline(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tone.wav")
	mp3 := filepath.Join(dir, "tone.mp3")
	back := filepath.Join(dir, "back.wav")
	writeTone(t, in, 44100, 11025)

	ctx := context.Background()
	var stdout bytes.Buffer

	if err := run(ctx, &stdout, []string{"encode", "-in", in, "-out", mp3, "-bitrate", "96", "-title", "Tone"}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	if err := run(ctx, &stdout, []string{"info", mp3}); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Format:", "96kbps", "44100Hz", "ID3v1:    true"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("info output lacks %q:\n%s", want, stdout.String())
		}
	}

	if err := run(ctx, &stdout, []string{"decode", "-in", mp3, "-out", back}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	f, err := os.Open(back)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("decoded file is %d Hz %d ch", src.SampleRate(), src.Channels())
	}
}

func TestRunDecoders(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), &stdout, []string{"decoders"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), mpg123.DefaultDecoder) {
		t.Errorf("decoders = %q", stdout.String())
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	wavIn := filepath.Join(dir, "in.wav")
	writeTone(t, wavIn, 44100, 1152)
	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("not audio at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		usage bool
		want  string
	}{
		{name: "no command", args: nil, usage: true},
		{name: "unknown command", args: []string{"play"}, usage: true},
		{name: "encode without output", args: []string{"encode", "-in", wavIn}, usage: true},
		{name: "encode bad flag", args: []string{"encode", "-loud"}, usage: true},
		{name: "decode without input", args: []string{"decode", "-out", "x.wav"}, usage: true},
		{name: "info without file", args: []string{"info"}, usage: true},
		{
			name: "encode unknown extension",
			args: []string{"encode", "-in", text, "-out", filepath.Join(dir, "a.mp3")},
			want: "txt",
		},
		{
			name: "decode unknown output",
			args: []string{"decode", "-in", wavIn, "-out", filepath.Join(dir, "a.flac")},
			want: "unsupported output format",
		},
		{
			name: "encode missing input",
			args: []string{"encode", "-in", filepath.Join(dir, "none.wav"), "-out", filepath.Join(dir, "b.mp3")},
			want: "none.wav",
		},
		{name: "info on text", args: []string{"info", text}, want: "no MPEG frames"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), &bytes.Buffer{}, tt.args)
			if err == nil {
				t.Fatal("run() succeeded")
			}
			if got := errors.Is(err, errUsage); got != tt.usage {
				t.Fatalf("run() = %v, usage error %v, want %v", err, got, tt.usage)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

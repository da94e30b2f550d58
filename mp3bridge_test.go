// SPDX-License-Identifier: EPL-2.0

package mp3bridge

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/config"
	"github.com/ik5/mp3bridge/formats/wav"
	"github.com/ik5/mp3bridge/internal/audiotest"
	"github.com/ik5/mp3bridge/mpeg"
)

type bufSink struct {
	bytes.Buffer
	formats [][2]int
	err     error
}

func (s *bufSink) SetFormat(rate, channels int) error {
	s.formats = append(s.formats, [2]int{rate, channels})
	return s.err
}

func encodeTone(t *testing.T, cfg *config.Config) ([]byte, mpeg.Stats) {
	t.Helper()

	var out bytes.Buffer
	src := audiotest.NewSource(44100, 1, 22050, audiotest.Sine(44100, 440, 0.5))
	frames, err := Encode(context.Background(), &out, src, cfg)
	if err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	if frames != 22050 {
		t.Errorf("Encode() frames = %d, want 22050", frames)
	}

	stats, err := mpeg.NewParser(bytes.NewReader(out.Bytes()), nil).Parse()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Frames == 0 {
		t.Fatal("no MPEG frames written")
	}
	return out.Bytes(), stats
}

func TestEncodeDecodeWAV(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Encoder.Tag = config.Tag{Title: "Intro", Track: 2}
	mp3, stats := encodeTone(t, cfg)
	if !stats.HasID3v1 {
		t.Error("ID3v1 tag missing")
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w, err := wav.NewWriter(f, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	format, err := Decode(context.Background(), w, bytes.NewReader(mp3), nil)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if format.Rate != 44100 || format.Channels != 2 {
		t.Errorf("Decode() format = %+v, want 44100 Hz stereo", format)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("wav layout = %d Hz, %d ch", src.SampleRate(), src.Channels())
	}

	buf := make([]float32, 4096)
	var total int64
	for {
		n, err := src.ReadSamples(buf)
		total += int64(n)
		if err != nil {
			break
		}
	}
	if want := stats.Samples * 2; total != want {
		t.Errorf("wav holds %d samples, want %d", total, want)
	}

	tags := audio.TagsOf(src)
	if tags.Title != "Intro" || tags.Track != 2 {
		t.Errorf("wav tags = %+v", tags)
	}
}

func TestDecodeToBuffer(t *testing.T) {
	t.Parallel()

	mp3, stats := encodeTone(t, nil)

	var sink bufSink
	format, err := Decode(context.Background(), &sink, bytes.NewReader(mp3), nil)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if len(sink.formats) != 1 || sink.formats[0] != [2]int{format.Rate, format.Channels} {
		t.Errorf("SetFormat calls = %v, format %+v", sink.formats, format)
	}
	if want := stats.Samples * 4; int64(sink.Len()) != want {
		t.Errorf("decoded %d bytes, want %d", sink.Len(), want)
	}
}

func TestDecodeSinkFormatError(t *testing.T) {
	t.Parallel()

	mp3, _ := encodeTone(t, nil)

	errBoom := errors.New("boom")
	sink := bufSink{err: errBoom}
	if _, err := Decode(context.Background(), &sink, bytes.NewReader(mp3), nil); !errors.Is(err, errBoom) {
		t.Errorf("Decode() = %v, want %v", err, errBoom)
	}
	if sink.Len() != 0 {
		t.Errorf("sink got %d bytes after refusing the format", sink.Len())
	}
}

func TestDecodeNoFrames(t *testing.T) {
	t.Parallel()

	var sink bufSink
	format, err := Decode(context.Background(), &sink, bytes.NewReader(bytes.Repeat([]byte("junk"), 1024)), nil)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if format.Rate != 0 || sink.Len() != 0 || len(sink.formats) != 0 {
		t.Errorf("Decode() of junk = %+v, %d bytes", format, sink.Len())
	}
}

func TestEncodeRejectsLayout(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSource(44100, 3, 100, audiotest.Silence())
	var out bytes.Buffer
	if _, err := Encode(context.Background(), &out, src, nil); err == nil {
		t.Error("Encode() of three channels succeeded")
	}
	if out.Len() != 0 {
		t.Errorf("wrote %d bytes", out.Len())
	}
}

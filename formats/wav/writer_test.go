// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/mp3bridge/audio"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()

	f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriter_LateFormatRoundTrip(t *testing.T) {
	t.Parallel()

	f := tempFile(t)
	w, err := NewWriter(f, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := w.Write([]byte{0, 0}); !errors.Is(err, ErrNoFormat) {
		t.Errorf("Write() before SetFormat = %v, want ErrNoFormat", err)
	}
	if err := w.SetFormat(22050, 2); err != nil {
		t.Fatal(err)
	}

	data := pcm16(16384, -16384, 8192, -8192, 0, 32767)
	// split inside a sample and inside a frame
	for _, part := range [][]byte{data[:3], data[3:6], data[6:]} {
		if n, err := w.Write(part); err != nil || n != len(part) {
			t.Fatalf("Write(%d bytes) = %d, %v", len(part), n, err)
		}
	}

	if err := w.SetFormat(22050, 2); err != nil {
		t.Errorf("same format again = %v", err)
	}
	if err := w.SetFormat(44100, 2); !errors.Is(err, ErrFormatChanged) {
		t.Errorf("new format after samples = %v, want ErrFormatChanged", err)
	}

	// even sized INFO entries; the go-audio reader pads odd ones
	w.SetTags(audio.Tags{Title: "Intro", Artist: "Quintet", Track: 3})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("second Close() = %v", err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	src, err := Decoder{}.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Errorf("layout = %d Hz %d ch", src.SampleRate(), src.Channels())
	}

	buf := make([]float32, 16)
	n, _ := src.ReadSamples(buf)
	want := []float32{0.5, -0.5, 0.25, -0.25, 0, 32767.0 / 32768}
	if n != len(want) {
		t.Fatalf("read %d samples, want %d", n, len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, buf[i], want[i])
		}
	}

	tags := audio.TagsOf(src)
	if tags.Title != "Intro" || tags.Artist != "Quintet" || tags.Track != 3 {
		t.Errorf("tags = %+v", tags)
	}
}

func TestWriter_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewWriter(tempFile(t), 8000, 0); err == nil {
		t.Error("zero channels accepted")
	}

	w, _ := NewWriter(tempFile(t), 0, 0)
	if err := w.Close(); !errors.Is(err, ErrNoFormat) {
		t.Errorf("Close() without format = %v, want ErrNoFormat", err)
	}
	if _, err := w.Write([]byte{1, 2}); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("Write() after Close = %v", err)
	}
}

func TestWriteWAV16(t *testing.T) {
	t.Parallel()

	f := tempFile(t)
	samples := []int16{100, -100, 200, -200}
	if err := WriteWAV16(f, 8000, 1, samples); err != nil {
		t.Fatal(err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	got, rate, channels := readAll(t, f)
	if rate != 8000 || channels != 1 || len(got) != len(samples) {
		t.Fatalf("decoded %d samples at %d Hz %d ch", len(got), rate, channels)
	}
	for i, s := range samples {
		if got[i] != float32(s)/32768 {
			t.Errorf("sample %d = %v", i, got[i])
		}
	}
}

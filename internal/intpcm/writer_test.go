// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	"errors"
	"slices"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type recordEncoder struct {
	rate, channels int
	writes         int
	data           []int
	closed         bool
}

func (e *recordEncoder) Write(buf *goaudio.IntBuffer) error {
	e.writes++
	e.data = append(e.data, buf.Data...)
	return nil
}

func (e *recordEncoder) Close() error {
	e.closed = true
	return nil
}

func TestWriterKeepsPartialFrames(t *testing.T) {
	t.Parallel()

	var enc *recordEncoder
	w := NewWriter(func(rate, channels int) Encoder {
		enc = &recordEncoder{rate: rate, channels: channels}
		return enc
	})

	if _, err := w.Write([]byte{1, 0}); !errors.Is(err, ErrNoFormat) {
		t.Fatalf("Write() before format = %v", err)
	}
	if err := w.SetFormat(8000, 2); err != nil {
		t.Fatal(err)
	}

	raw := PutS16([]int16{1, -1, 2, -2, 3, -3})
	for _, part := range [][]byte{raw[:1], raw[1:5], raw[5:11], raw[11:]} {
		if n, err := w.Write(part); err != nil || n != len(part) {
			t.Fatalf("Write(%d) = %d, %v", len(part), n, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(enc.data, []int{1, -1, 2, -2, 3, -3}) {
		t.Errorf("encoded %v", enc.data)
	}
	if !enc.closed || enc.rate != 8000 || enc.channels != 2 {
		t.Errorf("encoder %+v", enc)
	}
	if rate, channels := w.Format(); rate != 8000 || channels != 2 {
		t.Errorf("Format() = %d, %d", rate, channels)
	}
}

func TestWriterChunksLargeWrites(t *testing.T) {
	t.Parallel()

	enc := &recordEncoder{}
	w := NewWriter(func(int, int) Encoder { return enc })
	if err := w.SetFormat(44100, 2); err != nil {
		t.Fatal(err)
	}

	if _, err := w.Write(make([]byte, 2*(maxChunk*2+10))); err != nil {
		t.Fatal(err)
	}
	if enc.writes != 3 || len(enc.data) != maxChunk*2+10 {
		t.Errorf("%d writes, %d samples", enc.writes, len(enc.data))
	}
}

func TestWriterStates(t *testing.T) {
	t.Parallel()

	enc := &recordEncoder{}
	w := NewWriter(func(int, int) Encoder { return enc })

	if err := w.SetFormat(0, 2); !errors.Is(err, ErrLayout) {
		t.Errorf("zero rate = %v", err)
	}
	if err := w.SetFormat(8000, 1); err != nil {
		t.Fatal(err)
	}
	// nothing written yet, so the layout may still change
	if err := w.SetFormat(16000, 1); err != nil {
		t.Errorf("change before samples = %v", err)
	}
	if _, err := w.Write(PutS16([]int16{5})); err != nil {
		t.Fatal(err)
	}
	if err := w.SetFormat(16000, 1); err != nil {
		t.Errorf("same format = %v", err)
	}
	if err := w.SetFormat(16000, 2); !errors.Is(err, ErrFormatChanged) {
		t.Errorf("change after samples = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("second Close() = %v", err)
	}

	empty := NewWriter(func(int, int) Encoder { return &recordEncoder{} })
	if err := empty.Close(); !errors.Is(err, ErrNoFormat) {
		t.Errorf("Close() without format = %v", err)
	}
}

func TestWriterHeaderOnlyClose(t *testing.T) {
	t.Parallel()

	enc := &recordEncoder{}
	w := NewWriter(func(int, int) Encoder { return enc })
	if err := w.SetFormat(8000, 1); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if enc.writes != 1 || len(enc.data) != 0 || !enc.closed {
		t.Errorf("encoder %+v, want one empty write then close", enc)
	}
}

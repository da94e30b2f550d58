// SPDX-License-Identifier: EPL-2.0

package mpg123

import (
	"bytes"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/ik5/mp3bridge/mpeg"
)

func TestDecodeWholeStream(t *testing.T) {
	t.Parallel()

	mp3 := encodeMP3(t, 44100, 8)
	frames := countFrames(t, mp3)
	if frames == 0 {
		t.Fatal("encoder produced no frames")
	}

	d := openDecoder(t)
	if code := d.feed(mp3); code != OK {
		t.Fatal(code)
	}

	total, rates := readAll(t, d, 64*1024)
	if len(rates) != 1 || rates[0] != 44100 {
		t.Errorf("formats = %v, want [44100]", rates)
	}
	if want := frames * 1152 * bytesPerSample; total != want {
		t.Errorf("decoded %d bytes, want %d", total, want)
	}
	if d.frames != frames {
		t.Errorf("frames = %d, want %d", d.frames, frames)
	}
}

func TestDecodeSmallChunks(t *testing.T) {
	t.Parallel()

	mp3 := encodeMP3(t, 44100, 6)
	frames := countFrames(t, mp3)

	tests := []struct {
		name  string
		in    int
		chunk int
	}{
		{"tiny input", 7, 4096},
		{"tiny output", len(mp3), 1000},
		{"both tiny", 13, 333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := openDecoder(t)
			total := 0
			var rates []int
			for off := 0; off < len(mp3); off += tt.in {
				d.feed(mp3[off:min(off+tt.in, len(mp3))])
				n, r := readAll(t, d, tt.chunk)
				total += n
				rates = append(rates, r...)
			}

			if want := frames * 1152 * bytesPerSample; total != want {
				t.Errorf("decoded %d bytes, want %d", total, want)
			}
			if len(rates) != 1 {
				t.Errorf("formats = %v", rates)
			}
		})
	}
}

func TestDecodeFormatChange(t *testing.T) {
	t.Parallel()

	a := encodeMP3(t, 44100, 3)
	b := encodeMP3(t, 48000, 3)

	d := openDecoder(t)
	d.feed(append(bytes.Clone(a), b...))

	total, rates := readAll(t, d, 4096)
	if len(rates) != 2 || rates[0] != 44100 || rates[1] != 48000 {
		t.Errorf("formats = %v, want [44100 48000]", rates)
	}
	if want := (countFrames(t, a) + countFrames(t, b)) * 1152 * bytesPerSample; total != want {
		t.Errorf("decoded %d bytes, want %d", total, want)
	}
}

func TestDecodeResyncsAfterCutFrame(t *testing.T) {
	t.Parallel()

	a := encodeMP3(t, 44100, 3)
	b := encodeMP3(t, 48000, 3)
	cut := a[:len(a)-3]

	d := openDecoder(t)
	d.feed(append(bytes.Clone(cut), b...))

	total, rates := readAll(t, d, 4096)
	if len(rates) != 2 || rates[0] != 44100 || rates[1] != 48000 {
		t.Errorf("formats = %v, want [44100 48000]", rates)
	}
	if want := (countFrames(t, cut) + countFrames(t, b)) * 1152 * bytesPerSample; total != want {
		t.Errorf("decoded %d bytes, want %d", total, want)
	}
	if d.scan.Skipped() == 0 {
		t.Error("cut frame was not skipped")
	}
}

func TestDecodeCollectsTags(t *testing.T) {
	t.Parallel()

	tag := id3v2.NewEmptyTag()
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle("Intro")
	tag.SetArtist("Nobody")
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding: id3v2.EncodingUTF8,
		Language: "eng",
		Text:     "hello",
	})
	var stream bytes.Buffer
	if _, err := tag.WriteTo(&stream); err != nil {
		t.Fatal(err)
	}
	v2Size := stream.Len()

	junk := []byte("xyz123")
	stream.Write(junk)
	stream.Write(encodeMP3(t, 44100, 2))
	v1 := mpeg.ID3v1{Title: "Outro", Track: 2, Genre: 17}.Encode()
	stream.Write(v1[:])

	d := openDecoder(t)
	d.feed(stream.Bytes())
	readAll(t, d, 64*1024)

	if len(d.v2) != v2Size {
		t.Fatalf("id3v2 block is %d bytes, want %d", len(d.v2), v2Size)
	}
	got2 := parseV2(d.v2)
	if got2.Version != 4 || got2.Title != "Intro" || got2.Artist != "Nobody" || got2.Comment != "hello" {
		t.Errorf("v2 = %+v", got2)
	}

	got1 := parseV1(d.v1)
	if got1.Title != "Outro" || got1.Track != 2 || got1.Genre != 17 {
		t.Errorf("v1 = %+v", got1.ID3v1)
	}
	if !bytes.Equal(got1.Raw, v1[:]) {
		t.Error("v1 raw bytes differ")
	}

	if got := d.scan.Skipped(); got != int64(len(junk)) {
		t.Errorf("skipped %d bytes, want %d", got, len(junk))
	}
}

func TestUnsupportedFramesSkipped(t *testing.T) {
	t.Parallel()

	h := mpeg.Header{Version: mpeg.Version1, Layer: mpeg.Layer2, BitrateIndex: 9, SampleRate: 44100, Mode: mpeg.Stereo}
	hdr := h.Encode()
	parsed, err := mpeg.ParseHeader(hdr[:])
	if err != nil {
		t.Fatal(err)
	}
	layer2 := make([]byte, parsed.FrameSize())
	copy(layer2, hdr[:])

	d := openDecoder(t)
	d.feed(layer2)
	d.feed(encodeMP3(t, 44100, 2))
	readAll(t, d, 64*1024)

	if d.dropped != 1 {
		t.Errorf("dropped = %d, want 1", d.dropped)
	}
	if d.frames == 0 {
		t.Error("no Layer III frame decoded")
	}
}

func TestReadBeforeOpenFeed(t *testing.T) {
	t.Parallel()

	d := newDecoder(DefaultDecoder)
	if code := d.feed([]byte{1}); code != ERR {
		t.Errorf("feed = %d, want %d", code, ERR)
	}
	if code, _, _ := d.read(make([]byte, 10)); code != ERR {
		t.Errorf("read = %d, want %d", code, ERR)
	}
}

func TestOpenFeedRestarts(t *testing.T) {
	t.Parallel()

	d := openDecoder(t)
	d.feed(encodeMP3(t, 44100, 2))
	readAll(t, d, 4096)

	d.openFeed()
	if d.format.Rate != 0 || d.frames != 0 {
		t.Errorf("state kept after OpenFeed: %+v, %d frames", d.format, d.frames)
	}

	d.feed(encodeMP3(t, 48000, 2))
	_, rates := readAll(t, d, 4096)
	if len(rates) != 1 || rates[0] != 48000 {
		t.Errorf("formats = %v, want [48000]", rates)
	}
}

func TestBackendFrameSize(t *testing.T) {
	t.Parallel()

	header := func(v mpeg.Version, idx, rate int, pad bool) mpeg.Header {
		h := mpeg.Header{Version: v, Layer: mpeg.Layer3, BitrateIndex: idx, SampleRate: rate, Padding: pad, Mode: mpeg.Stereo}
		hdr := h.Encode()
		p, err := mpeg.ParseHeader(hdr[:])
		if err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		h    mpeg.Header
		want int
	}{
		{"mpeg1 padded", header(mpeg.Version1, 9, 44100, true), 418},
		{"mpeg1 unpadded", header(mpeg.Version1, 9, 44100, false), 417},
		{"mpeg2 padded, even", header(mpeg.Version2, 8, 24000, true), 192},
		{"mpeg2 unpadded", header(mpeg.Version2, 8, 24000, false), 192},
	}

	for _, tt := range tests {
		if got := backendFrameSize(tt.h, tt.h.FrameSize()); got != tt.want {
			t.Errorf("%s: backendFrameSize() = %d, want %d (frame is %d)", tt.name, got, tt.want, tt.h.FrameSize())
		}
	}
}

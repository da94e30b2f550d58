// SPDX-License-Identifier: EPL-2.0

package mp3bridge

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/config"
	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/mpg123"
	"github.com/ik5/mp3bridge/stream"
	"go.uber.org/zap"
)

// PCMSink receives decoded PCM. SetFormat is called before the first
// bytes of every format the stream announces.
type PCMSink interface {
	io.Writer
	SetFormat(rate, channels int) error
}

// TagSink is implemented by sinks that can store tags, such as
// *wav.Writer.
type TagSink interface {
	SetTags(audio.Tags)
}

// Encode reads src to its end and writes it to w as MP3, using the
// encoder section of cfg. A nil cfg means config.Default. It returns the
// number of sample frames encoded.
//
// Encode runs its own dispatch loop and stops it before returning.
func Encode(ctx context.Context, w io.Writer, src audio.Source, cfg *config.Config) (frames int64, err error) {
	if cfg == nil {
		cfg = config.Default()
	}

	rt := stream.Start(ctx, cfg.DispatchOptions(dispatch.Logger())...)
	defer func() { err = errors.Join(err, rt.Stop()) }()

	enc, err := stream.NewEncoder(ctx, rt.Dispatcher(), w, cfg.EncoderConfig(stream.EncoderConfigFor(src)))
	if err != nil {
		return 0, err
	}

	frames, err = stream.CopySource(enc, src)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}

	dispatch.Logger().Debug("encoded",
		zap.Int64("frames", frames),
		zap.Int("rate", src.SampleRate()),
		zap.Int("channels", src.Channels()),
	)
	return frames, err
}

// sinkWriter holds the first SetFormat failure until the next Write, as
// format callbacks cannot fail.
type sinkWriter struct {
	sink PCMSink
	err  error
}

func (s *sinkWriter) setFormat(f mpg123.Format) {
	if s.err == nil {
		s.err = s.sink.SetFormat(f.Rate, f.Channels)
	}
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.sink.Write(p)
}

// Decode reads MP3 from r and writes signed 16 bit little endian PCM to
// sink. When sink is a TagSink it also gets the ID3 tags found in the
// stream. It returns the last output format, which is zero when r held no
// frames.
func Decode(ctx context.Context, sink PCMSink, r io.Reader, cfg *config.Config) (format mpg123.Format, err error) {
	if cfg == nil {
		cfg = config.Default()
	}

	rt := stream.Start(ctx, cfg.DispatchOptions(dispatch.Logger())...)
	defer func() { err = errors.Join(err, rt.Stop()) }()

	sw := &sinkWriter{sink: sink}
	dc := cfg.DecoderConfig()
	dc.OnFormat = sw.setFormat

	dec, err := stream.NewDecoder(ctx, rt.Dispatcher(), sw, dc)
	if err != nil {
		return format, err
	}
	defer func() {
		if cerr := dec.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(dec, r); err != nil {
		return dec.Format(), err
	}
	if sw.err != nil {
		return dec.Format(), fmt.Errorf("mp3bridge: sink format: %w", sw.err)
	}

	if ts, ok := sink.(TagSink); ok {
		f, err := mpg123.ID3(rt.Dispatcher(), dec.Handle())
		if err != nil {
			return dec.Format(), err
		}
		res, err := f.Await(ctx)
		if err != nil {
			return dec.Format(), err
		}
		ts.SetTags(res.Tags())
	}

	return dec.Format(), nil
}

// SPDX-License-Identifier: EPL-2.0

package mpeg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// Handler receives the pieces of a stream in order. Every slice passed is
// owned by the callee.
type Handler interface {
	OnID3v2(tag []byte)
	OnHeader(h Header, raw []byte)
	OnFrame(h Header, frame []byte)
	OnID3v1(tag []byte)
}

// HandlerFuncs adapts plain functions to Handler. Nil fields are skipped.
type HandlerFuncs struct {
	ID3v2  func(tag []byte)
	Header func(h Header, raw []byte)
	Frame  func(h Header, frame []byte)
	ID3v1  func(tag []byte)
}

func (f HandlerFuncs) OnID3v2(tag []byte) {
	if f.ID3v2 != nil {
		f.ID3v2(tag)
	}
}

func (f HandlerFuncs) OnHeader(h Header, raw []byte) {
	if f.Header != nil {
		f.Header(h, raw)
	}
}

func (f HandlerFuncs) OnFrame(h Header, frame []byte) {
	if f.Frame != nil {
		f.Frame(h, frame)
	}
}

func (f HandlerFuncs) OnID3v1(tag []byte) {
	if f.ID3v1 != nil {
		f.ID3v1(tag)
	}
}

// Stats summarises a parsed stream.
type Stats struct {
	Frames     int
	Samples    int64 // PCM frames, per channel
	SampleRate int   // of the first frame
	Bytes      int64
	Skipped    int64
	HasID3v1   bool
	HasID3v2   bool
}

// Duration is the playing time implied by Samples and SampleRate.
func (s Stats) Duration() time.Duration {
	if s.SampleRate == 0 {
		return 0
	}
	return time.Duration(s.Samples) * time.Second / time.Duration(s.SampleRate)
}

// Parser walks an MPEG audio stream and reports what it finds.
type Parser struct {
	r       io.Reader
	h       Handler
	scanner Scanner
	stats   Stats
	chunk   []byte
}

func NewParser(r io.Reader, h Handler) *Parser {
	if h == nil {
		h = HandlerFuncs{}
	}
	return &Parser{
		r:     r,
		h:     h,
		chunk: make([]byte, 16*1024),
	}
}

// Parse consumes r to its end. A trailing partial frame is counted as
// skipped.
func (p *Parser) Parse() (Stats, error) {
	for {
		n, err := p.r.Read(p.chunk)
		if n > 0 {
			_, _ = p.scanner.Write(p.chunk[:n])
			p.drain()
		}
		if errors.Is(err, io.EOF) {
			p.stats.Skipped = p.scanner.Skipped() + int64(p.scanner.Buffered())
			return p.stats, nil
		}
		if err != nil {
			return p.stats, fmt.Errorf("mpeg: reading stream: %w", err)
		}
	}
}

func (p *Parser) drain() {
	for {
		tok, ok := p.scanner.Next()
		if !ok {
			return
		}
		p.stats.Bytes += int64(len(tok.Data))

		switch tok.Kind {
		case TokenID3v2:
			p.stats.HasID3v2 = true
			p.h.OnID3v2(tok.Data)
		case TokenID3v1:
			p.stats.HasID3v1 = true
			p.h.OnID3v1(tok.Data)
		case TokenFrame:
			if p.stats.Frames == 0 {
				p.stats.SampleRate = tok.Header.SampleRate
			}
			p.stats.Frames++
			p.stats.Samples += int64(tok.Header.SamplesPerFrame())
			p.h.OnHeader(tok.Header, bytes.Clone(tok.Data[:HeaderSize]))
			p.h.OnFrame(tok.Header, tok.Data)
		}
	}
}

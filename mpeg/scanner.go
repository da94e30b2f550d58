// SPDX-License-Identifier: EPL-2.0

package mpeg

import "bytes"

// TokenKind identifies what a Scanner found.
type TokenKind int

const (
	TokenFrame TokenKind = iota
	TokenID3v2
	TokenID3v1
)

func (k TokenKind) String() string {
	switch k {
	case TokenFrame:
		return "frame"
	case TokenID3v2:
		return "id3v2"
	case TokenID3v1:
		return "id3v1"
	default:
		return "unknown"
	}
}

const (
	id3v2HeaderSize = 10
	// ID3v1Size is the fixed length of an ID3v1 block.
	ID3v1Size = 128
)

// Token is one complete unit of an MPEG audio stream. Data is owned by the
// token. Header is only set for frames.
type Token struct {
	Kind   TokenKind
	Header Header
	Data   []byte
	Offset int64 // stream offset of Data[0]
}

// Scanner splits an incrementally written MPEG audio stream into frames
// and tags. Bytes that are neither are skipped one at a time until the
// next sync. A frame is only taken when the bytes after it, if buffered,
// open another frame or a tag.
type Scanner struct {
	buf     []byte
	start   int
	offset  int64 // stream offset of buf[start]
	skipped int64
}

// Write appends p to the pending input. It never fails.
func (s *Scanner) Write(p []byte) (int, error) {
	if s.start > 0 && s.start >= len(s.buf)/2 {
		n := copy(s.buf, s.buf[s.start:])
		s.buf = s.buf[:n]
		s.start = 0
	}
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Buffered is the number of bytes waiting for a complete token.
func (s *Scanner) Buffered() int { return len(s.buf) - s.start }

// Skipped is the number of junk bytes dropped so far.
func (s *Scanner) Skipped() int64 { return s.skipped }

// Reset drops all pending input.
func (s *Scanner) Reset() {
	s.buf = s.buf[:0]
	s.start = 0
	s.offset = 0
	s.skipped = 0
}

// Next returns the next complete token. ok is false when more input is
// needed.
func (s *Scanner) Next() (tok Token, ok bool) {
	for {
		b := s.buf[s.start:]
		if len(b) < HeaderSize {
			return Token{}, false
		}

		switch {
		case bytes.HasPrefix(b, []byte("ID3")):
			if len(b) < id3v2HeaderSize {
				return Token{}, false
			}
			size := id3v2HeaderSize + syncsafe(b[6:10])
			if b[5]&0x10 != 0 {
				size += id3v2HeaderSize // footer
			}
			if len(b) < size {
				return Token{}, false
			}
			return s.emit(Token{Kind: TokenID3v2}, size), true

		case bytes.HasPrefix(b, []byte("TAG")):
			if len(b) < ID3v1Size {
				return Token{}, false
			}
			return s.emit(Token{Kind: TokenID3v1}, ID3v1Size), true

		case IsSync(b):
			h, err := ParseHeader(b)
			size := h.FrameSize()
			if err != nil || size <= HeaderSize {
				s.skip(1)
				continue
			}
			if len(b) < size {
				return Token{}, false
			}
			if !followed(b[size:]) {
				s.skip(1)
				continue
			}
			return s.emit(Token{Kind: TokenFrame, Header: h}, size), true
		}

		next := candidate(b[1:])
		if next < 0 {
			s.skip(len(b))
			return Token{}, false
		}
		s.skip(next + 1)
	}
}

// followed reports whether b, the bytes after a frame, may start with
// another frame or a tag. A sync inside frame data rarely passes this. When
// too little is buffered to tell, the frame is taken as the last one.
func followed(b []byte) bool {
	if len(b) < HeaderSize {
		return true
	}
	if bytes.HasPrefix(b, []byte("TAG")) || bytes.HasPrefix(b, []byte("ID3")) {
		return true
	}
	if !IsSync(b) {
		return false
	}
	h, err := ParseHeader(b)
	return err == nil && h.FrameSize() > HeaderSize
}

// candidate finds the next byte that may open a frame or a tag.
func candidate(b []byte) int {
	for i, c := range b {
		if c == 0xFF || c == 'I' || c == 'T' {
			return i
		}
	}
	return -1
}

func (s *Scanner) emit(tok Token, size int) Token {
	tok.Data = bytes.Clone(s.buf[s.start : s.start+size])
	tok.Offset = s.offset
	s.start += size
	s.offset += int64(size)
	return tok
}

func (s *Scanner) skip(n int) {
	s.start += n
	s.offset += int64(n)
	s.skipped += int64(n)
}

// syncsafe decodes a 28 bit integer stored in four 7 bit bytes.
func syncsafe(b []byte) int {
	return int(b[0]&0x7F)<<21 | int(b[1]&0x7F)<<14 | int(b[2]&0x7F)<<7 | int(b[3]&0x7F)
}

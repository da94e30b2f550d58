// SPDX-License-Identifier: EPL-2.0

package mpeg

import "errors"

var (
	ErrShortHeader      = errors.New("mpeg: header needs 4 bytes")
	ErrNoSync           = errors.New("mpeg: no frame sync")
	ErrReservedVersion  = errors.New("mpeg: reserved version id")
	ErrReservedLayer    = errors.New("mpeg: reserved layer id")
	ErrFreeFormat       = errors.New("mpeg: free format bitrate is not supported")
	ErrBadBitrate       = errors.New("mpeg: bad bitrate index")
	ErrBadSampleRate    = errors.New("mpeg: reserved sample rate index")
	ErrReservedEmphasis = errors.New("mpeg: reserved emphasis")
	ErrNotID3v1         = errors.New("mpeg: not an ID3v1 tag")
)

// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"errors"

	"github.com/ik5/mp3bridge/internal/intpcm"
)

var (
	// ErrNotAiffFile covers unreadable headers and compressed AIFF-C.
	ErrNotAiffFile = errors.New("not an uncompressed AIFF file")

	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")

	ErrNoFormat      = intpcm.ErrNoFormat
	ErrFormatChanged = intpcm.ErrFormatChanged
	ErrWriterClosed  = intpcm.ErrWriterClosed
)

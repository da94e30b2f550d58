// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"

	"github.com/ik5/mp3bridge/internal/intpcm"
)

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrOnlyPCMSupported     = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrNoFormat             = intpcm.ErrNoFormat
	ErrFormatChanged        = intpcm.ErrFormatChanged
	ErrWriterClosed         = intpcm.ErrWriterClosed
)

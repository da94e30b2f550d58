// SPDX-License-Identifier: EPL-2.0

package mpg123

import (
	"slices"
	"sync/atomic"
)

// DefaultDecoder is used when New is given an empty name.
const DefaultDecoder = "generic"

var (
	initialized atomic.Bool

	// Every decoder name maps onto the same pure Go backend.
	decoders = []string{DefaultDecoder}
)

// Init prepares the library. It must be called before New.
func Init() int {
	initialized.Store(true)
	Logger().Debug("library initialized")
	return OK
}

// Exit undoes Init. Existing handles keep working; New fails until the
// next Init.
func Exit() {
	initialized.Store(false)
}

// Decoders lists the decoders built into the library.
func Decoders() []string {
	return slices.Clone(decoders)
}

// SupportedDecoders lists the decoders usable on this machine.
func SupportedDecoders() []string {
	return slices.Clone(decoders)
}

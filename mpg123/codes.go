// SPDX-License-Identifier: EPL-2.0

package mpg123

import "fmt"

// Status codes. Negative values are messages, positive values errors.
const (
	OK        = 0
	ERR       = -1
	NeedMore  = -10
	NewFormat = -11
	Done      = -12

	BadOutFormat   = 1
	BadChannel     = 2
	BadRate        = 3
	BadParam       = 5
	BadBuffer      = 6
	OutOfMem       = 7
	NotInitialized = 8
	BadDecoder     = 9
	BadHandle      = 10
	OutOfSync      = 27
)

// EncSigned16 is the only output encoding: signed 16 bit native endian.
const EncSigned16 = 0xD0

var messages = map[int]string{
	OK:             "No error... (code 0)",
	ERR:            "A generic mpg123 error.",
	NeedMore:       "Message: Feed me more input data!",
	NewFormat:      "Message: Prepare for a changed audio format (query the new one)!",
	Done:           "Message: Track ended. Stop decoding.",
	BadOutFormat:   "Unable to set up output format!",
	BadChannel:     "Invalid channel number specified.",
	BadRate:        "Invalid sample rate specified.",
	BadParam:       "Bad parameter id!",
	BadBuffer:      "Bad buffer given -- invalid pointer or too small size.",
	OutOfMem:       "Out of memory -- some malloc() failed.",
	NotInitialized: "You didn't initialize the library!",
	BadDecoder:     "Invalid decoder choice.",
	BadHandle:      "Invalid mpg123 handle.",
	OutOfSync:      "Lost track in bytestream and did not try to resync.",
}

// PlainStrerror describes a status code.
func PlainStrerror(code int) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return "I have no idea - an unknown error code!"
}

// CodeError carries a status code for callers that want an error value.
type CodeError struct {
	Op   string
	Code int
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("mpg123: %s: %s (%d)", e.Op, PlainStrerror(e.Code), e.Code)
}

// CheckCode returns nil for OK and the message codes a feed loop expects
// (NeedMore, NewFormat, Done), and a *CodeError otherwise.
func CheckCode(op string, code int) error {
	switch code {
	case OK, NeedMore, NewFormat, Done:
		return nil
	}
	return &CodeError{Op: op, Code: code}
}

// SPDX-License-Identifier: EPL-2.0

package lame

import (
	"errors"
	"fmt"
)

// Return codes of the encode calls. Non-negative values are byte counts.
const (
	CodeBufferTooSmall = -1
	CodeNoMemory       = -2
	CodeNotInitialized = -3
	CodePsychoAcoustic = -4
)

var messages = map[int]string{
	CodeBufferTooSmall: "output buffer too small",
	CodeNoMemory:       "malloc() problems",
	CodeNotInitialized: "lame_init_params() not called",
	CodePsychoAcoustic: "psycho acoustic problems",
}

// ErrorMessage describes a negative encoder return code.
func ErrorMessage(code int) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return fmt.Sprintf("unknown error %d", code)
}

// CodeError is a negative encoder return code turned into an error by
// callers that want one. The binding itself hands codes back as data.
type CodeError struct {
	Op   string
	Code int
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("lame: %s: %s (%d)", e.Op, ErrorMessage(e.Code), e.Code)
}

// CheckCode returns nil for non-negative codes and a *CodeError otherwise.
func CheckCode(op string, code int) error {
	if code >= 0 {
		return nil
	}
	return &CodeError{Op: op, Code: code}
}

var (
	ErrUnknownParam = errors.New("lame: unknown parameter")
	ErrReadOnly     = errors.New("lame: parameter is read only")
	ErrNotInteger   = errors.New("lame: parameter takes an integer")
	ErrNotFinite    = errors.New("lame: parameter value is not finite")
)

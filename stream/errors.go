// SPDX-License-Identifier: EPL-2.0

package stream

import "errors"

var (
	ErrClosed     = errors.New("stream: closed")
	ErrInitParams = errors.New("stream: encoder rejected its parameters")
	ErrNoProgress = errors.New("stream: encoder output keeps growing")
)

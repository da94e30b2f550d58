// SPDX-License-Identifier: EPL-2.0

package mpg123

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger replaces the package logger. nil restores the no-op default.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

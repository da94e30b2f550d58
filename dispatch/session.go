// SPDX-License-Identifier: EPL-2.0

package dispatch

import (
	"sync/atomic"

	"github.com/ik5/mp3bridge/errs"
)

const (
	sessionIdle int32 = iota
	sessionBusy
	sessionClosed
)

var sessionSeq atomic.Uint64

// Session owns one native codec instance. At most one operation may hold
// it at a time and the native instance is released exactly once.
type Session[T any] struct {
	id      uint64
	kind    string
	state   atomic.Int32
	native  T
	release func(T) error
}

// NewSession wraps native. release may be nil.
func NewSession[T any](kind string, native T, release func(T) error) *Session[T] {
	return &Session[T]{
		id:      sessionSeq.Add(1),
		kind:    kind,
		native:  native,
		release: release,
	}
}

func (s *Session[T]) ID() uint64   { return s.id }
func (s *Session[T]) Kind() string { return s.kind }
func (s *Session[T]) Closed() bool { return s.state.Load() == sessionClosed }
func (s *Session[T]) Busy() bool   { return s.state.Load() == sessionBusy }

// Acquire marks the session busy for op and returns the native instance.
func (s *Session[T]) Acquire(op string) (T, error) {
	var zero T
	if s == nil {
		return zero, errs.Invalid(op, "nil session")
	}

	if s.state.CompareAndSwap(sessionIdle, sessionBusy) {
		return s.native, nil
	}

	return zero, s.stateErr(op)
}

// Release ends the operation started by Acquire.
func (s *Session[T]) Release() {
	s.state.CompareAndSwap(sessionBusy, sessionIdle)
}

// Do runs fn with the native instance while holding the session. It is
// used by the synchronous accessors.
func (s *Session[T]) Do(op string, fn func(T)) error {
	n, err := s.Acquire(op)
	if err != nil {
		return err
	}
	defer s.Release()

	fn(n)
	return nil
}

// Close releases the native instance. A busy session cannot be closed;
// close it from the operation's continuation instead.
func (s *Session[T]) Close() error {
	const op = "session.Close"
	if s == nil {
		return errs.Invalid(op, "nil session")
	}

	if !s.state.CompareAndSwap(sessionIdle, sessionClosed) {
		return s.stateErr(op)
	}

	n := s.native
	var zero T
	s.native = zero

	if s.release == nil {
		return nil
	}
	if err := s.release(n); err != nil {
		return errs.New(errs.PhaseSession, errs.KindNative).Op(op).Cause(err).Build()
	}
	return nil
}

func (s *Session[T]) stateErr(op string) error {
	if s.state.Load() == sessionClosed {
		return errs.New(errs.PhaseSession, errs.KindClosed).
			Op(op).
			Detail("%s session %d is closed", s.kind, s.id).
			Build()
	}
	return errs.New(errs.PhaseSession, errs.KindBusy).
		Op(op).
		Detail("%s session %d has an operation in flight", s.kind, s.id).
		Build()
}

// SPDX-License-Identifier: EPL-2.0

package errs

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase tells where in the binding the failure happened.
type Phase string

const (
	PhaseValidate Phase = "validate" // argument checks before dispatch
	PhaseSubmit   Phase = "submit"   // scheduling onto the worker pool
	PhaseWork     Phase = "work"     // inside the blocking native call
	PhaseDeliver  Phase = "deliver"  // continuation on the loop goroutine
	PhaseSession  Phase = "session"  // handle lifecycle
	PhaseConfig   Phase = "config"   // profile loading
)

// Kind categorizes the failure.
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindClosed          Kind = "closed"
	KindBusy            Kind = "busy"
	KindState           Kind = "invalid_state"
	KindPanic           Kind = "panic"
	KindContinuation    Kind = "continuation"
	KindNotFound        Kind = "not_found"
	KindUnsupported     Kind = "unsupported"
	KindNative          Kind = "native"
)

// Error is the structured error used by the binding glue. Native status
// codes travel as data and only become an Error at the stream layer.
type Error struct {
	Cause  error
	Value  any
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
	Code   int
	// HasCode distinguishes a zero native code from no code at all.
	HasCode bool
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.HasCode {
		b.WriteString(" (code ")
		b.WriteString(strconv.Itoa(e.Code))
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Phase and Kind so callers can compare against a template
// such as errs.New(errs.PhaseSession, errs.KindBusy).Build().
// An empty Phase in the target matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

func (b *Builder) Code(code int) *Builder {
	b.err.Code = code
	b.err.HasCode = true
	return b
}

func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

func (b *Builder) Build() *Error {
	return &b.err
}

// Kind-only templates for errors.Is checks.
var (
	Busy            = &Error{Kind: KindBusy}
	Closed          = &Error{Kind: KindClosed}
	OutOfBounds     = &Error{Kind: KindOutOfBounds}
	InvalidArgument = &Error{Kind: KindInvalidArgument}
	Panic           = &Error{Kind: KindPanic}
	Continuation    = &Error{Kind: KindContinuation}
)

// Invalid reports a bad argument found before dispatch.
func Invalid(op, detail string, args ...any) *Error {
	return New(PhaseValidate, KindInvalidArgument).Op(op).Detail(detail, args...).Build()
}

// Bounds reports an offset or length outside its buffer.
func Bounds(op string, offset, length, size int) *Error {
	return New(PhaseValidate, KindOutOfBounds).
		Op(op).
		Value([3]int{offset, length, size}).
		Detail("offset %d length %d exceeds buffer of %d bytes", offset, length, size).
		Build()
}

// Recovered wraps a recovered panic value.
func Recovered(phase Phase, kind Kind, op string, v any) *Error {
	b := New(phase, kind).Op(op).Value(v)
	if err, ok := v.(error); ok {
		b.Cause(err)
	} else {
		b.Detail("%v", v)
	}
	return b.Build()
}

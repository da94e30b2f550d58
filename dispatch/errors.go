// SPDX-License-Identifier: EPL-2.0

package dispatch

import "github.com/ik5/mp3bridge/errs"

var (
	ErrClosed        = errs.New(errs.PhaseSubmit, errs.KindClosed).Detail("dispatcher is closed").Build()
	ErrLoopRunning   = errs.New(errs.PhaseSubmit, errs.KindState).Detail("loop is already running").Build()
	ErrRequestState  = errs.New(errs.PhaseSubmit, errs.KindState).Detail("request was already submitted").Build()
	ErrPending       = errs.New(errs.PhaseDeliver, errs.KindState).Detail("result is not available yet").Build()
	ErrAwaitInLoop   = errs.New(errs.PhaseDeliver, errs.KindInvalidArgument).Detail("Await called on the loop goroutine").Build()
	ErrSessionBusy   = errs.New(errs.PhaseSession, errs.KindBusy).Detail("session has an operation in flight").Build()
	ErrSessionClosed = errs.New(errs.PhaseSession, errs.KindClosed).Detail("session is closed").Build()
)

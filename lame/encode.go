// SPDX-License-Identifier: EPL-2.0

package lame

import (
	"github.com/ik5/mp3bridge/buffer"
	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/errs"
)

const (
	opEncode = "lame_encode_buffer_interleaved"
	opFlush  = "lame_encode_flush_nogap"
)

// EncodeBufferInterleavedFunc encodes nsamples frames of interleaved PCM
// from in, in the given format, on a worker goroutine. Output goes to out.
// after runs on the loop goroutine with the number of bytes written or a
// negative code.
//
// Bad arguments and a busy or closed handle are reported before anything
// is scheduled. in and out must not be touched until after has run.
func EncodeBufferInterleavedFunc(d *dispatch.Dispatcher, h *Handle, in buffer.View, format buffer.SampleFormat, nsamples int, out buffer.View, after func(int, error)) error {
	if after == nil {
		return errs.Invalid(opEncode, "nil continuation")
	}
	e, err := h.acquire(opEncode)
	if err != nil {
		return err
	}

	if err := buffer.CheckSamples(opEncode, in, format, e.inputChannels(), nsamples); err != nil {
		h.session.Release()
		return err
	}

	work := func() int {
		return e.encodeInterleaved(in.Bytes(), format, nsamples, out.Bytes())
	}
	return h.submit(d, opEncode, work, after)
}

// EncodeBufferInterleaved is EncodeBufferInterleavedFunc with the result
// delivered through a Future.
func EncodeBufferInterleaved(d *dispatch.Dispatcher, h *Handle, in buffer.View, format buffer.SampleFormat, nsamples int, out buffer.View) (*dispatch.Future[int], error) {
	if d == nil {
		return nil, errs.Invalid(opEncode, "nil dispatcher")
	}
	f, resolve := dispatch.NewFuture[int](d.Loop())
	if err := EncodeBufferInterleavedFunc(d, h, in, format, nsamples, out, resolve); err != nil {
		return nil, err
	}
	return f, nil
}

// EncodeFlushNogapFunc writes the remaining output into out and prepares
// the handle for the next gapless track.
func EncodeFlushNogapFunc(d *dispatch.Dispatcher, h *Handle, out buffer.View, after func(int, error)) error {
	if after == nil {
		return errs.Invalid(opFlush, "nil continuation")
	}
	e, err := h.acquire(opFlush)
	if err != nil {
		return err
	}

	work := func() int {
		return e.flushNogap(out.Bytes())
	}
	return h.submit(d, opFlush, work, after)
}

func EncodeFlushNogap(d *dispatch.Dispatcher, h *Handle, out buffer.View) (*dispatch.Future[int], error) {
	if d == nil {
		return nil, errs.Invalid(opFlush, "nil dispatcher")
	}
	f, resolve := dispatch.NewFuture[int](d.Loop())
	if err := EncodeFlushNogapFunc(d, h, out, resolve); err != nil {
		return nil, err
	}
	return f, nil
}

func (h *Handle) acquire(op string) (*encoder, error) {
	if h == nil {
		return nil, errs.Invalid(op, "nil handle")
	}
	return h.session.Acquire(op)
}

// submit schedules work with the session held. The session is released
// before after runs, so after may start the next call or close the handle.
func (h *Handle) submit(d *dispatch.Dispatcher, op string, work func() int, after func(int, error)) error {
	req := dispatch.NewRequest(op, work, func(n int, err error) {
		h.session.Release()
		after(n, err)
	})
	if err := dispatch.Submit(d, req); err != nil {
		h.session.Release()
		return err
	}
	return nil
}

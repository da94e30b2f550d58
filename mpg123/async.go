// SPDX-License-Identifier: EPL-2.0

package mpg123

import (
	"github.com/ik5/mp3bridge/buffer"
	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/errs"
)

const (
	opFeed   = "mpg123_feed"
	opRead   = "mpg123_read"
	opDecode = "mpg123_decode"
	opID3    = "mpg123_id3"
)

// ReadResult is the payload of Read and Decode.
type ReadResult struct {
	Code      int
	Size      int  // bytes written to the output view
	NewFormat bool // query GetFormat before using further output
}

// FeedFunc appends the bytes of in to the decoder input. in must not be
// touched until after has run.
func FeedFunc(d *dispatch.Dispatcher, h *Handle, in buffer.View, after func(int, error)) error {
	return start(d, h, opFeed, after, func(dec *decoder) int {
		return dec.feed(in.Bytes())
	})
}

func Feed(d *dispatch.Dispatcher, h *Handle, in buffer.View) (*dispatch.Future[int], error) {
	return future(d, opFeed, func(after func(int, error)) error {
		return FeedFunc(d, h, in, after)
	})
}

// ReadFunc decodes into out.
func ReadFunc(d *dispatch.Dispatcher, h *Handle, out buffer.View, after func(ReadResult, error)) error {
	return start(d, h, opRead, after, func(dec *decoder) ReadResult {
		code, n, nf := dec.read(out.Bytes())
		return ReadResult{Code: code, Size: n, NewFormat: nf}
	})
}

func Read(d *dispatch.Dispatcher, h *Handle, out buffer.View) (*dispatch.Future[ReadResult], error) {
	return future(d, opRead, func(after func(ReadResult, error)) error {
		return ReadFunc(d, h, out, after)
	})
}

// DecodeFunc feeds in, which may be empty, and decodes into out.
func DecodeFunc(d *dispatch.Dispatcher, h *Handle, in, out buffer.View, after func(ReadResult, error)) error {
	return start(d, h, opDecode, after, func(dec *decoder) ReadResult {
		code, n, nf := dec.decode(in.Bytes(), out.Bytes())
		return ReadResult{Code: code, Size: n, NewFormat: nf}
	})
}

func Decode(d *dispatch.Dispatcher, h *Handle, in, out buffer.View) (*dispatch.Future[ReadResult], error) {
	return future(d, opDecode, func(after func(ReadResult, error)) error {
		return DecodeFunc(d, h, in, out, after)
	})
}

// ID3Func reports the tags seen so far in the stream.
func ID3Func(d *dispatch.Dispatcher, h *Handle, after func(ID3Result, error)) error {
	return start(d, h, opID3, after, func(dec *decoder) ID3Result {
		r := ID3Result{Code: OK}
		if dec.v1 != nil {
			r.V1 = parseV1(dec.v1)
		}
		if dec.v2 != nil {
			r.V2 = parseV2(dec.v2)
		}
		return r
	})
}

func ID3(d *dispatch.Dispatcher, h *Handle) (*dispatch.Future[ID3Result], error) {
	return future(d, opID3, func(after func(ID3Result, error)) error {
		return ID3Func(d, h, after)
	})
}

// start holds the session, submits work and releases the session before
// after runs. Nothing is scheduled when an error is returned.
func start[R any](d *dispatch.Dispatcher, h *Handle, op string, after func(R, error), work func(*decoder) R) error {
	if after == nil {
		return errs.Invalid(op, "nil continuation")
	}
	if h == nil {
		return errs.Invalid(op, "nil handle")
	}

	dec, err := h.session.Acquire(op)
	if err != nil {
		return err
	}

	req := dispatch.NewRequest(op, func() R { return work(dec) }, func(v R, err error) {
		h.session.Release()
		after(v, err)
	})
	if err := dispatch.Submit(d, req); err != nil {
		h.session.Release()
		return err
	}
	return nil
}

func future[R any](d *dispatch.Dispatcher, op string, run func(func(R, error)) error) (*dispatch.Future[R], error) {
	if d == nil {
		return nil, errs.Invalid(op, "nil dispatcher")
	}
	f, resolve := dispatch.NewFuture[R](d.Loop())
	if err := run(resolve); err != nil {
		return nil, err
	}
	return f, nil
}

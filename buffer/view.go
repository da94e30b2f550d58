// SPDX-License-Identifier: EPL-2.0

package buffer

import "github.com/ik5/mp3bridge/errs"

// View is a non-owning window over caller memory. It is handed to worker
// goroutines as is; nothing is copied.
type View struct {
	buf []byte
	off int
	n   int
}

// NewView validates offset and length against len(buf).
func NewView(buf []byte, offset, length int) (View, error) {
	if offset < 0 || length < 0 || offset > len(buf) || length > len(buf)-offset {
		return View{}, errs.Bounds("buffer.NewView", offset, length, len(buf))
	}

	return View{buf: buf, off: offset, n: length}, nil
}

// Whole covers all of buf.
func Whole(buf []byte) View {
	return View{buf: buf, n: len(buf)}
}

// From covers buf[offset:].
func From(buf []byte, offset int) (View, error) {
	return NewView(buf, offset, len(buf)-max(offset, 0))
}

// Bytes aliases the viewed region. The capacity is capped so appends never
// write past the view.
func (v View) Bytes() []byte {
	if v.buf == nil {
		return nil
	}
	return v.buf[v.off : v.off+v.n : v.off+v.n]
}

func (v View) Len() int    { return v.n }
func (v View) Offset() int { return v.off }
func (v View) IsZero() bool {
	return v.buf == nil
}

// Slice returns the sub view [from, to) relative to v.
func (v View) Slice(from, to int) (View, error) {
	if from < 0 || to < from || to > v.n {
		return View{}, errs.Bounds("buffer.View.Slice", from, to-from, v.n)
	}

	return View{buf: v.buf, off: v.off + from, n: to - from}, nil
}
